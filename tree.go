// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markdown

import (
	"strings"
)

// newDirective builds the Directive for a closed container
// from its event stream and the blocks parsed from its content.
func newDirective(p *parser, syntax ContainerSyntax, events []Event) *Directive {
	d := &Directive{
		Position:   p.pos(),
		Syntax:     syntax,
		Blocks:     p.blocks(),
		Events:     events,
		Attributes: collectAttributes(events),
	}
	var label *Token
	var text string
	walkEvents(events, func(*Token) {}, func(t *Token) {
		switch t.Kind {
		case TokenName:
			d.Name = t.Text
		case TokenLabel:
			label = t
		case TokenLabelString:
			text = t.Text
		}
	})
	if label != nil {
		d.Label = p.newText(Position{label.Start.Line, label.End.Line}, text)
	}
	return d
}

func (b *Directive) printMarkdown(p *printer) {
	p.maybeNL()
	fence := strings.Repeat(":", minFence+directiveDepth(b.Blocks))
	p.md(fence)
	b.printHeader(p)
	if len(b.Blocks) > 0 {
		p.nl()
		p.fresh = p.buf.Len()
		printMarkdownBlocks(b.Blocks, p)
	}
	p.nl()
	p.md(fence)
}

// printHeader prints the part of the opening fence after the colons.
func (b *Directive) printHeader(p *printer) {
	switch {
	case b.Syntax.Keyword == "":
		p.md(b.Name)
		if b.Label != nil {
			p.md("[")
			b.Label.printMarkdown(p)
			p.md("]")
		}
		if b.Syntax.Attributes {
			printAttributesMarkdown(p, b.Attributes)
		}
	case b.Syntax.Title && b.Label != nil && len(b.Label.Inline) > 0:
		p.md(b.Syntax.Keyword, " ")
		b.Label.printMarkdown(p)
	default:
		p.md(b.Syntax.Keyword)
	}
}

// directiveDepth returns how deeply directives nest in bs:
// 0 if bs holds none, 1 if none of those hold further directives, and so on.
// An enclosing fence must be longer than every fence inside it.
func directiveDepth(bs []Block) int {
	depth := 0
	for _, b := range bs {
		var d int
		switch b := b.(type) {
		case *Directive:
			d = 1 + directiveDepth(b.Blocks)
		case *Quote:
			d = directiveDepth(b.Blocks)
		case *List:
			d = directiveDepth(b.Items)
		case *Item:
			d = directiveDepth(b.Blocks)
		}
		depth = max(depth, d)
	}
	return depth
}
