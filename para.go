// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markdown

import (
	"strings"
)

// An Empty is a [Block] with no content.
// The parser produces one when a paragraph turns out to hold
// only link reference definitions. It renders as nothing.
type Empty struct {
	Position
}

func (*Empty) Block() {}

func (b *Empty) printHTML(p *printer) {}

func (b *Empty) printMarkdown(*printer) {}

// A Text is a run of inline content.
// It is the content of paragraphs, headings, and directive labels,
// and stands in for a paragraph directly inside a tight list item.
type Text struct {
	Position
	Inline Inlines
}

func (*Text) Block() {}

func (b *Text) printHTML(p *printer) {
	b.Inline.printHTML(p)
}

func (b *Text) printMarkdown(p *printer) {
	b.Inline.printMarkdown(p)
}

// A Paragraph is a [Block] representing a [paragraph].
//
// [paragraph]: https://spec.commonmark.org/0.31.2/#paragraphs
type Paragraph struct {
	Position
	Text *Text
}

func (*Paragraph) Block() {}

func (b *Paragraph) printHTML(p *printer) {
	p.html("<p>")
	b.Text.printHTML(p)
	p.html("</p>\n")
}

func (b *Paragraph) printMarkdown(p *printer) {
	p.maybeNL()
	b.Text.printMarkdown(p)
}

// A paraBuilder is a [blockBuilder] for a [Paragraph].
type paraBuilder struct {
	text []string // lines, leading indentation removed
}

// startParagraph handles a line that no other starter recognized.
// It continues the open paragraph, if there is one and the line
// may continue it, or else starts a new paragraph.
func startParagraph(p *parser, s line) (line, bool) {
	b := p.para()
	if b != nil && p.lineDepth < len(p.stack)-2 && !p.lazyContinue() {
		// Some unmatched block between here and the paragraph
		// does not allow lazy lines. The line starts over.
		b = nil
	}
	if b != nil {
		for i := p.lineDepth; i < len(p.stack); i++ {
			p.stack[i].pos.EndLine = p.lineno
		}
	} else {
		b = new(paraBuilder)
		p.addBlock(b)
	}
	b.text = append(b.text, s.trimSpaceString())
	return line{}, true
}

// extend always declines: continuation lines, lazy or not,
// reach the paragraph through startParagraph once every
// other starter has had a chance to interrupt it.
func (b *paraBuilder) extend(p *parser, s line) (line, bool) {
	return s, false
}

func (b *paraBuilder) build(p *parser) Block {
	s := strings.Join(b.text, "\n")

	// Link reference definitions at the start of a paragraph
	// are definitions, not text.
	for s != "" {
		end, ok := parseLinkRefDef(p, s)
		if !ok {
			break
		}
		s = s[skipSpace(s, end):]
	}
	if s == "" {
		return &Empty{p.pos()}
	}

	pos := p.pos()
	return &Paragraph{pos, p.newText(pos, s)}
}
