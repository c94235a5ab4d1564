// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markdown

// A ContainerSyntax describes the opening line of a colon-fenced container.
//
// Every container opens with three or more colons and optional spaces.
// What follows depends on the syntax:
//
//	:::name[label]{#id .class key="value"}   DirectiveSyntax
//	:::spoiler                               SpoilerSyntax
//	::: spoiler Some title                   LemmySpoilerSyntax
type ContainerSyntax struct {
	// Keyword, if set, is the only name accepted, matched exactly.
	// Otherwise any name is accepted: a letter followed by letters,
	// digits, hyphens, and underscores, not ending in a hyphen or underscore.
	Keyword string

	Label      bool // accept a [label] after the name
	Attributes bool // accept {attributes} after the label

	// Title makes the rest of the line after the keyword a free-text
	// title, which is treated as the label. Title requires Keyword.
	Title bool
}

var (
	// DirectiveSyntax accepts generic container directives.
	DirectiveSyntax = ContainerSyntax{Label: true, Attributes: true}

	// SpoilerSyntax accepts only ":::spoiler".
	SpoilerSyntax = ContainerSyntax{Keyword: "spoiler"}

	// LemmySpoilerSyntax accepts ":::spoiler" followed by an optional title,
	// as written on Lemmy.
	LemmySpoilerSyntax = ContainerSyntax{Keyword: "spoiler", Title: true}
)

// A Directive is a [Block] representing a colon-fenced container.
//
// Its content is ordinary Markdown, so Blocks may hold
// further directives nested to any depth.
type Directive struct {
	Position
	Syntax     ContainerSyntax
	Name       string     // name, or the keyword for keyword syntaxes
	Label      *Text      // label or title; nil if the opening line has none
	Attributes Attributes // decoded attributes, in order of first appearance
	Blocks     []Block    // content

	// Events is the token stream for the container itself:
	// fences, label, attributes, and one chunk per content line.
	// Nested directives keep their own events.
	Events []Event
}

func (*Directive) Block() {}

// startContainer is the [starter] for colon-fenced containers.
func startContainer(p *parser, s line) (line, bool) {
	if len(p.Containers) == 0 {
		return s, false
	}
	t := s
	indent := 0
	for indent < 3 && t.trimSpace(1, 1, false) {
		indent++
	}
	if t.spaces > 0 || t.peek() != ':' {
		return s, false
	}
	for i := range p.Containers {
		syn := &p.Containers[i]
		h, ok := scanOpening(t.text[t.i:], syn, p.lineno, t.i)
		if !ok {
			continue
		}
		p.addBlock(&containerBuilder{
			syntax:    *syn,
			indent:    indent,
			size:      h.size,
			events:    h.events,
			container: h.container,
		})
		return line{}, true
	}
	return s, false
}

// A containerBuilder is a [blockBuilder] for a [Directive].
type containerBuilder struct {
	syntax    ContainerSyntax
	indent    int // indentation of the opening fence
	size      int // colons in the opening fence
	events    []Event
	container *Token // open until build
	content   *Token // open from the first content line until the close
	end       Pos    // end of the last line seen
	closed    bool
}

// concrete makes containers refuse lazy paragraph continuation.
func (b *containerBuilder) concrete() {}

func (b *containerBuilder) extend(p *parser, s line) (line, bool) {
	if b.closed {
		return s, false
	}
	if fence, ok := scanClosing(s, p.lineno, b.size); ok {
		b.exitContent()
		b.events = append(b.events, fence...)
		b.end = fence[len(fence)-1].Token.End
		b.closed = true
		return line{}, false
	}

	s.trimSpace(0, b.indent, true)
	start := Pos{Line: p.lineno, Col: s.i + 1, Offset: s.i}
	b.end = Pos{Line: p.lineno, Col: len(s.text) + 1, Offset: len(s.text)}
	if b.content == nil {
		b.content = &Token{Kind: TokenContent, Start: start}
		b.events = append(b.events, Event{Enter: true, Token: b.content})
	}
	chunk := &Token{Kind: TokenChunk, Start: start, End: b.end, Text: s.string()}
	b.events = append(b.events, Event{Enter: true, Token: chunk}, Event{Enter: false, Token: chunk})
	return s, true
}

// exitContent closes the content token, if one is open.
func (b *containerBuilder) exitContent() {
	if b.content == nil || b.content.End.Line != 0 {
		return
	}
	b.content.End = b.end
	b.events = append(b.events, Event{Enter: false, Token: b.content})
}

func (b *containerBuilder) build(p *parser) Block {
	// A container left open by the end of its parent
	// ends with its last content line.
	b.exitContent()
	if b.end.Line == 0 {
		b.end = b.events[len(b.events)-1].Token.End
	}
	b.container.End = b.end
	b.events = append(b.events, Event{Enter: false, Token: b.container})
	return newDirective(p, b.syntax, b.events)
}
