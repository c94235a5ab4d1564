// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markdown

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shurcooL/sanitized_anchor_name"
)

// A Heading is a [Block] representing an [ATX heading] or
// [Setext heading], usually displayed with the <h1> through <h6> tags.
//
// [ATX heading]: https://spec.commonmark.org/0.31.2/#atx-headings
// [Setext heading]: https://spec.commonmark.org/0.31.2/#setext-headings
type Heading struct {
	Position

	// Level is the heading level, 1 through 6.
	// Other values are clamped to that range when printing.
	Level int

	Text *Text

	// ID is the HTML id attribute.
	// The parser sets it from a trailing "{#id}" when [Parser.HeadingIDs]
	// is enabled, and from the heading text when [Parser.AutoHeadingIDs] is.
	ID string
}

func (*Heading) Block() {}

func (b *Heading) level() int {
	return max(1, min(6, b.Level))
}

func (b *Heading) printHTML(p *printer) {
	fmt.Fprintf(p, "<h%d", b.level())
	if b.ID != "" {
		p.html(` id="`, htmlEscaper.Replace(b.ID), `"`)
	}
	p.html(">")
	b.Text.printHTML(p)
	fmt.Fprintf(p, "</h%d>\n", b.level())
}

func (b *Heading) printMarkdown(p *printer) {
	p.maybeNL()
	p.md(strings.Repeat("#", b.level()), " ")
	b.Text.printMarkdown(p)
	if b.ID != "" {
		p.md(" {#", b.ID, "}")
	}
}

func startATXHeading(p *parser, s line) (line, bool) {
	level, ok := trimATX(&s)
	if !ok {
		return s, false
	}
	text := trimRightSpaceTab(s.string())

	// A closing run of #s must follow a space or tab
	// (or be the whole heading).
	if inner := strings.TrimRight(text, "#"); inner == "" || inner != trimRightSpaceTab(inner) {
		text = inner
	}

	var id string
	if p.HeadingIDs {
		text, id = trimHeadingID(p, text)
	}

	pos := Position{p.lineno, p.lineno}
	p.doneBlock(&Heading{pos, level, p.newText(pos, text), id})
	return line{}, true
}

// trimHeadingID splits a trailing "{#id}" off s.
// Without one it returns s, "".
func trimHeadingID(p *parser, s string) (text, id string) {
	i := strings.LastIndexByte(s, '{')
	if i < 0 || !strings.HasPrefix(s[i:], "{#") {
		return s, ""
	}
	j := strings.IndexByte(s[i:], '}')
	if j < 0 || trimRightSpaceTab(s[i+j+1:]) != "" {
		return s, ""
	}
	id = strings.TrimSpace(s[i+2 : i+j])
	if id == "" {
		p.corner = true // goldmark accepts {#}
		return s, ""
	}
	for k := 0; k < len(id); k++ {
		if !isLetterDigit(id[k]) {
			p.corner = true // goldmark is stricter about ids
			break
		}
	}
	return s[:i], id
}

// trimATX removes an ATX heading marker (up to three spaces,
// one to six #s, and a space, tab, or end of line) from s,
// reporting the heading level.
func trimATX(s *line) (level int, ok bool) {
	t := *s
	t.trimSpace(0, 3, false)
	for level < 6 && t.trim('#') {
		level++
	}
	if level == 0 || !t.trimSpace(1, 1, true) {
		return 0, false
	}
	*s = t
	return level, true
}

// startSetextHeading turns the open paragraph into a heading
// when s is an underline of = or - characters.
func startSetextHeading(p *parser, s line) (line, bool) {
	if p.para() == nil || p.nextB() != p.para() {
		return s, false
	}
	level, ok := setextLevel(s)
	if !ok {
		return s, false
	}

	// The paragraph may turn out to be only link reference definitions,
	// in which case there is nothing to underline.
	p.closeBlock()
	para, ok := p.last().(*Paragraph)
	if !ok {
		return s, false
	}
	p.deleteLast()
	p.doneBlock(&Heading{Position{para.StartLine, p.lineno}, level, para.Text, ""})
	return line{}, true
}

// setextLevel reports the heading level of the underline s:
// 1 for a run of =, 2 for a run of -.
func setextLevel(s line) (int, bool) {
	s.trimSpace(0, 3, false)
	c := s.peek()
	if c != '=' && c != '-' {
		return 0, false
	}
	for s.trim(c) {
	}
	s.skipSpace()
	if !s.eof() {
		return 0, false
	}
	if c == '=' {
		return 1, true
	}
	return 2, true
}

// autoHeadingIDs gives every heading in bs without an id one derived
// from its text. Repeated ids get a numeric suffix.
func autoHeadingIDs(bs []Block) {
	seen := make(map[string]int)
	walkBlocks(bs, func(b Block) {
		h, ok := b.(*Heading)
		if !ok {
			return
		}
		if h.ID != "" {
			seen[h.ID]++
			return
		}
		var p printer
		p.writeMode = writeText
		h.Text.Inline.printText(&p)
		id := sanitized_anchor_name.Create(p.buf.String())
		if n := seen[id]; n > 0 {
			seen[id]++
			id += "-" + strconv.Itoa(n)
		}
		seen[id]++
		h.ID = id
	})
}

// walkBlocks calls f for each block in bs and all blocks nested inside them.
func walkBlocks(bs []Block, f func(Block)) {
	for _, b := range bs {
		f(b)
		switch b := b.(type) {
		case *Quote:
			walkBlocks(b.Blocks, f)
		case *List:
			walkBlocks(b.Items, f)
		case *Item:
			walkBlocks(b.Blocks, f)
		case *Directive:
			walkBlocks(b.Blocks, f)
		}
	}
}
