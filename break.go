// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markdown

// A ThematicBreak is a [Block] representing a [thematic break],
// usually displayed as a horizontal rule (<hr> tag).
//
// [thematic break]: https://spec.commonmark.org/0.31.2/#thematic-breaks
type ThematicBreak struct {
	Position
}

func (*ThematicBreak) Block() {}

func (b *ThematicBreak) printHTML(p *printer) {
	p.html("<hr />\n")
}

func (b *ThematicBreak) printMarkdown(p *printer) {
	p.maybeNL()
	p.md("***")
}

func startThematicBreak(p *parser, s line) (line, bool) {
	if !isThematicBreak(s) {
		return s, false
	}
	p.doneBlock(&ThematicBreak{Position{p.lineno, p.lineno}})
	return line{}, true
}

// isThematicBreak reports whether s is a thematic break:
// three or more matching -, _, or * characters,
// optionally separated by spaces or tabs.
func isThematicBreak(s line) bool {
	s.trimSpace(0, 3, false)
	c := s.peek()
	if c != '-' && c != '_' && c != '*' {
		return false
	}
	n := 0
	for s.trim(c) {
		n++
		s.skipSpace()
	}
	return n >= 3 && s.eof()
}

// A HardBreak is an [Inline] representing a hard line break (<br> tag).
type HardBreak struct{}

func (*HardBreak) Inline() {}

func (x *HardBreak) printHTML(p *printer) {
	p.html("<br />\n")
}

func (x *HardBreak) printMarkdown(p *printer) {
	p.md(`\`)
	p.nl()
}

func (x *HardBreak) printText(p *printer) {
	p.text("\n")
}

// A SoftBreak is an [Inline] representing a soft line break.
type SoftBreak struct{}

func (*SoftBreak) Inline() {}

func (x *SoftBreak) printHTML(p *printer) {
	p.html("\n")
}

func (x *SoftBreak) printMarkdown(p *printer) {
	p.nl()
}

func (x *SoftBreak) printText(p *printer) {
	p.text("\n")
}

// parseBreak is an [inlineParser] for a [SoftBreak] or [HardBreak].
// The caller has checked that s[start] is a newline.
func parseBreak(p *parser, s string, start int) (x Inline, end int, ok bool) {
	// Trailing spaces and tabs before the newline are dropped.
	i := start
	for i > 0 && isSpaceTab(s[i-1]) {
		i--
	}
	if i < start {
		p.emit(i)
		p.skip(start)
	}
	if start >= 2 && s[start-1] == ' ' && s[start-2] == ' ' {
		return &HardBreak{}, start + 1, true
	}
	return &SoftBreak{}, start + 1, true
}
