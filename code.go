// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markdown

import (
	"strings"
)

// A CodeBlock is a [Block] representing an [indented code block]
// or [fenced code block], usually displayed in <pre><code> tags.
//
// Fence is empty for an indented code block.
// When printing Markdown, a fence is lengthened
// if its text appears in the code.
//
// [indented code block]: https://spec.commonmark.org/0.31.2/#indented-code-blocks
// [fenced code block]: https://spec.commonmark.org/0.31.2/#fenced-code-blocks
type CodeBlock struct {
	Position
	Fence string   // opening fence
	Info  string   // info string after the fence
	Text  []string // lines of code
}

func (*CodeBlock) Block() {}

func (b *CodeBlock) printHTML(p *printer) {
	p.html("<pre><code")
	if lang, _, _ := strings.Cut(b.Info, " "); lang != "" {
		p.html(` class="language-`)
		p.text(lang)
		p.html(`"`)
	}
	p.html(">")
	for _, s := range b.Text {
		p.text(s, "\n")
	}
	p.html("</code></pre>\n")
}

func (b *CodeBlock) printMarkdown(p *printer) {
	if b.Fence == "" {
		p.maybeNL()
		for i, s := range b.Text {
			if i > 0 {
				p.nl()
			}
			p.md("    ", s)
			p.noTrim()
		}
		return
	}

	fence := b.Fence
	for _, s := range b.Text {
		if t := trimSpaceTab(s); strings.HasPrefix(t, fence) && strings.Trim(t, fence[:1]) == "" {
			fence = strings.Repeat(fence[:1], len(t)+1)
		}
	}
	if p.tight == 0 {
		p.maybeNL()
	}
	p.md(fence, b.Info)
	for _, s := range b.Text {
		p.nl()
		p.md(s)
		p.noTrim()
	}
	p.nl()
	p.md(fence)
}

func startIndentedCodeBlock(p *parser, s line) (line, bool) {
	// An indented code block cannot interrupt a paragraph.
	t := s
	if p.para() != nil || !t.trimSpace(4, 4, false) || t.isBlank() {
		return s, false
	}
	b := new(indentBuilder)
	p.addBlock(b)
	b.text = append(b.text, t.string())
	if t.nl != '\n' {
		p.corner = true // goldmark does not normalize line endings
	}
	return line{}, true
}

// An indentBuilder is a [blockBuilder] for an indented [CodeBlock].
type indentBuilder struct {
	text []string
}

func (b *indentBuilder) extend(p *parser, s line) (line, bool) {
	// Blank lines continue the block; they may turn out to be trailing.
	if !s.trimSpace(4, 4, true) {
		return s, false
	}
	b.text = append(b.text, s.string())
	return line{}, true
}

func (b *indentBuilder) build(p *parser) Block {
	for len(b.text) > 0 && trimSpaceTab(b.text[len(b.text)-1]) == "" {
		b.text = b.text[:len(b.text)-1]
	}
	return &CodeBlock{p.pos(), "", "", b.text}
}

func startFencedCodeBlock(p *parser, s line) (line, bool) {
	indent, fence, info, ok := trimFence(s)
	if !ok {
		return s, false
	}
	if fence[0] == '~' && info != "" || info != "" && !isLetter(info[0]) {
		p.corner = true // goldmark is stricter about info strings
	}
	p.addBlock(&fenceBuilder{indent: indent, fence: fence, info: info})
	return line{}, true
}

// trimFence reports whether s is a code fence line:
// up to three spaces, then three or more backticks or tildes,
// then an optional info string.
// A backtick fence's info string cannot contain backticks.
func trimFence(s line) (indent int, fence, info string, ok bool) {
	for indent < 3 && s.trimSpace(1, 1, false) {
		indent++
	}
	c := s.peek()
	if c != '`' && c != '~' {
		return
	}
	start := s.string()
	n := 0
	for s.trim(c) {
		n++
	}
	if n < 3 {
		return
	}
	rest := s.trimString()
	if c == '`' && strings.Contains(rest, "`") {
		return
	}
	return indent, start[:n], trimSpaceTab(mdUnescape(rest)), true
}

// A fenceBuilder is a [blockBuilder] for a fenced [CodeBlock].
type fenceBuilder struct {
	indent int
	fence  string
	info   string
	text   []string
}

func (b *fenceBuilder) extend(p *parser, s line) (line, bool) {
	// The closing fence is at least as long as the opening one,
	// made of the same character, with no info string.
	if _, fence, info, ok := trimFence(s); ok && info == "" && strings.HasPrefix(fence, b.fence) {
		return line{}, false
	}
	if !s.trimSpace(b.indent, b.indent, false) {
		s.trimSpace(0, b.indent, false)
	}
	b.text = append(b.text, s.string())
	return line{}, true
}

func (b *fenceBuilder) build(p *parser) Block {
	return &CodeBlock{p.pos(), b.fence, b.info, b.text}
}
