// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markdown

import (
	"bytes"
	"strings"
)

const (
	writeMarkdown = iota
	writeHTML
	writeText
)

// A printer accumulates the output of a render.
type printer struct {
	writeMode int
	buf       bytes.Buffer
	prefix    []byte // continuation prefix for new Markdown lines
	trimLimit int    // nl does not trim trailing spaces before this offset
	fresh     int    // offset at which a block needs no blank line before it
	listOut

	// HTML container compilation.
	dir   *htmlCompiler
	saved []bytes.Buffer // outputs suspended by buffer
	slurp bool           // swallow the next lineEnding
}

type listOut struct {
	bullet rune
	num    int
	loose  int
	tight  int
}

// ToHTML renders b as HTML, using the default markup for containers.
func ToHTML(b Block) string {
	return new(Renderer).ToHTML(b)
}

// Format renders b as Markdown.
func Format(b Block) string {
	var p printer
	p.fresh = -1
	b.printMarkdown(&p)
	return p.buf.String()
}

func cutLastNL(text []byte) (prefix, last []byte) {
	i := bytes.LastIndexByte(text, '\n')
	if i < 0 {
		return nil, text
	}
	return text[:i], text[i+1:]
}

// noTrim protects the output so far from trailing-space trimming.
func (p *printer) noTrim() {
	p.trimLimit = p.buf.Len()
}

// nl ends the current Markdown line and starts the next
// with the continuation prefix.
func (p *printer) nl() {
	text := p.buf.Bytes()
	n := len(text)
	for n > p.trimLimit && text[n-1] == ' ' {
		n--
	}
	p.buf.Truncate(n)
	p.buf.WriteByte('\n')
	p.buf.Write(p.prefix)
}

// maybeNL starts a new Markdown block, adding a blank line first
// when the block would otherwise read as a continuation of the
// block before it.
func (p *printer) maybeNL() {
	if p.buf.Len() == p.fresh {
		return
	}
	before, cur := cutLastNL(p.buf.Bytes())
	_, prev := cutLastNL(before)
	if p.buf.Len() > 0 && bytes.Equal(cur, p.prefix) && bytes.HasPrefix(prev, p.prefix) {
		p.nl()
	}
}

// maybeQuoteNL starts a new block quote, adding a blank line first
// when the previous line is already a quote line at this depth.
func (p *printer) maybeQuoteNL(quote byte) {
	before, cur := cutLastNL(p.buf.Bytes())
	_, prev := cutLastNL(before)
	if len(prev) >= len(cur)+1 && bytes.HasPrefix(prev, cur) && prev[len(cur)] == quote {
		p.nl()
	}
}

func (p *printer) WriteByte(c byte) error {
	if c == '\n' {
		panic("markdown: Write \\n")
	}
	return p.buf.WriteByte(c)
}

func (p *printer) Write(text []byte) (int, error) {
	if p.writeMode == writeMarkdown && bytes.IndexByte(text, '\n') >= 0 {
		panic("markdown: Write \\n")
	}
	return p.buf.Write(text)
}

func (p *printer) WriteString(s string) (int, error) {
	if p.writeMode == writeMarkdown && strings.IndexByte(s, '\n') >= 0 {
		panic("markdown: Write \\n")
	}
	return p.buf.WriteString(s)
}

// html writes raw HTML.
func (p *printer) html(list ...string) {
	if p.writeMode != writeHTML {
		panic("markdown: raw HTML in non-HTML output")
	}
	for _, s := range list {
		p.buf.WriteString(s)
	}
}

// text writes text, escaping it for HTML output.
func (p *printer) text(list ...string) {
	for _, s := range list {
		if p.writeMode == writeHTML {
			htmlEscaper.WriteString(&p.buf, s)
		} else {
			p.buf.WriteString(s)
		}
	}
}

// md writes Markdown syntax.
func (p *printer) md(list ...string) {
	if p.writeMode != writeMarkdown {
		panic("markdown: markdown in non-markdown output")
	}
	for _, s := range list {
		p.WriteString(s)
	}
}

func (p *printer) push(s string) int {
	n := len(p.prefix)
	p.prefix = append(p.prefix, s...)
	return n
}

func (p *printer) pop(n int) {
	p.prefix = p.prefix[:n]
}

// buffer suspends the current output and starts collecting
// into a fresh buffer, until the matching resume.
func (p *printer) buffer() {
	p.saved = append(p.saved, p.buf)
	p.buf = bytes.Buffer{}
}

// resume returns what was collected since the matching buffer
// and restores the suspended output.
func (p *printer) resume() string {
	if len(p.saved) == 0 {
		panic("markdown: resume without buffer")
	}
	s := p.buf.String()
	p.buf = p.saved[len(p.saved)-1]
	p.saved = p.saved[:len(p.saved)-1]
	return s
}

// lineEnding writes a newline, unless a slurp is pending,
// in which case it clears the slurp instead.
func (p *printer) lineEnding() {
	if p.slurp {
		p.slurp = false
		return
	}
	p.buf.WriteByte('\n')
}

// lineEndingIfNeeded writes a newline if the output
// does not already end with one.
func (p *printer) lineEndingIfNeeded() {
	b := p.buf.Bytes()
	if len(b) == 0 || b[len(b)-1] == '\n' {
		return
	}
	p.buf.WriteByte('\n')
}

var htmlEscaper = strings.NewReplacer(
	`"`, "&quot;",
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
)
