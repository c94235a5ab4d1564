// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markdown

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark/util"
)

// An HTMLBlock is a [Block] representing an [HTML block].
// Its lines are passed through unchanged.
//
// [HTML block]: https://spec.commonmark.org/0.31.2/#html-blocks
type HTMLBlock struct {
	Position
	Text []string // lines, without line endings
}

func (*HTMLBlock) Block() {}

func (b *HTMLBlock) printHTML(p *printer) {
	for _, s := range b.Text {
		p.html(s, "\n")
	}
}

func (b *HTMLBlock) printMarkdown(p *printer) {
	p.maybeNL()
	for i, s := range b.Text {
		if i > 0 {
			p.nl()
		}
		p.WriteString(s)
		p.noTrim()
	}
}

// An htmlBuilder is a [blockBuilder] for an [HTMLBlock].
// A block of types 1 through 5 ends after the line containing its
// end marker; types 6 and 7 end before the next blank line.
type htmlBuilder struct {
	end  func(string) bool // nil for types 6 and 7
	text []string
}

func (b *htmlBuilder) extend(p *parser, s line) (line, bool) {
	if b.end == nil && s.isBlank() {
		return s, false
	}
	t := s.string()
	b.text = append(b.text, t)
	if b.end != nil && b.end(t) {
		return line{}, false
	}
	return line{}, true
}

func (b *htmlBuilder) build(p *parser) Block {
	return &HTMLBlock{p.pos(), b.text}
}

// An HTMLTag is an [Inline] for [raw HTML].
//
// [raw HTML]: https://spec.commonmark.org/0.31.2/#raw-html
type HTMLTag struct {
	Text string
}

func (*HTMLTag) Inline() {}

func (x *HTMLTag) printHTML(p *printer) {
	p.html(x.Text)
}

func (x *HTMLTag) printMarkdown(p *printer) {
	for i, s := range strings.Split(x.Text, "\n") {
		if i > 0 {
			p.nl()
		}
		p.WriteString(s)
		p.noTrim()
	}
}

func (x *HTMLTag) printText(p *printer) {}

// startHTMLBlock is the [starter] for an [HTMLBlock].
func startHTMLBlock(p *parser, s line) (line, bool) {
	u := s
	u.trimSpace(0, 3, false)
	if u.peek() != '<' {
		return s, false
	}
	t := u.string()

	end, ok := htmlBlockEnd(p, t)
	if !ok {
		return s, false
	}
	b := &htmlBuilder{end: end}
	p.addBlock(b)
	b.text = append(b.text, s.string())
	if end != nil && end(t) {
		p.closeBlock()
	}
	return line{}, true
}

// htmlBlockEnd reports whether t, a line starting with <,
// starts an HTML block, and returns the block's end condition.
func htmlBlockEnd(p *parser, t string) (end func(string) bool, ok bool) {
	// Type 1: <pre, <script, <style, or <textarea,
	// ended by any of their closing tags.
	if name := leadingName(t[1:]); isRawTag(name) && (len(t) == 1+len(name) || strings.IndexByte(" \t>", t[1+len(name)]) >= 0) {
		return hasRawClose, true
	}

	// Types 2 through 5: fixed start and end markers.
	// Declarations (type 5) need an upper-case letter,
	// as in every implementation, though only a letter is required.
	for _, m := range [...]struct{ start, end string }{
		{"<!--", "-->"},
		{"<?", "?>"},
		{"<![CDATA[", "]]>"},
	} {
		if strings.HasPrefix(t, m.start) {
			return func(s string) bool { return strings.Contains(s, m.end) }, true
		}
	}
	if len(t) >= 3 && t[1] == '!' && 'A' <= t[2] && t[2] <= 'Z' {
		return func(s string) bool { return strings.Contains(s, ">") }, true
	}

	// Type 6: a known block tag name, open or closing,
	// followed by space, tab, >, />, or end of line.
	i := 1
	if len(t) > 1 && t[1] == '/' {
		i = 2
	}
	if name := leadingName(t[i:]); isBlockTag(name) {
		rest := t[i+len(name):]
		if rest == "" || rest[0] == ' ' || rest[0] == '>' || strings.HasPrefix(rest, "/>") {
			return nil, true
		}
		if rest[0] == '\t' {
			p.corner = true // goldmark wants a space
			return nil, true
		}
	}

	// Type 7: any complete tag alone on its line.
	// It cannot interrupt a paragraph.
	if p.para() != nil {
		return nil, false
	}
	if _, j, ok := parseHTMLOpenTag(p, t, 0); ok && skipSpace(t, j) == len(t) {
		if j != len(t) {
			p.corner = true // goldmark rejects trailing space
		}
		return nil, true
	}
	if _, j, ok := parseHTMLClosingTag(p, t, 0); ok && skipSpace(t, j) == len(t) {
		return nil, true
	}
	return nil, false
}

// leadingName returns the run of ASCII letters and digits
// at the start of s.
func leadingName(s string) string {
	i := 0
	for i < len(s) && i < 16 && isLetterDigit(s[i]) {
		i++
	}
	return s[:i]
}

func isRawTag(name string) bool {
	switch strings.ToLower(name) {
	case "pre", "script", "style", "textarea":
		return true
	}
	return false
}

// hasRawClose reports whether s contains </pre>, </script>,
// </style>, or </textarea>, in any case.
func hasRawClose(s string) bool {
	for i := 0; i+2 < len(s); i++ {
		if s[i] != '<' || s[i+1] != '/' {
			continue
		}
		name := leadingName(s[i+2:])
		if isRawTag(name) && strings.HasPrefix(s[i+2+len(name):], ">") {
			return true
		}
	}
	return false
}

func isBlockTag(name string) bool {
	if name == "" {
		return false
	}
	_, ok := blockTags[strings.ToLower(name)]
	return ok
}

// blockTags are the tag names that start an HTML block of type 6.
var blockTags = make(map[string]struct{})

func init() {
	for _, name := range strings.Fields(`
		address article aside base basefont blockquote body caption center col colgroup
		dd details dialog dir div dl dt fieldset figcaption figure footer form frame frameset
		h1 h2 h3 h4 h5 h6 head header hr html iframe legend li link main menu menuitem
		nav noframes ol optgroup option p param search section summary table tbody td
		tfoot th thead title tr track ul`) {
		blockTags[name] = struct{}{}
	}
}

// parseHTMLTag is an [inlineParser] for an [HTMLTag]: an open tag,
// closing tag, comment, processing instruction, declaration, or
// CDATA section. The caller has checked that s[start] is '<'.
func parseHTMLTag(p *parser, s string, start int) (x Inline, end int, ok bool) {
	if len(s)-start < 3 {
		return
	}
	switch s[start+1] {
	case '/':
		return parseHTMLClosingTag(p, s, start)
	case '?':
		return parseHTMLMarker(p, s, start, "<?", "?>", &p.noProcInstEnd)
	case '!':
		switch {
		case strings.HasPrefix(s[start:], "<!-->"):
			return &HTMLTag{"<!-->"}, start + 5, true
		case strings.HasPrefix(s[start:], "<!--->"):
			return &HTMLTag{"<!--->"}, start + 6, true
		case strings.HasPrefix(s[start:], "<!--"):
			return parseHTMLMarker(p, s, start, "<!--", "-->", &p.noCommentEnd)
		case strings.HasPrefix(s[start:], "<![CDATA["):
			return parseHTMLMarker(p, s, start, "<![CDATA[", "]]>", &p.noCDATAEnd)
		case isLetter(s[start+2]):
			if 'a' <= s[start+2] && s[start+2] <= 'z' {
				p.corner = true // goldmark requires upper case
			}
			return parseHTMLMarker(p, s, start, "<!", ">", &p.noDeclEnd)
		}
		return
	}
	return parseHTMLOpenTag(p, s, start)
}

// parseHTMLOpenTag parses an open tag at s[i:]:
// <, a tag name, attributes, optional space, an optional /, and >.
func parseHTMLOpenTag(p *parser, s string, i int) (x Inline, end int, ok bool) {
	j, ok := parseTagName(s, i+1)
	if !ok {
		return nil, 0, false
	}
	if isRawTag(s[i+1 : j]) {
		p.corner = true // goldmark starts an HTML block here
	}
	for j < len(s) && strings.IndexByte(" \t\n", s[j]) >= 0 {
		k, ok := parseAttr(s, skipSpace(s, j))
		if !ok {
			break
		}
		j = k
	}
	if k := skipSpace(s, j); k != j {
		p.corner = true // goldmark mishandles space before >
		j = k
	}
	if j < len(s) && s[j] == '/' {
		j++
	}
	if j >= len(s) || s[j] != '>' {
		return nil, 0, false
	}
	return &HTMLTag{s[i : j+1]}, j + 1, true
}

// parseHTMLClosingTag parses a closing tag at s[i:]:
// </, a tag name, optional space, and >.
func parseHTMLClosingTag(p *parser, s string, i int) (x Inline, end int, ok bool) {
	if !strings.HasPrefix(s[i:], "</") {
		return nil, 0, false
	}
	if skipSpace(s, i+2) != i+2 {
		p.corner = true // goldmark allows space after </
	}
	j, ok := parseTagName(s, i+2)
	if !ok {
		return nil, 0, false
	}
	j = skipSpace(s, j)
	if j >= len(s) || s[j] != '>' {
		return nil, 0, false
	}
	return &HTMLTag{s[i : j+1]}, j + 1, true
}

// parseTagName parses a tag name at s[i:]: an ASCII letter
// followed by letters, digits, and hyphens.
func parseTagName(s string, i int) (end int, ok bool) {
	if i >= len(s) || !isLetter(s[i]) {
		return 0, false
	}
	for i++; i < len(s) && isLDH(s[i]); i++ {
	}
	return i, true
}

// parseAttr parses an HTML attribute at s[i:]:
// a name, optionally followed by = and a value.
func parseAttr(s string, i int) (end int, ok bool) {
	if i >= len(s) || !isLetter(s[i]) && s[i] != '_' && s[i] != ':' {
		return 0, false
	}
	j := i + 1
	for j < len(s) && (isLDH(s[j]) || strings.IndexByte("_.:", s[j]) >= 0) {
		j++
	}
	k := skipSpace(s, j)
	if k >= len(s) || s[k] != '=' {
		return j, true
	}
	k = skipSpace(s, k+1)
	if k < len(s) && (s[k] == '\'' || s[k] == '"') {
		n := strings.IndexByte(s[k+1:], s[k])
		if n < 0 {
			return j, true
		}
		return k + 1 + n + 1, true
	}
	v := k
	for v < len(s) && strings.IndexByte(" \t\n\"'=<>`", s[v]) < 0 {
		v++
	}
	if v == k {
		return j, true
	}
	return v, true
}

// parseHTMLMarker parses raw HTML that runs from prefix to suffix,
// such as a comment. A failed search for suffix sets *failed,
// so that later searches on the same text give up at once.
func parseHTMLMarker(p *parser, s string, start int, prefix, suffix string, failed *bool) (x Inline, end int, ok bool) {
	if *failed || !strings.HasPrefix(s[start:], prefix) {
		return
	}
	i := strings.Index(s[start+len(prefix):], suffix)
	if i < 0 {
		*failed = true
		if suffix != ">" {
			// No > at all means no declaration either.
			if !strings.Contains(s[start:], ">") {
				p.noDeclEnd = true
			}
		}
		return
	}
	end = start + len(prefix) + i + len(suffix)
	return &HTMLTag{s[start:end]}, end, true
}

// parseHTMLEntity is an [inlineParser] for a character reference:
// &name;, &#123;, or &#x7B;.
func parseHTMLEntity(_ *parser, s string, start int) (x Inline, end int, ok bool) {
	if strings.HasPrefix(s[start:], "&#") {
		i := start + 2
		base, limit := 10, 7
		if i < len(s) && (s[i] == 'x' || s[i] == 'X') {
			base, limit = 16, 6
			i++
		}
		j := i
		for j < len(s) && (base == 10 && isDigit(s[j]) || base == 16 && isHexDigit(s[j])) {
			j++
		}
		if j == i || j-i > limit || j >= len(s) || s[j] != ';' {
			return
		}
		r, _ := strconv.ParseInt(s[i:j], base, 32)
		if r == 0 || r > unicode.MaxRune {
			r = unicode.ReplacementChar
		}
		return &Plain{string(rune(r))}, j + 1, true
	}

	// Entity names are at most 32 bytes.
	for j := start + 1; j < len(s) && j-start < 40; j++ {
		c := s[j]
		if c == ';' {
			if e, ok := util.LookUpHTML5EntityByName(s[start+1 : j]); ok {
				return &Plain{string(e.Characters)}, j + 1, true
			}
			return
		}
		if !isLetterDigit(c) {
			return
		}
	}
	return
}
