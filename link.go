// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markdown

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yuin/goldmark/util"
	"golang.org/x/text/cases"
)

// A Link is an [Inline] for a [link] (<a> tag).
//
// [link]: https://spec.commonmark.org/0.31.2/#links
type Link struct {
	Inner     Inlines
	URL       string
	Title     string
	TitleChar byte // ', " or ), the character that ended the title
}

// An Image is an [Inline] for an [image] (<img> tag).
// It has the same layout as [Link], and the parser
// converts between the two.
//
// [image]: https://spec.commonmark.org/0.31.2/#images
type Image struct {
	Inner     Inlines
	URL       string
	Title     string
	TitleChar byte
}

// htmlURL returns u percent-encoded and escaped
// for use in an HTML attribute.
func htmlURL(u string) string {
	return string(util.EscapeHTML(util.URLEscape([]byte(u), false)))
}

func (*Link) Inline() {}

func (x *Link) printHTML(p *printer) {
	p.html(`<a href="`, htmlURL(x.URL), `"`)
	if x.Title != "" {
		p.html(` title="`, htmlEscaper.Replace(x.Title), `"`)
	}
	p.html(">")
	x.Inner.printHTML(p)
	p.html("</a>")
}

func (x *Link) printMarkdown(p *printer) {
	p.WriteByte('[')
	x.Inner.printMarkdown(p)
	p.WriteString("](")
	p.WriteString(markdownDest(x.URL))
	printLinkTitleMarkdown(p, x.Title, x.TitleChar)
	p.WriteByte(')')
}

func (x *Link) printText(p *printer) {
	x.Inner.printText(p)
}

// markdownDest returns u written as a link destination.
func markdownDest(u string) string {
	u = mdLinkEscaper.Replace(u)
	if u == "" || strings.Contains(u, " ") {
		u = "<" + u + ">"
	}
	return u
}

// printLinkTitleMarkdown prints a link title, if any,
// with a leading space and in the quotes it was written with.
func printLinkTitleMarkdown(p *printer, title string, titleChar byte) {
	if title == "" {
		return
	}
	open, shut := titleChar, titleChar
	switch titleChar {
	case 0:
		open, shut = '\'', '\''
	case ')':
		open = '('
	}
	p.WriteString(" ")
	p.WriteByte(open)
	for i, ln := range strings.Split(mdEscaper.Replace(title), "\n") {
		if i > 0 {
			p.nl()
		}
		p.WriteString(ln)
		p.noTrim()
	}
	p.WriteByte(shut)
}

func (*Image) Inline() {}

func (x *Image) printHTML(p *printer) {
	p.html(`<img src="`, htmlURL(x.URL), `" alt="`)
	// The alt text is the plain text of the description,
	// on one line.
	start := p.buf.Len()
	x.printText(p)
	b := p.buf.Bytes()
	for i := start; i < len(b); i++ {
		if b[i] == '\n' {
			b[i] = ' '
		}
	}
	p.html(`"`)
	if x.Title != "" {
		p.html(` title="`)
		p.text(x.Title)
		p.html(`"`)
	}
	p.html(` />`)
}

func (x *Image) printMarkdown(p *printer) {
	p.WriteString("!")
	(*Link)(x).printMarkdown(p)
}

func (x *Image) printText(p *printer) {
	x.Inner.printText(p)
}

// parseLinkClose parses what follows the ] at s[start]
// for a link whose text began at s[textStart]:
// an inline destination and title, a [label] reference,
// or nothing, making the text itself the reference.
// It returns the link (without its text) and the end of the syntax.
func parseLinkClose(p *parser, s string, start, textStart int) (*Link, int, bool) {
	i := start + 1
	if i < len(s) && s[i] == '(' {
		if link, end, ok := parseInlineDest(p, s, i); ok {
			return link, end, true
		}
	}
	if i < len(s) && s[i] == '[' {
		label, end, ok := parseLinkLabel(p, s, i)
		if ok {
			// [text][label]: an unknown label does not fall back
			// to the text, as in the CommonMark dingus.
			if link := p.link(normalizeLabel(label)); link != nil {
				return &Link{URL: link.URL, Title: link.Title}, end, true
			}
			return nil, 0, false
		}
	}

	// [text][] or [text].
	end := i
	if strings.HasPrefix(s[end:], "[]") {
		end += 2
	}
	if link := p.link(normalizeLabel(s[textStart:start])); link != nil {
		return &Link{URL: link.URL, Title: link.Title}, end, true
	}
	return nil, 0, false
}

// parseInlineDest parses "(dest title)" at s[i:].
// Both the destination and the title may be omitted.
func parseInlineDest(p *parser, s string, i int) (*Link, int, bool) {
	i = skipSpace(s, i+1)
	link := new(Link)
	if i < len(s) && s[i] != ')' {
		var ok bool
		link.URL, i, ok = parseLinkDest(s, i)
		if !ok {
			return nil, 0, false
		}
		i = skipSpace(s, i)
		if i < len(s) && s[i] != ')' {
			link.Title, link.TitleChar, i, ok = parseLinkTitle(s, i)
			if !ok {
				return nil, 0, false
			}
			if link.Title == "" {
				p.corner = true
			}
			i = skipSpace(s, i)
		}
	}
	if i >= len(s) || s[i] != ')' {
		return nil, 0, false
	}
	return link, i + 1, true
}

// printLinks prints the link reference definitions in links,
// sorted by label.
func printLinks(p *printer, links map[string]*Link) {
	var keys []string
	for k := range links {
		if k != "" {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		l := links[k]
		u := l.URL
		if u == "" || strings.Contains(u, " ") {
			u = "<" + u + ">"
		}
		fmt.Fprintf(p, "[%s]: %s", k, u)
		printLinkTitleMarkdown(p, l.Title, l.TitleChar)
		p.nl()
	}
}

// parseLinkRefDef parses a [link reference definition] at the start
// of s and records it in p. It returns the length of the definition,
// including its final newline, and whether there was one.
//
// [link reference definition]: https://spec.commonmark.org/0.31.2/#link-reference-definitions
func parseLinkRefDef(p *parser, s string) (int, bool) {
	label, i, ok := parseLinkLabel(p, s, skipSpace(s, 0))
	if !ok || i >= len(s) || s[i] != ':' {
		return 0, false
	}
	i = skipSpace(s, i+1)
	if strings.HasPrefix(s[i:], "<<") {
		p.corner = true // goldmark accepts <<> as a destination
	}
	dest, i, ok := parseLinkDest(s, i)
	if !ok {
		return 0, false
	}

	// A title must be separated from the destination by space,
	// and nothing else may follow it on its line.
	// If that fails, the definition ends without a title.
	j := i
	for j < len(s) && isSpaceTab(s[j]) {
		j++
	}
	sep := j > i
	if j < len(s) && s[j] == '\n' {
		sep = true
		j++
	}
	var title string
	var titleChar byte
	if sep && j < len(s) {
		j = skipSpace(s, j)
		if t, c, k, ok := parseLinkTitle(s, j); ok {
			for k < len(s) && isSpaceTab(s[k]) {
				k++
			}
			if k >= len(s) || s[k] == '\n' {
				if t == "" {
					p.corner = true // goldmark writes title=""
				}
				title, titleChar, i = t, c, k
			}
		}
	}
	for i < len(s) && isSpaceTab(s[i]) {
		i++
	}
	if i < len(s) && s[i] != '\n' {
		return 0, false
	}
	if i < len(s) {
		i++
	}

	label = normalizeLabel(label)
	if p.link(label) == nil {
		p.defineLink(label, &Link{URL: dest, Title: title, TitleChar: titleChar})
	}
	return i, true
}

// parseLinkTitle parses a [link title] at s[i:], returning the
// unescaped title, the character that ended it (" ' or )),
// and the offset just past it.
//
// [link title]: https://spec.commonmark.org/0.31.2/#link-title
func parseLinkTitle(s string, i int) (title string, char byte, end int, found bool) {
	if i >= len(s) {
		return "", 0, 0, false
	}
	want := s[i]
	switch want {
	case '"', '\'':
	case '(':
		want = ')'
	default:
		return "", 0, 0, false
	}
	for j := i + 1; j < len(s); j++ {
		switch {
		case s[j] == want:
			return mdUnescape(s[i+1 : j]), want, j + 1, true
		case s[j] == '(' && want == ')':
			return "", 0, 0, false
		case s[j] == '\\' && j+1 < len(s):
			j++
		}
	}
	return "", 0, 0, false
}

// parseLinkLabel parses a [link label] at s[i:], returning
// the label without brackets and the offset just past it.
// A label has no unescaped brackets, at most 999 bytes,
// and at least one byte that is not space.
//
// [link label]: https://spec.commonmark.org/0.31.2/#link-label
func parseLinkLabel(p *parser, s string, i int) (string, int, bool) {
	if i >= len(s) || s[i] != '[' {
		return "", 0, false
	}
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '[':
			return "", 0, false
		case '\\':
			j++
		case ']':
			if j-(i+1) > 999 {
				p.corner = true // goldmark has no length limit
				return "", 0, false
			}
			label := trimSpaceTabNewline(s[i+1 : j])
			if label == "" {
				return "", 0, false
			}
			return label, j + 1, true
		}
	}
	return "", 0, false
}

// normalizeLabel returns the key for the link label s:
// case-folded, trimmed, with internal space collapsed.
// Labels with brackets match nothing and normalize to "".
func normalizeLabel(s string) string {
	if strings.ContainsAny(s, "[]") {
		return ""
	}
	var b strings.Builder
	ascii := true
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' }) {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		for i := 0; i < len(f); i++ {
			c := f[i]
			if 'A' <= c && c <= 'Z' {
				c += 'a' - 'A'
			}
			if c >= 0x80 {
				ascii = false
			}
			b.WriteByte(c)
		}
	}
	if ascii {
		return b.String()
	}
	return cases.Fold().String(b.String())
}

// parseLinkDest parses a [link destination] at s[i:],
// returning the unescaped destination and the offset just past it.
//
// [link destination]: https://spec.commonmark.org/0.31.2/#link-destination
func parseLinkDest(s string, i int) (string, int, bool) {
	if i >= len(s) {
		return "", 0, false
	}

	// <dest> with no newlines or unescaped < or >.
	if s[i] == '<' {
		for j := i + 1; j < len(s); j++ {
			switch s[j] {
			case '\n', '<':
				return "", 0, false
			case '>':
				return mdUnescape(s[i+1 : j]), j + 1, true
			case '\\':
				j++
			}
		}
		return "", 0, false
	}

	// Otherwise a run of non-space bytes whose unescaped parentheses
	// balance, nested at most 32 deep as in cmark-gfm.
	depth := 0
	j := i
Loop:
	for ; j < len(s); j++ {
		switch s[j] {
		case '(':
			if depth++; depth > 32 {
				return "", 0, false
			}
		case ')':
			if depth == 0 {
				break Loop
			}
			depth--
		case '\\':
			if j+1 < len(s) {
				if isSpaceTab(s[j+1]) {
					return "", 0, false
				}
				j++
			}
		case ' ', '\t', '\n':
			break Loop
		}
	}
	if depth != 0 {
		return "", 0, false
	}
	return mdUnescape(s[i:j]), j, true
}

// An AutoLink is an [Inline] for an [autolink]:
// an absolute URI or an email address in < >.
//
// [autolink]: https://spec.commonmark.org/0.31.2/#autolinks
type AutoLink struct {
	Text string
	URL  string
}

func (*AutoLink) Inline() {}

func (x *AutoLink) printHTML(p *printer) {
	p.html(`<a href="`, htmlURL(x.URL), `">`)
	p.text(x.Text)
	p.html(`</a>`)
}

func (x *AutoLink) printMarkdown(p *printer) {
	fmt.Fprintf(p, "<%s>", x.Text)
}

func (x *AutoLink) printText(p *printer) {
	p.text(x.Text)
}

// parseAutoLinkURI parses a URI autolink at s[i:]:
// a scheme of 2 to 32 letters, digits, +, ., or -, starting
// with a letter, then a colon and bytes other than
// controls, space, <, and >.
// The caller has checked that s[i] == '<'.
func parseAutoLinkURI(s string, i int) (x Inline, end int, ok bool) {
	j := i + 1
	if j >= len(s) || !isLetter(s[j]) {
		return
	}
	for j < len(s) && isScheme(s[j]) {
		j++
	}
	if n := j - (i + 1); n < 2 || n > 32 || j >= len(s) || s[j] != ':' {
		return
	}
	for j++; j < len(s) && isURL(s[j]); j++ {
	}
	if j >= len(s) || s[j] != '>' {
		return
	}
	u := s[i+1 : j]
	return &AutoLink{u, u}, j + 1, true
}

// parseAutoLinkEmail parses an email autolink at s[i:],
// using the address syntax of the HTML standard's email input.
// The caller has checked that s[i] == '<'.
func parseAutoLinkEmail(s string, i int) (x Inline, end int, ok bool) {
	j := i + 1
	for j < len(s) && isUser(s[j]) {
		j++
	}
	if j == i+1 || j >= len(s) || s[j] != '@' {
		return
	}
	for {
		j++
		n, ok := domainElem(s[j:])
		if !ok {
			return nil, 0, false
		}
		j += n
		if j >= len(s) {
			return nil, 0, false
		}
		if s[j] == '>' {
			break
		}
		if s[j] != '.' {
			return nil, 0, false
		}
	}
	email := s[i+1 : j]
	return &AutoLink{email, "mailto:" + email}, j + 1, true
}

// domainElem returns the length of the domain label at the start of s:
// up to 63 letters, digits, and hyphens, starting and ending
// with a letter or digit.
func domainElem(s string) (int, bool) {
	if s == "" || !isLetterDigit(s[0]) {
		return 0, false
	}
	n := 1
	for n < len(s) && n < 64 && isLDH(s[n]) {
		n++
	}
	for n > 1 && s[n-1] == '-' {
		n--
	}
	if n > 63 {
		return 0, false
	}
	return n, true
}

// isUser reports whether c may appear in the user part of an email autolink.
func isUser(c byte) bool {
	return isLetterDigit(c) || strings.IndexByte(".!#$%&'*+/=?^_`{|}~-", c) >= 0
}

// isScheme reports whether c may appear in a URI scheme.
func isScheme(c byte) bool {
	return isLetterDigit(c) || c == '+' || c == '.' || c == '-'
}

// isURL reports whether c may appear in a URI autolink.
func isURL(c byte) bool {
	return c > ' ' && c < 0x7f && c != '<' && c != '>' || c >= 0x80
}
