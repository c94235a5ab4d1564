// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markdown

import (
	"strings"
	"unicode/utf8"
)

// An Inline is an inline Markdown element, one of
// [Plain], [Escaped], [Code], [Strong], [Emph], [Del],
// [Link], [AutoLink], [Image],
// [SoftBreak], [HardBreak], and [HTMLTag].
type Inline interface {
	Inline()

	printHTML(*printer)
	printText(*printer)
	printMarkdown(*printer)
}

// An Inlines is an [Inline] made of a sequence of Inlines.
type Inlines []Inline

func (Inlines) Inline() {}

func (x Inlines) printText(p *printer) {
	for _, inl := range x {
		inl.printText(p)
	}
}

func (x Inlines) printHTML(p *printer) {
	for _, inl := range x {
		inl.printHTML(p)
	}
}

func (x Inlines) printMarkdown(p *printer) {
	for _, inl := range x {
		inl.printMarkdown(p)
	}
}

// A Plain is an [Inline] holding [textual content].
//
// [textual content]: https://spec.commonmark.org/0.31.2/#textual-content
type Plain struct {
	Text string
}

func (*Plain) Inline() {}

func (x *Plain) printText(p *printer) { p.text(x.Text) }
func (x *Plain) printHTML(p *printer) { p.text(x.Text) }

func (x *Plain) printMarkdown(p *printer) {
	// Text from a parse never needs escaping here.
	// Hand-built trees may print differently than they parse.
	for i, ln := range strings.Split(x.Text, "\n") {
		if i > 0 {
			p.nl()
		}
		p.WriteString(ln)
		p.noTrim()
	}
}

// An Escaped is an [Inline] for a [backslash escaped symbol].
//
// [backslash escaped symbol]: https://spec.commonmark.org/0.31.2/#backslash-escapes
type Escaped struct {
	Plain // the symbol, without the backslash
}

func (x *Escaped) printMarkdown(p *printer) {
	p.md(`\`, x.Text)
}

// A Code is an [Inline] for a [code span].
//
// [code span]: https://spec.commonmark.org/0.31.2/#code-spans
type Code struct {
	Text string
}

func (*Code) Inline() {}

func (x *Code) printText(p *printer) { p.text(x.Text) }

func (x *Code) printHTML(p *printer) {
	p.html(`<code>`)
	p.text(x.Text)
	p.html(`</code>`)
}

func (x *Code) printMarkdown(p *printer) {
	// One more backtick than the longest run inside,
	// padded with spaces if the text starts or ends with a backtick.
	// Empty code cannot be written; it prints as a code space.
	ticks := strings.Repeat("`", maxRun(x.Text, '`')+1)
	pad := ""
	if x.Text == "" || x.Text[0] == '`' || x.Text[len(x.Text)-1] == '`' {
		pad = " "
	}
	p.md(ticks, pad, x.Text, pad, ticks)
}

// maxRun returns the length of the longest run of b in s.
func maxRun(s string, b byte) int {
	m, n := 0, 0
	for i := range len(s) {
		if s[i] != b {
			n = 0
			continue
		}
		n++
		m = max(m, n)
	}
	return m
}

// A Strong is an [Inline] for [strong emphasis].
//
// [strong emphasis]: https://spec.commonmark.org/0.31.2/#emphasis-and-strong-emphasis
type Strong struct {
	Marker string
	Inner  Inlines
}

func (*Strong) Inline() {}

func (x *Strong) printText(p *printer) { x.Inner.printText(p) }

func (x *Strong) printHTML(p *printer) {
	p.html("<strong>")
	x.Inner.printHTML(p)
	p.html("</strong>")
}

func (x *Strong) printMarkdown(p *printer) {
	p.md(x.Marker)
	x.Inner.printMarkdown(p)
	p.md(x.Marker)
}

// An Emph is an [Inline] for [emphasis].
//
// [emphasis]: https://spec.commonmark.org/0.31.2/#emphasis-and-strong-emphasis
type Emph struct {
	Marker string
	Inner  Inlines
}

func (*Emph) Inline() {}

func (x *Emph) printText(p *printer) { x.Inner.printText(p) }

func (x *Emph) printHTML(p *printer) {
	p.html("<em>")
	x.Inner.printHTML(p)
	p.html("</em>")
}

func (x *Emph) printMarkdown(p *printer) {
	p.md(x.Marker)
	x.Inner.printMarkdown(p)
	p.md(x.Marker)
}

// A Del is an [Inline] for ~~deleted~~ text,
// accepted when [Parser.Strikethrough] is set.
type Del struct {
	Marker string
	Inner  Inlines
}

func (*Del) Inline() {}

func (x *Del) printText(p *printer) { x.Inner.printText(p) }

func (x *Del) printHTML(p *printer) {
	p.html("<del>")
	x.Inner.printHTML(p)
	p.html("</del>")
}

func (x *Del) printMarkdown(p *printer) {
	p.md(x.Marker)
	x.Inner.printMarkdown(p)
	p.md(x.Marker)
}

// Parsing inlines
//
// The text is scanned once, left to right. Leaf syntax (escapes,
// entities, code spans, autolinks, raw HTML, line breaks) is turned
// into nodes as soon as it is found. Delimiter runs (* and _, plus ~
// and quotes when enabled) and link openers ([ and ![) are added as
// placeholder text nodes and recorded on the delimiter and bracket
// stacks.
//
// A ] pairs with the nearest opener on the bracket stack. If the
// pair forms a link, the delimiters inside it are resolved and the
// nodes after the opener become the link text; a link also disables
// the [ openers before it, since links do not nest. At the end of the
// text the remaining delimiters are resolved.
//
// Resolution is the CommonMark "process emphasis" procedure.
// For each closer it searches back for an opener, and remembers per
// kind of closer where a search last failed, so no stretch of the
// stack is searched twice for the same kind. That keeps inputs like
// "*a _b *c _d ..." linear.

// An inlineParser parses s[start:] into an Inline,
// returning the Inline and the offset where it ends.
// The caller has usually checked that s[start] can start one.
type inlineParser func(p *parser, s string, start int) (x Inline, end int, ok bool)

// An inlineNode is an element of an inlineList.
type inlineNode struct {
	x          Inline
	prev, next *inlineNode
}

// An inlineList is a doubly linked list of inlines under construction.
type inlineList struct {
	head, tail *inlineNode
}

func (l *inlineList) push(x Inline) *inlineNode {
	n := &inlineNode{x: x, prev: l.tail}
	if l.tail == nil {
		l.head = n
	} else {
		l.tail.next = n
	}
	l.tail = n
	return n
}

func (l *inlineList) remove(n *inlineNode) {
	if n.prev == nil {
		l.head = n.next
	} else {
		n.prev.next = n.next
	}
	if n.next == nil {
		l.tail = n.prev
	} else {
		n.next.prev = n.prev
	}
	n.prev, n.next = nil, nil
}

// between removes and returns the inlines strictly between a and b.
// A nil b means the end of the list.
func (l *inlineList) between(a, b *inlineNode) Inlines {
	var out Inlines
	for n := a.next; n != b; {
		next := n.next
		out = append(out, n.x)
		l.remove(n)
		n = next
	}
	return out
}

func (l *inlineList) all() Inlines {
	var out Inlines
	for n := l.head; n != nil; n = n.next {
		out = append(out, n.x)
	}
	return out
}

// insertAfter adds x to the list just after n.
func (l *inlineList) insertAfter(n *inlineNode, x Inline) {
	m := &inlineNode{x: x, prev: n, next: n.next}
	if n.next == nil {
		l.tail = m
	} else {
		n.next.prev = m
	}
	n.next = m
}

// A delim is an entry on the delimiter stack:
// a run of emphasis or quote markers that may still open or close.
type delim struct {
	node     *inlineNode // holds a *Plain with the unused markers
	c        byte
	run      int // length of the run as written
	canOpen  bool
	canClose bool

	prev, next *delim
}

func (d *delim) text() *Plain {
	return d.node.x.(*Plain)
}

// kind indexes the per-kind search bounds in resolve.
func (d *delim) kind() int {
	k := strings.IndexByte("*_~'\"", d.c) * 6
	if d.canOpen {
		k += 3
	}
	return k + d.run%3
}

const delimKinds = 5 * 6

// A bracket is an entry on the bracket stack: a [ or ![
// that may start a link or image.
type bracket struct {
	node   *inlineNode
	image  bool
	off    int    // offset in the text just after the opener
	bottom *delim // top of the delimiter stack when the opener was seen
	active bool   // false once a link closes around it
	prev   *bracket
}

// emit adds p.s[p.emitted:i] as plain text.
func (p *parser) emit(i int) {
	if p.emitted < i {
		p.nodes.push(&Plain{p.s[p.emitted:i]})
		p.emitted = i
	}
}

// skip marks p.s[:i] as already handled.
func (p *parser) skip(i int) {
	p.emitted = i
}

// inline parses s into Inlines.
func (p *parser) inline(s string) Inlines {
	s = trimSpaceTab(s)
	p.s = s
	p.emitted = 0
	p.nodes = inlineList{}
	p.delims = nil
	p.brackets = nil
	p.lineInfo = lineInfo{}
	p.backticks.reset()

	for off := 0; off < len(s); {
		var fn inlineParser
		switch c := s[off]; c {
		case '[':
			p.openBracket(off, off+1, false)
			off++
			continue
		case '!':
			if off+1 < len(s) && s[off+1] == '[' {
				p.openBracket(off, off+2, true)
				off += 2
				continue
			}
		case ']':
			if end, ok := p.closeBracket(off); ok {
				off = end
				continue
			}
		case '*', '_':
			off = p.delimRun(off)
			continue
		case '~':
			if p.Strikethrough {
				off = p.delimRun(off)
				continue
			}
		case '"', '\'':
			if p.SmartQuote {
				off = p.delimRun(off)
				continue
			}
		case '\\':
			fn = parseEscape
		case '`':
			fn = p.backticks.parseCodeSpan
		case '<':
			fn = parseAutoLinkOrHTML
		case '&':
			fn = parseHTMLEntity
		case '\n':
			fn = parseBreak
		case '.':
			if p.SmartDot {
				fn = parseDot
			}
		case '-':
			if p.SmartDash {
				fn = parseDash
			}
		}
		if fn != nil {
			if x, end, ok := fn(p, s, off); ok {
				p.emit(off)
				p.nodes.push(x)
				p.skip(end)
				off = end
				continue
			}
		}
		off++
	}
	p.emit(len(s))
	p.resolve(nil)
	return mergePlain(p.nodes.all())
}

// openBracket records the link opener s[start:end].
func (p *parser) openBracket(start, end int, image bool) {
	p.emit(start)
	n := p.nodes.push(&Plain{p.s[start:end]})
	p.skip(end)
	p.brackets = &bracket{node: n, image: image, off: end, bottom: p.delims, active: true, prev: p.brackets}
}

// closeBracket tries to close a link or image at the ] at s[off].
// It reports the end of the link syntax and whether there was a link.
func (p *parser) closeBracket(off int) (int, bool) {
	b := p.brackets
	if b == nil {
		return 0, false
	}
	p.brackets = b.prev
	if !b.active {
		return 0, false
	}
	link, end, ok := parseLinkClose(p, p.s, off, b.off)
	if !ok {
		return 0, false
	}

	p.emit(off)
	p.resolve(b.bottom)
	link.Inner = mergePlain(p.nodes.between(b.node, nil))
	if b.image {
		b.node.x = (*Image)(link)
	} else {
		b.node.x = link
		for q := p.brackets; q != nil; q = q.prev {
			if !q.image {
				q.active = false
			}
		}
	}
	p.skip(end)

	// Goldmark re-escapes stray percent signs as %25.
	for i := 0; i < len(link.URL); i++ {
		if link.URL[i] == '%' && (i+2 >= len(link.URL) || !isHexDigit(link.URL[i+1]) || !isHexDigit(link.URL[i+2])) {
			p.corner = true
			break
		}
	}
	return end, true
}

// delimRun adds the delimiter run starting at s[start]
// and returns its end.
func (p *parser) delimRun(start int) int {
	s := p.s
	c := s[start]
	end := start + 1
	if c != '"' && c != '\'' {
		for end < len(s) && s[end] == c {
			end++
		}
	}
	p.emit(start)
	n := p.nodes.push(&Plain{s[start:end]})
	p.skip(end)

	if c == '~' && end-start != 2 {
		// Goldmark differs on ~x~ and ~~~x~~~.
		p.corner = true
		if end-start > 2 {
			return end
		}
	}

	// Flanking, with the ends of the text counting as space.
	// https://spec.commonmark.org/0.31.2/#left-flanking-delimiter-run
	before, after := ' ', ' '
	if start > 0 {
		before, _ = utf8.DecodeLastRuneInString(s[:start])
	}
	if end < len(s) {
		after, _ = utf8.DecodeRuneInString(s[end:])
	}
	left := !isUnicodeSpace(after) && (!isUnicodePunct(after) || isUnicodeSpace(before) || isUnicodePunct(before))
	right := !isUnicodeSpace(before) && (!isUnicodePunct(before) || isUnicodeSpace(after) || isUnicodePunct(after))

	d := &delim{node: n, c: c, run: end - start, prev: p.delims}
	switch c {
	case '*', '~':
		d.canOpen, d.canClose = left, right
	case '_':
		d.canOpen = left && (!right || isUnicodePunct(before))
		d.canClose = right && (!left || isUnicodePunct(after))
	case '"', '\'':
		d.canOpen = left && !right && before != ']' && before != ')'
		d.canClose = right
	}
	if !d.canOpen && !d.canClose {
		p.fixQuote(d)
		return end
	}
	if p.delims != nil {
		p.delims.next = d
	}
	p.delims = d
	return end
}

// unlink removes d from the delimiter stack.
func (p *parser) unlink(d *delim) {
	if d.prev != nil {
		d.prev.next = d.next
	}
	if d.next != nil {
		d.next.prev = d.prev
	} else {
		p.delims = d.prev
	}
	d.prev, d.next = nil, nil
}

// drop removes the unmatched delimiter d from the stack.
func (p *parser) drop(d *delim) {
	p.fixQuote(d)
	p.unlink(d)
}

// fixQuote turns an unmatched straight quote into a curly one:
// a single quote into an apostrophe, a double quote into
// a closing quote if it could close and an opening one otherwise.
func (p *parser) fixQuote(d *delim) {
	switch d.c {
	case '\'':
		d.text().Text = "’"
	case '"':
		if d.canClose {
			d.text().Text = "”"
		} else {
			d.text().Text = "“"
		}
	}
}

// resolve matches the delimiters above bottom into emphasis,
// strikethrough, and curly quotes, and then removes them all
// from the stack.
func (p *parser) resolve(bottom *delim) {
	var first *delim
	for d := p.delims; d != bottom; d = d.prev {
		first = d
	}

	var floor [delimKinds]*delim
	for i := range floor {
		floor[i] = bottom
	}
	for closer := first; closer != nil; {
		if !closer.canClose {
			closer = closer.next
			continue
		}
		k := closer.kind()
		var opener *delim
		for o := closer.prev; o != bottom && o != floor[k]; o = o.prev {
			if o.c == closer.c && o.canOpen && pairs(o, closer) {
				opener = o
				break
			}
		}
		if opener == nil {
			floor[k] = closer.prev
			next := closer.next
			if !closer.canOpen {
				p.drop(closer)
			}
			closer = next
			continue
		}
		closer = p.match(opener, closer)
	}

	for p.delims != bottom {
		p.drop(p.delims)
	}
}

// pairs reports whether opener and closer,
// two runs of the same marker, can be matched.
func pairs(opener, closer *delim) bool {
	switch opener.c {
	case '~':
		return len(opener.text().Text) == len(closer.text().Text)
	case '*', '_':
		// Rule 9: when either run can both open and close,
		// the run lengths must not sum to a multiple of 3
		// unless both are multiples of 3.
		if (opener.canClose || closer.canOpen) && (opener.run+closer.run)%3 == 0 {
			return opener.run%3 == 0 && closer.run%3 == 0
		}
	}
	return true
}

// match pairs opener with closer and returns
// the next closer to consider.
func (p *parser) match(opener, closer *delim) *delim {
	if closer.c == '"' || closer.c == '\'' {
		if closer.c == '"' {
			opener.text().Text, closer.text().Text = "“", "”"
		} else {
			opener.text().Text, closer.text().Text = "‘", "’"
		}
		next := closer.next
		p.unlink(opener)
		p.unlink(closer)
		return next
	}

	open, shut := opener.text(), closer.text()
	use := 1
	if len(open.Text) >= 2 && len(shut.Text) >= 2 {
		use = 2
	}
	marker := open.Text[len(open.Text)-use:]
	open.Text = open.Text[:len(open.Text)-use]
	shut.Text = shut.Text[use:]

	// Delimiters between the pair can no longer match.
	for d := closer.prev; d != opener; {
		prev := d.prev
		p.drop(d)
		d = prev
	}

	inner := mergePlain(p.nodes.between(opener.node, closer.node))
	var x Inline
	switch {
	case closer.c == '~':
		x = &Del{Marker: marker, Inner: inner}
	case use == 2:
		x = &Strong{Marker: marker, Inner: inner}
	default:
		x = &Emph{Marker: marker, Inner: inner}
	}
	p.nodes.insertAfter(opener.node, x)
	if open.Text == "" {
		p.nodes.remove(opener.node)
		p.unlink(opener)
	}
	if shut.Text == "" {
		next := closer.next
		p.nodes.remove(closer.node)
		p.unlink(closer)
		return next
	}
	return closer
}

// mergePlain joins adjacent Plain inlines in list.
func mergePlain(list Inlines) Inlines {
	out := list[:0]
	var b strings.Builder
	var run *Plain
	flush := func() {
		if run != nil {
			if b.Len() > 0 {
				run = &Plain{run.Text + b.String()}
				b.Reset()
			}
			if run.Text != "" {
				out = append(out, run)
			}
			run = nil
		}
	}
	for _, x := range list {
		pl, ok := x.(*Plain)
		if !ok {
			flush()
			out = append(out, x)
			continue
		}
		if run == nil {
			run = pl
		} else {
			b.WriteString(pl.Text)
		}
	}
	flush()
	return out
}

// parseEscape is an [inlineParser] for an [Escaped] symbol,
// or a [HardBreak] written as a backslash before a newline.
func parseEscape(p *parser, s string, start int) (x Inline, end int, ok bool) {
	if start+1 >= len(s) {
		return nil, 0, false
	}
	switch c := s[start+1]; {
	case isPunct(c):
		return &Escaped{Plain{s[start+1 : start+2]}}, start + 2, true
	case c == '\n':
		if start > 0 && s[start-1] == '\\' {
			p.corner = true // goldmark mishandles \\\ newline
		}
		return &HardBreak{}, start + 2, true
	}
	return nil, 0, false
}

// parseAutoLinkOrHTML is an [inlineParser] for an [AutoLink] or an
// inline [HTMLTag]. The caller has checked that s[start] == '<'.
func parseAutoLinkOrHTML(p *parser, s string, start int) (x Inline, end int, ok bool) {
	if x, end, ok = parseAutoLinkURI(s, start); ok {
		return
	}
	if x, end, ok = parseAutoLinkEmail(s, start); ok {
		return
	}
	return parseHTMLTag(p, s, start)
}

// parseDot is the [Parser.SmartDot] [inlineParser]: ... becomes an ellipsis.
func parseDot(p *parser, s string, i int) (x Inline, end int, ok bool) {
	if strings.HasPrefix(s[i:], "...") {
		return &Plain{"…"}, i + 3, true
	}
	return
}

// parseDash is the [Parser.SmartDash] [inlineParser]:
// -- becomes an en dash and --- an em dash.
// Longer runs follow cmark-gfm, preferring em dashes,
// then en dashes, and never mixing in a hyphen.
func parseDash(p *parser, s string, i int) (x Inline, end int, ok bool) {
	n := 0
	for i+n < len(s) && s[i+n] == '-' {
		n++
	}
	if n < 2 {
		return
	}
	var em, en int
	switch {
	case n%3 == 0:
		em = n / 3
	case n%2 == 0:
		en = n / 2
	case n%3 == 2:
		em, en = (n-2)/3, 1
	default:
		em, en = (n-4)/3, 2
	}
	return &Plain{strings.Repeat("—", em) + strings.Repeat("–", en)}, i + n, true
}

// maxBackticks bounds the length of a code span's backtick string,
// as in cmark-gfm. The bound lets backtickParser remember
// every run length it has seen.
const maxBackticks = 80

// A backtickParser finds code spans in one text.
//
// A failed search for a closing run scans to the end of the text.
// Repeating that for each opening run would be quadratic on inputs
// like "` `` ``` ```` ...", so the first failed search records the
// last offset of every run length, and later searches consult the
// record before scanning.
type backtickParser struct {
	last    [maxBackticks]int // last[n-1] is the offset of the last run of n backticks
	scanned bool              // whether last is filled in
}

func (b *backtickParser) reset() {
	*b = backtickParser{}
}

// parseCodeSpan is an [inlineParser] for a [Code].
// A run of backticks with no matching run after it is plain text.
func (b *backtickParser) parseCodeSpan(p *parser, s string, start int) (x Inline, end int, ok bool) {
	n := 1
	for start+n < len(s) && s[start+n] == '`' {
		n++
	}
	if n <= maxBackticks && (!b.scanned || b.last[n-1] >= start+n) {
		for i := start + n; i < len(s); {
			if s[i] != '`' {
				i++
				continue
			}
			j := i
			for i < len(s) && s[i] == '`' {
				i++
			}
			m := i - j
			if !b.scanned && m <= maxBackticks {
				b.last[m-1] = j
			}
			if m != n {
				continue
			}
			text := strings.ReplaceAll(s[start+n:j], "\n", " ")
			if len(text) >= 2 && text[0] == ' ' && text[len(text)-1] == ' ' && trimSpaceTab(text) != "" {
				text = text[1 : len(text)-1]
			}
			return &Code{text}, i, true
		}
		b.scanned = true
	}
	return &Plain{s[start : start+n]}, start + n, true
}
