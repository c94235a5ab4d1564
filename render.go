// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markdown

import (
	"strings"
)

// A Renderer renders documents as HTML,
// calling handlers to produce the markup for directives.
//
// For each directive, the renderer tries the handler registered
// under the directive's name, then the handler registered under "*".
// If neither exists, or both decline, the renderer applies the
// Default fallback.
//
// The zero Renderer renders every directive with [FallbackMarkup].
type Renderer struct {
	Handlers map[string]Handler
	Default  Fallback
}

// A Handler writes the HTML for a directive.
// It returns false to decline, in which case anything it wrote is
// discarded and the next handler in the chain is tried.
type Handler func(w *HTMLWriter, c *Container) bool

// A Fallback says what a [Renderer] does with a directive
// that no handler accepts.
type Fallback int

const (
	// FallbackMarkup renders the directive as an element named after it:
	// <name attrs>content</name>. Keyword containers such as
	// spoilers render as <details>, with the title as the <summary>.
	FallbackMarkup Fallback = iota

	// FallbackDrop renders nothing for the directive or its content.
	FallbackDrop
)

// A Container is what a [Handler] sees of a directive:
// its name, label, and attributes, and its content already
// rendered as HTML.
type Container struct {
	Keyword    string // keyword of a keyword syntax, or ""
	Name       string // directive name; equal to Keyword for keyword syntaxes
	Label      string // label or title, rendered as HTML
	HasLabel   bool   // whether the opening line had a label, possibly empty
	Attributes Attributes
	Content    string // content, rendered as HTML

	fences int // fences seen: 1 after the opening fence, 2 after the closing one
	attrs  attrCollector
}

// An HTMLWriter is the output of a [Handler].
type HTMLWriter struct {
	p *printer
}

// Tag writes markup.
func (w *HTMLWriter) Tag(s string) {
	w.p.html(s)
}

// Raw writes already-rendered HTML, such as [Container.Content].
func (w *HTMLWriter) Raw(s string) {
	w.p.html(s)
}

// LineEndingIfNeeded writes a newline unless the output
// is empty or already ends in one.
func (w *HTMLWriter) LineEndingIfNeeded() {
	w.p.lineEndingIfNeeded()
}

// Encode escapes s for use as HTML text or as a quoted attribute value.
func (w *HTMLWriter) Encode(s string) string {
	return htmlEscaper.Replace(s)
}

// ToHTML renders b as HTML.
func (r *Renderer) ToHTML(b Block) string {
	var p printer
	p.writeMode = writeHTML
	p.dir = &htmlCompiler{r: r}
	b.printHTML(&p)
	p.dir.done()
	return p.buf.String()
}

// handle writes the markup for c, trying the handler chain
// and then the fallback.
func (r *Renderer) handle(p *printer, c *Container) {
	w := &HTMLWriter{p}
	for _, name := range []string{c.Name, "*"} {
		h := r.Handlers[name]
		if h == nil {
			continue
		}
		p.buffer()
		ok := h(w, c)
		out := p.resume()
		if ok {
			p.html(out)
			return
		}
	}
	if r.Default == FallbackMarkup {
		defaultMarkup(w, c)
	}
}

// defaultMarkup is the [FallbackMarkup] rendering.
func defaultMarkup(w *HTMLWriter, c *Container) {
	if c.Keyword != "" {
		w.Tag("<details>")
		if c.HasLabel {
			w.Tag("<summary>")
			w.Raw(c.Label)
			w.Tag("</summary>")
		}
		if c.Content != "" {
			if !c.HasLabel {
				w.LineEndingIfNeeded()
			}
			w.Raw(c.Content)
			w.LineEndingIfNeeded()
		}
		w.Tag("</details>")
		return
	}

	var b strings.Builder
	b.WriteString("<" + c.Name)
	for _, a := range c.Attributes {
		b.WriteString(" " + w.Encode(a.Name) + `="` + w.Encode(a.Value) + `"`)
	}
	b.WriteString(">")
	w.Tag(b.String())

	// Without content, the label is the element's text.
	// Void elements have no text.
	void := voidElements[c.Name]
	switch {
	case c.Content != "":
		w.LineEndingIfNeeded()
		w.Raw(c.Content)
		w.LineEndingIfNeeded()
	case c.Label != "" && !void:
		w.Raw(c.Label)
	}
	if !void {
		w.Tag("</" + c.Name + ">")
	}
}

// voidElements are the HTML elements that take no closing tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}
