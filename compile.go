// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markdown

// Compiling containers to HTML
//
// A directive is rendered by walking its event stream.
// Entering the container pushes a record onto a stack; the label and
// the content are rendered into side buffers (see printer.buffer) and
// saved in the record; exiting the container pops the record and hands
// it to the renderer's handler chain, which writes the final markup.
// Content is rendered recursively, so the stack holds one record
// for every directive being rendered.
//
// The line ending after the opening fence is not part of the output,
// nor is the one after the closing fence: both are swallowed through
// the printer's slurp flag.

// An htmlCompiler renders directives for one [Renderer.ToHTML] call.
type htmlCompiler struct {
	r     *Renderer
	stack []*Container
}

func (b *Directive) printHTML(p *printer) {
	if p.dir == nil {
		p.dir = &htmlCompiler{r: new(Renderer)}
	}
	p.dir.compile(p, b)
}

// compile writes the HTML for d.
func (c *htmlCompiler) compile(p *printer, d *Directive) {
	depth := len(c.stack)
	walkEvents(d.Events,
		func(t *Token) { c.enter(p, d, t) },
		func(t *Token) { c.exit(p, d, t) })
	if len(c.stack) != depth {
		panic("markdown: directive record left open")
	}
	if p.slurp {
		p.slurp = false
		p.lineEndingIfNeeded()
	} else {
		p.lineEnding()
	}
}

func (c *htmlCompiler) top() *Container {
	if len(c.stack) == 0 {
		panic("markdown: directive record stack underflow")
	}
	return c.stack[len(c.stack)-1]
}

func (c *htmlCompiler) enter(p *printer, d *Directive, t *Token) {
	switch t.Kind {
	case TokenContainer:
		c.stack = append(c.stack, &Container{Keyword: d.Syntax.Keyword})

	case TokenLabel:
		p.buffer()
		if d.Label != nil {
			d.Label.printHTML(p)
		}

	case TokenContent:
		p.lineEnding()
		p.buffer()
		for _, b := range d.Blocks {
			b.printHTML(p)
		}
	}
}

func (c *htmlCompiler) exit(p *printer, d *Directive, t *Token) {
	rec := c.top()
	switch t.Kind {
	case TokenName:
		rec.Name = t.Text

	case TokenLabel:
		rec.Label = p.resume()
		rec.HasLabel = true

	case TokenAttributeIDValue, TokenAttributeClassValue, TokenAttributeName, TokenAttributeValue, TokenAttributes:
		rec.attrs.exit(t)

	case TokenContent:
		rec.Content = p.resume()

	case TokenFence:
		rec.fences++
		if rec.fences == 1 {
			p.slurp = true
		}

	case TokenContainer:
		c.stack = c.stack[:len(c.stack)-1]
		if rec.Name == "" {
			panic("markdown: directive without a name")
		}
		rec.Attributes = rec.attrs.attributes()
		if d.Syntax.Title && !rec.HasLabel {
			// An untitled spoiler is summarized by its keyword.
			rec.Label = htmlEscaper.Replace(rec.Keyword)
			rec.HasLabel = true
		}
		c.r.handle(p, rec)
		p.slurp = true
	}
}

// done checks that every directive record was closed.
func (c *htmlCompiler) done() {
	if len(c.stack) != 0 {
		panic("markdown: unclosed directive records")
	}
}
