// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package markdown parses and renders Markdown documents
// that may contain colon-fenced containers.
//
// A container opens with a line of three or more colons
// and closes with a line of at least as many colons:
//
//	:::note[Heads up]{#intro .warning}
//	Content is *Markdown*, including nested containers.
//	:::
//
// The grammar of the opening line is chosen by a [ContainerSyntax]
// listed in [Parser.Containers]. [DirectiveSyntax] accepts any name
// followed by an optional [label] and {attributes}.
// [SpoilerSyntax] and [LemmySpoilerSyntax] accept only the keyword
// "spoiler", the latter followed by a free-text title.
//
// [Parser.Parse] returns a [Document] whose containers are [Directive]
// blocks. [ToHTML] renders them with default markup; a [Renderer]
// can map directive names to [Handler] functions instead.
// [Format] prints a document back as Markdown, lengthening fences
// as needed so nested containers stay nested.
package markdown

// A Document is the [Block] for a whole Markdown document.
type Document struct {
	Position
	Blocks []Block           // content of the document
	Links  map[string]*Link // link reference definitions, by normalized label
}

func (*Document) Block() {}

func (b *Document) printHTML(p *printer) {
	for _, c := range b.Blocks {
		c.printHTML(p)
	}
}

func (b *Document) printMarkdown(p *printer) {
	printMarkdownBlocks(b.Blocks, p)

	// End with exactly one newline.
	text := p.buf.Bytes()
	n := len(text)
	for n > 0 && text[n-1] == '\n' {
		n--
	}
	p.buf.Truncate(n)
	if n > 0 {
		p.nl()
	}

	if len(b.Links) > 0 {
		if p.buf.Len() > 0 {
			p.nl()
		}
		printLinks(p, b.Links)
	}
}

// printMarkdownBlocks prints bs one after another,
// separated by blank lines inside loose lists.
func printMarkdownBlocks(bs []Block, p *printer) {
	for i, b := range bs {
		if i > 0 {
			p.nl()
			if p.loose > 0 {
				p.nl()
			}
		}
		b.printMarkdown(p)
	}
}
