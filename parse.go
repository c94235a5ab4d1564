// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markdown

import (
	"strings"
)

// Block parsing
//
// The parser reads the input one line at a time.
// It keeps a stack of open blocks, outermost first, each with a
// [blockBuilder] that knows how to continue it. For each new line:
//
//  1. Each open block, starting from the outermost, is offered the line.
//     A block that accepts the line returns it with its own prefix
//     (a "> " or list indentation, say) removed, and the next block
//     gets what is left. The first block that declines ends the walk;
//     p.lineDepth records how far it got.
//  2. A blank line closes every block beyond p.lineDepth.
//  3. Otherwise the starters are tried on the rest of the line.
//     A starter that recognizes the line opens a block (which closes any
//     unmatched blocks above p.lineDepth) and may hand back a remainder
//     for the next round of starters, as a block quote marker does.
//  4. Text that no starter wants is paragraph text: it continues an open
//     paragraph, possibly lazily, or starts a new one.
//
// When a block closes, its builder turns the accumulated lines and inner
// blocks into a [Block]. Inline text is parsed only after the whole
// document has been read, so that link references defined late in the
// document still apply.

// A Parser is a Markdown parser.
// The exported fields in the struct can be filled in before calling
// [Parser.Parse] in order to customize the details of the parsing process.
// A Parser is safe for concurrent use by multiple goroutines.
type Parser struct {
	// HeadingIDs determines whether the parser accepts
	// the {#hdr} syntax for an HTML id="hdr" attribute on headings.
	// After enabling this, you can write:
	//	# Overview {#overview}
	HeadingIDs bool

	// AutoHeadingIDs derives an id for every heading that has no {#id},
	// using the heading text sanitized into an anchor name.
	AutoHeadingIDs bool

	// Strikethrough determines whether the parser accepts
	// ~~deleted~~ text.
	Strikethrough bool

	// SmartDot rewrites ... to an ellipsis.
	SmartDot bool
	// SmartDash rewrites -- and --- to en and em dashes.
	SmartDash bool
	// SmartQuote rewrites straight quotes to curly quotes.
	SmartQuote bool

	// Containers lists the colon-fenced container syntaxes to recognize,
	// such as [DirectiveSyntax] or [SpoilerSyntax].
	// When more than one accepts an opening fence, the first wins.
	// With no Containers, colon fences are ordinary text.
	Containers []ContainerSyntax
}

// A Position records the line numbers spanned by a block.
type Position struct {
	StartLine int
	EndLine   int
}

// Pos returns the position itself, so that every Block
// embedding a Position can report it.
func (p *Position) Pos() *Position {
	return p
}

// A Block is a block-level Markdown element.
type Block interface {
	Block()
	Pos() *Position
	printHTML(p *printer)
	printMarkdown(p *printer)
}

// A parser is the state for a single Parse call.
type parser struct {
	*Parser

	root      *Document
	links     map[string]*Link
	lineno    int
	stack     []openBlock
	lineDepth int
	texts     []pendingText // inline text awaiting parsing

	// corner is set when the input hits a corner case
	// on which other implementations are known to disagree.
	corner bool

	// inline parsing
	s         string
	emitted   int // offset in s up to which text has been emitted
	nodes     inlineList
	delims    *delim   // top of the delimiter stack
	brackets  *bracket // top of the bracket stack
	backticks backtickParser
	lineInfo
}

// A lineInfo records searches that have already failed
// on the current inline text, so they are not repeated.
type lineInfo struct {
	noCDATAEnd    bool
	noDeclEnd     bool
	noCommentEnd  bool
	noProcInstEnd bool
}

// An openBlock is one entry in the parser's stack of open blocks.
type openBlock struct {
	builder blockBuilder
	inner   []Block
	pos     Position
}

// A blockBuilder accumulates the lines of one open block.
type blockBuilder interface {
	// extend offers the line s to the block.
	// If the block continues, extend returns the rest of the line
	// for the blocks inside it and true.
	// Otherwise it returns false; a blank remainder with false
	// means the block consumed the line and is finished.
	extend(p *parser, s line) (line, bool)

	// build returns the finished block.
	// The block's inner blocks are available from p.blocks.
	build(p *parser) Block
}

// A pendingText is a Text whose inline content is parsed
// once the whole document is known.
type pendingText struct {
	text *Text
	raw  string
}

// Parse parses text as a Markdown document.
func (p *Parser) Parse(text string) *Document {
	d, _ := p.parse(text)
	return d
}

func (p *Parser) parse(text string) (d *Document, corner bool) {
	var ps parser
	ps.Parser = p
	if strings.Contains(text, "\x00") {
		text = strings.ReplaceAll(text, "\x00", "�")
		ps.corner = true // goldmark does not replace NUL
	}

	ps.lineDepth = -1
	ps.addBlock(&rootBuilder{})
	for text != "" {
		var ln string
		var nl byte
		i := strings.IndexAny(text, "\r\n")
		switch {
		case i < 0:
			ln, text = text, ""
		case text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n':
			ln, nl, text = text[:i], '\r'+'\n', text[i+2:]
		default:
			ln, nl, text = text[:i], text[i], text[i+1:]
		}
		ps.lineno++
		ps.addLine(makeLine(ln, nl))
	}
	ps.trimStack(0)

	for _, t := range ps.texts {
		t.text.Inline = ps.inline(t.raw)
	}

	if ps.AutoHeadingIDs {
		autoHeadingIDs(ps.root.Blocks)
	}
	return ps.root, ps.corner
}

// A rootBuilder is the [blockBuilder] for the [Document] itself,
// always at the bottom of the stack.
type rootBuilder struct{}

func (b *rootBuilder) extend(p *parser, s line) (line, bool) {
	panic("markdown: root extend")
}

func (b *rootBuilder) build(p *parser) Block {
	return &Document{p.pos(), p.blocks(), p.links}
}

// A starter recognizes the start of a block in s.
// If it opens a block, it returns the rest of the line and true.
type starter func(p *parser, s line) (line, bool)

var starters = []starter{
	startIndentedCodeBlock,
	startBlockQuote,
	newListItem,
	startATXHeading,
	startSetextHeading,
	startThematicBreak,
	startFencedCodeBlock,
	startContainer,
	startHTMLBlock,
}

// addLine processes one line of input.
func (p *parser) addLine(s line) {
	// Offer the line to the open blocks.
	p.lineDepth = 0
	for ; p.lineDepth+1 < len(p.stack); p.lineDepth++ {
		old := s
		var ok bool
		s, ok = p.stack[p.lineDepth+1].builder.extend(p, s)
		if !old.isBlank() && (ok || s != old) {
			p.stack[p.lineDepth+1].pos.EndLine = p.lineno
		}
		if !ok {
			break
		}
	}

	if s.isBlank() {
		p.trimStack(p.lineDepth + 1)
		return
	}

	// Open new blocks.
Starters:
	for _, fn := range starters {
		if rest, ok := fn(p, s); ok {
			s = rest
			if s.isBlank() {
				return
			}
			p.lineDepth++
			goto Starters
		}
	}

	// Paragraph text.
	startParagraph(p, s)
}

// addBlock opens a new block built by c,
// first closing any open blocks beyond p.lineDepth.
func (p *parser) addBlock(c blockBuilder) {
	p.trimStack(p.lineDepth + 1)
	p.stack = append(p.stack, openBlock{builder: c})
	ob := &p.stack[len(p.stack)-1]
	ob.pos.StartLine = p.lineno
	ob.pos.EndLine = p.lineno
}

// doneBlock adds the already-complete block b at p.lineDepth.
func (p *parser) doneBlock(b Block) {
	p.trimStack(p.lineDepth + 1)
	ob := &p.stack[len(p.stack)-1]
	ob.inner = append(ob.inner, b)
}

// trimStack closes open blocks until only depth remain.
func (p *parser) trimStack(depth int) {
	if len(p.stack) < depth {
		panic("markdown: trimStack")
	}
	for len(p.stack) > depth {
		p.closeBlock()
	}
}

// closeBlock closes the innermost open block
// and adds the result to its parent.
func (p *parser) closeBlock() Block {
	ob := &p.stack[len(p.stack)-1]
	blk := ob.builder.build(p)
	p.stack = p.stack[:len(p.stack)-1]
	if len(p.stack) == 0 {
		p.root = blk.(*Document)
		return blk
	}
	parent := &p.stack[len(p.stack)-1]
	parent.inner = append(parent.inner, blk)
	return blk
}

// blocks returns the inner blocks of the innermost open block.
func (p *parser) blocks() []Block {
	return p.stack[len(p.stack)-1].inner
}

// pos returns the position of the innermost open block.
func (p *parser) pos() Position {
	return p.stack[len(p.stack)-1].pos
}

// para returns the open paragraph builder, if the innermost block is one.
func (p *parser) para() *paraBuilder {
	if b, ok := p.stack[len(p.stack)-1].builder.(*paraBuilder); ok {
		return b
	}
	return nil
}

// curB returns the builder of the block at p.lineDepth.
func (p *parser) curB() blockBuilder {
	if p.lineDepth < len(p.stack) {
		return p.stack[p.lineDepth].builder
	}
	return nil
}

// nextB returns the builder of the first unmatched block, if any.
func (p *parser) nextB() blockBuilder {
	if p.lineDepth+1 < len(p.stack) {
		return p.stack[p.lineDepth+1].builder
	}
	return nil
}

// last returns the last block added to the innermost open block.
func (p *parser) last() Block {
	ob := &p.stack[len(p.stack)-1]
	return ob.inner[len(ob.inner)-1]
}

// deleteLast removes the block returned by last.
func (p *parser) deleteLast() {
	ob := &p.stack[len(p.stack)-1]
	ob.inner = ob.inner[:len(ob.inner)-1]
}

// newText returns a Text for the raw inline text s.
// Its inlines are filled in at the end of parsing.
func (p *parser) newText(pos Position, s string) *Text {
	t := &Text{Position: pos}
	p.texts = append(p.texts, pendingText{t, s})
	return t
}

// link returns the link reference definition for the normalized label.
func (p *parser) link(label string) *Link {
	return p.links[label]
}

// defineLink records a link reference definition for the normalized label.
func (p *parser) defineLink(label string, link *Link) {
	if p.links == nil {
		p.links = make(map[string]*Link)
	}
	p.links[label] = link
}
