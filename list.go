// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markdown

import (
	"fmt"
	"strconv"
	"strings"
)

// A List is a [Block] representing a [list],
// either bullet (<ul>) or ordered (<ol>).
//
// [list]: https://spec.commonmark.org/0.31.2/#lists
type List struct {
	Position
	Bullet rune    // '-', '+', '*' for bullet lists; '.' or ')' for ordered lists
	Start  int     // first number of an ordered list
	Loose  bool    // whether items are separated by blank lines
	Items  []Block // always *Item
}

// An Item is a [Block] representing a [list item].
//
// [list item]: https://spec.commonmark.org/0.31.2/#list-items
type Item struct {
	Position
	Blocks []Block
}

func (*List) Block() {}
func (*Item) Block() {}

func (b *List) ordered() bool {
	return b.Bullet == '.' || b.Bullet == ')'
}

func (b *List) printHTML(p *printer) {
	if b.ordered() {
		p.html("<ol")
		if b.Start != 1 {
			p.html(` start="`, strconv.Itoa(b.Start), `"`)
		}
		p.html(">\n")
	} else {
		p.html("<ul>\n")
	}
	for _, c := range b.Items {
		c.printHTML(p)
	}
	if b.ordered() {
		p.html("</ol>\n")
	} else {
		p.html("</ul>\n")
	}
}

func (b *Item) printHTML(p *printer) {
	p.html("<li>")
	if len(b.Blocks) > 0 {
		if _, ok := b.Blocks[0].(*Text); !ok {
			p.html("\n")
		}
	}
	for i, c := range b.Blocks {
		c.printHTML(p)
		if _, ok := c.(*Text); ok && i+1 < len(b.Blocks) {
			p.html("\n")
		}
	}
	p.html("</li>\n")
}

func (b *List) printMarkdown(p *printer) {
	if p.buf.Len() > 0 {
		p.maybeNL()
	}
	old := p.listOut
	defer func() { p.listOut = old }()
	p.bullet = b.Bullet
	p.num = b.Start
	if b.Loose {
		p.loose, p.tight = 1, 0
	} else {
		p.loose, p.tight = 0, 1
	}
	for i, item := range b.Items {
		if i > 0 {
			p.nl()
			if b.Loose {
				p.nl()
			}
		}
		item.printMarkdown(p)
	}
}

func (b *Item) printMarkdown(p *printer) {
	var marker string
	if p.bullet == '.' || p.bullet == ')' {
		marker = fmt.Sprintf("%d%c ", p.num, p.bullet)
		p.num++
	} else {
		marker = string(p.bullet) + " "
	}
	p.WriteString(marker)
	defer p.pop(p.push(strings.Repeat(" ", len(marker))))
	p.fresh = p.buf.Len()
	printMarkdownBlocks(b.Blocks, p)
}

// A listBuilder is a [blockBuilder] for a [List].
type listBuilder struct {
	bullet rune
	num    int
	item   *itemBuilder // open item, if any
	todo   func() line  // opens the item started by startListItem
}

// An itemBuilder is a [blockBuilder] for an [Item].
type itemBuilder struct {
	list        *listBuilder
	width       int  // indentation of item content
	haveContent bool // whether any non-blank line has been seen
}

func (b *listBuilder) extend(p *parser, s line) (line, bool) {
	// The list continues while its open item does,
	// or across blank lines between items.
	if it := b.item; it != nil && s.trimSpace(it.width, it.width, true) || it == nil && s.isBlank() {
		return s, true
	}
	return s, false
}

func (b *itemBuilder) extend(p *parser, s line) (line, bool) {
	if s.isBlank() {
		// An item can begin with at most one blank line.
		return line{}, b.haveContent
	}
	b.haveContent = true
	return s, true
}

func (b *listBuilder) build(p *parser) Block {
	items := p.blocks()
	pos := p.pos()
	pos.EndLine = items[len(items)-1].Pos().EndLine

	loose := false
Loose:
	for i, c := range items {
		item := c.(*Item)
		if i+1 < len(items) && items[i+1].Pos().StartLine-item.EndLine > 1 {
			loose = true
			break
		}
		for j := 0; j+1 < len(item.Blocks); j++ {
			if item.Blocks[j+1].Pos().StartLine-item.Blocks[j].Pos().EndLine > 1 {
				loose = true
				break Loose
			}
		}
	}

	// Paragraphs in tight lists print without <p> tags.
	if !loose {
		for _, c := range items {
			item := c.(*Item)
			for i, d := range item.Blocks {
				if para, ok := d.(*Paragraph); ok {
					item.Blocks[i] = para.Text
				}
			}
		}
	}
	return &List{pos, b.bullet, b.num, loose, items}
}

func (b *itemBuilder) build(p *parser) Block {
	b.list.item = nil
	return &Item{p.pos(), p.blocks()}
}

// newListItem is the [starter] for list items.
// Starting an item takes two steps: the first call opens the list
// (or continues the one already open) and the second, made once the
// parser has moved inside the list, opens the item itself.
func newListItem(p *parser, s line) (line, bool) {
	if list, ok := p.curB().(*listBuilder); ok && list.todo != nil {
		s = list.todo()
		list.todo = nil
		return s, true
	}
	if p.startListItem(&s) {
		return s, true
	}
	return s, false
}

// startListItem recognizes a list marker at the start of s
// and arranges for the item to be opened.
func (p *parser) startListItem(s *line) bool {
	if isThematicBreak(*s) {
		return false
	}
	t := *s
	width := 0
	for width < 3 && t.trimSpace(1, 1, false) {
		width++
	}
	bullet := t.peek()
	num := 0
	switch bullet {
	case '-', '*', '+':
		t.trim(bullet)
		width++
	default:
		j := t.i
		for j < len(t.text) && isDigit(t.text[j]) && j-t.i < 9 {
			num = num*10 + int(t.text[j]-'0')
			j++
		}
		if j == t.i || j >= len(t.text) || t.text[j] != '.' && t.text[j] != ')' {
			return false
		}
		bullet = t.text[j]
		width += j + 1 - t.i
		t.skip(j + 1 - t.i)
	}

	// The marker is followed by at least one space, or ends the line.
	if !t.trimSpace(1, 1, true) {
		return false
	}
	width++

	// Up to three more spaces belong to the marker;
	// four or more start an indented code block inside the item.
	if u := t; !t.isBlank() && !u.trimSpace(4, 4, false) {
		for i := 0; i < 3 && t.trimSpace(1, 1, false); i++ {
			width++
		}
	}

	list, _ := p.nextB().(*listBuilder)
	if list == nil || list.bullet != rune(bullet) {
		// A list that interrupts a paragraph must start with content
		// and, if ordered, with 1.
		if list == nil && p.para() != nil && (t.isBlank() || num != 1 && bullet != '-' && bullet != '*' && bullet != '+') {
			return false
		}
		list = &listBuilder{bullet: rune(bullet), num: num}
		p.addBlock(list)
	}
	item := &itemBuilder{list: list, width: width, haveContent: !t.isBlank()}
	list.todo = func() line {
		p.addBlock(item)
		list.item = item
		return t
	}
	return true
}
