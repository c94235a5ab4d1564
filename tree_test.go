// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markdown

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pmezard/go-difflib/difflib"
)

var allSyntaxes = []ContainerSyntax{DirectiveSyntax}

var formatTests = []struct {
	name   string
	syntax ContainerSyntax
	in     string
	out    string // "" means same as in
}{
	{"simple", DirectiveSyntax, ":::note\nHello\n:::\n", ""},
	{"empty", DirectiveSyntax, ":::note\n:::\n", ""},
	{"long fence", DirectiveSyntax, "::::::note\nx\n::::::\n", ":::note\nx\n:::\n"},
	{"unclosed", DirectiveSyntax, ":::note\nx\n", ":::note\nx\n:::\n"},
	{"indented", DirectiveSyntax, "  :::note\n  x\n  :::\n", ":::note\nx\n:::\n"},
	{"label", DirectiveSyntax, ":::note[A *b*]\nx\n:::\n", ""},
	{"empty label", DirectiveSyntax, ":::note[]\n:::\n", ""},
	{"attributes", DirectiveSyntax, ":::note{#x .a .b k=v}\n:::\n", ":::note{#x .a .b k=\"v\"}\n:::\n"},
	{"merged attributes", DirectiveSyntax, ":::note{.a #x .b #y}\n:::\n", ":::note{.a .b #y}\n:::\n"},
	{"quoted attribute", DirectiveSyntax, ":::note{t='a \"b\"'}\n:::\n", ":::note{t=\"a &quot;b&quot;\"}\n:::\n"},
	{"space after colons", DirectiveSyntax, "::: note\n:::\n", ":::note\n:::\n"},
	{"nested", DirectiveSyntax, "::::a\n:::b\nx\n:::\n::::\n", ""},
	{"nested deep", DirectiveSyntax, "::::::a\n:::::b\n::::c\nx\n::::\n:::::\n::::::\n", ":::::a\n::::b\n:::c\nx\n:::\n::::\n:::::\n"},
	{"siblings", DirectiveSyntax, "::::a\n:::b\n:::\n\n:::c\n:::\n::::\n", ""},
	{"after paragraph", DirectiveSyntax, "p\n:::a\n:::\n", "p\n\n:::a\n:::\n"},
	{"before paragraph", DirectiveSyntax, ":::a\n:::\np\n", ":::a\n:::\n\np\n"},
	{"in quote", DirectiveSyntax, "> :::a\n> x\n> :::\n", ""},
	{"quote inside", DirectiveSyntax, "::::a\n> :::b\n> :::\n::::\n", ""},
	{"in list", DirectiveSyntax, "- :::a\n  x\n  :::\n", ""},
	{"spoiler", SpoilerSyntax, ":::spoiler\nx\n:::\n", ""},
	{"spoiler spaced", SpoilerSyntax, "::: spoiler\n:::\n", ":::spoiler\n:::\n"},
	{"lemmy title", LemmySpoilerSyntax, "::: spoiler Click *here*\nx\n:::\n", ":::spoiler Click *here*\nx\n:::\n"},
	{"lemmy untitled", LemmySpoilerSyntax, ":::spoiler\n:::\n", ""},
}

func TestFormat(t *testing.T) {
	for _, tt := range formatTests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Parser{Containers: []ContainerSyntax{tt.syntax}}
			want := tt.out
			if want == "" {
				want = tt.in
			}
			have := Format(p.Parse(tt.in))
			if have != want {
				diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
					A:        difflib.SplitLines(want),
					B:        difflib.SplitLines(have),
					FromFile: "want",
					ToFile:   "have",
					Context:  3,
				})
				t.Errorf("Format(Parse(%q)):\nhave %q\nwant %q\n%s", tt.in, have, want, diff)
			}
		})
	}
}

// A node is the shape of a parsed block, without positions or events.
type node struct {
	Kind  string
	Name  string
	Label string
	Attrs Attributes
	Text  string
	Kids  []node
}

func shape(b Block) node {
	n := node{Kind: typeName(b)}
	var kids []Block
	switch b := b.(type) {
	case *Document:
		kids = b.Blocks
	case *Quote:
		kids = b.Blocks
	case *List:
		kids = b.Items
	case *Item:
		kids = b.Blocks
	case *Paragraph:
		n.Text = Format(b.Text)
	case *Text:
		n.Text = Format(b)
	case *Directive:
		n.Name = b.Name
		if b.Label != nil {
			n.Label = "[" + Format(b.Label) + "]"
		}
		n.Attrs = b.Attributes
		kids = b.Blocks
	}
	for _, k := range kids {
		n.Kids = append(n.Kids, shape(k))
	}
	return n
}

func typeName(b Block) string {
	switch b.(type) {
	case *Document:
		return "Document"
	case *Quote:
		return "Quote"
	case *List:
		return "List"
	case *Item:
		return "Item"
	case *Paragraph:
		return "Paragraph"
	case *Text:
		return "Text"
	case *Directive:
		return "Directive"
	case *CodeBlock:
		return "CodeBlock"
	case *Heading:
		return "Heading"
	}
	return "?"
}

// Formatting a hand-built tree must choose fences
// long enough that the parse gives the tree back.
func TestRoundTrip(t *testing.T) {
	para := func(s string) Block {
		return &Paragraph{Text: &Text{Inline: Inlines{&Plain{s}}}}
	}
	dir := func(name string, blocks ...Block) *Directive {
		return &Directive{Syntax: DirectiveSyntax, Name: name, Blocks: blocks}
	}
	docs := map[string]*Document{
		"flat": {Blocks: []Block{dir("a", para("x"))}},
		"nested": {Blocks: []Block{
			dir("a", dir("b", dir("c", para("x")))),
		}},
		"uneven": {Blocks: []Block{
			dir("a",
				dir("b"),
				para("between"),
				dir("c", dir("d", dir("e"))),
			),
			para("after"),
		}},
		"quoted": {Blocks: []Block{
			dir("a", &Quote{Blocks: []Block{dir("b", para("x"))}}),
		}},
		"attributes": {Blocks: []Block{
			&Directive{
				Syntax:     DirectiveSyntax,
				Name:       "a",
				Label:      &Text{Inline: Inlines{&Plain{"lbl"}}},
				Attributes: Attributes{{"id", "i"}, {"class", "x y"}, {"title", `a "q"`}},
				Blocks:     []Block{dir("b")},
			},
		}},
	}
	p := &Parser{Containers: allSyntaxes}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			md := Format(doc)
			back := p.Parse(md)
			if diff := cmp.Diff(shape(doc), shape(back)); diff != "" {
				t.Errorf("Parse(Format(tree)) differs (-want +have):\nmarkdown:\n%s\n%s", md, diff)
			}
			if md2 := Format(back); md2 != md {
				t.Errorf("Format not stable:\nfirst:\n%s\nsecond:\n%s", md, md2)
			}
		})
	}
}

func TestDirectiveDepth(t *testing.T) {
	d := func(bs ...Block) Block { return &Directive{Blocks: bs} }
	tests := []struct {
		blocks []Block
		depth  int
	}{
		{nil, 0},
		{[]Block{&Paragraph{}}, 0},
		{[]Block{d()}, 1},
		{[]Block{d(d()), d()}, 2},
		{[]Block{&Quote{Blocks: []Block{d(d(d()))}}}, 3},
		{[]Block{&List{Items: []Block{&Item{Blocks: []Block{d()}}}}}, 1},
	}
	for i, tt := range tests {
		if have := directiveDepth(tt.blocks); have != tt.depth {
			t.Errorf("#%d: directiveDepth = %d, want %d", i, have, tt.depth)
		}
	}
}

func TestDirectiveLabel(t *testing.T) {
	p := &Parser{Containers: []ContainerSyntax{DirectiveSyntax, LemmySpoilerSyntax}}
	tests := []struct {
		in    string
		name  string
		label string // "-" for no label
	}{
		{":::a", "a", "-"},
		{":::a[]", "a", ""},
		{":::a[*x*]", "a", "*x*"},
		{":::a[b [c]]", "a", "b [c]"},
		{":::spoiler", "spoiler", "-"},
		{"::: spoiler  My title ", "spoiler", "My title"},
	}
	for _, tt := range tests {
		doc := p.Parse(tt.in + "\n:::\n")
		d, ok := doc.Blocks[0].(*Directive)
		if !ok {
			t.Errorf("Parse(%q) = %T, want *Directive", tt.in, doc.Blocks[0])
			continue
		}
		label := "-"
		if d.Label != nil {
			label = Format(d.Label)
		}
		if d.Name != tt.name || label != tt.label {
			t.Errorf("Parse(%q): name %q label %q, want %q %q", tt.in, d.Name, label, tt.name, tt.label)
		}
	}
}
