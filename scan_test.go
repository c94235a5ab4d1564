// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markdown

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var openingTests = []struct {
	syntax ContainerSyntax
	in     string
	ok     bool
	size   int
}{
	{DirectiveSyntax, ":::a", true, 3},
	{DirectiveSyntax, "::::::a", true, 6},
	{DirectiveSyntax, ":::   a", true, 3},
	{DirectiveSyntax, ":::\ta", true, 3},
	{DirectiveSyntax, "::a", false, 0},
	{DirectiveSyntax, ":::", false, 0},
	{DirectiveSyntax, ":::  ", false, 0},
	{DirectiveSyntax, ":::1", false, 0},
	{DirectiveSyntax, ":::-a", false, 0},
	{DirectiveSyntax, ":::a-b_c9", true, 3},
	{DirectiveSyntax, ":::a-", false, 0},
	{DirectiveSyntax, ":::a_", false, 0},
	{DirectiveSyntax, ":::a[]", true, 3},
	{DirectiveSyntax, ":::a[b [c] d]", true, 3},
	{DirectiveSyntax, `:::a[b \] c]`, true, 3},
	{DirectiveSyntax, ":::a[b", false, 0},
	{DirectiveSyntax, ":::a[b]]", false, 0},
	{DirectiveSyntax, ":::a[" + strings.Repeat("[", maxLabelDepth) + strings.Repeat("]", maxLabelDepth) + "]", true, 3},
	{DirectiveSyntax, ":::a[" + strings.Repeat("[", maxLabelDepth+1) + strings.Repeat("]", maxLabelDepth+1) + "]", false, 0},
	{DirectiveSyntax, ":::a[" + strings.Repeat("x", maxLabelSize+10) + "]", false, 0},
	{DirectiveSyntax, ":::a{}", true, 3},
	{DirectiveSyntax, ":::a{ }", true, 3},
	{DirectiveSyntax, ":::a{b=c}", true, 3},
	{DirectiveSyntax, ":::a{b=c} \t ", true, 3},
	{DirectiveSyntax, ":::a{b = c}", false, 0},
	{DirectiveSyntax, ":::a{b=}", false, 0},
	{DirectiveSyntax, `:::a{b="c}`, false, 0},
	{DirectiveSyntax, `:::a{b="c"d}`, false, 0},
	{DirectiveSyntax, `:::a{b="" c='' d}`, true, 3},
	{DirectiveSyntax, ":::a{#}", false, 0},
	{DirectiveSyntax, ":::a{.}", false, 0},
	{DirectiveSyntax, ":::a{#x.y#z}", true, 3},
	{DirectiveSyntax, ":::a{b=<}", false, 0},
	{DirectiveSyntax, ":::a{1}", false, 0},
	{DirectiveSyntax, ":::a{b}x", false, 0},
	{DirectiveSyntax, ":::a[b]{c}", true, 3},
	{DirectiveSyntax, ":::a{c}[b]", false, 0},
	{DirectiveSyntax, ":::a x", false, 0},
	{SpoilerSyntax, ":::spoiler", true, 3},
	{SpoilerSyntax, "::: spoiler ", true, 3},
	{SpoilerSyntax, ":::spoil", false, 0},
	{SpoilerSyntax, ":::Spoiler", false, 0},
	{SpoilerSyntax, ":::spoiler title", false, 0},
	{SpoilerSyntax, ":::note", false, 0},
	{LemmySpoilerSyntax, ":::spoiler", true, 3},
	{LemmySpoilerSyntax, ":::spoiler title *here*", true, 3},
	{LemmySpoilerSyntax, "::::: spoiler   ", true, 5},
	{LemmySpoilerSyntax, ":::spoilers", false, 0},
	{ContainerSyntax{}, ":::a", true, 3},
	{ContainerSyntax{}, ":::a[b]", false, 0},
	{ContainerSyntax{Attributes: true}, ":::a{b}", true, 3},
	{ContainerSyntax{Attributes: true}, ":::a[b]{c}", false, 0},
}

func TestScanOpening(t *testing.T) {
	for _, tt := range openingTests {
		h, ok := scanOpening(tt.in, &tt.syntax, 1, 0)
		if ok != tt.ok {
			t.Errorf("scanOpening(%q, %+v) = %v, want %v", tt.in, tt.syntax, ok, tt.ok)
			continue
		}
		if !ok {
			if h != nil {
				t.Errorf("scanOpening(%q, %+v) rejected with non-nil header", tt.in, tt.syntax)
			}
			continue
		}
		if h.size != tt.size {
			t.Errorf("scanOpening(%q, %+v) size = %d, want %d", tt.in, tt.syntax, h.size, tt.size)
		}
		if h.container.Kind != TokenContainer || h.container != h.events[0].Token {
			t.Errorf("scanOpening(%q, %+v) did not open with the container", tt.in, tt.syntax)
		}
		last := h.events[len(h.events)-1]
		if last.Enter || last.Token.Kind != TokenFence || last.Token.Text != tt.in {
			t.Errorf("scanOpening(%q, %+v) fence = %v %q", tt.in, tt.syntax, last, last.Token.Text)
		}
	}
}

var closingTests = []struct {
	in   string
	size int
	ok   bool
}{
	{":::", 3, true},
	{"::::", 3, true},
	{":::", 4, false},
	{"   :::", 3, true},
	{"    :::", 3, false},
	{"::: \t", 3, true},
	{"::: a", 3, false},
	{"", 3, false},
	{"a:::", 3, false},
}

func TestScanClosing(t *testing.T) {
	for _, tt := range closingTests {
		events, ok := scanClosing(makeLine(tt.in, '\n'), 7, tt.size)
		if ok != tt.ok {
			t.Errorf("scanClosing(%q, %d) = %v, want %v", tt.in, tt.size, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if len(events) != 4 {
			t.Fatalf("scanClosing(%q, %d) = %d events, want 4", tt.in, tt.size, len(events))
		}
		seq := events[1].Token
		if seq.Kind != TokenSequence || strings.Trim(seq.Text, ":") != "" || seq.Start.Line != 7 {
			t.Errorf("scanClosing(%q, %d) sequence = %+v", tt.in, tt.size, seq)
		}
	}
}

func TestTrace(t *testing.T) {
	p := &Parser{Containers: []ContainerSyntax{DirectiveSyntax}}
	doc := p.Parse(":::a[b]{#c}\nx\n:::\n")
	d, ok := doc.Blocks[0].(*Directive)
	if !ok {
		t.Fatalf("parsed %T, want *Directive", doc.Blocks[0])
	}
	want := `enter container
  enter fence
    enter sequence
    exit sequence ":::"
    enter name
    exit name "a"
    enter label
      enter labelMarker
      exit labelMarker "["
      enter labelString
      exit labelString "b"
      enter labelMarker
      exit labelMarker "]"
    exit label "[b]"
    enter attributes
      enter attributesMarker
      exit attributesMarker "{"
      enter attributeIdValue
      exit attributeIdValue "c"
      enter attributesMarker
      exit attributesMarker "}"
    exit attributes "{#c}"
  exit fence ":::a[b]{#c}"
  enter content
    enter chunk
    exit chunk "x"
  exit content
  enter fence
    enter sequence
    exit sequence ":::"
  exit fence ":::"
exit container
`
	if have := Trace(d.Events); have != want {
		t.Errorf("Trace:\n%s\nwant:\n%s\ndiff:\n%s", have, want, cmp.Diff(want, have))
	}
}

func TestTokenPositions(t *testing.T) {
	p := &Parser{Containers: []ContainerSyntax{DirectiveSyntax}}
	doc := p.Parse("para\n\n  :::note[x]\n  body\n  :::\n")
	d, ok := doc.Blocks[1].(*Directive)
	if !ok {
		t.Fatalf("parsed %T, want *Directive", doc.Blocks[1])
	}
	if d.StartLine != 3 || d.EndLine != 5 {
		t.Errorf("directive lines %d-%d, want 3-5", d.StartLine, d.EndLine)
	}

	type span struct {
		Kind       TokenKind
		Start, End Pos
	}
	var have []span
	for _, e := range d.Events {
		switch k := e.Token.Kind; {
		case !e.Enter && (k == TokenName || k == TokenLabelString || k == TokenChunk || k == TokenContainer):
			have = append(have, span{k, e.Token.Start, e.Token.End})
		}
	}
	want := []span{
		{TokenName, Pos{3, 6, 5}, Pos{3, 10, 9}},
		{TokenLabelString, Pos{3, 11, 10}, Pos{3, 12, 11}},
		{TokenChunk, Pos{4, 3, 2}, Pos{4, 7, 6}},
		{TokenContainer, Pos{3, 3, 2}, Pos{5, 6, 5}},
	}
	if diff := cmp.Diff(want, have); diff != "" {
		t.Errorf("token spans (-want +have):\n%s", diff)
	}
}

func TestWalkEventsPanics(t *testing.T) {
	a := &Token{Kind: TokenContainer}
	b := &Token{Kind: TokenName}
	bad := map[string][]Event{
		"crossed":   {{true, a}, {true, b}, {false, a}, {false, b}},
		"unclosed":  {{true, a}},
		"unopened":  {{false, a}},
		"wrong end": {{true, a}, {false, b}},
	}
	for name, events := range bad {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("walkEvents did not panic")
				}
			}()
			walkEvents(events, func(*Token) {}, func(*Token) {})
		})
	}
}
