// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"strings"
	"testing"

	"github.com/mdcontainer/markdown"
)

const testTable = `
note:
  tag: aside
  attrs: {class: note, role: note}
  label: h4
video:
  tag: video
  require: src
"*":
  tag: div
`

var handlerTests = []struct {
	in  string
	out string
}{
	{":::note\nhi\n:::\n", "<aside class=\"note\" role=\"note\">\n<p>hi</p>\n</aside>\n"},
	{":::note[Careful]\nhi\n:::\n", "<aside class=\"note\" role=\"note\"><h4>Careful</h4>\n<p>hi</p>\n</aside>\n"},
	{":::video{src=a.mp4}\n:::\n", "<video src=\"a.mp4\"></video>\n"},
	{":::video\n:::\n", "<div></div>\n"},
	{":::other{#x}\n:::\n", "<div id=\"x\"></div>\n"},
}

func TestHandlers(t *testing.T) {
	h, err := parseHandlers([]byte(testTable))
	if err != nil {
		t.Fatal(err)
	}
	p := &markdown.Parser{Containers: []markdown.ContainerSyntax{markdown.DirectiveSyntax}}
	r := &markdown.Renderer{Handlers: h}
	for _, tt := range handlerTests {
		if out := r.ToHTML(p.Parse(tt.in)); out != tt.out {
			t.Errorf("ToHTML(%q) = %q, want %q", tt.in, out, tt.out)
		}
	}
}

func TestHandlersErrors(t *testing.T) {
	for _, in := range []string{
		"note: [",
		"note:\n  attrs: {class: x}\n",
	} {
		if _, err := parseHandlers([]byte(in)); err == nil {
			t.Errorf("parseHandlers(%q) succeeded, want error", in)
		}
	}
}

func TestNewParser(t *testing.T) {
	defer func(s string) { syntaxes = s }(syntaxes)

	syntaxes = "directive, lemmy"
	p, err := newParser()
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Containers) != 2 || p.Containers[1] != markdown.LemmySpoilerSyntax {
		t.Errorf("newParser: Containers = %v", p.Containers)
	}

	syntaxes = "directive,bogus"
	if _, err := newParser(); err == nil || !strings.Contains(err.Error(), "bogus") {
		t.Errorf("newParser with bogus syntax: err = %v", err)
	}
}

func TestTraceDirectives(t *testing.T) {
	p := &markdown.Parser{Containers: []markdown.ContainerSyntax{markdown.DirectiveSyntax}}
	doc := p.Parse("::::a\n> :::b\n> :::\n::::\n")
	out := traceDirectives(doc.Blocks, 0)
	if !strings.HasPrefix(out, "a (lines 1-4)\n") {
		t.Errorf("trace does not start with outer directive:\n%s", out)
	}
	if !strings.Contains(out, "\n    b (lines 2-3)\n    enter container\n") {
		t.Errorf("trace of inner directive not indented:\n%s", out)
	}
}

func TestExpandTabs(t *testing.T) {
	tests := []struct{ in, out string }{
		{"abc", "abc"},
		{"\tx", "    x"},
		{"a\tb", "a   b"},
		{"abcd\te", "abcd    e"},
		{"a\n\tb", "a\n    b"},
	}
	for _, tt := range tests {
		if out := string(expandTabs([]byte(tt.in))); out != tt.out {
			t.Errorf("expandTabs(%q) = %q, want %q", tt.in, out, tt.out)
		}
	}
}
