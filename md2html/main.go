// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Md2html converts Markdown with colon-fenced containers to HTML.
//
// Usage:
//
//	md2html [flags] [file...]
//
// Md2html reads the named files, or else standard input, as Markdown documents
// and then prints the corresponding HTML to standard output.
//
// The -s flag lists the container syntaxes to recognize, separated by commas:
// directive (the default), spoiler, and lemmy.
//
// The -H flag names a YAML file mapping directive names to HTML elements:
//
//	note:
//	  tag: aside
//	  attrs: {class: note}
//	  label: h4
//	video:
//	  tag: video
//	  require: src
//	"*":
//	  tag: div
//
// Each entry renders a directive as the given tag, with the fixed attrs
// followed by the directive's own attributes. If label is set, the
// directive's label is printed first, wrapped in that element.
// An entry with require declines directives lacking that attribute.
// The "*" entry handles every directive that no other entry accepts.
//
// The -t flag prints the token stream of every directive instead of HTML.
package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mdcontainer/markdown"
	"github.com/muesli/reflow/indent"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/version"
)

func init() {
	version.SetDefaultModule("github.com/mdcontainer/markdown")
}

var (
	syntaxes      string
	handlerFile   string
	drop          bool
	trace         bool
	headingIDs    bool
	strikethrough bool
	smart         bool
	showVersion   bool
)

func main() {
	log.SetPrefix("md2html: ")
	log.SetFlags(0)

	flags := pflag.NewFlagSet("md2html", pflag.ExitOnError)
	flags.StringVarP(&syntaxes, "syntax", "s", "directive", "container syntaxes: directive, spoiler, lemmy")
	flags.StringVarP(&handlerFile, "handlers", "H", "", "YAML `file` mapping directive names to elements")
	flags.BoolVar(&drop, "drop", false, "drop directives that no handler accepts")
	flags.BoolVarP(&trace, "trace", "t", false, "print directive token streams instead of HTML")
	flags.BoolVar(&headingIDs, "heading-ids", false, "accept {#id} after headings")
	flags.BoolVar(&strikethrough, "strikethrough", false, "accept ~~deleted~~ text")
	flags.BoolVar(&smart, "smart", false, "use smart quotes, dashes, and ellipses")
	flags.BoolVarP(&showVersion, "version", "v", false, "print version and exit")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, version.Module(), version.Current())
		fmt.Fprintf(os.Stderr, "usage: md2html [flags] [file...]\n\nFlags:\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if showVersion {
		fmt.Println(version.Module(), version.Current())
		return
	}

	p, err := newParser()
	if err != nil {
		log.Fatal(err)
	}
	r := &markdown.Renderer{}
	if drop {
		r.Default = markdown.FallbackDrop
	}
	if handlerFile != "" {
		if r.Handlers, err = loadHandlers(handlerFile); err != nil {
			log.Fatal(err)
		}
	}

	args := flags.Args()
	if len(args) == 0 {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			flags.Usage()
			os.Exit(2)
		}
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatal(err)
		}
		convert(p, r, data)
		return
	}
	for _, arg := range args {
		data, err := os.ReadFile(arg)
		if err != nil {
			log.Fatal(err)
		}
		convert(p, r, data)
	}
}

func newParser() (*markdown.Parser, error) {
	p := &markdown.Parser{
		HeadingIDs:    headingIDs,
		Strikethrough: strikethrough,
		SmartDot:      smart,
		SmartDash:     smart,
		SmartQuote:    smart,
	}
	for _, name := range strings.Split(syntaxes, ",") {
		switch strings.TrimSpace(name) {
		case "":
		case "directive":
			p.Containers = append(p.Containers, markdown.DirectiveSyntax)
		case "spoiler":
			p.Containers = append(p.Containers, markdown.SpoilerSyntax)
		case "lemmy":
			p.Containers = append(p.Containers, markdown.LemmySpoilerSyntax)
		default:
			return nil, fmt.Errorf("unknown container syntax %q", name)
		}
	}
	return p, nil
}

func convert(p *markdown.Parser, r *markdown.Renderer, md []byte) {
	doc := p.Parse(string(expandTabs(md)))
	if trace {
		os.Stdout.WriteString(traceDirectives(doc.Blocks, 0))
		return
	}
	os.Stdout.WriteString(r.ToHTML(doc))
}

// traceDirectives returns the token streams of the directives in bs,
// each indented by its nesting depth.
func traceDirectives(bs []markdown.Block, depth int) string {
	var b strings.Builder
	for _, blk := range bs {
		var inner []markdown.Block
		switch blk := blk.(type) {
		case *markdown.Directive:
			t := fmt.Sprintf("%s (lines %d-%d)\n%s", blk.Name, blk.StartLine, blk.EndLine, markdown.Trace(blk.Events))
			b.WriteString(indent.String(t, uint(4*depth)))
			b.WriteString(traceDirectives(blk.Blocks, depth+1))
			continue
		case *markdown.Quote:
			inner = blk.Blocks
		case *markdown.List:
			inner = blk.Items
		case *markdown.Item:
			inner = blk.Blocks
		}
		b.WriteString(traceDirectives(inner, depth))
	}
	return b.String()
}

// expandTabs replaces all tabs in text with spaces up to a 4-space tab stop.
//
// In Markdown, tabs used for indentation are required to be interpreted as
// 4-space tab stops. See https://spec.commonmark.org/0.31.2/#tabs.
// Expanding them up front keeps the HTML of code blocks the same
// in browsers that use 8-space tab stops.
//
// This function does not handle multi-codepoint Unicode sequences correctly.
func expandTabs(text []byte) []byte {
	if bytes.IndexByte(text, '\t') < 0 {
		return text
	}
	var buf bytes.Buffer
	col := 0
	for len(text) > 0 {
		r, size := utf8.DecodeRune(text)
		text = text[size:]
		switch r {
		case '\n':
			buf.WriteByte('\n')
			col = 0
		case '\t':
			n := 4 - col%4
			buf.WriteString("    "[:n])
			col += n
		default:
			buf.WriteRune(r)
			col++
		}
	}
	return buf.Bytes()
}
