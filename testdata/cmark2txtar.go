// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build ignore

// Cmark2txtar extracts the examples from a Markdown document
// into a txtar test archive.
//
// Usage:
//
//	go run cmark2txtar.go [-s syntax] file > corpus.txt
//
// Examples are fenced code blocks with info string "example",
// holding the Markdown input, a line containing just ".", and the
// expected HTML, the format of the CommonMark example documents.
// An info string "example <syntax>" marks an example that needs
// the named container syntax; only examples for the -s syntax,
// plus the plain ones, are extracted.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mdcontainer/markdown"
	"github.com/spf13/pflag"
	"golang.org/x/tools/txtar"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("cmark2txtar: ")
	flags := pflag.NewFlagSet("cmark2txtar", pflag.ExitOnError)
	syntax := flags.StringP("syntax", "s", "directive", "container syntax of the extracted examples")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: cmark2txtar [-s syntax] file\n")
		os.Exit(2)
	}
	flags.Parse(os.Args[1:])
	if flags.NArg() != 1 {
		flags.Usage()
	}
	file := flags.Arg(0)

	data, err := os.ReadFile(file)
	if err != nil {
		log.Fatal(err)
	}

	a := &txtar.Archive{
		Comment: []byte("// go run cmark2txtar.go -s " + *syntax + " " + file + "\nContainers: " + *syntax + "\n"),
	}

	// The examples document itself is parsed without containers,
	// so that colon fences stay inside their code blocks.
	var p markdown.Parser
	doc := p.Parse(string(data))
	n := 0
	for _, b := range doc.Blocks {
		var in, out []string
		b, ok := b.(*markdown.CodeBlock)
		if !ok || !strings.HasPrefix(b.Info, "example") {
			continue
		}
		if s := strings.TrimSpace(strings.TrimPrefix(b.Info, "example")); s != "" && s != *syntax {
			log.Printf("skipping %s", b.Info)
			continue
		}
		for i := 0; i < len(b.Text); i++ {
			if b.Text[i] == "." {
				in, out = b.Text[:i], b.Text[i+1:]
				goto Found
			}
		}
		log.Fatalf("did not find . in pre block:\n%s", strings.Join(b.Text, "\n"))
	Found:
		n++
		name := fmt.Sprintf("%d", n)
		a.Files = append(a.Files,
			txtar.File{Name: name + ".md", Data: []byte(encode(join(in)))},
			txtar.File{Name: name + ".html", Data: []byte(encode(join(out)))},
		)
	}
	if n == 0 {
		log.Fatalf("no examples in %s", file)
	}

	os.Stdout.Write(txtar.Format(a))
}

func encode(s string) string {
	s = strings.ReplaceAll(s, " \n", " ^J\n")
	s = strings.ReplaceAll(s, "\t\n", "\t^J\n")
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "^D\n"
	}
	return s
}

func join(s []string) string {
	if len(s) == 0 {
		return ""
	}
	x := strings.Join(s, "\n") + "\n"
	x = strings.ReplaceAll(x, "→", "\t")
	return x
}
