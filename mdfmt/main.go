// Copyright 2021 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Mdfmt reformats Markdown data.
//
// Usage:
//
//	mdfmt [-w | -d] [-s syntax] [file...]
//
// Mdfmt reads the named files, or else standard input, as Markdown documents
// and then reprints the same Markdown documents to standard output.
// Colon-fenced containers are reprinted with the shortest fences
// that keep their nesting.
//
// The -w flag specifies to rewrite the files in place.
//
// The -d flag prints a unified diff between each file and its
// reformatted text instead of the text itself.
//
// The -s flag lists the container syntaxes to recognize, separated by commas:
// directive (the default), spoiler, and lemmy.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mdcontainer/markdown"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/pflag"
	"pkt.systems/version"
)

func init() {
	version.SetDefaultModule("github.com/mdcontainer/markdown")
}

var (
	wflag    bool
	dflag    bool
	syntaxes string
	exit     = 0
)

func main() {
	log.SetPrefix("mdfmt: ")
	log.SetFlags(0)

	flags := pflag.NewFlagSet("mdfmt", pflag.ExitOnError)
	flags.BoolVarP(&wflag, "write", "w", false, "write reformatted Markdown to files")
	flags.BoolVarP(&dflag, "diff", "d", false, "print diffs instead of reformatted Markdown")
	flags.StringVarP(&syntaxes, "syntax", "s", "directive", "container syntaxes: directive, spoiler, lemmy")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, version.Module(), version.Current())
		fmt.Fprintf(os.Stderr, "usage: mdfmt [-w | -d] [-s syntax] [file...]\n")
		flags.PrintDefaults()
		os.Exit(2)
	}
	flags.Parse(os.Args[1:])
	if wflag && dflag {
		log.Fatal("-w and -d are mutually exclusive")
	}

	p, err := newParser(syntaxes)
	if err != nil {
		log.Fatal(err)
	}

	if flags.NArg() == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatal(err)
		}
		convert(p, data, "")
	} else {
		for _, file := range flags.Args() {
			data, err := os.ReadFile(file)
			if err != nil {
				log.Print(err)
				exit = 1
				continue
			}
			convert(p, data, file)
		}
	}
	os.Exit(exit)
}

func newParser(list string) (*markdown.Parser, error) {
	p := new(markdown.Parser)
	for _, name := range strings.Split(list, ",") {
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

func convert(p *markdown.Parser, data []byte, file string) {
	in := string(data)
	out := markdown.Format(p.Parse(in))
	switch {
	case dflag:
		d, err := diff(in, out, file)
		if err != nil {
			log.Print(err)
			exit = 1
			return
		}
		os.Stdout.WriteString(d)
	case wflag && file != "":
		if out == in {
			return
		}
		if err := os.WriteFile(file, []byte(out), 0666); err != nil {
			log.Print(err)
			exit = 1
		}
	default:
		os.Stdout.WriteString(out)
	}
}

// diff returns a unified diff from in to out, or "" if they are equal.
func diff(in, out, file string) (string, error) {
	if in == out {
		return "", nil
	}
	if file == "" {
		file = "<stdin>"
	}
	d, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(in),
		B:        difflib.SplitLines(out),
		FromFile: file + ".orig",
		ToFile:   file,
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("diffing %s: %w", file, err)
	}
	return d, nil
}
