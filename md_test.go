// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markdown

import (
	"bytes"
	"flag"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	gparser "github.com/yuin/goldmark/parser"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/tools/txtar"
)

var goldmarkFlag = flag.Bool("goldmark", false, "run goldmark tests")

// Test runs the txtar corpus in testdata.
// Each archive holds pairs of files, name.md and name.html;
// its comment sets Parser and Renderer options, one "key: value" per line.
func Test(t *testing.T) {
	files, err := filepath.Glob("testdata/*.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no testdata")
	}
	for _, file := range files {
		t.Run(strings.TrimSuffix(filepath.Base(file), ".txt"), func(t *testing.T) {
			a, err := txtar.ParseFile(file)
			if err != nil {
				t.Fatal(err)
			}

			var p Parser
			var r Renderer
			if err := setOptions(&p, &r, a.Comment); err != nil {
				t.Fatal(err)
			}

			var ncase, npass int
			for i := 0; i+2 <= len(a.Files); i += 2 {
				ncase++
				md := a.Files[i]
				html := a.Files[i+1]
				name := strings.TrimSuffix(md.Name, ".md")
				if name != strings.TrimSuffix(html.Name, ".html") {
					t.Fatalf("mismatched file pair: %s and %s", md.Name, html.Name)
				}

				t.Run(name, func(t *testing.T) {
					doc := p.Parse(decode(string(md.Data)))
					h := encode(r.ToHTML(doc))
					if h != string(html.Data) {
						t.Fatalf("input %q\nparse:\n%s\nhave %q\nwant %q\ndingus: (https://spec.commonmark.org/dingus/?text=%s)", md.Data, dump(doc), h, html.Data, strings.ReplaceAll(url.QueryEscape(decode(string(md.Data))), "+", "%20"))
					}
					npass++
				})

				// goldmark knows nothing of containers.
				if !*goldmarkFlag || len(p.Containers) > 0 {
					continue
				}
				t.Run("goldmark/"+name, func(t *testing.T) {
					opts := []goldmark.Option{goldmark.WithRendererOptions(ghtml.WithUnsafe())}
					if p.HeadingIDs {
						opts = append(opts, goldmark.WithParserOptions(gparser.WithHeadingAttribute()))
					}
					gm := goldmark.New(opts...)
					var buf bytes.Buffer
					if err := gm.Convert([]byte(decode(string(md.Data))), &buf); err != nil {
						t.Fatal(err)
					}
					if buf.Len() > 0 && buf.Bytes()[buf.Len()-1] != '\n' {
						buf.WriteByte('\n')
					}
					want := string(html.Data)
					want = strings.ReplaceAll(want, " />", ">")
					out := encode(buf.String())
					out = strings.ReplaceAll(out, " />", ">")
					if out != want {
						t.Fatalf("\n    - input: ``%q``\n    - output: ``%q``\n    - golden: ``%q``", md.Data, out, want)
					}
				})
			}
			t.Logf("%d/%d pass", npass, ncase)
		})
	}
}

func decode(s string) string {
	s = strings.ReplaceAll(s, "^J\n", "\n")
	s = strings.ReplaceAll(s, "^M", "\r")
	s = strings.ReplaceAll(s, "^D\n", "")
	s = strings.ReplaceAll(s, "^@", "\x00")
	return s
}

func encode(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "^M\n")
	s = strings.ReplaceAll(s, "\r", "^M^D\n")
	s = strings.ReplaceAll(s, " \n", " ^J\n")
	s = strings.ReplaceAll(s, "\t\n", "\t^J\n")
	s = strings.ReplaceAll(s, "\x00", "^@")
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "^D\n"
	}
	return s
}

var testSyntaxes = map[string]ContainerSyntax{
	"directive": DirectiveSyntax,
	"spoiler":   SpoilerSyntax,
	"lemmy":     LemmySpoilerSyntax,
}

// testHandlers are the handlers a testdata file can install
// with a "Handlers:" line.
var testHandlers = map[string]Handler{
	"note": func(w *HTMLWriter, c *Container) bool {
		w.Tag(`<aside class="note">`)
		if c.HasLabel {
			w.Tag("<b>")
			w.Raw(c.Label)
			w.Tag("</b>")
		}
		w.Raw(c.Content)
		w.Tag("</aside>")
		return true
	},
	"youtube": func(w *HTMLWriter, c *Container) bool {
		v, ok := c.Attributes.Get("v")
		if !ok {
			return false
		}
		w.Tag(`<iframe src="https://www.youtube.com/embed/` + w.Encode(v) + `"></iframe>`)
		return true
	},
	"*": func(w *HTMLWriter, c *Container) bool {
		w.Tag(`<div data-name="` + w.Encode(c.Name) + `">`)
		w.Raw(c.Content)
		w.Tag("</div>")
		return true
	},
}

// setOptions extracts lines of the form
//
//	key: value
//
// from data and sets the corresponding options on p and r.
func setOptions(p *Parser, r *Renderer, data []byte) error {
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "//") {
			continue
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "Containers":
			for _, name := range strings.Fields(value) {
				syn, ok := testSyntaxes[name]
				if !ok {
					return fmt.Errorf("unknown container syntax %q", name)
				}
				p.Containers = append(p.Containers, syn)
			}
		case "Handlers":
			r.Handlers = make(map[string]Handler)
			for _, name := range strings.Fields(value) {
				h, ok := testHandlers[name]
				if !ok {
					return fmt.Errorf("unknown handler %q", name)
				}
				r.Handlers[name] = h
			}
		case "Fallback":
			switch value {
			case "markup":
				r.Default = FallbackMarkup
			case "drop":
				r.Default = FallbackDrop
			default:
				return fmt.Errorf("unknown fallback %q", value)
			}
		case "HeadingIDs", "AutoHeadingIDs", "Strikethrough", "SmartDot", "SmartDash", "SmartQuote":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return err
			}
			switch key {
			case "HeadingIDs":
				p.HeadingIDs = b
			case "AutoHeadingIDs":
				p.AutoHeadingIDs = b
			case "Strikethrough":
				p.Strikethrough = b
			case "SmartDot":
				p.SmartDot = b
			case "SmartDash":
				p.SmartDash = b
			case "SmartQuote":
				p.SmartQuote = b
			}
		default:
			return fmt.Errorf("unknown option: %q", key)
		}
	}
	return nil
}

// dump returns a debugging dump of the block structure of b.
func dump(b Block) string {
	var buf bytes.Buffer
	dumpBlock(&buf, b, "")
	return buf.String()
}

func dumpBlock(buf *bytes.Buffer, b Block, prefix string) {
	pos := b.Pos()
	fmt.Fprintf(buf, "%s%T %d-%d", prefix, b, pos.StartLine, pos.EndLine)
	var inner []Block
	switch b := b.(type) {
	case *Document:
		inner = b.Blocks
	case *Quote:
		inner = b.Blocks
	case *List:
		inner = b.Items
	case *Item:
		inner = b.Blocks
	case *Directive:
		fmt.Fprintf(buf, " %q", b.Name)
		if b.Label != nil {
			fmt.Fprintf(buf, " [%s]", Format(b.Label))
		}
		if len(b.Attributes) > 0 {
			fmt.Fprintf(buf, " %v", b.Attributes)
		}
		inner = b.Blocks
	}
	buf.WriteString("\n")
	for _, c := range inner {
		dumpBlock(buf, c, prefix+"\t")
	}
}
