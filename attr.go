// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markdown

import (
	"fmt"
	"strings"
)

// An Attribute is a single name/value pair from a directive's {attributes}.
// A bare name has an empty value.
type Attribute struct {
	Name  string
	Value string
}

// Attributes is an ordered attribute list.
// Each name appears at most once.
type Attributes []Attribute

// Get returns the value of the named attribute
// and whether the attribute is present.
func (a Attributes) Get(name string) (string, bool) {
	for _, at := range a {
		if at.Name == name {
			return at.Value, true
		}
	}
	return "", false
}

// decodeAttribute decodes the character references
// (&amp;, &#123;, &#x7B;) in an attribute value.
// Each reference is decoded once; its text is not rescanned.
func decodeAttribute(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '&' {
			if text, end, ok := decodeEntity(s, i); ok {
				b.WriteString(text)
				i = end - 1
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// An attrList accumulates attributes in source order
// and collapses them into [Attributes].
type attrList []Attribute

func (l *attrList) add(name, value string) {
	*l = append(*l, Attribute{name, decodeAttribute(value)})
}

// collapse merges repeated names.
// Class values accumulate, separated by spaces.
// For every other name the last value wins.
// A name keeps the position of its first appearance.
func (l attrList) collapse() Attributes {
	if len(l) == 0 {
		return nil
	}
	var out Attributes
	var classes []string
	index := make(map[string]int)
	for _, at := range l {
		if at.Name == "class" {
			classes = append(classes, at.Value)
		}
		i, ok := index[at.Name]
		if !ok {
			index[at.Name] = len(out)
			out = append(out, at)
			continue
		}
		if at.Name != "class" {
			out[i].Value = at.Value
		}
	}
	if i, ok := index["class"]; ok {
		out[i].Value = strings.Join(classes, " ")
	}
	return out
}

// An attrCollector gathers attributes from the exit events
// of attribute tokens.
type attrCollector struct {
	list    attrList
	name    string
	pending bool // name seen without a value yet
}

func (c *attrCollector) flush() {
	if c.pending {
		c.list.add(c.name, "")
		c.pending = false
	}
}

func (c *attrCollector) exit(t *Token) {
	switch t.Kind {
	case TokenAttributeIDValue:
		c.flush()
		c.list.add("id", t.Text)
	case TokenAttributeClassValue:
		c.flush()
		c.list.add("class", t.Text)
	case TokenAttributeName:
		c.flush()
		c.name, c.pending = t.Text, true
	case TokenAttributeValue:
		c.list.add(c.name, t.Text)
		c.pending = false
	case TokenAttributes:
		c.flush()
	}
}

func (c *attrCollector) attributes() Attributes {
	c.flush()
	return c.list.collapse()
}

// collectAttributes returns the attributes recorded in a directive's
// event stream. Events outside the attribute section are ignored.
func collectAttributes(events []Event) Attributes {
	var c attrCollector
	for _, e := range events {
		if !e.Enter {
			c.exit(e.Token)
		}
	}
	return c.attributes()
}

// printAttributesMarkdown prints a as a directive {attributes} section.
// The id and class values that fit the shortcut syntax use it.
func printAttributesMarkdown(p *printer, a Attributes) {
	if len(a) == 0 {
		return
	}
	p.WriteByte('{')
	for i, at := range a {
		if i > 0 {
			p.WriteByte(' ')
		}
		switch {
		case at.Name == "id" && isShortcutValue(at.Value):
			p.WriteString("#" + at.Value)
		case at.Name == "class" && at.Value != "" && allShortcuts(strings.Split(at.Value, " ")):
			for j, class := range strings.Split(at.Value, " ") {
				if j > 0 {
					p.WriteByte(' ')
				}
				p.WriteString("." + class)
			}
		case at.Value == "":
			p.WriteString(at.Name)
		default:
			fmt.Fprintf(p, "%s=\"%s\"", at.Name, attrValueEscaper.Replace(at.Value))
		}
	}
	p.WriteByte('}')
}

// attrValueEscaper escapes a decoded value for use inside double quotes.
// Newlines cannot appear in a fence line, so they become references too.
var attrValueEscaper = strings.NewReplacer(
	`&`, `&amp;`,
	`"`, `&quot;`,
	"\n", `&#10;`,
	"\r", `&#13;`,
)

func isShortcutValue(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '#' || c == '.' || c == '}' || c == '&':
			return false
		case isBadAttrByte(int(c)):
			return false
		}
	}
	return true
}

func allShortcuts(list []string) bool {
	for _, s := range list {
		if !isShortcutValue(s) {
			return false
		}
	}
	return true
}
