// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markdown

import (
	"fmt"
	"strings"
)

// A TokenKind identifies the syntactic role of a [Token]
// in the event stream of a colon-fenced container.
type TokenKind int

const (
	TokenContainer TokenKind = iota + 1 // whole construct, opening fence through closing fence
	TokenFence                          // opening or closing fence line
	TokenSequence                       // run of colons
	TokenName                           // directive name or keyword
	TokenLabel                          // [label] or title, with markers
	TokenLabelMarker                    // [ or ]
	TokenLabelString                    // label text between the markers
	TokenAttributes                     // {attributes}, with markers
	TokenAttributesMarker               // { or }
	TokenAttributeIDValue               // value of a #id shortcut
	TokenAttributeClassValue            // value of a .class shortcut
	TokenAttributeName                  // name in name or name=value
	TokenAttributeValue                 // value in name=value, without quotes
	TokenContent                        // all content lines
	TokenChunk                          // one content line, indentation removed
)

var tokenNames = [...]string{
	TokenContainer:           "container",
	TokenFence:               "fence",
	TokenSequence:            "sequence",
	TokenName:                "name",
	TokenLabel:               "label",
	TokenLabelMarker:         "labelMarker",
	TokenLabelString:         "labelString",
	TokenAttributes:          "attributes",
	TokenAttributesMarker:    "attributesMarker",
	TokenAttributeIDValue:    "attributeIdValue",
	TokenAttributeClassValue: "attributeClassValue",
	TokenAttributeName:       "attributeName",
	TokenAttributeValue:      "attributeValue",
	TokenContent:             "content",
	TokenChunk:               "chunk",
}

func (k TokenKind) String() string {
	if 0 < k && int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// A Pos is a location in the source text.
// Line and Col are 1-based; Col counts bytes.
// Offset is the byte offset of the location within its line.
type Pos struct {
	Line   int
	Col    int
	Offset int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// A Token is a typed span of source text.
// Text holds the source slice between Start and End;
// it is set when the token is exited.
type Token struct {
	Kind  TokenKind
	Start Pos
	End   Pos
	Text  string
}

// An Event enters or exits a [Token].
// The enter and exit events for a token share the same *Token.
// A well-formed stream exits tokens in the reverse order it enters them.
type Event struct {
	Enter bool
	Token *Token
}

func (e Event) String() string {
	verb := "exit"
	if e.Enter {
		verb = "enter"
	}
	return fmt.Sprintf("%s %v", verb, e.Token.Kind)
}

// Trace returns a textual dump of events, one line per event,
// indented two spaces per level of nesting.
// Exit lines of tokens with non-empty text quote that text.
// Container and content tokens span lines and carry no text.
func Trace(events []Event) string {
	var b strings.Builder
	depth := 0
	for _, e := range events {
		if !e.Enter {
			depth--
		}
		if depth < 0 {
			panic("markdown: unbalanced event stream")
		}
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(e.String())
		if !e.Enter && e.Token.Text != "" {
			fmt.Fprintf(&b, " %q", e.Token.Text)
		}
		b.WriteByte('\n')
		if e.Enter {
			depth++
		}
	}
	return b.String()
}

// walkEvents calls enter or exit for each event in events,
// checking that the stream is well nested.
func walkEvents(events []Event, enter, exit func(*Token)) {
	var open []*Token
	for _, e := range events {
		if e.Enter {
			open = append(open, e.Token)
			enter(e.Token)
			continue
		}
		if len(open) == 0 || open[len(open)-1] != e.Token {
			panic("markdown: exit of " + e.Token.Kind.String() + " does not match enter")
		}
		open = open[:len(open)-1]
		exit(e.Token)
	}
	if len(open) != 0 {
		panic("markdown: " + open[len(open)-1].Kind.String() + " never exited")
	}
}
