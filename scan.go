// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markdown

// Scanning container fences
//
// An opening fence is recognized by an explicit state machine.
// The driver loop in scanOpening feeds it one byte at a time,
// with -1 standing for the end of the line. The transition function
// [fenceScanner.step] returns the next state and whether it consumed
// the byte. A state that does not consume the byte passes it on to the
// next state, which must either consume it or reject the line, so the
// scan is linear in the length of the line.
//
// As it goes, the scanner enters and exits tokens, building the
// event stream that the HTML and tree compilers later consume.
// On rejection the events are discarded and the line is left to
// the other block starters, usually ending up as paragraph text.
//
// Closing fences are simple enough to check directly; see scanClosing.

const (
	minFence      = 3   // colons needed to open a container
	maxLabelDepth = 32  // nested [ ] allowed in a label
	maxLabelSize  = 999 // bytes allowed in a label
)

type scanState int

const (
	stateReject scanState = iota
	stateAccept
	stateStart
	stateSequence
	stateSequenceAfter
	stateName
	stateKeyword
	stateKeywordAfter
	stateNameAfter
	stateLabelOpen
	stateLabelData
	stateLabelEscape
	stateLabelClose
	stateLabelAfter
	stateAttrsOpen
	stateAttrsBetween
	stateAttrShortcutStart
	stateAttrShortcut
	stateAttrName
	stateAttrValueBefore
	stateAttrQuoteOpen
	stateAttrValueQuoted
	stateAttrQuoteClose
	stateAttrValueUnquoted
	stateAttrsClose
	stateTitleBefore
	stateTitle
	stateTrailing
)

// A fenceHeader is the result of scanning an opening fence.
// The container token is entered but not yet exited:
// the block builder exits it once the closing fence (or the end of
// the enclosing block) is found.
type fenceHeader struct {
	events    []Event
	container *Token
	size      int // colons in the opening sequence
}

// A fenceScanner holds the state of one opening-fence scan.
type fenceScanner struct {
	syntax *ContainerSyntax
	text   string // line text starting at the first colon
	line   int
	off    int // offset of text[0] within its line
	i      int // current offset in text

	events []Event
	open   []*Token

	size       int       // colons seen
	matched    int       // keyword bytes matched
	last       byte      // previous name byte
	balance    int       // unclosed [ in label
	labelStart int       // offset of label text
	quote      byte      // quote around the current attribute value
	shortcut   TokenKind // TokenAttributeIDValue or TokenAttributeClassValue
}

// scanOpening scans text, which starts at byte offset off of line lineno,
// for an opening fence in the given syntax.
// It reports whether text is an opening fence and, if so,
// returns the scanned header.
func scanOpening(text string, syntax *ContainerSyntax, lineno, off int) (*fenceHeader, bool) {
	s := &fenceScanner{syntax: syntax, text: text, line: lineno, off: off}
	st := stateStart
	for st != stateAccept && st != stateReject {
		c := -1
		if s.i < len(s.text) {
			c = int(s.text[s.i])
		}
		next, consume := s.step(st, c)
		if consume {
			if c < 0 {
				panic("markdown: fence scanner consumed end of line")
			}
			s.i++
		}
		st = next
	}
	if st == stateReject {
		return nil, false
	}
	if len(s.open) != 1 {
		panic("markdown: fence scanner left tokens open")
	}
	return &fenceHeader{events: s.events, container: s.open[0], size: s.size}, true
}

func (s *fenceScanner) posAt(i int) Pos {
	return Pos{Line: s.line, Col: s.off + i + 1, Offset: s.off + i}
}

func (s *fenceScanner) enter(kind TokenKind) {
	t := &Token{Kind: kind, Start: s.posAt(s.i)}
	s.open = append(s.open, t)
	s.events = append(s.events, Event{Enter: true, Token: t})
}

func (s *fenceScanner) exit(kind TokenKind) {
	s.exitAt(kind, s.i)
}

// exitAt exits the innermost open token, which must have the given kind,
// ending it at offset i.
func (s *fenceScanner) exitAt(kind TokenKind, i int) {
	t := s.open[len(s.open)-1]
	if t.Kind != kind {
		panic("markdown: fence scanner exits " + kind.String() + " inside " + t.Kind.String())
	}
	s.open = s.open[:len(s.open)-1]
	t.End = s.posAt(i)
	t.Text = s.text[t.Start.Offset-s.off : i]
	s.events = append(s.events, Event{Enter: false, Token: t})
}

// step is the transition function.
// It is given the current state and byte (-1 at end of line)
// and returns the next state and whether c was consumed.
func (s *fenceScanner) step(st scanState, c int) (scanState, bool) {
	switch st {
	case stateStart:
		if c != ':' {
			return stateReject, false
		}
		s.enter(TokenContainer)
		s.enter(TokenFence)
		s.enter(TokenSequence)
		return stateSequence, false

	case stateSequence:
		if c == ':' {
			s.size++
			return stateSequence, true
		}
		if s.size < minFence {
			return stateReject, false
		}
		s.exit(TokenSequence)
		return stateSequenceAfter, false

	case stateSequenceAfter:
		if c == ' ' || c == '\t' {
			return stateSequenceAfter, true
		}
		if s.syntax.Keyword != "" {
			s.enter(TokenName)
			return stateKeyword, false
		}
		if c < 0 || !isLetter(byte(c)) {
			return stateReject, false
		}
		s.enter(TokenName)
		return stateName, false

	case stateName:
		if c >= 0 && (isLetterDigit(byte(c)) || c == '-' || c == '_') {
			s.last = byte(c)
			return stateName, true
		}
		if s.last == '-' || s.last == '_' {
			return stateReject, false
		}
		s.exit(TokenName)
		return stateNameAfter, false

	case stateKeyword:
		kw := s.syntax.Keyword
		if s.matched < len(kw) {
			if c != int(kw[s.matched]) {
				return stateReject, false
			}
			s.matched++
			return stateKeyword, true
		}
		s.exit(TokenName)
		return stateKeywordAfter, false

	case stateKeywordAfter:
		if !s.syntax.Title {
			return stateNameAfter, false
		}
		switch {
		case c == ' ' || c == '\t':
			return stateTitleBefore, true
		case c < 0:
			return stateTrailing, false
		}
		return stateReject, false

	case stateNameAfter:
		if c == '[' && s.syntax.Label {
			s.enter(TokenLabel)
			s.enter(TokenLabelMarker)
			return stateLabelOpen, true
		}
		return stateLabelAfter, false

	case stateLabelOpen:
		s.exit(TokenLabelMarker)
		s.labelStart = s.i
		if c == ']' {
			s.enter(TokenLabelMarker)
			return stateLabelClose, true
		}
		s.enter(TokenLabelString)
		return stateLabelData, false

	case stateLabelData:
		if c < 0 || s.i-s.labelStart > maxLabelSize {
			return stateReject, false
		}
		switch c {
		case '[':
			s.balance++
			if s.balance > maxLabelDepth {
				return stateReject, false
			}
		case ']':
			if s.balance == 0 {
				s.exit(TokenLabelString)
				s.enter(TokenLabelMarker)
				return stateLabelClose, true
			}
			s.balance--
		case '\\':
			return stateLabelEscape, true
		}
		return stateLabelData, true

	case stateLabelEscape:
		if c == '[' || c == ']' || c == '\\' {
			return stateLabelData, true
		}
		return stateLabelData, false

	case stateLabelClose:
		s.exit(TokenLabelMarker)
		s.exit(TokenLabel)
		return stateLabelAfter, false

	case stateLabelAfter:
		if c == '{' && s.syntax.Attributes {
			s.enter(TokenAttributes)
			s.enter(TokenAttributesMarker)
			return stateAttrsOpen, true
		}
		return stateTrailing, false

	case stateAttrsOpen:
		s.exit(TokenAttributesMarker)
		return stateAttrsBetween, false

	case stateAttrsBetween:
		switch {
		case c == ' ' || c == '\t':
			return stateAttrsBetween, true
		case c == '#':
			s.shortcut = TokenAttributeIDValue
			return stateAttrShortcutStart, true
		case c == '.':
			s.shortcut = TokenAttributeClassValue
			return stateAttrShortcutStart, true
		case c == ':' || c == '_' || c >= 0 && isLetter(byte(c)):
			s.enter(TokenAttributeName)
			return stateAttrName, false
		case c == '}':
			s.enter(TokenAttributesMarker)
			return stateAttrsClose, true
		}
		return stateReject, false

	case stateAttrShortcutStart:
		if c < 0 || c == ' ' || c == '\t' || c == '#' || c == '.' || c == '}' || isBadAttrByte(c) {
			return stateReject, false
		}
		s.enter(s.shortcut)
		return stateAttrShortcut, true

	case stateAttrShortcut:
		switch {
		case c < 0 || isBadAttrByte(c):
			return stateReject, false
		case c == ' ' || c == '\t' || c == '#' || c == '.' || c == '}':
			s.exit(s.shortcut)
			return stateAttrsBetween, false
		}
		return stateAttrShortcut, true

	case stateAttrName:
		if c >= 0 && (isLetterDigit(byte(c)) || c == ':' || c == '-' || c == '.' || c == '_') {
			return stateAttrName, true
		}
		s.exit(TokenAttributeName)
		if c == '=' {
			return stateAttrValueBefore, true
		}
		return stateAttrsBetween, false

	case stateAttrValueBefore:
		switch {
		case c == '"' || c == '\'':
			s.quote = byte(c)
			return stateAttrQuoteOpen, true
		case c < 0 || c == ' ' || c == '\t' || c == '}' || isBadAttrByte(c):
			return stateReject, false
		}
		s.enter(TokenAttributeValue)
		return stateAttrValueUnquoted, false

	case stateAttrQuoteOpen:
		s.enter(TokenAttributeValue)
		return stateAttrValueQuoted, false

	case stateAttrValueQuoted:
		switch {
		case c < 0:
			return stateReject, false
		case c == int(s.quote):
			s.exit(TokenAttributeValue)
			return stateAttrQuoteClose, true
		}
		return stateAttrValueQuoted, true

	case stateAttrQuoteClose:
		if c == ' ' || c == '\t' || c == '}' {
			return stateAttrsBetween, false
		}
		return stateReject, false

	case stateAttrValueUnquoted:
		switch {
		case c < 0 || isBadAttrByte(c):
			return stateReject, false
		case c == ' ' || c == '\t' || c == '}':
			s.exit(TokenAttributeValue)
			return stateAttrsBetween, false
		}
		return stateAttrValueUnquoted, true

	case stateAttrsClose:
		s.exit(TokenAttributesMarker)
		s.exit(TokenAttributes)
		return stateTrailing, false

	case stateTitleBefore:
		switch {
		case c == ' ' || c == '\t':
			return stateTitleBefore, true
		case c < 0:
			return stateTrailing, false
		}
		s.enter(TokenLabel)
		s.enter(TokenLabelString)
		return stateTitle, false

	case stateTitle:
		if c >= 0 {
			return stateTitle, true
		}
		end := s.i
		for end > 0 && (s.text[end-1] == ' ' || s.text[end-1] == '\t') {
			end--
		}
		s.exitAt(TokenLabelString, end)
		s.exitAt(TokenLabel, end)
		return stateTrailing, false

	case stateTrailing:
		switch {
		case c == ' ' || c == '\t':
			return stateTrailing, true
		case c < 0:
			s.exit(TokenFence)
			return stateAccept, false
		}
		return stateReject, false
	}
	panic("markdown: bad fence scanner state")
}

// isBadAttrByte reports whether c can never appear in an
// unquoted attribute value or shortcut.
func isBadAttrByte(c int) bool {
	switch c {
	case '"', '\'', '<', '=', '>', '`':
		return true
	}
	return false
}

// scanClosing reports whether s is a closing fence for a container
// opened with size colons: up to three columns of indentation,
// at least size colons, and then only spaces and tabs.
// If so, it returns the fence's events.
func scanClosing(s line, lineno, size int) ([]Event, bool) {
	t := s
	t.trimSpace(0, 3, false)
	if t.peek() != ':' {
		return nil, false
	}
	start := t.i
	n := 0
	for t.trim(':') {
		n++
	}
	if n < size {
		return nil, false
	}
	end := t.i
	t.skipSpace()
	if !t.eof() {
		return nil, false
	}

	at := func(i int) Pos { return Pos{Line: lineno, Col: i + 1, Offset: i} }
	fence := &Token{Kind: TokenFence, Start: at(start), End: at(len(t.text)), Text: t.text[start:]}
	seq := &Token{Kind: TokenSequence, Start: at(start), End: at(end), Text: t.text[start:end]}
	return []Event{
		{Enter: true, Token: fence},
		{Enter: true, Token: seq},
		{Enter: false, Token: seq},
		{Enter: false, Token: fence},
	}, true
}
