// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markdown

// A line is a cursor over one input line.
//
// Tabs count as advancing to the next multiple of four columns,
// so removing indentation can split a tab. The columns of a tab
// that have not yet been removed are kept in spaces; they read as
// spaces until trimmed.
type line struct {
	spaces   int    // virtual spaces left over from a partially consumed tab
	i        int    // offset of cursor in text
	tab      int    // offset where the current tab stop counting started
	text     string // entire line, without its line ending
	nl       byte   // line ending: '\n', '\r', '\r'+'\n', or 0 at EOF
	nonblank int    // offset of first byte at or after i that is not a space or tab
}

func makeLine(text string, nl byte) line {
	s := line{text: text, nl: nl}
	s.setNonblank()
	return s
}

func (s *line) setNonblank() {
	i := s.i
	for i < len(s.text) && isSpaceTab(s.text[i]) {
		i++
	}
	s.nonblank = i
}

// peek returns the byte at the cursor, or 0 at end of line.
func (s *line) peek() byte {
	switch {
	case s.spaces > 0:
		return ' '
	case s.i < len(s.text):
		return s.text[s.i]
	}
	return 0
}

// skipSpace moves the cursor past all spaces and tabs.
func (s *line) skipSpace() {
	s.spaces = 0
	s.i = s.nonblank
}

// trimSpace removes between min and max columns of indentation,
// reporting whether it could remove at least min.
// If eolOK is set, the end of the line counts as an endless
// supply of spaces.
// On failure s is unchanged.
func (s *line) trimSpace(min, max int, eolOK bool) bool {
	t := *s
	for n := 0; n < max; n++ {
		switch {
		case t.spaces > 0:
			t.spaces--
			continue
		case t.i >= len(t.text):
			if eolOK {
				continue
			}
		case t.text[t.i] == ' ':
			t.i++
			continue
		case t.text[t.i] == '\t':
			t.spaces = 3 - (t.i-t.tab)&3
			t.i++
			t.tab = t.i
			continue
		}
		if n < min {
			return false
		}
		break
	}
	if t.nonblank < t.i {
		t.setNonblank()
	}
	*s = t
	return true
}

// trim removes the byte c from the cursor, reporting whether it was there.
func (s *line) trim(c byte) bool {
	if s.spaces > 0 {
		if c != ' ' {
			return false
		}
		s.spaces--
		return true
	}
	if s.i >= len(s.text) || s.text[s.i] != c {
		return false
	}
	s.i++
	if s.nonblank < s.i {
		s.setNonblank()
	}
	return true
}

// skip moves the cursor n bytes forward.
func (s *line) skip(n int) {
	s.i += n
	if s.nonblank < s.i {
		s.setNonblank()
	}
}

// string returns the rest of the line, including leftover tab columns.
func (s *line) string() string {
	if s.spaces < 0 || s.spaces > 3 {
		panic("markdown: bad spaces")
	}
	return "   "[:s.spaces] + s.text[s.i:]
}

func (s *line) isBlank() bool {
	return s.nonblank == len(s.text)
}

func (s *line) eof() bool {
	return s.i >= len(s.text)
}

// trimSpaceString returns the rest of the line without leading spaces and tabs.
func (s *line) trimSpaceString() string {
	return s.text[s.nonblank:]
}

// trimString returns the rest of the line
// without leading or trailing spaces and tabs.
func (s *line) trimString() string {
	return trimSpaceTab(s.text[s.nonblank:])
}

func isSpaceTab(c byte) bool {
	return c == ' ' || c == '\t'
}

func trimRightSpaceTab(s string) string {
	j := len(s)
	for j > 0 && isSpaceTab(s[j-1]) {
		j--
	}
	return s[:j]
}

func trimSpaceTab(s string) string {
	i := 0
	for i < len(s) && isSpaceTab(s[i]) {
		i++
	}
	return trimRightSpaceTab(s[i:])
}

func trimSpaceTabNewline(s string) string {
	isSpace := func(c byte) bool { return c == ' ' || c == '\t' || c == '\n' }
	i, j := 0, len(s)
	for i < j && isSpace(s[i]) {
		i++
	}
	for j > i && isSpace(s[j-1]) {
		j--
	}
	return s[i:j]
}
