// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package markdown

// Lazy continuation
//
// A paragraph line can continue a paragraph even when it lacks the
// prefixes of the blocks around the paragraph:
//
//	> quoted
//	still quoted
//
// Containers do not allow this. A line that does not reach the inside
// of a container cannot be part of a paragraph inside it, so
//
//	> :::note
//	> inside
//	outside
//
// ends the quote (and the container) before "outside".

// A concreteBuilder is a [blockBuilder] whose content cannot be
// continued by lazy lines.
type concreteBuilder interface {
	blockBuilder
	concrete()
}

// lazyContinue reports whether the current line, which stopped
// matching open blocks at p.lineDepth, may continue the open paragraph
// lazily. No unmatched block between the two may be concrete.
func (p *parser) lazyContinue() bool {
	for i := p.lineDepth + 1; i < len(p.stack)-1; i++ {
		if _, ok := p.stack[i].builder.(concreteBuilder); ok {
			return false
		}
	}
	return true
}
