package sheets

import (
	"fmt"
	"strings"
)

// cursor is a position index into the comment-stripped source. Parsing
// helpers only ever advance it.
type cursor struct {
	src string
	pos int
}

func (c *cursor) done() bool { return c.pos >= len(c.src) }

func (c *cursor) rest() string { return c.src[c.pos:] }

func (c *cursor) skipSpace() {
	for c.pos < len(c.src) && isSpace(c.src[c.pos]) {
		c.pos++
	}
}

// accept consumes the literal s when it is next.
func (c *cursor) accept(s string) bool {
	if strings.HasPrefix(c.src[c.pos:], s) {
		c.pos += len(s)
		return true
	}
	return false
}

func (c *cursor) acceptByte(b byte) bool {
	if c.pos < len(c.src) && c.src[c.pos] == b {
		c.pos++
		return true
	}
	return false
}

// ident consumes a condition keyword: ASCII letters and dashes.
func (c *cursor) ident() string {
	start := c.pos
	for c.pos < len(c.src) {
		b := c.src[c.pos]
		if (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '-' {
			c.pos++
			continue
		}
		break
	}
	return c.src[start:c.pos]
}

// delimited consumes the next open..close region and returns the inner text.
// Nested delimiters must balance; a naive first-close match would truncate
// bodies with nested braces or regexp parameters with grouping parens.
func (c *cursor) delimited(open, close byte) (string, error) {
	if c.done() || c.src[c.pos] != open {
		return "", &MalformedError{Offset: c.pos, Reason: fmt.Sprintf("expected %q", string(open))}
	}
	opened := c.pos
	c.pos++
	depth := 1
	start := c.pos
	for c.pos < len(c.src) {
		switch c.src[c.pos] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				inner := c.src[start:c.pos]
				c.pos++
				return inner, nil
			}
		}
		c.pos++
	}
	return "", &MalformedError{Offset: opened, Reason: fmt.Sprintf("unterminated %q region", string(open))}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}
