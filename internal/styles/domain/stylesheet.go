// Package domain holds the core value types of the user-stylesheet engine:
// match predicates, rule blocks, stylesheets, and page addresses, plus the
// capability interfaces for the host's CSS injection mechanism.
package domain

// RuleBlock pairs one opaque CSS body with the OR-combined predicates that
// scope it. The CSS is immutable after parsing. The handle is assigned when
// the owning stylesheet is registered with the injector and must be released
// before the block is discarded.
type RuleBlock struct {
	Predicates []Predicate
	CSS        string
	Handle     Handle
}

// Matches reports whether any of the block's predicates applies to addr.
// A block with no predicates matches nothing.
func (b RuleBlock) Matches(addr PageAddress) bool {
	for _, p := range b.Predicates {
		if p.Matches(addr) {
			return true
		}
	}
	return false
}

// Stylesheet is one loaded file: its ordered rule blocks and its persisted
// enabled flag. FileID is the stable identity used for persistence lookups,
// typically the file name relative to the styles directory.
type Stylesheet struct {
	FileID  string
	Blocks  []RuleBlock
	Enabled bool
}

// SheetResult summarizes one evaluation pass over a stylesheet.
type SheetResult struct {
	FileID  string
	Matched int // blocks whose predicates matched the address
	Active  int // blocks left active after the enabled gates
}
