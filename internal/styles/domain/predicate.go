package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// PredicateKind identifies the matching strategy of a Predicate.
type PredicateKind uint8

const (
	MatchURL PredicateKind = iota
	MatchURLPrefix
	MatchDomain
	MatchRegexp
)

// String returns the condition keyword as it appears in stylesheet source.
func (k PredicateKind) String() string {
	switch k {
	case MatchURL:
		return "url"
	case MatchURLPrefix:
		return "url-prefix"
	case MatchDomain:
		return "domain"
	case MatchRegexp:
		return "regexp"
	default:
		return "unknown"
	}
}

// IsValid returns true if the kind is one of the supported conditions.
func (k PredicateKind) IsValid() bool {
	return k <= MatchRegexp
}

// Predicate is a single match condition from a document rule. Immutable once
// constructed. Regexp predicates own their compiled pattern; the pattern is
// only reachable through Matches, so a compile failure can never surface at
// match time.
type Predicate struct {
	kind  PredicateKind
	value string
	re    *regexp.Regexp
}

// NewURLPredicate matches one exact page address.
func NewURLPredicate(u string) Predicate {
	return Predicate{kind: MatchURL, value: u}
}

// NewURLPrefixPredicate matches any address starting with prefix. The empty
// prefix matches every address.
func NewURLPrefixPredicate(prefix string) Predicate {
	return Predicate{kind: MatchURLPrefix, value: prefix}
}

// NewDomainPredicate matches a host or any of its subdomains. The parameter
// is lower-cased so it compares against canonical hosts.
func NewDomainPredicate(d string) Predicate {
	d = strings.ToLower(strings.TrimSuffix(d, "."))
	return Predicate{kind: MatchDomain, value: d}
}

// NewRegexpPredicate compiles expr at construction time. The error is the
// caller's to handle; an uncompilable pattern must fail the containing file.
func NewRegexpPredicate(expr string) (Predicate, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Predicate{}, fmt.Errorf("compiling regexp condition: %w", err)
	}
	return Predicate{kind: MatchRegexp, value: expr, re: re}, nil
}

// MatchAllPredicate scopes a block to every address. Unscoped trailing CSS
// gets wrapped in one of these.
func MatchAllPredicate() Predicate {
	return NewURLPrefixPredicate("")
}

// Kind returns the predicate's matching strategy.
func (p Predicate) Kind() PredicateKind { return p.kind }

// Value returns the predicate's raw parameter.
func (p Predicate) Value() string { return p.value }

// Matches reports whether the predicate applies to the given page address.
func (p Predicate) Matches(addr PageAddress) bool {
	switch p.kind {
	case MatchURL:
		return addr.URI == p.value
	case MatchURLPrefix:
		return strings.HasPrefix(addr.URI, p.value)
	case MatchDomain:
		for _, s := range addr.Suffixes {
			if s == p.value {
				return true
			}
		}
		return false
	case MatchRegexp:
		return p.re != nil && p.re.MatchString(addr.URI)
	default:
		return false
	}
}

// String renders the predicate in document-condition syntax, e.g.
// domain("example.com").
func (p Predicate) String() string {
	return fmt.Sprintf("%s(%q)", p.kind, p.value)
}
