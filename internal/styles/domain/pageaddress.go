package domain

import (
	"net/url"
	"strings"
)

// PageAddress is the per-view match target derived from the currently
// displayed URI. It is recomputed on every navigation and never persisted.
type PageAddress struct {
	URI      string
	Domain   string // "" when the URI has no usable host
	Suffixes []string
}

// NewPageAddress derives the match domain and its suffix chain from uri.
func NewPageAddress(uri string) PageAddress {
	addr := PageAddress{URI: uri}
	if d, ok := DomainOf(uri); ok {
		addr.Domain = d
		addr.Suffixes = DomainSuffixes(d)
	}
	return addr
}

// DomainOf returns the match domain for a page URI: the lower-cased host for
// http and https, the scheme name as a pseudo-domain for every other scheme
// (so internal pages match on their scheme), and false for empty,
// schemeless, or unparseable input.
func DomainOf(uri string) (string, bool) {
	if uri == "" {
		return "", false
	}
	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
		if host == "" {
			return "", false
		}
		return host, true
	default:
		return strings.ToLower(u.Scheme), true
	}
}

// DomainSuffixes returns the domain followed by each dot-separated
// right-hand suffix down to the terminal label:
// "a.b.example.com" yields ["a.b.example.com", "b.example.com",
// "example.com", "com"]. This is what lets a domain predicate on
// "example.com" match any of its subdomains.
func DomainSuffixes(domain string) []string {
	if domain == "" {
		return nil
	}
	suffixes := make([]string, 0, strings.Count(domain, ".")+1)
	for {
		suffixes = append(suffixes, domain)
		i := strings.IndexByte(domain, '.')
		if i < 0 || i == len(domain)-1 {
			break
		}
		domain = domain[i+1:]
	}
	return suffixes
}
