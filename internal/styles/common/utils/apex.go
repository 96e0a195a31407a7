package utils

import "golang.org/x/net/publicsuffix"

// ApexDomain returns the registrable domain (eTLD+1) for a host, used to
// group log output per site. Falls back to the canonical input when the
// public suffix list cannot resolve it (bare TLDs, pseudo-domains).
func ApexDomain(host string) string {
	host = CanonicalHost(host)
	apex, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return apex
}
