package utils

import "testing"

func TestCanonicalHost(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Example.COM", "example.com"},
		{"example.com.", "example.com"},
		{" shop.example.com ", "shop.example.com"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CanonicalHost(tt.input); got != tt.expected {
			t.Errorf("CanonicalHost(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestApexDomain(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"subdomain", "shop.example.com", "example.com"},
		{"apex", "example.com", "example.com"},
		{"deep subdomain", "a.b.example.co.uk", "example.co.uk"},
		{"bare tld falls back", "com", "com"},
		{"pseudo-domain falls back", "about", "about"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApexDomain(tt.input); got != tt.expected {
				t.Errorf("ApexDomain(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
