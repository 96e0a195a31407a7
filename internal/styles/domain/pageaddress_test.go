package domain

import (
	"reflect"
	"testing"
)

func TestDomainOf(t *testing.T) {
	tests := []struct {
		name   string
		uri    string
		want   string
		wantOK bool
	}{
		{"https host", "https://Example.COM/path", "example.com", true},
		{"http host", "http://shop.example.com", "shop.example.com", true},
		{"host with trailing dot", "https://example.com./x", "example.com", true},
		{"http with port", "http://example.com:8080/", "example.com", true},
		{"other scheme", "about:blank", "about", true},
		{"file scheme", "file:///home/user/doc.html", "file", true},
		{"empty", "", "", false},
		{"schemeless", "example.com/path", "", false},
		{"http without host", "http://", "", false},
		{"unparseable", "http://exa mple.com/%", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DomainOf(tt.uri)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("DomainOf(%q) = (%q, %t), want (%q, %t)", tt.uri, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDomainSuffixes(t *testing.T) {
	tests := []struct {
		domain string
		want   []string
	}{
		{"a.b.example.com", []string{"a.b.example.com", "b.example.com", "example.com", "com"}},
		{"example.com", []string{"example.com", "com"}},
		{"com", []string{"com"}},
		{"", nil},
		{"localhost", []string{"localhost"}},
	}
	for _, tt := range tests {
		got := DomainSuffixes(tt.domain)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("DomainSuffixes(%q) = %v, want %v", tt.domain, got, tt.want)
		}
	}
}

func TestNewPageAddress(t *testing.T) {
	addr := NewPageAddress("https://a.b.example.com/page?q=1")
	if addr.Domain != "a.b.example.com" {
		t.Errorf("unexpected domain %q", addr.Domain)
	}
	if len(addr.Suffixes) != 4 {
		t.Errorf("expected 4 suffixes, got %v", addr.Suffixes)
	}

	addr = NewPageAddress("not a url")
	if addr.Domain != "" || addr.Suffixes != nil {
		t.Errorf("expected empty domain state, got %+v", addr)
	}
	if addr.URI != "not a url" {
		t.Errorf("raw URI must be preserved, got %q", addr.URI)
	}
}
