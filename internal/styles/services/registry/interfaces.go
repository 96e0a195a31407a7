package registry

import "github.com/usercss/userstyles/internal/styles/domain"

// Source enumerates discovered stylesheet files and reads their raw text.
type Source interface {
	List() ([]string, error)
	Read(name string) (string, error)
}

// StateStore persists per-file enabled flags. A file with no recorded flag
// reports enabled.
type StateStore interface {
	Enabled(fileID string) (bool, error)
	SetEnabled(fileID string, enabled bool) error
}

// Matcher evaluates the sheet collection against page addresses and drives
// the injection handles. Index must be called after every collection swap.
type Matcher interface {
	Index(sheets []*domain.Stylesheet)
	Evaluate(sheets []*domain.Stylesheet, addr domain.PageAddress, global bool) []domain.SheetResult
}
