package sheets

import (
	"errors"
	"fmt"
)

// ErrLegacyFormat marks a stylesheet that predates document scoping: it
// contains neither a document section nor the apply-globally opt-out
// comment. Such files are rejected rather than guessed at.
var ErrLegacyFormat = errors.New("stylesheet uses a legacy unscoped format")

// MalformedError reports a syntax problem inside a document section. Offset
// is a byte position into the comment-stripped source.
type MalformedError struct {
	Offset int
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed document section at offset %d: %s", e.Offset, e.Reason)
}
