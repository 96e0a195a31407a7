package domain

// Handle is the opaque token for one piece of CSS registered with the host's
// injection capability. Activate and Deactivate are idempotent; callers push
// state unconditionally rather than diffing. SetSource is used only to clear
// a handle's content before disposal.
type Handle interface {
	ID() string
	Activate()
	Deactivate()
	SetSource(css string)
	Release()
}

// Injector registers CSS bodies with the host's page styler. Handles start
// out inactive.
type Injector interface {
	Register(css string) (Handle, error)
}
