// Package inject provides an in-process implementation of the injection
// capability. Hosts with a real page styler supply their own; Memory backs
// tests, the CLI, and hosts that pull active CSS instead of being pushed.
package inject

import (
	"sync"

	"github.com/google/uuid"

	"github.com/usercss/userstyles/internal/styles/domain"
)

// Memory registers CSS bodies under uuid-identified handles and records
// their activation state.
type Memory struct {
	mu      sync.Mutex
	handles map[string]*memHandle
}

// NewMemory returns an empty in-memory injector.
func NewMemory() *Memory {
	return &Memory{handles: make(map[string]*memHandle)}
}

// Register creates a new inactive handle for css.
func (m *Memory) Register(css string) (domain.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := &memHandle{owner: m, id: uuid.NewString(), css: css}
	m.handles[h.id] = h
	return h, nil
}

// ActiveCSS returns the bodies of all currently active handles.
func (m *Memory) ActiveCSS() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, h := range m.handles {
		if h.active {
			out = append(out, h.css)
		}
	}
	return out
}

// Len returns the number of registered handles.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handles)
}

// Active reports whether the handle with the given id is active.
func (m *Memory) Active(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.handles[id]
	return ok && h.active
}

// memHandle is one registered CSS body. All state lives behind the owner's
// mutex; activation calls are naturally idempotent.
type memHandle struct {
	owner  *Memory
	id     string
	css    string
	active bool
}

func (h *memHandle) ID() string { return h.id }

func (h *memHandle) Activate() {
	h.owner.mu.Lock()
	defer h.owner.mu.Unlock()
	h.active = true
}

func (h *memHandle) Deactivate() {
	h.owner.mu.Lock()
	defer h.owner.mu.Unlock()
	h.active = false
}

func (h *memHandle) SetSource(css string) {
	h.owner.mu.Lock()
	defer h.owner.mu.Unlock()
	h.css = css
}

func (h *memHandle) Release() {
	h.owner.mu.Lock()
	defer h.owner.mu.Unlock()
	delete(h.owner.handles, h.id)
}

var _ domain.Injector = (*Memory)(nil)
var _ domain.Handle = (*memHandle)(nil)
