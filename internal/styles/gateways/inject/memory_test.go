package inject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterStartsInactive(t *testing.T) {
	m := NewMemory()
	h, err := m.Register("a { color: red }")
	require.NoError(t, err)
	assert.NotEmpty(t, h.ID())
	assert.False(t, m.Active(h.ID()))
	assert.Empty(t, m.ActiveCSS())
	assert.Equal(t, 1, m.Len())
}

func TestActivateIsIdempotent(t *testing.T) {
	m := NewMemory()
	h, err := m.Register("a {}")
	require.NoError(t, err)

	h.Activate()
	h.Activate()
	assert.True(t, m.Active(h.ID()))
	assert.Len(t, m.ActiveCSS(), 1)

	h.Deactivate()
	h.Deactivate()
	assert.False(t, m.Active(h.ID()))
	assert.Empty(t, m.ActiveCSS())
}

func TestReleaseForgetsHandle(t *testing.T) {
	m := NewMemory()
	h, err := m.Register("a {}")
	require.NoError(t, err)
	h.Activate()
	h.Release()
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.ActiveCSS())
}

func TestSetSourceReplacesCSS(t *testing.T) {
	m := NewMemory()
	h, err := m.Register("a { color: red }")
	require.NoError(t, err)
	h.Activate()
	h.SetSource("")
	assert.Equal(t, []string{""}, m.ActiveCSS())
}

func TestHandlesAreDistinct(t *testing.T) {
	m := NewMemory()
	h1, err := m.Register("a {}")
	require.NoError(t, err)
	h2, err := m.Register("b {}")
	require.NoError(t, err)
	assert.NotEqual(t, h1.ID(), h2.ID())

	h1.Activate()
	assert.True(t, m.Active(h1.ID()))
	assert.False(t, m.Active(h2.ID()))
}
