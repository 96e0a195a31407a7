package bolt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := New(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestEnabledDefaultsTrue(t *testing.T) {
	s, _ := newTestStore(t)
	enabled, err := s.Enabled("never-seen.css")
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestSetEnabledRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.SetEnabled("dark.css", false))

	enabled, err := s.Enabled("dark.css")
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, s.SetEnabled("dark.css", true))
	enabled, err = s.Enabled("dark.css")
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestSetEnabledSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.SetEnabled("dark.css", false))
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()

	enabled, err := s.Enabled("dark.css")
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestForgetRevertsToDefault(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.SetEnabled("dark.css", false))
	require.NoError(t, s.Forget("dark.css"))

	enabled, err := s.Enabled("dark.css")
	require.NoError(t, err)
	assert.True(t, enabled)
}
