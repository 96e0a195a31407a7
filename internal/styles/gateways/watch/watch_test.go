package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usercss/userstyles/internal/styles/common/log"
)

func TestMain(m *testing.M) {
	log.SetLogger(log.NewNoop())
	os.Exit(m.Run())
}

func TestRunTriggersReloadOnWrite(t *testing.T) {
	dir := t.TempDir()
	reloads := make(chan struct{}, 8)
	w := New(dir, 50*time.Millisecond, func() { reloads <- struct{}{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watch time to register before producing events.
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.css"), []byte("a {}"), 0o644))

	select {
	case <-reloads:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a reload after a file event")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop on context cancel")
	}
}

func TestRunMissingDir(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "nope"), 50*time.Millisecond, func() {})
	err := w.Run(context.Background())
	assert.Error(t, err)
}

func TestNewDefaultsDebounce(t *testing.T) {
	w := New(t.TempDir(), 0, func() {})
	assert.Equal(t, 250*time.Millisecond, w.debounce)
}
