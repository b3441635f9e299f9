package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	crerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "live_matches.json"), []byte(`[{"id":1}]`), 0o644))

	store := NewStore(dir)
	raw, modTime, err := store.ReadDocument(context.Background(), "live_matches.json")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(raw))
	assert.False(t, modTime.IsZero())
}

func TestReadDocumentMissing(t *testing.T) {
	store := NewStore(t.TempDir())
	_, _, err := store.ReadDocument(context.Background(), "alerts.json")
	assert.True(t, crerr.Is(err, ErrMissing))
}

func TestReadDocumentRejectsPathEscape(t *testing.T) {
	store := NewStore(t.TempDir())
	_, _, err := store.ReadDocument(context.Background(), "../../etc/passwd")
	require.Error(t, err)
	assert.False(t, crerr.Is(err, ErrMissing))
}

func TestLatestUpdate(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	_, found := store.LatestUpdate(context.Background())
	assert.False(t, found)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "predictions"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "predictions", "7.json"), []byte(`{}`), 0o644))

	latest, found := store.LatestUpdate(context.Background())
	require.True(t, found)
	assert.False(t, latest.IsZero())
}
