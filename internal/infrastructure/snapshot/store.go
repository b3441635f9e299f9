package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
)

// ErrMissing marks a snapshot document that does not exist on disk. Callers
// fall back to placeholder payloads instead of failing the request.
var ErrMissing = crerr.New("snapshot document missing")

// Store reads JSON snapshot documents written under a well-known directory
// by the external real-time analysis process. The store never writes; the
// writer owns the directory layout and replaces files atomically.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// ReadDocument returns the raw bytes and modification time of one snapshot
// document. Name is a relative path like "live_matches.json" or
// "predictions/12345.json".
func (s *Store) ReadDocument(_ context.Context, name string) ([]byte, time.Time, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, time.Time{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, time.Time{}, crerr.Wrapf(ErrMissing, "%s", name)
		}
		return nil, time.Time{}, crerr.Wrapf(err, "stat snapshot %s", name)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, time.Time{}, crerr.Wrapf(err, "read snapshot %s", name)
	}

	return raw, info.ModTime(), nil
}

// LatestUpdate reports the most recent modification time across all snapshot
// documents, false when the directory is empty or absent.
func (s *Store) LatestUpdate(_ context.Context) (time.Time, bool) {
	var latest time.Time
	found := false

	filepath.WalkDir(s.dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil || entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			return nil
		}
		info, infoErr := entry.Info()
		if infoErr != nil {
			return nil
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
			found = true
		}
		return nil
	})

	return latest, found
}

// resolve joins name under the snapshot dir and rejects path escapes. The
// match id in prediction lookups comes from the URL, so the store cannot
// trust the relative path blindly.
func (s *Store) resolve(name string) (string, error) {
	if strings.Contains(name, "..") || filepath.IsAbs(name) {
		return "", crerr.Newf("snapshot name escapes snapshot dir: %s", name)
	}
	return filepath.Join(s.dir, name), nil
}
