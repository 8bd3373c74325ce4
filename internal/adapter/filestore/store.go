// Package filestore persists snapshots under a fixed directory layout:
//
//	<root>/daily/daily_<YYYY-MM-DD>.json
//	<root>/weekly/weekly_<YYYY-Www>.json
//	<root>/monthly/monthly_<YYYY-MM>.json
//
// Files are immutable: Create never replaces an existing file.
package filestore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/couchcryptid/astro-snapshots/internal/domain"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Store reads and creates snapshot files below a root directory.
type Store struct {
	root   string
	writes atomic.Int64
}

// New returns a Store rooted at root. The directory is created lazily.
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the root directory.
func (s *Store) Root() string { return s.root }

// Path returns the file path for a period snapshot.
func (s *Store) Path(p domain.PeriodType, id string) string {
	return filepath.Join(s.root, string(p), fileName(p, id))
}

func fileName(p domain.PeriodType, id string) string {
	return fmt.Sprintf("%s_%s.json", p, id)
}

// Exists reports whether the snapshot file for the period is present.
func (s *Store) Exists(p domain.PeriodType, id string) (bool, error) {
	_, err := os.Stat(s.Path(p, id))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s snapshot %s: %w", p, id, err)
}

// Create writes data as the snapshot for the period unless a file already
// exists there. It reports whether this call created the file.
//
// The content goes to a temporary file in the target directory first and is
// published with a hard link, which fails if the name is taken. A concurrent
// run that wins the race therefore leaves its own complete file in place and
// this call returns false without error.
func (s *Store) Create(p domain.PeriodType, id string, data []byte) (bool, error) {
	path := s.Path(p, id)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return false, fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+fileName(p, id)+".tmp-*")
	if err != nil {
		return false, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // link already holds the content

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck,gosec // write error takes precedence
		return false, fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close() //nolint:errcheck,gosec // chmod error takes precedence
		return false, fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck,gosec // sync error takes precedence
		return false, fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("close %s: %w", tmpName, err)
	}

	if err := os.Link(tmpName, path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("publish %s: %w", path, err)
	}
	s.writes.Add(1)
	return true, nil
}

// Writes returns the number of files created by this Store.
func (s *Store) Writes() int64 {
	return s.writes.Load()
}

// Read returns the raw content of a snapshot file.
func (s *Store) Read(p domain.PeriodType, id string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(p, id))
	if err != nil {
		return nil, fmt.Errorf("read %s snapshot %s: %w", p, id, err)
	}
	return data, nil
}

// Entry is a snapshot file found by List.
type Entry struct {
	Type domain.PeriodType
	ID   string
	Path string
}

// List returns the snapshot files of a period type, sorted by id. Files whose
// names do not follow the <type>_<id>.json pattern are returned with an empty
// ID so callers can report them. Temporary files are skipped.
func (s *Store) List(p domain.PeriodType) ([]Entry, error) {
	dir := filepath.Join(s.root, string(p))
	des, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	prefix := string(p) + "_"
	entries := make([]Entry, 0, len(des))
	for _, de := range des {
		name := de.Name()
		if de.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		e := Entry{Type: p, Path: filepath.Join(dir, name)}
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".json") {
			e.ID = strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json")
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}
