// Package store implements gnew's object store: a flat, write-once,
// content-addressed directory of one file per object hash.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glazedonut/gnew/internal/objects"
)

// Sentinel errors surfaced by the object store. See internal/repo/errors.go
// for the full closed error set this is part of.
var (
	ErrObjectNotFound = errors.New("object not found")
	ErrObjectCorrupted = errors.New("object corrupted")
)

// Store is a flat, content-addressed, write-once file store rooted at a
// worktree's storage directory, matching the layout spec'd for gnew:
// one file per object, named by its 40-char hex hash, under objects/.
type Store struct {
	root  string // storage_dir
	index *Index // derived cache, never authoritative
}

// Open returns a Store rooted at storageDir, creating objects/ if needed,
// and opens (creating if needed) its derived index cache. A newly created
// index is filled from objects/ before Open returns.
func Open(storageDir string) (*Store, error) {
	dir := objectsDir(storageDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create objects dir: %w", err)
	}
	_, statErr := os.Stat(filepath.Join(storageDir, "index.db"))
	idx, err := openIndex(storageDir)
	if err != nil {
		return nil, fmt.Errorf("store: open index: %w", err)
	}
	s := &Store{root: storageDir, index: idx}
	if os.IsNotExist(statErr) {
		if err := s.Rebuild(); err != nil {
			idx.Close()
			return nil, fmt.Errorf("store: rebuild index: %w", err)
		}
	}
	return s, nil
}

// Close releases the store's index handle.
func (s *Store) Close() error {
	if s.index == nil {
		return nil
	}
	return s.index.Close()
}

func objectsDir(storageDir string) string {
	return filepath.Join(storageDir, "objects")
}

func (s *Store) path(h objects.Hash) string {
	return filepath.Join(objectsDir(s.root), h.String())
}

// Write stores data under hash. It is idempotent: if an object of that hash
// already exists, Write is a no-op, since hash equality implies byte
// equality for well-formed objects. Otherwise it writes atomically (temp
// file + rename).
func (s *Store) Write(h objects.Hash, data []byte) error {
	path := s.path(h)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("store: stat %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(objectsDir(s.root), h.String()+".tmp-*")
	if err != nil {
		return fmt.Errorf("store: create temp object: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("store: write temp object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("store: close temp object: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("store: rename temp object: %w", err)
	}

	if s.index != nil {
		if err := s.index.Put(h); err != nil {
			return fmt.Errorf("store: index object: %w", err)
		}
	}
	return nil
}

// Read returns the bytes stored under hash. It errors with
// ErrObjectNotFound on a missing object, the wrapped read error otherwise, and
// ErrObjectCorrupted if the bytes don't hash back to the requested name.
func (s *Store) Read(h objects.Hash) ([]byte, error) {
	data, err := os.ReadFile(s.path(h))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("store: %s: %w", h, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("store: read %s: %w", h, err)
	}
	if objects.Sum(data) != h {
		return nil, fmt.Errorf("store: %s: %w", h, ErrObjectCorrupted)
	}
	return data, nil
}

// Exists reports whether an object of the given hash has been written.
func (s *Store) Exists(h objects.Hash) bool {
	if s.index != nil {
		if ok, known := s.index.Has(h); known {
			return ok
		}
	}
	_, err := os.Stat(s.path(h))
	return err == nil
}

// List enumerates every hash currently in the store.
func (s *Store) List() (map[objects.Hash]struct{}, error) {
	if s.index != nil {
		if hashes, err := s.index.List(); err == nil {
			return hashes, nil
		}
	}
	return s.listFromDisk()
}

func (s *Store) listFromDisk() (map[objects.Hash]struct{}, error) {
	entries, err := os.ReadDir(objectsDir(s.root))
	if err != nil {
		return nil, fmt.Errorf("store: list objects dir: %w", err)
	}
	out := make(map[objects.Hash]struct{}, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		h, err := objects.ParseHash(e.Name())
		if err != nil {
			continue // skip stray files (e.g. leftover .tmp- entries)
		}
		out[h] = struct{}{}
	}
	return out, nil
}

// Rebuild discards and reconstructs the derived index cache by walking
// objects/ from scratch. Safe to call at any time; never touches the
// authoritative object files.
func (s *Store) Rebuild() error {
	if s.index == nil {
		return nil
	}
	hashes, err := s.listFromDisk()
	if err != nil {
		return err
	}
	return s.index.rebuild(hashes)
}

// Copy copies every hash in hashes from src into dst, skipping any dst
// already has.
func Copy(dst, src *Store, hashes map[objects.Hash]struct{}) error {
	for h := range hashes {
		if dst.Exists(h) {
			continue
		}
		data, err := src.Read(h)
		if err != nil {
			return fmt.Errorf("store: copy %s: %w", h, err)
		}
		if err := dst.Write(h, data); err != nil {
			return fmt.Errorf("store: copy %s: %w", h, err)
		}
	}
	return nil
}
