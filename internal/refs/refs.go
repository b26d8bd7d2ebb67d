// Package refs implements gnew's reference storage: the HEAD pointer, the
// branch map, and the tracklist, each persisted as plain text under a
// repository's storage directory and rewritten atomically on every change.
package refs

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/glazedonut/gnew/internal/objects"
)

// Reference is a tagged union: either a literal Hash (detached HEAD) or a
// branch name (symbolic).
type Reference struct {
	Branch string // non-empty for a symbolic reference
	Hash   objects.Hash
}

// Branch builds a symbolic reference to the named branch.
func Branch(name string) Reference {
	return Reference{Branch: name}
}

// Detached builds a literal (detached) reference to hash.
func Detached(hash objects.Hash) Reference {
	return Reference{Hash: hash}
}

// IsBranch reports whether r names a branch rather than a literal hash.
func (r Reference) IsBranch() bool {
	return r.Branch != ""
}

func (r Reference) String() string {
	if r.IsBranch() {
		return fmt.Sprintf("branch %q", r.Branch)
	}
	return r.Hash.String()
}

// Store reads and writes HEAD, heads/<branch>, and tracklist under a
// repository's storage directory.
type Store struct {
	storageDir string
}

// New returns a Store rooted at storageDir (a repository's .gnew directory).
func New(storageDir string) *Store {
	return &Store{storageDir: storageDir}
}

func (s *Store) headsDir() string {
	return filepath.Join(s.storageDir, "heads")
}

func (s *Store) headPath() string {
	return filepath.Join(s.storageDir, "HEAD")
}

func (s *Store) tracklistPath() string {
	return filepath.Join(s.storageDir, "tracklist")
}

// Init lays out a fresh repository's reference state: an empty heads/
// directory, HEAD pointing at branch "main" (which need not exist yet),
// and an empty tracklist.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.headsDir(), 0o755); err != nil {
		return fmt.Errorf("refs: create heads dir: %w", err)
	}
	if err := s.WriteHead(Branch("main")); err != nil {
		return err
	}
	return s.WriteTracklist(nil)
}

// ReadHead reads and parses the HEAD file.
func (s *Store) ReadHead() (Reference, error) {
	data, err := os.ReadFile(s.headPath())
	if err != nil {
		return Reference{}, fmt.Errorf("refs: read HEAD: %w", err)
	}
	line := strings.TrimRight(string(data), "\n")
	if rest, ok := strings.CutPrefix(line, "ref: "); ok {
		return Branch(rest), nil
	}
	hash, err := objects.ParseHash(line)
	if err != nil {
		return Reference{}, fmt.Errorf("refs: malformed HEAD: %w", err)
	}
	return Detached(hash), nil
}

// WriteHead atomically rewrites the HEAD file.
func (s *Store) WriteHead(ref Reference) error {
	var line string
	if ref.IsBranch() {
		line = "ref: " + ref.Branch + "\n"
	} else {
		line = ref.Hash.String() + "\n"
	}
	return atomicWriteFile(s.headPath(), []byte(line))
}

// branchPath maps a branch name to its file under heads/. Names containing
// "/" nest into subdirectories, same as the teacher's ref-path convention;
// gnew does not validate branch names against the host filesystem's rules
// (see DESIGN.md Open Questions).
func (s *Store) branchPath(name string) string {
	safe := filepath.FromSlash(name)
	return filepath.Join(s.headsDir(), safe)
}

// ReadBranch reads a single branch's hash.
func (s *Store) ReadBranch(name string) (objects.Hash, error) {
	data, err := os.ReadFile(s.branchPath(name))
	if err != nil {
		return objects.Hash{}, fmt.Errorf("refs: read branch %q: %w", name, err)
	}
	return objects.ParseHash(strings.TrimRight(string(data), "\n"))
}

// WriteBranch atomically rewrites a single branch's hash, creating any
// nested directories the branch name implies.
func (s *Store) WriteBranch(name string, hash objects.Hash) error {
	path := s.branchPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("refs: create branch parent dir: %w", err)
	}
	return atomicWriteFile(path, []byte(hash.String()+"\n"))
}

// ReadBranches walks heads/ and returns every branch name to its hash.
func (s *Store) ReadBranches() (map[string]objects.Hash, error) {
	out := make(map[string]objects.Hash)
	root := s.headsDir()
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		hash, err := s.ReadBranch(name)
		if err != nil {
			return err
		}
		out[name] = hash
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("refs: read branches: %w", err)
	}
	return out, nil
}

// BranchNames returns the sorted branch names currently in branches.
func BranchNames(branches map[string]objects.Hash) []string {
	names := make([]string, 0, len(branches))
	for name := range branches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReadTracklist reads the tracklist file, returning nil for an empty file.
func (s *Store) ReadTracklist() ([]string, error) {
	f, err := os.Open(s.tracklistPath())
	if err != nil {
		return nil, fmt.Errorf("refs: read tracklist: %w", err)
	}
	defer f.Close()

	var paths []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			paths = append(paths, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("refs: scan tracklist: %w", err)
	}
	return paths, nil
}

// WriteTracklist atomically rewrites the tracklist file.
func (s *Store) WriteTracklist(paths []string) error {
	var b strings.Builder
	for _, p := range paths {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return atomicWriteFile(s.tracklistPath(), []byte(b.String()))
}

func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("refs: create parent dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("refs: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("refs: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("refs: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("refs: rename temp file: %w", err)
	}
	return nil
}
