package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glazedonut/gnew/internal/objects"
)

// FileStatus is a worktree-relative path's state against a reference tree.
type FileStatus int

const (
	Unmodified FileStatus = iota
	Modified
	Added
	Deleted
	Untracked
	Missing
)

// Code returns the single-character display code the spec assigns each
// FileStatus: "?", " ", "M", "A", "R", "!".
func (s FileStatus) Code() string {
	switch s {
	case Unmodified:
		return " "
	case Modified:
		return "M"
	case Added:
		return "A"
	case Deleted:
		return "R"
	case Missing:
		return "!"
	default:
		return "?"
	}
}

// toRelPath canonicalizes p to a worktree-relative path, rejecting
// anything outside the worktree.
func (r *Repository) toRelPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", wrapIO(err)
	}
	rel, err := filepath.Rel(r.Worktree, abs)
	if err != nil {
		return "", wrapIO(err)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || strings.HasPrefix(rel, "../") || rel == ".." {
		return "", ErrFileNotFound
	}
	return rel, nil
}

func (r *Repository) underStorageDir(rel string) bool {
	return rel == StorageDirName || strings.HasPrefix(rel, StorageDirName+"/")
}

func (r *Repository) persistTracklist() error {
	return wrapIO(r.Refs.WriteTracklist(r.tracklist))
}

// Add canonicalizes each path and appends it to the tracklist. A directory
// expands to every file beneath it, excluding the storage directory;
// already-tracked paths are skipped.
func (r *Repository) Add(paths []string) error {
	existing := make(map[string]struct{}, len(r.tracklist))
	for _, p := range r.tracklist {
		existing[p] = struct{}{}
	}
	var added []string

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return wrapIO(err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("repo: add %s: %w", p, ErrFileNotFound)
			}
			return wrapIO(err)
		}

		if info.IsDir() {
			err = filepath.Walk(abs, func(path string, fi os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				rel, rerr := r.toRelPath(path)
				if rerr != nil {
					return nil
				}
				if r.underStorageDir(rel) {
					if fi.IsDir() {
						return filepath.SkipDir
					}
					return nil
				}
				if fi.IsDir() {
					return nil
				}
				if _, ok := existing[rel]; !ok {
					existing[rel] = struct{}{}
					added = append(added, rel)
				}
				return nil
			})
			if err != nil {
				return wrapIO(err)
			}
			continue
		}

		rel, err := r.toRelPath(abs)
		if err != nil {
			return err
		}
		if r.underStorageDir(rel) {
			continue
		}
		if _, ok := existing[rel]; !ok {
			existing[rel] = struct{}{}
			added = append(added, rel)
		}
	}

	if len(added) == 0 {
		return nil
	}
	r.tracklist = append(r.tracklist, added...)
	return r.persistTracklist()
}

// Remove drops paths from the tracklist. A file path is removed if
// present; a directory path removes every tracklist entry it prefixes.
// Paths that no longer exist on disk are still accepted: a temporary
// empty file is created so canonicalization succeeds, then removed.
func (r *Repository) Remove(paths []string) error {
	removeSet := make(map[string]struct{})
	var prefixes []string

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return wrapIO(err)
		}

		info, statErr := os.Stat(abs)
		isDir := false
		if statErr != nil {
			if !os.IsNotExist(statErr) {
				return wrapIO(statErr)
			}
			if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
				return wrapIO(err)
			}
			f, err := os.Create(abs)
			if err != nil {
				return wrapIO(err)
			}
			f.Close()
			defer os.Remove(abs)
		} else {
			isDir = info.IsDir()
		}

		rel, err := r.toRelPath(abs)
		if err != nil {
			return err
		}
		if isDir {
			prefixes = append(prefixes, rel)
		} else {
			removeSet[rel] = struct{}{}
		}
	}

	var kept []string
	for _, t := range r.tracklist {
		if _, ok := removeSet[t]; ok {
			continue
		}
		skip := false
		for _, prefix := range prefixes {
			if t == prefix || strings.HasPrefix(t, prefix+"/") {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		kept = append(kept, t)
	}
	r.tracklist = kept
	return r.persistTracklist()
}

// Status computes each worktree path's FileStatus against tree.
func (r *Repository) Status(tree objects.Tree) (map[string]FileStatus, error) {
	treeFiles, err := r.FlattenTree(tree)
	if err != nil {
		return nil, err
	}

	tracked := make(map[string]struct{}, len(r.tracklist))
	for _, p := range r.tracklist {
		tracked[filepath.ToSlash(p)] = struct{}{}
	}

	result := make(map[string]FileStatus)
	seen := make(map[string]struct{})

	walkErr := filepath.Walk(r.Worktree, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, rerr := r.toRelPath(path)
		if rerr != nil {
			return nil
		}
		if r.underStorageDir(rel) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		seen[rel] = struct{}{}

		treeHash, inTree := treeFiles[rel]
		_, isTracked := tracked[rel]

		switch {
		case inTree && isTracked:
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			blob, _ := objects.EncodeBlob(data)
			if blob.Hash == treeHash {
				result[rel] = Unmodified
			} else {
				result[rel] = Modified
			}
		case inTree && !isTracked:
			result[rel] = Deleted
		case !inTree && isTracked:
			result[rel] = Added
		default:
			result[rel] = Untracked
		}
		return nil
	})
	if walkErr != nil {
		return nil, wrapIO(walkErr)
	}

	for path := range treeFiles {
		if _, ok := seen[path]; ok {
			continue
		}
		if _, isTracked := tracked[path]; isTracked {
			result[path] = Missing
		} else {
			result[path] = Deleted
		}
	}
	return result, nil
}
