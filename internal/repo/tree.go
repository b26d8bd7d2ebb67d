package repo

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/glazedonut/gnew/internal/objects"
	"github.com/glazedonut/gnew/internal/refs"
	"github.com/glazedonut/gnew/internal/store"
)

// WriteTree serializes the current worktree's tracked files into a Tree,
// writing every blob and subtree it touches (and the root tree itself,
// even when empty).
func (r *Repository) WriteTree() (objects.Tree, error) {
	tracked := make(map[string]struct{}, len(r.tracklist))
	for _, p := range r.tracklist {
		tracked[filepath.ToSlash(p)] = struct{}{}
	}

	tree, err := r.buildTree(r.Worktree, "", tracked)
	if err != nil {
		return objects.Tree{}, err
	}
	_, data, err := objects.EncodeTree(tree.Entries)
	if err != nil {
		return objects.Tree{}, err
	}
	if err := r.Objects.Write(tree.Hash, data); err != nil {
		return objects.Tree{}, wrapIO(err)
	}
	return tree, nil
}

// buildTree computes the (unwritten) Tree for dir. The caller decides
// whether to persist it: subtrees are only linked into their parent, and
// written, when non-empty; the root is always written by WriteTree.
func (r *Repository) buildTree(dir, relPrefix string, tracked map[string]struct{}) (objects.Tree, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return objects.Tree{}, wrapIO(err)
	}

	var treeEntries []objects.TreeEntry
	for _, de := range entries {
		name := de.Name()
		if relPrefix == "" && name == StorageDirName {
			continue
		}
		rel := name
		if relPrefix != "" {
			rel = relPrefix + "/" + name
		}
		full := filepath.Join(dir, name)

		if de.IsDir() {
			sub, err := r.buildTree(full, rel, tracked)
			if err != nil {
				return objects.Tree{}, err
			}
			if len(sub.Entries) == 0 {
				continue
			}
			_, data, err := objects.EncodeTree(sub.Entries)
			if err != nil {
				return objects.Tree{}, err
			}
			if err := r.Objects.Write(sub.Hash, data); err != nil {
				return objects.Tree{}, wrapIO(err)
			}
			treeEntries = append(treeEntries, objects.TreeEntry{Kind: objects.TreeEntryKind, Hash: sub.Hash, Name: name})
			continue
		}

		if _, ok := tracked[rel]; !ok {
			continue
		}
		content, err := os.ReadFile(full)
		if err != nil {
			return objects.Tree{}, wrapIO(err)
		}
		blob, data := objects.EncodeBlob(content)
		if err := r.Objects.Write(blob.Hash, data); err != nil {
			return objects.Tree{}, wrapIO(err)
		}
		treeEntries = append(treeEntries, objects.TreeEntry{Kind: objects.BlobEntry, Hash: blob.Hash, Name: name})
	}

	tree, _, err := objects.EncodeTree(treeEntries)
	if err != nil {
		return objects.Tree{}, err
	}
	return tree, nil
}

// Commit writes the current worktree as a Tree and records a Commit on
// top of it, advancing HEAD (the current branch, or HEAD itself if
// detached).
func (r *Repository) Commit(msg string) (objects.Commit, error) {
	tree, err := r.WriteTree()
	if err != nil {
		return objects.Commit{}, err
	}

	var parent *objects.Hash
	if h, err := r.HeadHash(); err == nil {
		parent = &h
	}

	author := r.Author()
	commit, data, err := objects.EncodeCommit(tree.Hash, parent, author, time.Now().UTC().UnixMilli(), msg)
	if err != nil {
		return objects.Commit{}, err
	}
	if err := r.Objects.Write(commit.Hash, data); err != nil {
		return objects.Commit{}, wrapIO(err)
	}

	if r.head.IsBranch() {
		if err := r.SetBranch(r.head.Branch, commit.Hash); err != nil {
			return objects.Commit{}, err
		}
	} else {
		if err := r.setHead(refs.Detached(commit.Hash)); err != nil {
			return objects.Commit{}, err
		}
	}
	return commit, nil
}

// safeToSwitch reports whether every file is Unmodified or Missing
// against HEAD's tree — the precondition for a non-forced switch.
func (r *Repository) safeToSwitch() (bool, error) {
	headTree, err := r.headTree()
	if err != nil {
		return false, err
	}
	statuses, err := r.Status(headTree)
	if err != nil {
		return false, err
	}
	for _, s := range statuses {
		if s != Unmodified && s != Missing {
			return false, nil
		}
	}
	return true, nil
}

// Checkout resolves newHead, asserts safe-switch unless force is set, and
// materializes the target tree into the worktree.
func (r *Repository) Checkout(newHead refs.Reference, force bool) error {
	targetHash, err := r.Resolve(newHead)
	if err != nil {
		return err
	}
	commit, err := r.LoadCommit(targetHash)
	if err != nil {
		return err
	}
	targetTree, err := r.LoadTree(commit.Tree)
	if err != nil {
		return err
	}

	if !force {
		ok, err := r.safeToSwitch()
		if err != nil {
			return err
		}
		if !ok {
			return ErrCheckoutFailed
		}
	}

	targetFiles, err := r.FlattenTree(targetTree)
	if err != nil {
		return err
	}
	statuses, err := r.Status(targetTree)
	if err != nil {
		return err
	}

	for path, status := range statuses {
		full := filepath.Join(r.Worktree, filepath.FromSlash(path))
		switch status {
		case Added:
			if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
				return wrapIO(err)
			}
		case Deleted, Missing:
			if err := r.materializeHash(targetFiles[path], full); err != nil {
				return err
			}
		case Modified:
			if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
				return wrapIO(err)
			}
			if err := r.materializeHash(targetFiles[path], full); err != nil {
				return err
			}
		case Unmodified:
			// no-op
		case Untracked:
			if !force {
				return ErrCheckoutFailed
			}
			if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
				return wrapIO(err)
			}
		}
	}

	paths := make([]string, 0, len(targetFiles))
	for p := range targetFiles {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	r.tracklist = paths
	if err := r.persistTracklist(); err != nil {
		return err
	}

	return r.setHead(newHead)
}

func (r *Repository) materializeHash(hash objects.Hash, fullPath string) error {
	blob, err := r.LoadBlob(hash)
	if err != nil {
		if errors.Is(err, store.ErrObjectNotFound) {
			return ErrObjectMissing
		}
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return wrapIO(err)
	}
	if err := os.WriteFile(fullPath, blob.Content, 0o644); err != nil {
		return wrapIO(err)
	}
	return nil
}
