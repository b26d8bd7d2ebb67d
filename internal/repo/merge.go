package repo

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/glazedonut/gnew/internal/objects"
	"github.com/glazedonut/gnew/internal/refs"
	"github.com/glazedonut/gnew/internal/textmerge"
)

// MergeResult reports how Merge resolved HEAD against the target commit.
type MergeResult int

const (
	FastForward MergeResult = iota
	ThreeWay
)

// Merge reconciles HEAD with theirHash: a fast-forward when HEAD's tip is
// the common ancestor, a three-way merge otherwise. It fails with
// NothingToMerge when theirHash is already an ancestor of HEAD, and
// DirtyWorktree when the worktree has uncommitted changes.
func (r *Repository) Merge(theirHash objects.Hash) (MergeResult, error) {
	ours, err := r.HeadHash()
	if err != nil {
		return 0, err
	}

	base, err := r.CommonAncestor(ours, theirHash)
	if err != nil {
		return 0, err
	}
	if base == theirHash {
		return 0, ErrNothingToMerge
	}

	headTree, err := r.headTree()
	if err != nil {
		return 0, err
	}
	statuses, err := r.Status(headTree)
	if err != nil {
		return 0, err
	}
	for _, s := range statuses {
		if s != Unmodified && s != Untracked {
			return 0, ErrDirtyWorktree
		}
	}

	originalHead := r.head

	if base == ours {
		if err := r.Checkout(refs.Detached(theirHash), false); err != nil {
			return 0, err
		}
		if originalHead.IsBranch() {
			if err := r.SetBranch(originalHead.Branch, theirHash); err != nil {
				return 0, err
			}
			if err := r.setHead(refs.Branch(originalHead.Branch)); err != nil {
				return 0, err
			}
		}
		return FastForward, nil
	}

	return r.threeWayMerge(ours, theirHash, base)
}

func (r *Repository) threeWayMerge(ours, theirs, base objects.Hash) (MergeResult, error) {
	ourCommit, err := r.LoadCommit(ours)
	if err != nil {
		return 0, err
	}
	theirCommit, err := r.LoadCommit(theirs)
	if err != nil {
		return 0, err
	}
	baseCommit, err := r.LoadCommit(base)
	if err != nil {
		return 0, err
	}

	ourTree, err := r.LoadTree(ourCommit.Tree)
	if err != nil {
		return 0, err
	}
	theirTree, err := r.LoadTree(theirCommit.Tree)
	if err != nil {
		return 0, err
	}
	baseTree, err := r.LoadTree(baseCommit.Tree)
	if err != nil {
		return 0, err
	}

	ourFiles, err := r.FlattenTree(ourTree)
	if err != nil {
		return 0, err
	}
	theirFiles, err := r.FlattenTree(theirTree)
	if err != nil {
		return 0, err
	}
	baseFiles, err := r.FlattenTree(baseTree)
	if err != nil {
		return 0, err
	}

	paths := make(map[string]struct{}, len(ourFiles)+len(theirFiles))
	for p := range ourFiles {
		paths[p] = struct{}{}
	}
	for p := range theirFiles {
		paths[p] = struct{}{}
	}
	sortedPaths := make([]string, 0, len(paths))
	for p := range paths {
		sortedPaths = append(sortedPaths, p)
	}
	sort.Strings(sortedPaths)

	tracked := make(map[string]struct{}, len(r.tracklist))
	for _, p := range r.tracklist {
		tracked[p] = struct{}{}
	}

	var conflicts []string

	for _, path := range sortedPaths {
		oh, oOK := ourFiles[path]
		th, tOK := theirFiles[path]
		bh, bOK := baseFiles[path]
		full := filepath.Join(r.Worktree, filepath.FromSlash(path))

		switch {
		case !oOK && !bOK && tOK:
			// theirs added.
			if err := r.materializeHash(th, full); err != nil {
				return 0, err
			}
			tracked[path] = struct{}{}
		case oOK && bOK && !tOK && oh == bh:
			// theirs deleted, ours unchanged.
			if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
				return 0, wrapIO(err)
			}
			delete(tracked, path)
		case !oOK && bOK && tOK && bh == th:
			// ours deleted, theirs unchanged: already absent, nothing to do.
		default:
			baseContent, err := r.contentOrEmpty(baseFiles, path)
			if err != nil {
				return 0, err
			}
			ourContent, err := r.contentOrEmpty(ourFiles, path)
			if err != nil {
				return 0, err
			}
			theirContent, err := r.contentOrEmpty(theirFiles, path)
			if err != nil {
				return 0, err
			}

			merged, conflict := textmerge.Merge(baseContent, ourContent, theirContent)
			if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
				return 0, wrapIO(err)
			}
			if err := os.WriteFile(full, merged, 0o644); err != nil {
				return 0, wrapIO(err)
			}
			tracked[path] = struct{}{}
			if conflict {
				conflicts = append(conflicts, path)
			}
		}
	}

	newTracklist := make([]string, 0, len(tracked))
	for p := range tracked {
		newTracklist = append(newTracklist, p)
	}
	sort.Strings(newTracklist)
	r.tracklist = newTracklist
	if err := r.persistTracklist(); err != nil {
		return 0, err
	}

	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return 0, &MergeFailedError{Paths: conflicts}
	}
	return ThreeWay, nil
}

func (r *Repository) contentOrEmpty(files map[string]objects.Hash, path string) ([]byte, error) {
	h, ok := files[path]
	if !ok {
		return nil, nil
	}
	blob, err := r.LoadBlob(h)
	if err != nil {
		return nil, err
	}
	return blob.Content, nil
}
