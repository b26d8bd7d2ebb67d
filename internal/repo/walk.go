package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/glazedonut/gnew/internal/objects"
	"github.com/glazedonut/gnew/internal/store"
)

// maxTreeDepth caps the lazy walker's stack; exceeding it is treated as a
// cycle or corruption rather than a legitimately deep tree.
const maxTreeDepth = 1024

// FileEntry is one file yielded by a TreeWalker.
type FileEntry struct {
	Path string
	Hash objects.Hash
}

type walkFrame struct {
	prefix  string
	entries []objects.TreeEntry
	idx     int
}

// TreeWalker is a pull-based, depth-first cursor over every file in a
// tree. It dereferences subtrees from the object store on demand and is
// not restartable: once exhausted, construct a new one via Repository.Walk.
type TreeWalker struct {
	repo   *Repository
	frames []walkFrame
}

// Walk returns a lazy file iterator over tree.
func (r *Repository) Walk(tree objects.Tree) *TreeWalker {
	return &TreeWalker{
		repo:   r,
		frames: []walkFrame{{prefix: "", entries: tree.Entries, idx: 0}},
	}
}

// Next returns the next file in the tree, or ok=false once exhausted.
// A missing subtree object surfaces as ErrObjectMissing and terminates
// the walk.
func (w *TreeWalker) Next() (entry FileEntry, ok bool, err error) {
	for len(w.frames) > 0 {
		if len(w.frames) > maxTreeDepth {
			return FileEntry{}, false, fmt.Errorf("repo: tree walk exceeded max depth %d (cycle or corruption)", maxTreeDepth)
		}
		top := &w.frames[len(w.frames)-1]
		if top.idx >= len(top.entries) {
			w.frames = w.frames[:len(w.frames)-1]
			continue
		}
		e := top.entries[top.idx]
		top.idx++

		path := e.Name
		if top.prefix != "" {
			path = top.prefix + "/" + e.Name
		}

		switch e.Kind {
		case objects.BlobEntry:
			return FileEntry{Path: path, Hash: e.Hash}, true, nil
		case objects.TreeEntryKind:
			sub, err := w.repo.LoadTree(e.Hash)
			if err != nil {
				if errors.Is(err, store.ErrObjectNotFound) {
					return FileEntry{}, false, ErrObjectMissing
				}
				return FileEntry{}, false, err
			}
			w.frames = append(w.frames, walkFrame{prefix: path, entries: sub.Entries, idx: 0})
		}
	}
	return FileEntry{}, false, nil
}

// FlattenTree walks tree to completion and returns its files as a
// path-to-hash map.
func (r *Repository) FlattenTree(tree objects.Tree) (map[string]objects.Hash, error) {
	out := make(map[string]objects.Hash)
	w := r.Walk(tree)
	for {
		e, ok, err := w.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		out[e.Path] = e.Hash
	}
	return out, nil
}

// ChangeKind discriminates the three kinds of Change a diff can emit.
type ChangeKind int

const (
	ChangeModify ChangeKind = iota
	ChangeAdd
	ChangeRemove
)

// Change is one path's difference between two flattened trees.
type Change struct {
	Path string
	Kind ChangeKind
	From objects.Hash
	To   objects.Hash
}

// Diff flattens from and to and emits Modify/Add/Remove changes between
// them, sorted by path for determinism.
func (r *Repository) Diff(from, to objects.Tree) ([]Change, error) {
	fromFiles, err := r.FlattenTree(from)
	if err != nil {
		return nil, err
	}
	toFiles, err := r.FlattenTree(to)
	if err != nil {
		return nil, err
	}
	return diffMaps(fromFiles, toFiles), nil
}

// DiffWorktree diffs from against the current tracklist, hashing each
// tracked file on disk. Paths that have vanished since tracking are
// skipped silently.
func (r *Repository) DiffWorktree(from objects.Tree) ([]Change, error) {
	fromFiles, err := r.FlattenTree(from)
	if err != nil {
		return nil, err
	}

	toFiles := make(map[string]objects.Hash, len(r.tracklist))
	for _, rel := range r.tracklist {
		data, err := os.ReadFile(filepath.Join(r.Worktree, filepath.FromSlash(rel)))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, wrapIO(err)
		}
		blob, _ := objects.EncodeBlob(data)
		toFiles[rel] = blob.Hash
	}

	return diffMaps(fromFiles, toFiles), nil
}

func diffMaps(from, to map[string]objects.Hash) []Change {
	var changes []Change
	for path, fh := range from {
		th, ok := to[path]
		switch {
		case !ok:
			changes = append(changes, Change{Path: path, Kind: ChangeRemove, From: fh})
		case fh != th:
			changes = append(changes, Change{Path: path, Kind: ChangeModify, From: fh, To: th})
		}
	}
	for path, th := range to {
		if _, ok := from[path]; !ok {
			changes = append(changes, Change{Path: path, Kind: ChangeAdd, To: th})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes
}
