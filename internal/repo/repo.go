// Package repo implements gnew's repository facade: the single owner of a
// worktree's in-memory HEAD, branch map, and tracklist, backed by the
// object store and reference store underneath it. Every mutating
// operation writes through to disk. HEAD and branch changes are persisted
// before the in-memory copy is updated; tracklist changes update the
// in-memory copy first and then persist it, so a failed tracklist write
// leaves the in-memory tracklist ahead of the file. The repository is
// scoped to one process's single Init/Open call — there is no
// package-level mutable state.
package repo

import (
	"os"
	"path/filepath"

	"github.com/glazedonut/gnew/internal/config"
	"github.com/glazedonut/gnew/internal/objects"
	"github.com/glazedonut/gnew/internal/refs"
	"github.com/glazedonut/gnew/internal/store"
)

// StorageDirName is the worktree-relative name of gnew's storage directory.
const StorageDirName = ".gnew"

// Repository is the open, in-memory view of one gnew repository.
type Repository struct {
	Worktree   string
	StorageDir string
	Objects    *store.Store
	Refs       *refs.Store
	Author     config.AuthorFunc

	head      refs.Reference
	branches  map[string]objects.Hash
	tracklist []string
}

// Init creates a new repository rooted at worktree, failing with
// RepositoryExists if its storage directory already exists.
func Init(worktree string) (*Repository, error) {
	abs, err := filepath.Abs(worktree)
	if err != nil {
		return nil, wrapIO(err)
	}
	storageDir := filepath.Join(abs, StorageDirName)

	if _, err := os.Stat(storageDir); err == nil {
		return nil, ErrRepositoryExists
	} else if !os.IsNotExist(err) {
		return nil, wrapIO(err)
	}

	objStore, err := store.Open(storageDir)
	if err != nil {
		return nil, wrapIO(err)
	}
	refStore := refs.New(storageDir)
	if err := refStore.Init(); err != nil {
		return nil, wrapIO(err)
	}

	return &Repository{
		Worktree:   abs,
		StorageDir: storageDir,
		Objects:    objStore,
		Refs:       refStore,
		Author:     config.EnvAuthor,
		head:       refs.Branch("main"),
		branches:   map[string]objects.Hash{},
		tracklist:  nil,
	}, nil
}

// Open loads an existing repository rooted at worktree.
func Open(worktree string) (*Repository, error) {
	abs, err := filepath.Abs(worktree)
	if err != nil {
		return nil, wrapIO(err)
	}
	storageDir := filepath.Join(abs, StorageDirName)
	if _, err := os.Stat(storageDir); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoRepository
		}
		return nil, wrapIO(err)
	}
	return openAt(abs, storageDir)
}

// OpenRemote opens the repository at an arbitrary directory path; a
// "remote" is just another local repository reached by path.
func OpenRemote(path string) (*Repository, error) {
	return Open(path)
}

func openAt(worktree, storageDir string) (*Repository, error) {
	objStore, err := store.Open(storageDir)
	if err != nil {
		return nil, wrapIO(err)
	}
	refStore := refs.New(storageDir)
	head, err := refStore.ReadHead()
	if err != nil {
		return nil, wrapIO(err)
	}
	branches, err := refStore.ReadBranches()
	if err != nil {
		return nil, wrapIO(err)
	}
	tracklist, err := refStore.ReadTracklist()
	if err != nil {
		return nil, wrapIO(err)
	}
	return &Repository{
		Worktree:   worktree,
		StorageDir: storageDir,
		Objects:    objStore,
		Refs:       refStore,
		Author:     config.EnvAuthor,
		head:       head,
		branches:   branches,
		tracklist:  tracklist,
	}, nil
}

// Close releases the repository's object store handle.
func (r *Repository) Close() error {
	return r.Objects.Close()
}

// Head returns the current HEAD reference.
func (r *Repository) Head() refs.Reference {
	return r.head
}

// Tracklist returns the current tracked paths.
func (r *Repository) Tracklist() []string {
	out := make([]string, len(r.tracklist))
	copy(out, r.tracklist)
	return out
}

// Branches returns a copy of the current branch name to Hash mapping.
func (r *Repository) Branches() map[string]objects.Hash {
	out := make(map[string]objects.Hash, len(r.branches))
	for k, v := range r.branches {
		out[k] = v
	}
	return out
}

func (r *Repository) setHead(ref refs.Reference) error {
	if err := r.Refs.WriteHead(ref); err != nil {
		return wrapIO(err)
	}
	r.head = ref
	return nil
}

// Resolve maps a Reference to its Hash: a branch through the branch map,
// a literal hash through identity.
func (r *Repository) Resolve(ref refs.Reference) (objects.Hash, error) {
	if ref.IsBranch() {
		h, ok := r.branches[ref.Branch]
		if !ok {
			return objects.Hash{}, ErrReferenceNotFound
		}
		return h, nil
	}
	return ref.Hash, nil
}

// RevParse maps "HEAD", a branch name, or a 40-hex-digit string to a Hash.
// A literal hash is tried before a branch lookup — an inherited quirk from
// the original prototype that makes a branch literally named like a hash
// unreachable by name (see DESIGN.md).
func (r *Repository) RevParse(s string) (objects.Hash, error) {
	if s == "HEAD" {
		h, err := r.HeadHash()
		if err != nil {
			return objects.Hash{}, ErrRevisionNotFound
		}
		return h, nil
	}
	if h, err := objects.ParseHash(s); err == nil {
		return h, nil
	}
	if h, ok := r.branches[s]; ok {
		return h, nil
	}
	return objects.Hash{}, ErrRevisionNotFound
}

// HeadHash resolves the current HEAD. It fails when HEAD names a branch
// that has never been committed to.
func (r *Repository) HeadHash() (objects.Hash, error) {
	return r.Resolve(r.head)
}

// CreateBranch creates a new branch pointing at the current HEAD commit
// (if one exists) and switches HEAD to it, even if the branch has no
// history yet.
func (r *Repository) CreateBranch(name string) error {
	if _, exists := r.branches[name]; exists {
		return ErrBranchExists
	}
	if h, err := r.HeadHash(); err == nil {
		if err := r.SetBranch(name, h); err != nil {
			return err
		}
	}
	return r.setHead(refs.Branch(name))
}

// SetBranch persists and caches a branch's commit hash.
func (r *Repository) SetBranch(name string, hash objects.Hash) error {
	if err := r.Refs.WriteBranch(name, hash); err != nil {
		return wrapIO(err)
	}
	r.branches[name] = hash
	return nil
}

// LoadCommit reads and decodes the commit at hash.
func (r *Repository) LoadCommit(h objects.Hash) (objects.Commit, error) {
	data, err := r.Objects.Read(h)
	if err != nil {
		return objects.Commit{}, err
	}
	return objects.DecodeCommit(data)
}

// LoadTree reads and decodes the tree at hash.
func (r *Repository) LoadTree(h objects.Hash) (objects.Tree, error) {
	data, err := r.Objects.Read(h)
	if err != nil {
		return objects.Tree{}, err
	}
	return objects.DecodeTree(data)
}

// LoadBlob reads and decodes the blob at hash.
func (r *Repository) LoadBlob(h objects.Hash) (objects.Blob, error) {
	data, err := r.Objects.Read(h)
	if err != nil {
		return objects.Blob{}, err
	}
	return objects.DecodeBlob(data)
}

// headTree returns HEAD's tree, or the empty tree if HEAD has no commit
// yet (a newborn branch).
func (r *Repository) headTree() (objects.Tree, error) {
	h, err := r.HeadHash()
	if err != nil {
		return objects.Tree{}, nil
	}
	c, err := r.LoadCommit(h)
	if err != nil {
		return objects.Tree{}, err
	}
	return r.LoadTree(c.Tree)
}
