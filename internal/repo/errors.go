package repo

import (
	"errors"
	"fmt"

	"github.com/glazedonut/gnew/internal/store"
)

// Sentinel errors forming the closed error set the rest of the package
// surfaces. ObjectNotFound and ObjectCorrupted are the object store's own
// sentinels, re-exported here so callers only need to import one package.
var (
	ErrBranchExists      = errors.New("branch exists")
	ErrCheckoutFailed    = errors.New("checkout failed")
	ErrDirtyWorktree     = errors.New("dirty worktree")
	ErrFileNotFound      = errors.New("file not found")
	ErrNoRepository      = errors.New("no repository")
	ErrNothingToMerge    = errors.New("nothing to merge")
	ErrObjectMissing     = errors.New("object missing")
	ErrPushFailed        = errors.New("push failed")
	ErrReferenceNotFound = errors.New("reference not found")
	ErrRevisionNotFound  = errors.New("revision not found")
	ErrRepositoryExists  = errors.New("repository exists")

	ErrObjectNotFound  = store.ErrObjectNotFound
	ErrObjectCorrupted = store.ErrObjectCorrupted

	// ErrMergeFailed is the sentinel MergeFailedError.Is compares against,
	// so callers can use errors.Is(err, repo.ErrMergeFailed) without
	// caring about the conflicted paths.
	ErrMergeFailed = errors.New("merge failed")
)

// IoError wraps an underlying I/O failure that doesn't map to one of the
// named sentinels above.
type IoError struct {
	Err error
}

func (e *IoError) Error() string { return fmt.Sprintf("io error: %v", e.Err) }
func (e *IoError) Unwrap() error { return e.Err }

func wrapIO(err error) error {
	if err == nil {
		return nil
	}
	return &IoError{Err: err}
}

// MergeFailedError reports the worktree-relative paths left conflicted by
// a three-way merge.
type MergeFailedError struct {
	Paths []string
}

func (e *MergeFailedError) Error() string {
	if len(e.Paths) == 0 {
		return "merge failed"
	}
	return fmt.Sprintf("merge failed: conflicts in %v", e.Paths)
}

// Is lets errors.Is(err, ErrMergeFailed) match regardless of which paths
// conflicted.
func (e *MergeFailedError) Is(target error) bool {
	return target == ErrMergeFailed
}
