package repo

import (
	"fmt"

	"github.com/glazedonut/gnew/internal/objects"
	"github.com/glazedonut/gnew/internal/store"
)

// Pull copies every object peer has that the local store lacks, then
// reconciles branches. With all, every peer branch is considered: new
// branches are created, existing ones fast-forwarded when the peer
// contains the local tip, and anything else fails MergeFailed (the
// per-branch merge story is unimplemented, per the spec's open
// questions). Without all, only the branch HEAD currently names is
// reconciled, falling back to a real three-way Merge plus commit when a
// fast-forward isn't possible. The worktree is re-checked-out (forced) at
// the end either way.
func (r *Repository) Pull(peer *Repository, all bool) error {
	ok, err := r.safeToSwitch()
	if err != nil {
		return err
	}
	if !ok {
		return ErrCheckoutFailed
	}

	peerHashes, err := peer.Objects.List()
	if err != nil {
		return wrapIO(err)
	}
	if err := store.Copy(r.Objects, peer.Objects, peerHashes); err != nil {
		return wrapIO(err)
	}

	if all {
		for name, peerHash := range peer.branches {
			localHash, exists := r.branches[name]
			if !exists {
				if err := r.SetBranch(name, peerHash); err != nil {
					return err
				}
				continue
			}
			if peer.Objects.Exists(localHash) {
				if err := r.SetBranch(name, peerHash); err != nil {
					return err
				}
			} else {
				return &MergeFailedError{}
			}
		}
	} else {
		if !r.head.IsBranch() {
			return ErrReferenceNotFound
		}
		branchName := r.head.Branch
		if peerHash, ok := peer.branches[branchName]; ok {
			localHash, hasLocal := r.branches[branchName]
			switch {
			case !hasLocal:
				if err := r.SetBranch(branchName, peerHash); err != nil {
					return err
				}
			case peer.Objects.Exists(localHash):
				if err := r.SetBranch(branchName, peerHash); err != nil {
					return err
				}
			default:
				if _, err := r.Merge(peerHash); err != nil {
					return err
				}
				if _, err := r.Commit(fmt.Sprintf("merge %s", peerHash)); err != nil {
					return err
				}
			}
		}
	}

	return r.Checkout(r.head, true)
}

// Push is Pull's mirror image: for each branch (or just the current one),
// if local already contains the peer's tip, the peer's branch is
// fast-forwarded to the local tip; otherwise PushFailed. Every local
// object the peer lacks is then copied over and the peer's worktree is
// re-checked-out.
func (r *Repository) Push(peer *Repository, all bool) error {
	ok, err := r.safeToSwitch()
	if err != nil {
		return err
	}
	if !ok {
		return ErrCheckoutFailed
	}

	update := func(name string, localHash objects.Hash) error {
		if peerHash, exists := peer.branches[name]; exists && !r.Objects.Exists(peerHash) {
			return ErrPushFailed
		}
		return peer.SetBranch(name, localHash)
	}

	if all {
		for name, localHash := range r.branches {
			if err := update(name, localHash); err != nil {
				return err
			}
		}
	} else {
		if !r.head.IsBranch() {
			return ErrReferenceNotFound
		}
		branchName := r.head.Branch
		localHash, ok := r.branches[branchName]
		if !ok {
			return ErrReferenceNotFound
		}
		if err := update(branchName, localHash); err != nil {
			return err
		}
	}

	localHashes, err := r.Objects.List()
	if err != nil {
		return wrapIO(err)
	}
	if err := store.Copy(peer.Objects, r.Objects, localHashes); err != nil {
		return wrapIO(err)
	}

	return peer.Checkout(peer.head, true)
}
