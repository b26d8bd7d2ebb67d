package repo

import "github.com/glazedonut/gnew/internal/objects"

// CommonAncestor walks both commits' parent chains in lockstep and
// returns the first commit either walk finds the other has already seen.
// It fails with ObjectNotFound if the chains never converge.
func (r *Repository) CommonAncestor(a, b objects.Hash) (objects.Hash, error) {
	if a == b {
		return a, nil
	}

	seenA := map[objects.Hash]struct{}{}
	seenB := map[objects.Hash]struct{}{}
	curA, curB := a, b
	doneA, doneB := false, false

	for !doneA || !doneB {
		if !doneA {
			if _, ok := seenB[curA]; ok {
				return curA, nil
			}
			seenA[curA] = struct{}{}
			c, err := r.LoadCommit(curA)
			if err != nil {
				return objects.Hash{}, err
			}
			if c.Parent == nil {
				doneA = true
			} else {
				curA = *c.Parent
			}
		}
		if !doneB {
			if _, ok := seenA[curB]; ok {
				return curB, nil
			}
			seenB[curB] = struct{}{}
			c, err := r.LoadCommit(curB)
			if err != nil {
				return objects.Hash{}, err
			}
			if c.Parent == nil {
				doneB = true
			} else {
				curB = *c.Parent
			}
		}
	}

	return objects.Hash{}, ErrObjectNotFound
}
