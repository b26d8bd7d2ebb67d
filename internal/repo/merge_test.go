package repo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/glazedonut/gnew/internal/refs"
)

// TestCommonAncestorLinearHistory walks a straight-line history: b is a
// descendant of a, so their common ancestor is a itself.
func TestCommonAncestorLinearHistory(t *testing.T) {
	r, dir := initTest(t)
	writeFile(t, dir, "a.txt", "1")
	if err := r.Add([]string{filepath.Join(dir, "a.txt")}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	first, err := r.Commit("first")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	writeFile(t, dir, "a.txt", "2")
	second, err := r.Commit("second")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	anc, err := r.CommonAncestor(first.Hash, second.Hash)
	if err != nil {
		t.Fatalf("CommonAncestor: %v", err)
	}
	if anc != first.Hash {
		t.Fatalf("ancestor = %s, want %s", anc, first.Hash)
	}
}

// TestMergeFastForward is seed scenario S6: branch off, commit on the
// branch, then merge it into a HEAD that hasn't moved: a pure
// fast-forward, and branches["main"] becomes the branch tip.
func TestMergeFastForward(t *testing.T) {
	r, dir := initTest(t)
	writeFile(t, dir, "a.txt", "1")
	if err := r.Add([]string{filepath.Join(dir, "a.txt")}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Commit("first"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if err := r.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	writeFile(t, dir, "b.txt", "2")
	if err := r.Add([]string{filepath.Join(dir, "b.txt")}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	featureCommit, err := r.Commit("second")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if err := r.Checkout(refs.Branch("main"), true); err != nil {
		t.Fatalf("Checkout main: %v", err)
	}

	result, err := r.Merge(featureCommit.Hash)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if result != FastForward {
		t.Fatalf("result = %v, want FastForward", result)
	}
	if r.Branches()["main"] != featureCommit.Hash {
		t.Fatalf("branches[main] = %s, want %s", r.Branches()["main"], featureCommit.Hash)
	}
}

// TestMergeNothingToMerge checks §8 property 7: merging an ancestor of
// HEAD (here, theirs == ours) is rejected with NothingToMerge.
func TestMergeNothingToMerge(t *testing.T) {
	r, dir := initTest(t)
	writeFile(t, dir, "a.txt", "1")
	if err := r.Add([]string{filepath.Join(dir, "a.txt")}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	commit, err := r.Commit("first")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if _, err := r.Merge(commit.Hash); err != ErrNothingToMerge {
		t.Fatalf("Merge err = %v, want ErrNothingToMerge", err)
	}
}

// TestMergeThreeWayClean diverges two branches on disjoint files and
// merges without conflict.
func TestMergeThreeWayClean(t *testing.T) {
	r, dir := initTest(t)
	writeFile(t, dir, "base.txt", "base")
	if err := r.Add([]string{filepath.Join(dir, "base.txt")}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Commit("base"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if err := r.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	writeFile(t, dir, "feature.txt", "from feature")
	if err := r.Add([]string{filepath.Join(dir, "feature.txt")}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	featureCommit, err := r.Commit("feature work")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if err := r.Checkout(refs.Branch("main"), true); err != nil {
		t.Fatalf("Checkout main: %v", err)
	}
	writeFile(t, dir, "main.txt", "from main")
	if err := r.Add([]string{filepath.Join(dir, "main.txt")}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Commit("main work"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	result, err := r.Merge(featureCommit.Hash)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if result != ThreeWay {
		t.Fatalf("result = %v, want ThreeWay", result)
	}

	data, err := os.ReadFile(filepath.Join(dir, "feature.txt"))
	if err != nil {
		t.Fatalf("read feature.txt: %v", err)
	}
	if string(data) != "from feature" {
		t.Fatalf("feature.txt = %q, want %q", data, "from feature")
	}
}

// TestMergeThreeWayConflict diverges both branches on the same line of
// the same file and expects MergeFailed with the conflicting path.
func TestMergeThreeWayConflict(t *testing.T) {
	r, dir := initTest(t)
	writeFile(t, dir, "shared.txt", "base\n")
	if err := r.Add([]string{filepath.Join(dir, "shared.txt")}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Commit("base"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if err := r.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	writeFile(t, dir, "shared.txt", "feature change\n")
	featureCommit, err := r.Commit("feature edit")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if err := r.Checkout(refs.Branch("main"), true); err != nil {
		t.Fatalf("Checkout main: %v", err)
	}
	writeFile(t, dir, "shared.txt", "main change\n")
	if _, err := r.Commit("main edit"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	_, err = r.Merge(featureCommit.Hash)
	var mergeErr *MergeFailedError
	if err == nil {
		t.Fatal("expected MergeFailed, got nil")
	}
	if !errors.As(err, &mergeErr) {
		t.Fatalf("err = %v, want *MergeFailedError", err)
	}
	if len(mergeErr.Paths) != 1 || mergeErr.Paths[0] != "shared.txt" {
		t.Fatalf("conflict paths = %v, want [shared.txt]", mergeErr.Paths)
	}
}
