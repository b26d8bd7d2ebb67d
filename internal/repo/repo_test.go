package repo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glazedonut/gnew/internal/config"
	"github.com/glazedonut/gnew/internal/refs"
)

func initTest(t *testing.T) (*Repository, string) {
	t.Helper()
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	r.Author = config.StaticAuthor("paul")
	t.Cleanup(func() { r.Close() })
	return r, dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestInitRejectsExisting(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	r.Close()

	if _, err := Init(dir); err != ErrRepositoryExists {
		t.Fatalf("second Init err = %v, want ErrRepositoryExists", err)
	}
}

func TestOpenMissingIsNoRepository(t *testing.T) {
	dir := t.TempDir()
	if _, err := Open(dir); err != ErrNoRepository {
		t.Fatalf("Open err = %v, want ErrNoRepository", err)
	}
}

// TestInitThenCommit is seed scenario S4: init, add("a.txt") = "A", then
// commit("x"): HEAD becomes branch main, branches["main"] is the new
// commit hash, and the commit's tree has exactly one Blob entry "a.txt".
func TestInitThenCommit(t *testing.T) {
	r, dir := initTest(t)

	head := r.Head()
	if !head.IsBranch() || head.Branch != "main" {
		t.Fatalf("head = %+v, want branch main", head)
	}

	writeFile(t, dir, "a.txt", "A")
	if err := r.Add([]string{filepath.Join(dir, "a.txt")}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	commit, err := r.Commit("x")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	branches := r.Branches()
	if branches["main"] != commit.Hash {
		t.Fatalf("branches[main] = %s, want %s", branches["main"], commit.Hash)
	}

	tree, err := r.LoadTree(commit.Tree)
	if err != nil {
		t.Fatalf("LoadTree: %v", err)
	}
	if len(tree.Entries) != 1 || tree.Entries[0].Name != "a.txt" {
		t.Fatalf("tree entries = %+v, want exactly one a.txt entry", tree.Entries)
	}
}

// TestCheckoutSafety is seed scenario S5: after S4, modifying a.txt and
// checking out the previous hash without force must fail CheckoutFailed;
// with force the file reverts.
func TestCheckoutSafety(t *testing.T) {
	r, dir := initTest(t)
	writeFile(t, dir, "a.txt", "A")
	if err := r.Add([]string{filepath.Join(dir, "a.txt")}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	commit, err := r.Commit("x")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	writeFile(t, dir, "a.txt", "B")

	if err := r.Checkout(refs.Detached(commit.Hash), false); err != ErrCheckoutFailed {
		t.Fatalf("non-forced checkout err = %v, want ErrCheckoutFailed", err)
	}

	if err := r.Checkout(refs.Detached(commit.Hash), true); err != nil {
		t.Fatalf("forced checkout: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	if err != nil {
		t.Fatalf("read a.txt: %v", err)
	}
	if string(data) != "A" {
		t.Fatalf("a.txt = %q, want %q", data, "A")
	}
}

// TestCheckoutFixedPoint is universal property 5: checking out the
// current HEAD again is a no-op and leaves status all-Unmodified.
func TestCheckoutFixedPoint(t *testing.T) {
	r, dir := initTest(t)
	writeFile(t, dir, "a.txt", "A")
	if err := r.Add([]string{filepath.Join(dir, "a.txt")}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	commit, err := r.Commit("x")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if err := r.Checkout(refs.Detached(commit.Hash), false); err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	tree, err := r.LoadTree(commit.Tree)
	if err != nil {
		t.Fatalf("LoadTree: %v", err)
	}
	statuses, err := r.Status(tree)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	for path, s := range statuses {
		if s != Unmodified {
			t.Fatalf("status[%s] = %v, want Unmodified", path, s)
		}
	}
}

// TestCommitReachability is universal property 4: after a successful
// commit, every hash reachable from the new HEAD exists in the store.
func TestCommitReachability(t *testing.T) {
	r, dir := initTest(t)
	writeFile(t, dir, "a.txt", "A")
	writeFile(t, dir, "dir/b.txt", "B")
	if err := r.Add([]string{dir}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	commit, err := r.Commit("x")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if !r.Objects.Exists(commit.Hash) {
		t.Fatal("commit object missing")
	}
	if !r.Objects.Exists(commit.Tree) {
		t.Fatal("root tree object missing")
	}
	tree, err := r.LoadTree(commit.Tree)
	if err != nil {
		t.Fatalf("LoadTree: %v", err)
	}
	files, err := r.FlattenTree(tree)
	if err != nil {
		t.Fatalf("FlattenTree: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("flattened files = %d, want 2", len(files))
	}
	for path, h := range files {
		if !r.Objects.Exists(h) {
			t.Fatalf("blob for %s missing from store", path)
		}
	}
}

func TestAddDirectoryExcludesStorageDir(t *testing.T) {
	r, dir := initTest(t)
	writeFile(t, dir, "a.txt", "A")
	if err := r.Add([]string{dir}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	for _, p := range r.Tracklist() {
		if p == ".gnew" || strings.HasPrefix(p, ".gnew") {
			t.Fatalf("tracklist leaked storage dir entry: %s", p)
		}
	}
	if len(r.Tracklist()) != 1 || r.Tracklist()[0] != "a.txt" {
		t.Fatalf("tracklist = %v, want [a.txt]", r.Tracklist())
	}
}

func TestRemoveAlreadyDeletedFile(t *testing.T) {
	r, dir := initTest(t)
	writeFile(t, dir, "a.txt", "A")
	if err := r.Add([]string{filepath.Join(dir, "a.txt")}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := os.Remove(filepath.Join(dir, "a.txt")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := r.Remove([]string{filepath.Join(dir, "a.txt")}); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(r.Tracklist()) != 0 {
		t.Fatalf("tracklist = %v, want empty", r.Tracklist())
	}
}
