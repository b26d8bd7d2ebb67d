package textmerge

import (
	"bytes"
	"testing"
)

func TestMergeOneSideUnchanged(t *testing.T) {
	base := []byte("a\nb\nc")
	ours := []byte("a\nb\nc")
	theirs := []byte("a\nx\nc")

	merged, conflict := Merge(base, ours, theirs)
	if conflict {
		t.Fatal("expected no conflict when only one side changed")
	}
	if !bytes.Equal(merged, theirs) {
		t.Fatalf("merged = %q, want %q", merged, theirs)
	}
}

func TestMergeIdenticalChangeBothSides(t *testing.T) {
	base := []byte("a\nb\nc")
	ours := []byte("a\nx\nc")
	theirs := []byte("a\nx\nc")

	merged, conflict := Merge(base, ours, theirs)
	if conflict {
		t.Fatal("expected no conflict when both sides made the same change")
	}
	if !bytes.Equal(merged, ours) {
		t.Fatalf("merged = %q, want %q", merged, ours)
	}
}

func TestMergeConflictingChanges(t *testing.T) {
	base := []byte("a\nb\nc")
	ours := []byte("a\nx\nc")
	theirs := []byte("a\ny\nc")

	merged, conflict := Merge(base, ours, theirs)
	if !conflict {
		t.Fatal("expected a conflict when both sides changed the same line differently")
	}
	if !bytes.Contains(merged, []byte("<<<<<<< ours")) || !bytes.Contains(merged, []byte(">>>>>>> theirs")) {
		t.Fatalf("merged output missing conflict markers: %q", merged)
	}
}

func TestMergeBothUnchanged(t *testing.T) {
	base := []byte("a\nb\nc")
	merged, conflict := Merge(base, base, base)
	if conflict {
		t.Fatal("expected no conflict when nothing changed")
	}
	if !bytes.Equal(merged, base) {
		t.Fatalf("merged = %q, want %q", merged, base)
	}
}
