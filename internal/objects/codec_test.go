package objects

import (
	"bytes"
	"testing"
)

func TestEncodeBlobMatchesSeedScenario(t *testing.T) {
	blob, data := EncodeBlob([]byte("hello world"))
	want := []byte("blob\x00hello world")
	if !bytes.Equal(data, want) {
		t.Fatalf("blob bytes = %q, want %q", data, want)
	}

	decoded, err := DecodeBlob(data)
	if err != nil {
		t.Fatalf("DecodeBlob: %v", err)
	}
	if !bytes.Equal(decoded.Content, []byte("hello world")) {
		t.Fatalf("decoded content = %q", decoded.Content)
	}
	if decoded.Hash != blob.Hash {
		t.Fatalf("decoded hash mismatch")
	}
}

func TestBlobRoundTrip(t *testing.T) {
	for _, content := range [][]byte{nil, []byte(""), []byte("A"), bytes.Repeat([]byte{0, 1, 2, 0xff}, 100)} {
		blob, data := EncodeBlob(content)
		decoded, err := DecodeBlob(data)
		if err != nil {
			t.Fatalf("DecodeBlob(%q): %v", content, err)
		}
		if decoded.Hash != blob.Hash {
			t.Errorf("hash not stable for %q", content)
		}
		if !bytes.Equal(decoded.Content, content) && !(len(decoded.Content) == 0 && len(content) == 0) {
			t.Errorf("content mismatch for %q: got %q", content, decoded.Content)
		}
	}
}

func TestDecodeBlobRejectsUnknownPrefix(t *testing.T) {
	if _, err := DecodeBlob([]byte("tree\x00junk")); err == nil {
		t.Fatal("expected error decoding non-blob as blob")
	}
}

func TestTreeSortIsOrderIndependent(t *testing.T) {
	fooBlob, _ := EncodeBlob([]byte("foo content"))
	barBlob, _ := EncodeBlob([]byte("bar content"))

	entriesA := []TreeEntry{
		{Kind: BlobEntry, Hash: fooBlob.Hash, Name: "foo.txt"},
		{Kind: BlobEntry, Hash: barBlob.Hash, Name: "bar.txt"},
	}
	entriesB := []TreeEntry{
		{Kind: BlobEntry, Hash: barBlob.Hash, Name: "bar.txt"},
		{Kind: BlobEntry, Hash: fooBlob.Hash, Name: "foo.txt"},
	}

	treeA, dataA, err := EncodeTree(entriesA)
	if err != nil {
		t.Fatalf("EncodeTree(A): %v", err)
	}
	treeB, dataB, err := EncodeTree(entriesB)
	if err != nil {
		t.Fatalf("EncodeTree(B): %v", err)
	}

	if !bytes.Equal(dataA, dataB) {
		t.Fatalf("tree bytes differ by insertion order:\nA=%q\nB=%q", dataA, dataB)
	}
	if treeA.Hash != treeB.Hash {
		t.Fatalf("tree hash differs by insertion order")
	}

	want := []byte("tree\x00blob bar.txt\x00" + barBlob.Hash.String() + "blob foo.txt\x00" + fooBlob.Hash.String())
	if !bytes.Equal(dataA, want) {
		t.Fatalf("tree bytes = %q, want %q", dataA, want)
	}
}

func TestTreeRoundTrip(t *testing.T) {
	blob, _ := EncodeBlob([]byte("x"))
	sub, _, err := EncodeTree([]TreeEntry{{Kind: BlobEntry, Hash: blob.Hash, Name: "inner.txt"}})
	if err != nil {
		t.Fatalf("EncodeTree(sub): %v", err)
	}

	entries := []TreeEntry{
		{Kind: BlobEntry, Hash: blob.Hash, Name: "a.txt"},
		{Kind: TreeEntryKind, Hash: sub.Hash, Name: "subdir"},
	}
	tree, data, err := EncodeTree(entries)
	if err != nil {
		t.Fatalf("EncodeTree: %v", err)
	}

	decoded, err := DecodeTree(data)
	if err != nil {
		t.Fatalf("DecodeTree: %v", err)
	}
	if decoded.Hash != tree.Hash {
		t.Fatalf("hash not stable")
	}
	if len(decoded.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(decoded.Entries))
	}
	if e, ok := decoded.Find("subdir"); !ok || e.Kind != TreeEntryKind || e.Hash != sub.Hash {
		t.Fatalf("subdir entry wrong: %+v, ok=%v", e, ok)
	}
}

func TestEncodeTreeRejectsDuplicateNames(t *testing.T) {
	blob, _ := EncodeBlob([]byte("x"))
	_, _, err := EncodeTree([]TreeEntry{
		{Kind: BlobEntry, Hash: blob.Hash, Name: "dup"},
		{Kind: BlobEntry, Hash: blob.Hash, Name: "dup"},
	})
	if err == nil {
		t.Fatal("expected error for duplicate entry names")
	}
}

func TestDecodeTreeRejectsTruncatedEntry(t *testing.T) {
	if _, err := DecodeTree([]byte("tree\x00blob a.txt\x00deadbeef")); err == nil {
		t.Fatal("expected error for truncated hash")
	}
	if _, err := DecodeTree([]byte("tree\x00junk")); err == nil {
		t.Fatal("expected error for malformed entry header")
	}
}

func TestCommitRoundTripMatchesSeedScenario(t *testing.T) {
	h1, _ := EncodeBlob([]byte("tree contents 1"))
	h2, _ := EncodeBlob([]byte("tree contents 2"))

	commit, data, err := EncodeCommit(h1.Hash, &h2.Hash, "paul", 1637385703000, "write some code")
	if err != nil {
		t.Fatalf("EncodeCommit: %v", err)
	}

	want := []byte("commit\x00tree " + h1.Hash.String() + "\nparent " + h2.Hash.String() +
		"\nauthor paul\ntime 1637385703000\n\nwrite some code\n")
	if !bytes.Equal(data, want) {
		t.Fatalf("commit bytes = %q, want %q", data, want)
	}

	decoded, err := DecodeCommit(data)
	if err != nil {
		t.Fatalf("DecodeCommit: %v", err)
	}
	if decoded != commit {
		t.Fatalf("decoded commit = %+v, want %+v", decoded, commit)
	}
}

func TestCommitWithoutParent(t *testing.T) {
	h1, _ := EncodeBlob([]byte("root"))
	_, data, err := EncodeCommit(h1.Hash, nil, "alice", 1700000000000, "initial commit")
	if err != nil {
		t.Fatalf("EncodeCommit: %v", err)
	}
	decoded, err := DecodeCommit(data)
	if err != nil {
		t.Fatalf("DecodeCommit: %v", err)
	}
	if decoded.Parent != nil {
		t.Fatalf("expected nil parent, got %v", decoded.Parent)
	}
}

func TestDecodeCommitRejectsMalformedHeader(t *testing.T) {
	cases := [][]byte{
		[]byte("commit\x00notree\n"),
		[]byte("commit\x00tree " + ZeroHash.String() + "\nauthor bob\ntime 1\nmissing blank line\n"),
		[]byte("commit\x00tree " + ZeroHash.String() + "\nauthor bob\ntime notanumber\n\nmsg\n"),
		[]byte("commit\x00tree " + ZeroHash.String() + "\nauthor bob\ntime 1\n\nmsg-without-trailing-newline"),
	}
	for i, c := range cases {
		if _, err := DecodeCommit(c); err == nil {
			t.Errorf("case %d: expected error decoding %q", i, c)
		}
	}
}
