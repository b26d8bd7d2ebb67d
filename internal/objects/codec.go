package objects

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
)

// Wire type tags. Each is exactly 4 ASCII bytes, matching the width the
// Tree entry format requires before the separating space.
const (
	tagBlob = "blob"
	tagTree = "tree"
)

var (
	blobHeader   = []byte(tagBlob + "\x00")
	treeHeader   = []byte(tagTree + "\x00")
	commitHeader = []byte("commit\x00")
)

// EncodeBlob serializes content into the canonical blob wire format and
// stamps the resulting Blob with the hash of those bytes.
func EncodeBlob(content []byte) (Blob, []byte) {
	buf := make([]byte, 0, len(blobHeader)+len(content))
	buf = append(buf, blobHeader...)
	buf = append(buf, content...)
	return Blob{Hash: Sum(buf), Content: content}, buf
}

// DecodeBlob parses the canonical blob wire format.
func DecodeBlob(data []byte) (Blob, error) {
	if !bytes.HasPrefix(data, blobHeader) {
		return Blob{}, fmt.Errorf("objects: not a blob object")
	}
	content := data[len(blobHeader):]
	return Blob{Hash: Sum(data), Content: content}, nil
}

// EncodeTree serializes entries into the canonical tree wire format. Entries
// are sorted by name so the resulting hash is a pure function of the entry
// set, independent of insertion order. Duplicate names are rejected.
func EncodeTree(entries []TreeEntry) (Tree, []byte, error) {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	seen := make(map[string]struct{}, len(sorted))
	var buf bytes.Buffer
	buf.Write(treeHeader)
	for _, e := range sorted {
		if _, dup := seen[e.Name]; dup {
			return Tree{}, nil, fmt.Errorf("objects: duplicate tree entry name %q", e.Name)
		}
		seen[e.Name] = struct{}{}

		switch e.Kind {
		case BlobEntry:
			buf.WriteString(tagBlob)
		case TreeEntryKind:
			buf.WriteString(tagTree)
		default:
			return Tree{}, nil, fmt.Errorf("objects: invalid tree entry kind for %q", e.Name)
		}
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.WriteString(e.Hash.String())
	}

	data := buf.Bytes()
	return Tree{Hash: Sum(data), Entries: sorted}, data, nil
}

// DecodeTree parses the canonical tree wire format.
func DecodeTree(data []byte) (Tree, error) {
	if !bytes.HasPrefix(data, treeHeader) {
		return Tree{}, fmt.Errorf("objects: not a tree object")
	}
	rest := data[len(treeHeader):]

	var entries []TreeEntry
	for len(rest) > 0 {
		if len(rest) < 5 || rest[4] != ' ' {
			return Tree{}, fmt.Errorf("objects: truncated tree entry header")
		}
		var kind EntryKind
		switch string(rest[:4]) {
		case tagBlob:
			kind = BlobEntry
		case tagTree:
			kind = TreeEntryKind
		default:
			return Tree{}, fmt.Errorf("objects: unknown tree entry type %q", rest[:4])
		}
		rest = rest[5:]

		nul := bytes.IndexByte(rest, 0)
		if nul < 0 {
			return Tree{}, fmt.Errorf("objects: truncated tree entry name")
		}
		name := string(rest[:nul])
		rest = rest[nul+1:]

		if len(rest) < Size*2 {
			return Tree{}, fmt.Errorf("objects: truncated tree entry hash")
		}
		hash, err := ParseHash(string(rest[:Size*2]))
		if err != nil {
			return Tree{}, fmt.Errorf("objects: invalid tree entry hash: %w", err)
		}
		rest = rest[Size*2:]

		entries = append(entries, TreeEntry{Kind: kind, Hash: hash, Name: name})
	}

	return Tree{Hash: Sum(data), Entries: entries}, nil
}

// EncodeCommit serializes commit metadata into the canonical commit wire
// format and stamps the resulting Commit with the hash of those bytes.
func EncodeCommit(tree Hash, parent *Hash, author string, timeMS int64, msg string) (Commit, []byte, error) {
	if author == "" {
		return Commit{}, nil, fmt.Errorf("objects: commit author must not be empty")
	}

	var buf bytes.Buffer
	buf.Write(commitHeader)
	fmt.Fprintf(&buf, "tree %s\n", tree)
	if parent != nil {
		fmt.Fprintf(&buf, "parent %s\n", parent)
	}
	fmt.Fprintf(&buf, "author %s\n", author)
	fmt.Fprintf(&buf, "time %d\n", timeMS)
	buf.WriteByte('\n')
	buf.WriteString(msg)
	buf.WriteByte('\n')

	data := buf.Bytes()
	return Commit{
		Hash:   Sum(data),
		Tree:   tree,
		Parent: parent,
		Author: author,
		TimeMS: timeMS,
		Msg:    msg,
	}, data, nil
}

// DecodeCommit parses the canonical commit wire format.
func DecodeCommit(data []byte) (Commit, error) {
	if !bytes.HasPrefix(data, commitHeader) {
		return Commit{}, fmt.Errorf("objects: not a commit object")
	}
	rest := data[len(commitHeader):]

	line, rest, err := takeLine(rest)
	if err != nil {
		return Commit{}, fmt.Errorf("objects: malformed commit header: %w", err)
	}
	treeHex, ok := cutPrefix(line, "tree ")
	if !ok {
		return Commit{}, fmt.Errorf("objects: commit header missing tree line")
	}
	treeHash, err := ParseHash(treeHex)
	if err != nil {
		return Commit{}, fmt.Errorf("objects: invalid commit tree hash: %w", err)
	}

	line, rest, err = takeLine(rest)
	if err != nil {
		return Commit{}, fmt.Errorf("objects: malformed commit header: %w", err)
	}
	var parent *Hash
	if parentHex, ok := cutPrefix(line, "parent "); ok {
		h, err := ParseHash(parentHex)
		if err != nil {
			return Commit{}, fmt.Errorf("objects: invalid commit parent hash: %w", err)
		}
		parent = &h

		line, rest, err = takeLine(rest)
		if err != nil {
			return Commit{}, fmt.Errorf("objects: malformed commit header: %w", err)
		}
	}

	author, ok := cutPrefix(line, "author ")
	if !ok {
		return Commit{}, fmt.Errorf("objects: commit header missing author line")
	}

	line, rest, err = takeLine(rest)
	if err != nil {
		return Commit{}, fmt.Errorf("objects: malformed commit header: %w", err)
	}
	timeStr, ok := cutPrefix(line, "time ")
	if !ok {
		return Commit{}, fmt.Errorf("objects: commit header missing time line")
	}
	timeMS, err := strconv.ParseInt(timeStr, 10, 64)
	if err != nil {
		return Commit{}, fmt.Errorf("objects: invalid commit time %q: %w", timeStr, err)
	}

	line, rest, err = takeLine(rest)
	if err != nil {
		return Commit{}, fmt.Errorf("objects: malformed commit header: %w", err)
	}
	if line != "" {
		return Commit{}, fmt.Errorf("objects: commit header missing blank line separator")
	}

	if len(rest) == 0 || rest[len(rest)-1] != '\n' {
		return Commit{}, fmt.Errorf("objects: commit message missing trailing newline")
	}
	msg := string(rest[:len(rest)-1])

	return Commit{
		Hash:   Sum(data),
		Tree:   treeHash,
		Parent: parent,
		Author: author,
		TimeMS: timeMS,
		Msg:    msg,
	}, nil
}

// takeLine splits data at the first newline, returning the line (without
// the newline) and the remainder. It errors if there is no newline.
func takeLine(data []byte) (string, []byte, error) {
	i := bytes.IndexByte(data, '\n')
	if i < 0 {
		return "", nil, fmt.Errorf("unterminated line")
	}
	return string(data[:i]), data[i+1:], nil
}

func cutPrefix(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || s[:len(prefix)] != prefix {
		return "", false
	}
	return s[len(prefix):], true
}
