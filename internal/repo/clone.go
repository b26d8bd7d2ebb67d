package repo

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Clone copies a peer's entire worktree, including its storage directory,
// into dst — a full directory copy rather than an object-level transfer,
// matching the original prototype's clone (see DESIGN.md). It fails with
// RepositoryExists if dst already has any content.
func Clone(src, dst string) error {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return wrapIO(err)
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return wrapIO(err)
	}

	if entries, err := os.ReadDir(absDst); err == nil {
		if len(entries) > 0 {
			return ErrRepositoryExists
		}
	} else if !os.IsNotExist(err) {
		return wrapIO(err)
	}

	if err := os.MkdirAll(absDst, 0o755); err != nil {
		return wrapIO(err)
	}

	err = filepath.WalkDir(absSrc, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(absSrc, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		target := filepath.Join(absDst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
	if err != nil {
		return wrapIO(err)
	}
	return nil
}
