package store

import (
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/glazedonut/gnew/internal/objects"
)

// Index is a derived, rebuildable bbolt-backed cache of the hashes present
// in an object store's objects/ directory. It exists purely to make
// repeated Exists/List calls fast on stores with many objects; it is never
// the source of truth and is safe to delete — Store.Open refills a missing
// index from a directory walk, Store falls back to the directory whenever
// the index returns an error, and Rebuild reconstructs it from scratch.
// Otherwise Exists and List answer from the index alone, so an object file
// placed in objects/ other than through Store.Write is not seen until the
// index is rebuilt.
//
// Modeled on the teacher's internal/store bucket-per-concern bbolt usage,
// trimmed to the one bucket gnew actually needs: a set of known hashes.
type Index struct {
	db *bbolt.DB
}

var bucketHashes = []byte("hashes")

func openIndex(storageDir string) (*Index, error) {
	path := filepath.Join(storageDir, "index.db")
	db, err := bbolt.Open(path, 0o644, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketHashes)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &Index{db: db}, nil
}

// Close closes the underlying bbolt handle.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// Put records h as present.
func (idx *Index) Put(h objects.Hash) error {
	return idx.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketHashes).Put(h[:], []byte{1})
	})
}

// Has reports whether h is recorded, and whether the index had an answer at
// all (it always does once opened; the bool return lets Store fall back
// cleanly if that ever changes).
func (idx *Index) Has(h objects.Hash) (ok bool, known bool) {
	err := idx.db.View(func(tx *bbolt.Tx) error {
		ok = tx.Bucket(bucketHashes).Get(h[:]) != nil
		return nil
	})
	return ok, err == nil
}

// List returns every hash currently recorded.
func (idx *Index) List() (map[objects.Hash]struct{}, error) {
	out := make(map[objects.Hash]struct{})
	err := idx.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketHashes)
		return b.ForEach(func(k, _ []byte) error {
			if len(k) != objects.Size {
				return nil
			}
			var h objects.Hash
			copy(h[:], k)
			out[h] = struct{}{}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// rebuild replaces the index contents with exactly hashes.
func (idx *Index) rebuild(hashes map[objects.Hash]struct{}) error {
	return idx.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketHashes); err != nil && err != bbolt.ErrBucketNotFound {
			return err
		}
		b, err := tx.CreateBucket(bucketHashes)
		if err != nil {
			return err
		}
		for h := range hashes {
			if err := b.Put(h[:], []byte{1}); err != nil {
				return err
			}
		}
		return nil
	})
}
