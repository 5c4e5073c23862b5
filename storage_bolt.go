package docdb

import (
	"errors"
	"fmt"
	"time"
	"unsafe"

	"github.com/andreyvit/docdb/docpath"
	"go.etcd.io/bbolt"
)

// rootBucket holds the whole tree; Bolt can't store keys at the top level.
var rootBucket = []byte("docdb")

// boltStore maps folders onto nested buckets and documents onto keys.
type boltStore struct {
	bdb *bbolt.DB
}

// OpenBoltStore opens (creating if needed) a Bolt file as a Store.
func OpenBoltStore(path string, isTesting bool) (Store, error) {
	bopt := &bbolt.Options{}
	*bopt = *bbolt.DefaultOptions
	bopt.Timeout = 10 * time.Second
	if isTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
		bopt.InitialMmapSize = 1024 * 1024 * 5
	} else {
		bopt.FreelistType = bbolt.FreelistMapType
	}

	bdb, err := bbolt.Open(path, 0666, bopt)
	if err != nil {
		return nil, fmt.Errorf("docdb: %w", err)
	}
	err = bdb.Update(func(btx *bbolt.Tx) error {
		_, err := btx.CreateBucketIfNotExists(rootBucket)
		return err
	})
	if err != nil {
		bdb.Close()
		return nil, fmt.Errorf("docdb: %w", err)
	}
	return &boltStore{bdb: bdb}, nil
}

// folderBucket returns the bucket for a folder path, or nil.
func folderBucket(btx *bbolt.Tx, folder docpath.Path) *bbolt.Bucket {
	b := btx.Bucket(rootBucket)
	for _, name := range folder.Components() {
		if b == nil {
			return nil
		}
		b = b.Bucket(unsafeBytesFromString(name))
	}
	return b
}

func (s *boltStore) IsFolder(p docpath.Path) bool {
	var ok bool
	s.bdb.View(func(btx *bbolt.Tx) error {
		ok = folderBucket(btx, p) != nil
		return nil
	})
	return ok
}

func (s *boltStore) Exists(p docpath.Path) bool {
	var ok bool
	s.bdb.View(func(btx *bbolt.Tx) error {
		if folderBucket(btx, p) != nil {
			ok = true
		} else if parent := folderBucket(btx, p.Parent()); parent != nil {
			ok = parent.Get(unsafeBytesFromString(p.Name())) != nil
		}
		return nil
	})
	return ok
}

func (s *boltStore) Enumerate(folder docpath.Path, includeFolders bool) (PathCursor, error) {
	return newTreeCursor(folder, includeFolders, s.list)
}

// list snapshots one bucket's children in a short read transaction, so that
// a scan never holds a transaction open between calls.
func (s *boltStore) list(folder docpath.Path) ([]storeEntry, error) {
	var entries []storeEntry
	err := s.bdb.View(func(btx *bbolt.Tx) error {
		b := folderBucket(btx, folder)
		if b == nil {
			if parent := folderBucket(btx, folder.Parent()); parent != nil && !folder.IsRoot() && parent.Get(unsafeBytesFromString(folder.Name())) != nil {
				return ErrNotADirectory
			}
			return ErrNotFound
		}
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			// Bolt reports nested buckets with a nil value
			entries = append(entries, storeEntry{name: string(k), isFolder: v == nil})
		}
		return nil
	})
	return entries, err
}

func (s *boltStore) Read(p docpath.Path) ([]byte, error) {
	if p.IsRoot() {
		return nil, nil
	}
	var data []byte
	err := s.bdb.View(func(btx *bbolt.Tx) error {
		b := folderBucket(btx, p.Parent())
		if b == nil {
			return nil
		}
		if v := b.Get(unsafeBytesFromString(p.Name())); v != nil {
			data = append([]byte{}, v...)
		}
		return nil
	})
	return data, err
}

func (s *boltStore) Write(p docpath.Path, data []byte) error {
	if p.IsRoot() {
		return ErrIsFolder
	}
	return s.bdb.Update(func(btx *bbolt.Tx) error {
		b := btx.Bucket(rootBucket)
		for _, name := range p.Parent().Components() {
			key := []byte(name)
			if b.Get(key) != nil && b.Bucket(key) == nil {
				return ErrNotADirectory
			}
			var err error
			b, err = b.CreateBucketIfNotExists(key)
			if err != nil {
				return err
			}
		}
		err := b.Put([]byte(p.Name()), data)
		if errors.Is(err, bbolt.ErrIncompatibleValue) {
			return ErrIsFolder
		}
		return err
	})
}

func (s *boltStore) Delete(p docpath.Path) error {
	return s.remove(p, false)
}

func (s *boltStore) DeleteItem(p docpath.Path) error {
	return s.remove(p, true)
}

func (s *boltStore) remove(p docpath.Path, allowFolder bool) error {
	if p.IsRoot() {
		return ErrRootDelete
	}
	return s.bdb.Update(func(btx *bbolt.Tx) error {
		b := folderBucket(btx, p.Parent())
		if b == nil {
			return nil
		}
		key := []byte(p.Name())
		if b.Bucket(key) != nil {
			if !allowFolder {
				return ErrIsFolder
			}
			return b.DeleteBucket(key)
		}
		return b.Delete(key)
	})
}

func (s *boltStore) Close() error {
	return s.bdb.Close()
}

func unsafeBytesFromString(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
