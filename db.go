package docdb

import (
	"fmt"
	"log/slog"

	"github.com/andreyvit/docdb/docpath"
)

// DefaultMaxFolderDepth bounds how deeply documents may be nested.
const DefaultMaxFolderDepth = 8

// DB stores documents in a Store and answers queries over its folders.
type DB struct {
	store    Store
	codec    Codec
	logger   *slog.Logger
	metrics  *Metrics
	maxDepth int
	verbose  bool
}

type Options struct {
	// Codec encodes stored documents; defaults to JSON.
	Codec Codec

	// MaxFolderDepth limits the depth of a document's parent folder.
	// Zero means DefaultMaxFolderDepth.
	MaxFolderDepth int

	Logger  *slog.Logger
	Metrics *Metrics

	// Verbose logs completed queries at Info instead of Debug.
	Verbose bool

	// IsTesting trades durability for speed in the Bolt backend.
	IsTesting bool
}

// Open wraps an existing store. The DB takes ownership of it.
func Open(store Store, opt Options) *DB {
	if opt.Codec == nil {
		opt.Codec = defaultEncoding
	}
	if opt.MaxFolderDepth == 0 {
		opt.MaxFolderDepth = DefaultMaxFolderDepth
	}
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	return &DB{
		store:    store,
		codec:    opt.Codec,
		logger:   opt.Logger,
		metrics:  opt.Metrics,
		maxDepth: opt.MaxFolderDepth,
		verbose:  opt.Verbose,
	}
}

// OpenDir opens a database kept as plain files under dir.
func OpenDir(dir string, opt Options) (*DB, error) {
	store, err := OpenDirStore(dir)
	if err != nil {
		return nil, err
	}
	return Open(store, opt), nil
}

// OpenBolt opens a database kept in a single Bolt file.
func OpenBolt(path string, opt Options) (*DB, error) {
	store, err := OpenBoltStore(path, opt.IsTesting)
	if err != nil {
		return nil, err
	}
	return Open(store, opt), nil
}

// OpenMemory opens a transient database.
func OpenMemory(opt Options) *DB {
	return Open(NewMemStore(), opt)
}

func (db *DB) Store() Store {
	return db.store
}

func (db *DB) Codec() Codec {
	return db.codec
}

func (db *DB) Close() error {
	err := db.store.Close()
	if err != nil {
		return fmt.Errorf("docdb: closing: %w", err)
	}
	return nil
}

func (db *DB) checkDepth(op string, p docpath.Path) error {
	if p.Parent().Depth() > db.maxDepth {
		return pathErrf(op, p, ErrMaxDepthExceeded, "folder depth %d exceeds %d", p.Parent().Depth(), db.maxDepth)
	}
	return nil
}
