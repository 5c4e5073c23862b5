package docdb

import (
	"context"
	"iter"
	"log/slog"
	"slices"

	"github.com/andreyvit/docdb/docpath"
)

// QueryStats counts what a query has done so far.
type QueryStats struct {
	Scanned int // candidate documents pulled from the store
	Skipped int // candidates that could not be read or decoded
	Matched int // documents emitted
}

// QueryIterator lazily yields the documents under a folder that satisfy all
// clauses, in enumeration order. It is single-pass: once Next returns false
// the iterator is exhausted for good.
//
//	it, err := db.QueryIterator(folder, clauses, opt)
//	if err != nil { ... }
//	defer it.Close()
//	for it.Next() {
//		doc := it.Document()
//	}
type QueryIterator struct {
	db      *DB
	folder  docpath.Path
	clauses []Clause
	columns []string
	limit   int
	surface string

	cursor PathCursor
	doc    Document
	stats  QueryStats
	done   bool
}

// QueryIterator validates folder and returns an iterator over the matching
// documents. It fails with ErrNotADirectory if folder is not a folder.
func (db *DB) QueryIterator(folder docpath.Path, clauses []Clause, opt QueryOptions) (*QueryIterator, error) {
	return db.newQueryIterator(surfaceIterator, folder, clauses, opt)
}

func (db *DB) newQueryIterator(surface string, folder docpath.Path, clauses []Clause, opt QueryOptions) (*QueryIterator, error) {
	if !db.store.IsFolder(folder) {
		return nil, pathErr("query", folder, ErrNotADirectory)
	}
	cursor, err := db.store.Enumerate(folder, false)
	if err != nil {
		return nil, pathErr("query", folder, err)
	}
	if tc, ok := cursor.(*treeCursor); ok {
		tc.onListErr = func(p docpath.Path, err error) {
			db.logger.LogAttrs(context.Background(), slog.LevelDebug, "docdb: skipping unlistable folder", slog.String("path", p.String()), slog.Any("err", err))
		}
	}
	db.metrics.queryStarted(surface)
	return &QueryIterator{
		db:      db,
		folder:  folder,
		clauses: slices.Clone(clauses),
		columns: slices.Clone(opt.Columns),
		limit:   opt.EffectiveLimit(),
		surface: surface,
		cursor:  cursor,
	}, nil
}

// Next advances to the next matching document. Candidates that cannot be
// read or decoded are skipped.
func (it *QueryIterator) Next() bool {
	if it.done {
		return false
	}
	it.doc = nil
	if it.limit >= 0 && it.stats.Matched >= it.limit {
		it.finish()
		return false
	}
	for it.cursor.Next() {
		p := it.cursor.Path()
		it.stats.Scanned++
		doc, err := it.load(p)
		if err != nil {
			it.stats.Skipped++
			it.db.logger.LogAttrs(context.Background(), slog.LevelDebug, "docdb: skipping unreadable document", slog.String("path", p.String()), slog.Any("err", err))
			continue
		}
		if !Match(doc, it.clauses) {
			continue
		}
		it.stats.Matched++
		it.doc = Project(doc, it.columns)
		return true
	}
	it.finish()
	return false
}

func (it *QueryIterator) load(p docpath.Path) (Document, error) {
	data, err := it.db.store.Read(p)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrDocumentNotFound
	}
	return it.db.codec.Decode(data)
}

// Document returns the document found by the last successful Next.
func (it *QueryIterator) Document() Document {
	return it.doc
}

func (it *QueryIterator) Stats() QueryStats {
	return it.stats
}

// Close releases the underlying enumeration. It is safe to call repeatedly
// and after the iterator is exhausted.
func (it *QueryIterator) Close() error {
	it.doc = nil
	it.finish()
	return nil
}

func (it *QueryIterator) finish() {
	if it.done {
		return
	}
	it.done = true
	it.cursor.Close()
	it.db.metrics.queryFinished(it.stats)

	level := slog.LevelDebug
	if it.db.verbose {
		level = slog.LevelInfo
	}
	it.db.logger.LogAttrs(context.Background(), level, "docdb: query finished",
		slog.String("surface", it.surface),
		slog.String("folder", it.folder.String()),
		slog.Int("clauses", len(it.clauses)),
		slog.Int("scanned", it.stats.Scanned),
		slog.Int("skipped", it.stats.Skipped),
		slog.Int("matched", it.stats.Matched))
}

// All adapts the iterator to a range-over-func sequence. Breaking out of the
// loop closes the iterator.
func (it *QueryIterator) All() iter.Seq[Document] {
	return func(yield func(Document) bool) {
		defer it.Close()
		for it.Next() {
			if !yield(it.Document()) {
				return
			}
		}
	}
}

// Collect drains the iterator.
func (it *QueryIterator) Collect() []Document {
	var result []Document
	for doc := range it.All() {
		result = append(result, doc)
	}
	return result
}

// Query returns all documents under folder matching every clause, up to the
// limit in opt, in enumeration order.
func (db *DB) Query(folder docpath.Path, clauses []Clause, opt QueryOptions) ([]Document, error) {
	it, err := db.newQueryIterator(surfaceEager, folder, clauses, opt)
	if err != nil {
		return nil, err
	}
	return it.Collect(), nil
}
