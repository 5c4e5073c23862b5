package docdb

import (
	"github.com/andreyvit/docdb/docpath"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// Entry pairs a document with its path for batch writes.
type Entry struct {
	Path docpath.Path
	Doc  Document
}

// AddDocument stores doc at p, creating any missing folders and replacing
// an existing document.
func (db *DB) AddDocument(p docpath.Path, doc Document) error {
	err := db.put("add", p, doc)
	db.metrics.written(err)
	return err
}

func (db *DB) put(op string, p docpath.Path, doc Document) error {
	if p.IsRoot() {
		return pathErr(op, p, ErrIsFolder)
	}
	if err := db.checkDepth(op, p); err != nil {
		return err
	}
	data, err := db.codec.Encode(doc)
	if err != nil {
		return pathErr(op, p, err)
	}
	if err := db.store.Write(p, data); err != nil {
		return pathErr(op, p, err)
	}
	return nil
}

// AddDocuments writes every entry, continuing past failures, and returns
// all failures combined.
func (db *DB) AddDocuments(entries []Entry) error {
	var result *multierror.Error
	for _, e := range entries {
		if err := db.AddDocument(e.Path, e.Doc); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// InsertDocument stores doc under a freshly generated name in folder.
func (db *DB) InsertDocument(folder docpath.Path, doc Document) (docpath.Path, error) {
	p, err := folder.Append(uuid.NewString())
	if err != nil {
		return docpath.Path{}, pathErr("insert", folder, err)
	}
	err = db.put("insert", p, doc)
	db.metrics.written(err)
	if err != nil {
		return docpath.Path{}, err
	}
	return p, nil
}

// UpdateDocument merges update into the stored document and writes back the
// result, which is returned. Keys of update mapped to absent values are
// removed.
func (db *DB) UpdateDocument(p docpath.Path, update Document) (Document, error) {
	doc, err := db.Document(p)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, pathErr("update", p, ErrDocumentNotFound)
	}
	doc = doc.Merge(update)
	err = db.put("update", p, doc)
	db.metrics.written(err)
	if err != nil {
		return nil, err
	}
	return doc, nil
}
