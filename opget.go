package docdb

import (
	"github.com/andreyvit/docdb/docpath"
)

// Document reads and decodes the document at p. It returns a nil document
// and no error when there is no document at p, including when p is a folder.
func (db *DB) Document(p docpath.Path) (Document, error) {
	data, err := db.store.Read(p)
	if err != nil {
		return nil, pathErr("read", p, err)
	}
	if data == nil {
		return nil, nil
	}
	doc, err := db.codec.Decode(data)
	if err != nil {
		return nil, pathErr("read", p, err)
	}
	return doc, nil
}

// DocumentExists reports whether p holds a document (not a folder).
func (db *DB) DocumentExists(p docpath.Path) bool {
	return db.store.Exists(p) && !db.store.IsFolder(p)
}

func (db *DB) IsFolder(p docpath.Path) bool {
	return db.store.IsFolder(p)
}

// Enumerator returns a cursor over the paths nested under folder.
func (db *DB) Enumerator(folder docpath.Path, includeFolders bool) (PathCursor, error) {
	c, err := db.store.Enumerate(folder, includeFolders)
	if err != nil {
		return nil, pathErr("enumerate", folder, err)
	}
	return c, nil
}

// DocumentPaths lists the paths nested under folder, in enumeration order.
func (db *DB) DocumentPaths(folder docpath.Path, includeFolders bool) ([]docpath.Path, error) {
	c, err := db.Enumerator(folder, includeFolders)
	if err != nil {
		return nil, err
	}
	return AllPaths(c), nil
}

// Documents decodes every document nested under folder. Unlike a query, it
// stops at the first document that cannot be read.
func (db *DB) Documents(folder docpath.Path) ([]Document, error) {
	c, err := db.Enumerator(folder, false)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	var result []Document
	for c.Next() {
		doc, err := db.Document(c.Path())
		if err != nil {
			return nil, err
		}
		if doc != nil {
			result = append(result, doc)
		}
	}
	return result, nil
}
