package docdb

import (
	"github.com/andreyvit/docdb/docpath"
)

// DeleteDocument removes the document at p. Deleting a missing document is
// not an error; deleting a folder fails with ErrIsFolder.
func (db *DB) DeleteDocument(p docpath.Path) error {
	if p.IsRoot() {
		return pathErr("delete", p, ErrRootDelete)
	}
	if err := db.store.Delete(p); err != nil {
		return pathErr("delete", p, err)
	}
	db.metrics.deleted()
	return nil
}

// DeleteItem removes the document or the whole folder at p.
func (db *DB) DeleteItem(p docpath.Path) error {
	if p.IsRoot() {
		return pathErr("delete", p, ErrRootDelete)
	}
	if err := db.store.DeleteItem(p); err != nil {
		return pathErr("delete", p, err)
	}
	db.metrics.deleted()
	return nil
}
