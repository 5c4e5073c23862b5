package docdb

import (
	"github.com/andreyvit/docdb/docpath"
)

// Store is the hierarchical file-like storage underneath a DB: documents are
// opaque byte blobs at paths, folders group documents and other folders.
// Path validation, depth limits and encoding are the DB's job.
type Store interface {
	// IsFolder returns true if the path exists and is a folder. The root is
	// always a folder.
	IsFolder(p docpath.Path) bool

	// Exists returns true if the path is a document or a folder.
	Exists(p docpath.Path) bool

	// Enumerate returns a lazy cursor over everything nested in folder,
	// recursively, in pre-order with names sorted within each folder. Folders
	// are only reported when includeFolders is set. Fails with ErrNotFound if
	// the folder does not exist and ErrNotADirectory if it is a document.
	Enumerate(folder docpath.Path, includeFolders bool) (PathCursor, error)

	// Read returns the document bytes, or nil if there is no document at the
	// path (including when the path is a folder).
	Read(p docpath.Path) ([]byte, error)

	// Write creates or overwrites a document, creating missing folders.
	Write(p docpath.Path, data []byte) error

	// Delete removes a document. Missing documents are not an error; folders
	// are rejected with ErrIsFolder.
	Delete(p docpath.Path) error

	// DeleteItem removes a document or a whole folder.
	DeleteItem(p docpath.Path) error

	Close() error
}

// PathCursor iterates over paths. Next must be called before the first Path.
type PathCursor interface {
	Next() bool
	Path() docpath.Path
	Close() error
}

// storeEntry is one child of a folder as listed by a backend.
type storeEntry struct {
	name     string
	isFolder bool
}

// listFunc returns the sorted children of a folder.
type listFunc func(folder docpath.Path) ([]storeEntry, error)

// treeCursor walks a folder tree in pre-order, listing each folder only when
// the walk reaches it. Folders that vanish or fail to list mid-walk are
// skipped.
type treeCursor struct {
	list           listFunc
	includeFolders bool
	stack          []treeFrame
	cur            docpath.Path
	onListErr      func(folder docpath.Path, err error)
}

type treeFrame struct {
	folder  docpath.Path
	entries []storeEntry
	pos     int
}

func newTreeCursor(folder docpath.Path, includeFolders bool, list listFunc) (*treeCursor, error) {
	entries, err := list(folder)
	if err != nil {
		return nil, err
	}
	return &treeCursor{
		list:           list,
		includeFolders: includeFolders,
		stack:          []treeFrame{{folder: folder, entries: entries}},
	}, nil
}

func (c *treeCursor) Next() bool {
	for len(c.stack) > 0 {
		top := &c.stack[len(c.stack)-1]
		if top.pos >= len(top.entries) {
			c.stack = c.stack[:len(c.stack)-1]
			continue
		}
		e := top.entries[top.pos]
		top.pos++
		p, err := top.folder.Append(e.name)
		if err != nil {
			continue // not a name we could have written
		}
		if e.isFolder {
			entries, err := c.list(p)
			if err != nil {
				if c.onListErr != nil {
					c.onListErr(p, err)
				}
			} else {
				c.stack = append(c.stack, treeFrame{folder: p, entries: entries})
			}
			if !c.includeFolders {
				continue
			}
		}
		c.cur = p
		return true
	}
	return false
}

func (c *treeCursor) Path() docpath.Path {
	return c.cur
}

func (c *treeCursor) Close() error {
	c.stack = nil
	return nil
}

// AllPaths drains a cursor.
func AllPaths(c PathCursor) []docpath.Path {
	defer c.Close()
	var result []docpath.Path
	for c.Next() {
		result = append(result, c.Path())
	}
	return result
}
