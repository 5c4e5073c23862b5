package docdb

import (
	"fmt"
	"io"
	"strings"

	"github.com/andreyvit/docdb/docpath"
)

type DumpFlags uint64

const (
	DumpFolderHeaders = DumpFlags(1 << iota)
	DumpDocuments
	DumpStats

	DumpAll = DumpFlags(0xFFFFFFFFFFFFFFFF)
)

var (
	dumpSep1 = strings.Repeat("=", 80)
	dumpSep2 = strings.Repeat("-", 60)
)

func (f DumpFlags) Contains(v DumpFlags) bool {
	return (f & v) == v
}

// Dump writes a human-readable listing of everything under folder.
// Undecodable documents are listed with their error instead of aborting.
func (db *DB) Dump(w io.Writer, folder docpath.Path, f DumpFlags) error {
	c, err := db.Enumerator(folder, true)
	if err != nil {
		return err
	}
	defer c.Close()

	if f.Contains(DumpStats) {
		s, err := db.FolderStats(folder)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, dumpSep1)
		fmt.Fprintf(w, "%s.stats: documents = %d, folders = %d, bytes = %d, undecodable = %d\n", folder, s.Documents, s.Folders, s.Bytes, s.Undecodable)
	}

	var pos int
	for c.Next() {
		p := c.Path()
		if db.store.IsFolder(p) {
			if f.Contains(DumpFolderHeaders) {
				fmt.Fprintln(w, dumpSep2)
				fmt.Fprintf(w, "%s/\n", p)
			}
			continue
		}
		if !f.Contains(DumpDocuments) {
			continue
		}
		pos++
		db.dumpDocument(w, pos, p)
	}
	return nil
}

func (db *DB) dumpDocument(w io.Writer, pos int, p docpath.Path) {
	doc, err := db.Document(p)
	if err != nil {
		fmt.Fprintf(w, "%d. %s ** ERROR: %v\n", pos, p, err)
		return
	}
	if doc == nil {
		fmt.Fprintf(w, "%d. %s <gone>\n", pos, p)
		return
	}
	fmt.Fprintf(w, "%d. %s = %s\n", pos, p, doc)
}
