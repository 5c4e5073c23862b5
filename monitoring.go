package docdb

import (
	"github.com/andreyvit/docdb/docpath"
)

type FolderStats struct {
	Documents   int
	Folders     int
	Bytes       int
	Undecodable int
}

func (fs *FolderStats) Readable() int {
	return fs.Documents - fs.Undecodable
}

// FolderStats walks everything under folder, decoding each document to count
// the ones queries would skip.
func (db *DB) FolderStats(folder docpath.Path) (FolderStats, error) {
	c, err := db.Enumerator(folder, true)
	if err != nil {
		return FolderStats{}, err
	}
	defer c.Close()

	var result FolderStats
	for c.Next() {
		p := c.Path()
		if db.store.IsFolder(p) {
			result.Folders++
			continue
		}
		data, err := db.store.Read(p)
		if err != nil || data == nil {
			continue
		}
		result.Documents++
		result.Bytes += len(data)
		if _, err := db.codec.Decode(data); err != nil {
			result.Undecodable++
		}
	}
	return result, nil
}
