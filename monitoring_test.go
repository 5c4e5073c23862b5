package docdb

import (
	"strings"
	"testing"
)

func seedTree(t testing.TB, db *DB) {
	ensure(db.AddDocument(p("/f/a"), doc(map[string]any{"n": 1})))
	ensure(db.AddDocument(p("/f/b"), doc(map[string]any{"n": 2})))
	ensure(db.AddDocument(p("/f/sub/c"), doc(map[string]any{"s": "x"})))
	ensure(db.Store().Write(p("/f/sub/d"), []byte("not a document")))
}

func TestFolderStats(t *testing.T) {
	forEachBackend(t, func(t *testing.T, db *DB) {
		seedTree(t, db)

		var bytes int
		for _, path := range []string{"/f/a", "/f/b", "/f/sub/c", "/f/sub/d"} {
			bytes += len(must(db.Store().Read(p(path))))
		}

		s := must(db.FolderStats(p("/f")))
		deepEqual(t, s, FolderStats{Documents: 4, Folders: 1, Bytes: bytes, Undecodable: 1})
		deepEqual(t, s.Readable(), 3)

		s = must(db.FolderStats(p("/f/sub")))
		deepEqual(t, s.Documents, 2)
		deepEqual(t, s.Folders, 0)

		_, err := db.FolderStats(p("/f/a"))
		isErr(t, err, ErrNotADirectory)
	})
}

func TestDump(t *testing.T) {
	forEachBackend(t, func(t *testing.T, db *DB) {
		seedTree(t, db)

		var buf strings.Builder
		ensure(db.Dump(&buf, p("/f"), DumpDocuments))
		out := buf.String()
		for _, line := range []string{
			"1. /f/a = {\"n\":1}\n",
			"2. /f/b = {\"n\":2}\n",
			"3. /f/sub/c = {\"s\":\"x\"}\n",
			"4. /f/sub/d ** ERROR: ",
		} {
			if !strings.Contains(out, line) {
				t.Errorf("** dump lacks %q:\n%s", line, out)
			}
		}
		if strings.Contains(out, "/f/sub/\n") || strings.Contains(out, ".stats") {
			t.Errorf("** dump has headers or stats without the flags:\n%s", out)
		}

		buf.Reset()
		ensure(db.Dump(&buf, p("/f"), DumpAll))
		out = buf.String()
		if !strings.Contains(out, "/f/sub/\n") {
			t.Errorf("** dump lacks folder header:\n%s", out)
		}
		if !strings.Contains(out, "/f.stats: documents = 4, folders = 1, ") {
			t.Errorf("** dump lacks stats:\n%s", out)
		}

		isErr(t, db.Dump(&buf, p("/nope"), DumpAll), ErrNotFound)
	})
}
