package docdb

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/andreyvit/docdb/docpath"
)

func TestTreeCursorListsLazily(t *testing.T) {
	tree := map[string][]storeEntry{
		"/":  {{"a", true}, {"b", false}, {"c", true}},
		"/a": {{"x", false}, {"y", false}},
		"/c": {{"z", false}},
	}
	var listed []string
	list := func(folder docpath.Path) ([]storeEntry, error) {
		listed = append(listed, folder.String())
		entries, ok := tree[folder.String()]
		if !ok {
			return nil, ErrNotFound
		}
		return entries, nil
	}

	c := must(newTreeCursor(p("/"), false, list))
	deepEqual(t, listed, []string{"/"})

	deepEqual(t, c.Next(), true)
	deepEqual(t, c.Path(), p("/a/x"))
	deepEqual(t, listed, []string{"/", "/a"})

	deepEqual(t, c.Next(), true)
	deepEqual(t, c.Path(), p("/a/y"))
	deepEqual(t, c.Next(), true)
	deepEqual(t, c.Path(), p("/b"))
	deepEqual(t, listed, []string{"/", "/a"})

	ensure(c.Close())
	deepEqual(t, c.Next(), false)
	deepEqual(t, listed, []string{"/", "/a"})
}

func TestTreeCursorSkipsVanishedFolders(t *testing.T) {
	list := func(folder docpath.Path) ([]storeEntry, error) {
		switch folder.String() {
		case "/":
			return []storeEntry{{"gone", true}, {"doc", false}}, nil
		default:
			return nil, ErrNotFound
		}
	}
	var failed []string
	c := must(newTreeCursor(p("/"), true, list))
	c.onListErr = func(folder docpath.Path, err error) {
		failed = append(failed, folder.String())
	}

	var got []string
	for c.Next() {
		got = append(got, c.Path().String())
	}
	deepEqual(t, got, []string{"/gone", "/doc"})
	deepEqual(t, failed, []string{"/gone"})

	_, err := newTreeCursor(p("/missing"), false, list)
	isErr(t, err, ErrNotFound)
}

func TestStoreBasics(t *testing.T) {
	forEachBackend(t, func(t *testing.T, db *DB) {
		s := db.Store()
		ensure(s.Write(p("/f/doc"), []byte("hello")))
		ensure(s.Write(p("/f/empty"), []byte{}))

		deepEqual(t, must(s.Read(p("/f/doc"))), []byte("hello"))
		deepEqual(t, must(s.Read(p("/f/empty"))), []byte{})
		deepEqual(t, must(s.Read(p("/f"))), []byte(nil))
		deepEqual(t, must(s.Read(p("/f/none"))), []byte(nil))
		deepEqual(t, must(s.Read(p("/f/doc/deeper"))), []byte(nil))
		deepEqual(t, must(s.Read(p("/"))), []byte(nil))

		deepEqual(t, s.Exists(p("/f")), true)
		deepEqual(t, s.Exists(p("/f/doc")), true)
		deepEqual(t, s.Exists(p("/f/none")), false)
		deepEqual(t, s.IsFolder(p("/")), true)
		deepEqual(t, s.IsFolder(p("/f/doc")), false)

		_, err := s.Enumerate(p("/f/doc"), false)
		isErr(t, err, ErrNotADirectory)
		_, err = s.Enumerate(p("/nope"), false)
		isErr(t, err, ErrNotFound)

		ensure(s.Write(p("/f/doc"), []byte("bye")))
		deepEqual(t, must(s.Read(p("/f/doc"))), []byte("bye"))

		isErr(t, s.Delete(p("/f")), ErrIsFolder)
		ensure(s.Delete(p("/f/doc")))
		deepEqual(t, s.Exists(p("/f/doc")), false)
		ensure(s.DeleteItem(p("/f")))
		deepEqual(t, s.Exists(p("/f")), false)
	})
}

func TestStoreReadReturnsCopy(t *testing.T) {
	for _, backend := range []string{"mem", "bolt"} {
		t.Run(backend, func(t *testing.T) {
			s := setup(t, backend, Options{}).Store()
			data := []byte("abc")
			ensure(s.Write(p("/x"), data))
			data[0] = 'z'
			got := must(s.Read(p("/x")))
			deepEqual(t, got, []byte("abc"))
			got[1] = 'z'
			deepEqual(t, must(s.Read(p("/x"))), []byte("abc"))
		})
	}
}

func TestDirStoreLayout(t *testing.T) {
	dir := t.TempDir()
	s := must(OpenDirStore(dir))
	ensure(s.Write(p("/a/b/c.json"), []byte(`{}`)))

	raw, err := os.ReadFile(filepath.Join(dir, "a", "b", "c.json"))
	if err != nil {
		t.Fatal(err)
	}
	deepEqual(t, string(raw), `{}`)

	// leftovers from interrupted writes are invisible
	ensure(os.WriteFile(filepath.Join(dir, "a", tempPrefix+"123"), []byte("x"), 0o644))
	var got []string
	for _, path := range AllPaths(must(s.Enumerate(p("/"), true))) {
		got = append(got, path.String())
	}
	deepEqual(t, got, []string{"/a", "/a/b", "/a/b/c.json"})

	// so documents may not use those names
	for _, bad := range []string{"/a/" + tempPrefix + "doc", "/" + tempPrefix + "x/doc"} {
		if err := s.Write(p(bad), []byte(`{}`)); !errors.Is(err, docpath.ErrInvalidPath) {
			t.Errorf("** Write(%s) = %v, wanted ErrInvalidPath", bad, err)
		}
	}
	deepEqual(t, must(s.Read(p("/a/"+tempPrefix+"doc"))), []byte(nil))
}

func TestBoltStoreReopen(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "x.db")
	db := must(OpenBolt(fn, Options{IsTesting: true}))
	ensure(db.AddDocument(p("/a/b"), doc(map[string]any{"k": "v"})))
	ensure(db.Close())

	db = must(OpenBolt(fn, Options{IsTesting: true}))
	defer db.Close()
	docsEqual(t, must(db.Documents(p("/"))), []Document{doc(map[string]any{"k": "v"})})

	if err := db.AddDocument(p("/a"), Document{}); !errors.Is(err, ErrIsFolder) {
		t.Errorf("AddDocument over a bucket = %v, wanted ErrIsFolder", err)
	}
}
