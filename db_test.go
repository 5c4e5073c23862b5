package docdb

import (
	"errors"
	"log/slog"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/andreyvit/docdb/docpath"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

func init() {
	slog.SetLogLoggerLevel(slog.LevelDebug)
}

var backends = []string{"mem", "dir", "bolt"}

func setup(t testing.TB, backend string, opt Options) *DB {
	t.Helper()
	opt.IsTesting = true

	var db *DB
	switch backend {
	case "mem":
		db = OpenMemory(opt)
	case "dir":
		db = must(OpenDir(filepath.Join(t.TempDir(), "docs"), opt))
	case "bolt":
		fn := filepath.Join(t.TempDir(), "docs.db")
		t.Logf("DB: %s", fn)
		db = must(OpenBolt(fn, opt))
	default:
		t.Fatalf("unknown backend %q", backend)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func forEachBackend(t *testing.T, f func(t *testing.T, db *DB)) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			f(t, setup(t, backend, Options{}))
		})
	}
}

func p(s string) docpath.Path {
	return docpath.MustParse(s)
}

func doc(m map[string]any) Document {
	return MustDocument(m)
}

func deepEqual[T any](t testing.TB, a, e T) {
	if !reflect.DeepEqual(a, e) {
		t.Helper()
		t.Errorf("** got %v, wanted %v", a, e)
	}
}

func docsEqual(t testing.TB, a, e []Document) {
	t.Helper()
	if len(a) != len(e) {
		t.Errorf("** got %d docs %v, wanted %d docs %v", len(a), a, len(e), e)
		return
	}
	for i := range a {
		if !a[i].Equal(e[i]) {
			t.Errorf("** doc %d: got %v, wanted %v", i, a[i], e[i])
		}
	}
}

func isErr(t testing.TB, err, target error) {
	if !errors.Is(err, target) {
		t.Helper()
		t.Errorf("** got error %v, wanted %v", err, target)
	}
}

func assertPanics(t testing.TB, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Helper()
			t.Errorf("** expected panic")
		}
	}()
	f()
}

func TestDocumentCRUD(t *testing.T) {
	forEachBackend(t, func(t *testing.T, db *DB) {
		d1 := doc(map[string]any{"name": "foo", "n": 1, "tags": []any{"a", "b"}})
		ensure(db.AddDocument(p("/users/foo"), d1))

		got, err := db.Document(p("/users/foo"))
		if err != nil {
			t.Fatal(err)
		}
		docsEqual(t, []Document{got}, []Document{d1})

		deepEqual(t, db.DocumentExists(p("/users/foo")), true)
		deepEqual(t, db.DocumentExists(p("/users")), false)
		deepEqual(t, db.DocumentExists(p("/users/bar")), false)
		deepEqual(t, db.IsFolder(p("/users")), true)
		deepEqual(t, db.IsFolder(p("/")), true)
		deepEqual(t, db.IsFolder(p("/users/foo")), false)

		for _, missing := range []string{"/users", "/users/bar", "/nope/x"} {
			got, err := db.Document(p(missing))
			if err != nil || got != nil {
				t.Errorf("Document(%s) = %v, %v, wanted nil, nil", missing, got, err)
			}
		}

		d2 := doc(map[string]any{"name": "foo2"})
		ensure(db.AddDocument(p("/users/foo"), d2))
		docsEqual(t, []Document{must(db.Document(p("/users/foo")))}, []Document{d2})
	})
}

func TestUpdateDocument(t *testing.T) {
	forEachBackend(t, func(t *testing.T, db *DB) {
		ensure(db.AddDocument(p("/a"), doc(map[string]any{"x": 1, "y": 2})))

		updated, err := db.UpdateDocument(p("/a"), Document{"y": String("two"), "x": Value{}, "z": Null()})
		if err != nil {
			t.Fatal(err)
		}
		want := doc(map[string]any{"y": "two", "z": nil})
		docsEqual(t, []Document{updated, must(db.Document(p("/a")))}, []Document{want, want})

		_, err = db.UpdateDocument(p("/b"), Document{"y": Int(1)})
		isErr(t, err, ErrDocumentNotFound)
	})
}

func TestInsertDocument(t *testing.T) {
	forEachBackend(t, func(t *testing.T, db *DB) {
		d := doc(map[string]any{"v": 1})
		path, err := db.InsertDocument(p("/inbox"), d)
		if err != nil {
			t.Fatal(err)
		}
		deepEqual(t, path.Parent(), p("/inbox"))
		if _, err := uuid.Parse(path.Name()); err != nil {
			t.Errorf("name %q is not a UUID: %v", path.Name(), err)
		}
		docsEqual(t, []Document{must(db.Document(path))}, []Document{d})

		path2 := must(db.InsertDocument(p("/inbox"), d))
		if path2 == path {
			t.Errorf("InsertDocument reused %v", path)
		}
	})
}

func TestAddDocumentsCollectsFailures(t *testing.T) {
	forEachBackend(t, func(t *testing.T, db *DB) {
		err := db.AddDocuments([]Entry{
			{p("/ok/1"), doc(map[string]any{"n": 1})},
			{p("/"), doc(map[string]any{"n": 2})},
			{p("/1/2/3/4/5/6/7/8/9/deep"), doc(map[string]any{"n": 3})},
			{p("/ok/2"), doc(map[string]any{"n": 4})},
		})
		var merr *multierror.Error
		if !errors.As(err, &merr) {
			t.Fatalf("err = %T %v, wanted *multierror.Error", err, err)
		}
		deepEqual(t, len(merr.Errors), 2)
		isErr(t, merr.Errors[0], ErrIsFolder)
		isErr(t, merr.Errors[1], ErrMaxDepthExceeded)

		deepEqual(t, db.DocumentExists(p("/ok/1")), true)
		deepEqual(t, db.DocumentExists(p("/ok/2")), true)

		ensure(db.AddDocuments([]Entry{{p("/ok/3"), Document{}}}))
	})
}

func TestMaxFolderDepth(t *testing.T) {
	db := setup(t, "mem", Options{})
	ensure(db.AddDocument(p("/1/2/3/4/5/6/7/8/doc"), Document{}))
	isErr(t, db.AddDocument(p("/1/2/3/4/5/6/7/8/9/doc"), Document{}), ErrMaxDepthExceeded)

	db = setup(t, "mem", Options{MaxFolderDepth: 1})
	ensure(db.AddDocument(p("/1/doc"), Document{}))
	isErr(t, db.AddDocument(p("/1/2/doc"), Document{}), ErrMaxDepthExceeded)
	_, err := db.InsertDocument(p("/1/2"), Document{})
	isErr(t, err, ErrMaxDepthExceeded)
}

func TestWriteConflicts(t *testing.T) {
	forEachBackend(t, func(t *testing.T, db *DB) {
		ensure(db.AddDocument(p("/folder/doc"), Document{}))
		isErr(t, db.AddDocument(p("/folder"), Document{}), ErrIsFolder)
		isErr(t, db.AddDocument(p("/folder/doc/nested"), Document{}), ErrNotADirectory)
		isErr(t, db.AddDocument(p("/"), Document{}), ErrIsFolder)
	})
}

func TestDelete(t *testing.T) {
	forEachBackend(t, func(t *testing.T, db *DB) {
		ensure(db.AddDocument(p("/a/x"), Document{}))
		ensure(db.AddDocument(p("/a/b/y"), Document{}))
		ensure(db.AddDocument(p("/c"), Document{}))

		isErr(t, db.DeleteDocument(p("/a")), ErrIsFolder)
		isErr(t, db.DeleteDocument(p("/")), ErrRootDelete)
		isErr(t, db.DeleteItem(p("/")), ErrRootDelete)
		ensure(db.DeleteDocument(p("/missing")))
		ensure(db.DeleteDocument(p("/missing/too")))

		ensure(db.DeleteDocument(p("/a/x")))
		deepEqual(t, db.DocumentExists(p("/a/x")), false)
		deepEqual(t, db.DocumentExists(p("/a/b/y")), true)

		ensure(db.DeleteItem(p("/a")))
		deepEqual(t, db.IsFolder(p("/a")), false)
		deepEqual(t, db.DocumentExists(p("/a/b/y")), false)

		ensure(db.DeleteItem(p("/c")))
		deepEqual(t, must(db.DocumentPaths(p("/"), true)), []docpath.Path(nil))
	})
}

func TestDocumentPathsOrder(t *testing.T) {
	forEachBackend(t, func(t *testing.T, db *DB) {
		for _, s := range []string{"/c", "/b/x", "/a/z", "/a/y/q", "/a/y/p"} {
			ensure(db.AddDocument(p(s), Document{}))
		}

		var got []string
		for _, path := range must(db.DocumentPaths(p("/"), true)) {
			got = append(got, path.String())
		}
		deepEqual(t, got, []string{"/a", "/a/y", "/a/y/p", "/a/y/q", "/a/z", "/b", "/b/x", "/c"})

		got = nil
		for _, path := range must(db.DocumentPaths(p("/a"), false)) {
			got = append(got, path.String())
		}
		deepEqual(t, got, []string{"/a/y/p", "/a/y/q", "/a/z"})

		_, err := db.DocumentPaths(p("/c"), false)
		isErr(t, err, ErrNotADirectory)
		_, err = db.DocumentPaths(p("/nope"), false)
		isErr(t, err, ErrNotFound)
	})
}

func TestDocumentsSurfacesDecodeErrors(t *testing.T) {
	db := setup(t, "mem", Options{})
	ensure(db.AddDocument(p("/f/a"), doc(map[string]any{"n": 1})))
	ensure(db.AddDocument(p("/f/b"), doc(map[string]any{"n": 2})))
	docsEqual(t, must(db.Documents(p("/f"))), []Document{
		doc(map[string]any{"n": 1}),
		doc(map[string]any{"n": 2}),
	})

	ensure(db.Store().Write(p("/f/bad"), []byte("{nope")))
	_, err := db.Documents(p("/f"))
	var de *DecodingError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, wanted *DecodingError", err)
	}
	var pe *PathError
	if !errors.As(err, &pe) || pe.Path != p("/f/bad") {
		t.Fatalf("err = %v, wanted *PathError for /f/bad", err)
	}
	_, err = db.Document(p("/f/bad"))
	if !errors.As(err, &de) {
		t.Fatalf("Document err = %v, wanted *DecodingError", err)
	}
}

func TestMsgPackDatabase(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			db := setup(t, backend, Options{Codec: MsgPack})
			d := doc(map[string]any{"i": 1, "f": 1.0, "s": "x", "a": []any{1, nil, true}, "o": map[string]any{"k": "v"}})
			ensure(db.AddDocument(p("/m"), d))
			docsEqual(t, []Document{must(db.Document(p("/m")))}, []Document{d})
			docsEqual(t, must(db.Query(p("/"), []Clause{IsEqualTo("f", 1.0)}, QueryOptions{})), []Document{d})
		})
	}
}
