package docdb

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/andreyvit/docdb/docpath"
)

// dirStore keeps one file per document and one directory per folder.
type dirStore struct {
	root string
}

// OpenDirStore returns a Store rooted at dir, creating the directory if needed.
func OpenDirStore(dir string) (Store, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("docdb: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("docdb: %w", err)
	}
	return &dirStore{root: dir}, nil
}

func (s *dirStore) fsPath(p docpath.Path) string {
	if p.IsRoot() {
		return s.root
	}
	return filepath.Join(append([]string{s.root}, p.Components()...)...)
}

func (s *dirStore) IsFolder(p docpath.Path) bool {
	fi, err := os.Stat(s.fsPath(p))
	return err == nil && fi.IsDir()
}

func (s *dirStore) Exists(p docpath.Path) bool {
	_, err := os.Stat(s.fsPath(p))
	return err == nil
}

func (s *dirStore) Enumerate(folder docpath.Path, includeFolders bool) (PathCursor, error) {
	return newTreeCursor(folder, includeFolders, s.list)
}

func (s *dirStore) list(folder docpath.Path) ([]storeEntry, error) {
	des, err := os.ReadDir(s.fsPath(folder))
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, ErrNotFound
		case s.Exists(folder):
			return nil, ErrNotADirectory
		default:
			return nil, err
		}
	}
	entries := make([]storeEntry, 0, len(des))
	for _, de := range des {
		// ReadDir sorts by file name
		if isTempName(de.Name()) {
			continue
		}
		entries = append(entries, storeEntry{name: de.Name(), isFolder: de.IsDir()})
	}
	return entries, nil
}

func (s *dirStore) Read(p docpath.Path) ([]byte, error) {
	data, err := os.ReadFile(s.fsPath(p))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) || s.IsFolder(p) {
			return nil, nil
		}
		return nil, err
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

// Write replaces the file atomically via a temporary sibling and a rename.
func (s *dirStore) Write(p docpath.Path, data []byte) error {
	if p.IsRoot() {
		return ErrIsFolder
	}
	for _, name := range p.Components() {
		if isTempName(name) {
			return fmt.Errorf("%w: names starting with %q are reserved", docpath.ErrInvalidPath, tempPrefix)
		}
	}
	fn := s.fsPath(p)
	if s.IsFolder(p) {
		return ErrIsFolder
	}
	dir := filepath.Dir(fn)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) || errors.Is(err, syscall.ENOTDIR) {
			return ErrNotADirectory
		}
		return err
	}
	f, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	_, err = f.Write(data)
	if err == nil {
		err = f.Close()
	} else {
		f.Close()
	}
	if err == nil {
		err = os.Rename(tmp, fn)
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func (s *dirStore) Delete(p docpath.Path) error {
	if p.IsRoot() {
		return ErrRootDelete
	}
	if s.IsFolder(p) {
		return ErrIsFolder
	}
	err := os.Remove(s.fsPath(p))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *dirStore) DeleteItem(p docpath.Path) error {
	if p.IsRoot() {
		return ErrRootDelete
	}
	return os.RemoveAll(s.fsPath(p))
}

func (s *dirStore) Close() error {
	return nil
}

const tempPrefix = ".docdb-tmp-"

func isTempName(name string) bool {
	return strings.HasPrefix(name, tempPrefix)
}
