package docdb

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/andreyvit/docdb/docpath"
)

type memStore struct {
	mu     sync.RWMutex
	root   *memFolder
	closed bool
}

// NewMemStore returns a transient in-memory Store, mostly useful for tests.
func NewMemStore() Store {
	return &memStore{root: &memFolder{}}
}

type memFolder struct {
	items []memItem // sorted by name
}

type memItem struct {
	name   string
	folder *memFolder // nil for documents
	data   []byte
}

func (f *memFolder) find(name string) (idx int, ok bool) {
	items := f.items
	i := sort.Search(len(items), func(i int) bool {
		return items[i].name >= name
	})
	if i < len(items) && items[i].name == name {
		return i, true
	}
	return i, false
}

func (f *memFolder) get(name string) *memItem {
	i, ok := f.find(name)
	if !ok {
		return nil
	}
	return &f.items[i]
}

// lookup returns the item at p; for the root it returns a synthetic folder item.
func (s *memStore) lookup(p docpath.Path) *memItem {
	if p.IsRoot() {
		return &memItem{folder: s.root}
	}
	f := s.root
	comps := p.Components()
	for i, name := range comps {
		item := f.get(name)
		if item == nil {
			return nil
		}
		if i == len(comps)-1 {
			return item
		}
		if item.folder == nil {
			return nil
		}
		f = item.folder
	}
	return nil
}

func (s *memStore) IsFolder(p docpath.Path) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item := s.lookup(p)
	return item != nil && item.folder != nil
}

func (s *memStore) Exists(p docpath.Path) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(p) != nil
}

func (s *memStore) Enumerate(folder docpath.Path, includeFolders bool) (PathCursor, error) {
	return newTreeCursor(folder, includeFolders, s.list)
}

func (s *memStore) list(folder docpath.Path) ([]storeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item := s.lookup(folder)
	if item == nil {
		return nil, ErrNotFound
	}
	if item.folder == nil {
		return nil, ErrNotADirectory
	}
	entries := make([]storeEntry, len(item.folder.items))
	for i, it := range item.folder.items {
		entries[i] = storeEntry{name: it.name, isFolder: it.folder != nil}
	}
	return entries, nil
}

func (s *memStore) Read(p docpath.Path) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item := s.lookup(p)
	if item == nil || item.folder != nil {
		return nil, nil
	}
	return slices.Clone(item.data), nil
}

func (s *memStore) Write(p docpath.Path, data []byte) error {
	if p.IsRoot() {
		return ErrIsFolder
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("storage closed")
	}

	f := s.root
	comps := p.Components()
	for _, name := range comps[:len(comps)-1] {
		i, ok := f.find(name)
		if !ok {
			f.items = slices.Insert(f.items, i, memItem{name: name, folder: &memFolder{}})
		} else if f.items[i].folder == nil {
			return ErrNotADirectory
		}
		f = f.items[i].folder
	}

	name := comps[len(comps)-1]
	data = slices.Clone(data)
	i, ok := f.find(name)
	if ok {
		if f.items[i].folder != nil {
			return ErrIsFolder
		}
		f.items[i].data = data
		return nil
	}
	f.items = slices.Insert(f.items, i, memItem{name: name, data: data})
	return nil
}

func (s *memStore) Delete(p docpath.Path) error {
	return s.remove(p, false)
}

func (s *memStore) DeleteItem(p docpath.Path) error {
	return s.remove(p, true)
}

func (s *memStore) remove(p docpath.Path, allowFolder bool) error {
	if p.IsRoot() {
		return ErrRootDelete
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	parent := s.lookup(p.Parent())
	if parent == nil || parent.folder == nil {
		return nil
	}
	f := parent.folder
	i, ok := f.find(p.Name())
	if !ok {
		return nil
	}
	if f.items[i].folder != nil && !allowFolder {
		return ErrIsFolder
	}
	f.items = slices.Delete(f.items, i, i+1)
	return nil
}

func (s *memStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
