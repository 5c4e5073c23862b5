// Package docpath implements validated, slash-separated document paths.
//
// A path always starts with a slash and never ends with one (except the root,
// which is just "/"). Each component is a non-empty name that is not "." or
// "..", and contains no slashes, backslashes or NUL bytes.
package docpath

import (
	"errors"
	"fmt"
	"strings"
)

const sep = "/"

var ErrInvalidPath = errors.New("invalid document path")

// Path is an immutable document or folder path. The zero value is the root.
// Paths are comparable with ==.
type Path struct {
	s string // "" for root, otherwise "/a/b"
}

func Root() Path {
	return Path{}
}

func Parse(s string) (Path, error) {
	if !strings.HasPrefix(s, sep) {
		return Path{}, fmt.Errorf("%w: %q must start with %q", ErrInvalidPath, s, sep)
	}
	if s == sep {
		return Path{}, nil
	}
	rest := strings.TrimSuffix(s[1:], sep)
	for _, name := range strings.Split(rest, sep) {
		if err := ValidateName(name); err != nil {
			return Path{}, fmt.Errorf("%w: %q: %v", ErrInvalidPath, s, err)
		}
	}
	return Path{sep + rest}, nil
}

func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// ValidateName checks a single path component.
func ValidateName(name string) error {
	switch name {
	case "":
		return errors.New("empty component")
	case ".", "..":
		return fmt.Errorf("relative component %q", name)
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("component %q contains a reserved character", name)
	}
	return nil
}

// Append returns the path extended by the given components.
func (p Path) Append(names ...string) (Path, error) {
	var buf strings.Builder
	buf.WriteString(p.s)
	for _, name := range names {
		if err := ValidateName(name); err != nil {
			return p, fmt.Errorf("%w: appending to %v: %v", ErrInvalidPath, p, err)
		}
		buf.WriteString(sep)
		buf.WriteString(name)
	}
	return Path{buf.String()}, nil
}

func (p Path) MustAppend(names ...string) Path {
	q, err := p.Append(names...)
	if err != nil {
		panic(err)
	}
	return q
}

func (p Path) IsRoot() bool {
	return p.s == ""
}

// Name returns the last component, or "" for the root.
func (p Path) Name() string {
	i := strings.LastIndex(p.s, sep)
	if i < 0 {
		return ""
	}
	return p.s[i+1:]
}

// Parent returns the containing folder. The parent of the root is the root.
func (p Path) Parent() Path {
	i := strings.LastIndex(p.s, sep)
	if i <= 0 {
		return Path{}
	}
	return Path{p.s[:i]}
}

// Depth is the number of components; the root has depth 0.
func (p Path) Depth() int {
	if p.s == "" {
		return 0
	}
	return strings.Count(p.s, sep)
}

func (p Path) Components() []string {
	if p.s == "" {
		return nil
	}
	return strings.Split(p.s[1:], sep)
}

// HasPrefix reports whether p is equal to or nested inside folder.
func (p Path) HasPrefix(folder Path) bool {
	if folder.s == "" {
		return true
	}
	return p.s == folder.s || strings.HasPrefix(p.s, folder.s+sep)
}

func (p Path) String() string {
	if p.s == "" {
		return sep
	}
	return p.s
}

func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Path) UnmarshalText(b []byte) error {
	q, err := Parse(string(b))
	if err != nil {
		return err
	}
	*p = q
	return nil
}
