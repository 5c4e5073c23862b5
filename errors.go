package docdb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andreyvit/docdb/docpath"
)

var (
	ErrNotADirectory    = errors.New("document path must be a folder")
	ErrNotFound         = errors.New("folder does not exist")
	ErrDocumentNotFound = errors.New("document not found")
	ErrIsFolder         = errors.New("path is a folder")
	ErrRootDelete       = errors.New("cannot delete the root folder")
	ErrMaxDepthExceeded = errors.New("max folder depth exceeded")
)

// DecodingError reports bytes that the codec could not turn into a document.
type DecodingError struct {
	Data []byte
	Err  error
	Msg  string
}

func decodingErrf(data []byte, err error, format string, args ...any) error {
	return &DecodingError{data, err, fmt.Sprintf(format, args...)}
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}

func (e *DecodingError) Error() string {
	const prefixLen = 64
	const suffixLen = 32
	n := len(e.Data)
	if n <= prefixLen+suffixLen {
		if e.Err != nil {
			return fmt.Sprintf("%s: %v: (%d) %x", e.Msg, e.Err, n, e.Data)
		} else {
			return fmt.Sprintf("%s: (%d) %x", e.Msg, n, e.Data)
		}
	} else {
		p, s := e.Data[:prefixLen], e.Data[n-suffixLen:]
		if e.Err != nil {
			return fmt.Sprintf("%s: %v: (%d) %x...%x", e.Msg, e.Err, n, p, s)
		} else {
			return fmt.Sprintf("%s: (%d) %x...%x", e.Msg, n, p, s)
		}
	}
}

// EncodingError reports a document that the codec could not serialize.
type EncodingError struct {
	Doc Document
	Err error
	Msg string
}

func encodingErrf(doc Document, err error, format string, args ...any) error {
	return &EncodingError{doc, err, fmt.Sprintf(format, args...)}
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

func (e *EncodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

// PathError records the operation and document path of a failure.
type PathError struct {
	Op   string
	Path docpath.Path
	Msg  string
	Err  error
}

func pathErrf(op string, path docpath.Path, err error, format string, args ...any) error {
	return &PathError{op, path, fmt.Sprintf(format, args...), err}
}

func pathErr(op string, path docpath.Path, err error) error {
	return &PathError{Op: op, Path: path, Err: err}
}

func (e *PathError) Unwrap() error {
	return e.Err
}

func (e *PathError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Op)
	buf.WriteByte(' ')
	buf.WriteString(e.Path.String())
	if e.Msg != "" {
		buf.WriteString(": ")
		buf.WriteString(e.Msg)
		if e.Err != nil {
			buf.WriteString(": ")
			buf.WriteString(e.Err.Error())
		}
	} else if e.Err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Err.Error())
	}
	return buf.String()
}
