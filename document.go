package docdb

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/vmihailenco/msgpack/v5"
)

var errNotAnObject = errors.New("top-level value is not an object")

// Document is a flat key-value record as stored in one file. Documents
// returned by the database are fresh copies decoded on every read.
type Document map[string]Value

// DocumentOf converts plain Go data (as produced by encoding/json) into a
// Document.
func DocumentOf(m map[string]any) (Document, error) {
	return documentOf(m)
}

// MustDocument is DocumentOf for literals in code and tests.
func MustDocument(m map[string]any) Document {
	return must(documentOf(m))
}

func documentOf(m map[string]any) (Document, error) {
	if m == nil {
		return nil, nil
	}
	doc := make(Document, len(m))
	for k, raw := range m {
		v, err := valueOf(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		doc[k] = v
	}
	return doc, nil
}

// Get returns the value stored under key, or an absent Value.
func (d Document) Get(key string) Value {
	return d[key]
}

func (d Document) Has(key string) bool {
	v, ok := d[key]
	return ok && v.Exists()
}

// Set stores v under key. Setting an absent value removes the key.
func (d Document) Set(key string, v Value) {
	if v.IsAbsent() {
		delete(d, key)
	} else {
		d[key] = v
	}
}

// Keys returns the document keys in lexical order.
func (d Document) Keys() []string {
	return slices.Sorted(maps.Keys(d))
}

// Merge returns a copy of d with every key of update written over it.
func (d Document) Merge(update Document) Document {
	out := make(Document, len(d)+len(update))
	maps.Copy(out, d)
	for k, v := range update {
		out.Set(k, v)
	}
	return out
}

func (d Document) Equal(o Document) bool {
	if len(d) != len(o) {
		return false
	}
	for k, v := range d {
		ov, ok := o[k]
		if !ok {
			return false
		}
		if v.IsAbsent() && ov.IsAbsent() {
			continue
		}
		if !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Map converts the document into plain Go data.
func (d Document) Map() map[string]any {
	if d == nil {
		return nil
	}
	m := make(map[string]any, len(d))
	for k, v := range d {
		m[k] = v.Interface()
	}
	return m
}

func (d Document) String() string {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return string(b)
}

func (d *Document) UnmarshalJSON(data []byte) error {
	raw, err := decodeJSONAny(data)
	if err != nil {
		return err
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return errNotAnObject
	}
	doc, err := documentOf(m)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}

func decodeJSONAny(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level value")
	}
	return raw, nil
}

var (
	_ msgpack.CustomEncoder = Value{}
	_ msgpack.CustomDecoder = (*Value)(nil)
	_ msgpack.CustomEncoder = Document{}
	_ msgpack.CustomDecoder = (*Document)(nil)
)

func (v Value) EncodeMsgpack(enc *msgpack.Encoder) error {
	switch v.kind {
	case KindAbsent, KindNull:
		return enc.EncodeNil()
	case KindBool:
		return enc.EncodeBool(v.b)
	case KindInt:
		return enc.EncodeInt(v.i)
	case KindFloat:
		return enc.EncodeFloat64(v.f)
	case KindString:
		return enc.EncodeString(v.s)
	case KindArray:
		if err := enc.EncodeArrayLen(len(v.arr)); err != nil {
			return err
		}
		for _, item := range v.arr {
			if err := item.EncodeMsgpack(enc); err != nil {
				return err
			}
		}
		return nil
	case KindObject:
		return v.obj.EncodeMsgpack(enc)
	default:
		return fmt.Errorf("docdb: invalid value kind %v", v.kind)
	}
}

func (v *Value) DecodeMsgpack(dec *msgpack.Decoder) error {
	raw, err := dec.DecodeInterface()
	if err != nil {
		return err
	}
	val, err := valueOf(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// EncodeMsgpack writes keys in lexical order so that equal documents encode
// to equal bytes.
func (d Document) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(len(d)); err != nil {
		return err
	}
	for _, k := range d.Keys() {
		if err := enc.EncodeString(k); err != nil {
			return err
		}
		if err := d[k].EncodeMsgpack(enc); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}
	if n < 0 {
		return errNotAnObject
	}
	doc := make(Document, n)
	for range n {
		k, err := dec.DecodeString()
		if err != nil {
			return err
		}
		var v Value
		if err := v.DecodeMsgpack(dec); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		doc[k] = v
	}
	*d = doc
	return nil
}
