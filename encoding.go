package docdb

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec converts documents to and from their stored bytes.
type Codec interface {
	Encode(doc Document) ([]byte, error)
	Decode(data []byte) (Document, error)
}

// Encoding is one of the built-in codecs.
type Encoding int

const (
	JSON Encoding = iota
	MsgPack

	defaultEncoding = JSON
)

var _ Codec = JSON

func (enc Encoding) String() string {
	switch enc {
	case JSON:
		return "json"
	case MsgPack:
		return "msgpack"
	default:
		return fmt.Sprintf("Encoding(%d)", int(enc))
	}
}

func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "json", "JSON":
		return JSON, nil
	case "msgpack", "MsgPack":
		return MsgPack, nil
	default:
		return 0, fmt.Errorf("docdb: unknown encoding %q", s)
	}
}

// Encode serializes doc. A nil document is encoded as an empty one.
func (enc Encoding) Encode(doc Document) ([]byte, error) {
	if doc == nil {
		doc = Document{}
	}
	switch enc {
	case MsgPack:
		bb := bytesBuilder{Buf: encodeBytesPool.Get().([]byte)}
		defer func() { releaseEncodeBytes(bb.Buf) }()
		e := msgpack.GetEncoder()
		e.Reset(&bb)
		err := doc.EncodeMsgpack(e)
		msgpack.PutEncoder(e)
		if err != nil {
			return nil, encodingErrf(doc, err, "failed to encode document using MsgPack")
		}
		return bytes.Clone(bb.Buf), nil
	case JSON:
		raw, err := json.Marshal(doc)
		if err != nil {
			return nil, encodingErrf(doc, err, "failed to encode document to JSON")
		}
		return raw, nil
	default:
		panic("unsupported encoding")
	}
}

func (enc Encoding) Decode(data []byte) (Document, error) {
	var doc Document
	switch enc {
	case MsgPack:
		var r bytes.Reader
		r.Reset(data)
		d := msgpack.GetDecoder()
		d.Reset(&r)
		err := doc.DecodeMsgpack(d)
		msgpack.PutDecoder(d)
		if err != nil {
			return nil, decodingErrf(data, err, "failed to decode msgpack document")
		}
		if r.Len() != 0 {
			return nil, decodingErrf(data, nil, "%d trailing bytes after msgpack document", r.Len())
		}
		return doc, nil
	case JSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, decodingErrf(data, err, "failed to decode JSON document")
		}
		if doc == nil {
			return nil, decodingErrf(data, errNotAnObject, "failed to decode JSON document")
		}
		return doc, nil
	default:
		panic("unsupported encoding")
	}
}
