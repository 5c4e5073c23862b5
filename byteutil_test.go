package docdb

import (
	"reflect"
	"testing"
)

func TestBytesBuilder_Basics(t *testing.T) {
	var bb bytesBuilder
	off := bb.Grow(3)
	if off != 0 || len(bb.Buf) != 3 || cap(bb.Buf) < 16 {
		t.Fatalf("Grow(3) = %d, len %d, cap %d, wanted 0, 3, >= 16", off, len(bb.Buf), cap(bb.Buf))
	}
	copy(bb.Buf[off:], []byte{1, 2, 3})

	_ = bb.WriteByte(4)
	_, _ = bb.Write([]byte{5, 6})
	_, _ = bb.WriteString("\x07")

	if want := []byte{1, 2, 3, 4, 5, 6, 7}; !reflect.DeepEqual(bb.Buf, want) {
		t.Fatalf("bb.Buf = %x, wanted %x", bb.Buf, want)
	}
}

func TestEnsureCapacity(t *testing.T) {
	buf := []byte{1, 2}
	got := ensureCapacity(buf, 100)
	if cap(got) != 128 || !reflect.DeepEqual(got, buf) {
		t.Fatalf("ensureCapacity = %x (cap %d), wanted 0102 (cap 128)", got, cap(got))
	}

	big := make([]byte, 0, 64)
	if got := ensureCapacity(big, 10); cap(got) != 64 {
		t.Fatalf("ensureCapacity reallocated a buffer with enough room: cap %d", cap(got))
	}
}

func TestAppendRaw_Grows(t *testing.T) {
	var buf []byte
	for i := range 100 {
		buf = appendRaw(buf, []byte{byte(i)})
	}
	if len(buf) != 100 || buf[99] != 99 {
		t.Fatalf("len = %d, last = %d, wanted 100, 99", len(buf), buf[len(buf)-1])
	}
}

func TestReleaseEncodeBytes_DropsHugeBuffers(t *testing.T) {
	releaseEncodeBytes(make([]byte, 10, 2*1024*1024))
	for range 4 {
		if b := encodeBytesPool.Get().([]byte); cap(b) > 1024*1024 {
			t.Fatalf("pool returned a %d-byte buffer", cap(b))
		} else if len(b) != 0 {
			t.Fatalf("pool returned a non-empty buffer: len %d", len(b))
		}
	}
}
