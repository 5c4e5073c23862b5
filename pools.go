package docdb

import "sync"

var encodeBytesPool = &sync.Pool{
	New: func() any {
		return make([]byte, 0, 4096)
	},
}

func releaseEncodeBytes(b []byte) {
	if cap(b) > 1024*1024 {
		return // don't pin huge documents
	}
	encodeBytesPool.Put(b[:0])
}
