package mqttcodec

import "sync"

// defaultScratchSize is the initial capacity of a pooled scratch
// buffer, large enough to hold most PUBLISH payloads without growth.
const defaultScratchSize = 4096

var scratchPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, defaultScratchSize)
		return &buf
	},
}

// GetScratch returns a pooled byte slice with at least the requested
// capacity, reset to zero length. Grounded on the teacher corpus's
// sync.Pool buffer-pooling convention (gonzalop-mq/internal/packets/pool.go).
func GetScratch(capHint int) *[]byte {
	bufPtr := scratchPool.Get().(*[]byte)
	buf := (*bufPtr)[:0]
	if cap(buf) < capHint {
		buf = make([]byte, 0, capHint)
	}
	*bufPtr = buf
	return bufPtr
}

// PutScratch returns a scratch buffer obtained from GetScratch to the
// pool. Buffers past a generous ceiling are dropped rather than
// pooled, so one oversized PUBLISH doesn't inflate the pool forever.
func PutScratch(bufPtr *[]byte) {
	const maxPooled = 1 << 20
	if cap(*bufPtr) > maxPooled {
		return
	}
	scratchPool.Put(bufPtr)
}
