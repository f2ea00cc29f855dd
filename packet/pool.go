package packet

import (
	"bytes"
	"sync"
)

// maxPooledBuffer keeps one huge PUBLISH from pinning its body in the pool.
const maxPooledBuffer = 64 * KB

type Buffer struct {
	pool *sync.Pool
}

func newBuffer() *Buffer {
	return &Buffer{
		pool: &sync.Pool{
			New: func() any { return new(bytes.Buffer) },
		},
	}
}

func (b *Buffer) Get() *bytes.Buffer {
	return b.pool.Get().(*bytes.Buffer)
}

func (b *Buffer) Put(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBuffer {
		return
	}
	buf.Reset()
	b.pool.Put(buf)
}

var buffer = newBuffer()

func GetBuffer() *bytes.Buffer {
	return buffer.Get()
}

func PutBuffer(buf *bytes.Buffer) {
	buffer.Put(buf)
}
