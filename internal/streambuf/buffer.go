// Package streambuf implements the thread-safe byte FIFO that sits between
// the serial producer and the packet framer.
package streambuf

import (
	"fmt"
	"sync"
)

// compactThreshold and compactRatio mirror the teacher's CompactBuffer
// heuristic: only bother reclaiming capacity once the backing array has
// grown past a floor, and only when most of it is dead space.
const (
	compactThreshold = 1024
	compactRatio     = 4
)

// ByteBuffer is a mutex-guarded byte FIFO backed by a slice and a head
// offset; consumed prefixes are reclaimed by compaction. A single producer
// appends; a single consumer reads slices and drops consumed prefixes. All
// operations are serialised so a read can never observe a partially updated
// length.
type ByteBuffer struct {
	mu   sync.Mutex
	data []byte
	head int // index of the first live byte
}

// New returns an empty ByteBuffer.
func New() *ByteBuffer {
	return &ByteBuffer{}
}

// Append adds one byte to the end of the buffer. O(1) amortised.
func (b *ByteBuffer) Append(c byte) {
	b.mu.Lock()
	b.data = append(b.data, c)
	b.mu.Unlock()
}

// AppendSlice adds a slice of bytes, equivalent to repeated Append but
// amortised over a single lock acquisition. It is the bulk-append path the
// serial reader uses.
func (b *ByteBuffer) AppendSlice(p []byte) {
	if len(p) == 0 {
		return
	}
	b.mu.Lock()
	b.data = append(b.data, p...)
	b.mu.Unlock()
}

// Len returns the number of currently buffered bytes.
func (b *ByteBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data) - b.head
}

// Read returns a copy of the bytes in [i, j). It fails if j exceeds the
// current length or i > j; neither bound mutates the buffer.
func (b *ByteBuffer) Read(i, j int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.data) - b.head
	if i < 0 || j < i || j > n {
		return nil, fmt.Errorf("streambuf: read [%d,%d) out of range (len=%d)", i, j, n)
	}
	out := make([]byte, j-i)
	copy(out, b.data[b.head+i:b.head+j])
	return out, nil
}

// DropFront removes the leading k bytes. It is a no-op for k == 0 and fails
// if k exceeds the current length.
func (b *ByteBuffer) DropFront(k int) error {
	if k == 0 {
		return nil
	}
	if k < 0 {
		return fmt.Errorf("streambuf: drop_front negative count %d", k)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.data) - b.head
	if k > n {
		return fmt.Errorf("streambuf: drop_front(%d) exceeds length %d", k, n)
	}
	b.head += k
	b.compactLocked()
	return nil
}

// DropOne drops exactly one leading byte; used by the resync path. It is a
// no-op on an empty buffer.
func (b *ByteBuffer) DropOne() {
	b.mu.Lock()
	if b.head < len(b.data) {
		b.head++
	}
	b.compactLocked()
	b.mu.Unlock()
}

// compactLocked reclaims the consumed prefix once the backing array has
// grown large and is mostly dead space, so resync churn on noisy links does
// not retain an ever-growing allocation. Caller must hold b.mu.
func (b *ByteBuffer) compactLocked() {
	if len(b.data) < compactThreshold {
		return
	}
	live := len(b.data) - b.head
	if live*compactRatio >= len(b.data) {
		return
	}
	clone := make([]byte, live)
	copy(clone, b.data[b.head:])
	b.data = clone
	b.head = 0
}
