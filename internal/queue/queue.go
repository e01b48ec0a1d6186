// Package queue implements the unbounded packet output queue: the
// decoder enqueues decoded records, external sinks dequeue
// non-blockingly (§4.6).
package queue

import (
	"container/list"
	"sync"

	"github.com/kstaniek/go-aimms30-server/internal/telemetry"
)

// Queue is an unbounded multi-producer/single-consumer FIFO of decoded
// records, guarded by a single mutex (the core has at most one producer in
// practice, but Push is safe for concurrent callers).
type Queue struct {
	mu    sync.Mutex
	items list.List
}

// New returns an empty Queue.
func New() *Queue { return &Queue{} }

// Push enqueues a record. Never blocks; the queue grows to fit.
func (q *Queue) Push(r telemetry.Record) {
	q.mu.Lock()
	q.items.PushBack(r)
	q.mu.Unlock()
}

// TryPop removes and returns the oldest record, or (Record{}, false) if the
// queue is empty. Never blocks.
func (q *Queue) TryPop() (telemetry.Record, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	front := q.items.Front()
	if front == nil {
		return telemetry.Record{}, false
	}
	q.items.Remove(front)
	return front.Value.(telemetry.Record), true
}

// Len reports the number of queued records.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}
