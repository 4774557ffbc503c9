package queue

import "github.com/bft-labs/bulkqueue/pkg/document"

// buffer holds pending documents in arrival order.
// It has no locking of its own; Queue.mu protects it.
type buffer struct {
	docs []document.Document
}

// maxPrealloc caps the initial capacity for very large thresholds.
const maxPrealloc = 1024

func newBuffer(capacity int) buffer {
	return buffer{docs: make([]document.Document, 0, min(capacity, maxPrealloc))}
}

// append adds one document at the tail.
func (b *buffer) append(d document.Document) {
	b.docs = append(b.docs, d)
}

// drain hands over the full contents and leaves the buffer empty.
// The returned batch is never reused by the buffer.
func (b *buffer) drain() document.Batch {
	out := document.Batch(b.docs)
	b.docs = make([]document.Document, 0, cap(out))
	return out
}

func (b *buffer) size() int {
	return len(b.docs)
}
