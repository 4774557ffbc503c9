package sender

import (
	"context"

	"github.com/bft-labs/bulkqueue/pkg/document"
)

// Submitter transmits a batch of documents to the backend as one bulk operation.
// Returns nil on success, error on failure. Implementations must not retain
// the batch slice after returning.
type Submitter interface {
	Submit(ctx context.Context, batch document.Batch) error
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, batch document.Batch) error

// Submit calls f(ctx, batch).
func (f SubmitterFunc) Submit(ctx context.Context, batch document.Batch) error {
	return f(ctx, batch)
}
