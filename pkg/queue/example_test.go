package queue_test

import (
	"context"
	"fmt"

	"github.com/bft-labs/bulkqueue/pkg/document"
	"github.com/bft-labs/bulkqueue/pkg/queue"
	"github.com/bft-labs/bulkqueue/pkg/sender"
)

// ExampleQueue shows a threshold flush followed by the final flush on Close.
func ExampleQueue() {
	backend := sender.SubmitterFunc(func(ctx context.Context, b document.Batch) error {
		fmt.Printf("submitting %d documents\n", b.Len())
		return nil
	})

	cfg := queue.DefaultConfig()
	cfg.Threshold = 3

	q, err := queue.New(backend, cfg)
	if err != nil {
		fmt.Println(err)
		return
	}

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		_ = q.Add(ctx, "events", "event", map[string]any{"keyname": i})
	}
	fmt.Println("pending:", q.Size())

	_ = q.Close(ctx)

	// Output:
	// submitting 3 documents
	// pending: 1
	// submitting 1 documents
}
