package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/bft-labs/bulkqueue/pkg/document"
	"github.com/bft-labs/bulkqueue/pkg/queue"
	"github.com/bft-labs/bulkqueue/pkg/sender"
)

func TestCollector_WiredIntoQueue(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	fail := false
	backend := sender.SubmitterFunc(func(ctx context.Context, b document.Batch) error {
		if fail {
			return errors.New("rejected")
		}
		return nil
	})

	q, err := queue.New(backend, queue.Config{Threshold: 4, FlushTime: time.Minute}, queue.WithEventHandler(c))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 9; i++ {
		if err := q.Add(ctx, "events", "event", map[string]any{"i": i}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	if got := testutil.ToFloat64(c.added); got != 9 {
		t.Errorf("documents_added_total = %v, want 9", got)
	}
	if got := testutil.ToFloat64(c.pending); got != 1 {
		t.Errorf("documents_pending = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.batches.WithLabelValues("threshold")); got != 2 {
		t.Errorf("batches_submitted_total{threshold} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.documents.WithLabelValues("threshold")); got != 8 {
		t.Errorf("documents_submitted_total{threshold} = %v, want 8", got)
	}

	fail = true
	if err := q.Flush(ctx); err == nil {
		t.Fatal("Flush: expected error")
	}
	if got := testutil.ToFloat64(c.failures.WithLabelValues("manual")); got != 1 {
		t.Errorf("submission_failures_total{manual} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.pending); got != 0 {
		t.Errorf("documents_pending = %v, want 0", got)
	}
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	c.OnDocumentAdded(queue.AddEvent{Pending: 3, Seq: 3})

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{"bulkqueue_documents_added_total 1", "bulkqueue_documents_pending 3"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestCollector_PendingIgnoresStaleEvents(t *testing.T) {
	c := New(prometheus.NewRegistry())

	// A timer flush drained the buffer at seq 5, but its event is delivered
	// after an Add that happened later.
	c.OnDocumentAdded(queue.AddEvent{Pending: 2, Seq: 7})
	c.OnFlushSuccess(queue.FlushEvent{Trigger: queue.TriggerTimer, Documents: 4, Pending: 0, Seq: 5})

	if got := testutil.ToFloat64(c.pending); got != 2 {
		t.Errorf("documents_pending = %v, want 2", got)
	}

	c.OnFlushError(queue.FlushErrorEvent{Trigger: queue.TriggerTimer, Err: errors.New("x"), Pending: 0, Seq: 8})
	if got := testutil.ToFloat64(c.pending); got != 0 {
		t.Errorf("documents_pending = %v, want 0", got)
	}
}
