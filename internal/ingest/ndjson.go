// Package ingest feeds documents into a queue from NDJSON streams and from
// a spool directory watched with fsnotify.
package ingest

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bft-labs/bulkqueue/pkg/document"
	"github.com/bft-labs/bulkqueue/pkg/log"
	"github.com/bft-labs/bulkqueue/pkg/queue"
)

// maxLineBytes bounds a single NDJSON document.
const maxLineBytes = 8 << 20

// Adder accepts documents. *queue.Queue satisfies it.
type Adder interface {
	AddDocument(ctx context.Context, doc document.Document) error
}

// Defaults fill in index and doc_type for lines that omit them.
type Defaults struct {
	Index   string
	DocType string
}

// Stats summarizes one ingested stream.
type Stats struct {
	Lines   int
	Added   int
	Skipped int
	Failed  int
}

// ReadNDJSON decodes r line by line and adds every document to q.
// Malformed lines are logged and skipped. A failed threshold flush is logged
// and counted; reading continues. It returns early on context cancellation,
// a closed queue, or a read error.
func ReadNDJSON(ctx context.Context, r io.Reader, q Adder, defs Defaults, logger log.Logger) (Stats, error) {
	var st Stats

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLineBytes)

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return st, err
		}

		st.Lines++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		doc, err := document.Decode(line, defs.Index, defs.DocType)
		if err != nil {
			st.Skipped++
			logger.Warn("skipping malformed document", log.Int("line", st.Lines), log.Err(err))
			continue
		}

		err = q.AddDocument(ctx, doc)
		st.Added++

		var subErr *queue.SubmissionError
		switch {
		case err == nil:
		case errors.As(err, &subErr):
			st.Failed += subErr.Documents
		case errors.Is(err, queue.ErrClosed):
			st.Added--
			return st, err
		default:
			return st, fmt.Errorf("add document at line %d: %w", st.Lines, err)
		}
	}

	if err := sc.Err(); err != nil {
		return st, fmt.Errorf("read input: %w", err)
	}
	return st, nil
}
