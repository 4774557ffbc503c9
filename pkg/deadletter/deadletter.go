// Package deadletter persists batches the backend rejected.
//
// The queue never retries or re-buffers a failed batch. Callers that cannot
// afford to lose documents wire a Sink in as a queue event handler; every
// rejected batch is written as an NDJSON file in the same line format the
// bulkq CLI reads, so it can be replayed with `bulkq --input <file>`.
package deadletter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/bft-labs/bulkqueue/pkg/document"
	"github.com/bft-labs/bulkqueue/pkg/log"
	"github.com/bft-labs/bulkqueue/pkg/queue"
)

const fileExt = ".ndjson"

// Sink writes failed batches into a directory.
type Sink struct {
	queue.BaseEventHandler

	dir    string
	logger log.Logger
}

// NewSink creates a Sink for dir. The directory is created on first write.
func NewSink(dir string, logger log.Logger) *Sink {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Sink{dir: dir, logger: logger}
}

// Dir returns the directory batches are written to.
func (s *Sink) Dir() string {
	return s.dir
}

// Save writes batch atomically (temp file, then rename) and returns the path.
func (s *Sink) Save(ctx context.Context, batch document.Batch) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i, d := range batch {
		if err := enc.Encode(d); err != nil {
			return "", fmt.Errorf("encode document %d: %w", i, err)
		}
	}

	name := fmt.Sprintf("failed-%s-%s%s", time.Now().UTC().Format("20060102T150405Z"), uuid.NewString(), fileExt)
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}

	s.logger.Warn("batch written to dead-letter directory",
		log.String("path", path),
		log.Int("documents", batch.Len()),
		log.String("size", humanize.Bytes(uint64(buf.Len()))),
	)
	return path, nil
}

// List returns the dead-letter files in dir, oldest first.
func (s *Sink) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != fileExt {
			continue
		}
		out = append(out, filepath.Join(s.dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// OnFlushError implements queue.EventHandler by saving the rejected batch.
func (s *Sink) OnFlushError(e queue.FlushErrorEvent) {
	if _, err := s.Save(context.Background(), e.Batch); err != nil {
		s.logger.Error("failed to write dead-letter batch",
			log.Err(err),
			log.String("trigger", e.Trigger.String()),
			log.Int("documents", e.Batch.Len()),
		)
	}
}
