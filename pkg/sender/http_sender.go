package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/bft-labs/bulkqueue/pkg/document"
	"github.com/bft-labs/bulkqueue/pkg/log"
)

const bulkEndpoint = "/_bulk"

// BatchIDHeader carries a per-submission identifier for server-side tracing.
const BatchIDHeader = "X-Bulkqueue-Batch-Id"

// Endpoint locates and authenticates against the bulk API.
type Endpoint struct {
	// ServiceURL is the base URL of the backend (no trailing slash).
	ServiceURL string

	// AuthKey is sent as a bearer token when non-empty.
	AuthKey string
}

// BulkError reports a 2xx bulk response in which some items were rejected.
type BulkError struct {
	Failed int
	Total  int
	// Reason is the first item error reported by the backend.
	Reason string
}

func (e *BulkError) Error() string {
	return fmt.Sprintf("bulk: %d of %d items failed: %s", e.Failed, e.Total, e.Reason)
}

// HTTPSender implements Submitter using the _bulk NDJSON API.
type HTTPSender struct {
	client   HTTPClient
	logger   log.Logger
	endpoint Endpoint
}

// NewHTTPSender creates a new HTTP sender. A nil logger discards output.
func NewHTTPSender(client HTTPClient, logger log.Logger, endpoint Endpoint) *HTTPSender {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	endpoint.ServiceURL = strings.TrimRight(endpoint.ServiceURL, "/")
	return &HTTPSender{
		client:   client,
		logger:   logger,
		endpoint: endpoint,
	}
}

// DefaultDocType is the doc type of typeless bulk APIs. It is not sent as
// _type, since Elasticsearch 8 rejects the field.
const DefaultDocType = "_doc"

type bulkAction struct {
	Index bulkMeta `json:"index"`
}

type bulkMeta struct {
	Index string `json:"_index"`
	Type  string `json:"_type,omitempty"`
}

type bulkResponse struct {
	Errors bool                                `json:"errors"`
	Items  []map[string]bulkResponseItemStatus `json:"items"`
}

type bulkResponseItemStatus struct {
	Status int             `json:"status"`
	Error  json.RawMessage `json:"error,omitempty"`
}

// EncodeBulk writes batch as _bulk NDJSON: one action line and one source
// line per document, each terminated by a newline.
func EncodeBulk(w io.Writer, batch document.Batch) error {
	enc := json.NewEncoder(w)
	for i, d := range batch {
		meta := bulkMeta{Index: d.Index}
		if d.DocType != DefaultDocType {
			meta.Type = d.DocType
		}
		if err := enc.Encode(bulkAction{Index: meta}); err != nil {
			return fmt.Errorf("encode action %d: %w", i, err)
		}
		if err := enc.Encode(d.Body); err != nil {
			return fmt.Errorf("encode body %d: %w", i, err)
		}
	}
	return nil
}

// Submit transmits a batch to the backend.
func (s *HTTPSender) Submit(ctx context.Context, batch document.Batch) error {
	if batch.Empty() {
		return nil
	}

	var body bytes.Buffer
	if err := EncodeBulk(&body, batch); err != nil {
		return err
	}
	size := body.Len()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint.ServiceURL+bulkEndpoint, &body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	batchID := uuid.NewString()
	req.Header.Set("Content-Type", "application/x-ndjson")
	req.Header.Set(BatchIDHeader, batchID)
	if s.endpoint.AuthKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.endpoint.AuthKey)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(respBody))
	}

	if err := checkBulkResponse(respBody, batch.Len()); err != nil {
		return err
	}

	s.logger.Debug("bulk request accepted",
		log.String("batch_id", batchID),
		log.Int("documents", batch.Len()),
		log.String("indices", strings.Join(batch.Indices(), ",")),
		log.String("size", humanize.Bytes(uint64(size))),
		log.Duration("duration", time.Since(start)),
	)
	return nil
}

// checkBulkResponse inspects a 2xx body for per-item failures.
// Bodies that are empty or not bulk responses are treated as success.
func checkBulkResponse(body []byte, total int) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var br bulkResponse
	if err := json.Unmarshal(body, &br); err != nil || !br.Errors {
		return nil
	}

	bulkErr := &BulkError{Total: total}
	for _, item := range br.Items {
		for _, st := range item {
			if st.Status >= 300 || len(st.Error) > 0 {
				bulkErr.Failed++
				if bulkErr.Reason == "" {
					bulkErr.Reason = string(st.Error)
				}
			}
		}
	}
	if bulkErr.Failed == 0 {
		bulkErr.Failed = total
		bulkErr.Reason = "backend reported errors"
	}
	return bulkErr
}
