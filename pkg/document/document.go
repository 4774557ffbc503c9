package document

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Document is a single record awaiting bulk submission.
type Document struct {
	// Index is the target collection name.
	Index string `json:"index"`

	// DocType is the record kind within the collection.
	DocType string `json:"doc_type"`

	// Body is passed through to the backend without inspection.
	Body map[string]any `json:"body"`
}

// New creates a Document.
func New(index, docType string, body map[string]any) Document {
	return Document{Index: index, DocType: docType, Body: body}
}

// ErrMissingBody is returned by Decode when a line carries no body object.
var ErrMissingBody = errors.New("document: missing body")

// Decode parses one NDJSON line. A line is either an envelope
//
//	{"index":"events","doc_type":"event","body":{...}}
//
// or a bare object with none of the envelope keys, which becomes the body
// as a whole. Empty index or doc_type fall back to defIndex and defDocType.
func Decode(line []byte, defIndex, defDocType string) (Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(line, &raw); err != nil {
		return Document{}, fmt.Errorf("decode document: %w", err)
	}

	var d Document
	if isEnvelope(raw) {
		if err := json.Unmarshal(line, &d); err != nil {
			return Document{}, fmt.Errorf("decode document: %w", err)
		}
	} else if err := json.Unmarshal(line, &d.Body); err != nil {
		return Document{}, fmt.Errorf("decode document: %w", err)
	}
	if d.Body == nil {
		return Document{}, ErrMissingBody
	}

	if d.Index == "" {
		d.Index = defIndex
	}
	if d.DocType == "" {
		d.DocType = defDocType
	}
	if d.Index == "" {
		return Document{}, fmt.Errorf("decode document: no index and no default index")
	}
	return d, nil
}

func isEnvelope(raw map[string]json.RawMessage) bool {
	for _, k := range []string{"index", "doc_type", "body"} {
		if _, ok := raw[k]; ok {
			return true
		}
	}
	return false
}
