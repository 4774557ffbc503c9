package document

import (
	"errors"
	"reflect"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Document
		wantErr bool
	}{
		{
			name: "full document",
			line: `{"index":"events","doc_type":"event","body":{"keyname":"value1"}}`,
			want: Document{Index: "events", DocType: "event", Body: map[string]any{"keyname": "value1"}},
		},
		{
			name: "defaults applied",
			line: `{"body":{"keyname":"value2"}}`,
			want: Document{Index: "logs", DocType: "_doc", Body: map[string]any{"keyname": "value2"}},
		},
		{
			name: "bare object",
			line: `{"msg":"hello","level":"info"}`,
			want: Document{Index: "logs", DocType: "_doc", Body: map[string]any{"msg": "hello", "level": "info"}},
		},
		{
			name:    "null line",
			line:    `null`,
			wantErr: true,
		},
		{
			name:    "json array",
			line:    `[1,2]`,
			wantErr: true,
		},
		{
			name:    "missing body",
			line:    `{"index":"events"}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			line:    `{"index":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.line), "logs", "_doc")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecode_NoIndex(t *testing.T) {
	_, err := Decode([]byte(`{"body":{}}`), "", "")
	if err == nil {
		t.Fatal("expected error without index")
	}
	if errors.Is(err, ErrMissingBody) {
		t.Errorf("empty body object should not be ErrMissingBody")
	}
}

func TestBatch_Indices(t *testing.T) {
	b := Batch{
		New("events", "event", nil),
		New("logs", "line", nil),
		New("events", "event", nil),
	}
	got := b.Indices()
	want := []string{"events", "logs"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Indices = %v, want %v", got, want)
	}
	if b.Len() != 3 || b.Empty() {
		t.Errorf("Len = %d, Empty = %v", b.Len(), b.Empty())
	}
}
