package vectorstore

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
)

func TestNewQdrantStore_InvalidURL(t *testing.T) {
	_, err := NewQdrantStore("://invalid")
	if err == nil {
		t.Error("NewQdrantStore() with invalid URL should return error")
	}
}

func TestConvertValue(t *testing.T) {
	tests := []struct {
		name  string
		value *qdrant.Value
		want  any
	}{
		{
			name:  "string value",
			value: &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: "report.pdf"}},
			want:  "report.pdf",
		},
		{
			name:  "integer value",
			value: &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: 3}},
			want:  int64(3),
		},
		{
			name:  "double value",
			value: &qdrant.Value{Kind: &qdrant.Value_DoubleValue{DoubleValue: 0.5}},
			want:  0.5,
		},
		{
			name:  "bool value",
			value: &qdrant.Value{Kind: &qdrant.Value_BoolValue{BoolValue: true}},
			want:  true,
		},
		{
			name:  "nil kind",
			value: &qdrant.Value{},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := convertValue(tt.value); got != tt.want {
				t.Errorf("convertValue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConvertPayloadToMap(t *testing.T) {
	payload := map[string]*qdrant.Value{
		"source": {Kind: &qdrant.Value_StringValue{StringValue: "doc.pdf"}},
		"chunk":  {Kind: &qdrant.Value_IntegerValue{IntegerValue: 2}},
		"nil":    nil,
	}

	got := convertPayloadToMap(payload)
	if got["source"] != "doc.pdf" {
		t.Errorf("source = %v, want doc.pdf", got["source"])
	}
	if got["chunk"] != int64(2) {
		t.Errorf("chunk = %v, want 2", got["chunk"])
	}
	if _, ok := got["nil"]; ok {
		t.Error("nil values should be skipped")
	}
}
