package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/parlagraph/parlagraph/pkg/common"
)

func TestClassifyConvertsCharacterOffsets(t *testing.T) {
	text := "José falou sobre a pauta"

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var req classifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Inputs != text {
			t.Errorf("inputs = %q, want %q", req.Inputs, text)
		}

		results := []entityResult{
			{EntityGroup: "PER", Score: 0.97, Word: "José", Start: 0, End: 4},
			{EntityGroup: "ORG", Score: 0.88, Word: "pauta", Start: 19, End: 24},
		}
		json.NewEncoder(w).Encode(results)
	}))
	defer srv.Close()

	c := NewClient(NewClientParams{
		BaseURL:    srv.URL,
		APIKey:     "token-123",
		MaxRetries: 1,
	})

	spans, err := c.Classify(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer token-123" {
		t.Errorf("authorization header = %q", gotAuth)
	}
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d: %v", len(spans), spans)
	}

	// "é" is two bytes, so the byte span ends at 5.
	first := spans[0]
	if first.Text != "José" || first.Start != 0 || first.End != 5 {
		t.Errorf("first span = %+v", first)
	}
	if first.Label != common.LabelPerson {
		t.Errorf("PER group should map to %q, got %q", common.LabelPerson, first.Label)
	}
	if first.Source != common.SpanSourceModel {
		t.Errorf("source = %q, want %q", first.Source, common.SpanSourceModel)
	}

	second := spans[1]
	if second.Label != "ORG" {
		t.Errorf("non-person group should pass through, got %q", second.Label)
	}
	if text[second.Start:second.End] != "pauta" {
		t.Errorf("second span offsets select %q", text[second.Start:second.End])
	}
}

func TestClassifyDropsOutOfRangeResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		results := []entityResult{
			{EntityGroup: "PER", Score: 0.9, Start: -1, End: 3},
			{EntityGroup: "PER", Score: 0.9, Start: 2, End: 2},
			{EntityGroup: "PER", Score: 0.9, Start: 0, End: 500},
		}
		json.NewEncoder(w).Encode(results)
	}))
	defer srv.Close()

	c := NewClient(NewClientParams{BaseURL: srv.URL, MaxRetries: 1})
	spans, err := c.Classify(context.Background(), "texto curto")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spans) != 0 {
		t.Fatalf("expected no spans, got %v", spans)
	}
}

func TestClassifyErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(NewClientParams{BaseURL: srv.URL, MaxRetries: 1})
	if _, err := c.Classify(context.Background(), "texto"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
