package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/parlagraph/parlagraph/internal/util"
	"github.com/parlagraph/parlagraph/pkg/common"
)

// Client calls a token-classification inference endpoint that speaks the
// Hugging Face pipeline JSON format: a POST with {"inputs": text} answered
// by a list of {entity_group, score, word, start, end} objects with
// character offsets.
type Client struct {
	baseURL    string
	apiKey     string
	maxRetries int
	httpClient *http.Client
}

// NewClientParams contains configuration options for creating a new Client.
type NewClientParams struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

// NewClient creates a classifier client for the endpoint at params.BaseURL.
func NewClient(params NewClientParams) *Client {
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Client{
		baseURL:    params.BaseURL,
		apiKey:     params.APIKey,
		maxRetries: maxRetries,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type classifyRequest struct {
	Inputs string `json:"inputs"`
}

type entityResult struct {
	EntityGroup string  `json:"entity_group"`
	Score       float64 `json:"score"`
	Word        string  `json:"word"`
	Start       int     `json:"start"`
	End         int     `json:"end"`
}

// Classify sends text to the inference endpoint and converts the response
// into spans with byte offsets into text. Entity groups tagged PER or
// PESSOA are normalized to the person label; other groups pass through.
func (c *Client) Classify(
	ctx context.Context,
	text string,
) ([]common.Span, error) {
	body, err := json.Marshal(classifyRequest{Inputs: text})
	if err != nil {
		return nil, err
	}

	results, err := util.RetryWithBackoff(
		ctx,
		c.maxRetries,
		time.Second,
		func(ctx context.Context) ([]entityResult, error) {
			return c.post(ctx, body)
		},
	)
	if err != nil {
		return nil, err
	}

	// The endpoint reports character offsets. Build the rune-to-byte
	// table once so spans can index the original string directly.
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(text))
	runeCount := len(offsets) - 1

	spans := make([]common.Span, 0, len(results))
	for _, r := range results {
		if r.Start < 0 || r.End > runeCount || r.Start >= r.End {
			continue
		}
		start := offsets[r.Start]
		end := offsets[r.End]

		label := r.EntityGroup
		if label == "PER" || label == "PESSOA" {
			label = common.LabelPerson
		}

		spans = append(spans, common.Span{
			Text:       text[start:end],
			Start:      start,
			End:        end,
			Label:      label,
			Confidence: r.Score,
			Source:     common.SpanSourceModel,
		})
	}
	return spans, nil
}

func (c *Client) post(
	ctx context.Context,
	body []byte,
) ([]entityResult, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf(
			"classifier endpoint returned %d: %s",
			resp.StatusCode,
			payload,
		)
	}

	var results []entityResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, err
	}
	return results, nil
}
