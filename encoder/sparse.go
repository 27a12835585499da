package encoder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lawding/lawgraph"
)

// SparseClient calls a BGE-M3 style lexical-weight encoding service over HTTP
// and maps its output to a sparse vector. The service contract is a single
// POST endpoint taking {"text": ...} and returning token index/weight pairs.
type SparseClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// SparseOption configures a SparseClient.
type SparseOption func(*SparseClient)

// WithSparseHTTPClient sets a custom HTTP client.
func WithSparseHTTPClient(c *http.Client) SparseOption {
	return func(s *SparseClient) {
		s.httpClient = c
	}
}

// WithSparseAPIKey sets a bearer token for the encoding service.
func WithSparseAPIKey(key string) SparseOption {
	return func(s *SparseClient) {
		s.apiKey = key
	}
}

// NewSparseClient creates a sparse encoder client for the given endpoint.
func NewSparseClient(endpoint string, opts ...SparseOption) *SparseClient {
	s := &SparseClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type sparseRequest struct {
	Text string `json:"text"`
}

type sparseResponse struct {
	Indices []uint32  `json:"indices"`
	Values  []float32 `json:"values"`
}

// Encode returns the sparse lexical vector for a text.
func (s *SparseClient) Encode(ctx context.Context, text string) (*lawgraph.SparseVector, error) {
	body, err := json.Marshal(sparseRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal sparse request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build sparse request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sparse encode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("sparse encode: status %d: %s", resp.StatusCode, string(data))
	}

	var decoded sparseResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode sparse response: %w", err)
	}
	if len(decoded.Indices) != len(decoded.Values) {
		return nil, fmt.Errorf("sparse encode: %d indices for %d values", len(decoded.Indices), len(decoded.Values))
	}

	return &lawgraph.SparseVector{Indices: decoded.Indices, Values: decoded.Values}, nil
}
