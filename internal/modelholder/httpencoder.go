package modelholder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPEncoder calls an OpenAI-compatible /v1/embeddings endpoint. It is the
// production Encoder behind the holder; tests substitute their own.
type HTTPEncoder struct {
	endpoint   string
	model      string
	dimensions int
	http       *http.Client
}

// NewHTTPEncoder builds an encoder for the given endpoint and model name.
func NewHTTPEncoder(endpoint, model string, dimensions int) *HTTPEncoder {
	return &HTTPEncoder{
		endpoint:   endpoint,
		model:      model,
		dimensions: dimensions,
		http:       &http.Client{Timeout: 30 * time.Second},
	}
}

func (e *HTTPEncoder) Dimension() int { return e.dimensions }

// Encode embeds one text. The request honors ctx's deadline.
func (e *HTTPEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(map[string]any{
		"model": e.model,
		"input": []string{text},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding request: status %d", resp.StatusCode)
	}

	var parsed struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("embedding request: empty response")
	}
	return parsed.Data[0].Embedding, nil
}
