package qa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client calls a hosted table-question-answering model over HTTP using the
// inference-API convention: POST {base}/models/{model} with
// {"inputs": {"query": ..., "table": ...}}.
type Client struct {
	baseURL string
	model   string
	token   string
	http    *http.Client
}

// NewClient builds a client for the model endpoint. token may be empty for
// endpoints that do not require authentication. Model inference can be slow,
// hence the generous timeout; per-request ctx still cancels earlier.
func NewClient(baseURL, model, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		token:   token,
		http:    &http.Client{Timeout: 120 * time.Second},
	}
}

type inferenceRequest struct {
	Inputs struct {
		Query string              `json:"query"`
		Table map[string][]string `json:"table"`
	} `json:"inputs"`
}

func (c *Client) Answer(ctx context.Context, table map[string][]string, question string) (Answer, error) {
	var payload inferenceRequest
	payload.Inputs.Query = question
	payload.Inputs.Table = table

	body, err := json.Marshal(payload)
	if err != nil {
		return Answer{}, fmt.Errorf("encode request: %w", err)
	}

	url := c.baseURL + "/models/" + c.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Answer{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Answer{}, fmt.Errorf("call model endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Answer{}, fmt.Errorf("model endpoint status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out Answer
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Answer{}, fmt.Errorf("decode answer: %w", err)
	}
	if out.Text == "" {
		return Answer{}, errors.New("model returned an empty answer")
	}

	return out, nil
}
