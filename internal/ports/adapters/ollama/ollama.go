package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/aspargus/aspargus/internal/types"
)

// Adapter talks to one Ollama server about one model. The catalog holds two
// of these: a vision endpoint and a text endpoint, possibly the same server.
//
// The client carries no timeout on purpose: generation time depends on the
// model and host, and a slow local server must block the stage rather than
// fail it.
type Adapter struct {
	baseURL string
	model   string
	client  *http.Client
}

func New(server string, port int, model string) *Adapter {
	return &Adapter{
		baseURL: BaseURL(server, port),
		model:   model,
		client:  &http.Client{},
	}
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

type generatePayload struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Images  []string        `json:"images,omitempty"`
	Options generateOptions `json:"options"`
}

// Generate runs one non-streaming completion and returns the raw response
// text. Callers parse it according to their topology.
func (a *Adapter) Generate(ctx context.Context, req types.GenerateRequest) (string, error) {
	payload := generatePayload{
		Model:   a.model,
		Prompt:  req.Prompt,
		Stream:  false,
		Images:  req.Images,
		Options: generateOptions{Temperature: req.Temperature},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return "", fmt.Errorf("ollama status %d and read body failed: %v", resp.StatusCode, readErr)
		}
		return "", fmt.Errorf("ollama status %d: %s", resp.StatusCode, truncate(string(rb), 400))
	}

	var raw struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return raw.Response, nil
}

// Models lists the model names available on the server.
func (a *Adapter) Models(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", a.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("ollama status %d and read body failed: %v", resp.StatusCode, readErr)
		}
		return nil, fmt.Errorf("ollama status %d: %s", resp.StatusCode, truncate(string(rb), 400))
	}

	var raw struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode models: %w", err)
	}
	names := make([]string, 0, len(raw.Models))
	for _, m := range raw.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Server returns the resolved base URL, for display.
func (a *Adapter) Server() string { return a.baseURL }

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
