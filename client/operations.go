package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/BaSui01/nodeflow/types"
)

// Model is an opaque model record returned by the /models endpoint. Only
// the id field is interpreted; everything else is passed through.
type Model map[string]any

// ID returns the model identifier, or "" when absent.
func (m Model) ID() string {
	id, _ := m["id"].(string)
	return id
}

// Options carries caller-supplied request parameters. They are merged into
// the computed body last, so an option may deliberately clobber a computed
// field. No validation is performed.
type Options map[string]any

// mergeBody builds a request body with documented precedence: computed
// defaults first, then caller overrides, last write wins.
func mergeBody(computed map[string]any, opts Options) map[string]any {
	body := make(map[string]any, len(computed)+len(opts))
	for k, v := range computed {
		body[k] = v
	}
	for k, v := range opts {
		body[k] = v
	}
	return body
}

// ListModels returns the models advertised by the endpoint.
// Returns an empty slice when the response carries no data array.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	resp, err := c.Request(ctx, http.MethodGet, "/models", nil)
	if err != nil {
		return nil, err
	}

	raw, _ := resp["data"].([]any)
	models := make([]Model, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			models = append(models, Model(m))
		}
	}
	return models, nil
}

// ChatCompletion creates a chat completion.
func (c *Client) ChatCompletion(ctx context.Context, model string, messages []map[string]any, opts Options) (map[string]any, error) {
	body := mergeBody(map[string]any{
		"model":    model,
		"messages": messages,
	}, opts)

	return c.Request(ctx, http.MethodPost, "/chat/completions", body)
}

// GenerateImage generates images from a text prompt.
// Some APIs require a model, some reject one; an empty model is simply
// omitted from the body.
func (c *Client) GenerateImage(ctx context.Context, model, prompt string, opts Options) (map[string]any, error) {
	computed := map[string]any{"prompt": prompt}
	if model != "" {
		computed["model"] = model
	}
	body := mergeBody(computed, opts)

	return c.Request(ctx, http.MethodPost, "/images/generations", body)
}

// GenerateVideo submits a video generation job.
func (c *Client) GenerateVideo(ctx context.Context, model, prompt string, opts Options) (map[string]any, error) {
	body := mergeBody(map[string]any{
		"model":  model,
		"prompt": prompt,
	}, opts)

	return c.Request(ctx, http.MethodPost, "/videos/create", body)
}

// GetVideo fetches the status of an async video job.
func (c *Client) GetVideo(ctx context.Context, id string) (map[string]any, error) {
	return c.Request(ctx, http.MethodGet, "/videos/"+id, nil)
}

// WaitForVideo polls an async video job until it reaches a terminal state.
func (c *Client) WaitForVideo(ctx context.Context, id string, interval time.Duration) (map[string]any, error) {
	if interval <= 0 {
		interval = 5 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			resp, err := c.GetVideo(ctx, id)
			if err != nil {
				// Transient poll failures already went through the retry
				// loop; a hard failure here is terminal.
				return nil, err
			}

			status, _ := resp["status"].(string)
			switch status {
			case "completed", "succeeded":
				return resp, nil
			case "failed", "cancelled":
				msg := "video generation failed"
				if e, ok := resp["error"].(map[string]any); ok {
					if m, ok := e["message"].(string); ok && m != "" {
						msg = m
					}
				}
				return nil, types.NewError(types.ErrGenerationFailed, msg).WithEndpoint("/videos/" + id)
			}
			// queued / in_progress: keep polling
		}
	}
}

// GenerateSpeech synthesizes speech and returns the raw audio bytes.
//
// This is the one operation that bypasses the JSON executor and the retry
// loop: the response body is binary audio, and replaying a partially
// streamed synthesis is not worth a flat retry. The session timeout still
// applies.
func (c *Client) GenerateSpeech(ctx context.Context, model, input, voice string, opts Options) ([]byte, error) {
	body := mergeBody(map[string]any{
		"model": model,
		"input": input,
		"voice": voice,
	}, opts)

	url := c.cfg.BaseURL + "/audio/speech"
	data, status, err := c.do(ctx, http.MethodPost, url, "/audio/speech", body)
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, types.NewError(types.ErrUpstreamError, fmt.Sprintf("unexpected status %d", status)).
			WithHTTPStatus(status).
			WithEndpoint("/audio/speech")
	}
	return data, nil
}
