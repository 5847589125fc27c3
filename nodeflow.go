// Package nodeflow provides a top-level convenience entry point for talking
// to an OpenAI-compatible endpoint with minimal boilerplate.
//
// Usage:
//
//	import "github.com/BaSui01/nodeflow"
//
//	kit, err := nodeflow.New(nodeflow.WithOpenAI())
//	kit, err := nodeflow.New(nodeflow.WithEndpoint("https://api.venice.ai/api/v1", "sk-..."))
//
//	out := kit.Text.Run(ctx, nodes.TextInput{Prompt: "hello", Model: "gpt-4o-mini"})
//
// This is a thin wrapper around [client.New] and the nodes package; use it
// when you want the full node set wired to one endpoint without assembling
// the pieces yourself.
package nodeflow

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/BaSui01/nodeflow/client"
	"github.com/BaSui01/nodeflow/config"
	"github.com/BaSui01/nodeflow/nodes"
)

// Kit bundles one API client with every generation node bound to it.
type Kit struct {
	Client   *client.Client
	Text     *nodes.TextNode
	Image    *nodes.ImageNode
	Video    *nodes.VideoNode
	Speech   *nodes.SpeechNode
	ImageURL *nodes.ImageURLNode
}

// Option configures the kit created by [New].
type Option func(*settings)

type settings struct {
	endpoint config.EndpointConfig
	logger   *zap.Logger
}

// WithEndpoint points the kit at an arbitrary OpenAI-compatible endpoint.
func WithEndpoint(baseURL, apiKey string) Option {
	return func(s *settings) {
		s.endpoint.BaseURL = baseURL
		s.endpoint.APIKey = apiKey
	}
}

// WithOpenAI targets the official OpenAI API. API key from OPENAI_API_KEY env
// unless overridden with [WithAPIKey].
func WithOpenAI() Option {
	return func(s *settings) {
		s.endpoint.BaseURL = "https://api.openai.com/v1"
		if s.endpoint.APIKey == "" {
			s.endpoint.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
}

// WithAPIKey overrides the API key.
func WithAPIKey(key string) Option {
	return func(s *settings) { s.endpoint.APIKey = key }
}

// WithConfig uses a full endpoint configuration (timeout, retries, rate limit).
func WithConfig(ec config.EndpointConfig) Option {
	return func(s *settings) { s.endpoint = ec }
}

// WithLogger sets a custom zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// New creates a [Kit] for one endpoint. At minimum a base URL must be
// specified via [WithOpenAI], [WithEndpoint], or [WithConfig].
func New(opts ...Option) (*Kit, error) {
	s := &settings{endpoint: config.DefaultEndpointConfig(), logger: zap.NewNop()}
	s.endpoint.BaseURL = ""
	for _, opt := range opts {
		opt(s)
	}
	if s.endpoint.BaseURL == "" {
		return nil, fmt.Errorf("no endpoint configured: use WithOpenAI, WithEndpoint, or WithConfig")
	}

	c := client.New(s.endpoint, s.logger)
	return &Kit{
		Client:   c,
		Text:     nodes.NewTextNode(c, s.logger),
		Image:    nodes.NewImageNode(c, s.logger),
		Video:    nodes.NewVideoNode(c, s.logger),
		Speech:   nodes.NewSpeechNode(c, s.logger),
		ImageURL: nodes.NewImageURLNode(s.logger),
	}, nil
}
