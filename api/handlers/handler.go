package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/BaSui01/nodeflow/client"
	"github.com/BaSui01/nodeflow/config"
	"github.com/BaSui01/nodeflow/modelcache"
)

// Handler 承载宿主 HTTP 路由的全部依赖
type Handler struct {
	cfg     *config.Config
	cache   *modelcache.Cache
	logger  *zap.Logger
	version string

	// newClient 按端点配置构建 API 客户端，测试时可替换
	newClient func(config.EndpointConfig) *client.Client
}

// Option 配置 Handler 的可选行为
type Option func(*Handler)

// WithClientFactory 替换客户端构建函数（用于注入指标记录器等）
func WithClientFactory(f func(config.EndpointConfig) *client.Client) Option {
	return func(h *Handler) { h.newClient = f }
}

// New 创建 Handler
func New(cfg *config.Config, cache *modelcache.Cache, logger *zap.Logger, version string, opts ...Option) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		cfg:     cfg,
		cache:   cache,
		logger:  logger.With(zap.String("component", "api")),
		version: version,
	}
	h.newClient = func(ec config.EndpointConfig) *client.Client {
		return client.New(ec, h.logger)
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// clientFor 解析配置档并构建对应客户端
func (h *Handler) clientFor(profile string) *client.Client {
	return h.newClient(h.cfg.Endpoint(profile))
}

// Routes 注册全部宿主路由
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/models", h.Models)
	mux.HandleFunc("/filter_models", h.FilterModels)
	mux.HandleFunc("/clear_cache", h.ClearCache)
	mux.HandleFunc("/test_connection", h.TestConnection)

	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/version", h.Version)

	return WithRequestID(mux)
}
