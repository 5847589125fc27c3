package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/BaSui01/nodeflow/types"
)

// =============================================================================
// 🔌 连接测试路由
// =============================================================================

type testConnectionRequest struct {
	Profile string `json:"profile"`
	// 可选：不走配置档，直接验证一组临时凭据
	BaseURL string `json:"base_url"`
	APIKey  string `json:"api_key"`
}

type testConnectionResponse struct {
	OK         bool   `json:"ok"`
	BaseURL    string `json:"base_url"`
	ModelCount int    `json:"model_count"`
	LatencyMS  int64  `json:"latency_ms"`
}

// TestConnection 对端点做一次 ListModels 往返，报告连通性与延迟。
// 失败原样映射为错误响应（success=false），方便前端直接展示。
func (h *Handler) TestConnection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteErrorMessage(w, r, types.ErrInvalidRequest, "method not allowed", h.logger)
		return
	}

	var req testConnectionRequest
	if r.ContentLength > 0 {
		if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
			return
		}
	}

	c := h.clientFor(req.Profile)
	if req.BaseURL != "" {
		ec := h.cfg.Endpoint(req.Profile)
		ec.BaseURL = req.BaseURL
		if req.APIKey != "" {
			ec.APIKey = req.APIKey
		}
		c = h.newClient(ec)
	}

	start := time.Now()
	models, err := c.ListModels(r.Context())
	latency := time.Since(start)

	if err != nil {
		var apiErr *types.Error
		if !errors.As(err, &apiErr) {
			apiErr = types.NewError(types.ErrUpstreamError, "connection test failed").WithCause(err)
		}
		WriteError(w, r, apiErr, h.logger)
		return
	}

	WriteSuccess(w, r, testConnectionResponse{
		OK:         true,
		BaseURL:    c.BaseURL(),
		ModelCount: len(models),
		LatencyMS:  latency.Milliseconds(),
	})
}
