package handlers

import (
	"net/http"
	"time"
)

// =============================================================================
// 💚 健康检查路由
// =============================================================================

var startTime = time.Now()

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// Health 健康检查。无依赖探测：进程活着即健康，上游连通性用
// /test_connection 单独检查。
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, healthResponse{
		Status:  "ok",
		Version: h.version,
		Uptime:  time.Since(startTime).Round(time.Second).String(),
	})
}

// Version 返回构建版本
func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, map[string]string{"version": h.version})
}
