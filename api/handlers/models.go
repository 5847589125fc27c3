package handlers

import (
	"net/http"
	"strconv"

	"github.com/BaSui01/nodeflow/modelcache"
	"github.com/BaSui01/nodeflow/types"
)

// =============================================================================
// 🧩 模型列表 / 过滤 / 缓存路由
// =============================================================================

type modelsRequest struct {
	Profile      string `json:"profile"`
	ForceRefresh bool   `json:"force_refresh"`
}

type modelsResponse struct {
	Profile string   `json:"profile"`
	Models  []string `json:"models"`
	Count   int      `json:"count"`
	Cached  bool     `json:"cached"`
}

// Models 返回某配置档的模型 ID 列表。
// GET 用查询参数，POST 用 JSON 体；两者语义一致。
func (h *Handler) Models(w http.ResponseWriter, r *http.Request) {
	var req modelsRequest

	switch r.Method {
	case http.MethodGet:
		req.Profile = r.URL.Query().Get("profile")
		req.ForceRefresh, _ = strconv.ParseBool(r.URL.Query().Get("force_refresh"))
	case http.MethodPost:
		if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
			return
		}
	default:
		WriteErrorMessage(w, r, types.ErrInvalidRequest, "method not allowed", h.logger)
		return
	}

	models, cached := h.cache.Models(r.Context(), profileOrDefault(req.Profile), h.clientFor(req.Profile), req.ForceRefresh)

	WriteSuccess(w, r, modelsResponse{
		Profile: profileOrDefault(req.Profile),
		Models:  modelcache.IDs(models),
		Count:   len(models),
		Cached:  cached,
	})
}

type filterModelsRequest struct {
	Models     []string `json:"models"`
	Capability string   `json:"capability"`
}

// FilterModels 按能力关键字过滤一组模型 ID
func (h *Handler) FilterModels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteErrorMessage(w, r, types.ErrInvalidRequest, "method not allowed", h.logger)
		return
	}

	var req filterModelsRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	filtered := modelcache.FilterByCapability(req.Models, modelcache.Capability(req.Capability))

	WriteSuccess(w, r, map[string]any{
		"models":     filtered,
		"count":      len(filtered),
		"capability": req.Capability,
	})
}

type clearCacheRequest struct {
	Profile string `json:"profile"` // 为空时清空全部
}

// ClearCache 清除一个配置档的缓存，或全部
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteErrorMessage(w, r, types.ErrInvalidRequest, "method not allowed", h.logger)
		return
	}

	var req clearCacheRequest
	if r.ContentLength > 0 {
		if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
			return
		}
	}

	var err error
	cleared := "all"
	if req.Profile != "" {
		cleared = req.Profile
		err = h.cache.ClearProfile(r.Context(), req.Profile)
	} else {
		err = h.cache.ClearAll(r.Context())
	}
	if err != nil {
		WriteError(w, r, types.NewError(types.ErrCacheIO, "failed to clear model cache").WithCause(err), h.logger)
		return
	}

	WriteSuccess(w, r, map[string]any{"cleared": cleared})
}

func profileOrDefault(profile string) string {
	if profile == "" {
		return "default"
	}
	return profile
}
