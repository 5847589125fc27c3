package modelcache

import (
	"context"
	"time"

	"github.com/BaSui01/nodeflow/client"
)

// Entry 是某一配置档的一次模型列表快照。
// BaseURL 记录快照来源：配置档换了端点后旧快照即作废。
type Entry struct {
	Models    []client.Model `json:"models"`
	FetchedAt time.Time      `json:"fetched_at"`
	BaseURL   string         `json:"base_url"`
}

// Age returns how long ago the entry was fetched.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.FetchedAt)
}

// Store persists model list snapshots keyed by profile name.
//
// Implementations must tolerate missing entries (return ok=false, not an
// error) and must keep expired entries around: the cache serves stale data
// when the upstream is unreachable, so eviction is the cache's decision,
// never the store's.
type Store interface {
	Get(ctx context.Context, profile string) (*Entry, bool, error)
	Put(ctx context.Context, profile string, entry *Entry) error
	Delete(ctx context.Context, profile string) error
	Clear(ctx context.Context) error
}
