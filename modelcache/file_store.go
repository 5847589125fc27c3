package modelcache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// FileStore 是一个基于单个 JSON 文件的 Store 实现。
// 适合单节点部署：所有配置档的快照共用一个文件。
type FileStore struct {
	path   string
	mu     sync.RWMutex
	cache  map[string]*Entry // in-memory copy of the file
	logger *zap.Logger
}

// NewFileStore 创建文件存储，并装入已存在的快照。
//
// 文件损坏不是致命错误：解析失败时从空缓存重新开始，坏文件会在下一次
// Put 时被覆盖。
func NewFileStore(path string, logger *zap.Logger) (*FileStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	s := &FileStore{
		path:   path,
		cache:  make(map[string]*Entry),
		logger: logger,
	}
	s.loadFromDisk()
	return s, nil
}

// 从磁盘加载所有快照到内存
func (s *FileStore) loadFromDisk() {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return
	}
	if err != nil {
		s.logger.Warn("failed to read model cache file, starting empty",
			zap.String("path", s.path), zap.Error(err))
		return
	}

	var entries map[string]*Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("corrupt model cache file, starting empty",
			zap.String("path", s.path), zap.Error(err))
		return
	}
	if entries != nil {
		s.cache = entries
	}
}

// 原子写: 写入临时文件后重命名
func (s *FileStore) saveToDisk() error {
	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return err
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tempPath, s.path)
}

func (s *FileStore) Get(ctx context.Context, profile string) (*Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.cache[profile]
	return entry, ok, nil
}

func (s *FileStore) Put(ctx context.Context, profile string, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[profile] = entry
	return s.saveToDisk()
}

func (s *FileStore) Delete(ctx context.Context, profile string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cache[profile]; !ok {
		return nil
	}
	delete(s.cache, profile)
	return s.saveToDisk()
}

func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache = make(map[string]*Entry)
	return s.saveToDisk()
}

var _ Store = (*FileStore)(nil)
