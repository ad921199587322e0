package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Backend 宿主提供的不透明键值持久化
type Backend interface {
	// Load 返回之前保存的内容，没有时返回 nil, nil
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Store 负责启动时加载（含迁移）和后续保存
type Store struct {
	backend Backend
	logger  *zap.Logger

	once     sync.Once
	settings *Settings
	path     string
	err      error

	mu sync.Mutex
}

// NewStore 创建设置存储
func NewStore(backend Backend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		backend: backend,
		logger:  logger,
	}
}

// Load 加载并迁移设置。只在第一次调用时真正执行，之后返回同一个结果
func (s *Store) Load(ctx context.Context) (*Settings, error) {
	s.once.Do(func() {
		s.settings, s.path, s.err = s.load(ctx)
	})
	return s.settings, s.err
}

// Path 最近一次加载走的迁移路径
func (s *Store) Path() string {
	return s.path
}

func (s *Store) load(ctx context.Context) (*Settings, string, error) {
	data, err := s.backend.Load(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load settings: %w", err)
	}

	result := MigrateJSON(data)
	switch {
	case result.Err != nil && result.Path == PathFallback:
		s.logger.Warn("settings could not be migrated, using defaults",
			zap.String("path", result.Path),
			zap.Error(result.Err))
	case result.Err != nil:
		s.logger.Warn("some settings fields were skipped, stored data left untouched",
			zap.String("path", result.Path),
			zap.Error(result.Err))
	}
	s.logger.Info("settings loaded",
		zap.String("path", result.Path),
		zap.Int("models", len(result.Settings.Models)),
		zap.Int("history", len(result.Settings.History)))

	if result.Persist {
		if err := s.Save(ctx, result.Settings); err != nil {
			return nil, result.Path, err
		}
	}
	return result.Settings, result.Path, nil
}

// Save 保存设置
func (s *Store) Save(ctx context.Context, settings *Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := s.backend.Save(ctx, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// MemoryBackend 内存实现，测试和嵌入场景使用
type MemoryBackend struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

// NewMemoryBackend 以已有内容初始化，nil 表示从未保存
func NewMemoryBackend(data []byte) *MemoryBackend {
	return &MemoryBackend{data: data}
}

// Load 实现 Backend
func (b *MemoryBackend) Load(context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data == nil {
		return nil, nil
	}
	return append([]byte(nil), b.data...), nil
}

// Save 实现 Backend
func (b *MemoryBackend) Save(_ context.Context, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append([]byte(nil), data...)
	b.saves++
	return nil
}

// Saves 保存次数
func (b *MemoryBackend) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}
