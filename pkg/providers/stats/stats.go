// Package stats 按 提供商+模型 统计翻译请求
package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ModelStats 单个模型的统计
type ModelStats struct {
	Provider           string `json:"provider"`
	Model              string `json:"model"`
	TotalRequests      int64  `json:"total_requests"`
	SuccessfulRequests int64  `json:"successful_requests"`
	FailedRequests     int64  `json:"failed_requests"`
	TotalCharsIn       int64  `json:"total_chars_in"`
	TotalCharsOut      int64  `json:"total_chars_out"`

	AverageLatency time.Duration `json:"average_latency"`
	MinLatency     time.Duration `json:"min_latency"`
	MaxLatency     time.Duration `json:"max_latency"`
	TotalLatency   time.Duration `json:"total_latency"`

	// 按错误类型统计
	ErrorTypes map[string]int64 `json:"error_types"`
	// 译文与原文几乎相同的次数
	Untranslated int64 `json:"untranslated"`

	FirstRequestTime time.Time `json:"first_request_time"`
	LastRequestTime  time.Time `json:"last_request_time"`
}

// SuccessRate 成功率（百分比）
func (s *ModelStats) SuccessRate() float64 {
	if s.TotalRequests == 0 {
		return 0
	}
	return float64(s.SuccessfulRequests) / float64(s.TotalRequests) * 100
}

func (s *ModelStats) clone() *ModelStats {
	c := *s
	c.ErrorTypes = make(map[string]int64, len(s.ErrorTypes))
	for k, v := range s.ErrorTypes {
		c.ErrorTypes[k] = v
	}
	return &c
}

// RequestResult 单次请求结果
type RequestResult struct {
	Success      bool
	Latency      time.Duration
	CharsIn      int
	CharsOut     int
	ErrorType    string
	Untranslated bool
	At           time.Time
}

// Manager 统计管理器
type Manager struct {
	stats  map[string]*ModelStats // key: provider:model
	path   string
	logger *zap.Logger
	mu     sync.RWMutex
	// saveMu 串行化写文件，临时文件路径是共享的
	saveMu sync.Mutex
}

// NewManager 创建统计管理器，path 为空时不落盘
func NewManager(path string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		stats:  make(map[string]*ModelStats),
		path:   path,
		logger: logger,
	}
}

func key(provider, model string) string {
	return provider + ":" + model
}

// RecordRequest 记录请求结果
func (m *Manager) RecordRequest(provider, model string, result RequestResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key(provider, model)
	s, ok := m.stats[k]
	if !ok {
		s = &ModelStats{
			Provider:   provider,
			Model:      model,
			ErrorTypes: make(map[string]int64),
		}
		m.stats[k] = s
	}

	at := result.At
	if at.IsZero() {
		at = time.Now()
	}
	if s.FirstRequestTime.IsZero() {
		s.FirstRequestTime = at
	}
	s.LastRequestTime = at

	s.TotalRequests++
	if result.Success {
		s.SuccessfulRequests++
		s.TotalCharsIn += int64(result.CharsIn)
		s.TotalCharsOut += int64(result.CharsOut)
		if result.Untranslated {
			s.Untranslated++
		}
	} else {
		s.FailedRequests++
		if result.ErrorType != "" {
			s.ErrorTypes[result.ErrorType]++
		}
	}

	s.TotalLatency += result.Latency
	if s.TotalRequests == 1 || result.Latency < s.MinLatency {
		s.MinLatency = result.Latency
	}
	if result.Latency > s.MaxLatency {
		s.MaxLatency = result.Latency
	}
	s.AverageLatency = s.TotalLatency / time.Duration(s.TotalRequests)
}

// Get 获取指定模型的统计副本
func (m *Manager) Get(provider, model string) (*ModelStats, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.stats[key(provider, model)]
	if !ok {
		return nil, false
	}
	return s.clone(), true
}

// All 所有统计的副本，按请求数降序
func (m *Manager) All() []*ModelStats {
	m.mu.RLock()
	out := make([]*ModelStats, 0, len(m.stats))
	for _, s := range m.stats {
		out = append(out, s.clone())
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalRequests != out[j].TotalRequests {
			return out[i].TotalRequests > out[j].TotalRequests
		}
		return key(out[i].Provider, out[i].Model) < key(out[j].Provider, out[j].Model)
	})
	return out
}

// Reset 清空统计
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = make(map[string]*ModelStats)
}

// Save 原子写入 JSON 文件
func (m *Manager) Save() error {
	if m.path == "" {
		return nil
	}

	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("failed to create stats directory: %w", err)
	}

	m.mu.RLock()
	data, err := json.MarshalIndent(m.stats, "", "  ")
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal stats data: %w", err)
	}

	tempPath := m.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write stats file: %w", err)
	}
	if err := os.Rename(tempPath, m.path); err != nil {
		return fmt.Errorf("failed to rename stats file: %w", err)
	}

	m.logger.Debug("stats saved", zap.String("path", m.path))
	return nil
}

// Load 从 JSON 文件加载，文件不存在时从零开始
func (m *Manager) Load() error {
	if m.path == "" {
		return nil
	}

	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		m.logger.Debug("stats file not found, starting fresh", zap.String("path", m.path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read stats file: %w", err)
	}

	var loaded map[string]*ModelStats
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal stats data: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for k, s := range loaded {
		if s == nil {
			continue
		}
		if s.ErrorTypes == nil {
			s.ErrorTypes = make(map[string]int64)
		}
		m.stats[k] = s
	}

	m.logger.Debug("stats loaded", zap.String("path", m.path), zap.Int("models", len(loaded)))
	return nil
}

// AutoSaveRoutine 定期保存，ctx 结束时最后保存一次
func (m *Manager) AutoSaveRoutine(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := m.Save(); err != nil {
				m.logger.Error("failed to save stats on shutdown", zap.Error(err))
			}
			return
		case <-ticker.C:
			if err := m.Save(); err != nil {
				m.logger.Error("failed to auto-save stats", zap.Error(err))
			}
		}
	}
}
