// Package settings 持久化配置：模型目录、默认值、语言选项和历史记录
package settings

import (
	"fmt"
	"strings"

	"github.com/nerdneilsfield/go-selection-translator/pkg/catalog"
	"github.com/nerdneilsfield/go-selection-translator/pkg/history"
)

// AutoDetect 源语言自动检测
const AutoDetect = "auto"

// 默认值
const (
	DefaultTargetLanguage = "Chinese"
	DefaultMaxHistorySize = history.DefaultMaxSize
)

// DefaultLanguageOptions 默认可选语言
func DefaultLanguageOptions() []string {
	return []string{"Chinese", "English"}
}

// Settings 完整的持久化状态
type Settings struct {
	Models          []catalog.ModelConfig `json:"models"`
	DefaultModel    string                `json:"defaultModel"`
	TargetLanguage  string                `json:"targetLanguage"`
	LanguageOptions []string              `json:"languageOptions"`
	History         history.Log           `json:"history"`
	MaxHistorySize  int                   `json:"maxHistorySize"`
}

// Default 返回全新的默认配置
func Default() *Settings {
	return &Settings{
		Models:          catalog.Builtins(),
		DefaultModel:    catalog.DefaultModelID,
		TargetLanguage:  DefaultTargetLanguage,
		LanguageOptions: DefaultLanguageOptions(),
		History:         history.Log{},
		MaxHistorySize:  DefaultMaxHistorySize,
	}
}

// Clone 深拷贝
func (s *Settings) Clone() *Settings {
	c := *s
	c.Models = append([]catalog.ModelConfig{}, s.Models...)
	c.LanguageOptions = append([]string{}, s.LanguageOptions...)
	c.History = append(history.Log{}, s.History...)
	return &c
}

// normalize 补齐不变量：语言选项非空、历史上限为正、切片非 nil
func (s *Settings) normalize() {
	if s.Models == nil {
		s.Models = []catalog.ModelConfig{}
	}
	if len(s.LanguageOptions) == 0 {
		s.LanguageOptions = DefaultLanguageOptions()
	}
	if s.History == nil {
		s.History = history.Log{}
	}
	if s.MaxHistorySize <= 0 {
		s.MaxHistorySize = DefaultMaxHistorySize
	}
	if len(s.History) > s.MaxHistorySize {
		s.History = s.History[:s.MaxHistorySize]
	}
}

// EnabledModels 启用的模型
func (s *Settings) EnabledModels() []catalog.ModelConfig {
	return catalog.Enabled(s.Models)
}

// Model 按 id 查找模型
func (s *Settings) Model(id string) (catalog.ModelConfig, bool) {
	idx, ok := catalog.Find(s.Models, id)
	if !ok {
		return catalog.ModelConfig{}, false
	}
	return s.Models[idx], true
}

// AddModel 追加模型，id 不可重复
func (s *Settings) AddModel(m catalog.ModelConfig) error {
	if _, exists := catalog.Find(s.Models, m.ID); exists {
		return fmt.Errorf("model %q already exists", m.ID)
	}
	s.Models = append(s.Models, m)
	return nil
}

// UpdateModel 用 m 替换同 id 的模型
func (s *Settings) UpdateModel(m catalog.ModelConfig) error {
	idx, ok := catalog.Find(s.Models, m.ID)
	if !ok {
		return fmt.Errorf("model %q not found", m.ID)
	}
	s.Models[idx] = m
	return nil
}

// SetModelEnabled 启用或禁用模型
func (s *Settings) SetModelEnabled(id string, enabled bool) error {
	idx, ok := catalog.Find(s.Models, id)
	if !ok {
		return fmt.Errorf("model %q not found", id)
	}
	s.Models[idx].Enabled = enabled
	return nil
}

// RemoveModel 删除模型；删掉的是默认模型时改用第一个启用的模型
func (s *Settings) RemoveModel(id string) bool {
	idx, ok := catalog.Find(s.Models, id)
	if !ok {
		return false
	}
	s.Models = append(s.Models[:idx], s.Models[idx+1:]...)

	if s.DefaultModel == id {
		s.DefaultModel = ""
		if first, ok := catalog.FirstEnabled(s.Models); ok {
			s.DefaultModel = first.ID
		}
	}
	return true
}

// RefreshBuiltins 补回缺失的内置模型
func (s *Settings) RefreshBuiltins() int {
	var added int
	s.Models, added = catalog.MergeBuiltins(s.Models)
	return added
}

// SetLanguageOptions 解析逗号分隔的语言列表，结果为空时拒绝修改
func (s *Settings) SetLanguageOptions(raw string) error {
	var langs []string
	for _, l := range strings.Split(raw, ",") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	if len(langs) == 0 {
		return fmt.Errorf("at least one language option is required")
	}
	s.LanguageOptions = langs
	return nil
}

// SwapLanguages 交换源语言和目标语言。源语言为自动检测时，
// 旧目标语言成为源语言，目标语言取第一个不同的选项
func (s *Settings) SwapLanguages(source, target string) (string, string) {
	if source != AutoDetect && source != "" {
		return target, source
	}

	next := ""
	for _, l := range s.LanguageOptions {
		if l != target {
			next = l
			break
		}
	}
	if next == "" && len(s.LanguageOptions) > 0 {
		next = s.LanguageOptions[0]
	}
	return target, next
}
