// Package catalog 模型目录：内置模型和用户添加的模型
package catalog

import (
	"fmt"
	"strings"
)

// ModelConfig 模型配置
type ModelConfig struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	DisplayName   string `json:"displayName"`
	Provider      string `json:"provider"`
	Enabled       bool   `json:"enabled"`
	IsBuiltin     bool   `json:"isBuiltin"`
	CustomBaseURL string `json:"customBaseUrl,omitempty"`
	CustomAPIKey  string `json:"customApiKey,omitempty"`
	CustomPrompt  string `json:"customPrompt,omitempty"`
	NoSystemRole  bool   `json:"noSystemRole,omitempty"`
}

// Label 显示名称，为空时回退到模型名
func (m ModelConfig) Label() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.Name
}

// ModelID 按 "<provider>:<name>" 约定生成 id
func ModelID(provider, name string) string {
	return provider + ":" + name
}

// Enabled 返回所有启用的模型，保持原有顺序
func Enabled(models []ModelConfig) []ModelConfig {
	enabled := make([]ModelConfig, 0, len(models))
	for _, m := range models {
		if m.Enabled {
			enabled = append(enabled, m)
		}
	}
	return enabled
}

// Find 按 id 查找模型，返回索引
func Find(models []ModelConfig, id string) (int, bool) {
	for i := range models {
		if models[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// FirstEnabled 第一个启用的模型
func FirstEnabled(models []ModelConfig) (ModelConfig, bool) {
	for _, m := range models {
		if m.Enabled {
			return m, true
		}
	}
	return ModelConfig{}, false
}

// FirstEnabledForProvider 指定提供商下第一个启用的模型
func FirstEnabledForProvider(models []ModelConfig, provider string) (ModelConfig, bool) {
	for _, m := range models {
		if m.Provider == provider && m.Enabled {
			return m, true
		}
	}
	return ModelConfig{}, false
}

// FillAPIKey 为指定提供商下尚未设置密钥的模型填入密钥
func FillAPIKey(models []ModelConfig, provider, apiKey string) int {
	if apiKey == "" {
		return 0
	}
	filled := 0
	for i := range models {
		if models[i].Provider == provider && models[i].CustomAPIKey == "" {
			models[i].CustomAPIKey = apiKey
			filled++
		}
	}
	return filled
}

// Validate 校验模型列表：id 唯一、名称非空、提供商可解析
func Validate(models []ModelConfig, knownProvider func(string) bool) error {
	seen := make(map[string]struct{}, len(models))
	for i, m := range models {
		if strings.TrimSpace(m.ID) == "" {
			return fmt.Errorf("model %d: id must be specified", i)
		}
		if _, dup := seen[m.ID]; dup {
			return fmt.Errorf("model %q: duplicate id", m.ID)
		}
		seen[m.ID] = struct{}{}
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("model %q: name must be specified", m.ID)
		}
		if knownProvider != nil && !knownProvider(m.Provider) {
			return fmt.Errorf("model %q: unknown provider %q", m.ID, m.Provider)
		}
	}
	return nil
}
