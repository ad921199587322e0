package settings

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nerdneilsfield/go-selection-translator/pkg/catalog"
)

// 迁移路径名称
const (
	PathLegacyKeys  = "legacy-keys"
	PathProviderMap = "provider-map"
	PathCurrent     = "current"
	PathColdStart   = "cold-start"
	PathFallback    = "fallback"
)

// legacyKeyFields 旧版每个提供商一个 API key 字段
var legacyKeyFields = []struct {
	Field    string
	Provider string
}{
	{"openaiApiKey", "openai"},
	{"anthropicApiKey", "anthropic"},
	{"kimiApiKey", "kimi"},
	{"qwenApiKey", "qwen"},
	{"deepseekApiKey", "deepseek"},
	{"minimaxApiKey", "minimax"},
	{"zlmApiKey", "zlm"},
}

// Migration 识别器 + 转换器。
// Apply 返回非 nil 的设置和错误表示部分字段无法解析，已保留默认值
type Migration struct {
	Name  string
	Match func(raw map[string]any) bool
	Apply func(raw map[string]any) (*Settings, error)
}

// Migrations 按顺序尝试，第一个匹配的生效
func Migrations() []Migration {
	return []Migration{
		{Name: PathLegacyKeys, Match: isLegacyKeys, Apply: migrateLegacyKeys},
		{Name: PathProviderMap, Match: isProviderMap, Apply: migrateProviderMap},
		{Name: PathCurrent, Match: isCurrent, Apply: mergeCurrent},
	}
}

// Result 迁移结果
type Result struct {
	Settings *Settings
	Path     string
	// Persist 结果需要立即写回
	Persist bool
	// Err 有字段被丢弃或转换失败的原因。此时不写回，原始内容保留在存储中
	Err error
}

// Migrate 把任意形状的 blob 转成当前结构，永远不会失败
func Migrate(raw map[string]any) Result {
	if raw == nil {
		return Result{Settings: Default(), Path: PathColdStart, Persist: true}
	}

	for _, m := range Migrations() {
		if !m.Match(raw) {
			continue
		}
		s, err := m.Apply(raw)
		if s == nil {
			return Result{
				Settings: Default(),
				Path:     PathFallback,
				Err:      fmt.Errorf("%s migration: %w", m.Name, err),
			}
		}
		s.normalize()
		if err != nil {
			return Result{Settings: s, Path: m.Name, Err: fmt.Errorf("%s migration: %w", m.Name, err)}
		}
		return Result{Settings: s, Path: m.Name, Persist: m.Name != PathCurrent}
	}

	return Result{Settings: Default(), Path: PathFallback, Persist: true}
}

// MigrateJSON 解析字节后迁移。空输入走冷启动；无法解析的内容返回默认值但不写回
func MigrateJSON(data []byte) Result {
	if len(data) == 0 {
		return Migrate(nil)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Result{
			Settings: Default(),
			Path:     PathFallback,
			Err:      fmt.Errorf("decode settings: %w", err),
		}
	}
	if raw == nil {
		// 字面量 null
		return Migrate(nil)
	}
	return Migrate(raw)
}

func isLegacyKeys(raw map[string]any) bool {
	for _, f := range legacyKeyFields {
		if _, ok := raw[f.Field]; ok {
			return true
		}
	}
	return false
}

func isProviderMap(raw map[string]any) bool {
	_, ok := raw["providers"]
	return ok
}

func isCurrent(raw map[string]any) bool {
	_, ok := raw["models"]
	return ok
}

func migrateLegacyKeys(raw map[string]any) (*Settings, error) {
	s := Default()

	for _, f := range legacyKeyFields {
		if key := stringField(raw, f.Field); key != "" {
			catalog.FillAPIKey(s.Models, f.Provider, key)
		}
	}

	if lang := stringField(raw, "targetLanguage"); lang != "" {
		s.TargetLanguage = lang
	}
	if provider := stringField(raw, "defaultProvider"); provider != "" {
		if m, ok := catalog.FirstEnabledForProvider(s.Models, provider); ok {
			s.DefaultModel = m.ID
		}
	}
	return s, nil
}

type providerEntry struct {
	APIKey  string `json:"apiKey"`
	BaseURL string `json:"baseUrl"`
}

func migrateProviderMap(raw map[string]any) (*Settings, error) {
	s := Default()
	d := &fieldDecoder{raw: raw}

	decodeList(d, "models", &s.Models)
	if entries, ok := raw["providers"].(map[string]any); ok {
		// map 无序，但每个提供商只写自己的模型，顺序不影响结果
		for providerID, v := range entries {
			var entry providerEntry
			if err := decode(v, &entry); err != nil {
				d.fail(fmt.Errorf("providers.%s: %w", providerID, err))
				continue
			}
			catalog.FillAPIKey(s.Models, providerID, entry.APIKey)
		}
	}
	decodeField(d, "defaultModel", &s.DefaultModel)
	decodeField(d, "targetLanguage", &s.TargetLanguage)
	decodeList(d, "history", &s.History)
	return s, d.err()
}

// mergeCurrent 当前结构，缺失或为 null 的字段取默认值
func mergeCurrent(raw map[string]any) (*Settings, error) {
	s := Default()
	d := &fieldDecoder{raw: raw}

	decodeList(d, "models", &s.Models)
	decodeField(d, "defaultModel", &s.DefaultModel)
	decodeField(d, "targetLanguage", &s.TargetLanguage)
	decodeField(d, "languageOptions", &s.LanguageOptions)
	decodeList(d, "history", &s.History)
	decodeField(d, "maxHistorySize", &s.MaxHistorySize)
	return s, d.err()
}

// fieldDecoder 逐字段解码，类型不对的字段保留默认值并记下原因
type fieldDecoder struct {
	raw  map[string]any
	errs []error
}

func (d *fieldDecoder) fail(err error) {
	d.errs = append(d.errs, err)
}

func (d *fieldDecoder) err() error {
	return errors.Join(d.errs...)
}

func decodeField[T any](d *fieldDecoder, key string, dst *T) {
	v, ok := d.raw[key]
	if !ok || v == nil {
		return
	}
	var out T
	if err := decode(v, &out); err != nil {
		d.fail(fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = out
}

// decodeList 逐个元素解码，只丢弃坏掉的元素
func decodeList[S ~[]E, E any](d *fieldDecoder, key string, dst *S) {
	v, ok := d.raw[key]
	if !ok || v == nil {
		return
	}
	items, ok := v.([]any)
	if !ok {
		d.fail(fmt.Errorf("%s: expected a list, got %T", key, v))
		return
	}
	out := make(S, 0, len(items))
	for i, item := range items {
		var e E
		if err := decode(item, &e); err != nil {
			d.fail(fmt.Errorf("%s[%d]: %w", key, i, err))
			continue
		}
		out = append(out, e)
	}
	*dst = out
}

func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

// decode 通过 JSON 往返把松散值转成具体类型
func decode(in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
