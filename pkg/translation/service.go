// Package translation 翻译引擎：解析模型、分派协议适配器、维护历史
package translation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-selection-translator/pkg/catalog"
	"github.com/nerdneilsfield/go-selection-translator/pkg/history"
	"github.com/nerdneilsfield/go-selection-translator/pkg/providers"
	"github.com/nerdneilsfield/go-selection-translator/pkg/providers/anthropic"
	"github.com/nerdneilsfield/go-selection-translator/pkg/providers/openai"
	"github.com/nerdneilsfield/go-selection-translator/pkg/providers/transport"
	"github.com/nerdneilsfield/go-selection-translator/pkg/settings"
)

// Translator 翻译服务实现
type Translator struct {
	settings *settings.Settings
	options  serviceOptions
	mu       sync.RWMutex
}

var _ Service = (*Translator)(nil)

// New 创建翻译服务。s 会被复制，之后通过 UpdateSettings 替换
func New(s *settings.Settings, opts ...Option) (*Translator, error) {
	if s == nil {
		return nil, NewTranslationError(ErrCodeValidation, "settings is nil", ErrInvalidConfig)
	}

	options := serviceOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	if options.logger == nil {
		options.logger = zap.NewNop()
	}
	if options.registry == nil {
		options.registry = providers.DefaultRegistry
	}
	if options.now == nil {
		options.now = time.Now
	}
	if options.fetcher == nil {
		options.fetcher = transport.NewResty(transport.DefaultTimeout)
	}

	adapters := map[providers.APIFormat]providers.Adapter{
		providers.FormatOpenAI:    openai.New(options.fetcher),
		providers.FormatAnthropic: anthropic.New(options.fetcher),
	}
	for format, adapter := range options.adapters {
		adapters[format] = adapter
	}
	options.adapters = adapters

	return &Translator{
		settings: s.Clone(),
		options:  options,
	}, nil
}

// target 解析完成的一次调用
type target struct {
	model    catalog.ModelConfig
	provider providers.Definition
	adapter  providers.Adapter
	params   providers.TranslateParams
}

// resolve 按 模型 → 启用 → 提供商 → 密钥 → 地址 的顺序解析，任何一步失败都不会发出请求
func (t *Translator) resolve(model catalog.ModelConfig, requireEnabled bool) (*target, error) {
	if requireEnabled && !model.Enabled {
		return nil, modelDisabled(model.Label())
	}

	def, ok := t.options.registry.Get(model.Provider)
	if !ok {
		return nil, providerNotFound(model.Provider)
	}

	if model.CustomAPIKey == "" {
		return nil, missingAPIKey(model.Label())
	}

	baseURL := model.CustomBaseURL
	if baseURL == "" {
		baseURL = def.DefaultBaseURL
	}

	adapter, ok := t.options.adapters[def.Format]
	if !ok {
		return nil, NewTranslationError(ErrCodeValidation,
			fmt.Sprintf("unsupported API format %q for provider %q", def.Format, def.ID), ErrInvalidConfig)
	}

	return &target{
		model:    model,
		provider: def,
		adapter:  adapter,
		params: providers.TranslateParams{
			Model:   model,
			APIKey:  model.CustomAPIKey,
			BaseURL: strings.TrimRight(baseURL, "/"),
		},
	}, nil
}

// Translate 执行翻译
func (t *Translator) Translate(ctx context.Context, req *Request) (string, error) {
	if req == nil || req.Text == "" {
		return "", NewTranslationError(ErrCodeValidation, ErrEmptyText.Error(), ErrEmptyText)
	}

	t.mu.RLock()
	id := req.ModelID
	if id == "" {
		id = t.settings.DefaultModel
	}
	model, found := t.settings.Model(id)
	lang := req.TargetLanguage
	if lang == "" {
		lang = t.settings.TargetLanguage
	}
	t.mu.RUnlock()

	if !found {
		return "", modelNotFound(id)
	}
	tgt, err := t.resolve(model, true)
	if err != nil {
		return "", err
	}
	tgt.params.Text = req.Text
	tgt.params.TargetLanguage = lang

	logger := t.options.logger.With(
		zap.String("model", model.ID),
		zap.String("provider", tgt.provider.ID))
	logger.Info("translating",
		zap.String("source", req.SourceLanguage),
		zap.String("target", lang),
		zap.Int("chars", len([]rune(req.Text))))

	tracker := t.options.stats.Start(tgt.provider.ID, model.Name, req.Text, t.options.now)
	translated, err := tgt.adapter.Translate(ctx, tgt.params)
	if err == nil {
		translated = strings.TrimSpace(translated)
		if translated == "" {
			err = ErrEmptyTranslation
		}
	}

	if req.Guard != nil && !req.Guard.Current() {
		logger.Debug("discarding result of stale request", zap.Bool("failed", err != nil))
		return "", stale()
	}
	tracker.Done(translated, err)

	if err != nil {
		logger.Error("translation failed", zap.Error(err))
		return "", requestFailed(model.Label(), err)
	}

	rec := history.NewRecord(req.Text, translated, model.Label(), tgt.provider.Name, t.options.now())
	t.mu.Lock()
	t.settings.History = t.settings.History.Append(rec, t.settings.MaxHistorySize)
	t.mu.Unlock()

	if t.options.afterTranslate != nil {
		t.options.afterTranslate(rec)
	}
	return translated, nil
}

// TestConnection 用固定探测文本请求一次。模型不必已保存或已启用
func (t *Translator) TestConnection(ctx context.Context, model catalog.ModelConfig) error {
	tgt, err := t.resolve(model, false)
	if err != nil {
		return err
	}
	tgt.params.Text = ProbeText
	tgt.params.TargetLanguage = ProbeLanguage

	if _, err := tgt.adapter.Translate(ctx, tgt.params); err != nil {
		t.options.logger.Warn("connection test failed",
			zap.String("model", model.ID),
			zap.String("provider", tgt.provider.ID),
			zap.Error(err))
		return err
	}
	return nil
}

// EnabledModels 启用的模型
func (t *Translator) EnabledModels() []catalog.ModelConfig {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.settings.EnabledModels()
}

// History 历史记录副本
func (t *Translator) History() []history.Record {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.settings.History.List()
}

// ClearHistory 清空历史
func (t *Translator) ClearHistory() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.settings.History = history.Log{}
}

// UpdateSettings 替换设置，nil 被忽略
func (t *Translator) UpdateSettings(s *settings.Settings) {
	if s == nil {
		return
	}
	c := s.Clone()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.settings = c
}

// Modify 在锁内修改工作中的设置，失败时不做任何改动，成功时返回修改后的副本。
// 与 Settings + UpdateSettings 不同，期间写入的历史不会被覆盖
func (t *Translator) Modify(mutate func(s *settings.Settings) error) (*settings.Settings, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c := t.settings.Clone()
	if err := mutate(c); err != nil {
		return nil, err
	}
	t.settings = c
	return c.Clone(), nil
}

// Settings 当前设置的副本
func (t *Translator) Settings() *settings.Settings {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.settings.Clone()
}
