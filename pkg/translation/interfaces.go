package translation

import (
	"context"

	"github.com/nerdneilsfield/go-selection-translator/pkg/catalog"
	"github.com/nerdneilsfield/go-selection-translator/pkg/history"
	"github.com/nerdneilsfield/go-selection-translator/pkg/settings"
)

// Service UI 层使用的翻译服务接口
type Service interface {
	// Translate 翻译一段文本并写入历史
	Translate(ctx context.Context, req *Request) (string, error)

	// TestConnection 用固定探测文本验证模型配置，不写历史
	TestConnection(ctx context.Context, model catalog.ModelConfig) error

	// EnabledModels 启用的模型，保持目录顺序
	EnabledModels() []catalog.ModelConfig

	// History 历史记录，最新的在前
	History() []history.Record

	// ClearHistory 清空历史
	ClearHistory()

	// UpdateSettings 整体替换工作中的设置
	UpdateSettings(s *settings.Settings)

	// Modify 原子地修改工作中的设置
	Modify(mutate func(s *settings.Settings) error) (*settings.Settings, error)

	// Settings 当前设置的副本
	Settings() *settings.Settings
}

// Guard 请求发起时的 UI 上下文。完成时不再是当前上下文的结果会被丢弃
type Guard interface {
	Current() bool
}
