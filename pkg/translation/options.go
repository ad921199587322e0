package translation

import (
	"time"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-selection-translator/pkg/history"
	"github.com/nerdneilsfield/go-selection-translator/pkg/providers"
	"github.com/nerdneilsfield/go-selection-translator/pkg/providers/stats"
)

// Option 服务配置选项函数
type Option func(*serviceOptions)

// serviceOptions 服务内部选项
type serviceOptions struct {
	fetcher        providers.Fetcher
	adapters       map[providers.APIFormat]providers.Adapter
	registry       *providers.Registry
	stats          *stats.Manager
	now            func() time.Time
	afterTranslate func(history.Record)
	logger         *zap.Logger
}

// WithFetcher 设置网络传输，两种协议的默认适配器都基于它
func WithFetcher(fetcher providers.Fetcher) Option {
	return func(o *serviceOptions) {
		o.fetcher = fetcher
	}
}

// WithAdapter 为某个请求格式替换适配器
func WithAdapter(format providers.APIFormat, adapter providers.Adapter) Option {
	return func(o *serviceOptions) {
		if o.adapters == nil {
			o.adapters = make(map[providers.APIFormat]providers.Adapter)
		}
		o.adapters[format] = adapter
	}
}

// WithRegistry 设置提供商注册表
func WithRegistry(registry *providers.Registry) Option {
	return func(o *serviceOptions) {
		o.registry = registry
	}
}

// WithStats 设置统计管理器
func WithStats(manager *stats.Manager) Option {
	return func(o *serviceOptions) {
		o.stats = manager
	}
}

// WithClock 设置时钟
func WithClock(now func() time.Time) Option {
	return func(o *serviceOptions) {
		o.now = now
	}
}

// WithAfterTranslate 设置翻译成功并写入历史后的回调
func WithAfterTranslate(hook func(history.Record)) Option {
	return func(o *serviceOptions) {
		o.afterTranslate = hook
	}
}

// WithLogger 设置日志器
func WithLogger(logger *zap.Logger) Option {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}
