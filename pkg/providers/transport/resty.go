// Package transport 提供基于 resty 的 Fetcher 实现
package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/nerdneilsfield/go-selection-translator/pkg/providers"
)

// DefaultTimeout 默认请求超时
const DefaultTimeout = 120 * time.Second

// Resty 使用 resty 客户端发送请求。任何状态码都作为 Response 返回
type Resty struct {
	client *resty.Client
}

var _ providers.Fetcher = (*Resty)(nil)

// NewResty 创建 Fetcher，timeout <= 0 时使用 DefaultTimeout
func NewResty(timeout time.Duration) *Resty {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return NewRestyWithClient(resty.New().SetTimeout(timeout))
}

// NewRestyWithClient 使用已有的 resty 客户端
func NewRestyWithClient(client *resty.Client) *Resty {
	return &Resty{client: client}
}

// Post 实现 providers.Fetcher
func (r *Resty) Post(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeaders(req.Headers).
		SetBody(req.Body).
		Post(req.URL)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", req.URL, err)
	}

	return &providers.Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}
