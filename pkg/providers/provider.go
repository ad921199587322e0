package providers

import (
	"context"
	"fmt"

	"github.com/nerdneilsfield/go-selection-translator/pkg/catalog"
)

// APIFormat 请求格式族
type APIFormat string

const (
	// FormatOpenAI OpenAI 风格 chat/completions
	FormatOpenAI APIFormat = "openai"
	// FormatAnthropic Anthropic 风格 messages
	FormatAnthropic APIFormat = "anthropic"
)

// Definition 提供商定义（只读）
type Definition struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	DefaultBaseURL string    `json:"default_base_url"`
	Format         APIFormat `json:"api_format"`
	APIKeyURL      string    `json:"api_key_url,omitempty"`
}

// Request 一次 HTTP POST 请求
type Request struct {
	URL     string
	Headers map[string]string
	Body    []byte
}

// Response HTTP 响应。非 2xx 状态码同样以 Response 返回，不会变成 error
type Response struct {
	StatusCode int
	Body       []byte
}

// Fetcher 注入的网络传输能力
type Fetcher interface {
	Post(ctx context.Context, req *Request) (*Response, error)
}

// FetcherFunc 函数适配器
type FetcherFunc func(ctx context.Context, req *Request) (*Response, error)

// Post 实现 Fetcher
func (f FetcherFunc) Post(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// TranslateParams 适配器调用参数，已经完成模型/密钥/地址解析
type TranslateParams struct {
	Text           string
	Model          catalog.ModelConfig
	APIKey         string
	BaseURL        string
	TargetLanguage string
}

// APIError 远端提供商返回的非 200 响应
type APIError struct {
	StatusCode int    `json:"status"`
	Body       string `json:"body"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
}

// Adapter 协议适配器：把一次翻译变成一次网络往返并取回译文
type Adapter interface {
	Translate(ctx context.Context, params TranslateParams) (string, error)
}
