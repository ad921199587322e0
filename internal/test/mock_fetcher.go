package test

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/nerdneilsfield/go-selection-translator/pkg/providers"
)

// RecordingFetcher 不访问网络的 Fetcher，记录每次请求并返回预设响应
type RecordingFetcher struct {
	mu       sync.Mutex
	requests []*providers.Request

	// Respond 为 nil 时返回 200 和 Body
	Respond func(ctx context.Context, req *providers.Request) (*providers.Response, error)
	Body    string
}

// NewRecordingFetcher 创建 Fetcher，默认返回 body
func NewRecordingFetcher(body string) *RecordingFetcher {
	return &RecordingFetcher{Body: body}
}

// Post 实现 providers.Fetcher
func (f *RecordingFetcher) Post(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	respond := f.Respond
	f.mu.Unlock()

	if respond != nil {
		return respond(ctx, req)
	}
	return &providers.Response{StatusCode: 200, Body: []byte(f.Body)}, nil
}

// Calls 请求次数
func (f *RecordingFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// Requests 已记录的请求
func (f *RecordingFetcher) Requests() []*providers.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*providers.Request(nil), f.requests...)
}

// OpenAIReply 生成 OpenAI 风格的成功响应体
func OpenAIReply(text string) string {
	return `{"choices":[{"index":0,"message":{"role":"assistant","content":` + quote(text) + `},"finish_reason":"stop"}]}`
}

// AnthropicReply 生成 Anthropic 风格的成功响应体
func AnthropicReply(text string) string {
	return `{"content":[{"type":"text","text":` + quote(text) + `}]}`
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
