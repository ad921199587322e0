// Package anthropic Anthropic 风格 messages 协议适配器
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nerdneilsfield/go-selection-translator/pkg/providers"
)

const (
	// APIVersion anthropic-version 请求头
	APIVersion = "2023-06-01"
	// MaxTokens 固定的输出上限
	MaxTokens = 4096
	// ContentPath 响应中译文所在的 gjson 路径
	ContentPath = "content.0.text"
)

// Message 消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MessagesRequest /messages 请求体
type MessagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []Message `json:"messages"`
}

// UserContent 唯一一条 user 消息的内容
func UserContent(params providers.TranslateParams) string {
	if prompt := strings.TrimSpace(params.Model.CustomPrompt); prompt != "" {
		return prompt + "\n\n" + params.Text
	}
	return fmt.Sprintf("Translate the following text to %s. Only return the translation, nothing else:\n\n%s",
		params.TargetLanguage, params.Text)
}

// BuildRequest 构造 HTTP 请求
func BuildRequest(params providers.TranslateParams) (*providers.Request, error) {
	body, err := json.Marshal(MessagesRequest{
		Model:     params.Model.Name,
		MaxTokens: MaxTokens,
		Messages:  []Message{{Role: "user", Content: UserContent(params)}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	return &providers.Request{
		URL: params.BaseURL + "/messages",
		Headers: map[string]string{
			"Content-Type":      "application/json",
			"x-api-key":         params.APIKey,
			"anthropic-version": APIVersion,
		},
		Body: body,
	}, nil
}

// Adapter 基于注入 Fetcher 的适配器
type Adapter struct {
	fetcher providers.Fetcher
}

var _ providers.Adapter = (*Adapter)(nil)

// New 创建适配器
func New(fetcher providers.Fetcher) *Adapter {
	return &Adapter{fetcher: fetcher}
}

// Translate 执行翻译
func (a *Adapter) Translate(ctx context.Context, params providers.TranslateParams) (string, error) {
	req, err := BuildRequest(params)
	if err != nil {
		return "", err
	}

	resp, err := a.fetcher.Post(ctx, req)
	if err != nil {
		return "", err
	}
	if err := providers.CheckStatus(resp); err != nil {
		return "", err
	}
	return providers.ExtractText(resp.Body, ContentPath)
}
