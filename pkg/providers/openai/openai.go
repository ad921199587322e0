// Package openai OpenAI 风格 chat/completions 协议适配器
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nerdneilsfield/go-selection-translator/pkg/providers"
)

// Temperature 固定的采样温度
const Temperature = 0.3

// ContentPath 响应中译文所在的 gjson 路径
const ContentPath = "choices.0.message.content"

// DefaultPrompt 默认系统提示词
func DefaultPrompt(targetLanguage string) string {
	return fmt.Sprintf("You are a professional translator. Translate the following text to %s. Only return the translation, nothing else.", targetLanguage)
}

// Message 聊天消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest 聊天请求
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

// BuildMessages 按模型配置组装消息。noSystemRole 的模型只收一条 user 消息
func BuildMessages(params providers.TranslateParams) []Message {
	prompt := strings.TrimSpace(params.Model.CustomPrompt)
	if prompt == "" {
		prompt = DefaultPrompt(params.TargetLanguage)
	}

	if params.Model.NoSystemRole {
		return []Message{{Role: "user", Content: prompt + "\n\n" + params.Text}}
	}
	return []Message{
		{Role: "system", Content: prompt},
		{Role: "user", Content: params.Text},
	}
}

// BuildRequest 构造 HTTP 请求
func BuildRequest(params providers.TranslateParams) (*providers.Request, error) {
	body, err := json.Marshal(ChatRequest{
		Model:       params.Model.Name,
		Messages:    BuildMessages(params),
		Temperature: Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	return &providers.Request{
		URL: params.BaseURL + "/chat/completions",
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer " + params.APIKey,
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
