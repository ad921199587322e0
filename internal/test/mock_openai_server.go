package test

import (
	"testing"
	"time"
)

// MockOpenAIServer 模拟 OpenAI 风格 /chat/completions 接口
type MockOpenAIServer struct {
	*mockServer
}

// NewMockOpenAIServer 创建模拟服务器，测试结束时自动关闭
func NewMockOpenAIServer(t *testing.T) *MockOpenAIServer {
	return &MockOpenAIServer{newMockServer(t, "/chat/completions", func(model, text string) any {
		return map[string]any{
			"id":      "chatcmpl-mock",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   model,
			"choices": []map[string]any{
				{
					"index": 0,
					"message": map[string]any{
						"role":    "assistant",
						"content": text,
					},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]any{
				"prompt_tokens":     100,
				"completion_tokens": 50,
				"total_tokens":      150,
			},
		}
	})}
}
