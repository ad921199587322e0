package test

import "testing"

// MockAnthropicServer 模拟 Anthropic 风格 /messages 接口
type MockAnthropicServer struct {
	*mockServer
}

// NewMockAnthropicServer 创建模拟服务器，测试结束时自动关闭
func NewMockAnthropicServer(t *testing.T) *MockAnthropicServer {
	return &MockAnthropicServer{newMockServer(t, "/messages", func(model, text string) any {
		return map[string]any{
			"id":    "msg_mock",
			"type":  "message",
			"role":  "assistant",
			"model": model,
			"content": []map[string]any{
				{"type": "text", "text": text},
			},
			"stop_reason": "end_turn",
			"usage": map[string]any{
				"input_tokens":  20,
				"output_tokens": 10,
			},
		}
	})}
}
