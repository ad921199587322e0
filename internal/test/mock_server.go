package test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// RecordedRequest 服务器收到的一次请求
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// JSON 把请求体解码到 map
func (r RecordedRequest) JSON() map[string]any {
	var out map[string]any
	_ = json.Unmarshal(r.Body, &out)
	return out
}

// mockServer 两种协议共用的模拟服务器骨架
type mockServer struct {
	Server *httptest.Server
	URL    string

	mu         sync.Mutex
	requests   []RecordedRequest
	reply      string
	errStatus  int
	errBody    string
	delay      time.Duration
	renderBody func(model, text string) any
}

func newMockServer(t *testing.T, path string, render func(model, text string) any) *mockServer {
	mock := &mockServer{
		reply:      "这是翻译后的文本",
		renderBody: render,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		mock.mu.Lock()
		mock.requests = append(mock.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   body,
		})
		reply, errStatus, errBody, delay := mock.reply, mock.errStatus, mock.errBody, mock.delay
		mock.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		if r.URL.Path != path {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error": {"message": "unknown path"}}`))
			return
		}

		if errStatus != 0 {
			w.WriteHeader(errStatus)
			_, _ = w.Write([]byte(errBody))
			return
		}

		var req struct {
			Model string `json:"model"`
		}
		_ = json.Unmarshal(body, &req)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(mock.renderBody(req.Model, reply))
	}))

	mock.Server = server
	mock.URL = server.URL

	t.Cleanup(server.Close)
	return mock
}

// SetReply 设置成功响应中的译文
func (m *mockServer) SetReply(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reply = text
}

// SetError 之后的请求都以 status 和原始 body 响应，status 为 0 时恢复正常
func (m *mockServer) SetError(status int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errStatus = status
	m.errBody = body
}

// SetDelay 设置响应延迟
func (m *mockServer) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Requests 已收到的请求
func (m *mockServer) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RecordedRequest(nil), m.requests...)
}

// LastRequest 最后一次请求
func (m *mockServer) LastRequest() (RecordedRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return RecordedRequest{}, false
	}
	return m.requests[len(m.requests)-1], true
}
