package stats

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nerdneilsfield/go-selection-translator/pkg/providers"
)

// Tracker 一次请求的计时器。调用方决定是否提交
type Tracker struct {
	manager  *Manager
	provider string
	model    string
	text     string
	start    time.Time
	now      func() time.Time
}

// Start 开始计时。m 为 nil 时返回的 Tracker 不做任何事
func (m *Manager) Start(provider, model, text string, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		manager:  m,
		provider: provider,
		model:    model,
		text:     text,
		start:    now(),
		now:      now,
	}
}

// Done 提交结果
func (t *Tracker) Done(translated string, err error) {
	if t == nil || t.manager == nil {
		return
	}

	end := t.now()
	result := RequestResult{
		Success: err == nil,
		Latency: end.Sub(t.start),
		At:      end,
	}
	if err != nil {
		result.ErrorType = ClassifyError(err)
	} else {
		result.CharsIn = utf8.RuneCountInString(t.text)
		result.CharsOut = utf8.RuneCountInString(translated)
		result.Untranslated = looksUntranslated(t.text, translated)
	}
	t.manager.RecordRequest(t.provider, t.model, result)
}

// ClassifyError 错误分类
func ClassifyError(err error) string {
	var apiErr *providers.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
			return "auth_error"
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return "rate_limit"
		case apiErr.StatusCode == http.StatusNotFound:
			return "not_found"
		case apiErr.StatusCode >= 500:
			return "server_error"
		default:
			return "bad_request"
		}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "context_canceled"
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "timeout"):
		return "timeout"
	case strings.Contains(errStr, "connection") || strings.Contains(errStr, "network") || strings.Contains(errStr, "dial"):
		return "network_error"
	case strings.Contains(errStr, "response"):
		return "invalid_response"
	default:
		return "unknown_error"
	}
}

// looksUntranslated 译文与原文几乎一致
func looksUntranslated(original, translated string) bool {
	a := strings.ToLower(strings.TrimSpace(original))
	b := strings.ToLower(strings.TrimSpace(translated))
	if len(a) < 10 || len(b) < 10 {
		return false
	}
	return calculateSimilarity(a, b) > 0.95
}

// calculateSimilarity 按位置比较的公共字符比例
func calculateSimilarity(s1, s2 string) float64 {
	r1, r2 := []rune(s1), []rune(s2)
	if len(r1) == 0 && len(r2) == 0 {
		return 1.0
	}
	if len(r1) == 0 || len(r2) == 0 {
		return 0.0
	}

	common := 0
	for i := 0; i < len(r1) && i < len(r2); i++ {
		if r1[i] == r2[i] {
			common++
		}
	}
	return float64(common) / float64(max(len(r1), len(r2)))
}
