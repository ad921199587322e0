package providers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// CheckStatus 非 200 时返回 *APIError
func CheckStatus(resp *Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Body:       ErrorBody(resp.Body),
	}
}

// ErrorBody JSON 响应重新紧凑序列化，否则原样返回文本
func ErrorBody(body []byte) string {
	if len(body) > 0 && gjson.ValidBytes(body) {
		return string(pretty.Ugly(body))
	}
	return string(body)
}

// ExtractText 按 gjson 路径读取文本并去除首尾空白
func ExtractText(body []byte, path string) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("invalid JSON response: %s", truncate(string(body), 200))
	}
	result := gjson.GetBytes(body, path)
	if !result.Exists() || result.Type != gjson.String {
		return "", fmt.Errorf("could not read %s from response: %s", path, truncate(string(body), 200))
	}
	return strings.TrimSpace(result.String()), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
