package translation

import (
	"errors"
	"fmt"
)

// 预定义错误
var (
	// ErrEmptyText 空文本错误
	ErrEmptyText = errors.New("empty text provided")

	// ErrInvalidConfig 无效配置
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrModelNotFound 模型不存在
	ErrModelNotFound = errors.New("model not found")

	// ErrModelDisabled 模型已禁用
	ErrModelDisabled = errors.New("model disabled")

	// ErrProviderNotFound 提供商不存在
	ErrProviderNotFound = errors.New("provider not found")

	// ErrMissingAPIKey 未配置 API key
	ErrMissingAPIKey = errors.New("API key not configured")

	// ErrStale 请求完成时发起它的上下文已经失效
	ErrStale = errors.New("request is no longer current")

	// ErrEmptyTranslation 提供商返回了空译文
	ErrEmptyTranslation = errors.New("empty translation returned")
)

// 错误代码常量
const (
	ErrCodeModelNotFound    = "MODEL_NOT_FOUND"
	ErrCodeModelDisabled    = "MODEL_DISABLED"
	ErrCodeProviderNotFound = "PROVIDER_NOT_FOUND"
	ErrCodeMissingAPIKey    = "MISSING_API_KEY"
	ErrCodeRequest          = "REQUEST_ERROR"
	ErrCodeStale            = "STALE_REQUEST"
	ErrCodeValidation       = "VALIDATION_ERROR"
)

// TranslationError 翻译错误
type TranslationError struct {
	Code    string // 错误代码
	Message string // 面向用户的消息
	Cause   error  // 原因
}

// Error 实现error接口
func (e *TranslationError) Error() string {
	return e.Message
}

// Unwrap 返回原因错误
func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// NewTranslationError 创建翻译错误
func NewTranslationError(code, message string, cause error) *TranslationError {
	return &TranslationError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ErrorCode 返回错误链中第一个 TranslationError 的代码，没有时返回空串
func ErrorCode(err error) string {
	var te *TranslationError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

func modelNotFound(id string) error {
	return NewTranslationError(ErrCodeModelNotFound, fmt.Sprintf("Model \"%s\" not found", id), ErrModelNotFound)
}

func modelDisabled(display string) error {
	return NewTranslationError(ErrCodeModelDisabled, fmt.Sprintf("Model \"%s\" is disabled", display), ErrModelDisabled)
}

func providerNotFound(id string) error {
	return NewTranslationError(ErrCodeProviderNotFound, fmt.Sprintf("Provider \"%s\" not found", id), ErrProviderNotFound)
}

func missingAPIKey(display string) error {
	return NewTranslationError(ErrCodeMissingAPIKey,
		fmt.Sprintf("API key not configured for model \"%s\". Edit the model to set an API key.", display),
		ErrMissingAPIKey)
}

// requestFailed 包装传输或解析失败，保留原始错误以便 errors.As 取到 APIError
func requestFailed(display string, err error) error {
	return NewTranslationError(ErrCodeRequest, fmt.Sprintf("Translation failed (%s): %s", display, err.Error()), err)
}

func stale() error {
	return NewTranslationError(ErrCodeStale, ErrStale.Error(), ErrStale)
}
