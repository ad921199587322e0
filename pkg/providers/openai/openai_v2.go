package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/nerdneilsfield/go-selection-translator/pkg/providers"
)

// SDKAdapter 使用官方 SDK 的适配器，请求形状与 Adapter 一致
type SDKAdapter struct {
	opts []option.RequestOption
}

var _ providers.Adapter = (*SDKAdapter)(nil)

// NewSDK 创建 SDK 适配器。opts 附加在每次请求的默认选项之后
func NewSDK(opts ...option.RequestOption) *SDKAdapter {
	return &SDKAdapter{opts: opts}
}

func toSDKMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			out = append(out, openai.SystemMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// Translate 执行翻译
func (a *SDKAdapter) Translate(ctx context.Context, params providers.TranslateParams) (string, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(params.APIKey),
		option.WithBaseURL(params.BaseURL + "/"),
		// 重试由调用方决定
		option.WithMaxRetries(0),
	}
	opts = append(opts, a.opts...)
	client := openai.NewClient(opts...)

	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(params.Model.Name),
		Messages:    toSDKMessages(BuildMessages(params)),
		Temperature: openai.Float(Temperature),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			body := apiErr.RawJSON()
			if body == "" {
				body = apiErr.Error()
			}
			return "", &providers.APIError{
				StatusCode: apiErr.StatusCode,
				Body:       providers.ErrorBody([]byte(body)),
			}
		}
		return "", err
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from %s", params.BaseURL)
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
