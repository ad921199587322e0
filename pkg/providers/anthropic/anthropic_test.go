package anthropic

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-selection-translator/internal/test"
	"github.com/nerdneilsfield/go-selection-translator/pkg/catalog"
	"github.com/nerdneilsfield/go-selection-translator/pkg/providers"
	"github.com/nerdneilsfield/go-selection-translator/pkg/providers/transport"
)

func testParams(baseURL string) providers.TranslateParams {
	return providers.TranslateParams{
		Text: "Hello",
		Model: catalog.ModelConfig{
			ID: "anthropic:claude-sonnet-4-20250514", Name: "claude-sonnet-4-20250514",
			DisplayName: "Claude Sonnet 4", Provider: "anthropic", Enabled: true,
		},
		APIKey:         "sk-ant",
		BaseURL:        baseURL,
		TargetLanguage: "Chinese",
	}
}

func TestBuildRequest(t *testing.T) {
	req, err := BuildRequest(testParams("https://api.anthropic.com/v1"))
	require.NoError(t, err)

	assert.Equal(t, "https://api.anthropic.com/v1/messages", req.URL)
	assert.Equal(t, "sk-ant", req.Headers["x-api-key"])
	assert.Equal(t, "2023-06-01", req.Headers["anthropic-version"])
	assert.NotContains(t, req.Headers, "Authorization")
	assert.JSONEq(t, `{
		"model": "claude-sonnet-4-20250514",
		"max_tokens": 4096,
		"messages": [
			{"role": "user", "content": "Translate the following text to Chinese. Only return the translation, nothing else:\n\nHello"}
		]
	}`, string(req.Body))
}

func TestUserContent_CustomPrompt(t *testing.T) {
	params := testParams("")
	params.Model.CustomPrompt = "\tBe formal.  "
	assert.Equal(t, "Be formal.\n\nHello", UserContent(params))
}

func TestAdapter_Translate(t *testing.T) {
	server := test.NewMockAnthropicServer(t)
	server.SetReply("\n你好\n")

	got, err := New(transport.NewResty(5*time.Second)).Translate(context.Background(), testParams(server.URL))
	require.NoError(t, err)
	assert.Equal(t, "你好", got)

	req, ok := server.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "/messages", req.Path)
	assert.Equal(t, "sk-ant", req.Header.Get("X-Api-Key"))
	assert.Equal(t, APIVersion, req.Header.Get("Anthropic-Version"))
	assert.Equal(t, float64(MaxTokens), req.JSON()["max_tokens"])
}

func TestAdapter_ErrorStatus(t *testing.T) {
	server := test.NewMockAnthropicServer(t)
	server.SetError(http.StatusBadRequest, "plain text failure")

	_, err := New(transport.NewResty(5*time.Second)).Translate(context.Background(), testParams(server.URL))

	var apiErr *providers.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "plain text failure", apiErr.Body)
}

func TestAdapter_MissingContent(t *testing.T) {
	fetcher := test.NewRecordingFetcher(`{"content": []}`)
	_, err := New(fetcher).Translate(context.Background(), testParams("http://example.invalid"))
	assert.Error(t, err)
	assert.Equal(t, 1, fetcher.Calls())
}
