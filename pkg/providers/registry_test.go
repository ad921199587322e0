package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	defs := List()
	require.Len(t, defs, 10)
	assert.Equal(t, OpenAI, defs[0].ID)

	seen := make(map[string]bool)
	for _, def := range defs {
		assert.False(t, seen[def.ID], "duplicate provider %s", def.ID)
		seen[def.ID] = true
		assert.NotEmpty(t, def.DefaultBaseURL)
	}

	anthropic, ok := Get(Anthropic)
	require.True(t, ok)
	assert.Equal(t, FormatAnthropic, anthropic.Format)

	openrouter, ok := Get(OpenRouter)
	require.True(t, ok)
	assert.Equal(t, "https://openrouter.ai/keys", openrouter.APIKeyURL)
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Get("custom")
	assert.False(t, ok)
	assert.Equal(t, "custom", r.DisplayName("custom"))

	require.NoError(t, r.Register(Definition{ID: "custom", Name: "Custom", Format: FormatOpenAI}))
	assert.Error(t, r.Register(Definition{ID: "custom"}))
	assert.Error(t, r.Register(Definition{}))

	assert.True(t, r.Has("custom"))
	assert.Equal(t, "Custom", r.DisplayName("custom"))
	assert.Equal(t, []string{"custom"}, r.IDs())
}

func TestCheckStatus(t *testing.T) {
	assert.NoError(t, CheckStatus(&Response{StatusCode: 200}))

	err := CheckStatus(&Response{StatusCode: 401, Body: []byte("{\n  \"error\": \"bad key\"\n}")})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
	assert.Equal(t, `{"error":"bad key"}`, apiErr.Body)
	assert.Equal(t, `API error 401: {"error":"bad key"}`, err.Error())

	err = CheckStatus(&Response{StatusCode: 502, Body: []byte("Bad Gateway")})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Bad Gateway", apiErr.Body)
}

func TestExtractText(t *testing.T) {
	text, err := ExtractText([]byte(`{"choices":[{"message":{"content":"  你好 \n"}}]}`), "choices.0.message.content")
	require.NoError(t, err)
	assert.Equal(t, "你好", text)

	_, err = ExtractText([]byte(`{"choices":[]}`), "choices.0.message.content")
	assert.Error(t, err)

	_, err = ExtractText([]byte(`not json`), "content.0.text")
	assert.Error(t, err)
}
