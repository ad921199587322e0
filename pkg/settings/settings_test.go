package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/go-selection-translator/pkg/catalog"
	"github.com/nerdneilsfield/go-selection-translator/pkg/history"
)

func TestSettings_Clone(t *testing.T) {
	s := Default()
	s.History = s.History.Append(history.Record{ID: "1"}, s.MaxHistorySize)

	c := s.Clone()
	c.Models[0].Enabled = false
	c.LanguageOptions[0] = "Klingon"
	c.History[0].ID = "changed"

	assert.True(t, s.Models[0].Enabled)
	assert.Equal(t, "Chinese", s.LanguageOptions[0])
	assert.Equal(t, "1", s.History[0].ID)
}

func TestSettings_AddUpdateModel(t *testing.T) {
	s := Default()
	custom := catalog.ModelConfig{ID: "openai:my-model", Name: "my-model", Provider: "openai", Enabled: true}

	require.NoError(t, s.AddModel(custom))
	assert.Error(t, s.AddModel(custom))

	custom.DisplayName = "Mine"
	require.NoError(t, s.UpdateModel(custom))
	got, ok := s.Model("openai:my-model")
	require.True(t, ok)
	assert.Equal(t, "Mine", got.DisplayName)

	assert.Error(t, s.UpdateModel(catalog.ModelConfig{ID: "nope"}))
}

func TestSettings_SetModelEnabled(t *testing.T) {
	s := Default()
	require.NoError(t, s.SetModelEnabled("xai:grok-3-beta", true))

	m, _ := s.Model("xai:grok-3-beta")
	assert.True(t, m.Enabled)
	assert.Len(t, s.EnabledModels(), 9)
	assert.Error(t, s.SetModelEnabled("missing", true))
}

func TestSettings_RemoveModel(t *testing.T) {
	s := Default()

	assert.False(t, s.RemoveModel("missing"))
	assert.True(t, s.RemoveModel("anthropic:claude-3-7-sonnet-latest"))
	assert.Equal(t, catalog.DefaultModelID, s.DefaultModel)
	assert.Len(t, s.Models, 12)

	// 删除默认模型后改用第一个启用的模型
	assert.True(t, s.RemoveModel(catalog.DefaultModelID))
	assert.Equal(t, "openai:gpt-4o-mini", s.DefaultModel)

	s.Models = []catalog.ModelConfig{{ID: "a", Name: "a", Provider: "openai"}}
	s.DefaultModel = "a"
	s.RemoveModel("a")
	assert.Empty(t, s.DefaultModel)
}

func TestSettings_RefreshBuiltins(t *testing.T) {
	s := Default()
	s.RemoveModel("gemini:gemini-2.5-flash")
	s.RemoveModel("xai:grok-3-beta")

	assert.Equal(t, 2, s.RefreshBuiltins())
	assert.Equal(t, 0, s.RefreshBuiltins())
	assert.Len(t, s.Models, 13)
}

func TestSettings_SetLanguageOptions(t *testing.T) {
	s := Default()

	require.NoError(t, s.SetLanguageOptions(" Chinese, English ,Japanese,, "))
	assert.Equal(t, []string{"Chinese", "English", "Japanese"}, s.LanguageOptions)

	assert.Error(t, s.SetLanguageOptions(" , ,"))
	assert.Equal(t, []string{"Chinese", "English", "Japanese"}, s.LanguageOptions)
}

func TestSettings_SwapLanguages(t *testing.T) {
	s := Default()

	src, dst := s.SwapLanguages("English", "Chinese")
	assert.Equal(t, "Chinese", src)
	assert.Equal(t, "English", dst)

	src, dst = s.SwapLanguages(AutoDetect, "Chinese")
	assert.Equal(t, "Chinese", src)
	assert.Equal(t, "English", dst)

	s.LanguageOptions = []string{"Chinese"}
	src, dst = s.SwapLanguages(AutoDetect, "Chinese")
	assert.Equal(t, "Chinese", src)
	assert.Equal(t, "Chinese", dst)
}

func TestSettings_NormalizeTruncatesHistory(t *testing.T) {
	s := Default()
	for i := 0; i < 5; i++ {
		s.History = append(s.History, history.Record{ID: string(rune('a' + i))})
	}
	s.MaxHistorySize = 3
	s.LanguageOptions = nil
	s.normalize()

	assert.Len(t, s.History, 3)
	assert.Equal(t, DefaultLanguageOptions(), s.LanguageOptions)
}
