package catalog

// DefaultModelID 冷启动时的默认模型
const DefaultModelID = "openai:gpt-4o"

// Builtins 返回内置模型列表，每次调用都是新副本
func Builtins() []ModelConfig {
	return []ModelConfig{
		builtin("openai", "gpt-4o", "GPT-4o", true),
		builtin("openai", "gpt-4o-mini", "GPT-4o Mini", true),
		builtin("anthropic", "claude-sonnet-4-20250514", "Claude Sonnet 4", true),
		builtin("anthropic", "claude-3-7-sonnet-latest", "Claude 3.7 Sonnet", true),
		builtin("deepseek", "deepseek-chat", "DeepSeek Chat", true),
		builtin("deepseek", "deepseek-reasoner", "DeepSeek Reasoner", false),
		builtin("kimi", "moonshot-v1-8k", "Moonshot V1 8K", true),
		builtin("qwen", "qwen-turbo", "Qwen Turbo", true),
		builtin("qwen", "qwen-plus", "Qwen Plus", false),
		// qwen-mt 只接受 user/assistant 角色
		withNoSystemRole(builtin("qwen", "qwen-mt-turbo", "Qwen MT Turbo", false)),
		builtin("gemini", "gemini-2.5-flash", "Gemini 2.5 Flash", true),
		builtin("xai", "grok-3-beta", "Grok 3 Beta", false),
		builtin("openrouter", "deepseek/deepseek-r1:free", "DeepSeek R1 (Free)", false),
	}
}

func builtin(provider, name, displayName string, enabled bool) ModelConfig {
	return ModelConfig{
		ID:          ModelID(provider, name),
		Name:        name,
		DisplayName: displayName,
		Provider:    provider,
		Enabled:     enabled,
		IsBuiltin:   true,
	}
}

func withNoSystemRole(m ModelConfig) ModelConfig {
	m.NoSystemRole = true
	return m
}

// MergeBuiltins 把缺失的内置模型追加到列表末尾，按 id 去重，返回新增数量
func MergeBuiltins(models []ModelConfig) ([]ModelConfig, int) {
	existing := make(map[string]struct{}, len(models))
	for _, m := range models {
		existing[m.ID] = struct{}{}
	}

	added := 0
	for _, b := range Builtins() {
		if _, ok := existing[b.ID]; ok {
			continue
		}
		models = append(models, b)
		existing[b.ID] = struct{}{}
		added++
	}
	return models, added
}
