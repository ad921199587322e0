package providers

// 内置提供商 id
const (
	OpenAI     = "openai"
	Anthropic  = "anthropic"
	DeepSeek   = "deepseek"
	Kimi       = "kimi"
	Qwen       = "qwen"
	MiniMax    = "minimax"
	ZLM        = "zlm"
	OpenRouter = "openrouter"
	XAI        = "xai"
	Gemini     = "gemini"
)

// Builtin 返回内置提供商目录
func Builtin() []Definition {
	return []Definition{
		{ID: OpenAI, Name: "OpenAI", DefaultBaseURL: "https://api.openai.com/v1", Format: FormatOpenAI},
		{ID: Anthropic, Name: "Anthropic", DefaultBaseURL: "https://api.anthropic.com/v1", Format: FormatAnthropic},
		{ID: DeepSeek, Name: "DeepSeek", DefaultBaseURL: "https://api.deepseek.com/v1", Format: FormatOpenAI},
		{ID: Kimi, Name: "Kimi", DefaultBaseURL: "https://api.moonshot.cn/v1", Format: FormatOpenAI},
		{ID: Qwen, Name: "Qwen", DefaultBaseURL: "https://dashscope.aliyuncs.com/compatible-mode/v1", Format: FormatOpenAI},
		{ID: MiniMax, Name: "MiniMax", DefaultBaseURL: "https://api.minimax.chat/v1", Format: FormatOpenAI},
		{ID: ZLM, Name: "ZLM", DefaultBaseURL: "https://api.zhiangsci.com/v1", Format: FormatOpenAI},
		{
			ID:             OpenRouter,
			Name:           "OpenRouter",
			DefaultBaseURL: "https://openrouter.ai/api/v1",
			Format:         FormatOpenAI,
			APIKeyURL:      "https://openrouter.ai/keys",
		},
		{ID: XAI, Name: "XAI", DefaultBaseURL: "https://api.x.ai/v1", Format: FormatOpenAI},
		{ID: Gemini, Name: "Gemini", DefaultBaseURL: "https://generativelanguage.googleapis.com/v1beta/openai", Format: FormatOpenAI},
	}
}
