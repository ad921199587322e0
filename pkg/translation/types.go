package translation

// Request 翻译请求
type Request struct {
	// Text 要翻译的文本
	Text string `json:"text"`

	// ModelID 使用的模型，空时使用默认模型
	ModelID string `json:"model_id,omitempty"`

	// TargetLanguage 目标语言，空时使用设置中的目标语言
	TargetLanguage string `json:"target_language,omitempty"`

	// SourceLanguage 源语言，仅作记录
	SourceLanguage string `json:"source_language,omitempty"`

	// Guard 可选，完成时检查
	Guard Guard `json:"-"`
}

// 连接测试使用的固定输入
const (
	ProbeText     = "Hello"
	ProbeLanguage = "Chinese"
)
