package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/nerdneilsfield/go-selection-translator/pkg/catalog"
)

// EnvFileVar 指定 .env 路径的环境变量
const EnvFileVar = "AI_TRANSLATE_ENV_FILE"

// LoadEnv 加载 .env 文件，已存在的环境变量优先。
// path 为空时依次尝试 $AI_TRANSLATE_ENV_FILE 和 ./.env；文件不存在不算错误
func LoadEnv(path string) (string, error) {
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvFileVar))
	}
	explicit := path != ""
	if !explicit {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return path, nil
}

// ModelImport TOML 导入文件
//
//	[[models]]
//	name = "gpt-4.1"
//	provider = "openai"
//	api_key = "sk-..."
type ModelImport struct {
	Models []ImportedModel `toml:"models"`
}

// ImportedModel 单个导入的模型
type ImportedModel struct {
	ID           string `toml:"id"`
	Name         string `toml:"name"`
	DisplayName  string `toml:"display_name"`
	Provider     string `toml:"provider"`
	Enabled      *bool  `toml:"enabled"`
	BaseURL      string `toml:"base_url"`
	APIKey       string `toml:"api_key"`
	Prompt       string `toml:"prompt"`
	NoSystemRole bool   `toml:"no_system_role"`
}

// ModelConfig 转换为目录中的模型配置。id 缺省为 "<provider>:<name>"，默认启用
func (m ImportedModel) ModelConfig() catalog.ModelConfig {
	id := strings.TrimSpace(m.ID)
	if id == "" {
		id = catalog.ModelID(m.Provider, m.Name)
	}
	display := m.DisplayName
	if display == "" {
		display = m.Name
	}
	enabled := true
	if m.Enabled != nil {
		enabled = *m.Enabled
	}
	return catalog.ModelConfig{
		ID:            id,
		Name:          m.Name,
		DisplayName:   display,
		Provider:      m.Provider,
		Enabled:       enabled,
		CustomBaseURL: m.BaseURL,
		CustomAPIKey:  m.APIKey,
		CustomPrompt:  m.Prompt,
		NoSystemRole:  m.NoSystemRole,
	}
}

// LoadModelImport 读取 TOML 模型导入文件
func LoadModelImport(path string) ([]catalog.ModelConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model import file: %w", err)
	}

	var file ModelImport
	if err := toml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model import file: %w", err)
	}
	if len(file.Models) == 0 {
		return nil, fmt.Errorf("model import file %s has no [[models]] entries", path)
	}

	models := make([]catalog.ModelConfig, 0, len(file.Models))
	for i, m := range file.Models {
		if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Provider) == "" {
			return nil, fmt.Errorf("model %d: name and provider must be specified", i+1)
		}
		models = append(models, m.ModelConfig())
	}
	return models, nil
}
