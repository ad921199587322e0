package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 存储后端
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// OpenAI 风格请求的发送方式
const (
	OpenAIClientHTTP = "http"
	OpenAIClientSDK  = "sdk"
)

const (
	configName   = ".ai-translate"
	envPrefix    = "AI_TRANSLATE"
	dataDirName  = "ai-translate"
	settingsFile = "settings.json"
	sqliteFile   = "settings.db"
	statsFile    = "stats.json"
)

// Config 宿主程序配置，与持久化的翻译设置分开
type Config struct {
	// 数据目录
	DataDir string `mapstructure:"data_dir"`
	// 设置存储后端：file 或 sqlite
	Storage      string `mapstructure:"storage"`
	SettingsFile string `mapstructure:"settings_file"`
	SQLitePath   string `mapstructure:"sqlite_path"`

	// 请求超时（秒），只作用于传输层
	RequestTimeout int    `mapstructure:"request_timeout"`
	OpenAIClient   string `mapstructure:"openai_client"`

	StatsEnabled bool   `mapstructure:"stats_enabled"`
	StatsFile    string `mapstructure:"stats_file"`
	// 统计自动保存间隔（秒）
	StatsSaveInterval int `mapstructure:"stats_save_interval"`

	Debug   bool `mapstructure:"debug"`
	Verbose bool `mapstructure:"verbose"`

	// 实际读取的配置文件，没有时为空
	File string `mapstructure:"-"`
}

// LoadConfig 从配置文件和环境变量加载配置
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 没有配置文件时使用默认值
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	config.File = v.ConfigFileUsed()

	if config.DataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return nil, err
		}
		config.DataDir = dir
	}
	return &config, config.Validate()
}

// NewDefaultConfig 创建默认配置
func NewDefaultConfig() *Config {
	dir, err := DefaultDataDir()
	if err != nil {
		dir = "." + dataDirName
	}
	return &Config{
		DataDir:           dir,
		Storage:           StorageFile,
		RequestTimeout:    120,
		OpenAIClient:      OpenAIClientHTTP,
		StatsEnabled:      true,
		StatsSaveInterval: 60,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "")
	v.SetDefault("storage", StorageFile)
	v.SetDefault("settings_file", "")
	v.SetDefault("sqlite_path", "")
	v.SetDefault("request_timeout", 120)
	v.SetDefault("openai_client", OpenAIClientHTTP)
	v.SetDefault("stats_enabled", true)
	v.SetDefault("stats_file", "")
	v.SetDefault("stats_save_interval", 60)
	v.SetDefault("debug", false)
	v.SetDefault("verbose", false)
}

// Validate 检查取值范围
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageFile, StorageSQLite:
	default:
		return fmt.Errorf("unknown storage %q (want %q or %q)", c.Storage, StorageFile, StorageSQLite)
	}
	switch c.OpenAIClient {
	case OpenAIClientHTTP, OpenAIClientSDK:
	default:
		return fmt.Errorf("unknown openai_client %q (want %q or %q)", c.OpenAIClient, OpenAIClientHTTP, OpenAIClientSDK)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	if c.StatsSaveInterval < 0 {
		return fmt.Errorf("stats_save_interval must not be negative")
	}
	return nil
}

// Timeout 请求超时，0 表示使用传输层默认值
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// SettingsPath JSON 设置文件路径
func (c *Config) SettingsPath() string {
	if c.SettingsFile != "" {
		return c.SettingsFile
	}
	return filepath.Join(c.DataDir, settingsFile)
}

// SQLiteDBPath SQLite 数据库路径
func (c *Config) SQLiteDBPath() string {
	if c.SQLitePath != "" {
		return c.SQLitePath
	}
	return filepath.Join(c.DataDir, sqliteFile)
}

// StatsPath 统计文件路径，统计关闭时为空
func (c *Config) StatsPath() string {
	if !c.StatsEnabled {
		return ""
	}
	if c.StatsFile != "" {
		return c.StatsFile
	}
	return filepath.Join(c.DataDir, statsFile)
}

// DefaultDataDir $XDG_DATA_HOME/ai-translate，未设置时为 ~/.local/share/ai-translate
func DefaultDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}
