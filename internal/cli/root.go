package cli

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/openai/openai-go/option"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-selection-translator/internal/config"
	"github.com/nerdneilsfield/go-selection-translator/internal/logger"
	"github.com/nerdneilsfield/go-selection-translator/internal/storage"
	"github.com/nerdneilsfield/go-selection-translator/pkg/history"
	"github.com/nerdneilsfield/go-selection-translator/pkg/providers"
	"github.com/nerdneilsfield/go-selection-translator/pkg/providers/openai"
	"github.com/nerdneilsfield/go-selection-translator/pkg/providers/stats"
	"github.com/nerdneilsfield/go-selection-translator/pkg/providers/transport"
	"github.com/nerdneilsfield/go-selection-translator/pkg/settings"
	"github.com/nerdneilsfield/go-selection-translator/pkg/translation"
)

var (
	// 命令行标志变量
	cfgFile     string
	envFile     string
	debugMode   bool
	verboseMode bool
)

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "translator",
		Short: "划词翻译工具，支持多个大语言模型提供商",
		Long: `划词翻译工具：把选中的文本发给配置好的大语言模型并返回译文。

支持 OpenAI 风格（OpenAI、DeepSeek、Kimi、Qwen、MiniMax、ZLM、OpenRouter、XAI、Gemini）
和 Anthropic 风格的接口。模型目录、默认模型、语言选项和翻译历史保存在数据目录中。`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addGlobalFlags(rootCmd)

	rootCmd.AddCommand(
		newTranslateCommand(),
		newInteractiveCommand(),
		newModelsCommand(),
		newHistoryCommand(),
		newLanguagesCommand(),
		NewStatsCommand(),
		newConfigCommand(),
	)
	return rootCmd
}

func addGlobalFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件路径（默认 ~/.ai-translate.yaml）")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", ".env 文件路径（默认 ./.env）")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "启用调试模式")
	rootCmd.PersistentFlags().BoolVarP(&verboseMode, "verbose", "v", false, "显示详细日志")
}

// app 一次命令执行期间共享的依赖
type app struct {
	cfg        *config.Config
	log        *zap.Logger
	store      *settings.Store
	stats      *stats.Manager
	translator *translation.Translator

	// 翻译成功后历史发生变化，需要写回
	dirty  atomic.Bool
	closer io.Closer
}

// newApp 加载配置、设置和统计，组装翻译服务
func newApp(ctx context.Context) (*app, error) {
	if _, err := config.LoadEnv(envFile); err != nil {
		return nil, err
	}
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	log := logger.NewLoggerWithVerbose(cfg.Debug || debugMode, cfg.Verbose || verboseMode)
	a := &app{cfg: cfg, log: log}

	backend, err := a.openBackend(ctx)
	if err != nil {
		return nil, err
	}
	a.store = settings.NewStore(backend, log)

	s, err := a.store.Load(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	log.Debug("settings ready", zap.String("migration", a.store.Path()))

	if path := cfg.StatsPath(); path != "" {
		a.stats = stats.NewManager(path, log)
		if err := a.stats.Load(); err != nil {
			log.Warn("failed to load stats, starting fresh", zap.Error(err))
		}
	}

	opts := []translation.Option{
		translation.WithLogger(log),
		translation.WithFetcher(transport.NewResty(cfg.Timeout())),
		translation.WithStats(a.stats),
		translation.WithAfterTranslate(func(history.Record) { a.dirty.Store(true) }),
	}
	if cfg.OpenAIClient == config.OpenAIClientSDK {
		var sdkOpts []option.RequestOption
		if cfg.RequestTimeout > 0 {
			sdkOpts = append(sdkOpts, option.WithRequestTimeout(cfg.Timeout()))
		}
		opts = append(opts, translation.WithAdapter(providers.FormatOpenAI, openai.NewSDK(sdkOpts...)))
	}

	a.translator, err = translation.New(s, opts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) openBackend(ctx context.Context) (settings.Backend, error) {
	switch a.cfg.Storage {
	case config.StorageSQLite:
		db, err := storage.OpenSQLite(ctx, a.cfg.SQLiteDBPath())
		if err != nil {
			return nil, err
		}
		a.closer = db
		return db, nil
	default:
		return storage.NewFile(a.cfg.SettingsPath()), nil
	}
}

// update 在翻译服务内修改设置并写回
func (a *app) update(ctx context.Context, mutate func(s *settings.Settings) error) error {
	s, err := a.translator.Modify(mutate)
	if err != nil {
		return err
	}
	return a.store.Save(ctx, s)
}

// flush 保存翻译产生的历史和统计
func (a *app) flush(ctx context.Context) error {
	if a.dirty.Swap(false) {
		if err := a.store.Save(ctx, a.translator.Settings()); err != nil {
			return err
		}
	}
	if a.stats != nil {
		if err := a.stats.Save(); err != nil {
			a.log.Warn("failed to save stats", zap.Error(err))
		}
	}
	return nil
}

// Close 释放存储
func (a *app) Close() {
	if a.closer != nil {
		if err := a.closer.Close(); err != nil {
			a.log.Warn("failed to close storage", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}

// runWithApp 包装需要设置的子命令
func runWithApp(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := runContext(cmd)
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		runErr := run(cmd, a, args)
		if err := a.flush(ctx); err != nil && runErr == nil {
			runErr = err
		}
		return runErr
	}
}

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "查看宿主配置",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "显示当前配置",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.LoadEnv(envFile); err != nil {
				return err
			}
			cfg, err := config.LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			handleShowConfig(cmd.OutOrStdout(), cfg)
			return nil
		},
	})
	return configCmd
}

// handleShowConfig 显示配置
func handleShowConfig(w io.Writer, cfg *config.Config) {
	file := cfg.File
	if file == "" {
		file = "(none)"
	}
	statsPath := cfg.StatsPath()
	if statsPath == "" {
		statsPath = "(disabled)"
	}
	settingsPath := cfg.SettingsPath()
	if cfg.Storage == config.StorageSQLite {
		settingsPath = cfg.SQLiteDBPath()
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Key", "Value"})
	t.AppendRows([]table.Row{
		{"config_file", file},
		{"data_dir", cfg.DataDir},
		{"storage", cfg.Storage},
		{"settings", settingsPath},
		{"request_timeout", formatDuration(cfg.Timeout())},
		{"openai_client", cfg.OpenAIClient},
		{"stats_file", statsPath},
		{"debug", cfg.Debug},
		{"verbose", cfg.Verbose},
	})
	t.Render()
}
