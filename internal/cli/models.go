package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nerdneilsfield/go-selection-translator/internal/config"
	"github.com/nerdneilsfield/go-selection-translator/pkg/catalog"
	"github.com/nerdneilsfield/go-selection-translator/pkg/providers"
	"github.com/nerdneilsfield/go-selection-translator/pkg/settings"
)

var (
	// models 子命令的标志
	listAll      bool
	newModel     catalog.ModelConfig
	addDisabled  bool
	editBaseURL  string
	editAPIKey   string
	editPrompt   string
	editName     string
	editNoSystem bool
)

func newModelsCommand() *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:     "models",
		Aliases: []string{"model"},
		Short:   "管理模型目录",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "列出模型",
		Args:  cobra.NoArgs,
		RunE:  runWithApp(runModelsList),
	}
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "同时显示未启用的模型")

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "添加自定义模型",
		Example: `  translator models add --provider openrouter --name meta-llama/llama-3.3-70b-instruct --api-key sk-or-...
  translator models add --provider openai --name qwen2.5 --id local-qwen --base-url http://localhost:11434/v1`,
		Args: cobra.NoArgs,
		RunE: runWithApp(runModelsAdd),
	}
	addCmd.Flags().StringVar(&newModel.Provider, "provider", "", "提供商 id")
	addCmd.Flags().StringVar(&newModel.Name, "name", "", "发送给接口的模型名")
	addCmd.Flags().StringVar(&newModel.ID, "id", "", "模型 id（默认 <provider>:<name>）")
	addCmd.Flags().StringVar(&newModel.DisplayName, "display-name", "", "显示名称")
	addCmd.Flags().StringVar(&newModel.CustomBaseURL, "base-url", "", "自定义接口地址")
	addCmd.Flags().StringVar(&newModel.CustomAPIKey, "api-key", "", "API 密钥")
	addCmd.Flags().StringVar(&newModel.CustomPrompt, "prompt", "", "自定义系统提示词")
	addCmd.Flags().BoolVar(&newModel.NoSystemRole, "no-system-role", false, "接口不支持 system 角色")
	addCmd.Flags().BoolVar(&addDisabled, "disabled", false, "添加后不启用")
	_ = addCmd.MarkFlagRequired("provider")
	_ = addCmd.MarkFlagRequired("name")

	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "修改模型的密钥、地址或提示词",
		Args:  cobra.ExactArgs(1),
		RunE:  runWithApp(runModelsEdit),
	}
	editCmd.Flags().StringVar(&editAPIKey, "api-key", "", "API 密钥")
	editCmd.Flags().StringVar(&editBaseURL, "base-url", "", "自定义接口地址，空字符串表示使用提供商默认值")
	editCmd.Flags().StringVar(&editPrompt, "prompt", "", "自定义系统提示词")
	editCmd.Flags().StringVar(&editName, "display-name", "", "显示名称")
	editCmd.Flags().BoolVar(&editNoSystem, "no-system-role", false, "接口不支持 system 角色")

	modelsCmd.AddCommand(
		listCmd,
		addCmd,
		editCmd,
		&cobra.Command{
			Use:   "enable <id>",
			Short: "启用模型",
			Args:  cobra.ExactArgs(1),
			RunE:  runWithApp(setEnabled(true)),
		},
		&cobra.Command{
			Use:   "disable <id>",
			Short: "停用模型",
			Args:  cobra.ExactArgs(1),
			RunE:  runWithApp(setEnabled(false)),
		},
		&cobra.Command{
			Use:   "default <id>",
			Short: "设为默认模型",
			Args:  cobra.ExactArgs(1),
			RunE:  runWithApp(runModelsDefault),
		},
		&cobra.Command{
			Use:     "remove <id>",
			Aliases: []string{"rm"},
			Short:   "删除模型",
			Args:    cobra.ExactArgs(1),
			RunE:    runWithApp(runModelsRemove),
		},
		&cobra.Command{
			Use:   "refresh",
			Short: "补回缺失的内置模型",
			Args:  cobra.NoArgs,
			RunE:  runWithApp(runModelsRefresh),
		},
		&cobra.Command{
			Use:   "import <file.toml>",
			Short: "从 TOML 文件导入模型",
			Args:  cobra.ExactArgs(1),
			RunE:  runWithApp(runModelsImport),
		},
		&cobra.Command{
			Use:   "test <id>",
			Short: "测试模型连接",
			Args:  cobra.ExactArgs(1),
			RunE:  runWithApp(runModelsTest),
		},
		&cobra.Command{
			Use:   "providers",
			Short: "列出支持的提供商",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				listProviders(cmd)
				return nil
			},
		},
	)
	return modelsCmd
}

func runModelsList(cmd *cobra.Command, a *app, _ []string) error {
	s := a.translator.Settings()
	models := s.Models
	if !listAll {
		models = s.EnabledModels()
	}

	t := newTable(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"", "ID", "Name", "Provider", "Enabled", "Built-in", "API Key"})
	for _, m := range models {
		mark := ""
		if m.ID == s.DefaultModel {
			mark = "*"
		}
		key := warnColor.Sprint("missing")
		if m.CustomAPIKey != "" {
			key = successColor.Sprint("set")
		}
		t.AppendRow(table.Row{
			mark, m.ID, m.Label(), providers.DefaultRegistry.DisplayName(m.Provider),
			yesNo(m.Enabled), yesNo(m.IsBuiltin), key,
		})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d models", len(models))})
	t.Render()
	return nil
}

// findModel 查找模型，未找到时给出候选
func findModel(s *settings.Settings, id string) (catalog.ModelConfig, error) {
	if m, ok := s.Model(id); ok {
		return m, nil
	}
	ids := make([]string, 0, len(s.Models))
	for _, m := range s.Models {
		ids = append(ids, m.ID)
	}
	return catalog.ModelConfig{}, notFound("model", id, ids)
}

func setEnabled(enabled bool) func(*cobra.Command, *app, []string) error {
	return func(cmd *cobra.Command, a *app, args []string) error {
		err := a.update(runContext(cmd), func(s *settings.Settings) error {
			if _, err := findModel(s, args[0]); err != nil {
				return err
			}
			return s.SetModelEnabled(args[0], enabled)
		})
		if err != nil {
			return err
		}
		state := "disabled"
		if enabled {
			state = "enabled"
		}
		successColor.Fprintf(cmd.OutOrStdout(), "%s %s\n", args[0], state)
		return nil
	}
}

func runModelsDefault(cmd *cobra.Command, a *app, args []string) error {
	err := a.update(runContext(cmd), func(s *settings.Settings) error {
		m, err := findModel(s, args[0])
		if err != nil {
			return err
		}
		if !m.Enabled {
			return fmt.Errorf("model %q is disabled, enable it first", m.ID)
		}
		s.DefaultModel = m.ID
		return nil
	})
	if err != nil {
		return err
	}
	successColor.Fprintf(cmd.OutOrStdout(), "default model: %s\n", args[0])
	return nil
}

func runModelsRemove(cmd *cobra.Command, a *app, args []string) error {
	var newDefault string
	err := a.update(runContext(cmd), func(s *settings.Settings) error {
		if _, err := findModel(s, args[0]); err != nil {
			return err
		}
		wasDefault := s.DefaultModel == args[0]
		s.RemoveModel(args[0])
		if wasDefault {
			newDefault = s.DefaultModel
			if newDefault == "" {
				newDefault = "(none)"
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	successColor.Fprintf(out, "removed %s\n", args[0])
	if newDefault != "" {
		warnColor.Fprintf(out, "default model is now %s\n", newDefault)
	}
	return nil
}

func runModelsRefresh(cmd *cobra.Command, a *app, _ []string) error {
	var added int
	err := a.update(runContext(cmd), func(s *settings.Settings) error {
		added = s.RefreshBuiltins()
		return nil
	})
	if err != nil {
		return err
	}
	successColor.Fprintf(cmd.OutOrStdout(), "added %d built-in models\n", added)
	return nil
}

func runModelsAdd(cmd *cobra.Command, a *app, _ []string) error {
	m := newModel
	m.Provider = strings.TrimSpace(m.Provider)
	m.Name = strings.TrimSpace(m.Name)
	if m.ID == "" {
		m.ID = catalog.ModelID(m.Provider, m.Name)
	}
	if m.DisplayName == "" {
		m.DisplayName = m.Name
	}
	m.Enabled = !addDisabled
	m.IsBuiltin = false

	if err := addModels(cmd, a, []catalog.ModelConfig{m}); err != nil {
		return err
	}
	successColor.Fprintf(cmd.OutOrStdout(), "added %s\n", m.ID)
	return nil
}

func runModelsImport(cmd *cobra.Command, a *app, args []string) error {
	models, err := config.LoadModelImport(args[0])
	if err != nil {
		return err
	}
	if err := addModels(cmd, a, models); err != nil {
		return err
	}
	successColor.Fprintf(cmd.OutOrStdout(), "imported %d models\n", len(models))
	return nil
}

// addModels 追加模型并校验整个目录，任一失败则不做修改
func addModels(cmd *cobra.Command, a *app, models []catalog.ModelConfig) error {
	return a.update(runContext(cmd), func(s *settings.Settings) error {
		for _, m := range models {
			if !providers.DefaultRegistry.Has(m.Provider) {
				return notFound("provider", m.Provider, providers.DefaultRegistry.IDs())
			}
			if err := s.AddModel(m); err != nil {
				return err
			}
		}
		return catalog.Validate(s.Models, providers.DefaultRegistry.Has)
	})
}

func runModelsEdit(cmd *cobra.Command, a *app, args []string) error {
	flags := cmd.Flags()
	err := a.update(runContext(cmd), func(s *settings.Settings) error {
		m, err := findModel(s, args[0])
		if err != nil {
			return err
		}
		if flags.Changed("api-key") {
			m.CustomAPIKey = strings.TrimSpace(editAPIKey)
		}
		if flags.Changed("base-url") {
			m.CustomBaseURL = strings.TrimSpace(editBaseURL)
		}
		if flags.Changed("prompt") {
			m.CustomPrompt = editPrompt
		}
		if flags.Changed("display-name") {
			m.DisplayName = editName
		}
		if flags.Changed("no-system-role") {
			m.NoSystemRole = editNoSystem
		}
		return s.UpdateModel(m)
	})
	if err != nil {
		return err
	}
	successColor.Fprintf(cmd.OutOrStdout(), "updated %s\n", args[0])
	return nil
}

func runModelsTest(cmd *cobra.Command, a *app, args []string) error {
	m, err := findModel(a.translator.Settings(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	err = withSpinner(cmd, "Testing "+m.Label()+"...", func() error {
		return a.translator.TestConnection(runContext(cmd), m)
	})
	if err != nil {
		errorColor.Fprintf(out, "✗ %s: %v\n", m.Label(), err)
		return err
	}
	successColor.Fprintf(out, "✓ %s: connection ok\n", m.Label())
	return nil
}

// listProviders 列出提供商
func listProviders(cmd *cobra.Command) {
	t := newTable(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"ID", "Name", "Format", "Base URL", "API Key URL"})
	for _, p := range providers.List() {
		t.AppendRow(table.Row{p.ID, p.Name, p.Format, p.DefaultBaseURL, p.APIKeyURL})
	}
	t.Render()
}
