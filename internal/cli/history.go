package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nerdneilsfield/go-selection-translator/pkg/settings"
)

var (
	historyLimit int
	historyWidth int
)

func newHistoryCommand() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "查看或清空翻译历史",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "列出最近的翻译，最新的在前",
		Args:  cobra.NoArgs,
		RunE:  runWithApp(runHistoryList),
	}
	listCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "最多显示条数，0 表示全部")
	listCmd.Flags().IntVarP(&historyWidth, "width", "w", 40, "原文和译文列的显示宽度，0 表示不截断")

	historyCmd.AddCommand(
		listCmd,
		&cobra.Command{
			Use:   "show <id>",
			Short: "显示一条完整记录",
			Args:  cobra.ExactArgs(1),
			RunE:  runWithApp(runHistoryShow),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "清空历史",
			Args:  cobra.NoArgs,
			RunE:  runWithApp(runHistoryClear),
		},
	)
	return historyCmd
}

func runHistoryList(cmd *cobra.Command, a *app, _ []string) error {
	records := a.translator.History()
	if historyLimit > 0 && len(records) > historyLimit {
		records = records[:historyLimit]
	}

	t := newTable(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Time", "ID", "Model", "Provider", "Original", "Translation"})
	for _, r := range records {
		t.AppendRow(table.Row{
			formatTime(r.Time()),
			r.ID,
			r.Model,
			r.Provider,
			truncate(r.OriginalText, historyWidth),
			truncate(r.TranslatedText, historyWidth),
		})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d records", len(records))})
	t.Render()
	return nil
}

func runHistoryShow(cmd *cobra.Command, a *app, args []string) error {
	s := a.translator.Settings()
	r, ok := s.History.Find(args[0])
	if !ok {
		ids := make([]string, 0, len(s.History))
		for _, h := range s.History {
			ids = append(ids, h.ID)
		}
		return notFound("record", args[0], ids)
	}

	out := cmd.OutOrStdout()
	titleColor.Fprintf(out, "%s · %s · %s\n", r.Model, r.Provider, r.Time().Format("2006-01-02 15:04:05"))
	fmt.Fprintln(out, r.OriginalText)
	fmt.Fprintln(out, strings.Repeat("-", 40))
	fmt.Fprintln(out, r.TranslatedText)
	return nil
}

func runHistoryClear(cmd *cobra.Command, a *app, _ []string) error {
	a.translator.ClearHistory()
	if err := a.store.Save(runContext(cmd), a.translator.Settings()); err != nil {
		return err
	}
	successColor.Fprintln(cmd.OutOrStdout(), "history cleared")
	return nil
}

func newLanguagesCommand() *cobra.Command {
	languagesCmd := &cobra.Command{
		Use:     "languages",
		Aliases: []string{"lang"},
		Short:   "管理语言选项和默认目标语言",
		Args:    cobra.NoArgs,
		RunE:    runWithApp(runLanguagesList),
	}

	languagesCmd.AddCommand(
		&cobra.Command{
			Use:     "set <lang,lang,...>",
			Short:   "设置可选语言列表（逗号分隔）",
			Example: "  translator languages set Chinese,English,Japanese",
			Args:    cobra.MinimumNArgs(1),
			RunE:    runWithApp(runLanguagesSet),
		},
		&cobra.Command{
			Use:   "target <lang>",
			Short: "设置默认目标语言",
			Args:  cobra.ExactArgs(1),
			RunE:  runWithApp(runLanguagesTarget),
		},
	)
	return languagesCmd
}

func runLanguagesList(cmd *cobra.Command, a *app, _ []string) error {
	s := a.translator.Settings()
	out := cmd.OutOrStdout()
	for _, l := range s.LanguageOptions {
		if l == s.TargetLanguage {
			successColor.Fprintf(out, "* %s\n", l)
			continue
		}
		fmt.Fprintf(out, "  %s\n", l)
	}
	if !contains(s.LanguageOptions, s.TargetLanguage) {
		warnColor.Fprintf(out, "target: %s (not in options)\n", s.TargetLanguage)
	}
	return nil
}

func runLanguagesSet(cmd *cobra.Command, a *app, args []string) error {
	err := a.update(runContext(cmd), func(s *settings.Settings) error {
		return s.SetLanguageOptions(strings.Join(args, ","))
	})
	if err != nil {
		return err
	}
	return runLanguagesList(cmd, a, nil)
}

func runLanguagesTarget(cmd *cobra.Command, a *app, args []string) error {
	lang := strings.TrimSpace(args[0])
	if lang == "" {
		return fmt.Errorf("target language must not be empty")
	}
	err := a.update(runContext(cmd), func(s *settings.Settings) error {
		s.TargetLanguage = lang
		return nil
	})
	if err != nil {
		return err
	}
	successColor.Fprintf(cmd.OutOrStdout(), "target language: %s\n", lang)
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
