package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/nerdneilsfield/go-selection-translator/pkg/providers/stats"
)

var (
	// stats 命令的标志
	statsJSON  bool
	resetStats bool
)

// NewStatsCommand 创建 stats 命令
func NewStatsCommand() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "查看每个模型的请求统计",
		Long: `查看每个 提供商+模型 的请求统计，包括成功率、延迟和错误类型。

Examples:
  # 表格输出
  translator stats

  # JSON 输出
  translator stats --json

  # 清空统计
  translator stats --reset`,
		Args: cobra.NoArgs,
		RunE: runWithApp(runStatsCommand),
	}

	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "以 JSON 输出")
	statsCmd.Flags().BoolVar(&resetStats, "reset", false, "清空所有统计")

	return statsCmd
}

// runStatsCommand 执行 stats 命令
func runStatsCommand(cmd *cobra.Command, a *app, _ []string) error {
	out := cmd.OutOrStdout()
	if a.stats == nil {
		warnColor.Fprintln(out, "statistics are disabled (stats_enabled: false)")
		return nil
	}

	if resetStats {
		a.stats.Reset()
		successColor.Fprintln(out, "statistics reset")
		return nil
	}

	all := a.stats.All()
	if statsJSON {
		data, err := json.Marshal(all)
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		data = pretty.Pretty(data)
		if !color.NoColor {
			data = pretty.Color(data, nil)
		}
		_, err = out.Write(data)
		return err
	}

	if len(all) == 0 {
		fmt.Fprintln(out, "no translations recorded yet")
		return nil
	}

	titleColor.Fprintln(out, "📊 Model Statistics")
	t := newTable(out)
	t.AppendHeader(table.Row{"Provider", "Model", "Requests", "Success", "Avg", "Min", "Max", "Chars In/Out", "Errors", "Last Used"})
	for _, s := range all {
		t.AppendRow(table.Row{
			s.Provider,
			s.Model,
			s.TotalRequests,
			formatRate(s.SuccessRate()),
			formatDuration(s.AverageLatency),
			formatDuration(s.MinLatency),
			formatDuration(s.MaxLatency),
			fmt.Sprintf("%d/%d", s.TotalCharsIn, s.TotalCharsOut),
			formatErrorTypes(s),
			formatTime(s.LastRequestTime),
		})
	}
	t.Render()
	return nil
}

func formatRate(rate float64) string {
	text := fmt.Sprintf("%.1f%%", rate)
	switch {
	case rate >= 90:
		return successColor.Sprint(text)
	case rate >= 50:
		return warnColor.Sprint(text)
	default:
		return errorColor.Sprint(text)
	}
}

// formatErrorTypes "rate_limit×2, timeout×1"，按次数降序
func formatErrorTypes(s *stats.ModelStats) string {
	if len(s.ErrorTypes) == 0 {
		return "-"
	}
	kinds := make([]string, 0, len(s.ErrorTypes))
	for k := range s.ErrorTypes {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		ci, cj := s.ErrorTypes[kinds[i]], s.ErrorTypes[kinds[j]]
		if ci != cj {
			return ci > cj
		}
		return kinds[i] < kinds[j]
	})

	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s×%d", k, s.ErrorTypes[k]))
	}
	return strings.Join(parts, ", ")
}
