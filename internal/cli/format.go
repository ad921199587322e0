package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mattn/go-runewidth"
)

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
	titleColor   = color.New(color.FgCyan, color.Bold)
)

// newTable 创建输出到 w 的表格
func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	style := table.StyleLight
	style.Format.Footer = text.FormatDefault
	t.SetStyle(style)
	return t
}

// truncate 按显示宽度截断，中日韩字符占两列
func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// suggest 为未知 id 给出最接近的候选
func suggest(input string, candidates []string) []string {
	ranks := fuzzy.RankFindFold(input, candidates)
	if len(ranks) == 0 {
		// 输入比候选长时 RankFind 找不到，反过来匹配
		for _, c := range candidates {
			if fuzzy.MatchFold(c, input) {
				ranks = append(ranks, fuzzy.Rank{Target: c})
			}
		}
	}
	sort.Sort(ranks)

	out := make([]string, 0, 3)
	for _, r := range ranks {
		if len(out) == 3 {
			break
		}
		out = append(out, r.Target)
	}
	return out
}

// notFound 附带候选的错误
func notFound(kind, input string, candidates []string) error {
	if hints := suggest(input, candidates); len(hints) > 0 {
		return fmt.Errorf("%s %q not found, did you mean: %s", kind, input, strings.Join(hints, ", "))
	}
	return fmt.Errorf("%s %q not found", kind, input)
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "0s"
	}

	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d.Nanoseconds())/1e6)
	}

	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}

	return fmt.Sprintf("%.1fh", d.Hours())
}

// formatTime 格式化时间
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}

	now := time.Now()
	if t.Year() == now.Year() && t.Month() == now.Month() && t.Day() == now.Day() {
		return t.Format("15:04:05")
	}

	if t.Year() == now.Year() {
		return t.Format("Jan 02 15:04")
	}

	return t.Format("2006-01-02 15:04")
}

// yesNo 表格里的布尔列
func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}
