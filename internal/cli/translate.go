package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/nerdneilsfield/go-selection-translator/pkg/settings"
	"github.com/nerdneilsfield/go-selection-translator/pkg/translation"
)

var (
	// translate / interactive 的标志
	modelID    string
	targetLang string
	sourceLang string
)

func addTranslateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&modelID, "model", "m", "", "模型 id，默认使用设置中的默认模型")
	cmd.Flags().StringVarP(&targetLang, "target", "t", "", "目标语言，默认使用设置中的目标语言")
	cmd.Flags().StringVarP(&sourceLang, "source", "s", settings.AutoDetect, "源语言")
}

func newTranslateCommand() *cobra.Command {
	translateCmd := &cobra.Command{
		Use:   "translate [text]",
		Short: "翻译一段文本，不带参数时从标准输入读取",
		Example: `  translator translate "Hello world"
  translator translate -m anthropic:claude-3-7-sonnet-latest -t Japanese "Good morning"
  pbpaste | translator translate -t English`,
		RunE: runWithApp(runTranslate),
	}
	addTranslateFlags(translateCmd)
	return translateCmd
}

func runTranslate(cmd *cobra.Command, a *app, args []string) error {
	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}

	if modelID != "" {
		if err := a.checkModel(modelID); err != nil {
			return err
		}
	}

	var result string
	err := withSpinner(cmd, "Translating...", func() error {
		var err error
		result, err = a.translator.Translate(runContext(cmd), &translation.Request{
			Text:           text,
			ModelID:        modelID,
			TargetLanguage: targetLang,
			SourceLanguage: sourceLang,
		})
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result)
	return nil
}

// checkModel 未知 id 时给出候选
func (a *app) checkModel(id string) error {
	s := a.translator.Settings()
	if _, ok := s.Model(id); ok {
		return nil
	}
	ids := make([]string, 0, len(s.Models))
	for _, m := range s.Models {
		ids = append(ids, m.ID)
	}
	return notFound("model", id, ids)
}

// withSpinner 终端上显示等待动画
func withSpinner(cmd *cobra.Command, msg string, fn func() error) error {
	f, ok := cmd.ErrOrStderr().(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return fn()
	}

	spinner, err := pterm.DefaultSpinner.WithWriter(f).WithRemoveWhenDone(true).Start(msg)
	if err != nil {
		return fn()
	}
	defer func() { _ = spinner.Stop() }()
	return fn()
}

func newInteractiveCommand() *cobra.Command {
	interactiveCmd := &cobra.Command{
		Use:   "interactive",
		Short: "逐行翻译标准输入",
		Long: `逐行读取标准输入并翻译。以冒号开头的行是命令：

  :model <id>     切换模型
  :target <lang>  切换目标语言
  :source <lang>  切换源语言（auto 表示自动检测）
  :swap           交换源语言和目标语言
  :quit           退出`,
		Args: cobra.NoArgs,
		RunE: runWithApp(runInteractive),
	}
	addTranslateFlags(interactiveCmd)
	return interactiveCmd
}

// interactiveState 交互模式下的当前选择
type interactiveState struct {
	model  string
	source string
	target string
}

func runInteractive(cmd *cobra.Command, a *app, _ []string) error {
	ctx, stop := signal.NotifyContext(runContext(cmd), os.Interrupt)
	var wg sync.WaitGroup
	// 自动保存的最后一次写入要在 flush 之前结束
	defer func() {
		stop()
		wg.Wait()
	}()

	session := translation.NewSession()
	defer session.Close()

	if a.stats != nil && a.cfg.StatsSaveInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.stats.AutoSaveRoutine(ctx, time.Duration(a.cfg.StatsSaveInterval)*time.Second)
		}()
	}

	s := a.translator.Settings()
	state := &interactiveState{model: modelID, source: sourceLang, target: targetLang}
	if state.target == "" {
		state.target = s.TargetLanguage
	}

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ":") {
			quit, err := a.handleInteractiveCommand(out, state, line)
			if err != nil {
				errorColor.Fprintln(out, err)
			}
			if quit {
				break
			}
			continue
		}

		result, err := a.translator.Translate(ctx, &translation.Request{
			Text:           line,
			ModelID:        state.model,
			TargetLanguage: state.target,
			SourceLanguage: state.source,
			Guard:          session.Begin(),
		})
		switch {
		case errors.Is(err, translation.ErrStale):
			continue
		case err != nil:
			errorColor.Fprintln(out, err)
		default:
			fmt.Fprintln(out, result)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

func (a *app) handleInteractiveCommand(out io.Writer, state *interactiveState, line string) (bool, error) {
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "q", "quit", "exit":
		return true, nil
	case "model":
		if err := a.checkModel(arg); err != nil {
			return false, err
		}
		state.model = arg
	case "target":
		if arg == "" {
			return false, fmt.Errorf("usage: :target <language>")
		}
		state.target = arg
	case "source":
		if arg == "" {
			arg = settings.AutoDetect
		}
		state.source = arg
	case "swap":
		state.source, state.target = a.translator.Settings().SwapLanguages(state.source, state.target)
	default:
		return false, fmt.Errorf("unknown command %q", line)
	}

	warnColor.Fprintf(out, "[source=%s target=%s model=%s]\n", state.source, state.target, displayModel(state.model))
	return false, nil
}

func displayModel(id string) string {
	if id == "" {
		return "default"
	}
	return id
}

// runContext 命令上下文，测试直接调用 Execute 时可能为空
func runContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
