// Package main provides the CLI entrypoint for telestats.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mnemocron/telestats/internal/chat"
	"github.com/mnemocron/telestats/internal/config"
	"github.com/mnemocron/telestats/internal/generator"
	"github.com/mnemocron/telestats/internal/keywords"
	"github.com/mnemocron/telestats/internal/model"
	"github.com/mnemocron/telestats/internal/stats"
	"github.com/mnemocron/telestats/internal/statsui"
	"github.com/mnemocron/telestats/internal/store"
	"github.com/mnemocron/telestats/internal/telegram"
)

const (
	defaultPlotHeight = 10
	defaultSampleDays = 120
	dateFlagLayout    = "2006-01-02"
)

var (
	analyzeInput     string
	analyzeChatName  string
	analyzeChatID    int64
	analyzeSince     string
	analyzeWords     string
	analyzeWordsFile string
	analyzeCSVDir    string
	analyzePlots     bool
	analyzePlotWidth int
	analyzeSave      bool
	analyzeTUI       bool

	chatsInput string

	runsChat string
	runsLast int

	sampleOut   string
	sampleDays  int
	sampleSeed  int64
	sampleNameA string
	sampleNameB string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "telestats",
		Short:         "Statistics for Telegram chat exports",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runAnalyzeCmd,
	}

	rootCmd.Flags().StringVarP(&analyzeInput, "input", "i", "", "chat export JSON file")
	rootCmd.Flags().StringVarP(&analyzeChatName, "chat", "n", "", "chat name (full exports)")
	rootCmd.Flags().Int64VarP(&analyzeChatID, "chat-id", "c", 0, "chat id (full exports)")
	rootCmd.Flags().StringVarP(&analyzeSince, "since", "d", "", "ignore messages before date (YYYY-MM-DD)")
	rootCmd.Flags().StringVarP(&analyzeWords, "words", "w", "", "tracked keywords, semicolon-separated")
	rootCmd.Flags().StringVar(&analyzeWordsFile, "words-file", "", "tracked keywords file, one per line")
	rootCmd.Flags().StringVar(&analyzeCSVDir, "csv-dir", "", "write per-counter CSV dumps to this directory")
	rootCmd.Flags().BoolVar(&analyzePlots, "plots", false, "print monthly terminal plots")
	rootCmd.Flags().IntVar(&analyzePlotWidth, "plot-width", 0, "plot width in columns (0 = terminal width)")
	rootCmd.Flags().BoolVar(&analyzeSave, "save", false, "store run summary in the history database")
	rootCmd.Flags().BoolVar(&analyzeTUI, "tui", false, "open the interactive report browser")

	rootCmd.AddCommand(newChatsCmd())
	rootCmd.AddCommand(newRunsCmd())
	rootCmd.AddCommand(newSampleCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runAnalyzeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "input", &analyzeInput, fileCfg.Analysis.Input)
	applyStringConfig(cmd, "chat", &analyzeChatName, fileCfg.Analysis.ChatName)
	applyStringConfig(cmd, "since", &analyzeSince, fileCfg.Analysis.Since)
	applyStringConfig(cmd, "words", &analyzeWords, fileCfg.Analysis.Words)
	applyStringConfig(cmd, "words-file", &analyzeWordsFile, fileCfg.Analysis.WordsFile)
	applyStringConfig(cmd, "csv-dir", &analyzeCSVDir, fileCfg.Analysis.CSVDir)
	applyBoolConfig(cmd, "plots", &analyzePlots, fileCfg.Analysis.Plots)
	applyIntConfig(cmd, "plot-width", &analyzePlotWidth, fileCfg.Analysis.PlotWidth)

	if analyzeInput == "" {
		return fmt.Errorf("--input is required")
	}

	cfg := model.AnalysisConfig{}
	if analyzeSince != "" {
		parsed, err := time.ParseInLocation(dateFlagLayout, analyzeSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value (expected YYYY-MM-DD): %w", err)
		}
		cfg.Since = parsed
	}
	words, err := resolveKeywords(analyzeWords, analyzeWordsFile)
	if err != nil {
		return err
	}
	cfg.Keywords = words

	selected, err := selectChat(analyzeInput, analyzeChatName, analyzeChatID)
	if err != nil {
		return err
	}

	nameA := resolveNameA(selected)

	agg := chat.Aggregate(selected.Messages, nameA, cfg)
	metrics := chat.Finalize(selected.Messages, nameA, cfg, agg)

	out := cmd.OutOrStdout()
	if err := stats.RenderReport(out, metrics); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	if _, err := fmt.Fprintln(out, ""); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderFrequencies(out, metrics); err != nil {
		return fmt.Errorf("failed to render frequency lists: %w", err)
	}
	if err := stats.RenderActivity(out, metrics); err != nil {
		return fmt.Errorf("failed to render activity: %w", err)
	}
	if analyzePlots {
		if err := stats.RenderPlots(out, metrics, analyzePlotWidth, defaultPlotHeight); err != nil {
			return fmt.Errorf("failed to render plots: %w", err)
		}
	}
	if analyzeCSVDir != "" {
		nameA := labelOr(metrics.A.Name, "A")
		nameB := labelOr(metrics.B.Name, "B")
		if err := stats.WriteCSVDumps(analyzeCSVDir, agg, nameA, nameB); err != nil {
			return fmt.Errorf("failed to write csv dumps: %w", err)
		}
		logErrf("Wrote CSV dumps to %s\n", analyzeCSVDir)
	}
	if analyzeSave {
		if err := saveRun(selected, cfg, metrics); err != nil {
			return err
		}
		logErrln("Saved run to history")
	}
	if analyzeTUI {
		browser := statsui.NewModel(metrics, selected.Name)
		program := tea.NewProgram(browser, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run report browser: %w", err)
		}
	}
	return nil
}

// resolveNameA anchors participant A on the earliest attributable
// sender of the stream. The chat name is only a fallback for streams
// with no identifiable sender at all.
func resolveNameA(selected *model.Chat) string {
	if s := chat.FirstSender(selected.Messages); s != "" {
		return s
	}
	return selected.Name
}

func selectChat(input, name string, id int64) (*model.Chat, error) {
	exp, err := telegram.Load(input)
	if err != nil {
		return nil, err
	}
	if !exp.IsFull() {
		return exp.Single()
	}
	switch {
	case name != "":
		return exp.SelectByName(name)
	case id != 0:
		return exp.SelectByID(id)
	default:
		logErrln("Full export: select a chat with --chat or --chat-id. Available chats:")
		for _, info := range exp.Chats() {
			logErrf("%d\t%s\t%s\n", info.ID, info.Type, info.Name)
		}
		return nil, fmt.Errorf("no chat selected")
	}
}

func resolveKeywords(flagList, file string) ([]string, error) {
	if flagList != "" && file != "" {
		return nil, fmt.Errorf("--words and --words-file are mutually exclusive")
	}
	if file != "" {
		words, err := keywords.LoadKeywords(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load keywords: %w", err)
		}
		return words, nil
	}
	if flagList != "" {
		return keywords.ParseList(flagList), nil
	}
	return nil, nil
}

func saveRun(selected *model.Chat, cfg model.AnalysisConfig, metrics chat.Metrics) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	run := model.RunSummary{
		AnalyzedAt: time.Now(),
		ChatName:   selected.Name,
		ChatID:     selected.ID,
		Since:      cfg.Since,
		Keywords:   cfg.Keywords,
		NameA:      metrics.A.Name,
		NameB:      metrics.B.Name,
		MessagesA:  metrics.A.TotalMessages,
		MessagesB:  metrics.B.TotalMessages,
		WordsA:     metrics.A.TotalWords,
		WordsB:     metrics.B.TotalWords,
		CharsA:     metrics.A.TotalChars,
		CharsB:     metrics.B.TotalChars,
	}
	if _, err := st.InsertRun(context.Background(), run); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

func newChatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chats",
		Short: "List chats in a full export",
		Args:  cobra.NoArgs,
		RunE:  runChatsCmd,
	}
	cmd.Flags().StringVarP(&chatsInput, "input", "i", "", "chat export JSON file")
	return cmd
}

func runChatsCmd(cmd *cobra.Command, _ []string) error {
	if chatsInput == "" {
		return fmt.Errorf("--input is required")
	}
	exp, err := telegram.Load(chatsInput)
	if err != nil {
		return err
	}
	if !exp.IsFull() {
		return fmt.Errorf("single-chat export: analyze it directly with telestats -i %s", chatsInput)
	}
	chats := exp.Chats()
	if len(chats) == 0 {
		return fmt.Errorf("export contains no chats")
	}
	for _, info := range chats {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", info.ID, info.Type, info.Name); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored analysis runs",
		Args:  cobra.NoArgs,
		RunE:  runRunsCmd,
	}
	cmd.Flags().StringVar(&runsChat, "chat", "", "filter by chat name")
	cmd.Flags().IntVar(&runsLast, "last", 0, "limit to last N runs")
	return cmd
}

func runRunsCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	runs, err := st.ListRuns(context.Background(), runsChat, runsLast)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		logErrln("No stored runs. Analyze with --save to record one.")
		return nil
	}
	for _, run := range runs {
		line := fmt.Sprintf("%s\t%s\t%s=%d msgs\t%s=%d msgs",
			run.AnalyzedAt.Local().Format("2006-01-02 15:04"),
			run.ChatName,
			run.NameA, run.MessagesA,
			run.NameB, run.MessagesB)
		if len(run.Keywords) > 0 {
			line += "\twords=" + strings.Join(run.Keywords, ";")
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a synthetic demo export",
		Args:  cobra.NoArgs,
		RunE:  runSampleCmd,
	}
	cmd.Flags().StringVarP(&sampleOut, "out", "o", "sample.json", "output file")
	cmd.Flags().IntVar(&sampleDays, "days", defaultSampleDays, "number of days to generate")
	cmd.Flags().Int64Var(&sampleSeed, "seed", 0, "random seed (0 = time-based)")
	cmd.Flags().StringVar(&sampleNameA, "name-a", "Alice", "first participant name")
	cmd.Flags().StringVar(&sampleNameB, "name-b", "Bob", "second participant name")
	return cmd
}

func runSampleCmd(_ *cobra.Command, _ []string) error {
	if sampleDays <= 0 {
		return fmt.Errorf("--days must be > 0")
	}
	gen := generator.New()
	if sampleSeed != 0 {
		gen = generator.NewSeeded(sampleSeed)
	}
	start := time.Now().AddDate(0, 0, -sampleDays)
	data, err := gen.Generate(sampleNameA, sampleNameB, start, sampleDays)
	if err != nil {
		return fmt.Errorf("failed to generate sample: %w", err)
	}
	if err := os.WriteFile(sampleOut, data, 0o644); err != nil {
		return fmt.Errorf("failed to write sample: %w", err)
	}
	logErrf("Wrote %s\n", sampleOut)
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return `# telestats configuration
# Uncomment a value to enable it. CLI flags override config values.

[analysis]
# input = "export.json"    # Chat export JSON file
# chat = "Alice"           # Chat name in a full export
# since = "2020-01-01"     # Ignore messages before this date
# words = "vacation;tea"   # Tracked keywords, semicolon-separated
# words-file = ""          # Tracked keywords file, one per line
# csv-dir = ""             # Directory for per-counter CSV dumps
# plots = false            # Print monthly terminal plots
# plot-width = 0           # Plot width in columns (0 = terminal width)
`
}

func labelOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
