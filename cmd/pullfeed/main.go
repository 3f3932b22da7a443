// Package main provides the CLI entrypoint for pullfeed.
package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/pullfeed/internal/config"
	"github.com/verte-zerg/pullfeed/internal/feed"
	"github.com/verte-zerg/pullfeed/internal/model"
	"github.com/verte-zerg/pullfeed/internal/pull"
	"github.com/verte-zerg/pullfeed/internal/replay"
	"github.com/verte-zerg/pullfeed/internal/stats"
	"github.com/verte-zerg/pullfeed/internal/statsui"
	"github.com/verte-zerg/pullfeed/internal/store"
	"github.com/verte-zerg/pullfeed/internal/tui"
)

const (
	defaultResistance   = pull.DefaultResistance
	defaultThreshold    = pull.DefaultDistThreshold
	defaultRefreshMs    = 1000
	defaultResetMs      = 400
	defaultTarget       = string(model.TargetScreen)
	defaultCellHeight   = 16.0
	defaultCaptionWords = 6
	defaultColor        = "#C89A3A"
	defaultSpinSpeedMs  = 400
	defaultCardsLimit   = 20
)

var (
	feedResistance   float64
	feedThreshold    float64
	feedRefreshMs    int
	feedResetMs      int
	feedDisabled     bool
	feedTarget       string
	feedCellHeight   float64
	feedCaptions     string
	feedCaptionWords int
	feedFade         bool
	feedRotate       bool
	feedCenter       bool
	feedColor        string
	feedSpinSpeedMs  int

	historySince string
	historyLast  int
	historyTUI   bool

	cardsLimit int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pullfeed",
		Short:         "Terminal feed with pull-to-refresh",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runFeedCmd,
	}

	rootCmd.Flags().Float64Var(&feedResistance, "resistance", defaultResistance, "divisor applied to the raw drag distance")
	rootCmd.Flags().Float64Var(&feedThreshold, "dist-threshold", defaultThreshold, "pulled distance (px) that triggers a refresh")
	rootCmd.Flags().IntVar(&feedRefreshMs, "refresh-duration", defaultRefreshMs, "refreshing phase length in ms")
	rootCmd.Flags().IntVar(&feedResetMs, "reset-duration", defaultResetMs, "collapse animation length in ms")
	rootCmd.Flags().BoolVar(&feedDisabled, "disabled", false, "ignore pull gestures")
	rootCmd.Flags().StringVar(&feedTarget, "target", defaultTarget, "gesture region: screen or feed")
	rootCmd.Flags().Float64Var(&feedCellHeight, "cell-height", defaultCellHeight, "pixels per terminal row")
	rootCmd.Flags().StringVar(&feedCaptions, "captions", "", "caption word list (default: XDG config dir)")
	rootCmd.Flags().IntVar(&feedCaptionWords, "caption-words", defaultCaptionWords, "words per generated caption")
	rootCmd.Flags().BoolVar(&feedFade, "fade", true, "fade the indicator in while pulling")
	rootCmd.Flags().BoolVar(&feedRotate, "rotate", true, "rotate the indicator while pulling")
	rootCmd.Flags().BoolVar(&feedCenter, "center", true, "center the indicator")
	rootCmd.Flags().StringVar(&feedColor, "color", defaultColor, "indicator color")
	rootCmd.Flags().IntVar(&feedSpinSpeedMs, "spin-speed", defaultSpinSpeedMs, "spinner cycle length in ms")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newCardsCmd())
	rootCmd.AddCommand(newReplayCmd())

	return rootCmd
}

func runFeedCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFloatConfig(cmd, "resistance", &feedResistance, fileCfg.Pull.Resistance)
	applyFloatConfig(cmd, "dist-threshold", &feedThreshold, fileCfg.Pull.DistThreshold)
	applyIntConfig(cmd, "refresh-duration", &feedRefreshMs, fileCfg.Pull.RefreshDuration)
	applyIntConfig(cmd, "reset-duration", &feedResetMs, fileCfg.Pull.ResetDuration)
	applyBoolConfig(cmd, "disabled", &feedDisabled, fileCfg.Pull.Disabled)
	applyStringConfig(cmd, "target", &feedTarget, fileCfg.Feed.Target)
	applyFloatConfig(cmd, "cell-height", &feedCellHeight, fileCfg.Feed.CellHeight)
	applyStringConfig(cmd, "captions", &feedCaptions, fileCfg.Feed.Captions)
	applyIntConfig(cmd, "caption-words", &feedCaptionWords, fileCfg.Feed.CaptionWords)
	applyBoolConfig(cmd, "fade", &feedFade, fileCfg.Indicator.Fade)
	applyBoolConfig(cmd, "rotate", &feedRotate, fileCfg.Indicator.Rotate)
	applyBoolConfig(cmd, "center", &feedCenter, fileCfg.Indicator.Center)
	applyStringConfig(cmd, "color", &feedColor, fileCfg.Indicator.Color)
	applyIntConfig(cmd, "spin-speed", &feedSpinSpeedMs, fileCfg.Indicator.SpinSpeed)

	cfg := model.FeedConfig{
		Pull: model.PullConfig{
			Resistance:      feedResistance,
			DistThreshold:   feedThreshold,
			RefreshDuration: time.Duration(feedRefreshMs) * time.Millisecond,
			ResetDuration:   time.Duration(feedResetMs) * time.Millisecond,
			Disabled:        feedDisabled,
		},
		Indicator: model.IndicatorConfig{
			Fade:      feedFade,
			Rotate:    feedRotate,
			Center:    feedCenter,
			Color:     feedColor,
			SpinSpeed: time.Duration(feedSpinSpeedMs) * time.Millisecond,
		},
		Target:       model.Target(feedTarget),
		CellHeight:   feedCellHeight,
		CaptionsPath: feedCaptions,
		CaptionWords: feedCaptionWords,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	words, err := loadCaptionWords(cfg.CaptionsPath)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	m, err := tui.NewModel(cfg, st, feed.New(words, cfg.CaptionWords))
	if err != nil {
		return fmt.Errorf("invalid pull settings: %w", err)
	}
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, runErr := program.Run()
	m.Close()
	if runErr != nil {
		return fmt.Errorf("failed to run TUI: %w", runErr)
	}
	return nil
}

// loadCaptionWords reads the caption word list. A missing default list falls
// back to the built-in captions; an explicit path must exist.
func loadCaptionWords(path string) ([]string, error) {
	explicit := path != ""
	if !explicit {
		path = config.DefaultCaptionsPath()
	}
	words, err := feed.LoadWords(path)
	if err == nil {
		return words, nil
	}
	if !explicit && errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return nil, fmt.Errorf("failed to load captions from %s: %w", path, err)
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
	if err := writeConfigTemplate(path); err != nil {
		return err
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

// writeConfigTemplate creates the config file unless it already exists.
func writeConfigTemplate(path string) error {
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
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show pull gesture history",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N gestures")
	cmd.Flags().BoolVar(&historyTUI, "tui", false, "browse history interactively")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := historyConfig(historySince, historyLast)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if historyTUI {
		program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run history TUI: %w", err)
		}
		return nil
	}

	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if err := stats.RenderReport(cmd.OutOrStdout(), report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func historyConfig(since string, last int) (model.HistoryConfig, error) {
	if last < 0 {
		return model.HistoryConfig{}, fmt.Errorf("--last must be >= 0")
	}
	cfg := model.HistoryConfig{Last: last}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return model.HistoryConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	return cfg, nil
}

func newCardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "List stored cards, newest first",
		Args:  cobra.NoArgs,
		RunE:  runCardsCmd,
	}
	cmd.Flags().IntVar(&cardsLimit, "limit", defaultCardsLimit, "maximum cards to list (0 for all)")
	return cmd
}

func runCardsCmd(cmd *cobra.Command, _ []string) error {
	if cardsLimit < 0 {
		return fmt.Errorf("--limit must be >= 0")
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	cards, err := st.ListCards(context.Background(), cardsLimit)
	if err != nil {
		return fmt.Errorf("failed to list cards: %w", err)
	}
	if len(cards) == 0 {
		logErrln("No cards yet. Run pullfeed and pull down to add one.")
		return nil
	}
	for _, card := range cards {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n",
			card.ID, card.CreatedAt.Local().Format("2006-01-02 15:04:05"), card.Caption); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <script>",
		Short: "Replay a scripted gesture on a virtual clock",
		Args:  cobra.ExactArgs(1),
		RunE:  runReplayCmd,
	}
}

func runReplayCmd(cmd *cobra.Command, args []string) error {
	script, err := replay.LoadScript(args[0])
	if err != nil {
		return err
	}
	base := model.PullConfig{
		Resistance:      pull.DefaultResistance,
		DistThreshold:   pull.DefaultDistThreshold,
		RefreshDuration: pull.DefaultRefreshDuration,
		ResetDuration:   pull.DefaultResetDuration,
	}
	res, err := replay.Run(script, base)
	if err != nil {
		return err
	}
	if err := replay.WriteTranscript(cmd.OutOrStdout(), res); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
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

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
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
	return fmt.Sprintf(`# pullfeed configuration
# Uncomment a value to enable it. CLI flags override config values.

[pull]
# resistance = %.1f        # Divisor applied to the raw drag distance
# dist-threshold = %.1f   # Pulled distance (px) that triggers a refresh
# refresh-duration = %d  # Refreshing phase length (ms)
# reset-duration = %d     # Collapse animation length (ms)
# disabled = false        # Ignore pull gestures

[feed]
# target = %q        # Gesture region: "screen" or "feed"
# cell-height = %.1f      # Pixels per terminal row
# captions = %q
# caption-words = %d       # Words per generated caption

[indicator]
# fade = true             # Fade the indicator in while pulling
# rotate = true           # Rotate the indicator while pulling
# center = true           # Center the indicator
# color = %q       # Indicator color
# spin-speed = %d         # Spinner cycle length (ms)
`,
		defaultResistance,
		defaultThreshold,
		defaultRefreshMs,
		defaultResetMs,
		defaultTarget,
		defaultCellHeight,
		config.DefaultCaptionsPath(),
		defaultCaptionWords,
		defaultColor,
		defaultSpinSpeedMs,
	)
}

func validateConfig(cfg model.FeedConfig) error {
	if cfg.Pull.Resistance <= 0 || math.IsNaN(cfg.Pull.Resistance) || math.IsInf(cfg.Pull.Resistance, 0) {
		return fmt.Errorf("--resistance must be > 0")
	}
	if cfg.Pull.DistThreshold <= 0 || math.IsNaN(cfg.Pull.DistThreshold) || math.IsInf(cfg.Pull.DistThreshold, 0) {
		return fmt.Errorf("--dist-threshold must be > 0")
	}
	if cfg.Pull.RefreshDuration < 0 {
		return fmt.Errorf("--refresh-duration must be >= 0")
	}
	if cfg.Pull.ResetDuration < 0 {
		return fmt.Errorf("--reset-duration must be >= 0")
	}
	switch cfg.Target {
	case model.TargetScreen, model.TargetFeed:
	default:
		return fmt.Errorf("--target must be %q or %q", model.TargetScreen, model.TargetFeed)
	}
	if cfg.CellHeight <= 0 {
		return fmt.Errorf("--cell-height must be > 0")
	}
	if cfg.CaptionWords <= 0 {
		return fmt.Errorf("--caption-words must be > 0")
	}
	if strings.TrimSpace(cfg.Indicator.Color) == "" {
		return fmt.Errorf("--color must not be empty")
	}
	if cfg.Indicator.SpinSpeed <= 0 {
		return fmt.Errorf("--spin-speed must be > 0")
	}
	return nil
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
