package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wcatz/dashboard-grid/internal/board"
	"github.com/wcatz/dashboard-grid/internal/catalog"
	"github.com/wcatz/dashboard-grid/internal/config"
	"github.com/wcatz/dashboard-grid/internal/generation"
	"github.com/wcatz/dashboard-grid/internal/grid"
	"github.com/wcatz/dashboard-grid/internal/logging"
	"github.com/wcatz/dashboard-grid/internal/server"
)

var (
	cfgFile    string
	envFile    string
	layoutFile string
	prompt     string
	outFile    string
	dryRun     bool
	verbose    bool
	servePort  int
	logLevel   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "dashboard-grid",
		Short:        "interactive 3-column dashboard grid with guided generation",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with DASHBOARD_GRID_* overrides")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the board over a JSON HTTP API",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&cfgFile, "config", "", "path to YAML config file (required)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP server port (overrides server.port)")
	serveCmd.MarkFlagRequired("config")

	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "pack a YAML list of {id, span} into grid positions",
		RunE:  runLayout,
	}
	layoutCmd.Flags().StringVar(&cfgFile, "config", "", "path to YAML config file (for grid.gap)")
	layoutCmd.Flags().StringVar(&layoutFile, "file", "", "YAML file with the widget list (required)")
	layoutCmd.MarkFlagRequired("file")

	genCmd := &cobra.Command{
		Use:   "generate",
		Short: "run the guided generation flow for a prompt",
		RunE:  runGenerate,
	}
	genCmd.Flags().StringVar(&cfgFile, "config", "", "path to YAML config file (required)")
	genCmd.Flags().StringVar(&prompt, "prompt", "", "dashboard prompt (required)")
	genCmd.Flags().StringVar(&outFile, "out", "dashboard.json", "snapshot output file")
	genCmd.Flags().BoolVar(&dryRun, "dry-run", false, "generate to memory only")
	genCmd.Flags().BoolVar(&verbose, "verbose", false, "print widget details")
	genCmd.MarkFlagRequired("config")
	genCmd.MarkFlagRequired("prompt")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "edit the YAML config in place",
	}
	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "set an editable key, keeping comments",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.NewYAMLEditor(cfgFile).Set(args[0], args[1])
		},
	}
	unsetCmd := &cobra.Command{
		Use:   "unset <key>",
		Short: "remove an editable key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.NewYAMLEditor(cfgFile).Unset(args[0])
		},
	}
	configCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to YAML config file (required)")
	configCmd.MarkPersistentFlagRequired("config")
	configCmd.AddCommand(setCmd, unsetCmd)

	rootCmd.AddCommand(serveCmd, layoutCmd, genCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	overrides, err := config.EnvOverrides(envFile)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}
	if servePort != 0 {
		overrides[config.OverridePort] = strconv.Itoa(servePort)
	}
	if logLevel != "" {
		overrides[config.OverrideLogLevel] = logLevel
	}
	return config.Load(cfgFile, overrides)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.GetLog())
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := board.New(board.OptionsFromConfig(cfg), catalog.NewProducer(cfg), logger)
	srv := server.New(ctx, cfg, b, logger)
	addr := fmt.Sprintf(":%d", cfg.GetServer().Port)
	fmt.Printf("dashboard-grid API: http://localhost%s\n", addr)
	return srv.ListenAndServe(ctx, addr)
}

type layoutEntry struct {
	ID     string   `yaml:"id" json:"id"`
	Span   int      `yaml:"span" json:"span"`
	Height *float64 `yaml:"height,omitempty" json:"height,omitempty"`
}

func runLayout(cmd *cobra.Command, args []string) error {
	gap := float64(config.DefaultGap)
	if cfgFile != "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		gap = cfg.GetGrid().Gap
	}

	data, err := os.ReadFile(layoutFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", layoutFile, err)
	}
	var entries []layoutEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parsing %s: %w", layoutFile, err)
	}

	l := grid.New(gap)
	order := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			return fmt.Errorf("%s: entry without id", layoutFile)
		}
		l, err = grid.Place(l, e.ID, grid.Position{ColumnSpan: grid.ClampSpan(e.Span), Height: e.Height})
		if err != nil {
			return err
		}
		order = append(order, e.ID)
	}
	l = grid.Reorder(l, order)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(l)
}

// progress prints each generation step as the driver advances it.
type progress struct {
	*board.Board
	last int
}

func (p *progress) AdvanceAttempt(attempt uint64) (bool, error) {
	done, err := p.Board.AdvanceAttempt(attempt)
	if err != nil {
		return done, err
	}
	st := p.Board.Snapshot().Generation
	if !done && st.CurrentStepIndex > p.last {
		p.last = st.CurrentStepIndex
		step := st.Steps[st.CurrentStepIndex]
		fmt.Printf("  [%d/%d] %s\n", st.CurrentStepIndex+1, len(st.Steps), step.ID)
	}
	return done, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.GetLog())
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := board.OptionsFromConfig(cfg)
	b := board.New(opts, catalog.NewProducer(cfg), logger)
	defer b.Close()

	fmt.Printf("generating %q:\n", prompt)
	driver := generation.NewDriver(opts.StepInterval, logger)
	if err := driver.Run(ctx, &progress{Board: b, last: -1}, prompt); err != nil {
		return err
	}

	snap := b.Snapshot()
	if snap.Phase != generation.PhasePreview {
		return fmt.Errorf("generation failed: %s", snap.Generation.Error)
	}
	if verbose {
		for _, w := range snap.Dashboard.Widgets {
			info := w.Info()
			fmt.Printf("    [%s] %s (row %d, col %d, span %d)\n",
				w.Kind(), info.Title, info.Position.Row, info.Position.Column, info.Position.ColumnSpan)
		}
	}
	logger.Debug("snapshot ready", zap.Int("widgets", len(snap.Dashboard.Widgets)))
	_, err = board.WriteSnapshot(snap, outFile, dryRun, cmd.OutOrStdout())
	return err
}
