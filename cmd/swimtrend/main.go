// Package main provides the CLI entrypoint for swimtrend.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/swimtrend/internal/config"
	"github.com/verte-zerg/swimtrend/internal/export"
	"github.com/verte-zerg/swimtrend/internal/model"
	"github.com/verte-zerg/swimtrend/internal/pipeline"
	"github.com/verte-zerg/swimtrend/internal/stats"
)

const (
	defaultHistogram  = true
	defaultBins       = 0
	defaultPlotHeight = 12
)

var (
	reportFile       string
	reportOut        string
	reportHistogram  bool
	reportBins       int
	reportEcho       bool
	reportStage      string
	reportChartsDir  string
	reportPlotHeight int
	verbose          bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "swimtrend",
		Short:         "Swim time trajectory and outlier report",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runReportCmd,
	}

	rootCmd.Flags().StringVar(&reportFile, "file", "", "swim log to analyze (.csv or .xlsx)")
	rootCmd.Flags().StringVar(&reportOut, "out", export.DefaultOutputPath, "derived table output (.csv or .xlsx)")
	rootCmd.Flags().BoolVar(&reportHistogram, "histogram", defaultHistogram, "render the scaled improvement histogram")
	rootCmd.Flags().IntVar(&reportBins, "bins", defaultBins, "histogram bins (0 = Sturges' rule)")
	rootCmd.Flags().BoolVar(&reportEcho, "echo", false, "print the normalized swims before dedupe")
	rootCmd.Flags().StringVar(&reportStage, "line-chart-stage", model.StageNormalized, "line chart data: normalized or daily")
	rootCmd.Flags().StringVar(&reportChartsDir, "charts-dir", "", "directory for PNG charts (disabled when empty)")
	rootCmd.Flags().IntVar(&reportPlotHeight, "plot-height", defaultPlotHeight, "terminal chart height in rows")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline stages to stderr")

	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "out", &reportOut, fileCfg.Report.Out)
	applyBoolConfig(cmd, "histogram", &reportHistogram, fileCfg.Report.Histogram)
	applyIntConfig(cmd, "bins", &reportBins, fileCfg.Report.Bins)
	applyBoolConfig(cmd, "echo", &reportEcho, fileCfg.Report.Echo)
	applyStringConfig(cmd, "line-chart-stage", &reportStage, fileCfg.Report.LineChartStage)
	applyStringConfig(cmd, "charts-dir", &reportChartsDir, fileCfg.Report.ChartsDir)
	applyIntConfig(cmd, "plot-height", &reportPlotHeight, fileCfg.Report.PlotHeight)

	if strings.TrimSpace(reportFile) == "" {
		return fmt.Errorf("must supply file (--file <filepath>)")
	}

	cfg := model.ReportConfig{
		RenderHistogram: reportHistogram,
		HistogramBins:   reportBins,
		EchoTable:       reportEcho,
		LineChartStage:  strings.ToLower(strings.TrimSpace(reportStage)),
		ChartsDir:       reportChartsDir,
		PlotHeight:      reportPlotHeight,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	result, err := pipeline.Run(pipeline.Options{
		InputPath:  reportFile,
		OutputPath: reportOut,
		Report:     cfg,
		Stdout:     cmd.OutOrStdout(),
		Logger:     newLogger(verbose),
	})
	if err != nil {
		var parseErr *model.ParseError
		if errors.As(err, &parseErr) {
			logErrf("fix row %d of %s and rerun\n", parseErr.Row, reportFile)
		}
		return err
	}

	for _, path := range result.Charts {
		logErrln("Wrote", path)
	}
	logErrf("Wrote %s (%d rows)\n", result.OutputPath, len(result.Report.Rows))
	return nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
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
	if err := ensureConfigFile(path); err != nil {
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

func ensureConfigFile(path string) error {
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
	return fmt.Sprintf(`# swimtrend configuration
# Uncomment a value to enable it. CLI flags override config values.

[report]
# out = %q              # Derived table path (.csv or .xlsx)
# histogram = %t              # Render the scaled improvement histogram
# bins = %d                      # Histogram bins (0 = Sturges' rule)
# echo = false                  # Print normalized swims before dedupe
# line-chart-stage = %q # Line chart data: normalized or daily
# charts-dir = "charts"         # Write PNG charts to this directory
# plot-height = %d              # Terminal chart height in rows
`,
		export.DefaultOutputPath,
		defaultHistogram,
		defaultBins,
		model.StageNormalized,
		defaultPlotHeight,
	)
}

func validateConfig(cfg model.ReportConfig) error {
	if cfg.HistogramBins < 0 || cfg.HistogramBins > stats.MaxHistogramBins {
		return fmt.Errorf("--bins must be between 0 and %d", stats.MaxHistogramBins)
	}
	if cfg.PlotHeight < 0 {
		return fmt.Errorf("--plot-height must be >= 0")
	}
	switch cfg.LineChartStage {
	case model.StageNormalized, model.StageDaily:
	default:
		return fmt.Errorf("--line-chart-stage must be %q or %q", model.StageNormalized, model.StageDaily)
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
