package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/swimtrend/internal/config"
	"github.com/verte-zerg/swimtrend/internal/model"
	"github.com/verte-zerg/swimtrend/internal/stats"
)

func TestValidateConfig(t *testing.T) {
	valid := model.ReportConfig{LineChartStage: model.StageNormalized}
	tests := []struct {
		name    string
		mutate  func(*model.ReportConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*model.ReportConfig) {}},
		{name: "daily", mutate: func(c *model.ReportConfig) { c.LineChartStage = model.StageDaily }},
		{name: "negative bins", mutate: func(c *model.ReportConfig) { c.HistogramBins = -1 }, wantErr: "--bins"},
		{name: "max bins", mutate: func(c *model.ReportConfig) { c.HistogramBins = stats.MaxHistogramBins }},
		{name: "too many bins", mutate: func(c *model.ReportConfig) { c.HistogramBins = 100000000 }, wantErr: "--bins"},
		{name: "negative height", mutate: func(c *model.ReportConfig) { c.PlotHeight = -2 }, wantErr: "--plot-height"},
		{name: "unknown stage", mutate: func(c *model.ReportConfig) { c.LineChartStage = "weekly" }, wantErr: "--line-chart-stage"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			err := validateConfig(cfg)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %s, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var lines []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		lines = append(lines, line)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("template does not decode: %v", err)
	}
	r := cfg.Report
	if r.Out == nil || *r.Out != "all_swims.csv" {
		t.Fatalf("unexpected out: %v", r.Out)
	}
	if r.Histogram == nil || !*r.Histogram || r.Bins == nil || *r.Bins != 0 {
		t.Fatalf("unexpected histogram settings: %+v", r)
	}
	if r.LineChartStage == nil || *r.LineChartStage != model.StageNormalized {
		t.Fatalf("unexpected stage: %v", r.LineChartStage)
	}
	if r.PlotHeight == nil || *r.PlotHeight != defaultPlotHeight {
		t.Fatalf("unexpected plot height: %v", r.PlotHeight)
	}
}

func TestEnsureConfigFileKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swimtrend", "config.toml")
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("ensureConfigFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), "[report]") {
		t.Fatalf("expected template, got %q", data)
	}
	if err := os.WriteFile(path, []byte("[report]\nbins = 4\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("ensureConfigFile failed: %v", err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if string(data) != "[report]\nbins = 4\n" {
		t.Fatalf("expected existing config to be kept, got %q", data)
	}
}

func TestRootCmdUsesConfigAndFlags(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	cfgPath := filepath.Join(home, "swimtrend", "config.toml")
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(cfgPath, []byte("[report]\necho = true\nhistogram = true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	dir := t.TempDir()
	in := filepath.Join(dir, "swims.csv")
	if err := os.WriteFile(in, []byte("Time,Date\n30.00,\"Jan 1, 2023\"\n29.50,\"Jan 2, 2023\"\n"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	out := filepath.Join(dir, "derived.csv")

	cmd := newRootCmd()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--file", in, "--out", out, "--histogram=false"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	text := stdout.String()
	if !strings.Contains(text, "Normalized Swims (2)") {
		t.Fatalf("expected echo from config file, got:\n%s", text)
	}
	if strings.Contains(text, "Distribution of Scaled Percent Improvements") {
		t.Fatalf("expected --histogram=false to override config, got:\n%s", text)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected output file: %v", err)
	}
}

func TestRootCmdRequiresFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	if err == nil || err.Error() != "must supply file (--file <filepath>)" {
		t.Fatalf("expected missing file error, got %v", err)
	}
}
