package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/rules"
	"github.com/lox/blackjack/internal/strategy"
	"github.com/lox/blackjack/internal/table"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blackjack.hcl")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestGlobalsLoadAppliesOverrides(t *testing.T) {
	path := writeConfig(t, `
rules {
  preset = "vegas"
}
log {
  level = "warn"
}
`)
	g := Globals{Config: path, LogLevel: "debug", LogFile: "/tmp/blackjack.log"}
	cfg, err := g.load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Rules.Preset != "vegas" {
		t.Fatalf("preset mismatch: want vegas got %q", cfg.Rules.Preset)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level flag should win over the file, got %q", cfg.Log.Level)
	}
	if cfg.Log.File != "/tmp/blackjack.log" {
		t.Fatalf("log file mismatch: got %q", cfg.Log.File)
	}
}

func TestGlobalsLoadMissingFileUsesDefaults(t *testing.T) {
	g := Globals{Config: filepath.Join(t.TempDir(), "absent.hcl")}
	cfg, err := g.load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Rules.Preset != rules.PresetDefault {
		t.Fatalf("expected default preset, got %q", cfg.Rules.Preset)
	}
}

func TestRulesFlagsApply(t *testing.T) {
	cfg := config.Default()
	RulesFlags{Preset: "favorable", Decks: 2}.apply(cfg)

	r, err := resolve(cfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if r.Decks != 2 {
		t.Fatalf("decks flag should override the preset, got %d", r.Decks)
	}
	if r.Surrender != rules.SurrenderEarly {
		t.Fatalf("expected the favorable preset's early surrender, got %s", r.Surrender)
	}
}

func TestResolveRejectsUnknownPreset(t *testing.T) {
	cfg := config.Default()
	RulesFlags{Preset: "atlantis"}.apply(cfg)
	_, err := resolve(cfg)
	if err == nil || !strings.Contains(err.Error(), "unknown rules preset") {
		t.Fatalf("expected unknown preset error, got %v", err)
	}
}

func TestGlobalsLoggerWritesFile(t *testing.T) {
	cfg := config.Default()
	cfg.Log.File = filepath.Join(t.TempDir(), "play.log")
	var g Globals

	logger, closeLog, err := g.logger(cfg, io.Discard)
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	logger.Info("Starting table")
	closeLog()

	data, err := os.ReadFile(cfg.Log.File)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "Starting table") {
		t.Fatalf("log file missing entry: %q", data)
	}
}

func TestGlobalsLoggerRejectsBadLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "chatty"
	var g Globals
	if _, _, err := g.logger(cfg, io.Discard); err == nil {
		t.Fatalf("expected invalid level error")
	}
}

func TestAutoplayPrintsRounds(t *testing.T) {
	logger := log.New(io.Discard)
	tbl := table.New(rules.Default(), table.WithLogger(logger), table.WithRNG(randutil.New(7)))

	var out bytes.Buffer
	tbl.EventBus().Subscribe(&eventPrinter{
		w:         &out,
		formatter: table.NewEventFormatter(table.FormattingOptions{ShowCount: true}),
	})
	seq := table.NewSequencer(quartz.NewReal(), logger, table.Delays{}, nil)

	played, err := autoplay(context.Background(), tbl, seq, strategy.Autopilot{Deviations: true}, 5)
	if err != nil {
		t.Fatalf("autoplay: %v", err)
	}
	if played != 5 {
		t.Fatalf("expected 5 rounds, got %d", played)
	}
	if got := tbl.Snapshot().HandsPlayed; got != 5 {
		t.Fatalf("hands played mismatch: want 5 got %d", got)
	}
	if tbl.Pending() != 0 {
		t.Fatalf("steps left pending after autoplay: %d", tbl.Pending())
	}
	if !strings.Contains(out.String(), "(RC ") {
		t.Fatalf("expected running count in output, got:\n%s", out.String())
	}
}

func TestAutoplayStopsWhenBroke(t *testing.T) {
	r := rules.Default()
	r.InitialChips = r.MinimumBet
	logger := log.New(io.Discard)
	tbl := table.New(r, table.WithLogger(logger), table.WithRNG(randutil.New(3)))
	seq := table.NewSequencer(quartz.NewReal(), logger, table.Delays{}, nil)

	played, err := autoplay(context.Background(), tbl, seq, strategy.Autopilot{}, 20000)
	if err != nil {
		t.Fatalf("autoplay: %v", err)
	}
	if played == 20000 {
		t.Fatalf("a one-bet bankroll should not last 20000 rounds")
	}
	if tbl.Phase() != table.PhaseGameOver {
		t.Fatalf("expected game over, got %s", tbl.Phase())
	}
}

func TestAutoplayCancelled(t *testing.T) {
	logger := log.New(io.Discard)
	tbl := table.New(rules.Default(), table.WithLogger(logger), table.WithRNG(randutil.New(1)))
	seq := table.NewSequencer(quartz.NewReal(), logger, table.DefaultDelays(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	played, err := autoplay(ctx, tbl, seq, strategy.Autopilot{}, 3)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if played != 0 {
		t.Fatalf("expected no completed rounds, got %d", played)
	}
	if tbl.Pending() != 0 {
		t.Fatalf("a cancelled reveal must not leave the round half dealt")
	}
}
