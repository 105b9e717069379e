package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/rules"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.ErrorLevel})
}

func TestNew(t *testing.T) {
	r := rules.Default()
	r.Decks = 20
	simulator := New(Config{Rounds: 100, Seed: 12345, Rules: r})
	if simulator == nil {
		t.Fatal("New() returned nil")
	}
	if simulator.config.Sessions != 1 || simulator.config.Workers != 1 {
		t.Errorf("Expected sessions and workers to default to 1, got %d and %d",
			simulator.config.Sessions, simulator.config.Workers)
	}
	if simulator.config.BetSpread != 1 {
		t.Errorf("Expected flat betting by default, got spread %d", simulator.config.BetSpread)
	}
	if simulator.config.Rules.Decks != 8 {
		t.Errorf("Expected rules to be clamped to 8 decks, got %d", simulator.config.Rules.Decks)
	}
}

func TestRunSimulation_Convenience(t *testing.T) {
	report, err := RunSimulation(context.Background(), 2, 50, 12345, quietLogger())
	if err != nil {
		t.Fatalf("RunSimulation failed: %v", err)
	}
	if report.Stats.Rounds != 100 {
		t.Errorf("Expected 100 rounds, got %d", report.Stats.Rounds)
	}
	if report.Stats.Hands < report.Stats.Rounds {
		t.Errorf("Expected at least one hand per round, got %d hands", report.Stats.Hands)
	}
	if report.IndexPlays != 0 {
		t.Errorf("Basic strategy should make no index plays, got %d", report.IndexPlays)
	}
}

func TestSimulator_Deterministic(t *testing.T) {
	run := func(workers int) *Report {
		t.Helper()
		config := Config{
			Sessions:   6,
			Rounds:     40,
			Workers:    workers,
			Seed:       42,
			Rules:      rules.Default(),
			Deviations: true,
			BetSpread:  8,
			Logger:     quietLogger(),
		}
		report, err := New(config).Run(context.Background())
		if err != nil {
			t.Fatalf("Run() failed: %v", err)
		}
		return report
	}

	serial, parallel := run(1), run(4)
	if serial.Stats.SumNet != parallel.Stats.SumNet {
		t.Errorf("Worker count changed the result: %f vs %f", serial.Stats.SumNet, parallel.Stats.SumNet)
	}
	if serial.Decisions != parallel.Decisions || serial.IndexPlays != parallel.IndexPlays {
		t.Errorf("Worker count changed decisions: %d/%d vs %d/%d",
			serial.Decisions, serial.IndexPlays, parallel.Decisions, parallel.IndexPlays)
	}
	for i, v := range serial.Stats.Values {
		if parallel.Stats.Values[i] != v {
			t.Fatalf("Round %d differs: %f vs %f", i, v, parallel.Stats.Values[i])
		}
	}
}

func TestSimulator_RulesVariants(t *testing.T) {
	for _, name := range rules.PresetNames() {
		t.Run(name, func(t *testing.T) {
			r, err := rules.FromPreset(name)
			if err != nil {
				t.Fatal(err)
			}
			r.ExtraPlayers = 2
			report, err := New(Config{
				Sessions: 2,
				Rounds:   150,
				Workers:  2,
				Seed:     7,
				Rules:    r,
				Logger:   quietLogger(),
			}).Run(context.Background())
			if err != nil {
				t.Fatalf("Run() failed: %v", err)
			}
			if err := report.Stats.Validate(); err != nil {
				t.Errorf("invalid statistics: %v", err)
			}
		})
	}
}

func TestSimulator_SmallBankrollGoesBust(t *testing.T) {
	r := rules.Default()
	r.InitialChips = 10
	report, err := New(Config{Rounds: 3000, Seed: 3, Rules: r, Logger: quietLogger()}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if report.Bankrupt == 0 {
		t.Error("Expected a one-bet bankroll to bust within 3000 rounds")
	}
	if report.Stats.Rounds != 3000 {
		t.Errorf("Expected play to continue after a bust, got %d rounds", report.Stats.Rounds)
	}
}

func TestSimulator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{Sessions: 2, Rounds: 10, Rules: rules.Default()}).Run(ctx)
	if err == nil {
		t.Fatal("Expected an error from a cancelled run")
	}
}

func TestBetFor(t *testing.T) {
	flat := New(Config{Rules: rules.Default()})
	spread := New(Config{Rules: rules.Default(), BetSpread: 4})

	tests := []struct {
		sim       *Simulator
		trueCount float64
		expected  int
	}{
		{flat, 5, 10},
		{spread, -3, 10},
		{spread, 1.9, 10},
		{spread, 2.1, 20},
		{spread, 3, 30},
		{spread, 9, 40},
	}

	for _, test := range tests {
		if got := test.sim.betFor(test.trueCount); got != test.expected {
			t.Errorf("betFor(%v) with spread %d = %d, want %d",
				test.trueCount, test.sim.config.BetSpread, got, test.expected)
		}
	}
}

func TestWriteReport(t *testing.T) {
	report, err := RunSimulation(context.Background(), 1, 20, 99, quietLogger())
	if err != nil {
		t.Fatalf("RunSimulation failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "report.json")
	if err := WriteReport(path, report); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	var decoded struct {
		Seed    int64 `json:"seed"`
		Summary struct {
			Rounds  int `json:"rounds"`
			Buckets []struct {
				Label string `json:"label"`
			} `json:"count_buckets"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Report is not valid JSON: %v", err)
	}
	if decoded.Seed != 99 || decoded.Summary.Rounds != 20 {
		t.Errorf("Unexpected report header: seed %d, rounds %d", decoded.Seed, decoded.Summary.Rounds)
	}
	if len(decoded.Summary.Buckets) != 7 {
		t.Errorf("Expected 7 count buckets, got %d", len(decoded.Summary.Buckets))
	}
}

func TestPrintSummary(t *testing.T) {
	report, err := RunSimulation(context.Background(), 1, 30, 5, quietLogger())
	if err != nil {
		t.Fatalf("RunSimulation failed: %v", err)
	}

	var buf bytes.Buffer
	PrintSummary(&buf, report)
	out := buf.String()
	for _, want := range []string{"=== FINAL RESULTS ===", "95% CI", "Player edge", "=== TRUE COUNT ANALYSIS ==="} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in summary:\n%s", want, out)
		}
	}
}
