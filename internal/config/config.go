// Package config loads the HCL configuration shared by the blackjack
// commands: table rules, logging and simulation defaults.
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjack/internal/rules"
)

// Config represents the complete configuration file
type Config struct {
	Rules      RulesConfig
	Log        LogConfig
	Simulation SimulationConfig
}

// fileConfig mirrors Config with optional blocks so a file may omit any of
// them
type fileConfig struct {
	Rules      *RulesConfig      `hcl:"rules,block"`
	Log        *LogConfig        `hcl:"log,block"`
	Simulation *SimulationConfig `hcl:"simulation,block"`
}

// RulesConfig picks a preset and overrides individual settings. Unset
// attributes keep the preset's value.
type RulesConfig struct {
	Preset           string  `hcl:"preset,optional"`
	Decks            *int    `hcl:"decks,optional"`
	DealerHitsSoft17 *bool   `hcl:"dealer_hits_soft_17,optional"`
	DealerPeeks      *bool   `hcl:"dealer_peeks,optional"`
	BlackjackPayout  *string `hcl:"blackjack_payout,optional"`
	Surrender        *string `hcl:"surrender,optional"`
	DoubleAfterSplit *bool   `hcl:"double_after_split,optional"`
	DoubleOnAnyTwo   *bool   `hcl:"double_on_any_two,optional"`
	ResplitAces      *bool   `hcl:"resplit_aces,optional"`
	HitSplitAces     *bool   `hcl:"hit_split_aces,optional"`
	MaxSplitHands    *int    `hcl:"max_split_hands,optional"`
	Insurance        *bool   `hcl:"insurance,optional"`
	ThreeSevensBonus *bool   `hcl:"three_sevens_bonus,optional"`
	InitialChips     *int    `hcl:"initial_chips,optional"`
	MinimumBet       *int    `hcl:"minimum_bet,optional"`
	MaximumBet       *int    `hcl:"maximum_bet,optional"`
	TrainSoftHands   *bool   `hcl:"train_soft_hands,optional"`
	TrainPairedHands *bool   `hcl:"train_paired_hands,optional"`
	ExtraPlayers     *int    `hcl:"extra_players,optional"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// SimulationConfig holds the defaults for the simulate command
type SimulationConfig struct {
	Sessions   int   `hcl:"sessions,optional"`
	Rounds     int   `hcl:"rounds,optional"`
	Workers    int   `hcl:"workers,optional"`
	Seed       int64 `hcl:"seed,optional"`
	Deviations bool  `hcl:"deviations,optional"`
	BetSpread  int   `hcl:"bet_spread,optional"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Rules: RulesConfig{Preset: rules.PresetDefault},
		Log:   LogConfig{Level: "info"},
		Simulation: SimulationConfig{
			Sessions:  8,
			Rounds:    10000,
			Workers:   runtime.NumCPU(),
			BetSpread: 1,
		},
	}
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config := Default()
	if fc.Rules != nil {
		config.Rules = *fc.Rules
		if config.Rules.Preset == "" {
			config.Rules.Preset = rules.PresetDefault
		}
	}
	if fc.Log != nil {
		config.Log = *fc.Log
		if config.Log.Level == "" {
			config.Log.Level = "info"
		}
	}
	if fc.Simulation != nil {
		sim := *fc.Simulation
		defaults := config.Simulation
		if sim.Sessions == 0 {
			sim.Sessions = defaults.Sessions
		}
		if sim.Rounds == 0 {
			sim.Rounds = defaults.Rounds
		}
		if sim.Workers == 0 {
			sim.Workers = defaults.Workers
		}
		if sim.BetSpread == 0 {
			sim.BetSpread = defaults.BetSpread
		}
		config.Simulation = sim
	}

	return config, nil
}

// CasinoRules builds the rule set: the preset first, then each override
func (c *Config) CasinoRules() (rules.CasinoRules, error) {
	rc := c.Rules
	r, err := rules.FromPreset(rc.Preset)
	if err != nil {
		return r, err
	}

	setInt(&r.Decks, rc.Decks)
	setInt(&r.MaxSplitHands, rc.MaxSplitHands)
	setInt(&r.InitialChips, rc.InitialChips)
	setInt(&r.MinimumBet, rc.MinimumBet)
	setInt(&r.MaximumBet, rc.MaximumBet)
	setInt(&r.ExtraPlayers, rc.ExtraPlayers)

	if rc.DealerHitsSoft17 != nil {
		r.DealerStandsOnSoft17 = !*rc.DealerHitsSoft17
	}
	setBool(&r.DealerPeeks, rc.DealerPeeks)
	setBool(&r.DoubleAfterSplit, rc.DoubleAfterSplit)
	setBool(&r.DoubleOnAnyTwo, rc.DoubleOnAnyTwo)
	setBool(&r.ResplitAces, rc.ResplitAces)
	setBool(&r.HitSplitAces, rc.HitSplitAces)
	setBool(&r.InsuranceAvailable, rc.Insurance)
	setBool(&r.ThreeSevensBonus, rc.ThreeSevensBonus)
	setBool(&r.TrainSoftHands, rc.TrainSoftHands)
	setBool(&r.TrainPairedHands, rc.TrainPairedHands)

	if rc.BlackjackPayout != nil {
		if r.BlackjackPayout, err = rules.ParseBlackjackPayout(*rc.BlackjackPayout); err != nil {
			return r, err
		}
	}
	if rc.Surrender != nil {
		if r.Surrender, err = rules.ParseSurrenderPolicy(*rc.Surrender); err != nil {
			return r, err
		}
	}
	return r, nil
}

// LogLevel parses the configured level
func (c *Config) LogLevel() (log.Level, error) {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	return level, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	r, err := c.CasinoRules()
	if err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	if err := r.Validate(); err != nil {
		return fmt.Errorf("rules: %w", err)
	}

	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	sim := c.Simulation
	if sim.Sessions < 1 {
		return fmt.Errorf("simulation: sessions must be positive, got %d", sim.Sessions)
	}
	if sim.Rounds < 1 {
		return fmt.Errorf("simulation: rounds must be positive, got %d", sim.Rounds)
	}
	if sim.Workers < 1 {
		return fmt.Errorf("simulation: workers must be positive, got %d", sim.Workers)
	}
	if sim.BetSpread < 1 {
		return fmt.Errorf("simulation: bet spread must be at least 1, got %d", sim.BetSpread)
	}
	if limit := r.MaximumBet / r.MinimumBet; sim.BetSpread > limit {
		return fmt.Errorf("simulation: bet spread %d exceeds the table limit of %d units", sim.BetSpread, limit)
	}

	return nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
