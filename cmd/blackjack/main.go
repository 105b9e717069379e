package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/rules"
)

// version is set by ldflags during build
var version = "dev"

// Globals are the flags shared by every command
type Globals struct {
	Config   string `short:"c" default:"blackjack.hcl" env:"BLACKJACK_CONFIG" type:"path" help:"HCL configuration file (missing file uses defaults)"`
	LogLevel string `env:"BLACKJACK_LOG_LEVEL" help:"Override the configured log level"`
	LogFile  string `env:"BLACKJACK_LOG_FILE" type:"path" help:"Write logs to this file"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play at the table in the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Simulate sessions played by the autopilot"`
	Chart    ChartCmd         `cmd:"" help:"Print the basic strategy chart for a rule set"`
	Watch    WatchCmd         `cmd:"" help:"Watch the autopilot play rounds"`
}

// RulesFlags select the rule set on top of the configuration file
type RulesFlags struct {
	Preset string `env:"BLACKJACK_PRESET" help:"Rules preset (${presets})"`
	Decks  int    `help:"Override the number of decks"`
}

func (f RulesFlags) apply(cfg *config.Config) {
	if f.Preset != "" {
		cfg.Rules.Preset = f.Preset
	}
	if f.Decks > 0 {
		decks := f.Decks
		cfg.Rules.Decks = &decks
	}
}

func main() {
	// A .env file is optional; variables already set take precedence
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Blackjack table, strategy coach and simulator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
			"presets": strings.Join(rules.PresetNames(), ", "),
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// load reads the configuration file and applies the global overrides
func (g *Globals) load() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.LogFile != "" {
		cfg.Log.File = g.LogFile
	}
	return cfg, nil
}

// resolve validates cfg after command overrides and returns its rule set
func resolve(cfg *config.Config) (rules.CasinoRules, error) {
	if err := cfg.Validate(); err != nil {
		return rules.CasinoRules{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg.CasinoRules()
}

// logger builds the command logger. Without a log file it writes to
// console. The returned func closes the file.
func (g *Globals) logger(cfg *config.Config, console io.Writer) (*log.Logger, func(), error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Log.File == "" {
		return shared.SetupLogger(console, level, false), func() {}, nil
	}

	f, err := shared.OpenLogFile(cfg.Log.File)
	if err != nil {
		return nil, nil, err
	}
	logger := shared.SetupLogger(f, level, true)
	return logger, func() {
		if err := f.Close(); err != nil {
			log.Error("Failed to close log file", "error", err)
		}
	}, nil
}
