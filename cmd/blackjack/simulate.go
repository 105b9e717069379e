package main

import (
	"fmt"
	"os"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/simulator"
)

// SimulateCmd runs autopilot sessions and reports the player's edge. Unset
// flags fall back to the simulation block of the configuration file.
type SimulateCmd struct {
	RulesFlags
	Sessions   int    `help:"Number of independent sessions"`
	Rounds     int    `help:"Rounds per session"`
	Workers    int    `help:"Sessions played in parallel"`
	Seed       *int64 `help:"Deterministic RNG seed (random when unset)"`
	Deviations bool   `help:"Play index deviations and take insurance by count"`
	BetSpread  int    `help:"Bet between 1 and N minimum units by true count"`
	Output     string `short:"o" type:"path" help:"Write a JSON report to this file"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	c.RulesFlags.apply(cfg)

	sim := &cfg.Simulation
	if c.Sessions > 0 {
		sim.Sessions = c.Sessions
	}
	if c.Rounds > 0 {
		sim.Rounds = c.Rounds
	}
	if c.Workers > 0 {
		sim.Workers = c.Workers
	}
	if c.Seed != nil {
		sim.Seed = *c.Seed
	}
	if c.Deviations {
		sim.Deviations = true
	}
	if c.BetSpread > 0 {
		sim.BetSpread = c.BetSpread
	}

	r, err := resolve(cfg)
	if err != nil {
		return err
	}
	logger, closeLog, err := g.logger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	seed := randutil.Seed(sim.Seed)
	logger.Info("Starting simulation",
		"rules", r.Summary(),
		"sessions", sim.Sessions,
		"rounds", sim.Rounds,
		"workers", sim.Workers,
		"seed", seed,
		"deviations", sim.Deviations,
		"bet_spread", sim.BetSpread)

	ctx := shared.SetupSignalHandler(logger)
	report, err := simulator.New(simulator.Config{
		Sessions:   sim.Sessions,
		Rounds:     sim.Rounds,
		Workers:    sim.Workers,
		Seed:       seed,
		Rules:      r,
		Deviations: sim.Deviations,
		BetSpread:  sim.BetSpread,
		Logger:     logger,
	}).Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	simulator.PrintSummary(os.Stdout, report)

	if c.Output != "" {
		if err := simulator.WriteReport(c.Output, report); err != nil {
			return err
		}
		logger.Info("Wrote report", "path", c.Output)
	}
	return nil
}
