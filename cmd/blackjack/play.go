package main

import (
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/coder/quartz"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/table"
	"github.com/lox/blackjack/internal/tui"
)

// PlayCmd runs the interactive table
type PlayCmd struct {
	RulesFlags
	Coach      bool `help:"Start with the strategy coach on"`
	Deviations bool `help:"Coach index deviations as well as basic strategy"`
	ShowCount  bool `help:"Show the running and true count"`
	TrainSoft  bool `help:"Deal only soft starting hands"`
	TrainPairs bool `help:"Deal only paired starting hands"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	c.RulesFlags.apply(cfg)
	if c.TrainSoft {
		cfg.Rules.TrainSoftHands = &c.TrainSoft
	}
	if c.TrainPairs {
		cfg.Rules.TrainPairedHands = &c.TrainPairs
	}
	r, err := resolve(cfg)
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal, so logs only go to a file
	logger, closeLog, err := g.logger(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := shared.SetupSignalHandler(logger)
	logger.Info("Starting table", "rules", r.Summary())

	tbl := table.New(r, table.WithLogger(logger))
	if c.Coach {
		tbl.ToggleCoach()
	}
	if c.Deviations {
		tbl.ToggleDeviations()
	}
	if c.ShowCount {
		tbl.ToggleCount()
	}
	seq := table.NewSequencer(quartz.NewReal(), logger, table.DefaultDelays(), nil)

	model := tui.NewModel(ctx, tbl, seq, logger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run interface: %w", err)
	}

	s := tbl.Snapshot()
	logger.Info("Table closed", "hands", s.HandsPlayed, "won", s.HandsWon, "chips", s.Chips)
	return nil
}
