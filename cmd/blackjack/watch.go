package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/coder/quartz"
	"github.com/mattn/go-isatty"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/strategy"
	"github.com/lox/blackjack/internal/table"
)

// maxActionsPerRound stops a round that never settles
const maxActionsPerRound = 256

// WatchCmd prints the autopilot's rounds as they are dealt
type WatchCmd struct {
	RulesFlags
	Rounds     int    `default:"10" help:"Number of rounds to play"`
	Seed       *int64 `help:"Deterministic RNG seed (random when unset)"`
	Deviations bool   `help:"Play index deviations"`
	ShowCount  bool   `help:"Print the running count after each card"`
	Fast       bool   `help:"Deal without pauses"`
}

func (c *WatchCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	c.RulesFlags.apply(cfg)
	r, err := resolve(cfg)
	if err != nil {
		return err
	}
	logger, closeLog, err := g.logger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	var seed int64
	if c.Seed != nil {
		seed = *c.Seed
	}
	seed = randutil.Seed(seed)
	logger.Info("Watching autopilot", "rules", r.Summary(), "rounds", c.Rounds, "seed", seed)

	tbl := table.New(r, table.WithLogger(shared.Quiet(logger)), table.WithRNG(randutil.New(seed)))
	tbl.EventBus().Subscribe(&eventPrinter{
		w: os.Stdout,
		formatter: table.NewEventFormatter(table.FormattingOptions{
			Color:     isatty.IsTerminal(os.Stdout.Fd()),
			ShowCount: c.ShowCount,
		}),
	})

	delays := table.DefaultDelays()
	if c.Fast {
		delays = table.Delays{}
	}
	seq := table.NewSequencer(quartz.NewReal(), logger, delays, nil)

	ctx := shared.SetupSignalHandler(logger)
	played, err := autoplay(ctx, tbl, seq, strategy.Autopilot{Deviations: c.Deviations}, c.Rounds)
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	s := tbl.Snapshot()
	fmt.Printf("\nPlayed %d rounds: %d hands won, chips $%d\n", played, s.HandsWon, s.Chips)
	return err
}

// eventPrinter writes each formatted table event on its own line
type eventPrinter struct {
	w         io.Writer
	formatter *table.EventFormatter
}

func (p *eventPrinter) OnEvent(event table.GameEvent) {
	if line := p.formatter.Format(event); line != "" {
		fmt.Fprintln(p.w, line)
	}
}

// autoplay plays up to rounds rounds, pacing reveals with seq. It stops
// early when the bankroll runs out and returns the rounds completed.
func autoplay(ctx context.Context, tbl *table.Table, seq *table.Sequencer, pilot strategy.Autopilot, rounds int) (int, error) {
	for played := range rounds {
		if !tbl.Deal() {
			return played, fmt.Errorf("deal rejected in %s", tbl.Phase())
		}
		if err := playOut(ctx, tbl, seq, pilot); err != nil {
			return played, err
		}
		if tbl.Phase() == table.PhaseGameOver {
			return played + 1, nil
		}
		tbl.NewRound()
	}
	return rounds, nil
}

// playOut reveals and decides until the round settles
func playOut(ctx context.Context, tbl *table.Table, seq *table.Sequencer, pilot strategy.Autopilot) error {
	for range maxActionsPerRound {
		if err := seq.Play(ctx, tbl); err != nil {
			return err
		}

		s := tbl.Snapshot()
		var action game.Action
		switch s.Phase {
		case table.PhaseInsuranceOffered:
			action = pilot.DecideInsurance(s.Available, s.TrueCount)
		case table.PhasePlayerTurn:
			hand, ok := s.ActiveHandState()
			if !ok {
				return fmt.Errorf("no active hand in %s", s.Phase)
			}
			up, _ := s.Dealer.UpCard()
			action = pilot.Decide(hand, up, s.Available, s.Rules, s.RunningCount, s.TrueCount).Action
		case table.PhaseRoundComplete, table.PhaseGameOver:
			return nil
		default:
			return fmt.Errorf("round stuck in %s", s.Phase)
		}

		if !tbl.Apply(action) {
			return fmt.Errorf("%s rejected with %s", action, s.Available)
		}
	}
	return fmt.Errorf("round did not settle after %d actions", maxActionsPerRound)
}
