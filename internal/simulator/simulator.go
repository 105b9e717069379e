package simulator

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/gameid"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/rules"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/lox/blackjack/internal/strategy"
	"github.com/lox/blackjack/internal/table"
)

// maxActionsPerRound bounds the decisions in one round. Four split hands
// hitting to 21 one card at a time stay well below it.
const maxActionsPerRound = 256

// Config holds configuration for running simulations
type Config struct {
	Sessions   int
	Rounds     int // rounds per session
	Workers    int
	Seed       int64
	Rules      rules.CasinoRules
	Deviations bool
	// BetSpread is the largest bet in minimum-bet units. Above 1 the bet
	// ramps with the true count: one unit per point of true count.
	BetSpread int
	Logger    *log.Logger
}

// Report is the result of a simulation run
type Report struct {
	Rules      string                 `json:"rules"`
	Sessions   int                    `json:"sessions"`
	Seed       int64                  `json:"seed"`
	Deviations bool                   `json:"deviations"`
	BetSpread  int                    `json:"bet_spread"`
	Elapsed    time.Duration          `json:"elapsed_ns"`
	Decisions  int                    `json:"decisions"`
	IndexPlays int                    `json:"index_plays"`
	Bankrupt   int                    `json:"bankrupt"`
	Stats      *statistics.Statistics `json:"-"`
	Summary    Summary                `json:"summary"`
}

// Summary is the serialisable digest of the statistics
type Summary struct {
	Rounds     int            `json:"rounds"`
	Hands      int            `json:"hands"`
	Mean       float64        `json:"mean_units"`
	StdDev     float64        `json:"stddev_units"`
	CILow      float64        `json:"ci95_low"`
	CIHigh     float64        `json:"ci95_high"`
	Edge       float64        `json:"player_edge"`
	Wins       int            `json:"wins"`
	Losses     int            `json:"losses"`
	Pushes     int            `json:"pushes"`
	Blackjacks int            `json:"blackjacks"`
	Buckets    []BucketReport `json:"count_buckets"`
}

// BucketReport is one true-count bucket of the summary
type BucketReport struct {
	Label  string  `json:"label"`
	Rounds int     `json:"rounds"`
	Mean   float64 `json:"mean_units"`
}

// Simulator runs autopilot blackjack sessions
type Simulator struct {
	config Config
	logger *log.Logger
	// tables log per-round results at Info, which is noise across thousands
	// of sessions
	tableLogger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	config.Rules = config.Rules.Clamped()
	config.Sessions = max(config.Sessions, 1)
	config.Workers = max(config.Workers, 1)
	config.BetSpread = max(config.BetSpread, 1)
	tableLogger := config.Logger.With()
	tableLogger.SetLevel(max(config.Logger.GetLevel(), log.WarnLevel))
	return &Simulator{
		config:      config,
		logger:      config.Logger.WithPrefix("simulator"),
		tableLogger: tableLogger,
	}
}

// session is the outcome of one worker's session
type session struct {
	stats      *statistics.Statistics
	decisions  int
	indexPlays int
	bankrupt   int
}

// Run plays every session and merges the results in session order, so a
// seed reproduces the same report regardless of worker scheduling.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	results := make([]session, s.config.Sessions)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for i := range s.config.Sessions {
		g.Go(func() error {
			res, err := s.playSession(ctx, i)
			if err != nil {
				return fmt.Errorf("session %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		Rules:      s.config.Rules.Summary(),
		Sessions:   s.config.Sessions,
		Seed:       s.config.Seed,
		Deviations: s.config.Deviations,
		BetSpread:  s.config.BetSpread,
		Stats:      &statistics.Statistics{},
	}
	for _, res := range results {
		report.Stats.Merge(res.stats)
		report.Decisions += res.decisions
		report.IndexPlays += res.indexPlays
		report.Bankrupt += res.bankrupt
	}

	if err := report.Stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	report.Elapsed = time.Since(start)
	report.Summary = summarize(report.Stats)

	s.logger.Info("Simulation complete",
		"rounds", report.Stats.Rounds,
		"mean", fmt.Sprintf("%.4f", report.Stats.Mean()),
		"elapsed", report.Elapsed.Round(time.Millisecond))
	return report, nil
}

// playSession plays one session on its own table. Tables share nothing, so
// sessions need no locking.
func (s *Simulator) playSession(ctx context.Context, n int) (session, error) {
	seed := randutil.Derive(s.config.Seed, n)
	rng := randutil.New(seed)
	tbl := table.New(s.config.Rules,
		table.WithLogger(s.tableLogger),
		table.WithRNG(rng),
		table.WithIDGenerator(gameid.NewGenerator(rand.NewChaCha8(seedBytes(seed)))),
	)
	pilot := strategy.Autopilot{Deviations: s.config.Deviations}
	res := session{stats: &statistics.Statistics{}}

	for round := range s.config.Rounds {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		before := tbl.Snapshot()
		tbl.AdjustBet(s.betFor(before.TrueCount))
		if !tbl.Deal() {
			return res, fmt.Errorf("round %d: deal rejected in %s", round, before.Phase)
		}
		trueCount := tbl.Snapshot().TrueCount

		if err := s.playRound(tbl, pilot, &res); err != nil {
			return res, fmt.Errorf("round %d (seed %d): %w", round, seed, err)
		}

		after := tbl.Snapshot()
		unit := float64(s.config.Rules.MinimumBet)
		wagered := after.InsuranceBet
		for _, h := range after.Hands {
			wagered += h.Bet
		}
		res.stats.Add(statistics.RoundResult{
			NetUnits:  float64(after.Chips-before.Chips) / unit,
			Wagered:   float64(wagered) / unit,
			Seed:      seed,
			TrueCount: trueCount,
			Results:   after.Results,
		})

		if after.Phase == table.PhaseGameOver {
			s.logger.Debug("Session bankrupt, restarting", "session", n, "round", round)
			res.bankrupt++
			tbl.ResetGame()
			continue
		}
		tbl.NewRound()
	}
	return res, nil
}

// playRound drives the table until the round settles
func (s *Simulator) playRound(tbl *table.Table, pilot strategy.Autopilot, res *session) error {
	for range maxActionsPerRound {
		tbl.Drain()
		snap := tbl.Snapshot()
		switch snap.Phase {
		case table.PhaseInsuranceOffered:
			choice := pilot.DecideInsurance(snap.Available, snap.TrueCount)
			if !tbl.Apply(choice) {
				return fmt.Errorf("%s rejected with %s", choice, snap.Available)
			}
		case table.PhasePlayerTurn:
			hand, ok := snap.ActiveHandState()
			if !ok {
				return fmt.Errorf("no active hand in %s", snap.Phase)
			}
			up, _ := snap.Dealer.UpCard()
			advice := pilot.Decide(hand, up, snap.Available, snap.Rules, snap.RunningCount, snap.TrueCount)
			if !tbl.Apply(advice.Action) {
				return fmt.Errorf("%s rejected with %s", advice.Action, snap.Available)
			}
			res.decisions++
			if advice.IsDeviation {
				res.indexPlays++
			}
		case table.PhaseRoundComplete, table.PhaseGameOver:
			return nil
		default:
			return fmt.Errorf("round stuck in %s", snap.Phase)
		}
	}
	return fmt.Errorf("round did not settle after %d actions", maxActionsPerRound)
}

// betFor sizes the next bet from the true count
func (s *Simulator) betFor(trueCount float64) int {
	units := 1
	if s.config.BetSpread > 1 {
		units = max(1, min(int(math.Floor(trueCount)), s.config.BetSpread))
	}
	return units * s.config.Rules.MinimumBet
}

func seedBytes(seed int64) [32]byte {
	var b [32]byte
	u := uint64(seed)
	for i := range b {
		b[i] = byte(u >> (8 * (i % 8)))
	}
	return b
}

func summarize(stats *statistics.Statistics) Summary {
	low, high := stats.ConfidenceInterval95()
	sum := Summary{
		Rounds:     stats.Rounds,
		Hands:      stats.Hands,
		Mean:       stats.Mean(),
		StdDev:     stats.StdDev(),
		CILow:      low,
		CIHigh:     high,
		Edge:       stats.PlayerEdge(),
		Wins:       stats.Wins,
		Losses:     stats.Losses,
		Pushes:     stats.Pushes,
		Blackjacks: stats.Blackjacks,
	}
	for i := range statistics.BucketCount {
		sum.Buckets = append(sum.Buckets, BucketReport{
			Label:  statistics.BucketLabel(i),
			Rounds: stats.CountBuckets[i].Rounds,
			Mean:   stats.BucketMean(i),
		})
	}
	return sum
}

// RunSimulation is a convenience function for running a simulation with basic parameters
func RunSimulation(ctx context.Context, sessions, rounds int, seed int64, logger *log.Logger) (*Report, error) {
	config := Config{
		Sessions: sessions,
		Rounds:   rounds,
		Workers:  1,
		Seed:     seed,
		Rules:    rules.Default(),
		Logger:   logger,
	}
	return New(config).Run(ctx)
}

// WriteReport writes the report as indented JSON. Readers polling the path
// see either the previous report or the complete new one.
func WriteReport(path string, report *Report) error {
	if err := fileutil.WriteJSON(path, report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// PrintSummary prints a comprehensive summary of simulation results
func PrintSummary(w io.Writer, report *Report) {
	stats := report.Stats
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== FINAL RESULTS ===\n")
	fmt.Fprintf(w, "Rules: %s\n", report.Rules)
	fmt.Fprintf(w, "Sessions: %d, rounds played: %d, hands: %d\n", report.Sessions, stats.Rounds, stats.Hands)
	if report.Bankrupt > 0 {
		fmt.Fprintf(w, "Bankroll busts: %d\n", report.Bankrupt)
	}

	fmt.Fprintf(w, "\n=== STATISTICAL RESULTS ===\n")
	fmt.Fprintf(w, "Mean: %.4f units/round\n", stats.Mean())
	fmt.Fprintf(w, "Median: %.4f units/round\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.4f units\n", stats.StdDev())
	fmt.Fprintf(w, "Std Error: %.4f units\n", stats.StdError())
	fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] units/round\n", low, high)
	fmt.Fprintf(w, "Player edge: %.3f%% of money wagered\n", stats.PlayerEdge()*100)

	fmt.Fprintf(w, "\n=== OUTCOMES ===\n")
	if stats.Hands > 0 {
		pct := func(n int) float64 { return float64(n) / float64(stats.Hands) * 100 }
		fmt.Fprintf(w, "Wins: %d (%.1f%%), losses: %d (%.1f%%), pushes: %d (%.1f%%)\n",
			stats.Wins, pct(stats.Wins), stats.Losses, pct(stats.Losses), stats.Pushes, pct(stats.Pushes))
		fmt.Fprintf(w, "Blackjacks: %d, busts: %d, surrenders: %d\n", stats.Blackjacks, stats.Busts, stats.Surrenders)
	}
	fmt.Fprintf(w, "Biggest win: %.1f units, biggest loss: %.1f units\n", stats.MaxWin, stats.MaxLoss)
	if report.Decisions > 0 {
		fmt.Fprintf(w, "Index plays: %d of %d decisions (%.2f%%)\n",
			report.IndexPlays, report.Decisions, float64(report.IndexPlays)/float64(report.Decisions)*100)
	}

	fmt.Fprintf(w, "\n=== TRUE COUNT ANALYSIS ===\n")
	for _, b := range summarize(stats).Buckets {
		if b.Rounds > 0 {
			fmt.Fprintf(w, "TC %4s: %d rounds, %.3f units/round\n", b.Label, b.Rounds, b.Mean)
		}
	}
}
