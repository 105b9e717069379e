package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjack/internal/game"
)

// RoundResult represents the outcome of a single blackjack round
type RoundResult struct {
	NetUnits  float64       // Net result in base betting units
	Wagered   float64       // Units put at risk, including doubles, splits and insurance
	Seed      int64         // Session seed the round was dealt from (for replay)
	TrueCount float64       // True count when the round was dealt
	Results   []game.Result // Per-hand outcomes
}

// BucketStats tracks statistics for rounds dealt at one true count
type BucketStats struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64
}

// Mean returns the mean result of the bucket in units per round
func (b BucketStats) Mean() float64 {
	if b.Rounds == 0 {
		return 0
	}
	return b.SumNet / float64(b.Rounds)
}

// True-count buckets run from "-2 or lower" to "+4 or higher"
const (
	minBucket   = -2
	maxBucket   = 4
	BucketCount = maxBucket - minBucket + 1
)

// BucketIndex maps a true count to its bucket. Counts are truncated toward
// zero the way players floor the true count at the table.
func BucketIndex(trueCount float64) int {
	tc := int(math.Trunc(trueCount))
	tc = max(minBucket, min(tc, maxBucket))
	return tc - minBucket
}

// BucketLabel returns the display label of bucket i, e.g. "≤-2", "+1", "≥+4"
func BucketLabel(i int) string {
	tc := i + minBucket
	switch {
	case tc <= minBucket:
		return fmt.Sprintf("≤%d", minBucket)
	case tc >= maxBucket:
		return fmt.Sprintf("≥+%d", maxBucket)
	default:
		return fmt.Sprintf("%+d", tc)
	}
}

// Statistics tracks blackjack simulation statistics
type Statistics struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // Store all values for median/percentile calculation
	Wagered float64

	// Hand outcomes, counted per hand so splits count twice
	Hands       int
	Wins        int
	Losses      int
	Pushes      int
	Blackjacks  int
	Busts       int
	Surrenders  int
	ThreeSevens int

	WinningRounds int
	LosingRounds  int
	AllNet        float64 // Total units for the ledger check

	// True count analytics
	CountBuckets [BucketCount]BucketStats

	// Swing analytics
	MaxWin      float64
	MaxLoss     float64
	BigSwings   int     // Rounds won or lost by 4 units or more
	BigSwingNet float64 // Units from big swings
}

// Mean returns the arithmetic mean of all results in units per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// PlayerEdge returns the net result per unit wagered
func (s *Statistics) PlayerEdge() float64 {
	if s.Wagered == 0 {
		return 0
	}
	return s.SumNet / s.Wagered
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	net := result.NetUnits
	s.Rounds++
	s.SumNet += net
	s.SumNet2 += net * net
	s.Values = append(s.Values, net)
	s.Wagered += result.Wagered
	s.AllNet += net

	switch {
	case net > 0:
		s.WinningRounds++
	case net < 0:
		s.LosingRounds++
	}

	for _, r := range result.Results {
		s.Hands++
		switch r {
		case game.ResultWin:
			s.Wins++
		case game.ResultBlackjack:
			s.Wins++
			s.Blackjacks++
		case game.ResultThreeSevens:
			s.Wins++
			s.ThreeSevens++
		case game.ResultPush:
			s.Pushes++
		case game.ResultBust:
			s.Losses++
			s.Busts++
		case game.ResultSurrender:
			s.Losses++
			s.Surrenders++
		default:
			s.Losses++
		}
	}

	b := &s.CountBuckets[BucketIndex(result.TrueCount)]
	b.Rounds++
	b.SumNet += net
	b.SumNet2 += net * net

	s.MaxWin = max(s.MaxWin, net)
	s.MaxLoss = min(s.MaxLoss, net)
	if math.Abs(net) >= 4 {
		s.BigSwings++
		s.BigSwingNet += net
	}
}

// Merge folds other into s. Percentiles stay exact because values are kept.
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.Values = append(s.Values, other.Values...)
	s.Wagered += other.Wagered
	s.Hands += other.Hands
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.Blackjacks += other.Blackjacks
	s.Busts += other.Busts
	s.Surrenders += other.Surrenders
	s.ThreeSevens += other.ThreeSevens
	s.WinningRounds += other.WinningRounds
	s.LosingRounds += other.LosingRounds
	s.AllNet += other.AllNet
	for i := range s.CountBuckets {
		s.CountBuckets[i].Rounds += other.CountBuckets[i].Rounds
		s.CountBuckets[i].SumNet += other.CountBuckets[i].SumNet
		s.CountBuckets[i].SumNet2 += other.CountBuckets[i].SumNet2
	}
	s.MaxWin = max(s.MaxWin, other.MaxWin)
	s.MaxLoss = min(s.MaxLoss, other.MaxLoss)
	s.BigSwings += other.BigSwings
	s.BigSwingNet += other.BigSwingNet
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func (s *Statistics) sorted() []float64 {
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)
	return sorted
}

// BucketMean returns the mean result for rounds dealt in bucket i
func (s *Statistics) BucketMean(i int) float64 {
	if i < 0 || i >= BucketCount {
		return 0
	}
	return s.CountBuckets[i].Mean()
}

// IsLedgerBalanced checks the per-bucket totals add up to the overall total
func (s *Statistics) IsLedgerBalanced() bool {
	bucketNet := 0.0
	for _, b := range s.CountBuckets {
		bucketNet += b.SumNet
	}
	return math.Abs(s.AllNet-bucketNet) <= 1e-6 && math.Abs(s.AllNet-s.SumNet) <= 1e-6
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllNet=%.6f, SumNet=%.6f", s.AllNet, s.SumNet)
	}

	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	if outcomes := s.Wins + s.Losses + s.Pushes; outcomes != s.Hands {
		return fmt.Errorf("wins, losses and pushes (%d) do not match hands (%d)", outcomes, s.Hands)
	}

	if s.WinningRounds+s.LosingRounds > s.Rounds {
		return fmt.Errorf("decided rounds (%d) exceed total rounds (%d)",
			s.WinningRounds+s.LosingRounds, s.Rounds)
	}

	bucketRounds := 0
	for _, b := range s.CountBuckets {
		bucketRounds += b.Rounds
	}
	if bucketRounds != s.Rounds {
		return fmt.Errorf("count bucket rounds (%d) do not match total rounds (%d)", bucketRounds, s.Rounds)
	}

	return nil
}
