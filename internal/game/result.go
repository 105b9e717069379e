package game

// Result is the settled outcome of a hand
type Result int

const (
	ResultLose Result = iota
	ResultWin
	ResultPush
	ResultBlackjack
	ResultBust
	ResultSurrender
	ResultThreeSevens
)

// String returns the display name of the result
func (r Result) String() string {
	switch r {
	case ResultBlackjack:
		return "Blackjack!"
	case ResultWin:
		return "Win"
	case ResultLose:
		return "Lose"
	case ResultPush:
		return "Push"
	case ResultBust:
		return "Bust"
	case ResultSurrender:
		return "Surrender"
	case ResultThreeSevens:
		return "Three 7s!"
	default:
		return "Unknown"
	}
}

// IsWin reports results that return more than the stake
func (r Result) IsWin() bool {
	return r == ResultWin || r == ResultBlackjack || r == ResultThreeSevens
}
