package table

// Phase is the round state machine's current state
type Phase int

const (
	PhaseBetting Phase = iota
	PhaseDealing
	PhaseInsuranceOffered
	// PhaseDealerPeek is passed through while checking for naturals and is
	// never observed at rest.
	PhaseDealerPeek
	PhaseExtraPlayersTurn
	PhasePlayerTurn
	PhaseDealerTurn
	PhaseRoundComplete
	PhaseGameOver
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseBetting:
		return "Betting"
	case PhaseDealing:
		return "Dealing"
	case PhaseInsuranceOffered:
		return "Insurance"
	case PhaseDealerPeek:
		return "Dealer Peek"
	case PhaseExtraPlayersTurn:
		return "Extra Players"
	case PhasePlayerTurn:
		return "Player Turn"
	case PhaseDealerTurn:
		return "Dealer Turn"
	case PhaseRoundComplete:
		return "Round Complete"
	case PhaseGameOver:
		return "Game Over"
	default:
		return "Unknown"
	}
}

// StepKind identifies a queued reveal step so a pacer can choose its delay
type StepKind int

const (
	StepDealCard StepKind = iota
	StepRevealHole
	StepDealerDraw
	StepExtraPlayer
	StepSettle
)

// String returns the string representation of the step kind
func (k StepKind) String() string {
	switch k {
	case StepDealCard:
		return "deal"
	case StepRevealHole:
		return "reveal"
	case StepDealerDraw:
		return "dealer-draw"
	case StepExtraPlayer:
		return "extra-player"
	case StepSettle:
		return "settle"
	default:
		return "unknown"
	}
}

// Seat identifies who a card was dealt to
type Seat string

const (
	SeatPlayer Seat = "player"
	SeatDealer Seat = "dealer"
	SeatExtra  Seat = "extra"
)
