package table

import (
	"github.com/lox/blackjack/internal/game"
)

// command is a player input the state machine may accept
type command int

const (
	cmdAdjustBet command = iota
	cmdDeal
	cmdHit
	cmdStand
	cmdDoubleDown
	cmdSplit
	cmdSurrender
	cmdTakeInsurance
	cmdDeclineInsurance
	cmdTakeEvenMoney
	cmdDeclineEvenMoney
	cmdNewRound
)

func (c command) String() string {
	switch c {
	case cmdAdjustBet:
		return "adjust-bet"
	case cmdDeal:
		return "deal"
	case cmdHit:
		return "hit"
	case cmdStand:
		return "stand"
	case cmdDoubleDown:
		return "double"
	case cmdSplit:
		return "split"
	case cmdSurrender:
		return "surrender"
	case cmdTakeInsurance:
		return "take-insurance"
	case cmdDeclineInsurance:
		return "decline-insurance"
	case cmdTakeEvenMoney:
		return "take-even-money"
	case cmdDeclineEvenMoney:
		return "decline-even-money"
	case cmdNewRound:
		return "new-round"
	default:
		return "unknown"
	}
}

type transitionKey struct {
	phase Phase
	cmd   command
}

// transition is one legal edge of the state machine. A nil guard always
// passes.
type transition struct {
	guard func(t *Table, arg int) bool
	apply func(t *Table, arg int)
}

// offered guards a command on its action being in the available set
func offered(a game.Action) func(*Table, int) bool {
	return func(t *Table, _ int) bool { return t.available.Has(a) }
}

func noArg(f func(*Table)) func(*Table, int) {
	return func(t *Table, _ int) { f(t) }
}

// transitions is every legal (phase, command) pair. Anything missing is a
// no-op. Apply functions must not dispatch further commands.
var transitions = map[transitionKey]transition{
	{PhaseBetting, cmdAdjustBet}: {
		apply: (*Table).applyAdjustBet,
	},
	{PhaseBetting, cmdDeal}: {
		guard: func(t *Table, _ int) bool { return t.bet > 0 && t.bet <= t.chips },
		apply: noArg((*Table).applyDeal),
	},
	{PhasePlayerTurn, cmdHit}: {
		guard: offered(game.Hit),
		apply: noArg((*Table).applyHit),
	},
	{PhasePlayerTurn, cmdStand}: {
		guard: offered(game.Stand),
		apply: noArg((*Table).applyStand),
	},
	{PhasePlayerTurn, cmdDoubleDown}: {
		guard: offered(game.DoubleDown),
		apply: noArg((*Table).applyDoubleDown),
	},
	{PhasePlayerTurn, cmdSplit}: {
		guard: offered(game.Split),
		apply: noArg((*Table).applySplit),
	},
	{PhasePlayerTurn, cmdSurrender}: {
		guard: offered(game.Surrender),
		apply: noArg((*Table).applySurrender),
	},
	{PhaseInsuranceOffered, cmdTakeInsurance}: {
		guard: offered(game.Insurance),
		apply: noArg((*Table).applyTakeInsurance),
	},
	{PhaseInsuranceOffered, cmdDeclineInsurance}: {
		guard: offered(game.DeclineInsurance),
		apply: noArg((*Table).applyDeclineInsurance),
	},
	{PhaseInsuranceOffered, cmdTakeEvenMoney}: {
		guard: offered(game.EvenMoney),
		apply: noArg((*Table).applyTakeEvenMoney),
	},
	{PhaseInsuranceOffered, cmdDeclineEvenMoney}: {
		guard: offered(game.DeclineEvenMoney),
		apply: noArg((*Table).applyDeclineEvenMoney),
	},
	{PhaseRoundComplete, cmdNewRound}: {
		apply: noArg((*Table).applyNewRound),
	},
}

// dispatch runs cmd if the current phase has a transition for it and its
// guard passes. Nothing is accepted while reveal steps are pending.
func (t *Table) dispatch(cmd command, arg int) bool {
	if len(t.steps) > 0 {
		t.logger.Debug("Ignoring command while steps pending", "command", cmd, "pending", len(t.steps))
		return false
	}

	tr, ok := transitions[transitionKey{t.phase, cmd}]
	if !ok || (tr.guard != nil && !tr.guard(t, arg)) {
		t.logger.Debug("Ignoring command", "command", cmd, "phase", t.phase)
		return false
	}

	from := t.phase
	tr.apply(t, arg)
	t.logger.Debug("Transition", "command", cmd, "from", from, "to", t.phase, "pending", len(t.steps))
	t.changed()
	return true
}

// AdjustBet sets the bet, clamped to the table minimum and to the lesser of
// the table maximum and the player's chips.
func (t *Table) AdjustBet(amount int) bool { return t.dispatch(cmdAdjustBet, amount) }

// Deal takes the bet and queues the initial deal
func (t *Table) Deal() bool { return t.dispatch(cmdDeal, 0) }

// Hit draws a card to the active hand
func (t *Table) Hit() bool { return t.dispatch(cmdHit, 0) }

// Stand ends the active hand
func (t *Table) Stand() bool { return t.dispatch(cmdStand, 0) }

// DoubleDown doubles the active hand's bet and draws exactly one card
func (t *Table) DoubleDown() bool { return t.dispatch(cmdDoubleDown, 0) }

// Split turns the active pair into two hands
func (t *Table) Split() bool { return t.dispatch(cmdSplit, 0) }

// Surrender forfeits half the bet
func (t *Table) Surrender() bool { return t.dispatch(cmdSurrender, 0) }

// TakeInsurance places a side bet of half the main bet
func (t *Table) TakeInsurance() bool { return t.dispatch(cmdTakeInsurance, 0) }

// DeclineInsurance continues without insurance
func (t *Table) DeclineInsurance() bool { return t.dispatch(cmdDeclineInsurance, 0) }

// TakeEvenMoney pays a blackjack 1:1 immediately and ends the round
func (t *Table) TakeEvenMoney() bool { return t.dispatch(cmdTakeEvenMoney, 0) }

// DeclineEvenMoney plays the blackjack out against the dealer
func (t *Table) DeclineEvenMoney() bool { return t.dispatch(cmdDeclineEvenMoney, 0) }

// NewRound clears the finished round and returns to betting
func (t *Table) NewRound() bool { return t.dispatch(cmdNewRound, 0) }

// Apply runs the command matching a player action. It lets advisors and
// front-ends drive the table from an ActionSet.
func (t *Table) Apply(a game.Action) bool {
	switch a {
	case game.Hit:
		return t.Hit()
	case game.Stand:
		return t.Stand()
	case game.DoubleDown:
		return t.DoubleDown()
	case game.Split:
		return t.Split()
	case game.Surrender:
		return t.Surrender()
	case game.Insurance:
		return t.TakeInsurance()
	case game.DeclineInsurance:
		return t.DeclineInsurance()
	case game.EvenMoney:
		return t.TakeEvenMoney()
	case game.DeclineEvenMoney:
		return t.DeclineEvenMoney()
	default:
		return false
	}
}

func (t *Table) applyAdjustBet(amount int) {
	hi := min(t.rules.MaximumBet, t.chips)
	lo := min(t.rules.MinimumBet, hi)
	t.bet = max(lo, min(amount, hi))
}

func (t *Table) applyHit() {
	t.coachPlay(game.Hit)
	h := t.hands[t.active].AddCard(t.dealFaceUp(SeatPlayer, t.active, nil))
	if h.Score() == 21 {
		h.IsStanding = true
	}
	t.hands[t.active] = h

	if h.IsFinished() {
		t.advance()
		return
	}
	t.refreshActions()
}

func (t *Table) applyStand() {
	t.coachPlay(game.Stand)
	t.hands[t.active].IsStanding = true
	t.advance()
}

func (t *Table) applyDoubleDown() {
	t.coachPlay(game.DoubleDown)
	h := t.hands[t.active]
	t.chips -= h.Bet
	h.Bet *= 2
	h = h.AddCard(t.dealFaceUp(SeatPlayer, t.active, nil))
	h.IsDoubledDown = true
	t.hands[t.active] = h
	t.advance()
}

// applySplit replaces the active pair with two hands, each completed with a
// fresh card, the second inserted directly after the first.
func (t *Table) applySplit() {
	t.coachPlay(game.Split)
	parent := t.hands[t.active]
	t.chips -= parent.Bet

	fromAces := parent.Cards[0].IsAce() && !t.rules.HitSplitAces
	newHand := func(card int) game.Hand {
		h := game.NewHand(parent.Bet, parent.Cards[card])
		h.IsSplitHand = true
		h.SplitFromAces = fromAces
		return h
	}
	first, second := newHand(0), newHand(1)
	first = first.AddCard(t.dealFaceUp(SeatPlayer, t.active, nil))
	second = second.AddCard(t.dealFaceUp(SeatPlayer, t.active+1, nil))

	hands := make([]game.Hand, 0, len(t.hands)+1)
	hands = append(hands, t.hands[:t.active]...)
	hands = append(hands, first, second)
	hands = append(hands, t.hands[t.active+1:]...)
	t.hands = hands

	t.logger.Debug("Split", "hands", len(t.hands), "aces", fromAces, "chips", t.chips)

	if t.hands[t.active].IsFinished() {
		t.advance()
		return
	}
	t.refreshActions()
}

func (t *Table) applySurrender() {
	t.coachPlay(game.Surrender)
	t.hands[t.active].IsSurrendered = true
	t.advance()
}

func (t *Table) applyTakeInsurance() {
	t.coachInsurance(game.Insurance)
	cost := t.hands[0].Bet / 2
	t.chips -= cost
	t.insuranceBet = cost
	t.available = 0
	t.checkNaturals()
}

func (t *Table) applyDeclineInsurance() {
	t.coachInsurance(game.DeclineInsurance)
	t.available = 0
	t.checkNaturals()
}

// applyTakeEvenMoney pays the blackjack 1:1 without playing the dealer out.
// The hole card is still turned over and counted.
func (t *Table) applyTakeEvenMoney() {
	t.coachInsurance(game.EvenMoney)
	t.revealHole()

	bet := t.hands[0].Bet
	t.results = []game.Result{game.ResultWin}
	t.payouts = []int{bet * 2}
	t.roundPayout = bet * 2
	t.chips += bet * 2
	t.message = "Even money paid!"
	t.available = 0
	t.finishRound(bet)
}

func (t *Table) applyDeclineEvenMoney() {
	t.coachInsurance(game.DeclineEvenMoney)
	t.available = 0
	t.checkNaturals()
}

func (t *Table) applyNewRound() {
	t.clearRound()
	t.bet = min(t.bet, t.chips)
	t.phase = PhaseBetting
}
