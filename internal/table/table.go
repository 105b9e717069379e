// Package table runs a single-player blackjack round as an explicit state
// machine.
//
// The Table owns the shoe, the Hi-Lo count and the chip stack. Commands are
// looked up in a (phase, command) transition table and silently ignored when
// no transition exists. Dealing and the dealer's draw loop are queued as
// discrete reveal steps; Step applies one, Drain applies all. A Sequencer
// paces steps against a clock for interactive play.
//
// A Table is not safe for concurrent use. Every mutation happens on its
// owner's goroutine.
package table

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/count"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/gameid"
	"github.com/lox/blackjack/internal/rules"
	"github.com/lox/blackjack/internal/strategy"
)

// step is one queued reveal
type step struct {
	kind  StepKind
	apply func()
}

// Table is the round orchestrator
type Table struct {
	logger *log.Logger
	bus    EventBus
	rng    *rand.Rand
	ids    *gameid.Generator

	rules   rules.CasinoRules
	shoe    *deck.Shoe
	counter count.Counter

	phase        Phase
	roundID      string
	hands        []game.Hand
	active       int
	dealer       game.Hand
	holeVisible  bool
	extras       []game.Hand
	chips        int
	bet          int
	insuranceBet int
	available    game.ActionSet
	results      []game.Result
	payouts      []int
	roundPayout  int
	message      string

	coachEnabled      bool
	deviationsEnabled bool
	showCount         bool
	coachFeedback     string
	coachCorrect      int
	coachTotal        int

	handsPlayed int
	handsWon    int

	steps []step
}

// New creates a table and starts a game under r
func New(r rules.CasinoRules, opts ...Option) *Table {
	cfg := newConfig(opts)
	t := &Table{
		logger: cfg.logger.WithPrefix("table"),
		bus:    cfg.bus,
		rng:    cfg.rng,
		ids:    cfg.ids,
	}
	t.startGame(r)
	if cfg.shoe != nil {
		t.shoe = cfg.shoe
	}
	return t
}

// EventBus returns the bus table events are published on
func (t *Table) EventBus() EventBus {
	return t.bus
}

// Phase returns the current phase
func (t *Table) Phase() Phase {
	return t.phase
}

// Rules returns the rules of the current game
func (t *Table) Rules() rules.CasinoRules {
	return t.rules
}

// StartGame discards any round in progress, including pending steps, and
// starts over with a fresh shoe and the initial chips of r.
func (t *Table) StartGame(r rules.CasinoRules) {
	t.startGame(r)
	t.changed()
}

// ResetGame restarts under the current rules. It is the only way out of
// PhaseGameOver.
func (t *Table) ResetGame() {
	t.StartGame(t.rules)
}

// ToggleCoach flips decision grading on or off and clears its tally
func (t *Table) ToggleCoach() {
	t.coachEnabled = !t.coachEnabled
	t.coachCorrect, t.coachTotal = 0, 0
	t.coachFeedback = ""
	t.changed()
}

// ToggleDeviations switches the advice shown between basic strategy and the
// count-aware index plays.
func (t *Table) ToggleDeviations() {
	t.deviationsEnabled = !t.deviationsEnabled
	t.changed()
}

// ToggleCount flips whether the consumer should display the count
func (t *Table) ToggleCount() {
	t.showCount = !t.showCount
	t.changed()
}

// Pending returns the number of queued reveal steps
func (t *Table) Pending() int {
	return len(t.steps)
}

// NextStep returns the kind of the next queued step
func (t *Table) NextStep() (StepKind, bool) {
	if len(t.steps) == 0 {
		return 0, false
	}
	return t.steps[0].kind, true
}

// Step applies the next queued reveal step. Steps may queue further steps.
func (t *Table) Step() bool {
	if len(t.steps) == 0 {
		return false
	}
	s := t.steps[0]
	t.steps = t.steps[1:]
	t.logger.Debug("Applying step", "kind", s.kind, "remaining", len(t.steps))
	s.apply()
	t.changed()
	return true
}

// Drain applies every pending step with no delay and returns how many ran
func (t *Table) Drain() int {
	n := 0
	for t.Step() {
		n++
	}
	return n
}

func (t *Table) startGame(r rules.CasinoRules) {
	r = r.Clamped()
	if err := r.Validate(); err != nil {
		t.logger.Warn("Invalid rules, using defaults", "error", err)
		r = rules.Default()
	}

	t.rules = r
	t.shoe = deck.NewShoe(r.Decks, t.rng)
	t.counter.Reset()
	t.chips = r.InitialChips
	t.bet = r.MinimumBet
	t.handsPlayed, t.handsWon = 0, 0
	t.coachCorrect, t.coachTotal = 0, 0
	t.steps = nil
	t.clearRound()
	t.phase = PhaseBetting

	t.logger.Info("Game started", "rules", r.Summary(), "chips", t.chips)
}

func (t *Table) clearRound() {
	t.roundID = ""
	t.hands = nil
	t.active = 0
	t.dealer = game.Hand{}
	t.holeVisible = false
	t.extras = nil
	t.insuranceBet = 0
	t.available = 0
	t.results = nil
	t.payouts = nil
	t.roundPayout = 0
	t.message = ""
	t.coachFeedback = ""
}

func (t *Table) queue(kind StepKind, apply func()) {
	t.steps = append(t.steps, step{kind: kind, apply: apply})
}

func (t *Table) changed() {
	t.bus.Publish(NewStateChangedEvent(t.phase, len(t.steps)))
}

func (t *Table) reshuffle(reason string) {
	t.shoe.Shuffle()
	t.counter.Reset()
	t.announceShuffle(reason)
}

// reshuffleMidRound rebuilds the shoe without the cards on the table. The
// count restarts from those cards, with the hole card still held back.
func (t *Table) reshuffleMidRound(reason string) {
	inPlay := t.cardsInPlay()
	t.shoe.ShuffleExcluding(inPlay)
	t.counter.Reset()
	for _, c := range inPlay {
		if c.FaceUp {
			t.counter.Observe(c)
		} else {
			t.counter.Hold(c)
		}
	}
	t.announceShuffle(reason)
}

func (t *Table) announceShuffle(reason string) {
	t.logger.Info("Shoe reshuffled", "reason", reason, "cards", t.shoe.Remaining())
	t.bus.Publish(NewReshuffleEvent(reason, t.shoe.Remaining()))
}

// draw takes the next card, or the first card satisfying match when match
// is non-nil. A shoe that cannot satisfy the draw is reshuffled once; a fresh
// shoe that still cannot is a broken invariant.
func (t *Table) draw(match func(deck.Card) bool) deck.Card {
	card, err := t.tryDraw(match)
	if err == nil {
		return card
	}

	t.logger.Warn("Shoe cannot satisfy draw, reshuffling", "error", err, "remaining", t.shoe.Remaining())
	t.reshuffleMidRound("exhausted")
	card, err = t.tryDraw(match)
	if err != nil {
		panic(fmt.Sprintf("draw from a fresh shoe failed: %v", err))
	}
	return card
}

// cardsInPlay lists every card dealt this round that is still on the table
func (t *Table) cardsInPlay() []deck.Card {
	var cards []deck.Card
	for _, h := range t.hands {
		cards = append(cards, h.Cards...)
	}
	for _, h := range t.extras {
		cards = append(cards, h.Cards...)
	}
	return append(cards, t.dealer.Cards...)
}

func (t *Table) tryDraw(match func(deck.Card) bool) (deck.Card, error) {
	if match == nil {
		return t.shoe.Draw()
	}
	return t.shoe.DrawMatching(match)
}

// dealFaceUp draws a visible card, counts it and announces it
func (t *Table) dealFaceUp(seat Seat, hand int, match func(deck.Card) bool) deck.Card {
	card := t.draw(match)
	card.FaceUp = true
	t.counter.Observe(card)
	t.bus.Publish(NewCardDealtEvent(seat, hand, card, false, t.counter.Running()))
	return card
}

func (t *Table) upCard() deck.Card {
	up, _ := t.dealer.UpCard()
	return up
}

// applyDeal takes the bet and queues the initial deal: player, extra seats,
// dealer up card, then the same again with the dealer's card face down.
func (t *Table) applyDeal() {
	if t.rules.IsTrainingMode() {
		t.reshuffle("training")
	} else if t.shoe.NeedsReshuffle() {
		t.reshuffle("cut card")
	}

	t.clearRound()
	t.roundID = t.ids.Generate()
	t.chips -= t.bet
	t.hands = []game.Hand{game.NewHand(t.bet)}
	t.extras = make([]game.Hand, t.rules.ExtraPlayers)
	t.phase = PhaseDealing

	first, second := t.trainingPredicates()

	t.queue(StepDealCard, func() { t.dealPlayerCard(first) })
	t.queueExtraCards()
	t.queue(StepDealCard, func() {
		t.dealer = t.dealer.AddCard(t.dealFaceUp(SeatDealer, 0, nil))
	})
	t.queue(StepDealCard, func() { t.dealPlayerCard(second) })
	t.queueExtraCards()
	t.queue(StepDealCard, func() {
		t.dealHoleCard()
		t.afterDeal()
	})

	t.logger.Debug("Dealing", "round", t.roundID, "bet", t.bet, "chips", t.chips, "remaining", t.shoe.Remaining())
}

func (t *Table) queueExtraCards() {
	for i := range t.extras {
		t.queue(StepDealCard, func() {
			t.extras[i] = t.extras[i].AddCard(t.dealFaceUp(SeatExtra, i, nil))
		})
	}
}

func (t *Table) dealPlayerCard(match func(deck.Card) bool) {
	t.hands[0] = t.hands[0].AddCard(t.dealFaceUp(SeatPlayer, 0, match))
}

func (t *Table) dealHoleCard() {
	card := t.draw(nil)
	card.FaceUp = false
	t.counter.Hold(card)
	t.dealer = t.dealer.AddCard(card)
	t.bus.Publish(NewCardDealtEvent(SeatDealer, 0, deck.Card{}, false, t.counter.Running()))
}

// trainingPredicates returns the card filters for the player's first and
// second cards. Soft training deals an ace then a card that is neither an
// ace nor ten-valued; pair training deals two cards of one random rank.
func (t *Table) trainingPredicates() (first, second func(deck.Card) bool) {
	soft, pair := t.rules.TrainSoftHands, t.rules.TrainPairedHands
	if soft && pair {
		soft = t.rng.IntN(2) == 0
		pair = !soft
	}

	switch {
	case soft:
		return func(c deck.Card) bool { return c.IsAce() },
			func(c deck.Card) bool { return !c.IsAce() && !c.Rank.IsTenValue() }
	case pair:
		rank := deck.Ranks[t.rng.IntN(len(deck.Ranks))]
		match := func(c deck.Card) bool { return c.Rank == rank }
		return match, match
	default:
		return nil, nil
	}
}

// afterDeal runs once the last initial card is down
func (t *Table) afterDeal() {
	if t.upCard().IsAce() && t.rules.InsuranceAvailable {
		t.phase = PhaseInsuranceOffered
		t.available = game.InsuranceActions(t.hands[0], t.chips)
		t.logger.Debug("Offering insurance", "actions", t.available)
		return
	}
	t.checkNaturals()
}

// checkNaturals is the dealer peek. A peeking dealer with a natural, or a
// player natural, ends the round before anyone acts.
func (t *Table) checkNaturals() {
	t.phase = PhaseDealerPeek
	if (t.rules.DealerPeeks && t.dealer.IsBlackjack()) || t.hands[0].IsBlackjack() {
		t.resolve()
		return
	}
	if len(t.extras) > 0 {
		t.phase = PhaseExtraPlayersTurn
		t.queueExtraPlay(0)
		return
	}
	t.startPlayerTurn()
}

// queueExtraPlay finds the next extra seat that wants a card and queues one
// step for it. Seats that stand are marked without using a step. When every
// seat is done the human's turn begins.
func (t *Table) queueExtraPlay(seat int) {
	for ; seat < len(t.extras); seat++ {
		h := t.extras[seat]
		if h.IsFinished() {
			continue
		}
		available := game.AvailableActions(h, []game.Hand{h}, t.upCard(), 0, t.rules).
			Without(game.Split).
			Without(game.Surrender)
		action := strategy.OptimalAction(h, t.upCard(), available, t.rules)
		if action != game.Hit && action != game.DoubleDown {
			t.extras[seat].IsStanding = true
			continue
		}

		t.queue(StepExtraPlayer, func() {
			t.extras[seat] = t.extras[seat].AddCard(t.dealFaceUp(SeatExtra, seat, nil))
			if action == game.DoubleDown {
				t.extras[seat].IsDoubledDown = true
			}
			t.queueExtraPlay(seat)
		})
		return
	}
	t.startPlayerTurn()
}

func (t *Table) startPlayerTurn() {
	t.phase = PhasePlayerTurn
	t.active = 0
	t.refreshActions()
}

func (t *Table) refreshActions() {
	t.available = game.AvailableActions(t.hands[t.active], t.hands, t.upCard(), t.chips, t.rules)
}

// advance moves to the next unfinished hand, or ends the player's turn
func (t *Table) advance() {
	for i := t.active + 1; i < len(t.hands); i++ {
		if !t.hands[i].IsFinished() {
			t.active = i
			t.refreshActions()
			return
		}
	}

	t.available = 0
	if t.allHandsOut() {
		t.resolve()
		return
	}
	t.phase = PhaseDealerTurn
	t.queue(StepRevealHole, func() {
		t.revealHole()
		t.queueDealerPlay()
	})
}

// allHandsOut reports whether every hand busted or surrendered, in which
// case the dealer does not play.
func (t *Table) allHandsOut() bool {
	for _, h := range t.hands {
		if !h.IsBusted() && !h.IsSurrendered {
			return false
		}
	}
	return true
}

func (t *Table) queueDealerPlay() {
	if game.DealerShouldHit(t.dealer, t.rules) {
		t.queue(StepDealerDraw, func() {
			t.dealer = t.dealer.AddCard(t.dealFaceUp(SeatDealer, 0, nil))
			t.queueDealerPlay()
		})
		return
	}
	t.queue(StepSettle, t.resolve)
}

// revealHole turns the hole card over and counts it. Safe to call twice.
func (t *Table) revealHole() {
	if t.holeVisible || len(t.dealer.Cards) < 2 {
		return
	}
	t.counter.RevealHeld()
	t.dealer.Cards[1] = t.dealer.Cards[1].Flip()
	t.holeVisible = true
	t.bus.Publish(NewCardDealtEvent(SeatDealer, 0, t.dealer.Cards[1], true, t.counter.Running()))
}

// resolve settles every hand and ends the round
func (t *Table) resolve() {
	t.revealHole()

	s := game.Settle(t.hands, t.dealer, t.insuranceBet, t.rules)
	staked := t.insuranceBet
	for _, h := range t.hands {
		staked += h.Bet
	}
	net := s.Total - staked

	t.results, t.payouts = s.Results, s.Payouts
	t.roundPayout = s.Total
	t.chips += s.Total
	t.message = roundMessage(s.Results, net)
	t.available = 0
	t.finishRound(net)
}

// finishRound updates the session tally and lands in the resting phase.
// Every winning hand counts, so a split can win twice in one round.
func (t *Table) finishRound(net int) {
	t.handsPlayed++
	for _, r := range t.results {
		if r.IsWin() {
			t.handsWon++
		}
	}

	t.phase = PhaseRoundComplete
	if t.chips <= 0 {
		t.phase = PhaseGameOver
	}

	t.logger.Info("Round complete",
		"round", t.roundID,
		"results", t.results,
		"net", net,
		"chips", t.chips,
		"rc", t.counter.Running())
	t.bus.Publish(NewRoundResolvedEvent(t.roundID, t.hands, t.dealer, t.results, t.roundPayout, net, t.chips, t.message))
}

func roundMessage(results []game.Result, net int) string {
	allBlackjack := len(results) > 0
	for _, r := range results {
		if r == game.ResultThreeSevens {
			return fmt.Sprintf("Three 7s! You win $%d!", net)
		}
		if r != game.ResultBlackjack {
			allBlackjack = false
		}
	}

	switch {
	case allBlackjack:
		return "Blackjack!"
	case net > 0:
		return fmt.Sprintf("You win $%d!", net)
	case net < 0:
		return fmt.Sprintf("You lose $%d", -net)
	default:
		return "Push"
	}
}

// advice is what the coach compares the player's decision against
func (t *Table) advice() strategy.Advice {
	h := t.hands[t.active]
	if t.deviationsEnabled {
		return strategy.DeviationAction(h, t.upCard(), t.available, t.rules, t.counter.Running(), t.trueCount())
	}
	return strategy.BasicAdvice(h, t.upCard(), t.available, t.rules)
}

func (t *Table) trueCount() float64 {
	return t.counter.True(t.shoe.Remaining())
}

func (t *Table) record(f strategy.Feedback) {
	t.coachTotal++
	if f.Correct {
		t.coachCorrect++
	}
	t.coachFeedback = f.Message
}

func (t *Table) coachPlay(chosen game.Action) {
	if t.coachEnabled {
		t.record(strategy.Grade(chosen, t.advice()))
	}
}

func (t *Table) coachInsurance(chosen game.Action) {
	if t.coachEnabled {
		t.record(strategy.GradeInsurance(chosen, t.trueCount(), t.deviationsEnabled))
	}
}
