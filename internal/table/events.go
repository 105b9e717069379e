package table

import (
	"fmt"
	"strings"
	"time"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// EventType represents a table event type with type safety
type EventType string

// EventType constants for table events
const (
	EventTypeStateChanged  EventType = "state_changed"
	EventTypeCardDealt     EventType = "card_dealt"
	EventTypeRoundResolved EventType = "round_resolved"
	EventTypeReshuffle     EventType = "reshuffle"
	EventTypeStepScheduled EventType = "step_scheduled"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything observable that happens at the table
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// StateChangedEvent is published after every accepted command and every
// applied reveal step. Observers call Snapshot to read the new state.
type StateChangedEvent struct {
	Phase     Phase
	Pending   int
	timestamp time.Time
}

func (e StateChangedEvent) EventType() EventType { return EventTypeStateChanged }
func (e StateChangedEvent) Timestamp() time.Time { return e.timestamp }

// NewStateChangedEvent creates a new state changed event
func NewStateChangedEvent(phase Phase, pending int) StateChangedEvent {
	return StateChangedEvent{Phase: phase, Pending: pending, timestamp: time.Now()}
}

// CardDealtEvent is published for every card placed on the table, and again
// when the dealer's hole card is turned over.
type CardDealtEvent struct {
	Seat      Seat
	Hand      int
	Card      deck.Card
	Reveal    bool
	Running   int
	timestamp time.Time
}

func (e CardDealtEvent) EventType() EventType { return EventTypeCardDealt }
func (e CardDealtEvent) Timestamp() time.Time { return e.timestamp }

// NewCardDealtEvent creates a new card dealt event
func NewCardDealtEvent(seat Seat, hand int, card deck.Card, reveal bool, running int) CardDealtEvent {
	return CardDealtEvent{
		Seat:      seat,
		Hand:      hand,
		Card:      card,
		Reveal:    reveal,
		Running:   running,
		timestamp: time.Now(),
	}
}

// RoundResolvedEvent is published when a round settles
type RoundResolvedEvent struct {
	RoundID   string
	Hands     []game.Hand
	Dealer    game.Hand
	Results   []game.Result
	Payout    int
	Net       int
	Chips     int
	Message   string
	timestamp time.Time
}

func (e RoundResolvedEvent) EventType() EventType { return EventTypeRoundResolved }
func (e RoundResolvedEvent) Timestamp() time.Time { return e.timestamp }

// NewRoundResolvedEvent creates a new round resolved event
func NewRoundResolvedEvent(roundID string, hands []game.Hand, dealer game.Hand, results []game.Result, payout, net, chips int, message string) RoundResolvedEvent {
	handsCopy := make([]game.Hand, len(hands))
	for i, h := range hands {
		handsCopy[i] = h.Clone()
	}
	return RoundResolvedEvent{
		RoundID:   roundID,
		Hands:     handsCopy,
		Dealer:    dealer.Clone(),
		Results:   append([]game.Result(nil), results...),
		Payout:    payout,
		Net:       net,
		Chips:     chips,
		Message:   message,
		timestamp: time.Now(),
	}
}

// ReshuffleEvent is published when the shoe is rebuilt and the count reset
type ReshuffleEvent struct {
	Reason    string
	Cards     int
	timestamp time.Time
}

func (e ReshuffleEvent) EventType() EventType { return EventTypeReshuffle }
func (e ReshuffleEvent) Timestamp() time.Time { return e.timestamp }

// NewReshuffleEvent creates a new reshuffle event
func NewReshuffleEvent(reason string, cards int) ReshuffleEvent {
	return ReshuffleEvent{Reason: reason, Cards: cards, timestamp: time.Now()}
}

// StepScheduledEvent is published by a Sequencer once the timer for the
// next reveal step is armed.
type StepScheduledEvent struct {
	Kind      StepKind
	Delay     time.Duration
	timestamp time.Time
}

func (e StepScheduledEvent) EventType() EventType { return EventTypeStepScheduled }
func (e StepScheduledEvent) Timestamp() time.Time { return e.timestamp }

// NewStepScheduledEvent creates a new step scheduled event
func NewStepScheduledEvent(kind StepKind, delay time.Duration) StepScheduledEvent {
	return StepScheduledEvent{Kind: kind, Delay: delay, timestamp: time.Now()}
}

// EventSubscriber can subscribe to table events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a synchronous in-memory event bus. It shares the
// table's single owner and is not safe for concurrent use.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}

// FormattingOptions controls how events are formatted for different contexts
type FormattingOptions struct {
	Color     bool // ANSI colors for red suits and headings
	ShowCount bool // Append the running count to dealt cards
}

// EventFormatter renders table events as single lines for logs and the
// watch command.
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format dispatches on the event type. Events with no textual form return "".
func (ef *EventFormatter) Format(event GameEvent) string {
	switch e := event.(type) {
	case CardDealtEvent:
		return ef.FormatCardDealt(e)
	case RoundResolvedEvent:
		return ef.FormatRoundResolved(e)
	case ReshuffleEvent:
		return ef.FormatReshuffle(e)
	default:
		return ""
	}
}

// FormatCardDealt formats a dealt or revealed card
func (ef *EventFormatter) FormatCardDealt(event CardDealtEvent) string {
	var who string
	switch event.Seat {
	case SeatDealer:
		who = "Dealer"
	case SeatExtra:
		who = fmt.Sprintf("Seat %d", event.Hand+1)
	default:
		who = "Player"
		if event.Hand > 0 {
			who = fmt.Sprintf("Player hand %d", event.Hand+1)
		}
	}

	var text string
	switch {
	case event.Reveal:
		text = fmt.Sprintf("%s reveals %s", who, ef.formatCard(event.Card))
	case !event.Card.FaceUp:
		text = fmt.Sprintf("%s: hole card", who)
	default:
		text = fmt.Sprintf("%s: %s", who, ef.formatCard(event.Card))
	}

	if ef.opts.ShowCount {
		text += fmt.Sprintf(" (RC %+d)", event.Running)
	}
	return text
}

// FormatRoundResolved formats the end of a round
func (ef *EventFormatter) FormatRoundResolved(event RoundResolvedEvent) string {
	var result strings.Builder

	result.WriteString(ef.heading(fmt.Sprintf("*** ROUND %s ***", event.RoundID)))
	result.WriteString("\n")
	result.WriteString(fmt.Sprintf("Dealer: %s %s\n", ef.formatCards(event.Dealer.Cards), scoreLabel(event.Dealer)))
	for i, h := range event.Hands {
		line := fmt.Sprintf("Hand %d: %s %s $%d", i+1, ef.formatCards(h.Cards), scoreLabel(h), h.Bet)
		if i < len(event.Results) {
			line += " - " + event.Results[i].String()
		}
		result.WriteString(line + "\n")
	}
	result.WriteString(fmt.Sprintf("%s (chips: $%d)", event.Message, event.Chips))

	return result.String()
}

// FormatReshuffle formats a reshuffle notice
func (ef *EventFormatter) FormatReshuffle(event ReshuffleEvent) string {
	return ef.heading(fmt.Sprintf("*** SHUFFLE *** %d cards (%s)", event.Cards, event.Reason))
}

func (ef *EventFormatter) heading(s string) string {
	if !ef.opts.Color {
		return s
	}
	return fmt.Sprintf("\033[1m%s\033[0m", s)
}

// formatCards formats a slice of cards in brackets
func (ef *EventFormatter) formatCards(cards []deck.Card) string {
	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		formatted = append(formatted, ef.formatCard(card))
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// formatCard formats a single card, in red for hearts and diamonds
func (ef *EventFormatter) formatCard(card deck.Card) string {
	if !ef.opts.Color || !card.IsRed() {
		return card.String()
	}
	return fmt.Sprintf("\033[31m%s\033[0m", card.String())
}

func scoreLabel(h game.Hand) string {
	switch {
	case h.IsBlackjack():
		return "(blackjack)"
	case h.IsBusted():
		return fmt.Sprintf("(%d, bust)", h.Score())
	default:
		return fmt.Sprintf("(%d)", h.Score())
	}
}
