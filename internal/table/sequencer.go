package table

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// Delays is the pause before each kind of reveal step. The values only
// affect presentation; the table behaves identically with every delay zero.
type Delays struct {
	Deal       time.Duration
	RevealHole time.Duration
	DealerDraw time.Duration
	Extra      time.Duration
	Settle     time.Duration
}

// DefaultDelays returns the pacing used for interactive play
func DefaultDelays() Delays {
	return Delays{
		Deal:       300 * time.Millisecond,
		RevealHole: 400 * time.Millisecond,
		DealerDraw: 500 * time.Millisecond,
		Extra:      300 * time.Millisecond,
		Settle:     300 * time.Millisecond,
	}
}

// For returns the delay before a step of the given kind
func (d Delays) For(kind StepKind) time.Duration {
	switch kind {
	case StepRevealHole:
		return d.RevealHole
	case StepDealerDraw:
		return d.DealerDraw
	case StepExtraPlayer:
		return d.Extra
	case StepSettle:
		return d.Settle
	default:
		return d.Deal
	}
}

// Sequencer paces reveal steps against a clock. At most one wait is in
// flight: starting a new one cancels the previous, which returns
// context.Canceled.
type Sequencer struct {
	clock  quartz.Clock
	logger *log.Logger
	delays Delays
	bus    EventBus

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewSequencer creates a sequencer. When bus is non-nil a StepScheduledEvent
// is published each time a timer is armed.
func NewSequencer(clock quartz.Clock, logger *log.Logger, delays Delays, bus EventBus) *Sequencer {
	return &Sequencer{
		clock:  clock,
		logger: logger.WithPrefix("sequencer"),
		delays: delays,
		bus:    bus,
	}
}

// Wait blocks for the delay of kind, replacing any wait already in flight
func (s *Sequencer) Wait(ctx context.Context, kind StepKind) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	s.cancel = cancel
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.gen == gen {
			s.cancel = nil
		}
		s.mu.Unlock()
	}()

	delay := s.delays.For(kind)
	fired := make(chan struct{})
	timer := s.clock.AfterFunc(delay, func() {
		close(fired)
	})
	defer timer.Stop()

	if s.bus != nil {
		s.bus.Publish(NewStepScheduledEvent(kind, delay))
	}

	select {
	case <-fired:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel stops the wait in flight, if any
func (s *Sequencer) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Play applies t's pending steps one at a time, waiting before each. If the
// wait is cancelled the remaining steps are applied at once so the round is
// never left half dealt, and the cancellation error is returned.
func (s *Sequencer) Play(ctx context.Context, t *Table) error {
	for {
		kind, ok := t.NextStep()
		if !ok {
			return nil
		}
		if err := s.Wait(ctx, kind); err != nil {
			drained := t.Drain()
			s.logger.Debug("Reveal sequence interrupted", "drained", drained, "error", err)
			return err
		}
		t.Step()
	}
}
