package table

import (
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/gameid"
	"github.com/lox/blackjack/internal/randutil"
)

// Option configures a Table during creation.
type Option func(*tableConfig)

// tableConfig holds the optional collaborators of a table
type tableConfig struct {
	logger *log.Logger
	rng    *rand.Rand
	shoe   *deck.Shoe
	bus    EventBus
	ids    *gameid.Generator
}

// WithLogger sets the logger. Defaults to the charmbracelet default logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *tableConfig) {
		c.logger = logger
	}
}

// WithRNG sets the RNG used to shuffle and to pick training hands.
// Defaults to a time-seeded RNG.
func WithRNG(rng *rand.Rand) Option {
	return func(c *tableConfig) {
		c.rng = rng
	}
}

// WithShoe replaces the first game's shoe, typically a stacked shoe built
// with deck.NewStackedShoe to script the deal. StartGame and ResetGame
// build a fresh shoe.
func WithShoe(shoe *deck.Shoe) Option {
	return func(c *tableConfig) {
		c.shoe = shoe
	}
}

// WithEventBus sets the bus that table events are published on
func WithEventBus(bus EventBus) Option {
	return func(c *tableConfig) {
		c.bus = bus
	}
}

// WithIDGenerator sets the round ID generator
func WithIDGenerator(ids *gameid.Generator) Option {
	return func(c *tableConfig) {
		c.ids = ids
	}
}

func newConfig(opts []Option) *tableConfig {
	cfg := &tableConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.Default()
	}
	if cfg.rng == nil {
		cfg.rng = randutil.New(time.Now().UnixNano())
	}
	if cfg.bus == nil {
		cfg.bus = NewEventBus()
	}
	if cfg.ids == nil {
		cfg.ids = gameid.NewGenerator(nil)
	}
	return cfg
}
