package main

import (
	"fmt"

	"github.com/lox/blackjack/internal/tui"
)

// ChartCmd prints the basic strategy chart for the configured rules
type ChartCmd struct {
	RulesFlags
}

func (c *ChartCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	c.RulesFlags.apply(cfg)
	r, err := resolve(cfg)
	if err != nil {
		return err
	}
	fmt.Println(tui.RenderChart(r))
	return nil
}
