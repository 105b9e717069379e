package strategy

import (
	"fmt"

	"github.com/lox/blackjack/internal/rules"
)

// DealerColumns are the chart column headings
var DealerColumns = [numColumns]string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "A"}

// ChartRow is one labelled row of the strategy chart
type ChartRow struct {
	Label string
	Cells [numColumns]Cell
}

// Chart is the basic strategy for one rule set in printable form. Cells are
// the raw table entries with their fallbacks, so a surrender cell still shows
// when the rules offer no surrender.
type Chart struct {
	Rules rules.CasinoRules
	Hard  []ChartRow
	Soft  []ChartRow
	Pairs []ChartRow
}

// BuildChart renders the tables and rule overrides for r. Hard rows assume a
// two-card hand.
func BuildChart(r rules.CasinoRules) Chart {
	chart := Chart{Rules: r}

	for total := hardMin; total <= hardMax; total++ {
		chart.Hard = append(chart.Hard, ChartRow{
			Label: fmt.Sprint(total),
			Cells: buildRow(func(col int) Cell {
				return hardCell(situation{total: total, col: col, cards: 2, rules: r})
			}),
		})
	}

	for total := softMin; total <= softMax; total++ {
		chart.Soft = append(chart.Soft, ChartRow{
			Label: fmt.Sprintf("A,%d", total-11),
			Cells: buildRow(func(col int) Cell {
				return softCell(situation{total: total, col: col, cards: 2, rules: r})
			}),
		})
	}

	for value := 11; value >= 2; value-- {
		chart.Pairs = append(chart.Pairs, ChartRow{
			Label: pairLabel(value),
			Cells: buildRow(func(col int) Cell {
				s := situation{total: pairTotal(value), pair: value, col: col, cards: 2, rules: r}
				if c := pairCell(s); c != none {
					return c
				}
				return hardCell(s)
			}),
		})
	}

	return chart
}

func buildRow(cell func(col int) Cell) [numColumns]Cell {
	var cells [numColumns]Cell
	for col := range numColumns {
		cells[col] = cell(col)
	}
	return cells
}

func pairLabel(value int) string {
	if value == 11 {
		return "A,A"
	}
	return fmt.Sprintf("%d,%d", value, value)
}

func pairTotal(value int) int {
	if value == 11 {
		return 12
	}
	return value * 2
}

// Row returns the row with the given label from any section
func (c Chart) Row(label string) (ChartRow, bool) {
	for _, section := range [][]ChartRow{c.Hard, c.Soft, c.Pairs} {
		for _, row := range section {
			if row.Label == label {
				return row, true
			}
		}
	}
	return ChartRow{}, false
}
