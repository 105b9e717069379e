package strategy

import "github.com/lox/blackjack/internal/game"

// Cell is one entry of a strategy table: a preferred action and the
// fallbacks used when it is not available.
type Cell int

const (
	// none marks a table entry with no recommendation, so resolution falls
	// through to the next table tier.
	none Cell = iota
	H         // hit
	S         // stand
	D         // double, else hit
	Ds        // double, else stand
	P         // split, else hit
	Rh        // surrender, else hit
	Rs        // surrender, else stand
	Rp        // surrender, else split, else hit
)

var chains = map[Cell][]game.Action{
	H:  {game.Hit},
	S:  {game.Stand},
	D:  {game.DoubleDown, game.Hit},
	Ds: {game.DoubleDown, game.Stand},
	P:  {game.Split, game.Hit},
	Rh: {game.Surrender, game.Hit},
	Rs: {game.Surrender, game.Stand},
	Rp: {game.Surrender, game.Split, game.Hit},
}

// String returns the chart symbol of the cell
func (c Cell) String() string {
	switch c {
	case H:
		return "H"
	case S:
		return "S"
	case D:
		return "D"
	case Ds:
		return "Ds"
	case P:
		return "P"
	case Rh:
		return "Rh"
	case Rs:
		return "Rs"
	case Rp:
		return "Rp"
	default:
		return ""
	}
}

// Describe returns the long form used in chart legends
func (c Cell) Describe() string {
	switch c {
	case H:
		return "Hit"
	case S:
		return "Stand"
	case D:
		return "Double, else Hit"
	case Ds:
		return "Double, else Stand"
	case P:
		return "Split, else Hit"
	case Rh:
		return "Surrender, else Hit"
	case Rs:
		return "Surrender, else Stand"
	case Rp:
		return "Surrender, else Split, else Hit"
	default:
		return ""
	}
}

// Primary returns the preferred action of the cell
func (c Cell) Primary() (game.Action, bool) {
	chain := chains[c]
	if len(chain) == 0 {
		return 0, false
	}
	return chain[0], true
}

// Resolve walks the fallback chain and returns the first available action
func (c Cell) Resolve(available game.ActionSet) (game.Action, bool) {
	for _, a := range chains[c] {
		if available.Has(a) {
			return a, true
		}
	}
	return 0, false
}

// Cells lists every cell kind in legend order
var Cells = []Cell{H, S, D, Ds, P, Rh, Rs, Rp}
