package game

import "strings"

// Action represents a player decision
type Action int

const (
	Hit Action = iota
	Stand
	DoubleDown
	Split
	Surrender
	Insurance
	DeclineInsurance
	EvenMoney
	DeclineEvenMoney
)

// allActions is the canonical display order
var allActions = []Action{Hit, Stand, DoubleDown, Split, Surrender, Insurance, DeclineInsurance, EvenMoney, DeclineEvenMoney}

// String returns the display name of the action
func (a Action) String() string {
	switch a {
	case Hit:
		return "Hit"
	case Stand:
		return "Stand"
	case DoubleDown:
		return "Double"
	case Split:
		return "Split"
	case Surrender:
		return "Surrender"
	case Insurance:
		return "Insurance"
	case DeclineInsurance:
		return "No Insurance"
	case EvenMoney:
		return "Even Money"
	case DeclineEvenMoney:
		return "No Even Money"
	default:
		return "Unknown"
	}
}

// ActionSet is a set of actions. The zero value is empty.
type ActionSet uint16

// NewActionSet builds a set from the given actions
func NewActionSet(actions ...Action) ActionSet {
	var s ActionSet
	for _, a := range actions {
		s = s.With(a)
	}
	return s
}

// With returns the set with a added
func (s ActionSet) With(a Action) ActionSet {
	return s | 1<<uint(a)
}

// Without returns the set with a removed
func (s ActionSet) Without(a Action) ActionSet {
	return s &^ (1 << uint(a))
}

// Has reports whether a is in the set
func (s ActionSet) Has(a Action) bool {
	return s&(1<<uint(a)) != 0
}

// IsEmpty reports whether the set has no actions
func (s ActionSet) IsEmpty() bool {
	return s == 0
}

// Len returns the number of actions in the set
func (s ActionSet) Len() int {
	n := 0
	for _, a := range allActions {
		if s.Has(a) {
			n++
		}
	}
	return n
}

// Actions returns the members in canonical order
func (s ActionSet) Actions() []Action {
	out := make([]Action, 0, len(allActions))
	for _, a := range allActions {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// String returns the members as "{Hit, Stand}"
func (s ActionSet) String() string {
	names := make([]string, 0, len(allActions))
	for _, a := range s.Actions() {
		names = append(names, a.String())
	}
	return "{" + strings.Join(names, ", ") + "}"
}
