package strategy

import (
	"fmt"

	"github.com/lox/blackjack/internal/game"
)

// Feedback is the coach's verdict on one decision
type Feedback struct {
	Correct bool
	Message string
}

// Grade compares the chosen action with the advised one
func Grade(chosen game.Action, advice Advice) Feedback {
	var f Feedback
	if chosen == advice.Action {
		f = Feedback{Correct: true, Message: fmt.Sprintf("Correct! %s was optimal.", chosen)}
	} else {
		f = Feedback{Message: fmt.Sprintf("Optimal play: %s (you chose %s)", advice.Action, chosen)}
	}
	if advice.IsDeviation {
		f.Message += " " + advice.Description
	}
	return f
}

// GradeInsurance grades an insurance or even money decision. Basic strategy
// always declines; with deviations enabled a true count of +3 or more takes
// it.
func GradeInsurance(chosen game.Action, trueCount float64, deviations bool) Feedback {
	take := chosen == game.Insurance || chosen == game.EvenMoney
	evenMoney := chosen == game.EvenMoney || chosen == game.DeclineEvenMoney

	if deviations {
		if advice, ok := InsuranceDeviation(trueCount); ok {
			if take {
				return Feedback{Correct: true, Message: "Correct! " + advice.Description}
			}
			return Feedback{Message: advice.Description + " (you declined)"}
		}
	}

	switch {
	case take && evenMoney:
		return Feedback{Message: "Basic strategy: decline even money"}
	case take:
		return Feedback{Message: "Basic strategy: never take insurance"}
	case evenMoney:
		return Feedback{Correct: true, Message: "Correct! Decline even money."}
	default:
		return Feedback{Correct: true, Message: "Correct! Never take insurance."}
	}
}
