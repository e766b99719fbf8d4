// Package tuimsg defines messages shared between the root model and the scenes
package tuimsg

import (
	"github.com/shopspring/decimal"
)

// GoalChangedMsg is sent by the advice scene when the user submits a new goal.
// A nil Goal clears it.
type GoalChangedMsg struct {
	Goal *decimal.Decimal
}

// EditingMsg tells the root model whether a scene owns the keyboard
type EditingMsg struct {
	Editing bool
}
