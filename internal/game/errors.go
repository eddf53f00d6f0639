package game

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalMove marks a move the rules reject. The engine state is
	// unchanged and the player may try again.
	ErrIllegalMove = errors.New("illegal move")
	// ErrConfiguration marks a deal that Start cannot accept.
	ErrConfiguration = errors.New("invalid game configuration")
	// ErrUsage marks a call the engine cannot serve in its current phase.
	ErrUsage = errors.New("engine used out of phase")
)

// Reason identifies why a move was rejected
type Reason string

const (
	ReasonOutOfTurn              Reason = "out_of_turn"
	ReasonPassOnEmptyTable       Reason = "pass_on_empty_table"
	ReasonPassOnOwnHand          Reason = "pass_on_own_hand"
	ReasonBadSelection           Reason = "bad_selection"
	ReasonInvalidHand            Reason = "invalid_hand"
	ReasonMissingThreeOfDiamonds Reason = "missing_three_of_diamonds"
	ReasonDoesNotBeat            Reason = "does_not_beat"
)

var reasonText = map[Reason]string{
	ReasonOutOfTurn:              "it is not your turn",
	ReasonPassOnEmptyTable:       "cannot pass on an empty table",
	ReasonPassOnOwnHand:          "cannot pass on your own hand",
	ReasonBadSelection:           "card selection is out of range or repeated",
	ReasonInvalidHand:            "cards do not form a legal hand",
	ReasonMissingThreeOfDiamonds: "the opening hand must contain the 3♦",
	ReasonDoesNotBeat:            "hand does not beat the table",
}

// String returns a human readable description of the reason
func (r Reason) String() string {
	if s, ok := reasonText[r]; ok {
		return s
	}
	return string(r)
}

// MoveError is returned for moves the rules reject
type MoveError struct {
	Player int
	Reason Reason
	Err    error // underlying cause, if any
}

func (e *MoveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("player %d: %s: %v", e.Player, e.Reason, e.Err)
	}
	return fmt.Sprintf("player %d: %s", e.Player, e.Reason)
}

func (e *MoveError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrIllegalMove}
	}
	return []error{ErrIllegalMove, e.Err}
}

// ConfigError is returned by Start when the dealt hands are malformed
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %v", ErrConfiguration, e.Err)
}

func (e *ConfigError) Unwrap() []error {
	return []error{ErrConfiguration, e.Err}
}

// UsageError is returned when an operation is called in the wrong phase
type UsageError struct {
	Op    string
	Phase Phase
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s while %s", ErrUsage, e.Op, e.Phase)
}

func (e *UsageError) Unwrap() error { return ErrUsage }

// IsIllegalMove reports whether err is a rejected move and returns its reason
func IsIllegalMove(err error) (Reason, bool) {
	var me *MoveError
	if errors.As(err, &me) {
		return me.Reason, true
	}
	return "", false
}
