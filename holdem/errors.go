package holdem

import "errors"

var (
	ErrUnknownPlayer     = errors.New("unknown player")
	ErrInactivePlayer    = errors.New("player has folded")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrOutOfTurn         = errors.New("action out of turn")
	ErrInvalidBet        = errors.New("invalid bet amount")
	ErrNoActiveHand      = errors.New("no hand in progress")
	ErrTableFull         = errors.New("table is full")
)

type InvalidStateError string

func (e InvalidStateError) Error() string { return "invalid state: " + string(e) }

func ErrInvalidState(msg string) error { return InvalidStateError(msg) }
