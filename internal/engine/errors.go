package engine

import "errors"

// Sentinel errors returned (wrapped) by Apply. Callers match with errors.Is.
var (
	ErrInsufficientPoliticalPower = errors.New("insufficient political power")
	ErrInsufficientTreasury       = errors.New("insufficient treasury")
	ErrInsufficientFunds          = errors.New("insufficient party funds")
	ErrInsufficientResources      = errors.New("insufficient resources")
	ErrTurnBlocked                = errors.New("a pending decision blocks the turn")
	ErrWrongPhase                 = errors.New("action not allowed in the current phase")
	ErrNoPendingBill              = errors.New("no bill awaiting a vote")
	ErrNoActiveEvent              = errors.New("no active event")
	ErrNoVoteResult               = errors.New("no vote result to acknowledge")
	ErrUnknownParty               = errors.New("unknown party")
	ErrUnknownMinister            = errors.New("unknown minister")
	ErrInvalidChoice              = errors.New("invalid choice")
	ErrAlreadyInCoalition         = errors.New("party already in coalition")
	ErrNotRuling                  = errors.New("player party is not ruling")
	ErrNotOpposition              = errors.New("player party is not in opposition")
	ErrLawAlreadyProposed         = errors.New("a law was already proposed this turn")
	ErrGameOver                   = errors.New("game over")
	ErrUnknownAction              = errors.New("unknown action")
)

// IsAffordability reports whether err is one of the resource-shortage errors.
func IsAffordability(err error) bool {
	return errors.Is(err, ErrInsufficientPoliticalPower) ||
		errors.Is(err, ErrInsufficientTreasury) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrInsufficientResources)
}
