package game

import "errors"

// Caller/state violations are typed so the gateway layer can map each failure
// mode to the (success, message) wire contract exhaustively.
var (
	ErrPartyNotFound   = errors.New("party not found")
	ErrNotPlayer       = errors.New("session has not joined this party")
	ErrTooFewPlayers   = errors.New("not enough players to start a round")
	ErrDeckExhausted   = errors.New("not enough cards left in the deck")
	ErrNoRound         = errors.New("no round exists")
	ErrWrongPhase      = errors.New("round is not in the right phase")
	ErrNotJudge        = errors.New("only the judge can do that")
	ErrJudgeCannotPlay = errors.New("the judge cannot play a card")
	ErrCardNotInHand   = errors.New("card is not in your hand")
	ErrNotSubmitted    = errors.New("card was not submitted this round")
)
