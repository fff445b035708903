package game

import (
	"errors"
	"log"

	"cardparty/models/cards"
)

// The functions in this file are the contract consumed by the transport
// gateway: one logical call per action, each reporting success/failure plus a
// human-readable message instead of surfacing errors.

// PlayerSummary is the caller's own player record in a lobby projection.
type PlayerSummary struct {
	Name      string `json:"name"`
	PID       int    `json:"pid"`
	RoundsWon int    `json:"rounds_won"`
	HandSize  int    `json:"hand_size"`
}

// LobbyState is the party-lobby projection.
type LobbyState struct {
	Players       []string       `json:"players"`
	CurrentPlayer *PlayerSummary `json:"current_player"`
}

// SubmissionView is a submission as shown to players: the owner stays hidden
// until the round reaches viewing-winner.
type SubmissionView struct {
	Card  cards.Card `json:"card"`
	Owner string     `json:"owner,omitempty"`
}

// PlayerRoundState is the per-player projection of the current round.
type PlayerRoundState struct {
	RoundNum    int              `json:"round_num"`
	State       RoundState       `json:"state"`
	Role        string           `json:"role"` // "judge" or "player"
	JudgeName   string           `json:"judge_name"`
	Hand        []cards.Card     `json:"hand"`
	PromptCard  cards.Card       `json:"prompt_card"`
	Submissions []SubmissionView `json:"submissions"`
	TimeLeft    int              `json:"time_left"`
	Winner      string           `json:"winner,omitempty"`
	WinningCard *cards.Card      `json:"winning_card,omitempty"`
}

// JoinParty resolves or creates the party and admits the session. Joining is
// idempotent per session; once enough players are present the first round is
// started here, never from a status query.
func (r *Registry) JoinParty(partyCode, sessionId, name string) (bool, string) {
	g, err := r.GetOrCreate(partyCode)
	if err != nil {
		log.Printf("[REGISTRY-ERROR] Party %s: %v", partyCode, err)
		return false, "could not create the party"
	}

	if _, already := g.PlayerBySession(sessionId); already {
		g.MarkInactive(sessionId, false) // rejoin revives a departed player
		return true, "already joined"
	}
	if err := g.AddNewPlayer(name, sessionId); err != nil {
		return resultFromError(err)
	}
	g.notify(true, "lobby changed")

	if _, err := g.EnsureRound(); err != nil && !errors.Is(err, ErrTooFewPlayers) {
		log.Printf("[GAME-ERROR] Party %s: starting round after join: %v", partyCode, err)
	}
	return true, "joined party " + partyCode
}

// LeaveParty marks the session's player inactive. The player keeps their hand
// and is skipped for judge rotation until they rejoin.
func (r *Registry) LeaveParty(partyCode, sessionId string) {
	if g, ok := r.Get(partyCode); ok {
		g.MarkInactive(sessionId, true)
		g.notify(true, "lobby changed")
	}
}

// GetLobbyState projects the lobby for one session. Returns nil if the party
// does not exist.
func (r *Registry) GetLobbyState(partyCode, sessionId string) *LobbyState {
	g, ok := r.Get(partyCode)
	if !ok {
		return nil
	}

	state := &LobbyState{Players: g.PlayerNames()}
	if player, ok := g.PlayerBySession(sessionId); ok {
		state.CurrentPlayer = &PlayerSummary{
			Name:      player.Name,
			PID:       player.PID,
			RoundsWon: len(player.RoundsWon),
			HandSize:  len(player.Hand),
		}
	}
	return state
}

// GetPlayerRoundState projects the current round for one session: hand,
// prompt, anonymized submissions, role, state and clamped time left. Returns
// nil if the party does not exist, the session has not joined, or no round is
// live. Never starts a round.
func (r *Registry) GetPlayerRoundState(partyCode, sessionId string) *PlayerRoundState {
	g, ok := r.Get(partyCode)
	if !ok {
		return nil
	}
	return g.ProjectForPlayer(sessionId)
}

// ProjectForPlayer builds the per-player round projection under one lock.
func (g *Game) ProjectForPlayer(sessionId string) *PlayerRoundState {
	g.mu.Lock()
	defer g.mu.Unlock()

	player, ok := g.Players[sessionId]
	if !ok {
		return nil
	}
	round := g.latestRoundLocked()
	if round == nil || !round.Active {
		return nil
	}

	role := "player"
	if round.Judge != nil && round.Judge.PID == player.PID {
		role = "judge"
	}

	state := &PlayerRoundState{
		RoundNum:    round.RoundNum,
		State:       round.State,
		Role:        role,
		Hand:        append([]cards.Card{}, player.Hand...),
		PromptCard:  round.PromptCard,
		TimeLeft:    g.timeLeftLocked(round),
		Winner:      round.WinnerName,
		WinningCard: round.WinningCard,
	}
	if round.Judge != nil {
		state.JudgeName = round.Judge.Name
	}
	for _, submission := range round.Submissions {
		view := SubmissionView{Card: submission.Card}
		if round.State == StateViewingWinner {
			view.Owner = submission.OwnerName
		}
		state.Submissions = append(state.Submissions, view)
	}
	return state
}

// PlayCardInParty routes a playCard command to the party's engine.
func (r *Registry) PlayCardInParty(partyCode, sessionId string, cardId int) (bool, string) {
	g, ok := r.Get(partyCode)
	if !ok {
		return resultFromError(ErrPartyNotFound)
	}
	if err := g.PlayCard(sessionId, cardId); err != nil {
		return resultFromError(err)
	}
	return true, "card played"
}

// JudgeSelectInParty routes a judgeSelectCard command to the party's engine.
func (r *Registry) JudgeSelectInParty(partyCode, sessionId string, cardId int) (bool, string) {
	g, ok := r.Get(partyCode)
	if !ok {
		return resultFromError(ErrPartyNotFound)
	}
	message, err := g.JudgeSelectCard(sessionId, cardId)
	if err != nil {
		return resultFromError(err)
	}
	g.notify(true, message)
	return true, message
}

// ShuffleCardsInParty reorders one card in the caller's hand.
func (r *Registry) ShuffleCardsInParty(partyCode, sessionId string, srcIndex, destIndex int) (bool, string) {
	g, ok := r.Get(partyCode)
	if !ok {
		return resultFromError(ErrPartyNotFound)
	}
	if err := g.ShuffleCard(sessionId, srcIndex, destIndex); err != nil {
		return resultFromError(err)
	}
	return true, "hand reordered"
}

// EndRoundInParty closes the current round and, when the table still has
// enough players, immediately starts the next one.
func (r *Registry) EndRoundInParty(partyCode string) (bool, string) {
	g, ok := r.Get(partyCode)
	if !ok {
		return resultFromError(ErrPartyNotFound)
	}
	if err := g.EndRound(); err != nil {
		return resultFromError(err)
	}
	g.notify(true, "round ended")

	if _, err := g.EnsureRound(); err != nil && !errors.Is(err, ErrTooFewPlayers) && !errors.Is(err, ErrDeckExhausted) {
		log.Printf("[GAME-ERROR] Party %s: starting next round: %v", partyCode, err)
	}
	return true, "round ended"
}

// resultFromError maps the engine's typed errors onto the wire contract.
func resultFromError(err error) (bool, string) {
	switch {
	case errors.Is(err, ErrPartyNotFound):
		return false, "party not found"
	case errors.Is(err, ErrNotPlayer):
		return false, "you have not joined this party"
	case errors.Is(err, ErrTooFewPlayers):
		return false, "waiting for more players"
	case errors.Is(err, ErrDeckExhausted):
		return false, "the deck does not have enough cards left"
	case errors.Is(err, ErrNoRound):
		return false, "no round is in progress"
	case errors.Is(err, ErrWrongPhase):
		return false, "that action is not allowed right now"
	case errors.Is(err, ErrNotJudge):
		return false, "only the judge can do that"
	case errors.Is(err, ErrJudgeCannotPlay):
		return false, "the judge does not play a card this round"
	case errors.Is(err, ErrCardNotInHand):
		return false, "that card is not in your hand"
	case errors.Is(err, ErrNotSubmitted):
		return false, "that card was not submitted this round"
	default:
		return false, "something went wrong"
	}
}
