package game

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	game_constants "cardparty/constants/game"
	"cardparty/models/cards"
)

type RoundState string

const (
	StateSelecting     RoundState = "selecting"
	StateJudging       RoundState = "judging"
	StateViewingWinner RoundState = "viewing-winner"
)

// Submission is one answer card played into a round, tagged with its owner.
type Submission struct {
	Card      cards.Card `json:"card"`
	OwnerName string     `json:"owner_name"`
	OwnerPID  int        `json:"owner_pid"`
}

// Round is one judge cycle: prompt draw -> submissions -> judging -> winner.
type Round struct {
	Active      bool
	RoundNum    int // 1-based
	PromptCard  cards.Card
	Submissions []Submission
	Judge       *Player
	State       RoundState
	StartTime   time.Time
	EndTime     time.Time
	WinnerName  string
	WinningCard *cards.Card

	timer *time.Timer
}

// PeekRound returns the current active round without side effects, or nil if
// no round is live. Status queries must use this, never EnsureRound.
func (g *Game) PeekRound() *Round {
	g.mu.Lock()
	defer g.mu.Unlock()
	round := g.latestRoundLocked()
	if round == nil || !round.Active {
		return nil
	}
	return round
}

// EnsureRound returns the current active round, creating and arming a new one
// if none is live. Only commands that are meant to start play call this.
func (g *Game) EnsureRound() (*Round, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ensureRoundLocked()
}

func (g *Game) ensureRoundLocked() (*Round, error) {
	if round := g.latestRoundLocked(); round != nil && round.Active {
		return round, nil
	}

	active := g.playersInOrderLocked(true)
	if len(active) < game_constants.MinPlayersToStart {
		return nil, ErrTooFewPlayers
	}
	if len(g.PromptDeck) == 0 {
		return nil, ErrDeckExhausted
	}

	// Reshuffle what is left of the answer deck before the new round
	rand.Shuffle(len(g.AnswerDeck), func(i, j int) {
		g.AnswerDeck[i], g.AnswerDeck[j] = g.AnswerDeck[j], g.AnswerDeck[i]
	})

	prompt := g.PromptDeck[0]
	g.PromptDeck = g.PromptDeck[1:]

	roundNum := len(g.Rounds) + 1
	round := &Round{
		Active:     true,
		RoundNum:   roundNum,
		PromptCard: prompt,
		Judge:      active[(roundNum-1)%len(active)],
		State:      StateSelecting,
		StartTime:  time.Now(),
	}
	round.timer = time.AfterFunc(g.RoundLength, func() {
		g.onRoundTimeout(roundNum)
	})
	g.Rounds = append(g.Rounds, round)
	g.touchLocked()

	log.Printf("[GAME] Party %s: round %d started, judge is %q", g.PartyCode, roundNum, round.Judge.Name)
	return round, nil
}

// onRoundTimeout fires when the round timer expires. A timer that was
// logically superseded (round ended, judging reached early, new round
// started) must be a no-op, so the current round is re-checked first.
func (g *Game) onRoundTimeout(roundNum int) {
	g.mu.Lock()
	round := g.latestRoundLocked()
	if round == nil || round.RoundNum != roundNum || !round.Active || round.State != StateSelecting {
		g.mu.Unlock()
		return
	}

	if len(round.Submissions) == 0 {
		g.finishRoundLocked(round)
		g.RoundsIdle++
		idle := g.RoundsIdle
		g.mu.Unlock()
		log.Printf("[GAME] Party %s: round %d timed out with no submissions (roundsIdle=%d)",
			g.PartyCode, roundNum, idle)
		g.notify(true, "Skipping judge!")
		return
	}

	round.State = StateJudging
	g.RoundsIdle = 0
	g.mu.Unlock()
	log.Printf("[GAME] Party %s: round %d timed out, moving to judging", g.PartyCode, roundNum)
	g.notify(true, "Judge-selection time!")
}

// PlayCard moves a card from the caller's hand into the round's submissions
// and replenishes the hand. When the last non-judge player has played, the
// round transitions to judging immediately instead of waiting for the timer.
func (g *Game) PlayCard(sessionId string, cardId int) error {
	g.mu.Lock()

	player, ok := g.Players[sessionId]
	if !ok {
		g.mu.Unlock()
		return ErrNotPlayer
	}
	// A lagging socket can deliver a play after the disconnect marked the
	// player inactive; rejoining clears the flag first.
	if player.Inactive {
		g.mu.Unlock()
		return ErrNotPlayer
	}
	round := g.latestRoundLocked()
	if round == nil || !round.Active || round.State != StateSelecting {
		g.mu.Unlock()
		return ErrWrongPhase
	}
	if round.Judge != nil && round.Judge.PID == player.PID {
		g.mu.Unlock()
		return ErrJudgeCannotPlay
	}

	handIndex := -1
	for i, card := range player.Hand {
		if card.ID == cardId {
			handIndex = i
			break
		}
	}
	if handIndex < 0 {
		g.mu.Unlock()
		return ErrCardNotInHand
	}

	played := player.Hand[handIndex]
	player.Hand = append(player.Hand[:handIndex], player.Hand[handIndex+1:]...)
	round.Submissions = append(round.Submissions, Submission{
		Card:      played,
		OwnerName: player.Name,
		OwnerPID:  player.PID,
	})
	if len(g.AnswerDeck) > 0 {
		player.Hand = append(player.Hand, g.AnswerDeck[0])
		g.AnswerDeck = g.AnswerDeck[1:]
	}
	g.touchLocked()

	if g.stats != nil {
		if err := g.stats.IncrementCardUsed(played.ID); err != nil {
			log.Printf("[GAME-ERROR] Party %s: used counter for card %d: %v", g.PartyCode, played.ID, err)
		}
	}

	allPlayed := len(round.Submissions) >= len(g.playersInOrderLocked(true))-1
	if allPlayed {
		round.State = StateJudging
		g.RoundsIdle = 0
		if round.timer != nil {
			round.timer.Stop()
		}
	}
	g.mu.Unlock()

	if allPlayed {
		g.notify(true, "all players have played their cards, going to judge-selecting!")
	}
	return nil
}

// JudgeSelectCard records the judge's pick, moving the round to
// viewing-winner and crediting the winning player.
func (g *Game) JudgeSelectCard(sessionId string, cardId int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	player, ok := g.Players[sessionId]
	if !ok {
		return "", ErrNotPlayer
	}
	round := g.latestRoundLocked()
	if round == nil || !round.Active {
		return "", ErrNoRound
	}
	if round.Judge == nil || round.Judge.PID != player.PID {
		return "", ErrNotJudge
	}
	if round.State != StateJudging {
		return "", ErrWrongPhase
	}

	var winning *Submission
	for i := range round.Submissions {
		if round.Submissions[i].Card.ID == cardId {
			winning = &round.Submissions[i]
			break
		}
	}
	if winning == nil {
		return "", ErrNotSubmitted
	}

	round.State = StateViewingWinner
	round.WinnerName = winning.OwnerName
	winningCard := winning.Card
	round.WinningCard = &winningCard
	g.RoundsIdle = 0

	for _, candidate := range g.Players {
		if candidate.PID == winning.OwnerPID {
			candidate.RoundsWon = append(candidate.RoundsWon, WonRound{
				RoundNum:    round.RoundNum,
				WinningCard: winningCard,
				PromptCard:  round.PromptCard,
			})
			break
		}
	}
	g.touchLocked()

	if g.stats != nil {
		if err := g.stats.IncrementCardWon(winningCard.ID); err != nil {
			log.Printf("[GAME-ERROR] Party %s: won counter for card %d: %v", g.PartyCode, winningCard.ID, err)
		}
	}

	log.Printf("[GAME] Party %s: round %d won by %q", g.PartyCode, round.RoundNum, winning.OwnerName)
	return fmt.Sprintf("%s wins the round!", winning.OwnerName), nil
}

// EndRound closes the current round and returns the borrowed cards to the
// deck pools, which lets EnsureRound start a fresh round on the next call.
// A round that already ended cannot be ended again: its cards went back to
// the decks once and must not be returned twice.
func (g *Game) EndRound() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	round := g.latestRoundLocked()
	if round == nil || !round.Active {
		return ErrNoRound
	}
	g.finishRoundLocked(round)
	g.touchLocked()
	return nil
}

// finishRoundLocked cancels the live timer, marks the round inactive and
// returns its cards: submissions back to the answer deck (ownership tags
// stripped), the prompt back to the prompt deck. Callers must hold g.mu.
func (g *Game) finishRoundLocked(round *Round) {
	if round.timer != nil {
		round.timer.Stop()
	}
	round.Active = false
	round.EndTime = time.Now()
	for _, submission := range round.Submissions {
		g.AnswerDeck = append(g.AnswerDeck, submission.Card)
	}
	g.PromptDeck = append(g.PromptDeck, round.PromptCard)
}

// ShuffleCard reorders one card within the caller's own hand. Purely
// cosmetic, no round-state effect.
func (g *Game) ShuffleCard(sessionId string, srcIndex, destIndex int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	player, ok := g.Players[sessionId]
	if !ok {
		return ErrNotPlayer
	}
	if srcIndex < 0 || srcIndex >= len(player.Hand) || destIndex < 0 || destIndex >= len(player.Hand) {
		return nil
	}
	card := player.Hand[srcIndex]
	player.Hand = append(player.Hand[:srcIndex], player.Hand[srcIndex+1:]...)
	player.Hand = append(player.Hand[:destIndex], append([]cards.Card{card}, player.Hand[destIndex:]...)...)
	g.touchLocked()
	return nil
}

// RoundTimeLeft reports the seconds remaining in the selecting phase, clamped
// to zero. Judging and viewing-winner always report zero.
func (g *Game) RoundTimeLeft(round *Round) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.timeLeftLocked(round)
}

func (g *Game) timeLeftLocked(round *Round) int {
	if round == nil || round.State != StateSelecting {
		return 0
	}
	left := time.Until(round.StartTime.Add(g.RoundLength))
	if left < 0 {
		return 0
	}
	return int(left.Seconds())
}

func (g *Game) latestRoundLocked() *Round {
	if len(g.Rounds) == 0 {
		return nil
	}
	return g.Rounds[len(g.Rounds)-1]
}
