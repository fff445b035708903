package game

import (
	"log"
	"sort"
	"sync"
	"time"

	game_constants "cardparty/constants/game"
	"cardparty/models/cards"

	"github.com/google/uuid"
)

// Notifier receives the room-wide "state changed" signals a Game emits after
// every mutation. The gateway registers one per party room.
type Notifier func(success bool, message string)

// StatsRecorder is the slice of the card catalog the engine needs for the
// per-card used/won counters. Nil disables recording.
type StatsRecorder interface {
	IncrementCardUsed(cardId int) error
	IncrementCardWon(cardId int) error
}

// Player is one participant in a party. PID is a sequential integer assigned
// in join order and stays stable for the judge rotation. Players are never
// removed from a game; a departed player is only marked inactive.
type Player struct {
	PID       int          `json:"pid"`
	Name      string       `json:"name"`
	SessionID string       `json:"-"`
	Hand      []cards.Card `json:"hand"`
	RoundsWon []WonRound   `json:"rounds_won"`
	Inactive  bool         `json:"inactive"`
}

// WonRound is one entry in a player's win history.
type WonRound struct {
	RoundNum    int        `json:"round_num"`
	WinningCard cards.Card `json:"winning_card"`
	PromptCard  cards.Card `json:"prompt_card"`
}

// Game is the round engine for one party. All exported methods are safe for
// concurrent use; a single mutex serializes every operation on the instance.
type Game struct {
	mu sync.Mutex

	PartyCode     string
	Active        bool
	GameStartDate time.Time
	Players       map[string]*Player // session id -> player
	AnswerDeck    []cards.Card
	PromptDeck    []cards.Card
	Rounds        []*Round
	RoundLength   time.Duration
	RoundsIdle    int // consecutive rounds that ended with zero submissions
	HandSize      int

	stats        StatsRecorder
	subscribers  map[string]Notifier
	lastActivity time.Time
}

// NewGame creates a party's round engine with its two live decks already
// drawn from the catalog.
func NewGame(partyCode string, answerDeck, promptDeck []cards.Card, handSize int, roundLength time.Duration, stats StatsRecorder) *Game {
	return &Game{
		PartyCode:     partyCode,
		Active:        true,
		GameStartDate: time.Now(),
		Players:       make(map[string]*Player),
		AnswerDeck:    answerDeck,
		PromptDeck:    promptDeck,
		RoundLength:   roundLength,
		HandSize:      handSize,
		stats:         stats,
		subscribers:   make(map[string]Notifier),
		lastActivity:  time.Now(),
	}
}

// AddNewPlayer admits a session to the party, assigns the next sequential pID
// and deals a full hand. Returns ErrDeckExhausted when the answer deck cannot
// support another player. Re-adding an existing session is a no-op.
func (g *Game) AddNewPlayer(name, sessionId string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.Players[sessionId]; ok {
		return nil
	}
	if len(g.AnswerDeck) < game_constants.MinDeckSizeToJoin {
		log.Printf("[GAME] Party %s: answer deck exhausted, rejecting join of %q", g.PartyCode, name)
		return ErrDeckExhausted
	}

	dealt := g.HandSize
	if dealt > len(g.AnswerDeck) {
		dealt = len(g.AnswerDeck)
	}
	player := &Player{
		PID:       len(g.Players),
		Name:      name,
		SessionID: sessionId,
		Hand:      append([]cards.Card{}, g.AnswerDeck[:dealt]...),
	}
	g.AnswerDeck = g.AnswerDeck[dealt:]
	g.Players[sessionId] = player
	g.touchLocked()

	log.Printf("[GAME] Party %s: player %q joined with pID %d", g.PartyCode, name, player.PID)
	return nil
}

// MarkInactive flags a departed player. Inactive players are skipped for
// judge rotation but keep their hand, and resume by reconnecting with the
// same session id.
func (g *Game) MarkInactive(sessionId string, inactive bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if player, ok := g.Players[sessionId]; ok {
		player.Inactive = inactive
	}
}

// PlayerBySession returns the player record for a session, if any.
func (g *Game) PlayerBySession(sessionId string) (*Player, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	player, ok := g.Players[sessionId]
	return player, ok
}

// PlayerNames lists every player's name in join order.
func (g *Game) PlayerNames() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	names := make([]string, 0, len(g.Players))
	for _, player := range g.playersInOrderLocked(false) {
		names = append(names, player.Name)
	}
	return names
}

// Subscribe registers a notifier for this party's state-change signals and
// returns a handle for Unsubscribe.
func (g *Game) Subscribe(fn Notifier) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := uuid.NewString()
	g.subscribers[id] = fn
	return id
}

func (g *Game) Unsubscribe(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.subscribers, id)
}

// LastActivity reports when the party last saw a mutation; the registry
// sweeper uses it to reclaim abandoned parties.
func (g *Game) LastActivity() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastActivity
}

// notify fans a signal out to every subscriber. The subscriber snapshot is
// taken under the lock but the callbacks run outside it.
func (g *Game) notify(success bool, message string) {
	g.mu.Lock()
	subs := make([]Notifier, 0, len(g.subscribers))
	for _, fn := range g.subscribers {
		subs = append(subs, fn)
	}
	g.mu.Unlock()
	for _, fn := range subs {
		fn(success, message)
	}
}

func (g *Game) touchLocked() {
	g.lastActivity = time.Now()
}

// playersInOrderLocked returns players sorted by pID, optionally only the
// active ones. Callers must hold g.mu.
func (g *Game) playersInOrderLocked(activeOnly bool) []*Player {
	ordered := make([]*Player, 0, len(g.Players))
	for _, player := range g.Players {
		if activeOnly && player.Inactive {
			continue
		}
		ordered = append(ordered, player)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].PID < ordered[j].PID
	})
	return ordered
}
