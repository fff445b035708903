package game

import (
	"fmt"
	"testing"
	"time"

	"cardparty/models/cards"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeAnswerCards(n int) []cards.Card {
	deck := make([]cards.Card, n)
	for i := range deck {
		deck[i] = cards.Card{
			ID:        100 + i,
			CardType:  cards.TypeAnswer,
			Text:      fmt.Sprintf("answer %d", i),
			Expansion: "Base",
			Status:    cards.StatusOfficial,
		}
	}
	return deck
}

func makePromptCards(n int) []cards.Card {
	deck := make([]cards.Card, n)
	for i := range deck {
		deck[i] = cards.Card{
			ID:         900 + i,
			CardType:   cards.TypePrompt,
			Text:       fmt.Sprintf("prompt %d ____", i),
			NumAnswers: 1,
			Expansion:  "Base",
			Status:     cards.StatusOfficial,
		}
	}
	return deck
}

// newTestGame builds a party with n players already admitted, a hand size of
// 3 and a generous deck.
func newTestGame(t *testing.T, n int, roundLength time.Duration) *Game {
	t.Helper()
	g := NewGame("TEST01", makeAnswerCards(30), makePromptCards(10), 3, roundLength, nil)
	for i := 0; i < n; i++ {
		require.NoError(t, g.AddNewPlayer(fmt.Sprintf("player-%d", i), fmt.Sprintf("sess-%d", i)))
	}
	return g
}

func TestAddNewPlayerAssignsSequentialPIDsAndDealsHands(t *testing.T) {
	g := newTestGame(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		player, ok := g.PlayerBySession(fmt.Sprintf("sess-%d", i))
		require.True(t, ok)
		assert.Equal(t, i, player.PID)
		assert.Len(t, player.Hand, 3)
	}
	assert.Len(t, g.AnswerDeck, 30-3*3)
	assert.Equal(t, []string{"player-0", "player-1", "player-2"}, g.PlayerNames())
}

func TestAddNewPlayerIsIdempotentPerSession(t *testing.T) {
	g := newTestGame(t, 1, time.Minute)
	deckBefore := len(g.AnswerDeck)

	require.NoError(t, g.AddNewPlayer("someone else", "sess-0"))

	player, _ := g.PlayerBySession("sess-0")
	assert.Equal(t, "player-0", player.Name, "rejoin must not rename or redeal")
	assert.Len(t, g.AnswerDeck, deckBefore)
}

func TestAddNewPlayerRejectsWhenDeckExhausted(t *testing.T) {
	g := NewGame("TEST01", makeAnswerCards(2), makePromptCards(5), 3, time.Minute, nil)
	assert.ErrorIs(t, g.AddNewPlayer("late", "sess-late"), ErrDeckExhausted)
}

func TestMarkInactiveKeepsHand(t *testing.T) {
	g := newTestGame(t, 3, time.Minute)

	g.MarkInactive("sess-1", true)
	player, ok := g.PlayerBySession("sess-1")
	require.True(t, ok)
	assert.True(t, player.Inactive)
	assert.Len(t, player.Hand, 3)

	g.MarkInactive("sess-1", false)
	player, _ = g.PlayerBySession("sess-1")
	assert.False(t, player.Inactive)
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	g := newTestGame(t, 1, time.Minute)

	got := make(chan string, 4)
	handle := g.Subscribe(func(success bool, message string) {
		got <- message
	})

	g.notify(true, "hello")
	assert.Equal(t, "hello", <-got)

	g.Unsubscribe(handle)
	g.notify(true, "gone")
	select {
	case msg := <-got:
		t.Fatalf("unexpected notification after unsubscribe: %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestShuffleCardReordersOwnHand(t *testing.T) {
	g := newTestGame(t, 1, time.Minute)
	player, _ := g.PlayerBySession("sess-0")
	first := player.Hand[0]

	require.NoError(t, g.ShuffleCard("sess-0", 0, 2))
	assert.Equal(t, first.ID, player.Hand[2].ID)

	// Out-of-range indexes are silently ignored
	require.NoError(t, g.ShuffleCard("sess-0", 0, 99))
	assert.ErrorIs(t, g.ShuffleCard("sess-nobody", 0, 1), ErrNotPlayer)
}
