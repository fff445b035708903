package game

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// joinThree admits three players and returns the party's engine with its first
// round already running.
func joinThree(t *testing.T, registry *Registry, partyCode string) *Game {
	t.Helper()
	for i := 0; i < 3; i++ {
		ok, _ := registry.JoinParty(partyCode, fmt.Sprintf("sess-%d", i), fmt.Sprintf("player-%d", i))
		require.True(t, ok)
	}
	g, ok := registry.Get(partyCode)
	require.True(t, ok)
	require.NotNil(t, g.PeekRound(), "round starts once three players joined")
	return g
}

func TestJoinPartyStartsRoundAtThreePlayers(t *testing.T) {
	registry := newTestRegistry(t, time.Hour)

	ok, message := registry.JoinParty("ABC123", "sess-0", "player-0")
	require.True(t, ok)
	assert.Equal(t, "joined party ABC123", message)

	g, found := registry.Get("ABC123")
	require.True(t, found)
	assert.Nil(t, g.PeekRound(), "no round with fewer than three players")

	registry.JoinParty("ABC123", "sess-1", "player-1")
	registry.JoinParty("ABC123", "sess-2", "player-2")
	assert.NotNil(t, g.PeekRound())

	// Rejoining is idempotent and revives a departed player
	registry.LeaveParty("ABC123", "sess-1")
	player, _ := g.PlayerBySession("sess-1")
	assert.True(t, player.Inactive)

	ok, message = registry.JoinParty("ABC123", "sess-1", "player-1")
	require.True(t, ok)
	assert.Equal(t, "already joined", message)
	assert.False(t, player.Inactive)
}

func TestGetLobbyState(t *testing.T) {
	registry := newTestRegistry(t, time.Hour)
	joinThree(t, registry, "ABC123")

	state := registry.GetLobbyState("ABC123", "sess-1")
	require.NotNil(t, state)
	assert.Equal(t, []string{"player-0", "player-1", "player-2"}, state.Players)
	require.NotNil(t, state.CurrentPlayer)
	assert.Equal(t, "player-1", state.CurrentPlayer.Name)
	assert.Equal(t, 1, state.CurrentPlayer.PID)
	assert.Equal(t, 6, state.CurrentPlayer.HandSize)

	// A spectator session still sees the player list
	state = registry.GetLobbyState("ABC123", "sess-stranger")
	require.NotNil(t, state)
	assert.Nil(t, state.CurrentPlayer)

	assert.Nil(t, registry.GetLobbyState("NOPE00", "sess-0"))
}

func TestGetPlayerRoundStateProjection(t *testing.T) {
	registry := newTestRegistry(t, time.Hour)
	g := joinThree(t, registry, "ABC123")
	round := g.PeekRound()

	assert.Nil(t, registry.GetPlayerRoundState("NOPE00", "sess-0"))
	assert.Nil(t, registry.GetPlayerRoundState("ABC123", "sess-stranger"))

	judgeState := registry.GetPlayerRoundState("ABC123", round.Judge.SessionID)
	require.NotNil(t, judgeState)
	assert.Equal(t, "judge", judgeState.Role)
	assert.Equal(t, round.Judge.Name, judgeState.JudgeName)
	assert.Equal(t, StateSelecting, judgeState.State)
	assert.Len(t, judgeState.Hand, 6)
	assert.Greater(t, judgeState.TimeLeft, 0)

	// Submit both non-judge cards and check the owners stay hidden
	for i := 0; i < 3; i++ {
		session := fmt.Sprintf("sess-%d", i)
		if session == round.Judge.SessionID {
			continue
		}
		player, _ := g.PlayerBySession(session)
		ok, _ := registry.PlayCardInParty("ABC123", session, player.Hand[0].ID)
		require.True(t, ok)
	}

	state := registry.GetPlayerRoundState("ABC123", round.Judge.SessionID)
	require.NotNil(t, state)
	assert.Equal(t, StateJudging, state.State)
	require.Len(t, state.Submissions, 2)
	for _, submission := range state.Submissions {
		assert.Empty(t, submission.Owner, "owners are anonymous before the winner is shown")
	}

	// The judge picks; the winner's name becomes visible
	ok, message := registry.JudgeSelectInParty("ABC123", round.Judge.SessionID, round.Submissions[0].Card.ID)
	require.True(t, ok)
	assert.Contains(t, message, "wins the round!")

	state = registry.GetPlayerRoundState("ABC123", "sess-0")
	require.NotNil(t, state)
	assert.Equal(t, StateViewingWinner, state.State)
	assert.NotEmpty(t, state.Winner)
	for _, submission := range state.Submissions {
		assert.NotEmpty(t, submission.Owner)
	}
}

func TestPartyCommandErrorsMapToMessages(t *testing.T) {
	registry := newTestRegistry(t, time.Hour)

	ok, message := registry.PlayCardInParty("NOPE00", "sess-0", 1)
	assert.False(t, ok)
	assert.Equal(t, "party not found", message)

	joinThree(t, registry, "ABC123")

	ok, message = registry.PlayCardInParty("ABC123", "sess-stranger", 1)
	assert.False(t, ok)
	assert.Equal(t, "you have not joined this party", message)

	ok, message = registry.JudgeSelectInParty("ABC123", "sess-stranger", 1)
	assert.False(t, ok)
	assert.Equal(t, "you have not joined this party", message)

	ok, message = registry.ShuffleCardsInParty("NOPE00", "sess-0", 0, 1)
	assert.False(t, ok)
	assert.Equal(t, "party not found", message)
}

func TestEndRoundInPartyStartsTheNextRound(t *testing.T) {
	registry := newTestRegistry(t, time.Hour)
	g := joinThree(t, registry, "ABC123")
	require.Equal(t, 1, g.PeekRound().RoundNum)

	ok, message := registry.EndRoundInParty("ABC123")
	require.True(t, ok)
	assert.Equal(t, "round ended", message)

	next := g.PeekRound()
	require.NotNil(t, next, "the next round starts immediately")
	assert.Equal(t, 2, next.RoundNum)

	ok, message = registry.EndRoundInParty("NOPE00")
	assert.False(t, ok)
	assert.Equal(t, "party not found", message)
}
