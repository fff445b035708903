package game

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureRoundStartsAndIsIdempotent(t *testing.T) {
	g := newTestGame(t, 3, time.Minute)

	round, err := g.EnsureRound()
	require.NoError(t, err)
	assert.Equal(t, 1, round.RoundNum)
	assert.Equal(t, StateSelecting, round.State)
	assert.Equal(t, 0, round.Judge.PID, "first round's judge is the first joiner")

	again, err := g.EnsureRound()
	require.NoError(t, err)
	assert.Same(t, round, again)
}

func TestEnsureRoundRequiresThreeActivePlayers(t *testing.T) {
	g := newTestGame(t, 2, time.Minute)
	_, err := g.EnsureRound()
	assert.ErrorIs(t, err, ErrTooFewPlayers)

	// A third player who is inactive does not count
	require.NoError(t, g.AddNewPlayer("player-2", "sess-2"))
	g.MarkInactive("sess-2", true)
	_, err = g.EnsureRound()
	assert.ErrorIs(t, err, ErrTooFewPlayers)
}

func TestPeekRoundHasNoSideEffects(t *testing.T) {
	g := newTestGame(t, 3, time.Minute)

	assert.Nil(t, g.PeekRound())

	round, err := g.EnsureRound()
	require.NoError(t, err)
	assert.Same(t, round, g.PeekRound())

	require.NoError(t, g.EndRound())
	assert.Nil(t, g.PeekRound(), "a finished round is not peekable")
}

func TestJudgeRotationSkipsInactivePlayers(t *testing.T) {
	g := newTestGame(t, 3, time.Minute)

	round, err := g.EnsureRound()
	require.NoError(t, err)
	assert.Equal(t, 0, round.Judge.PID)
	require.NoError(t, g.EndRound())

	// Round 2 would be pID 1's turn, but they left
	g.MarkInactive("sess-1", true)
	require.NoError(t, g.AddNewPlayer("player-3", "sess-3"))

	round, err = g.EnsureRound()
	require.NoError(t, err)
	assert.Equal(t, 2, round.Judge.PID, "rotation runs over active players in pID order")
}

func TestPlayCardMovesIntoSubmissionsAndReplenishes(t *testing.T) {
	g := newTestGame(t, 3, time.Minute)
	round, err := g.EnsureRound()
	require.NoError(t, err)

	judgeSession := round.Judge.SessionID
	var playerSession string
	for i := 0; i < 3; i++ {
		s := fmt.Sprintf("sess-%d", i)
		if s != judgeSession {
			playerSession = s
			break
		}
	}

	player, _ := g.PlayerBySession(playerSession)
	played := player.Hand[0]
	require.NoError(t, g.PlayCard(playerSession, played.ID))

	assert.Len(t, player.Hand, 3, "hand is replenished after playing")
	assert.NotContains(t, player.Hand, played)
	require.Len(t, round.Submissions, 1)
	assert.Equal(t, played.ID, round.Submissions[0].Card.ID)
	assert.Equal(t, player.Name, round.Submissions[0].OwnerName)

	// Playing a card that is not in hand
	assert.ErrorIs(t, g.PlayCard(playerSession, 9999), ErrCardNotInHand)
	// The judge never plays
	judge, _ := g.PlayerBySession(judgeSession)
	assert.ErrorIs(t, g.PlayCard(judgeSession, judge.Hand[0].ID), ErrJudgeCannotPlay)
	// Strangers are rejected
	assert.ErrorIs(t, g.PlayCard("sess-nobody", 0), ErrNotPlayer)
}

func TestPlayCardRejectsInactivePlayer(t *testing.T) {
	g := newTestGame(t, 4, time.Minute)
	round, err := g.EnsureRound()
	require.NoError(t, err)

	var session string
	for i := 0; i < 4; i++ {
		s := fmt.Sprintf("sess-%d", i)
		if s != round.Judge.SessionID {
			session = s
			break
		}
	}
	g.MarkInactive(session, true)

	player, _ := g.PlayerBySession(session)
	assert.ErrorIs(t, g.PlayCard(session, player.Hand[0].ID), ErrNotPlayer)

	// Rejoining revives the player and the play goes through
	g.MarkInactive(session, false)
	require.NoError(t, g.PlayCard(session, player.Hand[0].ID))
}

func TestRoundMovesToJudgingWhenAllHavePlayed(t *testing.T) {
	g := newTestGame(t, 3, time.Minute)

	messages := make(chan string, 4)
	g.Subscribe(func(success bool, message string) { messages <- message })

	round, err := g.EnsureRound()
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		session := fmt.Sprintf("sess-%d", i)
		if session == round.Judge.SessionID {
			continue
		}
		player, _ := g.PlayerBySession(session)
		require.NoError(t, g.PlayCard(session, player.Hand[0].ID))
	}

	assert.Equal(t, StateJudging, round.State)
	assert.Equal(t, "all players have played their cards, going to judge-selecting!", <-messages)
	assert.Equal(t, 0, g.RoundTimeLeft(round), "judging reports zero time left")

	// Late plays are rejected once judging starts
	for i := 0; i < 3; i++ {
		session := fmt.Sprintf("sess-%d", i)
		if session == round.Judge.SessionID {
			continue
		}
		player, _ := g.PlayerBySession(session)
		assert.ErrorIs(t, g.PlayCard(session, player.Hand[0].ID), ErrWrongPhase)
	}
}

func TestJudgeSelectCard(t *testing.T) {
	g := newTestGame(t, 3, time.Minute)
	round, err := g.EnsureRound()
	require.NoError(t, err)

	// Judging has not started yet
	_, err = g.JudgeSelectCard(round.Judge.SessionID, 0)
	assert.ErrorIs(t, err, ErrWrongPhase)

	var playedSession string
	for i := 0; i < 3; i++ {
		session := fmt.Sprintf("sess-%d", i)
		if session == round.Judge.SessionID {
			continue
		}
		player, _ := g.PlayerBySession(session)
		require.NoError(t, g.PlayCard(session, player.Hand[0].ID))
		playedSession = session
	}
	require.Equal(t, StateJudging, round.State)

	// Only the judge may pick
	_, err = g.JudgeSelectCard(playedSession, round.Submissions[0].Card.ID)
	assert.ErrorIs(t, err, ErrNotJudge)
	// The pick must be a submitted card
	_, err = g.JudgeSelectCard(round.Judge.SessionID, 9999)
	assert.ErrorIs(t, err, ErrNotSubmitted)

	winning := round.Submissions[0]
	message, err := g.JudgeSelectCard(round.Judge.SessionID, winning.Card.ID)
	require.NoError(t, err)
	assert.Equal(t, winning.OwnerName+" wins the round!", message)
	assert.Equal(t, StateViewingWinner, round.State)
	assert.Equal(t, winning.OwnerName, round.WinnerName)
	require.NotNil(t, round.WinningCard)
	assert.Equal(t, winning.Card.ID, round.WinningCard.ID)

	for _, player := range g.Players {
		if player.PID == winning.OwnerPID {
			require.Len(t, player.RoundsWon, 1)
			assert.Equal(t, 1, player.RoundsWon[0].RoundNum)
			assert.Equal(t, winning.Card.ID, player.RoundsWon[0].WinningCard.ID)
		}
	}
}

func TestEndRoundReturnsCardsToDecks(t *testing.T) {
	g := newTestGame(t, 3, time.Minute)
	answersBefore := len(g.AnswerDeck)
	promptsBefore := len(g.PromptDeck)

	round, err := g.EnsureRound()
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		session := fmt.Sprintf("sess-%d", i)
		if session == round.Judge.SessionID {
			continue
		}
		player, _ := g.PlayerBySession(session)
		require.NoError(t, g.PlayCard(session, player.Hand[0].ID))
	}

	require.NoError(t, g.EndRound())
	assert.False(t, round.Active)
	assert.Len(t, g.AnswerDeck, answersBefore, "submissions flow back into the answer deck")
	assert.Len(t, g.PromptDeck, promptsBefore, "the prompt flows back into the prompt deck")

	next, err := g.EnsureRound()
	require.NoError(t, err)
	assert.Equal(t, 2, next.RoundNum)
}

func TestEndRoundWithoutRound(t *testing.T) {
	g := newTestGame(t, 3, time.Minute)
	assert.ErrorIs(t, g.EndRound(), ErrNoRound)
}

func TestEndRoundTwiceDoesNotReturnCardsTwice(t *testing.T) {
	g := newTestGame(t, 3, time.Minute)
	answersBefore := len(g.AnswerDeck)
	promptsBefore := len(g.PromptDeck)

	round, err := g.EnsureRound()
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		session := fmt.Sprintf("sess-%d", i)
		if session == round.Judge.SessionID {
			continue
		}
		player, _ := g.PlayerBySession(session)
		require.NoError(t, g.PlayCard(session, player.Hand[0].ID))
	}

	require.NoError(t, g.EndRound())
	assert.ErrorIs(t, g.EndRound(), ErrNoRound, "a finished round cannot be ended again")
	assert.Len(t, g.AnswerDeck, answersBefore)
	assert.Len(t, g.PromptDeck, promptsBefore, "prompt card must not be returned twice")
}

func TestEndRoundAfterTimeoutEndedTheRound(t *testing.T) {
	g := newTestGame(t, 3, 200*time.Millisecond)
	promptsBefore := len(g.PromptDeck)

	messages := make(chan string, 4)
	g.Subscribe(func(success bool, message string) { messages <- message })

	_, err := g.EnsureRound()
	require.NoError(t, err)
	select {
	case message := <-messages:
		require.Equal(t, "Skipping judge!", message)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the skip notification")
	}

	assert.ErrorIs(t, g.EndRound(), ErrNoRound)
	assert.Len(t, g.PromptDeck, promptsBefore)
}

func TestRoundTimeoutWithNoSubmissionsSkipsJudge(t *testing.T) {
	g := newTestGame(t, 3, 200*time.Millisecond)

	messages := make(chan string, 4)
	g.Subscribe(func(success bool, message string) { messages <- message })

	_, err := g.EnsureRound()
	require.NoError(t, err)

	select {
	case message := <-messages:
		assert.Equal(t, "Skipping judge!", message)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the skip notification")
	}
	assert.Equal(t, 1, g.RoundsIdle)
	assert.Nil(t, g.PeekRound(), "the idle round ended")
}

func TestRoundTimeoutWithSubmissionsMovesToJudging(t *testing.T) {
	g := newTestGame(t, 3, 200*time.Millisecond)

	messages := make(chan string, 4)
	g.Subscribe(func(success bool, message string) { messages <- message })

	round, err := g.EnsureRound()
	require.NoError(t, err)

	var session string
	for i := 0; i < 3; i++ {
		s := fmt.Sprintf("sess-%d", i)
		if s != round.Judge.SessionID {
			session = s
			break
		}
	}
	player, _ := g.PlayerBySession(session)
	require.NoError(t, g.PlayCard(session, player.Hand[0].ID))

	select {
	case message := <-messages:
		assert.Equal(t, "Judge-selection time!", message)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the judging notification")
	}
	assert.Equal(t, StateJudging, round.State)
	assert.Equal(t, 0, g.RoundsIdle)
}

func TestStaleTimerDoesNotFireAfterEarlyJudging(t *testing.T) {
	g := newTestGame(t, 3, 200*time.Millisecond)

	messages := make(chan string, 4)
	g.Subscribe(func(success bool, message string) { messages <- message })

	round, err := g.EnsureRound()
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		session := fmt.Sprintf("sess-%d", i)
		if session == round.Judge.SessionID {
			continue
		}
		player, _ := g.PlayerBySession(session)
		require.NoError(t, g.PlayCard(session, player.Hand[0].ID))
	}
	assert.Equal(t, "all players have played their cards, going to judge-selecting!", <-messages)

	// Let the original deadline pass; no further signal may arrive
	select {
	case message := <-messages:
		t.Fatalf("stale timer fired: %q", message)
	case <-time.After(400 * time.Millisecond):
	}
	assert.Equal(t, StateJudging, round.State)
}

func TestRoundTimeLeftClampsToZero(t *testing.T) {
	g := newTestGame(t, 3, 30*time.Second)
	round, err := g.EnsureRound()
	require.NoError(t, err)

	left := g.RoundTimeLeft(round)
	assert.Greater(t, left, 0)
	assert.LessOrEqual(t, left, 30)

	assert.Equal(t, 0, g.RoundTimeLeft(nil))
}
