package handlers

import (
	"cardparty/services/game"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// HandlePlayCard submits one of the caller's hand cards into the round.
func HandlePlayCard(registry *game.Registry, client *socket.Socket,
	sessionId string) func(args ...interface{}) {
	return func(args ...interface{}) {
		partyCode, ok := partyCodeArg(args)
		if !ok {
			client.Emit("error", gin.H{"error": "party code is required"})
			return
		}
		cardId, ok := numberArg(args, 1)
		if !ok {
			client.Emit("error", gin.H{"error": "card id is required"})
			return
		}

		success, message := registry.PlayCardInParty(partyCode, sessionId, cardId)
		if !success {
			client.Emit("error", gin.H{"error": message})
			return
		}
		client.Emit("card_played", gin.H{"message": message})
	}
}

// HandleJudgeSelectCard records the judge's winning pick.
func HandleJudgeSelectCard(registry *game.Registry, client *socket.Socket,
	sessionId string) func(args ...interface{}) {
	return func(args ...interface{}) {
		partyCode, ok := partyCodeArg(args)
		if !ok {
			client.Emit("error", gin.H{"error": "party code is required"})
			return
		}
		cardId, ok := numberArg(args, 1)
		if !ok {
			client.Emit("error", gin.H{"error": "card id is required"})
			return
		}

		success, message := registry.JudgeSelectInParty(partyCode, sessionId, cardId)
		if !success {
			client.Emit("error", gin.H{"error": message})
			return
		}
		client.Emit("winner_selected", gin.H{"message": message})
	}
}

// HandleShuffleCards reorders one card in the caller's own hand.
func HandleShuffleCards(registry *game.Registry, client *socket.Socket,
	sessionId string) func(args ...interface{}) {
	return func(args ...interface{}) {
		partyCode, ok := partyCodeArg(args)
		if !ok {
			client.Emit("error", gin.H{"error": "party code is required"})
			return
		}
		srcIndex, ok1 := numberArg(args, 1)
		destIndex, ok2 := numberArg(args, 2)
		if !ok1 || !ok2 {
			client.Emit("error", gin.H{"error": "source and destination indexes are required"})
			return
		}

		success, message := registry.ShuffleCardsInParty(partyCode, sessionId, srcIndex, destIndex)
		if !success {
			client.Emit("error", gin.H{"error": message})
			return
		}
		client.Emit("hand_shuffled", gin.H{"message": message})
	}
}

// HandleEndRound finishes the current round and returns its cards to the decks.
func HandleEndRound(registry *game.Registry, client *socket.Socket,
	sessionId string) func(args ...interface{}) {
	return func(args ...interface{}) {
		partyCode, ok := partyCodeArg(args)
		if !ok {
			client.Emit("error", gin.H{"error": "party code is required"})
			return
		}

		success, message := registry.EndRoundInParty(partyCode)
		if !success {
			client.Emit("error", gin.H{"error": message})
			return
		}
		client.Emit("round_ended", gin.H{"message": message})
	}
}
