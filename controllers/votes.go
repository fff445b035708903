package controllers

import (
	"log"
	"net/http"
	"strconv"

	"cardparty/models/cards"
	votes_models "cardparty/models/votes"
	"cardparty/services/catalog"
	"cardparty/services/votes"
	"cardparty/utils"

	"github.com/gin-gonic/gin"
)

type castVoteRequest struct {
	VoteType string `json:"vote_type"`
}

// @Summary Cast a vote on a pending card
// @Description Records an up/down/duplicate vote; replaces any previous vote from this session
// @Tags votes
// @Accept json
// @Produce json
// @Param id path int true "Card id"
// @Param vote body controllers.castVoteRequest true "Vote type"
// @Success 200 {object} object{stats=object}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /api/v1/cards/{id}/vote [post]
func CastVote(catalogService *catalog.Service, ledger *votes.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cardId, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card id"})
			return
		}
		var req castVoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		voteType := votes_models.VoteType(req.VoteType)
		if !voteType.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "vote type must be 'up', 'down' or 'duplicate'"})
			return
		}

		card, err := catalogService.GetCard(cardId)
		if err != nil || card.Status != cards.StatusPending {
			c.JSON(http.StatusNotFound, gin.H{"error": "no pending card with that id"})
			return
		}

		stats, err := ledger.CastVote(cardId, utils.SessionID(c), voteType)
		if err != nil {
			log.Printf("[VOTES-ERROR] Casting vote on card %d: %v", cardId, err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not record the vote"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"stats": stats})
	}
}

// @Summary Remove this session's vote on a card
// @Tags votes
// @Produce json
// @Param id path int true "Card id"
// @Success 200 {object} object{stats=object}
// @Failure 400 {object} object{error=string}
// @Router /api/v1/cards/{id}/vote [delete]
func RemoveVote(ledger *votes.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cardId, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card id"})
			return
		}

		stats, err := ledger.RemoveVote(cardId, utils.SessionID(c))
		if err != nil {
			log.Printf("[VOTES-ERROR] Removing vote on card %d: %v", cardId, err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not remove the vote"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"stats": stats})
	}
}

// @Summary Vote stats for one card
// @Tags votes
// @Produce json
// @Param id path int true "Card id"
// @Success 200 {object} object{stats=object}
// @Failure 400 {object} object{error=string}
// @Router /api/v1/cards/{id}/votes [get]
func GetVoteStats(ledger *votes.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cardId, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card id"})
			return
		}

		stats, err := ledger.GetVoteStats(cardId)
		if err != nil {
			log.Printf("[VOTES-ERROR] Reading stats for card %d: %v", cardId, err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not read vote stats"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"stats": stats})
	}
}

type bulkStatsRequest struct {
	CardIds []int `json:"card_ids"`
}

// @Summary Vote stats for many cards
// @Description Cards with no recorded votes report zeroed stats
// @Tags votes
// @Accept json
// @Produce json
// @Param ids body controllers.bulkStatsRequest true "Card ids"
// @Success 200 {object} object{stats=object}
// @Router /api/v1/votes/bulk [post]
func GetBulkVoteStats(ledger *votes.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bulkStatsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		stats, err := ledger.GetBulkVoteStats(req.CardIds)
		if err != nil {
			log.Printf("[VOTES-ERROR] Bulk stats: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not read vote stats"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"stats": stats})
	}
}
