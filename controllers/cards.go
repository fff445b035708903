package controllers

import (
	"log"
	"net/http"
	"strconv"

	"cardparty/models/cards"
	"cardparty/services/catalog"
	"cardparty/services/votes"
	"cardparty/utils"

	"github.com/gin-gonic/gin"
)

type submitCardRequest struct {
	Text       string `json:"text"`
	CardType   string `json:"card_type"`
	NumAnswers int    `json:"num_answers"`
}

// @Summary Submit a user card
// @Description Validates and stores a new user-submitted card as pending
// @Tags cards
// @Accept json
// @Produce json
// @Param card body controllers.submitCardRequest true "Card submission"
// @Success 201 {object} object{card_id=integer,message=string}
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string,duplicate=object}
// @Failure 429 {object} object{error=string}
// @Router /api/v1/cards [post]
func SubmitCard(catalogService *catalog.Service, gate utils.SpamGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req submitCardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if reason, ok := utils.ValidateCardSubmission(req.Text, req.CardType); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": reason})
			return
		}

		sessionId := utils.SessionID(c)
		if !gate.Allow(sessionId, req.Text) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "slow down, you just submitted that"})
			return
		}

		cardType := cards.CardType(req.CardType)
		if match := catalogService.CheckForDuplicate(req.Text, cardType); match != nil {
			c.JSON(http.StatusConflict, gin.H{
				"error":     "a card with that text already exists",
				"duplicate": match,
			})
			return
		}

		card, err := catalogService.SubmitUserCard(req.Text, cardType, req.NumAnswers)
		if err != nil {
			log.Printf("[CARDS-ERROR] Submitting card: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not store the card"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"card_id": card.ID, "message": "card submitted for review"})
	}
}

// @Summary List pending cards
// @Description Pending user cards for moderation, with vote stats attached
// @Tags moderation
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param type query string false "Card type filter (prompt or answer)"
// @Success 200 {object} object{cards=array}
// @Failure 503 {object} object{error=string}
// @Router /api/v1/moderation/pending [get]
// @Security ApiKeyAuth
func GetPendingCards(catalogService *catalog.Service, ledger *votes.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		types := []cards.CardType{cards.TypeAnswer, cards.TypePrompt}
		if t := c.Query("type"); t != "" {
			if !cards.CardType(t).IsValid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "card type must be 'prompt' or 'answer'"})
				return
			}
			types = []cards.CardType{cards.CardType(t)}
		}

		pending := make([]cards.Card, 0)
		for _, cardType := range types {
			batch, err := catalogService.PendingCards(cardType)
			if err != nil {
				log.Printf("[CARDS-ERROR] Listing pending cards: %v", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not list pending cards"})
				return
			}
			pending = append(pending, batch...)
		}

		ids := make([]int, len(pending))
		for i, card := range pending {
			ids[i] = card.ID
		}
		stats, err := ledger.GetBulkVoteStats(ids)
		if err != nil {
			log.Printf("[CARDS-ERROR] Bulk vote stats: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not read vote stats"})
			return
		}

		type pendingCard struct {
			cards.Card
			Votes interface{} `json:"votes"`
		}
		result := make([]pendingCard, len(pending))
		for i, card := range pending {
			result[i] = pendingCard{Card: card, Votes: stats[card.ID]}
		}
		c.JSON(http.StatusOK, gin.H{"cards": result})
	}
}

// @Summary Approve a pending card
// @Tags moderation
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param id path int true "Card id"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Router /api/v1/moderation/cards/{id}/approve [post]
// @Security ApiKeyAuth
func ApproveCard(catalogService *catalog.Service, ledger *votes.Ledger) gin.HandlerFunc {
	return moderateCard(catalogService, ledger, true)
}

// @Summary Reject a pending card
// @Tags moderation
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param id path int true "Card id"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Router /api/v1/moderation/cards/{id}/reject [post]
// @Security ApiKeyAuth
func RejectCard(catalogService *catalog.Service, ledger *votes.Ledger) gin.HandlerFunc {
	return moderateCard(catalogService, ledger, false)
}

func moderateCard(catalogService *catalog.Service, ledger *votes.Ledger, approve bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		cardId, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card id"})
			return
		}
		moderator := c.GetString("moderator")

		if err := applyModeration(catalogService, ledger, cardId, moderator, approve); err != nil {
			if err == catalog.ErrCardNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
				return
			}
			log.Printf("[CARDS-ERROR] Moderating card %d: %v", cardId, err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not moderate the card"})
			return
		}

		verdict := "approved"
		if !approve {
			verdict = "rejected"
		}
		c.JSON(http.StatusOK, gin.H{"message": "card " + verdict})
	}
}

type moderateBatchRequest struct {
	Approve []int `json:"approve"`
	Reject  []int `json:"reject"`
}

// @Summary Moderate cards in batch
// @Description Approves and rejects multiple pending cards in one call
// @Tags moderation
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param batch body controllers.moderateBatchRequest true "Card ids to approve/reject"
// @Success 200 {object} object{moderated=integer,failed=array}
// @Router /api/v1/moderation/batch [post]
// @Security ApiKeyAuth
func ModerateBatch(catalogService *catalog.Service, ledger *votes.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req moderateBatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		moderator := c.GetString("moderator")

		moderated := 0
		failed := make([]int, 0)
		for _, cardId := range req.Approve {
			if err := applyModeration(catalogService, ledger, cardId, moderator, true); err != nil {
				failed = append(failed, cardId)
				continue
			}
			moderated++
		}
		for _, cardId := range req.Reject {
			if err := applyModeration(catalogService, ledger, cardId, moderator, false); err != nil {
				failed = append(failed, cardId)
				continue
			}
			moderated++
		}
		c.JSON(http.StatusOK, gin.H{"moderated": moderated, "failed": failed})
	}
}

// applyModeration runs the catalog transition and then tears down the card's
// vote data.
func applyModeration(catalogService *catalog.Service, ledger *votes.Ledger, cardId int, moderator string, approve bool) error {
	var err error
	if approve {
		err = catalogService.ApproveUserCard(cardId, moderator)
	} else {
		err = catalogService.RejectUserCard(cardId, moderator)
	}
	if err != nil {
		return err
	}
	return ledger.CleanupVoteData(cardId)
}
