package routes

import (
	"cardparty/controllers"
	"cardparty/middleware"
	"cardparty/services/catalog"
	"cardparty/services/votes"
	"cardparty/utils"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, catalogService *catalog.Service, ledger *votes.Ledger, gate utils.SpamGate, jwtSecret string) {
	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/ping", controllers.Ping)

	// API routes group
	api := router.Group("/api/v1")

	cards := api.Group("/cards")
	{
		cards.POST("", controllers.SubmitCard(catalogService, gate))
		cards.POST("/:id/vote", controllers.CastVote(catalogService, ledger))
		cards.DELETE("/:id/vote", controllers.RemoveVote(ledger))
		cards.GET("/:id/votes", controllers.GetVoteStats(ledger))
	}

	api.POST("/votes/bulk", controllers.GetBulkVoteStats(ledger))

	// Moderation-only routes
	moderation := api.Group("/moderation")
	moderation.Use(middleware.ModeratorRequired(jwtSecret))
	{
		moderation.GET("/pending", controllers.GetPendingCards(catalogService, ledger))
		moderation.POST("/batch", controllers.ModerateBatch(catalogService, ledger))
		moderation.POST("/cards/:id/approve", controllers.ApproveCard(catalogService, ledger))
		moderation.POST("/cards/:id/reject", controllers.RejectCard(catalogService, ledger))
	}
}
