package match

import (
	"github.com/DhavalSuthar-24/scorebook/config"
	mw "github.com/DhavalSuthar-24/scorebook/internal/middleware"
	"github.com/DhavalSuthar-24/scorebook/pkg/rmiddleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MatchRoutes sets up all match-related routes. Reads are public; creating a match needs
// an admin, scoring needs a scorer.
func MatchRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, service *ScoringService, latest LatestReader, roles rmiddleware.RoleLookup) {
	matchController := NewMatchController(service, latest, appConfig)
	auth := mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db)

	matches := router.Group("/matches")
	{
		matches.GET("", matchController.GetMatches)
		matches.GET("/:id", matchController.GetMatchByID)
		matches.GET("/:id/result", matchController.GetResult)
		matches.GET("/:id/live", matchController.GetLive)

		matches.GET("/innings/:inningsId/statistics", matchController.GetInningsStatistics)
		matches.GET("/innings/:inningsId/summary", matchController.GetInningsSummary)
		matches.GET("/innings/:inningsId/balls", matchController.GetLastBalls)
		matches.GET("/innings/:inningsId/players", matchController.GetPlayerStats)
	}

	adminRoutes := router.Group("/matches")
	adminRoutes.Use(auth, rmiddleware.AdminMiddleware(roles))
	{
		adminRoutes.POST("", matchController.CreateMatch)
	}

	scorerRoutes := router.Group("/matches")
	scorerRoutes.Use(auth, rmiddleware.ScorerMiddleware(roles))
	{
		scorerRoutes.POST("/:id/toss", matchController.RecordToss)
		scorerRoutes.POST("/:id/balls", matchController.SubmitBall)
		scorerRoutes.POST("/:id/declare", matchController.Declare)
		scorerRoutes.POST("/:id/second-innings", matchController.StartSecondInnings)
	}
}
