package team

import (
	"github.com/DhavalSuthar-24/scorebook/config"
	mw "github.com/DhavalSuthar-24/scorebook/internal/middleware"
	"github.com/DhavalSuthar-24/scorebook/pkg/rmiddleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TeamRoutes sets up all team-related routes and returns the repository for the match
// service, which snapshots squads from it.
func TeamRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, roles rmiddleware.RoleLookup) TeamRepository {
	teamRepo := NewTeamRepository(db)
	teamController := NewTeamController(teamRepo, appConfig)

	// Public team routes
	router.GET("/teams", teamController.GetAllTeams)
	router.GET("/teams/:team_id", teamController.GetTeamByID)
	router.GET("/teams/:team_id/players", teamController.GetTeamPlayers)

	// Admin routes
	adminRoutes := router.Group("/teams")
	adminRoutes.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	adminRoutes.Use(rmiddleware.AdminMiddleware(roles))
	{
		adminRoutes.POST("", teamController.CreateTeam)
		adminRoutes.PUT("/:team_id", teamController.UpdateTeam)
		adminRoutes.DELETE("/:team_id", teamController.DeleteTeam)

		adminRoutes.POST("/:team_id/players", teamController.AddPlayer)
		adminRoutes.PUT("/:team_id/players/:player_id", teamController.UpdatePlayer)
		adminRoutes.DELETE("/:team_id/players/:player_id", teamController.RemovePlayer)
	}
	return teamRepo
}
