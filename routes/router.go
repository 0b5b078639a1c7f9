package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/scorebook/config"
	"github.com/DhavalSuthar-24/scorebook/internal/auth"
	"github.com/DhavalSuthar-24/scorebook/internal/live"
	"github.com/DhavalSuthar-24/scorebook/internal/match"
	"github.com/DhavalSuthar-24/scorebook/internal/metrics"
	"github.com/DhavalSuthar-24/scorebook/internal/scoring"
	"github.com/DhavalSuthar-24/scorebook/internal/team"
)

// Dependencies are the long-lived collaborators built in main.
type Dependencies struct {
	Hub       *live.Hub
	Publisher live.Publisher
	Latest    match.LatestReader // nil when redis is disabled
	Metrics   *metrics.Metrics
}

func SetupRoutes(ctx context.Context, db *gorm.DB, cfg *config.Config, deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.Use(cors.New(corsConfig(cfg)))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "message": "scorebook API", "docs": "/swagger/index.html"})
	})
	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "message": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	if deps.Hub != nil {
		r.GET("/ws", deps.Hub.Handler(ctx))
		r.GET("/ws/stats", deps.Hub.StatsHandler)
	}

	service := match.NewScoringService(
		match.NewGormMatchRepository(db),
		team.NewTeamRepository(db),
		match.WithPublisher(deps.Publisher),
		match.WithMetrics(deps.Metrics),
		match.WithLockTimeout(cfg.Scoring.LockTimeout),
		match.WithDefaultRules(scoring.Rules{OversPerInnings: cfg.Scoring.DefaultOvers, MaxWickets: cfg.Scoring.MaxWickets}),
	)

	// API routes
	api := r.Group("/api")
	authRepo := auth.RegisterAuthRoutes(api, db, cfg)
	team.TeamRoutes(api, db, cfg, authRepo)
	match.MatchRoutes(api, db, cfg, service, deps.Latest, authRepo)

	return r
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	if cfg.App.FrontendURL == "" || cfg.IsDevelopment() {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = []string{cfg.App.FrontendURL}
	}
	c.AllowHeaders = append(c.AllowHeaders, "Authorization")
	c.MaxAge = 12 * time.Hour
	return c
}

// requestLogger writes one zerolog line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = log.Error()
		case status >= http.StatusBadRequest:
			event = log.Warn()
		}
		event.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}
