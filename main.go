package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/DhavalSuthar-24/scorebook/config"
	_ "github.com/DhavalSuthar-24/scorebook/docs"
	"github.com/DhavalSuthar-24/scorebook/internal/live"
	"github.com/DhavalSuthar-24/scorebook/internal/match"
	"github.com/DhavalSuthar-24/scorebook/internal/metrics"
	"github.com/DhavalSuthar-24/scorebook/internal/team"
	"github.com/DhavalSuthar-24/scorebook/internal/user"
	"github.com/DhavalSuthar-24/scorebook/routes"
)

// @title Scorebook REST API
// @version 1.0
// @description Ball-by-ball cricket scoring with live scoreboards and statistics.
// @host localhost:8088
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := config.Initialize(); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application")
	}
	cfg := config.GetConfig()
	if !cfg.IsDevelopment() {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		gin.SetMode(gin.ReleaseMode)
	}
	if level, err := zerolog.ParseLevel(cfg.App.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	err := config.DB.AutoMigrate(
		&user.User{}, &user.Role{}, &user.UserRole{}, &user.RefreshToken{},
		&team.Team{}, &team.Player{},
		&match.Match{}, &match.MatchPlayer{}, &match.Inning{}, &match.BallDelivery{}, &match.PlayerMatchStat{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("automigrate failed")
	}
	if err := user.SeedRoles(config.DB); err != nil {
		log.Fatal().Err(err).Msg("seeding roles failed")
	}
	log.Info().Msg("database ready")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := live.NewHub()
	go hub.Run(ctx)

	deps := routes.Dependencies{Hub: hub, Publisher: live.Fanout{hub}, Metrics: metrics.New()}
	if cfg.Redis.Enabled {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		client := redis.NewClient(opts)
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, live cache will catch up once it is back")
		}
		redisPub := live.NewRedisPublisher(client, cfg.Scoring.SummaryTTL)
		deps.Publisher = live.Fanout{hub, redisPub}
		deps.Latest = redisPub
	}

	r := routes.SetupRoutes(ctx, config.DB, cfg, deps)
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Str("env", cfg.App.Env).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
