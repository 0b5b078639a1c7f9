package match

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/DhavalSuthar-24/scorebook/config"
	"github.com/DhavalSuthar-24/scorebook/internal/middleware"
	"github.com/DhavalSuthar-24/scorebook/internal/pkg/lock"
	"github.com/DhavalSuthar-24/scorebook/internal/scoring"
	"github.com/DhavalSuthar-24/scorebook/pkg/matchresponse"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// LatestReader returns the last published update of a match, or nil when none is cached.
type LatestReader interface {
	Latest(ctx context.Context, matchID uint) (json.RawMessage, error)
}

// MatchController handles match and scoring HTTP requests
type MatchController struct {
	service   *ScoringService
	latest    LatestReader
	appConfig *config.Config
}

// NewMatchController creates a new match controller. latest may be nil.
func NewMatchController(service *ScoringService, latest LatestReader, appConfig *config.Config) *MatchController {
	return &MatchController{
		service:   service,
		latest:    latest,
		appConfig: appConfig,
	}
}

// --- DTOs ---

type CreateMatchRequest struct {
	Title           string     `json:"title" binding:"max=200" example:"Final"`
	HomeTeamID      uint       `json:"home_team_id" binding:"required" example:"1"`
	AwayTeamID      uint       `json:"away_team_id" binding:"required,nefield=HomeTeamID" example:"2"`
	OversPerInnings int        `json:"overs_per_innings" binding:"omitempty,gte=1,lte=50" example:"20"`
	MaxWickets      int        `json:"max_wickets" binding:"omitempty,gte=1,lte=10" example:"10"`
	Venue           string     `json:"venue" binding:"max=200"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
}

type TossRequest struct {
	WinnerTeamID uint   `json:"winner_team_id" binding:"required" example:"1"`
	Decision     string `json:"decision" binding:"required,oneof=bat bowl" example:"bat"`
}

// SubmitBallRequest is one delivery as entered by the scorer. The scoring engine checks
// every field, so binding only parses.
type SubmitBallRequest struct {
	InningsID         uint   `json:"innings_id"`
	Over              int    `json:"over" example:"0"`
	BallInOver        int    `json:"ball_in_over" example:"1"`
	BatsmanID         uint   `json:"batsman_id"`
	NonStrikerID      uint   `json:"non_striker_id"`
	BowlerID          uint   `json:"bowler_id"`
	RunsOffBat        int    `json:"runs_off_bat"`
	IsWicket          bool   `json:"is_wicket"`
	WicketKind        string `json:"wicket_kind" example:"none"`
	DismissedPlayerID *uint  `json:"dismissed_player_id"`
	FielderID         *uint  `json:"fielder_id"`
	ExtraType         string `json:"extra_type" example:"none"`
	ExtraRuns         int    `json:"extra_runs"`
	Commentary        string `json:"commentary" binding:"max=500"`
}

func (r SubmitBallRequest) event() scoring.BallEvent {
	return scoring.BallEvent{
		InningsID:         r.InningsID,
		Over:              r.Over,
		BallInOver:        r.BallInOver,
		BatsmanID:         r.BatsmanID,
		NonStrikerID:      r.NonStrikerID,
		BowlerID:          r.BowlerID,
		RunsOffBat:        r.RunsOffBat,
		IsWicket:          r.IsWicket,
		WicketKind:        scoring.WicketKind(r.WicketKind),
		DismissedPlayerID: r.DismissedPlayerID,
		FielderID:         r.FielderID,
		ExtraType:         scoring.ExtraType(r.ExtraType),
		ExtraRuns:         r.ExtraRuns,
		Commentary:        r.Commentary,
	}
}

type DeclareRequest struct {
	InningsID uint `json:"innings_id"` // Optional: defaults to the current innings
}

// MatchDetail is a stored match with the live score of its current innings.
type MatchDetail struct {
	*Match
	State scoring.MatchState    `json:"state"`
	Live  *scoring.ScoreSummary `json:"live,omitempty"`
}

// --- helpers ---

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		matchresponse.ErrorResponse(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// respondError maps service errors onto the response envelope.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMatchNotFound):
		matchresponse.ErrorResponse(c, http.StatusNotFound, "Match not found")
	case errors.Is(err, ErrInningsNotFound):
		matchresponse.ErrorResponse(c, http.StatusNotFound, "Innings not found")
	case errors.Is(err, ErrTeamNotFound):
		matchresponse.ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, lock.ErrLockTimeout):
		matchresponse.ErrorResponse(c, http.StatusServiceUnavailable, "Match is busy, retry the submission")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		matchresponse.ErrorResponse(c, http.StatusServiceUnavailable, "Request cancelled")
	default:
		matchresponse.ScoringErrorResponse(c, err)
	}
}

// --- Match handlers ---

// CreateMatch godoc
// @Summary Create a match
// @Description Schedules a match between two teams and snapshots both squads. Admin only.
// @Tags Matches
// @Accept json
// @Produce json
// @Param match body CreateMatchRequest true "Match data"
// @Success 201 {object} Match
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 404 {object} map[string]interface{} "Team not found"
// @Security BearerAuth
// @Router /matches [post]
func (mc *MatchController) CreateMatch(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		matchresponse.ValidationErrorResponse(c, err)
		return
	}

	match, err := mc.service.CreateMatch(c.Request.Context(), CreateMatchInput{
		Title:           req.Title,
		HomeTeamID:      req.HomeTeamID,
		AwayTeamID:      req.AwayTeamID,
		OversPerInnings: req.OversPerInnings,
		MaxWickets:      req.MaxWickets,
		Venue:           req.Venue,
		ScheduledAt:     req.ScheduledAt,
		CreatedByID:     userID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	matchresponse.SuccessResponse(c, http.StatusCreated, match)
}

// GetMatches godoc
// @Summary List matches
// @Tags Matches
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page" default(10)
// @Param status query string false "Filter by state, e.g. innings2_in_progress"
// @Param team_id query int false "Filter by either team"
// @Success 200 {object} map[string]interface{} "Paginated matches"
// @Router /matches [get]
func (mc *MatchController) GetMatches(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	filters := make(map[string]interface{})
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if teamID, err := strconv.ParseUint(c.Query("team_id"), 10, 32); err == nil {
		filters["team_id"] = uint(teamID)
	}

	matches, total, err := mc.service.ListMatches(filters, page, pageSize)
	if err != nil {
		log.Error().Err(err).Msg("listing matches failed")
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch matches")
		return
	}
	matchresponse.PaginatedResponse(c, http.StatusOK, matches, page, pageSize, total)
}

// GetMatchByID godoc
// @Summary Get a match
// @Description Returns the stored match with the live score line of its current innings.
// @Tags Matches
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} MatchDetail
// @Failure 404 {object} map[string]interface{} "Match not found"
// @Router /matches/{id} [get]
func (mc *MatchController) GetMatchByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	match, err := mc.service.GetMatch(id)
	if err != nil {
		respondError(c, err)
		return
	}
	detail := MatchDetail{Match: match, State: match.Status}
	summary, ok, err := mc.service.CurrentSummary(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if ok {
		detail.Live = &summary
	}
	matchresponse.SuccessResponse(c, http.StatusOK, detail)
}

// RecordToss godoc
// @Summary Record the toss
// @Description Stores the toss and opens the first innings.
// @Tags Scoring
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param toss body TossRequest true "Toss result"
// @Success 200 {object} scoring.Innings
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 409 {object} map[string]interface{} "Toss already recorded"
// @Security BearerAuth
// @Router /matches/{id}/toss [post]
func (mc *MatchController) RecordToss(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req TossRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		matchresponse.ValidationErrorResponse(c, err)
		return
	}
	innings, err := mc.service.RecordToss(c.Request.Context(), id, scoring.Toss{
		WinnerTeamID: req.WinnerTeamID,
		Decision:     scoring.TossDecision(req.Decision),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	matchresponse.SuccessResponse(c, http.StatusOK, innings)
}

// SubmitBall godoc
// @Summary Score a delivery
// @Description Validates the ball against the squads and the ball log, persists it and returns the new score.
// @Tags Scoring
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param ball body SubmitBallRequest true "Delivery"
// @Success 201 {object} scoring.SubmitResult
// @Failure 400 {object} map[string]interface{} "Malformed delivery"
// @Failure 409 {object} map[string]interface{} "Innings not in progress"
// @Failure 422 {object} map[string]interface{} "Player not in squad"
// @Failure 503 {object} map[string]interface{} "Match busy"
// @Security BearerAuth
// @Router /matches/{id}/balls [post]
func (mc *MatchController) SubmitBall(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req SubmitBallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		matchresponse.ValidationErrorResponse(c, err)
		return
	}
	res, err := mc.service.SubmitBall(c.Request.Context(), id, req.event())
	if err != nil {
		respondError(c, err)
		return
	}
	matchresponse.SuccessResponse(c, http.StatusCreated, res)
}

// Declare godoc
// @Summary Declare the current innings
// @Tags Scoring
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param request body DeclareRequest false "Innings to declare"
// @Success 200 {object} scoring.SubmitResult
// @Failure 409 {object} map[string]interface{} "No innings in progress"
// @Security BearerAuth
// @Router /matches/{id}/declare [post]
func (mc *MatchController) Declare(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req DeclareRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			matchresponse.ValidationErrorResponse(c, err)
			return
		}
	}
	res, err := mc.service.Declare(c.Request.Context(), id, req.InningsID)
	if err != nil {
		respondError(c, err)
		return
	}
	matchresponse.SuccessResponse(c, http.StatusOK, res)
}

// StartSecondInnings godoc
// @Summary Start the second innings
// @Description Opens the chase. The target is frozen at first innings runs plus one.
// @Tags Scoring
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} scoring.Innings
// @Failure 409 {object} map[string]interface{} "First innings not complete"
// @Security BearerAuth
// @Router /matches/{id}/second-innings [post]
func (mc *MatchController) StartSecondInnings(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	innings, err := mc.service.StartSecondInnings(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	matchresponse.SuccessResponse(c, http.StatusOK, innings)
}

// GetResult godoc
// @Summary Get the result of a completed match
// @Tags Matches
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} scoring.Result
// @Failure 409 {object} map[string]interface{} "Match not completed"
// @Router /matches/{id}/result [get]
func (mc *MatchController) GetResult(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := mc.service.Result(id)
	if err != nil {
		respondError(c, err)
		return
	}
	matchresponse.SuccessResponse(c, http.StatusOK, result)
}

// GetLive godoc
// @Summary Latest live update of a match
// @Description Served from the live cache when available, otherwise from the scoring engine.
// @Tags Matches
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} map[string]interface{}
// @Router /matches/{id}/live [get]
func (mc *MatchController) GetLive(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if mc.latest != nil {
		raw, err := mc.latest.Latest(c.Request.Context(), id)
		if err != nil {
			log.Warn().Err(err).Uint("match_id", id).Msg("reading live cache failed")
		} else if raw != nil {
			matchresponse.SuccessResponse(c, http.StatusOK, raw)
			return
		}
	}
	summary, ok, err := mc.service.CurrentSummary(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		matchresponse.ErrorResponse(c, http.StatusConflict, "Match has not started")
		return
	}
	matchresponse.SuccessResponse(c, http.StatusOK, summary)
}

// --- Innings handlers ---

// GetInningsStatistics godoc
// @Summary Full scorecard of an innings
// @Description Batting and bowling lines, fall of wickets and partnerships, recomputed from the ball log.
// @Tags Innings
// @Produce json
// @Param inningsId path int true "Innings ID"
// @Success 200 {object} scoring.Statistics
// @Failure 404 {object} map[string]interface{} "Innings not found"
// @Router /matches/innings/{inningsId}/statistics [get]
func (mc *MatchController) GetInningsStatistics(c *gin.Context) {
	id, ok := parseID(c, "inningsId")
	if !ok {
		return
	}
	stats, err := mc.service.Statistics(id)
	if err != nil {
		respondError(c, err)
		return
	}
	matchresponse.SuccessResponse(c, http.StatusOK, stats)
}

// GetInningsSummary godoc
// @Summary Score line of an innings
// @Tags Innings
// @Produce json
// @Param inningsId path int true "Innings ID"
// @Success 200 {object} scoring.ScoreSummary
// @Failure 404 {object} map[string]interface{} "Innings not found"
// @Router /matches/innings/{inningsId}/summary [get]
func (mc *MatchController) GetInningsSummary(c *gin.Context) {
	id, ok := parseID(c, "inningsId")
	if !ok {
		return
	}
	summary, err := mc.service.ScoreSummary(id)
	if err != nil {
		respondError(c, err)
		return
	}
	matchresponse.SuccessResponse(c, http.StatusOK, summary)
}

// GetLastBalls godoc
// @Summary Latest deliveries of an innings
// @Tags Innings
// @Produce json
// @Param inningsId path int true "Innings ID"
// @Param n query int false "Number of balls" default(6)
// @Success 200 {array} scoring.BallEvent
// @Router /matches/innings/{inningsId}/balls [get]
func (mc *MatchController) GetLastBalls(c *gin.Context) {
	id, ok := parseID(c, "inningsId")
	if !ok {
		return
	}
	n, err := strconv.Atoi(c.DefaultQuery("n", "6"))
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusBadRequest, "n must be a number")
		return
	}
	balls, err := mc.service.LastBalls(id, n)
	if err != nil {
		respondError(c, err)
		return
	}
	matchresponse.SuccessResponse(c, http.StatusOK, balls)
}

// GetPlayerStats godoc
// @Summary Stored per-player rows of an innings
// @Tags Innings
// @Produce json
// @Param inningsId path int true "Innings ID"
// @Success 200 {array} PlayerMatchStat
// @Router /matches/innings/{inningsId}/players [get]
func (mc *MatchController) GetPlayerStats(c *gin.Context) {
	id, ok := parseID(c, "inningsId")
	if !ok {
		return
	}
	rows, err := mc.service.PlayerStats(id)
	if err != nil {
		respondError(c, err)
		return
	}
	matchresponse.SuccessResponse(c, http.StatusOK, rows)
}
