package team

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/DhavalSuthar-24/scorebook/config"
	"github.com/DhavalSuthar-24/scorebook/internal/middleware"
	"github.com/DhavalSuthar-24/scorebook/pkg/matchresponse"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// TeamController handles team-related HTTP requests
type TeamController struct {
	repo      TeamRepository
	appConfig *config.Config
}

// NewTeamController creates a new team controller
func NewTeamController(repo TeamRepository, appConfig *config.Config) *TeamController {
	return &TeamController{
		repo:      repo,
		appConfig: appConfig,
	}
}

// --- DTOs for requests ---

type CreateTeamRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=100"`
	ShortName string `json:"short_name" binding:"omitempty,max=8"`
	Logo      string `json:"logo"`
}

type UpdateTeamRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=2,max=100"`
	ShortName *string `json:"short_name" binding:"omitempty,max=8"`
	Logo      *string `json:"logo"`
}

type CreatePlayerRequest struct {
	Name         string `json:"name" binding:"required,min=2,max=100"`
	Role         string `json:"role" binding:"omitempty,oneof=batter bowler all_rounder wicket_keeper"`
	BattingStyle string `json:"batting_style" binding:"omitempty,max=50"`
	BowlingStyle string `json:"bowling_style" binding:"omitempty,max=50"`
	JerseyNumber int    `json:"jersey_number" binding:"gte=0,lte=999"`
}

type UpdatePlayerRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=2,max=100"`
	Role         *string `json:"role" binding:"omitempty,oneof=batter bowler all_rounder wicket_keeper"`
	BattingStyle *string `json:"batting_style" binding:"omitempty,max=50"`
	BowlingStyle *string `json:"bowling_style" binding:"omitempty,max=50"`
	JerseyNumber *int    `json:"jersey_number" binding:"omitempty,gte=0,lte=999"`
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		matchresponse.ErrorResponse(c, http.StatusBadRequest, "Invalid "+strings.ReplaceAll(name, "_", " "))
		return 0, false
	}
	return uint(id), true
}

// --- Team Handlers ---

// CreateTeam godoc
// @Summary Create a new team
// @Description Creates a team. Admin only.
// @Tags Teams
// @Accept json
// @Produce json
// @Param team body CreateTeamRequest true "Team Creation Data"
// @Success 201 {object} Team "Team created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid input"
// @Failure 403 {object} map[string]interface{} "Admin only"
// @Failure 409 {object} map[string]interface{} "Team name already exists"
// @Security BearerAuth
// @Router /teams [post]
func (tc *TeamController) CreateTeam(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		matchresponse.ValidationErrorResponse(c, err)
		return
	}

	existingTeam, err := tc.repo.GetTeamByName(req.Name)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to check team name")
		return
	}
	if existingTeam != nil {
		matchresponse.ErrorResponse(c, http.StatusConflict, "Team name already exists")
		return
	}

	team := Team{
		Name:        req.Name,
		ShortName:   strings.ToUpper(req.ShortName),
		Logo:        req.Logo,
		CreatedByID: userID,
	}
	if team.ShortName == "" {
		team.ShortName = defaultShortName(req.Name)
	}

	if err := tc.repo.CreateTeam(&team); err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("create team failed")
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to create team")
		return
	}
	matchresponse.SuccessResponse(c, http.StatusCreated, team)
}

// defaultShortName takes the initials of a multi-word name, or the first three letters.
func defaultShortName(name string) string {
	words := strings.Fields(name)
	if len(words) > 1 {
		var b strings.Builder
		for _, w := range words {
			b.WriteString(strings.ToUpper(w[:1]))
			if b.Len() == 8 {
				break
			}
		}
		return b.String()
	}
	if len(name) > 3 {
		name = name[:3]
	}
	return strings.ToUpper(name)
}

// GetTeamByID godoc
// @Summary Get team by ID
// @Tags Teams
// @Produce json
// @Param team_id path uint true "Team ID"
// @Success 200 {object} Team "Team with its active squad"
// @Failure 404 {object} map[string]interface{} "Team not found"
// @Router /teams/{team_id} [get]
func (tc *TeamController) GetTeamByID(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}
	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve team")
		return
	}
	if team == nil {
		matchresponse.ErrorResponse(c, http.StatusNotFound, "Team not found")
		return
	}
	matchresponse.SuccessResponse(c, http.StatusOK, team)
}

// GetAllTeams godoc
// @Summary Get all teams
// @Description Retrieves a list of all teams with an optional name search and pagination.
// @Tags Teams
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param name query string false "Search by team name (case-insensitive, partial match)"
// @Success 200 {object} map[string]interface{} "List of teams"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /teams [get]
func (tc *TeamController) GetAllTeams(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	filters := make(map[string]interface{})
	if name := c.Query("name"); name != "" {
		filters["name"] = name
	}

	teams, total, err := tc.repo.GetAllTeams(page, limit, filters)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve teams")
		return
	}
	matchresponse.PaginatedResponse(c, http.StatusOK, teams, page, limit, total)
}

// UpdateTeam godoc
// @Summary Update a team
// @Tags Teams
// @Accept json
// @Produce json
// @Param team_id path uint true "Team ID"
// @Param team body UpdateTeamRequest true "Team Update Data"
// @Success 200 {object} Team "Team updated successfully"
// @Failure 400 {object} map[string]interface{} "Invalid input or team ID"
// @Failure 404 {object} map[string]interface{} "Team not found"
// @Failure 409 {object} map[string]interface{} "Team name already exists"
// @Security BearerAuth
// @Router /teams/{team_id} [put]
func (tc *TeamController) UpdateTeam(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		matchresponse.ValidationErrorResponse(c, err)
		return
	}

	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve team")
		return
	}
	if team == nil {
		matchresponse.ErrorResponse(c, http.StatusNotFound, "Team not found")
		return
	}

	if req.Name != nil && !strings.EqualFold(*req.Name, team.Name) {
		existing, err := tc.repo.GetTeamByName(*req.Name)
		if err != nil {
			matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to check team name")
			return
		}
		if existing != nil && existing.ID != team.ID {
			matchresponse.ErrorResponse(c, http.StatusConflict, "Team name already exists")
			return
		}
	}
	if req.Name != nil {
		team.Name = *req.Name
	}
	if req.ShortName != nil {
		team.ShortName = strings.ToUpper(*req.ShortName)
	}
	if req.Logo != nil {
		team.Logo = *req.Logo
	}

	if err := tc.repo.UpdateTeam(team); err != nil {
		log.Error().Err(err).Uint("team_id", teamID).Msg("update team failed")
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to update team")
		return
	}
	matchresponse.SuccessResponse(c, http.StatusOK, team)
}

// DeleteTeam godoc
// @Summary Delete a team
// @Description Soft deletes a team and its squad. Scorecards of past matches keep their rows.
// @Tags Teams
// @Produce json
// @Param team_id path uint true "Team ID"
// @Success 200 {object} map[string]interface{} "Team deleted"
// @Failure 404 {object} map[string]interface{} "Team not found"
// @Security BearerAuth
// @Router /teams/{team_id} [delete]
func (tc *TeamController) DeleteTeam(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}
	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve team")
		return
	}
	if team == nil {
		matchresponse.ErrorResponse(c, http.StatusNotFound, "Team not found")
		return
	}
	if err := tc.repo.DeleteTeam(teamID); err != nil {
		log.Error().Err(err).Uint("team_id", teamID).Msg("delete team failed")
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete team")
		return
	}
	matchresponse.SuccessResponse(c, http.StatusOK, gin.H{"message": "Team deleted successfully"})
}

// --- Player Handlers ---

// GetTeamPlayers godoc
// @Summary List the squad of a team
// @Tags Players
// @Produce json
// @Param team_id path uint true "Team ID"
// @Param include_inactive query bool false "Include released players"
// @Success 200 {array} Player
// @Failure 404 {object} map[string]interface{} "Team not found"
// @Router /teams/{team_id}/players [get]
func (tc *TeamController) GetTeamPlayers(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}
	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve team")
		return
	}
	if team == nil {
		matchresponse.ErrorResponse(c, http.StatusNotFound, "Team not found")
		return
	}

	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("include_inactive", "false"))
	players, err := tc.repo.GetPlayersByTeamID(teamID, includeInactive)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve players")
		return
	}
	matchresponse.SuccessResponse(c, http.StatusOK, players)
}

// AddPlayer godoc
// @Summary Add a player to a team
// @Tags Players
// @Accept json
// @Produce json
// @Param team_id path uint true "Team ID"
// @Param player body CreatePlayerRequest true "Player data"
// @Success 201 {object} Player
// @Failure 400 {object} map[string]interface{} "Invalid input"
// @Failure 404 {object} map[string]interface{} "Team not found"
// @Failure 409 {object} map[string]interface{} "Jersey number taken"
// @Security BearerAuth
// @Router /teams/{team_id}/players [post]
func (tc *TeamController) AddPlayer(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}

	var req CreatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		matchresponse.ValidationErrorResponse(c, err)
		return
	}

	player := Player{
		TeamID:       teamID,
		Name:         req.Name,
		Role:         req.Role,
		BattingStyle: req.BattingStyle,
		BowlingStyle: req.BowlingStyle,
		JerseyNumber: req.JerseyNumber,
		IsActive:     true,
	}
	if player.Role == "" {
		player.Role = RoleBatter
	}

	status := http.StatusCreated
	err := tc.repo.WithTransaction(func(repo TeamRepository) error {
		team, err := repo.GetTeamByID(teamID)
		if err != nil {
			return err
		}
		if team == nil {
			status = http.StatusNotFound
			return errTeamNotFound
		}
		taken, err := repo.IsJerseyNumberTaken(teamID, req.JerseyNumber, 0)
		if err != nil {
			return err
		}
		if taken {
			status = http.StatusConflict
			return errJerseyTaken
		}
		return repo.CreatePlayer(&player)
	})
	if err != nil {
		tc.playerWriteError(c, status, err, teamID)
		return
	}
	matchresponse.SuccessResponse(c, http.StatusCreated, player)
}

// UpdatePlayer godoc
// @Summary Update a player
// @Tags Players
// @Accept json
// @Produce json
// @Param team_id path uint true "Team ID"
// @Param player_id path uint true "Player ID"
// @Param player body UpdatePlayerRequest true "Fields to change"
// @Success 200 {object} Player
// @Failure 404 {object} map[string]interface{} "Player not found"
// @Failure 409 {object} map[string]interface{} "Jersey number taken"
// @Security BearerAuth
// @Router /teams/{team_id}/players/{player_id} [put]
func (tc *TeamController) UpdatePlayer(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}
	playerID, ok := parseIDParam(c, "player_id")
	if !ok {
		return
	}

	var req UpdatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		matchresponse.ValidationErrorResponse(c, err)
		return
	}

	var player *Player
	status := http.StatusOK
	err := tc.repo.WithTransaction(func(repo TeamRepository) error {
		var err error
		player, err = repo.GetPlayerByID(teamID, playerID)
		if err != nil {
			return err
		}
		if player == nil {
			status = http.StatusNotFound
			return errPlayerNotFound
		}
		if req.JerseyNumber != nil && *req.JerseyNumber != player.JerseyNumber {
			taken, err := repo.IsJerseyNumberTaken(teamID, *req.JerseyNumber, playerID)
			if err != nil {
				return err
			}
			if taken {
				status = http.StatusConflict
				return errJerseyTaken
			}
			player.JerseyNumber = *req.JerseyNumber
		}
		if req.Name != nil {
			player.Name = *req.Name
		}
		if req.Role != nil {
			player.Role = *req.Role
		}
		if req.BattingStyle != nil {
			player.BattingStyle = *req.BattingStyle
		}
		if req.BowlingStyle != nil {
			player.BowlingStyle = *req.BowlingStyle
		}
		return repo.UpdatePlayer(player)
	})
	if err != nil {
		tc.playerWriteError(c, status, err, teamID)
		return
	}
	matchresponse.SuccessResponse(c, http.StatusOK, player)
}

// RemovePlayer godoc
// @Summary Release a player from a team
// @Description The player is deactivated, not deleted, so existing ball logs still resolve.
// @Tags Players
// @Produce json
// @Param team_id path uint true "Team ID"
// @Param player_id path uint true "Player ID"
// @Success 200 {object} map[string]interface{} "Player released"
// @Failure 404 {object} map[string]interface{} "Player not found"
// @Security BearerAuth
// @Router /teams/{team_id}/players/{player_id} [delete]
func (tc *TeamController) RemovePlayer(c *gin.Context) {
	teamID, ok := parseIDParam(c, "team_id")
	if !ok {
		return
	}
	playerID, ok := parseIDParam(c, "player_id")
	if !ok {
		return
	}
	player, err := tc.repo.GetPlayerByID(teamID, playerID)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve player")
		return
	}
	if player == nil {
		matchresponse.ErrorResponse(c, http.StatusNotFound, "Player not found")
		return
	}
	if err := tc.repo.DeactivatePlayer(teamID, playerID); err != nil {
		log.Error().Err(err).Uint("team_id", teamID).Uint("player_id", playerID).Msg("release player failed")
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to release player")
		return
	}
	matchresponse.SuccessResponse(c, http.StatusOK, gin.H{"message": "Player released"})
}

func (tc *TeamController) playerWriteError(c *gin.Context, status int, err error, teamID uint) {
	if status >= http.StatusInternalServerError || status < http.StatusBadRequest {
		log.Error().Err(err).Uint("team_id", teamID).Msg("player write failed")
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to save player")
		return
	}
	matchresponse.ErrorResponse(c, status, err.Error())
}
