package auth

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/DhavalSuthar-24/scorebook/config"
	"github.com/DhavalSuthar-24/scorebook/internal/middleware"
	"github.com/DhavalSuthar-24/scorebook/internal/user"
	"github.com/DhavalSuthar-24/scorebook/pkg/matchresponse"
	"github.com/DhavalSuthar-24/scorebook/pkg/token"
	"github.com/DhavalSuthar-24/scorebook/utils"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AuthController struct {
	repo   AuthRepository
	config *config.Config
}

func NewAuthController(repo AuthRepository, cfg *config.Config) *AuthController {
	return &AuthController{
		repo:   repo,
		config: cfg,
	}
}

func (ac *AuthController) generateAndSaveTokens(userID uint, role string) (string, string, error) {
	accessToken, err := token.GenerateJWT(userID, role, ac.config.JWT.AccessTokenSecret, ac.config.JWT.AccessTokenExpiryMinutes)
	if err != nil {
		return "", "", fmt.Errorf("access token generation failed: %w", err)
	}

	refreshTokenString, err := token.GenerateRefreshToken(userID, ac.config.JWT.RefreshTokenSecret, ac.config.JWT.RefreshTokenExpiryDays)
	if err != nil {
		return "", "", fmt.Errorf("refresh token generation failed: %w", err)
	}

	refreshToken := &user.RefreshToken{
		UserID:    userID,
		Token:     refreshTokenString,
		ExpiresAt: time.Now().AddDate(0, 0, ac.config.JWT.RefreshTokenExpiryDays),
	}

	if err := ac.repo.SaveRefreshToken(refreshToken); err != nil {
		return "", "", fmt.Errorf("failed to save refresh token: %w", err)
	}
	return accessToken, refreshTokenString, nil
}

func primaryRole(u *user.User) string {
	roles := u.RoleNames()
	for _, want := range user.DefaultRoles {
		for _, r := range roles {
			if r == want {
				return r
			}
		}
	}
	return ""
}

// @Summary      Register a new user
// @Description  Create a user account. The first account becomes an admin, later ones start as viewers.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        user  body  RegisterRequest  true  "User registration details"
// @Success      201   {object} AuthResponse "User registered successfully, returns tokens and user info"
// @Failure      400   {object} map[string]interface{} "Validation error or invalid input"
// @Failure      409   {object} map[string]interface{} "User with this email or username already exists"
// @Failure      500   {object} map[string]interface{} "Internal server error"
// @Router       /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		matchresponse.ValidationErrorResponse(c, err)
		return
	}

	email := strings.ToLower(req.Email)
	if _, err := ac.repo.GetUserByEmail(email); !errors.Is(err, gorm.ErrRecordNotFound) {
		matchresponse.ErrorResponse(c, http.StatusConflict, "User with this email already exists")
		return
	}
	if _, err := ac.repo.GetUserByUsername(req.Username); !errors.Is(err, gorm.ErrRecordNotFound) {
		matchresponse.ErrorResponse(c, http.StatusConflict, "User with this username already exists")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Error hashing password")
		return
	}

	newUser := &user.User{
		Name:       req.Name,
		Username:   req.Username,
		Email:      email,
		Password:   hashedPassword,
		LastActive: time.Now(),
	}
	role, err := ac.repo.RegisterUser(newUser, user.RoleAdmin, user.RoleViewer)
	if err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("create user failed")
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "User creation failed")
		return
	}
	log.Info().Uint("user_id", newUser.ID).Str("role", role).Msg("user registered")

	created, err := ac.repo.GetUserByID(newUser.ID)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	accessToken, refreshToken, err := ac.generateAndSaveTokens(created.ID, primaryRole(created))
	if err != nil {
		log.Error().Err(err).Uint("user_id", created.ID).Msg("token generation failed")
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Token generation failed")
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         FilterUserRecord(created),
	})
}

// @Summary      Login user
// @Description  Authenticate user with email/username and password.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials  body  LoginRequest  true  "Login credentials"
// @Success      200   {object} AuthResponse "Login successful, returns tokens and user info"
// @Failure      400   {object} map[string]interface{} "Invalid input"
// @Failure      401   {object} map[string]interface{} "Invalid credentials"
// @Failure      500   {object} map[string]interface{} "Internal server error"
// @Router       /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		matchresponse.ValidationErrorResponse(c, err)
		return
	}

	foundUser, err := ac.repo.GetUserByEmail(strings.ToLower(req.LoginIdentifier))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		foundUser, err = ac.repo.GetUserByUsername(req.LoginIdentifier)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		matchresponse.ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("login lookup failed")
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if !utils.CheckPassword(foundUser.Password, req.Password) {
		matchresponse.ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	accessToken, refreshToken, err := ac.generateAndSaveTokens(foundUser.ID, primaryRole(foundUser))
	if err != nil {
		log.Error().Err(err).Uint("user_id", foundUser.ID).Msg("token generation failed")
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Token generation failed")
		return
	}

	foundUser.LastActive = time.Now()
	if err := ac.repo.UpdateUser(foundUser); err != nil {
		log.Warn().Err(err).Uint("user_id", foundUser.ID).Msg("updating last active failed")
	}

	c.JSON(http.StatusOK, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         FilterUserRecord(foundUser),
	})
}

// @Summary      Refresh Access Token
// @Description  Refreshes the access token using a valid refresh token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshTokenRequest true "Refresh Token Request"
// @Success      200 {object} map[string]string "Returns a new access token"
// @Failure      400 {object} map[string]interface{} "Invalid input"
// @Failure      401 {object} map[string]interface{} "Invalid or expired refresh token"
// @Failure      500 {object} map[string]interface{} "Token generation failed"
// @Router       /auth/refresh-token [post]
func (ac *AuthController) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		matchresponse.ValidationErrorResponse(c, err)
		return
	}

	if _, err := token.ValidateJWT(req.RefreshToken, ac.config.JWT.RefreshTokenSecret); err != nil {
		matchresponse.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}
	rt, err := ac.repo.GetRefreshToken(req.RefreshToken)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	u, err := ac.repo.GetUserByID(rt.UserID)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	newAccessToken, err := token.GenerateJWT(u.ID, primaryRole(u), ac.config.JWT.AccessTokenSecret, ac.config.JWT.AccessTokenExpiryMinutes)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "New access token generation failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": newAccessToken})
}

// @Summary      Get User Profile
// @Description  Retrieves the profile of the currently authenticated user.
// @Tags         Profile
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} UserResponse "User profile data"
// @Failure      401 {object} map[string]interface{} "Unauthorized"
// @Failure      404 {object} map[string]interface{} "User not found"
// @Router       /auth/me [get]
func (ac *AuthController) GetProfile(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized: "+err.Error())
		return
	}

	currentUser, err := ac.repo.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			matchresponse.ErrorResponse(c, http.StatusNotFound, "User not found.")
			return
		}
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve profile")
		return
	}
	c.JSON(http.StatusOK, FilterUserRecord(currentUser))
}

// @Summary      Change Password
// @Tags         Profile
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body ChangePasswordRequest true "Old and new password"
// @Success      200 {object} map[string]interface{} "Password changed successfully"
// @Failure      400 {object} map[string]interface{} "Invalid input"
// @Failure      401 {object} map[string]interface{} "Incorrect old password"
// @Router       /auth/change-password [post]
func (ac *AuthController) ChangePassword(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized: "+err.Error())
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		matchresponse.ValidationErrorResponse(c, err)
		return
	}

	u, err := ac.repo.GetUserByID(userID)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve user")
		return
	}

	if !utils.CheckPassword(u.Password, req.OldPassword) {
		matchresponse.ErrorResponse(c, http.StatusUnauthorized, "Incorrect old password.")
		return
	}

	if req.OldPassword == req.NewPassword {
		matchresponse.ErrorResponse(c, http.StatusBadRequest, "New password cannot be the same as the old password.")
		return
	}

	newHashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to hash new password.")
		return
	}

	u.Password = newHashedPassword
	u.LastActive = time.Now()
	if err := ac.repo.UpdateUser(u); err != nil {
		matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to change password")
		return
	}
	if err := ac.repo.InvalidateAllRefreshTokensForUser(u.ID); err != nil {
		log.Warn().Err(err).Uint("user_id", u.ID).Msg("revoking sessions after password change failed")
	}

	matchresponse.SuccessResponse(c, http.StatusOK, gin.H{"message": "Password changed successfully."})
}

// @Summary      Logout User
// @Description  Invalidates the user's current session and refresh tokens (optionally all sessions)
// @Tags         Auth
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body LogoutRequest false "Logout options"
// @Success      200 {object} map[string]interface{} "Logged out successfully"
// @Failure      400 {object} map[string]interface{} "Invalid input"
// @Failure      401 {object} map[string]interface{} "Unauthorized"
// @Failure      500 {object} map[string]interface{} "Failed to logout"
// @Router       /auth/logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized: "+err.Error())
		return
	}

	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		matchresponse.ValidationErrorResponse(c, err)
		return
	}

	refreshToken := req.RefreshToken
	if refreshToken == "" {
		refreshToken, _ = c.Cookie("refresh_token")
	}

	if refreshToken != "" {
		if err := ac.repo.InvalidateRefreshToken(refreshToken); err != nil {
			matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to invalidate refresh token")
			return
		}
	}

	if req.InvalidateAllSessions {
		if err := ac.repo.InvalidateAllRefreshTokensForUser(userID); err != nil {
			matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to invalidate all sessions")
			return
		}
	}

	c.SetCookie("refresh_token", "", -1, "/", "", false, true)

	matchresponse.SuccessResponse(c, http.StatusOK, gin.H{
		"message":                  "Logged out successfully",
		"all_sessions_invalidated": req.InvalidateAllSessions,
	})
}

// @Summary      Grant a role
// @Tags         Admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        user_id path int true "User ID"
// @Param        request body RoleRequest true "Role to grant"
// @Success      200 {object} UserResponse
// @Failure      400 {object} map[string]interface{} "Invalid input"
// @Failure      403 {object} map[string]interface{} "Admin only"
// @Router       /auth/users/{user_id}/roles [post]
func (ac *AuthController) GrantRole(c *gin.Context) {
	ac.changeRole(c, ac.repo.AssignRoleToUser)
}

// @Summary      Revoke a role
// @Tags         Admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        user_id path int true "User ID"
// @Param        request body RoleRequest true "Role to revoke"
// @Success      200 {object} UserResponse
// @Failure      400 {object} map[string]interface{} "Invalid input"
// @Failure      403 {object} map[string]interface{} "Admin only"
// @Router       /auth/users/{user_id}/roles [delete]
func (ac *AuthController) RevokeRole(c *gin.Context) {
	ac.changeRole(c, ac.repo.RemoveRoleFromUser)
}

func (ac *AuthController) changeRole(c *gin.Context, apply func(uint, string) error) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return
	}
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		matchresponse.ValidationErrorResponse(c, err)
		return
	}

	if err := apply(uint(id), req.Role); err != nil {
		matchresponse.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	u, err := ac.repo.GetUserByID(uint(id))
	if err != nil {
		matchresponse.ErrorResponse(c, http.StatusNotFound, "User not found.")
		return
	}
	c.JSON(http.StatusOK, FilterUserRecord(u))
}
