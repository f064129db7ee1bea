package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/jviitor13/rodocheck/internal/config"
	"github.com/jviitor13/rodocheck/internal/middleware"
	"github.com/jviitor13/rodocheck/internal/services"
	"github.com/jviitor13/rodocheck/pkg/response"
	"gorm.io/gorm"
)

type AuthHandler struct {
	authService    *services.AuthService
	profileService *services.ProfileService
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService:    services.NewAuthService(db, &cfg.JWT, &cfg.Google),
		profileService: services.NewProfileService(db),
	}
}

// Login authenticates with email and password
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Login(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrAccountDisabled):
			response.Unauthorized(c, err.Error())
		default:
			response.ServerError(c, err.Error())
		}
		return
	}

	response.Success(c, result)
}

// GoogleLogin authenticates with a Google ID token
// POST /api/auth/google
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req services.GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.LoginWithGoogle(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidGoogleToken):
			response.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrDomainNotAllowed):
			response.Forbidden(c, err.Error())
		default:
			response.ServerError(c, err.Error())
		}
		return
	}

	response.Success(c, result)
}

// Logout acknowledges a client-side logout. Tokens are stateless so there
// is nothing to revoke server-side.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	response.Success(c, gin.H{"message": "logged out"})
}

// Me returns the authenticated user
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.CurrentUser(middleware.GetUserID(c))
	if err != nil {
		response.NotFound(c, "user not found")
		return
	}
	response.Success(c, user)
}

// GetProfile returns the user's profile, creating it on first access
// GET /api/auth/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileService.Get(middleware.GetUserID(c))
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, profile)
}

// UpdateProfile updates profile and display-name fields
// PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	profile, err := h.profileService.Update(middleware.GetUserID(c), &req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, profile)
}
