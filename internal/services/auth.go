package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jviitor13/rodocheck/internal/config"
	"github.com/jviitor13/rodocheck/internal/models"
	"github.com/jviitor13/rodocheck/internal/utils"
	"github.com/jviitor13/rodocheck/pkg/logger"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrInvalidGoogleToken = errors.New("invalid google token")
	ErrDomainNotAllowed   = errors.New("email domain not allowed")
)

// googleTokenVerifier lets tests replace the outbound idtoken call.
type googleTokenVerifier func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

type AuthService struct {
	db        *gorm.DB
	jwtConfig *config.JWTConfig
	googleCfg *config.GoogleConfig
	verify    googleTokenVerifier
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig, googleCfg *config.GoogleConfig) *AuthService {
	return &AuthService{
		db:        db,
		jwtConfig: jwtCfg,
		googleCfg: googleCfg,
		verify:    idtoken.Validate,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleAuthRequest struct {
	GoogleToken string `json:"google_token" binding:"required"`
}

type LoginResult struct {
	Token    string       `json:"token"`
	User     *models.User `json:"user"`
	ExpireAt time.Time    `json:"expire_at"`
}

// Login authenticates an email/password user.
func (s *AuthService) Login(req *LoginRequest) (*LoginResult, error) {
	var user models.User
	err := s.db.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.Password == "" || !utils.CheckPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.issueToken(&user)
}

// LoginWithGoogle verifies a Google ID token, enforces the optional domain
// restriction and provisions the account on first sign-in.
func (s *AuthService) LoginWithGoogle(ctx context.Context, req *GoogleAuthRequest) (*LoginResult, error) {
	payload, err := s.verify(ctx, req.GoogleToken, s.googleCfg.OAuthClientID)
	if err != nil {
		logger.Warn().Err(err).Msg("google token verification failed")
		return nil, ErrInvalidGoogleToken
	}

	email := strings.ToLower(claimString(payload, "email"))
	if email == "" {
		return nil, ErrInvalidGoogleToken
	}
	if domain := s.googleCfg.AllowedDomain; domain != "" {
		if !strings.HasSuffix(email, "@"+strings.ToLower(domain)) {
			return nil, ErrDomainNotAllowed
		}
	}

	googleID := payload.Subject
	var user models.User
	err = s.db.Where("google_id = ?", googleID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Link by email if the account already exists, otherwise provision.
		err = s.db.Where("email = ?", email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = models.User{
				Email:          email,
				Username:       email,
				FirstName:      claimString(payload, "given_name"),
				LastName:       claimString(payload, "family_name"),
				ProfilePicture: claimString(payload, "picture"),
				GoogleID:       &googleID,
				IsVerified:     true,
				IsActive:       true,
				Role:           "driver",
			}
			if err := s.db.Create(&user).Error; err != nil {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		} else {
			user.GoogleID = &googleID
			user.IsVerified = true
			if err := s.db.Save(&user).Error; err != nil {
				return nil, err
			}
		}
	} else if err != nil {
		return nil, err
	}

	return s.issueToken(&user)
}

// CurrentUser loads the authenticated user by id.
func (s *AuthService) CurrentUser(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateAdminIfNotExists seeds the first admin account. No-op when any
// admin already exists.
func (s *AuthService) CreateAdminIfNotExists(email, password string) error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("role = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	admin := models.User{
		Email:      strings.ToLower(email),
		Username:   email,
		Password:   hash,
		FirstName:  "Admin",
		Role:       "admin",
		IsVerified: true,
		IsActive:   true,
	}
	if err := s.db.Create(&admin).Error; err != nil {
		return err
	}
	logger.Info().Str("email", admin.Email).Msg("created initial admin user")
	return nil
}

func (s *AuthService) issueToken(user *models.User) (*LoginResult, error) {
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, s.jwtConfig.ExpireHour)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLogin = &now
	s.db.Save(user)

	return &LoginResult{
		Token:    token,
		User:     user,
		ExpireAt: now.Add(time.Duration(s.jwtConfig.ExpireHour) * time.Hour),
	}, nil
}

func claimString(payload *idtoken.Payload, key string) string {
	if v, ok := payload.Claims[key].(string); ok {
		return v
	}
	return ""
}
