package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jviitor13/rodocheck/internal/config"
	"github.com/jviitor13/rodocheck/internal/models"
	"github.com/jviitor13/rodocheck/internal/utils"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

func init() {
	utils.SetJWTSecret("test-secret-for-auth-service")
}

func authTestService(t *testing.T, googleCfg *config.GoogleConfig) (*AuthService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	if googleCfg == nil {
		googleCfg = &config.GoogleConfig{}
	}
	svc := NewAuthService(db, &config.JWTConfig{ExpireHour: 24}, googleCfg)
	return svc, db
}

func seedUser(t *testing.T, db *gorm.DB, email, password string) models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{
		Email:     email,
		Username:  email,
		Password:  hash,
		FirstName: "Maria",
		LastName:  "Silva",
		Role:      "driver",
		IsActive:  true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestLogin(t *testing.T) {
	svc, db := authTestService(t, nil)
	seedUser(t, db, "maria@rodocheck.com", "segredo123")

	result, err := svc.Login(&LoginRequest{Email: "maria@rodocheck.com", Password: "segredo123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" {
		t.Error("a token should be issued")
	}

	claims, err := utils.ParseToken(result.Token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Email != "maria@rodocheck.com" || claims.Role != "driver" {
		t.Errorf("claims = %s/%s", claims.Email, claims.Role)
	}

	if result.User.LastLogin == nil {
		t.Error("LastLogin should be set on login")
	}
}

func TestLogin_CaseInsensitiveEmail(t *testing.T) {
	svc, db := authTestService(t, nil)
	seedUser(t, db, "maria@rodocheck.com", "segredo123")

	if _, err := svc.Login(&LoginRequest{Email: "Maria@RodoCheck.com", Password: "segredo123"}); err != nil {
		t.Errorf("Login with mixed-case email: %v", err)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, db := authTestService(t, nil)
	seedUser(t, db, "maria@rodocheck.com", "segredo123")

	tests := []struct {
		name string
		req  LoginRequest
	}{
		{"wrong password", LoginRequest{Email: "maria@rodocheck.com", Password: "errada"}},
		{"unknown email", LoginRequest{Email: "outra@rodocheck.com", Password: "segredo123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Login(&tt.req); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Login = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestLogin_DisabledAccount(t *testing.T) {
	svc, db := authTestService(t, nil)
	user := seedUser(t, db, "maria@rodocheck.com", "segredo123")
	db.Model(&user).Update("is_active", false)

	if _, err := svc.Login(&LoginRequest{Email: "maria@rodocheck.com", Password: "segredo123"}); !errors.Is(err, ErrAccountDisabled) {
		t.Errorf("Login = %v, want ErrAccountDisabled", err)
	}
}

func stubVerifier(payload *idtoken.Payload, err error) googleTokenVerifier {
	return func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
		return payload, err
	}
}

func googlePayload(subject, email string) *idtoken.Payload {
	return &idtoken.Payload{
		Subject: subject,
		Claims: map[string]any{
			"email":       email,
			"given_name":  "João",
			"family_name": "Santos",
			"picture":     "https://lh3.example/photo.jpg",
		},
	}
}

func TestLoginWithGoogle_ProvisionsUser(t *testing.T) {
	svc, db := authTestService(t, nil)
	svc.verify = stubVerifier(googlePayload("g-123", "joao@rodocheck.com"), nil)

	result, err := svc.LoginWithGoogle(context.Background(), &GoogleAuthRequest{GoogleToken: "tok"})
	if err != nil {
		t.Fatalf("LoginWithGoogle: %v", err)
	}
	if result.User.Email != "joao@rodocheck.com" {
		t.Errorf("Email = %q", result.User.Email)
	}
	if result.User.Role != "driver" {
		t.Errorf("Role = %q, want driver for provisioned accounts", result.User.Role)
	}
	if !result.User.IsVerified {
		t.Error("google sign-in should mark the account verified")
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("users = %d, want 1", count)
	}
}

func TestLoginWithGoogle_LinksExistingAccount(t *testing.T) {
	svc, db := authTestService(t, nil)
	seedUser(t, db, "maria@rodocheck.com", "segredo123")
	svc.verify = stubVerifier(googlePayload("g-456", "maria@rodocheck.com"), nil)

	result, err := svc.LoginWithGoogle(context.Background(), &GoogleAuthRequest{GoogleToken: "tok"})
	if err != nil {
		t.Fatalf("LoginWithGoogle: %v", err)
	}
	if result.User.GoogleID == nil || *result.User.GoogleID != "g-456" {
		t.Error("the existing account should be linked to the google id")
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("users = %d, linking must not create a second account", count)
	}
}

func TestLoginWithGoogle_InvalidToken(t *testing.T) {
	svc, _ := authTestService(t, nil)
	svc.verify = stubVerifier(nil, errors.New("token expired"))

	if _, err := svc.LoginWithGoogle(context.Background(), &GoogleAuthRequest{GoogleToken: "bad"}); !errors.Is(err, ErrInvalidGoogleToken) {
		t.Errorf("LoginWithGoogle = %v, want ErrInvalidGoogleToken", err)
	}
}

func TestLoginWithGoogle_DomainRestriction(t *testing.T) {
	svc, _ := authTestService(t, &config.GoogleConfig{AllowedDomain: "rodocheck.com"})
	svc.verify = stubVerifier(googlePayload("g-789", "fulano@gmail.com"), nil)

	if _, err := svc.LoginWithGoogle(context.Background(), &GoogleAuthRequest{GoogleToken: "tok"}); !errors.Is(err, ErrDomainNotAllowed) {
		t.Errorf("LoginWithGoogle = %v, want ErrDomainNotAllowed", err)
	}
}

func TestCreateAdminIfNotExists(t *testing.T) {
	svc, db := authTestService(t, nil)

	if err := svc.CreateAdminIfNotExists("admin@rodocheck.com", "admin123"); err != nil {
		t.Fatalf("CreateAdminIfNotExists: %v", err)
	}
	// A second call must not create another admin.
	if err := svc.CreateAdminIfNotExists("outro@rodocheck.com", "admin123"); err != nil {
		t.Fatalf("second CreateAdminIfNotExists: %v", err)
	}

	var admins []models.User
	db.Where("role = ?", "admin").Find(&admins)
	if len(admins) != 1 {
		t.Fatalf("admins = %d, want 1", len(admins))
	}
	if admins[0].Email != "admin@rodocheck.com" {
		t.Errorf("admin email = %q", admins[0].Email)
	}

	if _, err := svc.Login(&LoginRequest{Email: "admin@rodocheck.com", Password: "admin123"}); err != nil {
		t.Errorf("admin Login: %v", err)
	}
}
