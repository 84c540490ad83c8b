package services

import (
	"crypto/subtle"

	"movie-catalog/internal/config"
)

// AuthCookieName is the cookie carrying the shared operator secret.
const AuthCookieName = "auth"

// AuthService checks operator credentials and session cookies against a
// single shared secret. There are no per-user accounts.
type AuthService interface {
	CheckCredentials(username, password string) bool
	SessionToken() string
	IsLoggedIn(cookieValue string) bool
}

type authService struct {
	admin func() config.AdminConfig
}

// NewAuthService takes a provider so the credentials are re-read on every request.
func NewAuthService(admin func() config.AdminConfig) AuthService {
	return &authService{admin: admin}
}

func (s *authService) CheckCredentials(username, password string) bool {
	cfg := s.admin()
	if cfg.Username == "" || cfg.Password == "" || cfg.Secret == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(cfg.Password)) == 1
	return userOK && passOK
}

func (s *authService) SessionToken() string {
	return s.admin().Secret
}

func (s *authService) IsLoggedIn(cookieValue string) bool {
	secret := s.admin().Secret
	if secret == "" || cookieValue == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookieValue), []byte(secret)) == 1
}
