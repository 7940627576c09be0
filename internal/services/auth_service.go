package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"loyalty_club_backend/internal/models"
	"loyalty_club_backend/pkg/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors ---
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLoginValidation    = errors.New("login data validation error")
	ErrNotAuthenticated   = errors.New("no active session")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// --- Data Transfer Objects (DTOs) ---

// LoginRequest DTO
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("Email is required"),
			validation.Match(emailPattern).Error("Please enter a valid email"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("Password is required"),
			validation.Length(6, 0).Error("Password must be at least 6 characters"),
		),
	)
}

// AuthResponse DTO
type AuthResponse struct {
	User        models.SessionUser `json:"user"`
	AccessToken string             `json:"access_token"`
	ExpiresAt   time.Time          `json:"expires_at"`
}

// Credential is the single operator account allowed to log in.
type Credential struct {
	Email    string
	Password string
	Name     string
}

// --- AuthService Interface ---
type AuthService interface {
	LoginUser(req LoginRequest) (*AuthResponse, error)
	LogoutUser()
	CurrentSession() models.Session
	ValidateToken(token string) (*utils.Claims, error)
}

// --- authService Implementation ---
type authService struct {
	gate         *SessionGate
	tokens       *utils.TokenManager
	email        string
	name         string
	passwordHash []byte
}

// NewAuthService hashes the configured password once so that requests compare
// against a bcrypt hash instead of the plain value.
func NewAuthService(gate *SessionGate, tokens *utils.TokenManager, cred Credential) (AuthService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cred.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	name := cred.Name
	if name == "" {
		name = "Admin User"
	}
	return &authService{
		gate:         gate,
		tokens:       tokens,
		email:        cred.Email,
		name:         name,
		passwordHash: hash,
	}, nil
}

// LoginUser checks the credential, opens the session gate and issues a token.
func (s *authService) LoginUser(req LoginRequest) (*AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoginValidation, err)
	}

	if !strings.EqualFold(req.Email, s.email) {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password)); err != nil {
		// err is bcrypt.ErrMismatchedHashAndPassword for wrong password
		return nil, ErrInvalidCredentials
	}

	user := models.SessionUser{Name: s.name, Email: s.email}
	token, expiresAt, err := s.tokens.GenerateAccessToken(user.Name, user.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	s.gate.Login(user)
	utils.LogInfo("User logged in", map[string]interface{}{"email": user.Email})
	return &AuthResponse{User: user, AccessToken: token, ExpiresAt: expiresAt}, nil
}

func (s *authService) LogoutUser() {
	if user, ok := s.gate.CurrentUser(); ok {
		utils.LogInfo("User logged out", map[string]interface{}{"email": user.Email})
	}
	s.gate.Logout()
}

func (s *authService) CurrentSession() models.Session {
	return s.gate.Session()
}

// ValidateToken accepts a token only while the gate is open, so logging out
// invalidates every token issued before.
func (s *authService) ValidateToken(token string) (*utils.Claims, error) {
	if !s.gate.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
