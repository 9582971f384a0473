// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"strings"
	"time"

	"github.com/household-ledger/backend/internal/domain/entity"
)

// RegisterRequest represents the request body for user registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the request body for user login. The account is named by exactly
// one of identifier (username or email), username or email; identifier wins when several are sent.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required_without_all=Username Email"`
	Username   string `json:"username"`
	Email      string `json:"email" binding:"omitempty,email"`
	Password   string `json:"password" binding:"required"`
}

// LoginIdentifier returns the account name the client supplied.
func (r LoginRequest) LoginIdentifier() string {
	for _, candidate := range []string{r.Identifier, r.Username, r.Email} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// RefreshTokenRequest represents the request body for token refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest represents the request body for user logout. An empty body is accepted.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse carries a token pair. TokenType is always "Bearer".
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthResponse is returned by register and login: the session tokens plus the account.
type AuthResponse struct {
	TokenResponse
	User UserResponse `json:"user"`
}

// NewTokenResponse builds a bearer token pair response.
func NewTokenResponse(accessToken, refreshToken string) TokenResponse {
	return TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}
}

// NewAuthResponse builds the register/login response.
func NewAuthResponse(accessToken, refreshToken string, user *entity.User) AuthResponse {
	return AuthResponse{
		TokenResponse: NewTokenResponse(accessToken, refreshToken),
		User:          ToUserResponse(user),
	}
}

// MessageResponse represents a generic message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse represents the user data in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// ToUserResponse converts a domain User entity to a UserResponse DTO.
func ToUserResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}
