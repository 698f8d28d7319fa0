package dto

import (
	"time"

	"github.com/photoshare/api/internal/model"
)

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Username string `json:"username" binding:"omitempty,alphanum,min=3,max=32"`
	FullName string `json:"full_name" binding:"omitempty,max=100"`
}

// LoginRequest is bound from an urlencoded form; username may hold an email or a username.
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,alphanum,min=3,max=32"`
	FullName *string `json:"full_name" binding:"omitempty,max=100"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72,nefield=CurrentPassword"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user moderator admin"`
}

type UpdateActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type UserResponse struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username,omitempty"`
	Email        string    `json:"email,omitempty"`
	FullName     string    `json:"full_name,omitempty"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	RegisteredAt time.Time `json:"registered_at"`
}

func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.UsernameValue(),
		Email:        u.EmailValue(),
		FullName:     u.FullName,
		Role:         u.Role,
		IsActive:     u.IsActive,
		RegisteredAt: u.RegisteredAt,
	}
}

type RevokeTokensResponse struct {
	Message string `json:"message"`
	Revoked int    `json:"revoked"`
}
