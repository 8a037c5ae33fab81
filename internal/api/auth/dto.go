package auth

import "time"

type RegisterUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=32"`
	FirstName   string `json:"first_name" validate:"required,min=2,max=255"`
	LastName    string `json:"last_name" validate:"required,min=2,max=255"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=10,max=15"`
	ICANNumber  string `json:"ican_number" validate:"required,min=5,max=32"`
}

type LoginUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	FirstName   string `json:"first_name" validate:"omitempty,min=2,max=255"`
	LastName    string `json:"last_name" validate:"omitempty,min=2,max=255"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=10,max=15"`
}

type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	ICANNumber  string    `json:"ican_number"`
	IsActive    bool      `json:"is_active"`
	IsAdmin     bool      `json:"is_admin"`
	IsVerified  bool      `json:"is_verified"`
	CreatedAt   time.Time `json:"created_at"`
}

type LoginUserResponse struct {
	AccessToken      string       `json:"accessToken"`
	ExpiresInMinutes float64      `json:"expiresInMinutes"`
	User             UserResponse `json:"user"`
}

type AvatarResponse struct {
	ID        string `json:"id"`
	AvatarURL string `json:"avatar_url"`
}
