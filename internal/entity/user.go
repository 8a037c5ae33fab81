package entity

import "time"

type User struct {
	ID          string    `db:"id"`
	Email       string    `db:"email"`
	Password    string    `db:"password"`
	FirstName   string    `db:"first_name"`
	LastName    string    `db:"last_name"`
	AvatarURL   string    `db:"avatar_url"`
	PhoneNumber string    `db:"phone_number"`
	ICANNumber  string    `db:"ican_number"`
	IsActive    bool      `db:"is_active"`
	IsAdmin     bool      `db:"is_admin"`
	IsVerified  bool      `db:"is_verified"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type UserLoginData struct {
	ID      string
	Email   string
	IsAdmin bool
}
