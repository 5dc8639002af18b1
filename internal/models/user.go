package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a user's platform-wide role.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
	// RoleOrganization marks a token issued to an organization rather than a user.
	RoleOrganization Role = "organization"
)

// UserStatus is a user's account status.
type UserStatus string

const (
	UserActive  UserStatus = "active"
	UserBlocked UserStatus = "blocked"
)

// User represents a platform account.
type User struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	Surname         string     `json:"surname"`
	Patronymic      string     `json:"patronymic"`
	ProfileImageKey *string    `json:"profile_image_key,omitempty"`
	AboutMe         *string    `json:"about_me,omitempty"`
	Role            Role       `json:"role"`
	Status          UserStatus `json:"status"`
	PasswordHash    string     `json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
}

// UserPublic is the user shape returned by the API (no credential hash).
type UserPublic struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	Surname         string     `json:"surname"`
	Patronymic      string     `json:"patronymic"`
	ProfileImageKey *string    `json:"profile_image_key,omitempty"`
	AboutMe         *string    `json:"about_me,omitempty"`
	Role            Role       `json:"role"`
	Status          UserStatus `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Public strips credential data from a User.
func (u *User) Public() UserPublic {
	return UserPublic{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Surname:         u.Surname,
		Patronymic:      u.Patronymic,
		ProfileImageKey: u.ProfileImageKey,
		AboutMe:         u.AboutMe,
		Role:            u.Role,
		Status:          u.Status,
		CreatedAt:       u.CreatedAt,
	}
}
