package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role codes
const (
	RoleAdmin     = "admin"
	RoleInventory = "inventory"
	RoleTech      = "tech"
)

// User represents an authenticated user in the system
type User struct {
	BaseModel
	Email      string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password   string     `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	FirstName  string     `gorm:"type:varchar(100)" json:"first_name" validate:"required"`
	LastName   string     `gorm:"type:varchar(100)" json:"last_name"`
	Building   int        `gorm:"not null;default:0" json:"building"`
	Role       string     `gorm:"type:varchar(20);not null;default:'tech'" json:"role" validate:"required,oneof=admin inventory tech"`
	IsActive   bool       `gorm:"default:true" json:"is_active"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Actor builds the request context for this user.
func (u *User) Actor() Actor {
	return Actor{UserID: u.ID.String(), Building: u.Building, Role: u.Role}
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID         uuid.UUID  `json:"id"`
	Email      string     `json:"email"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Building   int        `json:"building"`
	Role       string     `json:"role"`
	IsActive   bool       `json:"is_active"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Building:   u.Building,
		Role:       u.Role,
		IsActive:   u.IsActive,
		LastSeenAt: u.LastSeenAt,
	}
}
