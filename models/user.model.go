package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the account type chosen at registration.
type Role string

const (
	RoleStudent Role = "Student"
	RoleTeacher Role = "Teacher"
	RoleAdmin   Role = "Admin"
)

type User struct {
	ID        string    `json:"_id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Name      string    `json:"name" gorm:"not null" bson:"name"`
	Email     string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null" bson:"email"`
	Password  string    `json:"password,omitempty" gorm:"not null" bson:"password"`
	Type      Role      `json:"type" gorm:"type:varchar(16);default:'Student'" bson:"type"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

// Sanitized returns a copy without the password hash, safe to serialize.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

// NewID returns a fresh identifier shared by every store driver.
func NewID() string {
	return uuid.NewString()
}
