package models

import (
	"strings"
	"time"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// ParseRole maps external role names onto the closed role set,
// case-insensitively. Unknown names are rejected, never defaulted.
func ParseRole(name string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleUser:
		return RoleUser, true
	}
	return "", false
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"unique;not null"          json:"username"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null"                 json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type Order struct {
	ID          uint      `gorm:"primaryKey"           json:"id"`
	Description string    `gorm:"not null"             json:"description"`
	Status      string    `gorm:"index;not null"       json:"status"`
	UserID      uint      `gorm:"index;not null"       json:"user_id"`
	User        User      `gorm:"foreignKey:UserID"    json:"-"`
	CreatedAt   time.Time `gorm:"not null"             json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null"             json:"updated_at"`
}

// BlacklistedToken holds the SHA-256 fingerprint of a revoked access token.
// The unique index on Token makes concurrent logout of the same token safe.
type BlacklistedToken struct {
	ID            uint      `gorm:"primaryKey"           json:"id"`
	Token         string    `gorm:"uniqueIndex;not null" json:"token"`
	Username      string    `gorm:"index;not null"       json:"username"`
	BlacklistedAt time.Time `gorm:"not null"             json:"blacklisted_at"`
	ExpiresAt     int64     `gorm:"not null"             json:"expires_at"`
}
