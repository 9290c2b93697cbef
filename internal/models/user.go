package models

import (
	"time"
)

// Authentication type values stored on user records. The set is closed:
// anything other than AuthTypeDirectory is treated as a local account.
const (
	AuthTypeLocal     = 1
	AuthTypeDirectory = 2
)

type User struct {
	ID             uint   `gorm:"primaryKey"`
	Username       string `gorm:"uniqueIndex;not null"`
	PasswordDigest []byte // empty for directory-authenticated accounts
	FullName       string
	Email          string
	// No column default: gorm drops zero-valued plain fields from the INSERT
	// when one is set, which would store a deactivated account as active.
	IsActive bool `gorm:"not null"`
	AuthType int  `gorm:"not null;default:1"` // AuthTypeLocal or AuthTypeDirectory

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDirectory returns true if the account is validated against the
// enterprise directory instead of the local password digest.
func (u *User) IsDirectory() bool {
	return u.AuthType == AuthTypeDirectory
}
