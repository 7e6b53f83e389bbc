package model

import (
	"time"

	"gorm.io/gorm"
)

// Session is an authenticated login. Handlers receive it explicitly from the
// session middleware and pass it down to every operation that needs the
// caller's identity.
type Session struct {
	gorm.Model
	SessionToken string    `json:"session_token" gorm:"column:session_token;type:varchar(512);uniqueIndex"`
	AccountID    string    `json:"account_id" gorm:"column:account_id;type:varchar(36);index"`
	Role         Role      `json:"role" gorm:"column:role;type:varchar(16)"`
	ExpiresAt    time.Time `json:"expires_at" gorm:"column:expires_at;index"`
	ClientIP     string    `json:"client_ip" gorm:"column:client_ip;type:varchar(45)"`
	Browser      string    `json:"browser" gorm:"column:browser;type:varchar(512)"`
}

// IsExpired reports whether the session is no longer usable at now.
func (s Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

func (s Session) IsPatient() bool { return s.Role == RolePatient }

func (s Session) IsDoctor() bool { return s.Role == RoleDoctor }
