package database

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User 表示系统中的账号信息。
// The unique index on Email closes the signup check-then-insert race at the
// storage level; the handler-level existence check only provides the
// friendlier Conflict message.
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;size:255"`
	PasswordHash string `gorm:"size:255"`
}

// Application represents one tracked job application. Ownership is by value
// equality on UserEmail; every query against this table must carry a
// user_email filter.
type Application struct {
	gorm.Model
	UserEmail       string         `gorm:"index;size:255"`
	Company         string         `gorm:"size:255"`
	Role            string         `gorm:"size:255"`
	Status          string         `gorm:"size:64;default:'Applied'"`
	AppliedDate     time.Time
	JobDescription  string         `gorm:"type:text"`
	ResumeText      string         `gorm:"type:text"`
	MatchScore      int            `gorm:"default:0"`
	MissingKeywords datatypes.JSON `gorm:"type:jsonb"` // JSON array of strings
	NextActionDate  *time.Time
	ReminderNote    string `gorm:"size:512"`
}
