package models

import (
	"time"

	"gorm.io/gorm"
)

// Event always belongs to a canonical calendar. UserID is the last
// writer, not an owner: write authority comes from the calendar role.
type Event struct {
	gorm.Model

	Title    string `gorm:"not null"`
	Memo     string
	StartsAt time.Time `gorm:"not null;index"`
	EndsAt   time.Time `gorm:"not null"`

	CalendarID uint `gorm:"not null;index"`
	UserID     uint `gorm:"not null"`

	// Relationships
	Calendar Calendar `gorm:"foreignKey:CalendarID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User     User     `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
