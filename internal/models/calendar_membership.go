package models

import "gorm.io/gorm"

// CalendarMembership records one user's participation in a canonical
// calendar. CalendarID always references the canonical record, never a
// stub. The unique index makes join insert-if-absent: two racing joins
// by the same user collapse into one row at the store.
type CalendarMembership struct {
	gorm.Model

	UserID     uint `gorm:"not null;uniqueIndex:idx_user_calendar"`
	CalendarID uint `gorm:"not null;uniqueIndex:idx_user_calendar"`
	Editor     bool `gorm:"not null;default:false"`

	// Relationships
	User     User     `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Calendar Calendar `gorm:"foreignKey:CalendarID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
