package models

import "gorm.io/gorm"

// Calendar is either a canonical calendar (OriginalCalendarID nil) or a
// stub: a participant-owned copy pointing back at the canonical record.
// Participants, editors and share credentials live only on the canonical
// record; a stub carries nothing but its own display fields.
type Calendar struct {
	gorm.Model

	Name    string `gorm:"not null"`
	Color   string `gorm:"not null;default:'#a2b9ee'"`
	Memo    string
	OwnerID uint `gorm:"not null;uniqueIndex:idx_owner_original"`

	// The unique index holds one stub per (owner, canonical) pair;
	// canonical records keep a NULL here and stay unconstrained.
	OriginalCalendarID *uint `gorm:"uniqueIndex:idx_owner_original"`

	ShareLink     string
	SharePassword string

	// Relationships
	Owner       User                 `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Memberships []CalendarMembership `gorm:"foreignKey:CalendarID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Events      []Event              `gorm:"foreignKey:CalendarID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func (c *Calendar) IsStub() bool {
	return c.OriginalCalendarID != nil
}

// CanonicalID is the id of the canonical record this calendar represents:
// its own id for a canonical calendar, the referenced id for a stub.
func (c *Calendar) CanonicalID() uint {
	if c.OriginalCalendarID != nil {
		return *c.OriginalCalendarID
	}
	return c.ID
}
