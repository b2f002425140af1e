// Package permissions computes a user's role against a canonical
// calendar. It never mutates state; callers decide what a role allows.
package permissions

import (
	"errors"
	"fmt"

	"github.com/sharecal-dev/sharecal/db"
	"github.com/sharecal-dev/sharecal/internal/models"
	"github.com/sharecal-dev/sharecal/internal/types"
	"gorm.io/gorm"
)

// ResolveCanonical loads the canonical calendar behind the given id,
// following the stub's OriginalCalendarID when a stub id is passed.
// Every handler that accepts a calendar id goes through this hop once,
// so the rest of the code only ever sees canonical records.
func ResolveCanonical(calendarID uint) (*models.Calendar, error) {
	var calendar models.Calendar

	if err := db.DB.First(&calendar, calendarID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("calendar %d: %w", calendarID, types.ErrNotFound)
		}
		return nil, err
	}

	if !calendar.IsStub() {
		return &calendar, nil
	}

	var canonical models.Calendar

	if err := db.DB.First(&canonical, *calendar.OriginalCalendarID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Stub pointing at a deleted canonical behaves as absent.
			return nil, fmt.Errorf("calendar %d: %w", calendarID, types.ErrNotFound)
		}
		return nil, err
	}

	return &canonical, nil
}

// ResolveRole returns the authority userID holds over the calendar
// identified by calendarID (canonical or stub id). A missing calendar
// resolves to RoleNone rather than an error, so "no calendar" and "no
// relation" are indistinguishable to callers that only need the role.
func ResolveRole(calendarID, userID uint) types.Role {
	canonical, err := ResolveCanonical(calendarID)

	if err != nil {
		return types.RoleNone
	}

	return RoleOn(canonical, userID)
}

// RoleOn computes the role against an already-resolved canonical record,
// saving the extra lookup when the caller holds one.
func RoleOn(canonical *models.Calendar, userID uint) types.Role {
	if canonical.OwnerID == userID {
		return types.RoleOwner
	}

	var membership models.CalendarMembership

	err := db.DB.Where("calendar_id = ? AND user_id = ?", canonical.ID, userID).First(&membership).Error

	if err != nil {
		return types.RoleNone
	}

	if membership.Editor {
		return types.RoleEditor
	}

	return types.RoleViewer
}

// CanWrite reports whether userID may mutate the calendar or its events.
func CanWrite(calendarID, userID uint) bool {
	return ResolveRole(calendarID, userID).CanWrite()
}
