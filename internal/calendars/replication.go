// Package calendars keeps a canonical calendar and its stubs mutually
// consistent: the join workflow, edit fan-out, membership changes and
// the share credentials gating it all.
package calendars

import (
	"errors"
	"fmt"
	"log"

	"github.com/sharecal-dev/sharecal/db"
	"github.com/sharecal-dev/sharecal/internal/models"
	"github.com/sharecal-dev/sharecal/internal/permissions"
	"github.com/sharecal-dev/sharecal/internal/types"
	"gorm.io/gorm"
)

const sharedNamePrefix = "[Shared] "

// Join adds userID as a participant of the canonical calendar behind
// calendarID after checking the share password, and creates their stub.
// Joining twice is idempotent: the existing stub is returned as-is.
func Join(calendarID, userID uint, password string) (*models.Calendar, error) {
	canonical, err := permissions.ResolveCanonical(calendarID)

	if err != nil {
		return nil, err
	}

	if canonical.ShareLink == "" {
		return nil, fmt.Errorf("calendar %d was never shared: %w", canonical.ID, types.ErrNotFound)
	}

	if canonical.SharePassword != password {
		return nil, fmt.Errorf("share password mismatch: %w", types.ErrForbidden)
	}

	if canonical.OwnerID == userID {
		return nil, fmt.Errorf("owner cannot join own calendar: %w", types.ErrConflict)
	}

	var stub models.Calendar

	err = db.DB.Where("owner_id = ? AND original_calendar_id = ?", userID, canonical.ID).First(&stub).Error

	if err == nil {
		return &stub, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	membership := models.CalendarMembership{
		UserID:     userID,
		CalendarID: canonical.ID,
	}

	if err := db.DB.Create(&membership).Error; err != nil {
		// A racing join may have won the unique index on
		// (calendar_id, user_id); the row existing is all we need.
		var existing models.CalendarMembership

		if db.DB.Where("calendar_id = ? AND user_id = ?", canonical.ID, userID).First(&existing).Error != nil {
			return nil, err
		}
	}

	stub = models.Calendar{
		Name:               sharedNamePrefix + canonical.Name,
		Color:              canonical.Color,
		Memo:               canonical.Memo,
		OwnerID:            userID,
		OriginalCalendarID: &canonical.ID,
	}

	if err := db.DB.Create(&stub).Error; err != nil {
		// The unique index on (owner_id, original_calendar_id) means a
		// racing join beat us to the stub; return the winner's copy.
		var existing models.Calendar

		if db.DB.Where("owner_id = ? AND original_calendar_id = ?", userID, canonical.ID).First(&existing).Error == nil {
			return &existing, nil
		}

		return nil, err
	}

	return &stub, nil
}

// Update applies name/color/memo to the record behind calendarID (stub
// or canonical) and fans the resulting values out to every other copy
// of the same logical calendar. Empty fields keep their current value,
// so a propagation cycle always writes the full field set.
func Update(calendarID, userID uint, name, color, memo string) (*models.Calendar, error) {
	var edited models.Calendar

	if err := db.DB.First(&edited, calendarID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("calendar %d: %w", calendarID, types.ErrNotFound)
		}
		return nil, err
	}

	canonicalID := edited.CanonicalID()

	if !permissions.CanWrite(canonicalID, userID) {
		return nil, fmt.Errorf("user %d may not edit calendar %d: %w", userID, calendarID, types.ErrForbidden)
	}

	if name != "" {
		edited.Name = name
	}
	if color != "" {
		edited.Color = color
	}
	if memo != "" {
		edited.Memo = memo
	}

	if err := db.DB.Save(&edited).Error; err != nil {
		return nil, err
	}

	propagate(&edited, canonicalID)

	return &edited, nil
}

// propagate pushes the edited copy's display fields to the canonical
// record and every sibling stub. Failures after the primary write are
// logged, never surfaced: the copies converge again on the next edit.
func propagate(edited *models.Calendar, canonicalID uint) {
	fields := map[string]interface{}{
		"name":  edited.Name,
		"color": edited.Color,
		"memo":  edited.Memo,
	}

	if edited.IsStub() {
		if err := db.DB.Model(&models.Calendar{}).Where("id = ?", canonicalID).Updates(fields).Error; err != nil {
			log.Printf("calendar %d: propagation to canonical %d failed: %v", edited.ID, canonicalID, err)
		}
	}

	err := db.DB.Model(&models.Calendar{}).
		Where("original_calendar_id = ? AND id <> ?", canonicalID, edited.ID).
		Updates(fields).Error

	if err != nil {
		log.Printf("calendar %d: propagation to stubs of %d failed: %v", edited.ID, canonicalID, err)
	}
}

// Delete removes the record behind calendarID. Deleting a stub only
// detaches the caller's participation; deleting a canonical calendar is
// owner-only and cascades to its events, memberships and every stub.
func Delete(calendarID, userID uint) error {
	var calendar models.Calendar

	if err := db.DB.First(&calendar, calendarID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("calendar %d: %w", calendarID, types.ErrNotFound)
		}
		return err
	}

	if calendar.OwnerID != userID {
		return fmt.Errorf("user %d may not delete calendar %d: %w", userID, calendarID, types.ErrForbidden)
	}

	if calendar.IsStub() {
		return leave(&calendar)
	}

	return deleteCanonical(&calendar)
}

// leave drops the membership row first so participant and editor status
// disappear together, then removes the stub. The canonical calendar is
// untouched and loses no events.
func leave(stub *models.Calendar) error {
	err := db.DB.Unscoped().
		Where("calendar_id = ? AND user_id = ?", *stub.OriginalCalendarID, stub.OwnerID).
		Delete(&models.CalendarMembership{}).Error

	if err != nil {
		return err
	}

	return db.DB.Unscoped().Delete(stub).Error
}

func deleteCanonical(canonical *models.Calendar) error {
	if err := db.DB.Unscoped().Where("calendar_id = ?", canonical.ID).Delete(&models.Event{}).Error; err != nil {
		return err
	}

	if err := db.DB.Unscoped().Where("calendar_id = ?", canonical.ID).Delete(&models.CalendarMembership{}).Error; err != nil {
		return err
	}

	if err := db.DB.Unscoped().Where("original_calendar_id = ?", canonical.ID).Delete(&models.Calendar{}).Error; err != nil {
		return err
	}

	return db.DB.Unscoped().Delete(canonical).Error
}
