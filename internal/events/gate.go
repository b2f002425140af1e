// Package events is the access gate in front of event CRUD: every
// mutation is authorized against the owning canonical calendar's role,
// never against who wrote the event last.
package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/sharecal-dev/sharecal/db"
	"github.com/sharecal-dev/sharecal/internal/models"
	"github.com/sharecal-dev/sharecal/internal/permissions"
	"github.com/sharecal-dev/sharecal/internal/types"
	"gorm.io/gorm"
)

// CreateInput carries the fields a client supplies for a new event.
// CalendarID may be a stub id; the event is stored against the canonical.
type CreateInput struct {
	Title      string
	Memo       string
	StartsAt   time.Time
	EndsAt     time.Time
	CalendarID uint
}

// UpdateInput carries a partial event update; nil fields keep their
// current value. The owning calendar is fixed at creation.
type UpdateInput struct {
	Title    *string
	Memo     *string
	StartsAt *time.Time
	EndsAt   *time.Time
}

// Create persists a new event after checking write authority on the
// target calendar and stamps the writer.
func Create(userID uint, in CreateInput) (*models.Event, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("event title is required: %w", types.ErrInvalid)
	}

	if in.EndsAt.Before(in.StartsAt) {
		return nil, fmt.Errorf("event ends before it starts: %w", types.ErrInvalid)
	}

	canonical, err := permissions.ResolveCanonical(in.CalendarID)

	if err != nil {
		return nil, err
	}

	if !permissions.RoleOn(canonical, userID).CanWrite() {
		return nil, fmt.Errorf("user %d may not write to calendar %d: %w", userID, canonical.ID, types.ErrForbidden)
	}

	event := models.Event{
		Title:      in.Title,
		Memo:       in.Memo,
		StartsAt:   in.StartsAt,
		EndsAt:     in.EndsAt,
		CalendarID: canonical.ID,
		UserID:     userID,
	}

	if err := db.DB.Create(&event).Error; err != nil {
		return nil, err
	}

	return &event, nil
}

// Update merges the supplied fields into an existing event. Not-found
// is reported before authorization so a missing event is never
// mistaken for a permission problem. The writer stamp moves to userID.
func Update(eventID, userID uint, in UpdateInput) (*models.Event, error) {
	event, err := fetch(eventID)

	if err != nil {
		return nil, err
	}

	if !permissions.CanWrite(event.CalendarID, userID) {
		return nil, fmt.Errorf("user %d may not write to calendar %d: %w", userID, event.CalendarID, types.ErrForbidden)
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, fmt.Errorf("event title is required: %w", types.ErrInvalid)
		}
		event.Title = *in.Title
	}
	if in.Memo != nil {
		event.Memo = *in.Memo
	}
	if in.StartsAt != nil {
		event.StartsAt = *in.StartsAt
	}
	if in.EndsAt != nil {
		event.EndsAt = *in.EndsAt
	}

	if event.EndsAt.Before(event.StartsAt) {
		return nil, fmt.Errorf("event ends before it starts: %w", types.ErrInvalid)
	}

	event.UserID = userID

	if err := db.DB.Save(event).Error; err != nil {
		return nil, err
	}

	return event, nil
}

// Delete hard-deletes an event under the same authorization rule as
// Update.
func Delete(eventID, userID uint) error {
	event, err := fetch(eventID)

	if err != nil {
		return err
	}

	if !permissions.CanWrite(event.CalendarID, userID) {
		return fmt.Errorf("user %d may not write to calendar %d: %w", userID, event.CalendarID, types.ErrForbidden)
	}

	return db.DB.Unscoped().Delete(event).Error
}

// ListForUser returns the events of every canonical calendar the user
// owns or participates in, viewers included. Read access carries no
// write filtering.
func ListForUser(userID uint) ([]models.Event, error) {
	owned := db.DB.Model(&models.Calendar{}).
		Select("id").
		Where("owner_id = ? AND original_calendar_id IS NULL", userID)

	joined := db.DB.Model(&models.CalendarMembership{}).
		Select("calendar_id").
		Where("user_id = ?", userID)

	var events []models.Event

	err := db.DB.Where("calendar_id IN (?) OR calendar_id IN (?)", owned, joined).
		Order("starts_at asc").
		Find(&events).Error

	if err != nil {
		return nil, err
	}

	return events, nil
}

func fetch(eventID uint) (*models.Event, error) {
	var event models.Event

	if err := db.DB.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("event %d: %w", eventID, types.ErrNotFound)
		}
		return nil, err
	}

	return &event, nil
}
