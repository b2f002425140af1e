package calendars

import (
	"errors"
	"fmt"

	"github.com/sharecal-dev/sharecal/db"
	"github.com/sharecal-dev/sharecal/internal/models"
	"github.com/sharecal-dev/sharecal/internal/types"
	"gorm.io/gorm"
)

// GrantEditor marks an existing participant as editor. Granting twice
// is a no-op; granting a user who never joined is rejected, since
// editors are always a subset of participants.
func GrantEditor(canonical *models.Calendar, requesterID, targetID uint) error {
	if canonical.OwnerID != requesterID {
		return fmt.Errorf("user %d may not manage permissions of calendar %d: %w", requesterID, canonical.ID, types.ErrForbidden)
	}

	var membership models.CalendarMembership

	err := db.DB.Where("calendar_id = ? AND user_id = ?", canonical.ID, targetID).First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %d is not a participant of calendar %d: %w", targetID, canonical.ID, types.ErrInvalid)
		}
		return err
	}

	if membership.Editor {
		return nil
	}

	return db.DB.Model(&membership).Update("editor", true).Error
}

// RevokeEditor demotes a participant back to viewer. Revoking a
// non-editor, or a user with no membership at all, is a no-op.
func RevokeEditor(canonical *models.Calendar, requesterID, targetID uint) error {
	if canonical.OwnerID != requesterID {
		return fmt.Errorf("user %d may not manage permissions of calendar %d: %w", requesterID, canonical.ID, types.ErrForbidden)
	}

	err := db.DB.Model(&models.CalendarMembership{}).
		Where("calendar_id = ? AND user_id = ?", canonical.ID, targetID).
		Update("editor", false).Error

	return err
}

// ApplyBulk applies a userID -> grant mapping as set operations: all
// grants first, then all revokes. Entries that change nothing, and
// grants for users who never joined, are silently accepted.
func ApplyBulk(canonical *models.Calendar, requesterID uint, changes map[uint]bool) error {
	if canonical.OwnerID != requesterID {
		return fmt.Errorf("user %d may not manage permissions of calendar %d: %w", requesterID, canonical.ID, types.ErrForbidden)
	}

	if len(changes) == 0 {
		return fmt.Errorf("empty permission change set: %w", types.ErrInvalid)
	}

	var grants, revokes []uint

	for userID, editor := range changes {
		if editor {
			grants = append(grants, userID)
		} else {
			revokes = append(revokes, userID)
		}
	}

	if len(grants) > 0 {
		err := db.DB.Model(&models.CalendarMembership{}).
			Where("calendar_id = ? AND user_id IN ?", canonical.ID, grants).
			Update("editor", true).Error

		if err != nil {
			return err
		}
	}

	if len(revokes) > 0 {
		err := db.DB.Model(&models.CalendarMembership{}).
			Where("calendar_id = ? AND user_id IN ?", canonical.ID, revokes).
			Update("editor", false).Error

		if err != nil {
			return err
		}
	}

	return nil
}

// Participants describes the membership of a canonical calendar as the
// participants endpoint reports it.
type Participants struct {
	Owner        models.User
	Participants []models.User
	EditorIDs    []uint
}

// ListParticipants loads the owner, participant users and editor id set
// of a canonical calendar.
func ListParticipants(canonical *models.Calendar) (*Participants, error) {
	var owner models.User

	if err := db.DB.First(&owner, canonical.OwnerID).Error; err != nil {
		return nil, err
	}

	var memberships []models.CalendarMembership

	err := db.DB.Preload("User").
		Where("calendar_id = ?", canonical.ID).
		Order("created_at asc").
		Find(&memberships).Error

	if err != nil {
		return nil, err
	}

	result := Participants{
		Owner:        owner,
		Participants: make([]models.User, 0, len(memberships)),
		EditorIDs:    []uint{},
	}

	for _, m := range memberships {
		result.Participants = append(result.Participants, m.User)
		if m.Editor {
			result.EditorIDs = append(result.EditorIDs, m.UserID)
		}
	}

	return &result, nil
}
