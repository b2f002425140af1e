package calendars

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sharecal-dev/sharecal/db"
	"github.com/sharecal-dev/sharecal/internal/models"
	"github.com/sharecal-dev/sharecal/internal/types"
)

// IssueShare creates or rotates the share credentials of a canonical
// calendar, owner-only. The link is deterministic from the calendar id
// and is not a secret; access control is entirely the password. A
// non-empty newPassword overwrites the stored one, an empty newPassword
// keeps it, and a first call with no password ever set auto-generates a
// short token so the share is usable immediately.
func IssueShare(canonical *models.Calendar, requesterID uint, newPassword string) (link, password string, err error) {
	if canonical.OwnerID != requesterID {
		return "", "", fmt.Errorf("user %d may not share calendar %d: %w", requesterID, canonical.ID, types.ErrForbidden)
	}

	link = ShareLinkFor(canonical.ID)
	password = canonical.SharePassword

	if newPassword != "" {
		password = newPassword
	} else if password == "" {
		password = newSharePassword()
	}

	if link == canonical.ShareLink && password == canonical.SharePassword {
		return link, password, nil
	}

	err = db.DB.Model(canonical).Updates(map[string]interface{}{
		"share_link":     link,
		"share_password": password,
	}).Error

	if err != nil {
		return "", "", err
	}

	return link, password, nil
}

// ShareInfo is the owner-only read of the share credentials, lazily
// issuing and persisting them on first call.
func ShareInfo(canonical *models.Calendar, requesterID uint) (link, password string, err error) {
	return IssueShare(canonical, requesterID, "")
}

// ShareLinkFor builds the join URL for a canonical calendar id.
func ShareLinkFor(calendarID uint) string {
	return types.FrontendURL() + "/share-calendar/" + strconv.FormatUint(uint64(calendarID), 10)
}

// newSharePassword returns a short random token. It gates a shareable
// link, not an account, so it is stored and compared as-is.
func newSharePassword() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}
