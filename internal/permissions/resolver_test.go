package permissions_test

import (
	"errors"
	"testing"

	"github.com/sharecal-dev/sharecal/db"
	"github.com/sharecal-dev/sharecal/internal/models"
	"github.com/sharecal-dev/sharecal/internal/permissions"
	"github.com/sharecal-dev/sharecal/internal/testutil"
	"github.com/sharecal-dev/sharecal/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRole(t *testing.T) {
	testutil.OpenTestDB(t)

	owner := testutil.NewUser(t, "owner")
	editor := testutil.NewUser(t, "editor")
	viewer := testutil.NewUser(t, "viewer")
	stranger := testutil.NewUser(t, "stranger")

	calendar := testutil.NewCalendar(t, owner.ID, "Work")

	require.NoError(t, db.DB.Create(&models.CalendarMembership{
		UserID:     editor.ID,
		CalendarID: calendar.ID,
		Editor:     true,
	}).Error)
	require.NoError(t, db.DB.Create(&models.CalendarMembership{
		UserID:     viewer.ID,
		CalendarID: calendar.ID,
	}).Error)

	assert.Equal(t, types.RoleOwner, permissions.ResolveRole(calendar.ID, owner.ID))
	assert.Equal(t, types.RoleEditor, permissions.ResolveRole(calendar.ID, editor.ID))
	assert.Equal(t, types.RoleViewer, permissions.ResolveRole(calendar.ID, viewer.ID))
	assert.Equal(t, types.RoleNone, permissions.ResolveRole(calendar.ID, stranger.ID))
}

func TestResolveRoleThroughStubID(t *testing.T) {
	testutil.OpenTestDB(t)

	owner := testutil.NewUser(t, "owner")
	participant := testutil.NewUser(t, "participant")

	canonical := testutil.NewCalendar(t, owner.ID, "Work")

	require.NoError(t, db.DB.Create(&models.CalendarMembership{
		UserID:     participant.ID,
		CalendarID: canonical.ID,
	}).Error)

	stub := models.Calendar{
		Name:               "[Shared] Work",
		Color:              canonical.Color,
		OwnerID:            participant.ID,
		OriginalCalendarID: &canonical.ID,
	}
	require.NoError(t, db.DB.Create(&stub).Error)

	// Roles resolve identically through the stub id and the canonical id.
	assert.Equal(t, types.RoleViewer, permissions.ResolveRole(stub.ID, participant.ID))
	assert.Equal(t, types.RoleOwner, permissions.ResolveRole(stub.ID, owner.ID))

	resolved, err := permissions.ResolveCanonical(stub.ID)
	require.NoError(t, err)
	assert.Equal(t, canonical.ID, resolved.ID)
}

func TestResolveRoleMissingCalendar(t *testing.T) {
	testutil.OpenTestDB(t)

	user := testutil.NewUser(t, "user")

	assert.Equal(t, types.RoleNone, permissions.ResolveRole(9999, user.ID))

	_, err := permissions.ResolveCanonical(9999)
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestCanWrite(t *testing.T) {
	testutil.OpenTestDB(t)

	owner := testutil.NewUser(t, "owner")
	viewer := testutil.NewUser(t, "viewer")

	calendar := testutil.NewCalendar(t, owner.ID, "Work")

	require.NoError(t, db.DB.Create(&models.CalendarMembership{
		UserID:     viewer.ID,
		CalendarID: calendar.ID,
	}).Error)

	assert.True(t, permissions.CanWrite(calendar.ID, owner.ID))
	assert.False(t, permissions.CanWrite(calendar.ID, viewer.ID))
}
