package calendars_test

import (
	"errors"
	"testing"

	"github.com/sharecal-dev/sharecal/db"
	"github.com/sharecal-dev/sharecal/internal/calendars"
	"github.com/sharecal-dev/sharecal/internal/models"
	"github.com/sharecal-dev/sharecal/internal/testutil"
	"github.com/sharecal-dev/sharecal/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func share(t *testing.T, canonical *models.Calendar, password string) {
	t.Helper()

	_, _, err := calendars.IssueShare(canonical, canonical.OwnerID, password)
	require.NoError(t, err)
	require.NoError(t, db.DB.First(canonical, canonical.ID).Error)
}

func TestJoinCreatesStubAndMembership(t *testing.T) {
	testutil.OpenTestDB(t)

	owner := testutil.NewUser(t, "owner")
	joiner := testutil.NewUser(t, "joiner")

	canonical := testutil.NewCalendar(t, owner.ID, "Work")
	share(t, canonical, "abcd")

	stub, err := calendars.Join(canonical.ID, joiner.ID, "abcd")
	require.NoError(t, err)

	assert.Equal(t, "[Shared] Work", stub.Name)
	assert.Equal(t, canonical.Color, stub.Color)
	assert.Equal(t, joiner.ID, stub.OwnerID)
	require.NotNil(t, stub.OriginalCalendarID)
	assert.Equal(t, canonical.ID, *stub.OriginalCalendarID)

	// Stubs never carry share credentials.
	assert.Empty(t, stub.ShareLink)
	assert.Empty(t, stub.SharePassword)

	var membership models.CalendarMembership
	require.NoError(t, db.DB.Where("calendar_id = ? AND user_id = ?", canonical.ID, joiner.ID).First(&membership).Error)
	assert.False(t, membership.Editor)
}

func TestJoinIsIdempotent(t *testing.T) {
	testutil.OpenTestDB(t)

	owner := testutil.NewUser(t, "owner")
	joiner := testutil.NewUser(t, "joiner")

	canonical := testutil.NewCalendar(t, owner.ID, "Work")
	share(t, canonical, "abcd")

	first, err := calendars.Join(canonical.ID, joiner.ID, "abcd")
	require.NoError(t, err)

	second, err := calendars.Join(canonical.ID, joiner.ID, "abcd")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var stubCount int64
	require.NoError(t, db.DB.Model(&models.Calendar{}).
		Where("owner_id = ? AND original_calendar_id = ?", joiner.ID, canonical.ID).
		Count(&stubCount).Error)
	assert.EqualValues(t, 1, stubCount)

	var memberCount int64
	require.NoError(t, db.DB.Model(&models.CalendarMembership{}).
		Where("calendar_id = ?", canonical.ID).
		Count(&memberCount).Error)
	assert.EqualValues(t, 1, memberCount)
}

func TestStubUniquePerOwnerAndCanonical(t *testing.T) {
	testutil.OpenTestDB(t)

	owner := testutil.NewUser(t, "owner")
	joiner := testutil.NewUser(t, "joiner")

	canonical := testutil.NewCalendar(t, owner.ID, "Work")
	share(t, canonical, "abcd")

	_, err := calendars.Join(canonical.ID, joiner.ID, "abcd")
	require.NoError(t, err)

	// The store itself rejects a second stub for the same pair, so two
	// joins racing past the existence check cannot both insert one.
	duplicate := models.Calendar{
		Name:               "[Shared] Work",
		Color:              canonical.Color,
		OwnerID:            joiner.ID,
		OriginalCalendarID: &canonical.ID,
	}
	assert.Error(t, db.DB.Create(&duplicate).Error)

	// Canonical calendars are unconstrained: one owner, many calendars.
	testutil.NewCalendar(t, owner.ID, "Home")
	testutil.NewCalendar(t, owner.ID, "Side project")
}

func TestJoinRecoversFromRacingJoin(t *testing.T) {
	testutil.OpenTestDB(t)

	owner := testutil.NewUser(t, "owner")
	joiner := testutil.NewUser(t, "joiner")

	canonical := testutil.NewCalendar(t, owner.ID, "Work")
	share(t, canonical, "abcd")

	// A racing join got its membership row in first but has not created
	// the stub yet; the late joiner must still end with exactly one of
	// each, not an error.
	require.NoError(t, db.DB.Create(&models.CalendarMembership{
		UserID:     joiner.ID,
		CalendarID: canonical.ID,
	}).Error)

	stub, err := calendars.Join(canonical.ID, joiner.ID, "abcd")
	require.NoError(t, err)
	assert.Equal(t, joiner.ID, stub.OwnerID)

	var memberCount int64
	require.NoError(t, db.DB.Model(&models.CalendarMembership{}).
		Where("calendar_id = ?", canonical.ID).Count(&memberCount).Error)
	assert.EqualValues(t, 1, memberCount)

	var stubCount int64
	require.NoError(t, db.DB.Model(&models.Calendar{}).
		Where("owner_id = ? AND original_calendar_id = ?", joiner.ID, canonical.ID).
		Count(&stubCount).Error)
	assert.EqualValues(t, 1, stubCount)
}

func TestJoinRejectsWrongPasswordAndSelfJoin(t *testing.T) {
	testutil.OpenTestDB(t)

	owner := testutil.NewUser(t, "owner")
	joiner := testutil.NewUser(t, "joiner")

	canonical := testutil.NewCalendar(t, owner.ID, "Work")
	share(t, canonical, "abcd")

	_, err := calendars.Join(canonical.ID, joiner.ID, "nope")
	assert.True(t, errors.Is(err, types.ErrForbidden))

	_, err = calendars.Join(canonical.ID, owner.ID, "abcd")
	assert.True(t, errors.Is(err, types.ErrConflict))
}

func TestJoinRequiresIssuedShare(t *testing.T) {
	testutil.OpenTestDB(t)

	owner := testutil.NewUser(t, "owner")
	joiner := testutil.NewUser(t, "joiner")

	canonical := testutil.NewCalendar(t, owner.ID, "Work")

	_, err := calendars.Join(canonical.ID, joiner.ID, "")
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestCanonicalEditPropagatesToStubs(t *testing.T) {
	testutil.OpenTestDB(t)

	owner := testutil.NewUser(t, "owner")
	joiner := testutil.NewUser(t, "joiner")

	canonical := testutil.NewCalendar(t, owner.ID, "Work")
	share(t, canonical, "abcd")

	stub, err := calendars.Join(canonical.ID, joiner.ID, "abcd")
	require.NoError(t, err)

	_, err = calendars.Update(canonical.ID, owner.ID, "Team", "#ff0000", "standup notes")
	require.NoError(t, err)

	require.NoError(t, db.DB.First(stub, stub.ID).Error)
	assert.Equal(t, "Team", stub.Name)
	assert.Equal(t, "#ff0000", stub.Color)
	assert.Equal(t, "standup notes", stub.Memo)
}

func TestStubEditConvergesCanonicalAndSiblings(t *testing.T) {
	testutil.OpenTestDB(t)

	owner := testutil.NewUser(t, "owner")
	first := testutil.NewUser(t, "first")
	second := testutil.NewUser(t, "second")

	canonical := testutil.NewCalendar(t, owner.ID, "Work")
	share(t, canonical, "abcd")

	firstStub, err := calendars.Join(canonical.ID, first.ID, "abcd")
	require.NoError(t, err)
	secondStub, err := calendars.Join(canonical.ID, second.ID, "abcd")
	require.NoError(t, err)

	// Stub edits need editor rights on the canonical calendar.
	require.NoError(t, calendars.GrantEditor(canonical, owner.ID, first.ID))

	_, err = calendars.Update(firstStub.ID, first.ID, "Renamed", "#00ff00", "")
	require.NoError(t, err)

	require.NoError(t, db.DB.First(canonical, canonical.ID).Error)
	require.NoError(t, db.DB.First(secondStub, secondStub.ID).Error)

	assert.Equal(t, "Renamed", canonical.Name)
	assert.Equal(t, "Renamed", secondStub.Name)
	assert.Equal(t, "#00ff00", canonical.Color)
	assert.Equal(t, "#00ff00", secondStub.Color)
}

func TestStubEditByViewerIsForbidden(t *testing.T) {
	testutil.OpenTestDB(t)

	owner := testutil.NewUser(t, "owner")
	joiner := testutil.NewUser(t, "joiner")

	canonical := testutil.NewCalendar(t, owner.ID, "Work")
	share(t, canonical, "abcd")

	stub, err := calendars.Join(canonical.ID, joiner.ID, "abcd")
	require.NoError(t, err)

	_, err = calendars.Update(stub.ID, joiner.ID, "Hijacked", "", "")
	assert.True(t, errors.Is(err, types.ErrForbidden))
}

func TestDeleteStubDetachesParticipation(t *testing.T) {
	testutil.OpenTestDB(t)

	owner := testutil.NewUser(t, "owner")
	joiner := testutil.NewUser(t, "joiner")

	canonical := testutil.NewCalendar(t, owner.ID, "Work")
	share(t, canonical, "abcd")

	stub, err := calendars.Join(canonical.ID, joiner.ID, "abcd")
	require.NoError(t, err)
	require.NoError(t, calendars.GrantEditor(canonical, owner.ID, joiner.ID))

	event := models.Event{Title: "standup", CalendarID: canonical.ID, UserID: owner.ID}
	require.NoError(t, db.DB.Create(&event).Error)

	require.NoError(t, calendars.Delete(stub.ID, joiner.ID))

	// Participation and editor status are gone together.
	var memberCount int64
	require.NoError(t, db.DB.Model(&models.CalendarMembership{}).
		Where("calendar_id = ?", canonical.ID).Count(&memberCount).Error)
	assert.EqualValues(t, 0, memberCount)

	// The canonical calendar and its events survive.
	require.NoError(t, db.DB.First(canonical, canonical.ID).Error)

	var eventCount int64
	require.NoError(t, db.DB.Model(&models.Event{}).
		Where("calendar_id = ?", canonical.ID).Count(&eventCount).Error)
	assert.EqualValues(t, 1, eventCount)
}

func TestDeleteCanonicalCascades(t *testing.T) {
	testutil.OpenTestDB(t)

	owner := testutil.NewUser(t, "owner")
	joiner := testutil.NewUser(t, "joiner")

	canonical := testutil.NewCalendar(t, owner.ID, "Work")
	share(t, canonical, "abcd")

	stub, err := calendars.Join(canonical.ID, joiner.ID, "abcd")
	require.NoError(t, err)

	event := models.Event{Title: "standup", CalendarID: canonical.ID, UserID: owner.ID}
	require.NoError(t, db.DB.Create(&event).Error)

	// Only the owner may delete the canonical calendar.
	err = calendars.Delete(canonical.ID, joiner.ID)
	assert.True(t, errors.Is(err, types.ErrForbidden))

	require.NoError(t, calendars.Delete(canonical.ID, owner.ID))

	var count int64
	require.NoError(t, db.DB.Model(&models.Event{}).Where("calendar_id = ?", canonical.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	require.NoError(t, db.DB.Model(&models.CalendarMembership{}).Where("calendar_id = ?", canonical.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	require.NoError(t, db.DB.Model(&models.Calendar{}).Where("id IN ?", []uint{canonical.ID, stub.ID}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
