package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sharecal-dev/sharecal/db"
	"github.com/sharecal-dev/sharecal/internal/calendars"
	"github.com/sharecal-dev/sharecal/internal/models"
	"github.com/sharecal-dev/sharecal/internal/permissions"
	"github.com/sharecal-dev/sharecal/internal/utils"
)

type CreateCalendarRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
	Memo  string `json:"memo"`
}

type UpdateCalendarRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Memo  string `json:"memo"`
}

type JoinCalendarRequest struct {
	Password string `json:"password" binding:"required"`
}

// calendarParam parses the :id path segment. The id may name a
// canonical calendar or a stub; callers resolve as needed.
func calendarParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)

	if err != nil {
		badRequest(ctx, "Invalid calendar id")
		return 0, false
	}

	return uint(id), true
}

// ListCalendars returns the requester's list: canonical calendars they
// own plus the stubs of calendars they joined. Both are owned rows, so
// one query-by-owner covers the whole list.
func ListCalendars(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	var list []models.Calendar

	if err := db.DB.Where("owner_id = ?", userID).Order("created_at asc").Find(&list).Error; err != nil {
		fail(ctx, err)
		return
	}

	response := make([]CalendarResponse, 0, len(list))

	for i := range list {
		response = append(response, toCalendarResponse(&list[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true, "calendars": response})
}

func CreateCalendar(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	var body CreateCalendarRequest

	if err := ctx.BindJSON(&body); err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	calendar := models.Calendar{
		Name:    body.Name,
		Color:   body.Color,
		Memo:    body.Memo,
		OwnerID: userID,
	}

	if calendar.Color == "" {
		calendar.Color = "#a2b9ee"
	}

	if err := db.DB.Create(&calendar).Error; err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"ok": true, "calendar": toCalendarResponse(&calendar)})
}

// UpdateCalendar edits name/color/memo on a canonical calendar or a
// stub and fans the change out to every other copy.
func UpdateCalendar(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	calendarID, ok := calendarParam(ctx)

	if !ok {
		return
	}

	var body UpdateCalendarRequest

	if err := ctx.BindJSON(&body); err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	calendar, err := calendars.Update(calendarID, userID, body.Name, body.Color, body.Memo)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true, "calendar": toCalendarResponse(calendar)})
}

// DeleteCalendar is polymorphic: deleting a stub detaches the
// requester's participation, deleting a canonical calendar cascades.
func DeleteCalendar(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	calendarID, ok := calendarParam(ctx)

	if !ok {
		return
	}

	if err := calendars.Delete(calendarID, userID); err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

// JoinCalendar adds the requester to a shared calendar by password.
func JoinCalendar(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	calendarID, ok := calendarParam(ctx)

	if !ok {
		return
	}

	var body JoinCalendarRequest

	if err := ctx.BindJSON(&body); err != nil {
		badRequest(ctx, "Password is required")
		return
	}

	stub, err := calendars.Join(calendarID, userID, body.Password)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true, "calendar": toCalendarResponse(stub)})
}

// GetParticipants reports owner, participants and editor ids, resolved
// through the canonical record even when a stub id is passed.
func GetParticipants(ctx *gin.Context) {
	if _, err := utils.GetCurrentUserID(ctx); err != nil {
		unauthenticated(ctx)
		return
	}

	calendarID, ok := calendarParam(ctx)

	if !ok {
		return
	}

	canonical, err := permissions.ResolveCanonical(calendarID)

	if err != nil {
		fail(ctx, err)
		return
	}

	info, err := calendars.ListParticipants(canonical)

	if err != nil {
		fail(ctx, err)
		return
	}

	participants := make([]UserResponse, 0, len(info.Participants))

	for _, user := range info.Participants {
		participants = append(participants, UserResponse{ID: user.ID, Name: user.Name})
	}

	ctx.JSON(http.StatusOK, gin.H{
		"ok":           true,
		"owner":        UserResponse{ID: info.Owner.ID, Name: info.Owner.Name},
		"participants": participants,
		"editors":      info.EditorIDs,
	})
}
