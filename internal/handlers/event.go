package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sharecal-dev/sharecal/internal/events"
	"github.com/sharecal-dev/sharecal/internal/utils"
)

type CreateEventRequest struct {
	Title      string    `json:"title" binding:"required"`
	Memo       string    `json:"memo"`
	StartsAt   time.Time `json:"starts_at" binding:"required"`
	EndsAt     time.Time `json:"ends_at" binding:"required"`
	CalendarID uint      `json:"calendar_id" binding:"required"`
}

type UpdateEventRequest struct {
	Title    *string    `json:"title"`
	Memo     *string    `json:"memo"`
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
}

func eventParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)

	if err != nil {
		badRequest(ctx, "Invalid event id")
		return 0, false
	}

	return uint(id), true
}

// ListEvents returns the events of every calendar the requester owns
// or participates in.
func ListEvents(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	list, err := events.ListForUser(userID)

	if err != nil {
		fail(ctx, err)
		return
	}

	response := make([]EventResponse, 0, len(list))

	for i := range list {
		response = append(response, toEventResponse(&list[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true, "events": response})
}

func CreateEvent(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	var body CreateEventRequest

	if err := ctx.BindJSON(&body); err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	event, err := events.Create(userID, events.CreateInput{
		Title:      body.Title,
		Memo:       body.Memo,
		StartsAt:   body.StartsAt,
		EndsAt:     body.EndsAt,
		CalendarID: body.CalendarID,
	})

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"ok": true, "event": toEventResponse(event)})
}

func UpdateEvent(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	eventID, ok := eventParam(ctx)

	if !ok {
		return
	}

	var body UpdateEventRequest

	if err := ctx.BindJSON(&body); err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	event, err := events.Update(eventID, userID, events.UpdateInput{
		Title:    body.Title,
		Memo:     body.Memo,
		StartsAt: body.StartsAt,
		EndsAt:   body.EndsAt,
	})

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true, "event": toEventResponse(event)})
}

func DeleteEvent(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	eventID, ok := eventParam(ctx)

	if !ok {
		return
	}

	if err := events.Delete(eventID, userID); err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
