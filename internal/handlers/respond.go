package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sharecal-dev/sharecal/internal/models"
	"github.com/sharecal-dev/sharecal/internal/types"
)

// fail maps a core failure onto the wire contract: every error body is
// {ok:false, msg}. Store errors never leak; they are logged and turned
// into a generic 500.
func fail(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, types.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"ok": false, "msg": "Not found"})
	case errors.Is(err, types.ErrForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"ok": false, "msg": "Insufficient permissions"})
	case errors.Is(err, types.ErrConflict), errors.Is(err, types.ErrInvalid):
		ctx.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": err.Error()})
	default:
		log.Printf("%s %s: %v", ctx.Request.Method, ctx.FullPath(), err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"ok": false, "msg": "Internal server error"})
	}
}

func badRequest(ctx *gin.Context, msg string) {
	ctx.JSON(http.StatusBadRequest, gin.H{"ok": false, "msg": msg})
}

func unauthenticated(ctx *gin.Context) {
	ctx.JSON(http.StatusUnauthorized, gin.H{"ok": false, "msg": "User not authenticated"})
}

type CalendarResponse struct {
	ID                 uint   `json:"id"`
	Name               string `json:"name"`
	Color              string `json:"color"`
	Memo               string `json:"memo"`
	OwnerID            uint   `json:"owner_id"`
	OriginalCalendarID *uint  `json:"original_calendar_id,omitempty"`
}

func toCalendarResponse(calendar *models.Calendar) CalendarResponse {
	return CalendarResponse{
		ID:                 calendar.ID,
		Name:               calendar.Name,
		Color:              calendar.Color,
		Memo:               calendar.Memo,
		OwnerID:            calendar.OwnerID,
		OriginalCalendarID: calendar.OriginalCalendarID,
	}
}

type EventResponse struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Memo       string `json:"memo"`
	StartsAt   string `json:"starts_at"`
	EndsAt     string `json:"ends_at"`
	CalendarID uint   `json:"calendar_id"`
	UserID     uint   `json:"user_id"`
}

func toEventResponse(event *models.Event) EventResponse {
	return EventResponse{
		ID:         event.ID,
		Title:      event.Title,
		Memo:       event.Memo,
		StartsAt:   event.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:     event.EndsAt.UTC().Format(time.RFC3339),
		CalendarID: event.CalendarID,
		UserID:     event.UserID,
	}
}

type UserResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
