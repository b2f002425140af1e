package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sharecal-dev/sharecal/internal/calendars"
	"github.com/sharecal-dev/sharecal/internal/permissions"
	"github.com/sharecal-dev/sharecal/internal/utils"
)

type EditorChangeRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

type BulkPermissionsRequest struct {
	Changes map[uint]bool `json:"changes" binding:"required"`
}

func GrantEditor(ctx *gin.Context) {
	applyEditorChange(ctx, true)
}

func RevokeEditor(ctx *gin.Context) {
	applyEditorChange(ctx, false)
}

func applyEditorChange(ctx *gin.Context, grant bool) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	calendarID, ok := calendarParam(ctx)

	if !ok {
		return
	}

	var body EditorChangeRequest

	if err := ctx.BindJSON(&body); err != nil {
		badRequest(ctx, "user_id is required")
		return
	}

	canonical, err := permissions.ResolveCanonical(calendarID)

	if err != nil {
		fail(ctx, err)
		return
	}

	if grant {
		err = calendars.GrantEditor(canonical, userID, body.UserID)
	} else {
		err = calendars.RevokeEditor(canonical, userID, body.UserID)
	}

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

// BulkUpdatePermissions applies a userId -> grant mapping in one call.
func BulkUpdatePermissions(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	calendarID, ok := calendarParam(ctx)

	if !ok {
		return
	}

	var body BulkPermissionsRequest

	if err := ctx.BindJSON(&body); err != nil {
		badRequest(ctx, "changes mapping is required")
		return
	}

	canonical, err := permissions.ResolveCanonical(calendarID)

	if err != nil {
		fail(ctx, err)
		return
	}

	if err := calendars.ApplyBulk(canonical, userID, body.Changes); err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
