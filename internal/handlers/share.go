package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sharecal-dev/sharecal/internal/calendars"
	"github.com/sharecal-dev/sharecal/internal/mail"
	"github.com/sharecal-dev/sharecal/internal/permissions"
	"github.com/sharecal-dev/sharecal/internal/utils"
)

type IssueShareRequest struct {
	Password string `json:"password"`
}

type ShareInviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// IssueShare creates or rotates the share link and password of a
// calendar, owner-only. An empty password keeps (or lazily generates)
// the stored one.
func IssueShare(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	calendarID, ok := calendarParam(ctx)

	if !ok {
		return
	}

	var body IssueShareRequest

	// Body is optional: issuing without a password keeps the stored one.
	_ = ctx.ShouldBindJSON(&body)

	canonical, err := permissions.ResolveCanonical(calendarID)

	if err != nil {
		fail(ctx, err)
		return
	}

	link, password, err := calendars.IssueShare(canonical, userID, body.Password)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"shareUrl":      link,
		"sharePassword": password,
	})
}

// GetShareInfo reads the share credentials, lazily issuing them on
// first call. Owner-only.
func GetShareInfo(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
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

	link, password, err := calendars.ShareInfo(canonical, userID)

	if err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"shareUrl":      link,
		"sharePassword": password,
	})
}

// SendShareInvite emails the share credentials to an address,
// owner-only. Credentials are issued lazily first so the mail never
// carries an empty password.
func SendShareInvite(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		unauthenticated(ctx)
		return
	}

	calendarID, ok := calendarParam(ctx)

	if !ok {
		return
	}

	var body ShareInviteRequest

	if err := ctx.BindJSON(&body); err != nil {
		badRequest(ctx, "A valid email is required")
		return
	}

	canonical, err := permissions.ResolveCanonical(calendarID)

	if err != nil {
		fail(ctx, err)
		return
	}

	link, password, err := calendars.ShareInfo(canonical, userID)

	if err != nil {
		fail(ctx, err)
		return
	}

	// Dial settings come from the environment, so the service is built
	// per request, after any .env file has been loaded.
	if err := mail.NewMailService().SendShareInvite(body.Email, canonical.Name, link, password); err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
