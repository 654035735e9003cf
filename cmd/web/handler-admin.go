package main

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/myrjola/fraudintake/internal/contexthelpers"
	"github.com/myrjola/fraudintake/internal/errors"
	"github.com/myrjola/fraudintake/internal/logging"
	"github.com/myrjola/fraudintake/internal/models"
	"github.com/myrjola/fraudintake/internal/repositories"
)

func (app *application) csrfToken(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, map[string]string{"csrf_token": contexthelpers.CSRFToken(r.Context())})
}

type loginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

func (app *application) login(w http.ResponseWriter, r *http.Request) {
	var (
		err   error
		req   loginRequest
		admin models.AdminUser
		ctx   = r.Context()
	)
	if err = app.readJSON(w, r, &req); err != nil {
		app.errorJSON(w, r, http.StatusBadRequest, "credentials required")
		return
	}
	if admin, err = app.admins.Authenticate(ctx, req.Username, req.Password); err != nil {
		if errors.Is(err, repositories.ErrInvalidCredentials) {
			app.logger.LogAttrs(ctx, slog.LevelInfo, "failed admin login", errors.SlogError(err))
			app.errorJSON(w, r, http.StatusUnauthorized, "invalid credentials")
			return
		}
		app.serverError(w, r, err)
		return
	}

	// Renew the session token to prevent session fixation.
	if err = app.sessionManager.RenewToken(ctx); err != nil {
		app.serverError(w, r, errors.Wrap(err, "renew session token"))
		return
	}
	app.sessionManager.Put(ctx, string(adminIDSessionKey), admin.ID)

	ctx = logging.WithAttrs(ctx, slog.Int64("admin_id", admin.ID))
	app.logger.LogAttrs(ctx, slog.LevelInfo, "admin logged in")
	adminID := admin.ID
	app.recordAudit(r.WithContext(ctx), models.AuditEntry{ //nolint:exhaustruct // filled in by recordAudit
		Action:    models.AuditActionAdminLogin,
		TableName: "admin_users",
		RecordID:  &adminID,
		UserID:    &adminID,
	})

	app.writeJSON(w, r, http.StatusOK, map[string]any{"success": true, "admin": admin})
}

func (app *application) logout(w http.ResponseWriter, r *http.Request) {
	if err := app.sessionManager.Destroy(r.Context()); err != nil {
		app.serverError(w, r, errors.Wrap(err, "destroy session"))
		return
	}
	app.writeJSON(w, r, http.StatusOK, map[string]bool{"success": true})
}

func (app *application) me(w http.ResponseWriter, r *http.Request) {
	admin, err := app.admins.Get(r.Context(), contexthelpers.AuthenticatedAdminID(r.Context()))
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, admin)
}

// recordAudit appends entry with the acting admin and client address. Failures are logged only.
func (app *application) recordAudit(r *http.Request, entry models.AuditEntry) {
	ctx := r.Context()
	if adminID := contexthelpers.AuthenticatedAdminID(ctx); adminID != 0 && entry.UserID == nil {
		entry.UserID = &adminID
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		entry.IPAddress = host
	}
	entry.Timestamp = time.Now().UTC()
	if err := app.audit.Append(ctx, entry); err != nil {
		app.logger.LogAttrs(ctx, slog.LevelError, "failed to append audit entry",
			slog.String("action", entry.Action), errors.SlogError(err))
	}
}
