package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/justinas/nosurf"
	"github.com/myrjola/fraudintake/internal/contexthelpers"
	"github.com/myrjola/fraudintake/internal/errors"
	"github.com/myrjola/fraudintake/internal/metrics"
	"github.com/myrjola/fraudintake/internal/models"
	"github.com/myrjola/fraudintake/internal/repositories"
)

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "origin-when-cross-origin")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-XSS-Protection", "0")

		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			proto  = r.Proto
			method = r.Method
			uri    = r.URL.RequestURI()
		)

		app.logger.LogAttrs(r.Context(), slog.LevelDebug, "received request",
			slog.String("proto", proto), slog.String("method", method), slog.String("uri", uri))

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

// measure records the request duration by route pattern, so that ids in paths don't explode the label cardinality.
func (app *application) measure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, r, errors.New("recovered from panic", slog.String("panic", fmt.Sprint(err))))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// cors lets the admin dashboard call the API from another origin.
func (app *application) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (app.corsOrigin == "*" || app.corsOrigin == origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+nosurf.HeaderName)
			w.Header().Add("Vary", "Origin")
		}

		next.ServeHTTP(w, r)
	})
}

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// authenticate adds the signed-in admin to the request context. Sessions of deleted or deactivated admins are
// treated as anonymous.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		adminID := app.sessionManager.GetInt64(r.Context(), string(adminIDSessionKey))

		// Admin has not yet authenticated
		if adminID == 0 {
			next.ServeHTTP(w, r)
			return
		}

		admin, err := app.admins.Get(r.Context(), adminID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			app.serverError(w, r, err)
			return
		}

		if err == nil && admin.Active {
			r = contexthelpers.AuthenticateContext(r, admin)
		}

		next.ServeHTTP(w, r)
	})
}

func (app *application) requireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !contexthelpers.IsAuthenticated(r.Context()) {
			app.errorJSON(w, r, http.StatusUnauthorized, "authentication required")
			return
		}
		w.Header().Set("Cache-Control", "no-store")

		next.ServeHTTP(w, r)
	})
}

func (app *application) requireRole(roles ...models.AdminRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !slices.Contains(roles, contexthelpers.AuthenticatedRole(r.Context())) {
				app.errorJSON(w, r, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// noSurf implements CSRF protection using https://github.com/justinas/nosurf.
//
// The admin API reads the token from GET /api/admin/csrf and sends it back in the X-CSRF-Token header.
func (app *application) noSurf(next http.Handler) http.Handler {
	csrfHandler := nosurf.New(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, contexthelpers.SetCSRFToken(r, nosurf.Token(r)))
	}))
	csrfHandler.SetBaseCookie(http.Cookie{ //nolint:exhaustruct // remaining fields are set by nosurf
		HttpOnly: true,
		Path:     "/",
		Secure:   app.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	csrfHandler.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "csrf check failed",
			errors.SlogError(nosurf.Reason(r)))
		app.errorJSON(w, r, http.StatusForbidden, "invalid csrf token")
	}))

	return csrfHandler
}
