package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/myrjola/fraudintake/internal/errors"
)

// healthy responds with a JSON object indicating that the server is healthy.
func (app *application) healthy(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// health also checks the database connection.
func (app *application) health(w http.ResponseWriter, r *http.Request) {
	var (
		status   = http.StatusOK
		response = map[string]string{
			"status":    "healthy",
			"database":  "connected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
	)
	if err := app.db.Ping(r.Context()); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "health check failed", errors.SlogError(err))
		status = http.StatusServiceUnavailable
		response["status"] = "unhealthy"
		response["database"] = "disconnected"
	}
	app.writeJSON(w, r, status, response)
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, r, http.StatusOK, map[string]any{
		"service":   "Cyber Fraud Reporting Bot",
		"status":    "running",
		"endpoints": []string{"/whatsapp", "/health", "/api/admin/login"},
	})
}
