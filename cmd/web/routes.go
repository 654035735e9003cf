package main

import (
	"net/http"

	"github.com/justinas/alice"
	"github.com/myrjola/fraudintake/internal/models"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", app.home)
	mux.HandleFunc("GET /api/healthy", app.healthy)
	mux.HandleFunc("GET /health", app.health)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /whatsapp", app.whatsapp)

	session := alice.New(app.cors, app.sessionManager.LoadAndSave, app.noSurf, app.authenticate)
	authenticated := session.Append(app.requireAuthentication)
	caseworker := authenticated.Append(app.requireRole(
		models.AdminRoleAnalyst, models.AdminRoleAdmin, models.AdminRoleSuperAdmin))

	mux.Handle("OPTIONS /api/admin/", app.cors(http.HandlerFunc(noContent)))
	mux.Handle("GET /api/admin/csrf", session.ThenFunc(app.csrfToken))
	mux.Handle("POST /api/admin/login", session.ThenFunc(app.login))
	mux.Handle("POST /api/admin/logout", authenticated.ThenFunc(app.logout))
	mux.Handle("GET /api/admin/me", authenticated.ThenFunc(app.me))
	mux.Handle("GET /api/admin/reports", authenticated.ThenFunc(app.listReports))
	mux.Handle("GET /api/admin/reports/export", authenticated.ThenFunc(app.exportReports))
	mux.Handle("GET /api/admin/reports/{id}", authenticated.ThenFunc(app.getReport))
	mux.Handle("PUT /api/admin/reports/{id}/status", caseworker.ThenFunc(app.updateReportStatus))
	mux.Handle("POST /api/admin/reports/{id}/notes", authenticated.ThenFunc(app.addNote))
	mux.Handle("GET /api/admin/analytics/overview", authenticated.ThenFunc(app.analyticsOverview))

	common := alice.New(app.recoverPanic, app.logRequest, secureHeaders)
	return common.Then(timeoutHandler(app.measure(mux), defaultTimeout))
}
