package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/myrjola/fraudintake/internal/errors"
)

const maxJSONBodyBytes = 1 << 20

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))
	if wantsJSON(r) {
		app.writeJSON(w, r, http.StatusInternalServerError,
			map[string]string{"error": http.StatusText(http.StatusInternalServerError)})
		return
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelDebug, http.StatusText(status),
		slog.String("method", method), slog.String("uri", uri))
	http.Error(w, http.StatusText(status), status)
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.errorJSON(w, r, http.StatusNotFound, "not found")
}

func wantsJSON(r *http.Request) bool {
	return r.Header.Get("Content-Type") == "application/json" || r.Header.Get("Accept") == "application/json"
}

// errorJSON responds with {"error": message}.
func (app *application) errorJSON(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.logger.LogAttrs(r.Context(), slog.LevelDebug, message, slog.Int("status", status),
		slog.String("method", r.Method), slog.String("uri", r.URL.RequestURI()))
	app.writeJSON(w, r, status, map[string]string{"error": message})
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		err = errors.Wrap(err, "marshal json")
		app.logger.LogAttrs(r.Context(), slog.LevelError, "failed to write json", errors.SlogError(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// readJSON decodes the request body into dst and validates it with the struct's validate tags.
func (app *application) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(err, "decode json body")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must contain a single json value")
	}
	if err := app.validate.Struct(dst); err != nil {
		return errors.Wrap(err, "validate json body")
	}
	return nil
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
