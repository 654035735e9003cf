package main

import (
	"context"
	"io"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/myrjola/fraudintake/internal/e2etest"
	"github.com/myrjola/fraudintake/internal/models"
	"github.com/myrjola/fraudintake/internal/repositories"
	"github.com/myrjola/fraudintake/internal/sqlite"
	"github.com/myrjola/fraudintake/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

const (
	testAdminUsername = "admin"
	testAdminPassword = "correct horse battery staple"
)

type testEnv struct {
	server *e2etest.Server
	dbURL  string
}

// startTestServer runs the application against a fresh database file so that tests can also reach the database
// directly.
func startTestServer(t *testing.T, extraEnv map[string]string) testEnv {
	t.Helper()
	dir := t.TempDir()
	env := map[string]string{
		"FRAUDINTAKE_ADDR":           "localhost:0",
		"FRAUDINTAKE_SQLITE_URL":     filepath.Join(dir, "fraudintake.sqlite"),
		"FRAUDINTAKE_MEDIA_DIR":      filepath.Join(dir, "media"),
		"FRAUDINTAKE_ADMIN_USERNAME": testAdminUsername,
		"FRAUDINTAKE_ADMIN_PASSWORD": testAdminPassword,
		"FRAUDINTAKE_CORS_ORIGIN":    "http://dashboard.test",
	}
	for k, v := range extraEnv {
		env[k] = v
	}
	lookupEnv := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	server, err := e2etest.StartServer(ctx, io.Discard, lookupEnv, run)
	require.NoError(t, err)
	return testEnv{server: server, dbURL: env["FRAUDINTAKE_SQLITE_URL"]}
}

// createAdmin adds an admin user straight to the database of the running server.
func (e testEnv) createAdmin(t *testing.T, username, password string, role models.AdminRole) {
	t.Helper()
	ctx := context.Background()
	logger := testhelpers.NewLogger(io.Discard)
	db, err := sqlite.NewDatabase(ctx, e.dbURL, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	_, err = repositories.NewAdminRepository(db, logger).Create(ctx, models.AdminUser{ //nolint:exhaustruct // defaults
		Username: username,
		FullName: username,
		Role:     role,
		Active:   true,
	}, password)
	require.NoError(t, err)
}

var referencePattern = regexp.MustCompile(`I4C-\d{14}-[0-9A-Z]{6}`)

// fileReport walks a whole conversation for from and returns the reference id from the confirmation.
func fileReport(ctx context.Context, t *testing.T, client *e2etest.Client, from, description string) string {
	t.Helper()
	for _, body := range []string{"hi", "1", "1", "5", "2", "Maharashtra", "pune", description,
		"paid scammer@okaxis", "₹2,500", "screenshot of the request"} {
		_, err := client.SendWhatsApp(ctx, from, body)
		require.NoError(t, err, "send %q", body)
	}
	reply, err := client.SendWhatsApp(ctx, from, "2")
	require.NoError(t, err)
	ref := referencePattern.FindString(reply)
	require.NotEmpty(t, ref, reply)
	return ref
}
