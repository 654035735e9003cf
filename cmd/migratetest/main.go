package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/myrjola/fraudintake/internal/errors"
	"github.com/myrjola/fraudintake/internal/sqlite"
	"github.com/myrjola/fraudintake/internal/testhelpers"
)

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	var (
		err       error
		start     = time.Now()
		ctx       context.Context
		sqliteURL string
		ok        bool
		cancel    context.CancelFunc
	)
	ctx = context.Background()
	ctx, cancel = context.WithTimeout(ctx, 5*time.Second) //nolint:mnd // 5 seconds

	if sqliteURL, ok = os.LookupEnv("FRAUDINTAKE_SQLITE_URL"); !ok {
		logger.LogAttrs(ctx, slog.LevelError, "FRAUDINTAKE_SQLITE_URL not set")
		os.Exit(1)
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, sqliteURL, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating database",
			slog.String("url", sqliteURL), errors.SlogError(err))
		os.Exit(1)
	}

	// A production copy always has the seeded administrator, so an empty table means the migration lost data.
	var admins, reports int
	if err = db.ReadOnly.GetContext(ctx, &admins, `SELECT COUNT(*) FROM admin_users`); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error fetching admin count", errors.SlogError(err))
		os.Exit(1)
	}
	if admins == 0 {
		logger.LogAttrs(ctx, slog.LevelError, "no admin users found, something is likely wrong")
		os.Exit(1)
	}
	if err = db.ReadOnly.GetContext(ctx, &reports, `SELECT COUNT(*) FROM cyber_reports`); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error fetching report count", errors.SlogError(err))
		os.Exit(1)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "row counts", slog.Int("admins", admins), slog.Int("reports", reports))

	logger.LogAttrs(ctx, slog.LevelInfo, "Migration test successful 🙌", slog.Duration("duration", time.Since(start)))
	cancel()
	os.Exit(0)
}
