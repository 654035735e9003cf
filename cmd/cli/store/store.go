package store

import (
	"context"
	"log/slog"
	"os"

	"github.com/myrjola/fraudintake/internal/errors"
	"github.com/myrjola/fraudintake/internal/logging"
	"github.com/myrjola/fraudintake/internal/sqlite"
	"github.com/spf13/cobra"
)

// FlagDB names the persistent flag holding the database URL.
const FlagDB = "db"

// Open connects to the database given with the --db flag. Logs go to stderr so that command output stays clean.
func Open(ctx context.Context, cmd *cobra.Command) (*sqlite.Database, *slog.Logger, error) {
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelWarn,
		ReplaceAttr: nil,
	})))
	url := cmd.Flag(FlagDB).Value.String()
	db, err := sqlite.NewDatabase(ctx, url, logger)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open database", slog.String("url", url))
	}
	return db, logger, nil
}

// Close closes db and reports a failure on stderr.
func Close(db *sqlite.Database) {
	if err := db.Close(); err != nil {
		_, _ = os.Stderr.WriteString("close database: " + err.Error() + "\n")
	}
}
