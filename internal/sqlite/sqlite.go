package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/myrjola/fraudintake/internal/errors"
	"github.com/myrjola/fraudintake/internal/random"

	_ "embed"
	_ "github.com/mattn/go-sqlite3" // Enable sqlite3 driver
)

//go:embed schema.sql
var schemaDefinition string

// TimeLayout is how DATETIME columns are written. The driver parses it back into [time.Time] in UTC.
const TimeLayout = "2006-01-02 15:04:05"

type Database struct {
	ReadWrite *sqlx.DB
	ReadOnly  *sqlx.DB
	logger    *slog.Logger
}

// NewDatabase connects to database and synchronizes the schema.
//
// The url parameter is the path to the SQLite database file or ":memory:" for an in-memory database.
func NewDatabase(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	var (
		err error
		db  *Database
	)

	if db, err = connect(url, logger); err != nil {
		return nil, errors.Wrap(err, "connect")
	}

	if err = db.migrateTo(ctx, schemaDefinition); err != nil {
		return nil, errors.Wrap(err, "synchronize schema")
	}

	return db, nil
}

// connect establishes two database connection pools, one for read/write operations and one for read-only
// operations. This is a best practice mentioned in https://github.com/mattn/go-sqlite3/issues/1179#issuecomment-1638083995
func connect(url string, logger *slog.Logger) (*Database, error) {
	var (
		err         error
		readWriteDB *sqlx.DB
		readDB      *sqlx.DB
	)

	commonConfig := strings.Join([]string{
		// Write-ahead logging enables higher performance and concurrent readers.
		"_journal_mode=wal",
		// Avoids SQLITE_BUSY errors when database is under load.
		"_busy_timeout=5000",
		// Increases performance at the cost of durability https://www.sqlite.org/pragma.html#pragma_synchronous.
		"_synchronous=normal",
		// Enables foreign key constraints.
		"_foreign_keys=on",
		// Performance enhancement by storing temporary tables indices in memory instead of files.
		"_temp_store=memory",
	}, "&")

	// For parallel tests, we need to use a different database for each test to avoid sharing data.
	// See https://www.sqlite.org/inmemorydb.html.
	if strings.Contains(url, ":memory:") {
		var (
			randomID     string
			dbNameLength uint = 20
		)
		if randomID, err = random.Letters(dbNameLength); err != nil {
			return nil, errors.Wrap(err, "generate random ID")
		}
		dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_txlock=immediate&%s", randomID, commonConfig)
		if readWriteDB, err = sqlx.Open("sqlite3", dsn); err != nil {
			return nil, errors.Wrap(err, "open in-memory database")
		}
		// Shared-cache connections fail with SQLITE_LOCKED instead of honouring busy_timeout, so the in-memory
		// database is served from a single connection. Closing the last connection also discards the data.
		readWriteDB.SetMaxOpenConns(1)
		readWriteDB.SetMaxIdleConns(1)
		readWriteDB.SetConnMaxLifetime(0)
		readWriteDB.SetConnMaxIdleTime(0)
		return &Database{
			ReadWrite: readWriteDB,
			ReadOnly:  readWriteDB,
			logger:    logger,
		}, nil
	}

	// The options prefixed with underscore '_' are SQLite pragmas documented at https://www.sqlite.org/pragma.html.
	// The options without leading underscore are SQLite URI parameters documented at https://www.sqlite.org/uri.html.
	readConfig := fmt.Sprintf("file:%s?mode=ro&_txlock=deferred&_query_only=true&%s", url, commonConfig)
	readWriteConfig := fmt.Sprintf("file:%s?mode=rwc&_txlock=immediate&%s", url, commonConfig)

	if readWriteDB, err = sqlx.Open("sqlite3", readWriteConfig); err != nil {
		return nil, errors.Wrap(err, "open read-write database")
	}

	readWriteDB.SetMaxOpenConns(1)
	readWriteDB.SetMaxIdleConns(1)
	readWriteDB.SetConnMaxLifetime(time.Hour)
	readWriteDB.SetConnMaxIdleTime(time.Hour)

	if readDB, err = sqlx.Open("sqlite3", readConfig); err != nil {
		return nil, errors.Wrap(err, "open read database")
	}

	maxReadConns := 10
	readDB.SetMaxOpenConns(maxReadConns)
	readDB.SetMaxIdleConns(maxReadConns)
	readDB.SetConnMaxLifetime(time.Hour)
	readDB.SetConnMaxIdleTime(time.Hour)

	return &Database{
		ReadWrite: readWriteDB,
		ReadOnly:  readDB,
		logger:    logger,
	}, nil
}

// Ping verifies both connection pools are usable.
func (db *Database) Ping(ctx context.Context) error {
	if err := db.ReadWrite.PingContext(ctx); err != nil {
		return errors.Wrap(err, "ping read-write database")
	}
	if err := db.ReadOnly.PingContext(ctx); err != nil {
		return errors.Wrap(err, "ping read database")
	}
	return nil
}

// Close closes the connection pools.
func (db *Database) Close() error {
	var errs []error
	if err := db.ReadWrite.Close(); err != nil {
		errs = append(errs, errors.Wrap(err, "close read-write database"))
	}
	if db.ReadOnly != db.ReadWrite {
		if err := db.ReadOnly.Close(); err != nil {
			errs = append(errs, errors.Wrap(err, "close read database"))
		}
	}
	return errors.Join(errs...)
}
