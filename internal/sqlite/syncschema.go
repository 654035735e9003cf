package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"

	"github.com/myrjola/fraudintake/internal/errors"
	"github.com/myrjola/fraudintake/internal/random"
)

// migrateTo ensures that the db schema matches the target schema given in schemaDefinition.
//
// We employ a very simple declarative schema migration that:
//
// 1. Deletes deleted tables,
// 2. Creates new tables,
// 3. Migrates changed tables using 12-step schema migration https://www.sqlite.org/lang_altertable.html#otheralter,
// 4. Drops and recreates indexes and triggers that were removed, added, or changed.
//
// Inspired by https://david.rothlis.net/declarative-schema-migration-for-sqlite/
func (db *Database) migrateTo(ctx context.Context, schemaDefinition string) error {
	var (
		err  error
		conn *sql.Conn
	)
	// Pragmas and attached databases are connection-scoped, so the whole migration runs on one connection.
	if conn, err = db.ReadWrite.Conn(ctx); err != nil {
		return errors.Wrap(err, "acquire connection")
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to release connection", errors.SlogError(closeErr))
		}
	}()

	// 12-step schema migration starts here. See https://www.sqlite.org/lang_altertable.html#otheralter.

	// Step 1: Disable foreign key validation temporarily.
	if _, err = conn.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return errors.Wrap(err, "disable foreign key validation")
	}
	// Step 12: Re-enable foreign key validation.
	defer func() {
		if _, fkErr := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); fkErr != nil {
			fkErr = errors.Wrap(fkErr, "re-enable foreign key validation")
			db.logger.LogAttrs(ctx, slog.LevelError, "exit to avoid data corruption", errors.SlogError(fkErr))
			if killErr := syscall.Kill(syscall.Getpid(), syscall.SIGINT); killErr != nil {
				os.Exit(1)
			}
		}
	}()

	// Create schema against a temporary database so that we know what has changed.
	var (
		randomID     string
		dbNameLength uint = 20
	)
	if randomID, err = random.Letters(dbNameLength); err != nil {
		return errors.Wrap(err, "generate random ID")
	}
	schemaTargetDataSourceName := fmt.Sprintf("file:%s?mode=memory&cache=shared", randomID)
	var schemaTargetDatabase *sql.DB
	if schemaTargetDatabase, err = sql.Open("sqlite3", schemaTargetDataSourceName); err != nil {
		return errors.Wrap(err, "open schema target database")
	}
	defer func() {
		if closeErr := schemaTargetDatabase.Close(); closeErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to close schema target database",
				errors.SlogError(errors.Wrap(closeErr, "close schema target database")))
		}
	}()
	// The idle connection keeps the shared in-memory database alive until it has been attached.
	schemaTargetDatabase.SetMaxIdleConns(1)
	if _, err = schemaTargetDatabase.ExecContext(ctx, schemaDefinition); err != nil {
		return errors.Wrap(err, "migrate schema target database")
	}

	// SQLite refuses to attach databases inside a transaction.
	if _, err = conn.ExecContext(ctx, "ATTACH DATABASE ? AS schemaTarget", schemaTargetDataSourceName); err != nil {
		return errors.Wrap(err, "attach schema target database")
	}
	defer func() {
		if _, detachErr := conn.ExecContext(ctx, "DETACH DATABASE schemaTarget"); detachErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to detach schema target database",
				errors.SlogError(detachErr))
		}
	}()

	// Step 2: Start transaction.
	var tx *sql.Tx
	if tx, err = conn.BeginTx(ctx, nil); err != nil {
		return errors.Wrap(err, "start transaction")
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			db.logger.LogAttrs(ctx, slog.LevelError, "failed to rollback transaction",
				errors.SlogError(rollbackErr))
		}
	}()

	// Steps 3-7 migrate tables.
	if err = db.migrateTables(ctx, tx); err != nil {
		return errors.Wrap(err, "migrate tables")
	}

	// Step 8: Recreate indexes and triggers associated with table if needed.
	// Step 9: Recreate views associated with table.
	for _, objectType := range []string{"index", "trigger", "view"} {
		if err = db.migrateObjects(ctx, tx, objectType); err != nil {
			return errors.Wrap(err, "migrate schema objects", slog.String("type", objectType))
		}
	}

	// Step 10: Check foreign key constraints.
	var violations []string
	if violations, err = db.queryStringSlice(ctx, tx, `SELECT "table" FROM pragma_foreign_key_check`); err != nil {
		return errors.Wrap(err, "foreign key check")
	}
	if len(violations) > 0 {
		return errors.New("foreign key violations", slog.Any("tables", violations))
	}

	// Step 11: Commit transaction from step 2.
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	// Step 12 is in defer above.

	return nil
}

// migrateTables ensures table schema is synchronized between databases.
func (db *Database) migrateTables(ctx context.Context, tx *sql.Tx) error {
	// Step 3: Remember schema (also includes trivial creation and deletion of tables).
	var err error

	// Drop deleted tables.
	var deletedTables []string
	if deletedTables, err = db.queryStringSlice(ctx, tx, `SELECT current.name
FROM sqlite_schema AS current
LEFT JOIN schemaTarget.sqlite_schema AS target ON current.name=target.name AND current.type=target.type
WHERE current.type = 'table' AND target.type IS NULL AND current.name NOT LIKE 'sqlite_%';`); err != nil {
		return errors.Wrap(err, "query deleted tables")
	}
	for _, table := range deletedTables {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "dropping table", slog.String("table", table))
		if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE %q;", table)); err != nil {
			return errors.Wrap(err, "drop table", slog.String("table", table))
		}
	}

	// Create new tables.
	var newTableSQLs []string
	if newTableSQLs, err = db.queryStringSlice(ctx, tx, `SELECT target.sql
FROM schemaTarget.sqlite_schema AS target
LEFT JOIN sqlite_schema AS current ON current.name=target.name AND current.type=target.type
WHERE target.type = 'table' AND current.type IS NULL AND target.name NOT LIKE 'sqlite_%';`); err != nil {
		return errors.Wrap(err, "query new table SQLs")
	}
	for _, newTableSQL := range newTableSQLs {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "creating table", slog.String("query", newTableSQL))
		if _, err = tx.ExecContext(ctx, newTableSQL); err != nil {
			return errors.Wrap(err, "create table")
		}
	}

	// Identify tables with changed schema and continue the 12-step schema migration with them.
	var changedTables []changedObject
	if changedTables, err = db.queryChangedObjects(ctx, tx, "table"); err != nil {
		return errors.Wrap(err, "query changed tables")
	}

	for _, table := range changedTables {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "migrating table",
			slog.String("table", table.name),
			slog.String("current_sql", table.currentSQL),
			slog.String("new_sql", table.newSQL))

		// Step 4: Create tables according to new schema on temporary names.
		tempName := table.name + "_migration_temp"
		tempNameSQL := strings.Replace(table.newSQL, table.name, tempName, 1)
		if _, err = tx.ExecContext(ctx, tempNameSQL); err != nil {
			return errors.Wrap(err, "create new table to temporary name", slog.String("query", tempNameSQL))
		}

		// Step 5: Copy common columns between tables.
		var commonColumns []string
		// We wrap the column names in with double quotes to handle column names that are SQLite keywords.
		if commonColumns, err = db.queryStringSlice(ctx, tx, `SELECT '"' || target.name || '"'
FROM PRAGMA_TABLE_INFO(:table_name) AS current
JOIN PRAGMA_TABLE_INFO(:table_name, 'schemaTarget') AS target ON target.name = current.name;`,
			sql.Named("table_name", table.name)); err != nil {
			return errors.Wrap(err, "query common columns")
		}
		common := strings.Join(commonColumns, ", ")
		copySQL := fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s;", //nolint: gosec // we trust the query.
			tempName, common, common, table.name)
		db.logger.LogAttrs(ctx, slog.LevelInfo, "copying data", slog.String("query", copySQL))
		if _, err = tx.ExecContext(ctx, copySQL); err != nil {
			return errors.Wrap(err, "copy data")
		}

		// Step 6: Drop the old table.
		if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE %s;", table.name)); err != nil {
			return errors.Wrap(err, "drop old table")
		}

		// Step 7: Rename new table to old table's name.
		if _, err = tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s RENAME TO %s;", tempName, table.name)); err != nil {
			return errors.Wrap(err, "rename new table")
		}
	}
	return nil
}

// migrateObjects drops removed or changed objects of objectType and creates new or changed ones.
//
// Table migration drops indexes and triggers attached to rebuilt tables, so this has to run after migrateTables.
func (db *Database) migrateObjects(ctx context.Context, tx *sql.Tx, objectType string) error {
	var (
		stale []string
		err   error
	)
	if stale, err = db.queryStringSlice(ctx, tx, `SELECT current.name
FROM sqlite_schema AS current
LEFT JOIN schemaTarget.sqlite_schema AS target ON current.name=target.name AND current.type=target.type
WHERE current.type = :type AND current.sql IS NOT NULL
  AND (target.type IS NULL OR current.sql <> target.sql);`, sql.Named("type", objectType)); err != nil {
		return errors.Wrap(err, "query stale objects")
	}
	for _, name := range stale {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "dropping schema object",
			slog.String("type", objectType), slog.String("name", name))
		if _, err = tx.ExecContext(ctx, fmt.Sprintf("DROP %s %q;", strings.ToUpper(objectType), name)); err != nil {
			return errors.Wrap(err, "drop object", slog.String("name", name))
		}
	}

	var missing []string
	if missing, err = db.queryStringSlice(ctx, tx, `SELECT target.sql
FROM schemaTarget.sqlite_schema AS target
LEFT JOIN sqlite_schema AS current ON current.name=target.name AND current.type=target.type
WHERE target.type = :type AND target.sql IS NOT NULL AND current.type IS NULL;`,
		sql.Named("type", objectType)); err != nil {
		return errors.Wrap(err, "query missing objects")
	}
	for _, objectSQL := range missing {
		db.logger.LogAttrs(ctx, slog.LevelInfo, "creating schema object", slog.String("query", objectSQL))
		if _, err = tx.ExecContext(ctx, objectSQL); err != nil {
			return errors.Wrap(err, "create object", slog.String("query", objectSQL))
		}
	}
	return nil
}

// queryStringSlice returns a slice of strings from a query and its args.
//
// It is used to query a single column from a table.
func (db *Database) queryStringSlice(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]string, error) {
	var (
		results []string
		rows    *sql.Rows
		err     error
	)
	if rows, err = tx.QueryContext(ctx, query, args...); err != nil {
		return nil, errors.Wrap(err, "query")
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			db.logger.Error("could not close rows", errors.SlogError(errors.Wrap(closeErr, "close rows")))
		}
	}()
	for rows.Next() {
		var result string
		if err = rows.Scan(&result); err != nil {
			return nil, errors.Wrap(err, "scan row")
		}
		results = append(results, result)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows error")
	}
	return results, nil
}

type changedObject struct {
	name       string
	currentSQL string
	newSQL     string
}

// queryChangedObjects returns the objects of objectType whose definition differs between the current schema and
// the target schema.
func (db *Database) queryChangedObjects(ctx context.Context, tx *sql.Tx, objectType string) ([]changedObject, error) {
	var (
		changed []changedObject
		rows    *sql.Rows
		err     error
	)
	if rows, err = tx.QueryContext(ctx, `SELECT current.name, current.sql, target.sql
FROM sqlite_schema AS current
JOIN schemaTarget.sqlite_schema AS target ON current.name=target.name AND current.type=target.type
WHERE current.type = :type AND current.name NOT LIKE 'sqlite_%' AND current.sql <> target.sql;`,
		sql.Named("type", objectType)); err != nil {
		return nil, errors.Wrap(err, "query")
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			db.logger.Error("could not close rows", errors.SlogError(errors.Wrap(closeErr, "close rows")))
		}
	}()
	for rows.Next() {
		var result changedObject
		if err = rows.Scan(&result.name, &result.currentSQL, &result.newSQL); err != nil {
			return nil, errors.Wrap(err, "scan row")
		}
		changed = append(changed, result)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows error")
	}
	return changed, nil
}
