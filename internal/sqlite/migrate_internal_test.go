package sqlite

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/myrjola/fraudintake/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func TestDatabase_migrate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name              string
		schemaDefinitions []string
		testQueries       []string
		wantErr           bool
	}{
		{
			name:              "empty schema",
			schemaDefinitions: []string{""},
			testQueries:       []string{"SELECT * FROM sqlite_schema"},
			wantErr:           false,
		},
		{
			name:              "create table",
			schemaDefinitions: []string{"CREATE TABLE evidence (id INTEGER PRIMARY KEY, name TEXT)"},
			testQueries: []string{
				"INSERT INTO evidence (name) VALUES ('upi_receipt.png')",
				"SELECT * FROM evidence",
			},
			wantErr: false,
		},
		{
			name: "drop table",
			schemaDefinitions: []string{
				"CREATE TABLE evidence (id INTEGER PRIMARY KEY, name TEXT)",
				"", // drop table
			},
			testQueries: []string{"INSERT INTO evidence (name) VALUES ('upi_receipt.png')"},
			wantErr:     true,
		},
		{
			name: "add column",
			schemaDefinitions: []string{
				"CREATE TABLE evidence (id INTEGER PRIMARY KEY)",
				"CREATE TABLE evidence (id INTEGER PRIMARY KEY, name TEXT)",
			},
			testQueries: []string{"INSERT INTO evidence (name) VALUES ('upi_receipt.png')"},
			wantErr:     false,
		},
		{
			name: "remove column",
			schemaDefinitions: []string{
				"CREATE TABLE evidence (id INTEGER PRIMARY KEY)",
				"CREATE TABLE evidence (id INTEGER PRIMARY KEY, name TEXT)",
				"CREATE TABLE evidence (id INTEGER PRIMARY KEY)",
			},
			testQueries: []string{"INSERT INTO evidence (name) VALUES ('upi_receipt.png')"},
			wantErr:     true,
		},
		{
			name: "create index",
			schemaDefinitions: []string{
				"CREATE TABLE evidence (id INTEGER PRIMARY KEY, name TEXT); CREATE INDEX evidence_name_idx ON evidence (name)",
			},
			testQueries: []string{"DROP INDEX evidence_name_idx"},
			wantErr:     false,
		},
		{
			name: "drop index",
			schemaDefinitions: []string{
				"CREATE TABLE evidence (id INTEGER PRIMARY KEY, name TEXT); CREATE INDEX evidence_name_idx ON evidence (name)",
				"CREATE TABLE evidence (id INTEGER PRIMARY KEY, name TEXT)",
			},
			testQueries: []string{"DROP INDEX evidence_name_idx"},
			wantErr:     true,
		},
		{
			name: "update index",
			schemaDefinitions: []string{
				"CREATE TABLE evidence (id INTEGER PRIMARY KEY, name TEXT); CREATE INDEX evidence_name_idx ON evidence (name)",
				"CREATE TABLE evidence (id INTEGER PRIMARY KEY, name TEXT); CREATE INDEX evidence_name_idx ON evidence (id, name)",
			},
			testQueries: []string{"DROP INDEX evidence_name_idx"},
			wantErr:     false,
		},
		{
			name: "create trigger",
			schemaDefinitions: []string{
				`CREATE TABLE evidence ( id   INTEGER PRIMARY KEY, name TEXT );
                 CREATE TRIGGER evidence_audit AFTER INSERT ON evidence BEGIN SELECT RAISE ( FAIL, 'evidence is append only' ); END;`,
			},
			testQueries: []string{"INSERT INTO evidence (name) VALUES ('upi_receipt.png')"},
			wantErr:     true,
		},
		{
			name: "delete trigger",
			schemaDefinitions: []string{
				`CREATE TABLE evidence ( id   INTEGER PRIMARY KEY, name TEXT );
                 CREATE TRIGGER evidence_audit AFTER INSERT ON evidence BEGIN SELECT RAISE ( FAIL, 'evidence is append only' ); END;`,
				"CREATE TABLE evidence ( id   INTEGER PRIMARY KEY, name TEXT )",
			},
			testQueries: []string{"INSERT INTO evidence (name) VALUES ('upi_receipt.png')"},
			wantErr:     false,
		},
		{
			name: "add check constraint",
			schemaDefinitions: []string{
				"CREATE TABLE evidence (id INTEGER PRIMARY KEY, status TEXT NOT NULL DEFAULT 'NEW')",
				"CREATE TABLE evidence (id INTEGER PRIMARY KEY, status TEXT NOT NULL DEFAULT 'NEW' CHECK (status IN ('NEW')))",
			},
			testQueries: []string{"INSERT INTO evidence (status) VALUES ('BOGUS')"},
			wantErr:     true,
		},
		{
			name:              "application schema is stable",
			schemaDefinitions: []string{schemaDefinition, schemaDefinition},
			testQueries:       []string{"SELECT COUNT(*) FROM cyber_reports"},
			wantErr:           false,
		},
		{
			name: "update trigger",
			schemaDefinitions: []string{
				`CREATE TABLE evidence ( id   INTEGER PRIMARY KEY, name TEXT );
                 CREATE TRIGGER evidence_audit AFTER INSERT ON evidence BEGIN SELECT RAISE ( FAIL, 'evidence is append only' ); END;`,
				`CREATE TABLE evidence ( id   INTEGER PRIMARY KEY, name TEXT );
                 CREATE TRIGGER evidence_audit AFTER INSERT ON evidence BEGIN SELECT 1; END;`,
			},
			testQueries: []string{"INSERT INTO evidence (name) VALUES ('upi_receipt.png')"},
			wantErr:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			logger := testhelpers.NewLogger(io.Discard)
			db, err := connect(":memory:", logger)
			require.NoError(t, err)
			t.Cleanup(func() { require.NoError(t, db.Close()) })
			for _, schemaDefinition := range tt.schemaDefinitions {
				logger.LogAttrs(ctx, slog.LevelInfo, "migrating", slog.String("schema", schemaDefinition))
				err = db.migrateTo(ctx, schemaDefinition)
				require.NoError(t, err)
			}
			for _, query := range tt.testQueries {
				logger.LogAttrs(ctx, slog.LevelInfo, "executing", slog.String("query", query))
				_, err = db.ReadWrite.ExecContext(ctx, query)
				if tt.wantErr {
					require.Error(t, err)
				} else {
					require.NoError(t, err)
				}
			}
		})
	}
}

func TestDatabase_migrateKeepsRows(t *testing.T) {
	ctx := context.Background()
	db, err := connect(":memory:", testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })

	require.NoError(t, db.migrateTo(ctx, "CREATE TABLE notes (id INTEGER PRIMARY KEY, note TEXT NOT NULL)"))
	_, err = db.ReadWrite.ExecContext(ctx, "INSERT INTO notes (note) VALUES ('first'), ('second')")
	require.NoError(t, err)

	require.NoError(t, db.migrateTo(ctx,
		"CREATE TABLE notes (id INTEGER PRIMARY KEY, note TEXT NOT NULL, note_type TEXT NOT NULL DEFAULT 'COMMENT')"))

	var noteTypes []string
	require.NoError(t, db.ReadOnly.SelectContext(ctx, &noteTypes, "SELECT note_type FROM notes ORDER BY id"))
	require.Equal(t, []string{"COMMENT", "COMMENT"}, noteTypes)
}
