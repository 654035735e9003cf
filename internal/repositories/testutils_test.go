package repositories_test

import (
	"context"
	_ "embed"
	"io"
	"testing"

	"github.com/myrjola/fraudintake/internal/sqlite"
	"github.com/myrjola/fraudintake/internal/testhelpers"
)

//go:embed testdata/fixtures.sql
var testFixtures string

// newTestDB creates a new in-memory database with the fixtures loaded.
func newTestDB(t *testing.T) *sqlite.Database {
	t.Helper()
	var (
		dbs *sqlite.Database
		err error
		ctx = context.Background()
	)

	if dbs, err = sqlite.NewDatabase(ctx, ":memory:", testhelpers.NewLogger(io.Discard)); err != nil {
		t.Fatal(err)
	}

	if _, err = dbs.ReadWrite.ExecContext(ctx, testFixtures); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		if err = dbs.Close(); err != nil {
			t.Fatal(err)
		}
	})

	return dbs
}
