package repositories

import (
	"github.com/mattn/go-sqlite3"
	"github.com/myrjola/fraudintake/internal/errors"
)

var (
	ErrNotFound           = errors.NewSentinel("not found")
	ErrInvalidCredentials = errors.NewSentinel("invalid credentials")
	ErrDuplicateReference = errors.NewSentinel("duplicate reference id")
	ErrDuplicateUsername  = errors.NewSentinel("duplicate username")
)

func isConstraintError(err error, code sqlite3.ErrNoExtended) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == code
}
