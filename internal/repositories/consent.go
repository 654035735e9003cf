package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/myrjola/fraudintake/internal/errors"
	"github.com/myrjola/fraudintake/internal/models"
	"github.com/myrjola/fraudintake/internal/sqlite"
)

type ConsentRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewConsentRepository(dbs *sqlite.Database, logger *slog.Logger) *ConsentRepository {
	return &ConsentRepository{
		dbs:    dbs,
		logger: logger.With("source", "ConsentRepository"),
	}
}

// Insert records that phone gave consent of the given type at the given time.
func (r *ConsentRepository) Insert(ctx context.Context, phone string, consentType models.ConsentType, at time.Time) error {
	if _, err := r.dbs.ReadWrite.ExecContext(ctx,
		`INSERT INTO user_consents (phone, consent_type, consent_given, consent_date) VALUES (?, ?, 1, ?)`,
		phone, consentType, formatTime(at),
	); err != nil {
		return errors.Wrap(err, "insert consent", slog.String("type", string(consentType)))
	}
	return nil
}

// Count returns how many consent records exist for phone.
func (r *ConsentRepository) Count(ctx context.Context, phone string) (int, error) {
	var n int
	if err := r.dbs.ReadOnly.GetContext(ctx, &n, `SELECT COUNT(*) FROM user_consents WHERE phone = ?`, phone); err != nil {
		return 0, errors.Wrap(err, "count consents")
	}
	return n, nil
}
