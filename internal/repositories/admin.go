package repositories

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/myrjola/fraudintake/internal/errors"
	"github.com/myrjola/fraudintake/internal/models"
	"github.com/myrjola/fraudintake/internal/sqlite"
	"golang.org/x/crypto/bcrypt"
)

const adminColumns = `id, username, password_hash, full_name, email, role, is_active, created_at, last_login`

type AdminRepository struct {
	dbs    *sqlite.Database
	logger *slog.Logger
}

func NewAdminRepository(dbs *sqlite.Database, logger *slog.Logger) *AdminRepository {
	return &AdminRepository{
		dbs:    dbs,
		logger: logger.With("source", "AdminRepository"),
	}
}

// Create stores a new admin user with a bcrypt hash of password.
func (r *AdminRepository) Create(ctx context.Context, user models.AdminUser, password string) (int64, error) {
	var (
		err  error
		hash []byte
		res  sql.Result
		id   int64
	)
	if hash, err = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost); err != nil {
		return 0, errors.Wrap(err, "hash password")
	}
	if user.Role == "" {
		user.Role = models.AdminRoleViewer
	}
	stmt := `INSERT INTO admin_users (username, password_hash, full_name, email, role, is_active, created_at)
VALUES (?, ?, ?, ?, ?, 1, ?)`
	if res, err = r.dbs.ReadWrite.ExecContext(ctx, stmt,
		user.Username, string(hash), user.FullName, user.Email, user.Role, formatTime(time.Now()),
	); err != nil {
		if isConstraintError(err, sqlite3.ErrConstraintUnique) {
			return 0, errors.Wrap(ErrDuplicateUsername, "insert admin user", slog.String("username", user.Username))
		}
		return 0, errors.Wrap(err, "insert admin user", slog.String("username", user.Username))
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, errors.Wrap(err, "last insert id")
	}
	return id, nil
}

// EnsureExists creates the admin user unless one with the same username is already present.
func (r *AdminRepository) EnsureExists(ctx context.Context, user models.AdminUser, password string) error {
	var exists bool
	if err := r.dbs.ReadOnly.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM admin_users WHERE username = ?)`, user.Username); err != nil {
		return errors.Wrap(err, "check admin user exists")
	}
	if exists {
		return nil
	}
	if _, err := r.Create(ctx, user, password); err != nil && !errors.Is(err, ErrDuplicateUsername) {
		return errors.Wrap(err, "create admin user")
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "created admin user", slog.String("username", user.Username))
	return nil
}

// Get returns the admin user with given id or ErrNotFound.
func (r *AdminRepository) Get(ctx context.Context, id int64) (models.AdminUser, error) {
	var user models.AdminUser
	if err := r.dbs.ReadOnly.GetContext(ctx, &user,
		`SELECT `+adminColumns+` FROM admin_users WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user, errors.Wrap(ErrNotFound, "get admin user", slog.Int64("id", id))
		}
		return user, errors.Wrap(err, "get admin user", slog.Int64("id", id))
	}
	return user, nil
}

// Authenticate verifies the credentials of an active admin user and records the login time.
//
// ErrInvalidCredentials is returned for unknown users, inactive users and wrong passwords alike.
func (r *AdminRepository) Authenticate(ctx context.Context, username, password string) (models.AdminUser, error) {
	var (
		err  error
		user models.AdminUser
	)
	if err = r.dbs.ReadOnly.GetContext(ctx, &user,
		`SELECT `+adminColumns+` FROM admin_users WHERE username = ? AND is_active = 1`, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.AdminUser{}, errors.Wrap(ErrInvalidCredentials, "unknown user", slog.String("username", username))
		}
		return models.AdminUser{}, errors.Wrap(err, "get admin user", slog.String("username", username))
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.AdminUser{}, errors.Wrap(ErrInvalidCredentials, "compare password", slog.String("username", username))
	}
	now := time.Now().UTC().Truncate(time.Second)
	if _, err = r.dbs.ReadWrite.ExecContext(ctx,
		`UPDATE admin_users SET last_login = ? WHERE id = ?`, formatTime(now), user.ID); err != nil {
		return models.AdminUser{}, errors.Wrap(err, "update last login", slog.Int64("id", user.ID))
	}
	user.LastLogin = &now
	return user, nil
}
