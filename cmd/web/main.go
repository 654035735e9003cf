package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/myrjola/fraudintake/internal/background"
	"github.com/myrjola/fraudintake/internal/casesync"
	"github.com/myrjola/fraudintake/internal/dialogue"
	"github.com/myrjola/fraudintake/internal/envstruct"
	"github.com/myrjola/fraudintake/internal/errors"
	"github.com/myrjola/fraudintake/internal/logging"
	"github.com/myrjola/fraudintake/internal/media"
	"github.com/myrjola/fraudintake/internal/models"
	"github.com/myrjola/fraudintake/internal/pprofserver"
	"github.com/myrjola/fraudintake/internal/repositories"
	"github.com/myrjola/fraudintake/internal/sqlite"
	"golang.org/x/sync/errgroup"
)

type application struct {
	logger         *slog.Logger
	sessionManager *scs.SessionManager
	db             *sqlite.Database
	engine         *dialogue.Engine
	reports        *repositories.ReportRepository
	notes          *repositories.NoteRepository
	admins         *repositories.AdminRepository
	audit          *repositories.AuditRepository
	validate       *validator.Validate
	corsOrigin     string
	secureCookies  bool
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"FRAUDINTAKE_ADDR" envDefault:"localhost:4000"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"FRAUDINTAKE_SQLITE_URL" envDefault:"./fraudintake.sqlite"`
	// PprofAddr serves runtime profiles when set, e.g. [::1]:6060.
	PprofAddr string `env:"FRAUDINTAKE_PPROF_ADDR" envDefault:""`

	ConversationTTL time.Duration `env:"FRAUDINTAKE_CONVERSATION_TTL" envDefault:"24h"`
	SweepInterval   time.Duration `env:"FRAUDINTAKE_SWEEP_INTERVAL"   envDefault:"10m"`

	// MediaDir stores evidence attachments when no S3 bucket is configured.
	MediaDir               string `env:"FRAUDINTAKE_MEDIA_DIR"                  envDefault:"./media"`
	MediaMaxBytes          int    `env:"FRAUDINTAKE_MEDIA_MAX_BYTES"            envDefault:"10485760"`
	MediaS3Bucket          string `env:"FRAUDINTAKE_MEDIA_S3_BUCKET"            envDefault:""`
	MediaS3Region          string `env:"FRAUDINTAKE_MEDIA_S3_REGION"            envDefault:"ap-south-1"`
	MediaS3Endpoint        string `env:"FRAUDINTAKE_MEDIA_S3_ENDPOINT"          envDefault:""`
	MediaS3AccessKeyID     string `env:"FRAUDINTAKE_MEDIA_S3_ACCESS_KEY_ID"     envDefault:""`
	MediaS3SecretAccessKey string `env:"FRAUDINTAKE_MEDIA_S3_SECRET_ACCESS_KEY" envDefault:""`
	TwilioAccountSID       string `env:"FRAUDINTAKE_TWILIO_ACCOUNT_SID"         envDefault:""`
	TwilioAuthToken        string `env:"FRAUDINTAKE_TWILIO_AUTH_TOKEN"          envDefault:""`

	// SyncURL receives case summaries. Empty only logs the sync attempt.
	SyncURL       string `env:"FRAUDINTAKE_SYNC_URL"       envDefault:""`
	CORSOrigin    string `env:"FRAUDINTAKE_CORS_ORIGIN"    envDefault:"*"`
	Helpline      string `env:"FRAUDINTAKE_HELPLINE"       envDefault:"1930"`
	SecureCookies bool   `env:"FRAUDINTAKE_SECURE_COOKIES" envDefault:"true"`

	// AdminUsername and AdminPassword seed the first SUPER_ADMIN account when it doesn't exist yet.
	AdminUsername string `env:"FRAUDINTAKE_ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"FRAUDINTAKE_ADMIN_PASSWORD" envDefault:"admin123"`
}

const backgroundQueueSize = 256

func newStorage(ctx context.Context, cfg config) (media.Storage, error) {
	if cfg.MediaS3Bucket != "" {
		storage, err := media.NewS3Storage(ctx, media.S3Config{
			Bucket:          cfg.MediaS3Bucket,
			Region:          cfg.MediaS3Region,
			Endpoint:        cfg.MediaS3Endpoint,
			AccessKeyID:     cfg.MediaS3AccessKeyID,
			SecretAccessKey: cfg.MediaS3SecretAccessKey,
		})
		if err != nil {
			return nil, errors.Wrap(err, "new s3 storage")
		}
		return storage, nil
	}
	storage, err := media.NewLocalStorage(cfg.MediaDir)
	if err != nil {
		return nil, errors.Wrap(err, "new local storage")
	}
	return storage, nil
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		err     error
		cfg     config
		db      *sqlite.Database
		storage media.Storage
	)
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	if cfg.PprofAddr != "" {
		pprofserver.Launch(ctx, cfg.PprofAddr, logger)
	}

	if db, err = sqlite.NewDatabase(ctx, cfg.SqliteURL, logger); err != nil {
		return errors.Wrap(err, "open database", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "failed to close database", errors.SlogError(closeErr))
		}
	}()

	if storage, err = newStorage(ctx, cfg); err != nil {
		return errors.Wrap(err, "media storage")
	}

	var (
		reports  = repositories.NewReportRepository(db, logger)
		notes    = repositories.NewNoteRepository(db, logger)
		admins   = repositories.NewAdminRepository(db, logger)
		audit    = repositories.NewAuditRepository(db, logger)
		consents = repositories.NewConsentRepository(db, logger)
	)
	if err = admins.EnsureExists(ctx, models.AdminUser{ //nolint:exhaustruct // defaults from the database
		Username: cfg.AdminUsername,
		FullName: "Default Administrator",
		Role:     models.AdminRoleSuperAdmin,
		Active:   true,
	}, cfg.AdminPassword); err != nil {
		return errors.Wrap(err, "seed admin user")
	}

	var (
		dispatcher = background.NewDispatcher(backgroundQueueSize, logger)
		store      = dialogue.NewMemoryStore(logger)
		fetcher    = media.NewFetcher(cfg.TwilioAccountSID, cfg.TwilioAuthToken, int64(cfg.MediaMaxBytes),
			mediaFetchTimeout)
		archiver  = media.NewArchiver(fetcher, storage, mediaBudget, logger)
		notifier  = casesync.NewNotifier(cfg.SyncURL, reports, logger)
		submitter = dialogue.NewSubmitter(reports, audit, notifier, dispatcher, logger)
	)

	sessionStore := sqlite3store.NewWithCleanupInterval(db.ReadWrite.DB, 24*time.Hour) //nolint:mnd // daily
	defer sessionStore.StopCleanup()
	sessionManager := scs.New()
	sessionManager.Store = sessionStore
	sessionManager.Lifetime = 12 * time.Hour //nolint:mnd // one working day
	sessionManager.Cookie.Secure = cfg.SecureCookies
	sessionManager.Cookie.HttpOnly = true

	app := application{
		logger:         logger,
		sessionManager: sessionManager,
		db:             db,
		engine:         dialogue.NewEngine(store, consents, submitter, archiver, cfg.Helpline, logger),
		reports:        reports,
		notes:          notes,
		admins:         admins,
		audit:          audit,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		corsOrigin:     cfg.CORSOrigin,
		secureCookies:  cfg.SecureCookies,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.configureAndStartServer(gctx, cfg.Addr)
	})
	g.Go(func() error {
		return store.RunSweeper(gctx, cfg.SweepInterval, cfg.ConversationTTL)
	})
	g.Go(func() error {
		return dispatcher.Run(gctx)
	})
	g.Go(func() error {
		db.StartDatabaseOptimizer(gctx, time.Hour)
		return nil
	})
	if err = g.Wait(); err != nil {
		return errors.Wrap(err, "run")
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   true,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.LogAttrs(ctx, slog.LevelError, "failure loading .env", errors.SlogError(err))
		stop()
		os.Exit(1)
	}

	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		stop()
		os.Exit(1)
	}
	stop()
}
