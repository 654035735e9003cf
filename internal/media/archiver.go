package media

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/myrjola/fraudintake/internal/errors"
	"github.com/myrjola/fraudintake/internal/metrics"
)

// Downloader fetches the bytes behind an attachment URL.
type Downloader interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Archiver copies attachments into Storage.
type Archiver struct {
	downloader Downloader
	storage    Storage
	budget     time.Duration
	logger     *slog.Logger
}

// NewArchiver creates an Archiver. One Archive call may take at most budget in total; zero means no limit.
func NewArchiver(downloader Downloader, storage Storage, budget time.Duration, logger *slog.Logger) *Archiver {
	return &Archiver{
		downloader: downloader,
		storage:    storage,
		budget:     budget,
		logger:     logger.With("source", "Archiver"),
	}
}

// Archive stores each attachment under evidence/<sha256><ext> and returns the storage locations in input order.
// Attachments that cannot be fetched or stored are logged and left out.
func (a *Archiver) Archive(ctx context.Context, refs []Ref) []string {
	if a.budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.budget)
		defer cancel()
	}
	locations := make([]string, 0, len(refs))
	for _, ref := range refs {
		location, err := a.archive(ctx, ref)
		if err != nil {
			metrics.MediaFetches.WithLabelValues("failed").Inc()
			a.logger.LogAttrs(ctx, slog.LevelWarn, "skipping attachment", errors.SlogError(err))
			continue
		}
		metrics.MediaFetches.WithLabelValues("stored").Inc()
		locations = append(locations, location)
	}
	return locations
}

func (a *Archiver) archive(ctx context.Context, ref Ref) (string, error) {
	var (
		err      error
		data     []byte
		location string
	)
	if data, err = a.downloader.Fetch(ctx, ref.URL); err != nil {
		return "", errors.Wrap(err, "fetch attachment")
	}
	detected := mimetype.Detect(data)
	contentType := detected.String()
	if detected.Is("application/octet-stream") && ref.ContentType != "" {
		contentType = ref.ContentType
	}
	sum := sha256.Sum256(data)
	key := "evidence/" + hex.EncodeToString(sum[:]) + detected.Extension()
	if location, err = a.storage.Put(ctx, key, data, contentType); err != nil {
		return "", errors.Wrap(err, "store attachment", slog.String("key", key))
	}
	a.logger.LogAttrs(ctx, slog.LevelInfo, "archived attachment",
		slog.String("location", location), slog.String("content_type", contentType), slog.Int("size", len(data)))
	return location, nil
}
