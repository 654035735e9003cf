// Package media downloads evidence attachments from the messaging provider and archives them.
package media

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/myrjola/fraudintake/internal/errors"
)

var ErrTooLarge = errors.NewSentinel("media too large")

// Ref points to an attachment on the messaging provider's media endpoint.
type Ref struct {
	URL         string
	ContentType string
}

// Fetcher downloads attachments over HTTP.
type Fetcher struct {
	client   *resty.Client
	maxBytes int64
}

// NewFetcher creates a Fetcher rejecting bodies above maxBytes. When accountSID and authToken are both set they are
// sent as basic auth, which the messaging provider requires for media URLs.
func NewFetcher(accountSID, authToken string, maxBytes int64, timeout time.Duration) *Fetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", "fraudintake-media-fetcher")
	if accountSID != "" && authToken != "" {
		client.SetBasicAuth(accountSID, authToken)
	}
	return &Fetcher{
		client:   client,
		maxBytes: maxBytes,
	}
}

// Fetch returns the body at url. Bodies above the size limit are rejected without reading them past the limit.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var (
		err  error
		resp *resty.Response
		data []byte
	)
	if resp, err = f.client.R().SetContext(ctx).SetDoNotParseResponse(true).Get(url); err != nil {
		return nil, errors.Wrap(err, "get media", slog.String("url", url))
	}
	body := resp.RawBody()
	defer func() {
		_ = body.Close()
	}()
	if resp.StatusCode() != http.StatusOK {
		return nil, errors.New("unexpected media status",
			slog.String("url", url), slog.Int("status", resp.StatusCode()))
	}

	var reader io.Reader = body
	if f.maxBytes > 0 {
		if length := resp.RawResponse.ContentLength; length > f.maxBytes {
			return nil, errors.Wrap(ErrTooLarge, "check declared media size",
				slog.String("url", url), slog.Int64("size", length), slog.Int64("max", f.maxBytes))
		}
		reader = io.LimitReader(body, f.maxBytes+1)
	}
	if data, err = io.ReadAll(reader); err != nil {
		return nil, errors.Wrap(err, "read media", slog.String("url", url))
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, errors.Wrap(ErrTooLarge, "check media size",
			slog.String("url", url), slog.Int64("max", f.maxBytes))
	}
	return data, nil
}
