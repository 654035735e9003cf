package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/myrjola/fraudintake/internal/catalog"
	"github.com/myrjola/fraudintake/internal/e2etest"
	"github.com/myrjola/fraudintake/internal/errors"
	"github.com/myrjola/fraudintake/internal/logging"
)

// smokePhone never files a report because the conversation stops at the language menu.
const smokePhone = "whatsapp:+910000000000"

func TestHealth(ctx context.Context, client *e2etest.Client) error {
	resp, err := client.Get(ctx, "/health")
	if err != nil {
		return errors.Wrap(err, "get health")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return errors.New("unhealthy", slog.Int("status", resp.StatusCode))
	}
	return nil
}

func TestWelcome(ctx context.Context, client *e2etest.Client) error {
	reply, err := client.SendWhatsApp(ctx, smokePhone, "hi")
	if err != nil {
		return errors.Wrap(err, "send greeting")
	}
	if reply != catalog.Render(catalog.English, catalog.KeyWelcome, nil) {
		return errors.New("unexpected welcome", slog.String("reply", strings.SplitN(reply, "\n", 2)[0])) //nolint:mnd // first line
	}
	return nil
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		url      = "https://" + hostname
		client   *e2etest.Client
		err      error
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	if client, err = e2etest.NewClient(url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1)
	}
	if err = client.WaitForReady(ctx, "/api/healthy"); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestHealth(ctx, client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing health", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestWelcome(ctx, client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing whatsapp webhook", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	cancel()
	os.Exit(0)
}
