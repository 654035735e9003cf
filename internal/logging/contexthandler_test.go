package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/myrjola/fraudintake/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestContextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(&buf, nil))).
		With("source", "Engine")

	ctx := logging.WithAttrs(context.Background(), slog.String("conversation_id", "whatsapp:+911234567890"))
	ctx = logging.WithAttrs(ctx, slog.String("step", "amount"))
	logger.LogAttrs(ctx, slog.LevelInfo, "handled message")

	out := buf.String()
	require.Contains(t, out, "source=Engine")
	require.Contains(t, out, "conversation_id=whatsapp:+911234567890")
	require.Contains(t, out, "step=amount")
}

func TestWithAttrsDoesNotLeakBetweenSiblings(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(&buf, nil)))

	parent := logging.WithAttrs(context.Background(), slog.String("a", "1"))
	first := logging.WithAttrs(parent, slog.String("b", "2"))
	second := logging.WithAttrs(parent, slog.String("c", "3"))

	logger.LogAttrs(first, slog.LevelInfo, "first")
	require.Contains(t, buf.String(), "b=2")
	buf.Reset()

	logger.LogAttrs(second, slog.LevelInfo, "second")
	require.Contains(t, buf.String(), "c=3")
	require.NotContains(t, buf.String(), "b=2")
}
