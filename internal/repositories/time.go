package repositories

import (
	"time"

	"github.com/myrjola/fraudintake/internal/sqlite"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(sqlite.TimeLayout)
}
