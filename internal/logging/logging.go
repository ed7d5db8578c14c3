// Package logging configures the process-wide structured logger.
package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs the default slog logger: colorized tint output for
// local development, JSON when LOG_FORMAT=json (the usual choice when
// shipping logs from a container).
func Setup() {
	var handler slog.Handler
	if os.Getenv("LOG_FORMAT") == "json" {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	} else {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			TimeFormat: time.TimeOnly,
		})
	}
	slog.SetDefault(slog.New(handler))
}
