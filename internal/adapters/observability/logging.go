package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns the zerolog Logger for one of our binaries, tagged with
// the service name. APP_ENV=dev (or development) uses a human-friendly
// console writer.
func NewLogger(service, env string) zerolog.Logger {
	out := io.Writer(os.Stdout)
	if env == "dev" || env == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).With().Timestamp().Str("service", service).Logger()
}
