package log

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/rs/zerolog"
)

// New returns a zerolog logger writing JSON to stderr inside Kubernetes and
// to a console writer elsewhere.
func New() *zerolog.Logger {
	var output io.Writer
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		output = os.Stderr
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006-01-02T15:04:05.999Z07:00"}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	logger := zerolog.New(output).With().Timestamp().Logger()
	return &logger
}

// NewSlog exposes a zerolog logger as *slog.Logger, the form the engine
// takes. Verbosity follows the zerolog level of zl.
func NewSlog(zl *zerolog.Logger) *slog.Logger {
	zerologr.NameFieldName = "logger"
	zerologr.NameSeparator = "/"
	return slog.New(logr.ToSlogHandler(zerologr.New(zl)))
}
