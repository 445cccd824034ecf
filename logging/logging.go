package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. Console output is human readable in
// development; set STUDYFORGE_LOG_JSON=1 for plain JSON lines.
func New() zerolog.Logger {
	var logger zerolog.Logger
	if os.Getenv("STUDYFORGE_LOG_JSON") == "1" {
		logger = zerolog.New(os.Stdout)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	return logger.With().Timestamp().Logger()
}
