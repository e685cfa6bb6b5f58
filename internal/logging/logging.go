package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/robalobadob/cardgames/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	outputMu sync.RWMutex
	output   io.Writer = os.Stdout
)

// Init configures the global zerolog logger. A LOG_FILE that cannot be
// opened falls back to stdout with a warning.
func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var base io.Writer = os.Stdout
	var fileErr error
	if cfg.File != "" {
		w, err := newSizeLimitedWriter(cfg.File, cfg.MaxMB)
		if err != nil {
			fileErr = err
		} else {
			base = w
		}
	}
	setWriter(base)

	var out io.Writer = base
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: base, NoColor: cfg.File != ""}
	}

	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(out).With().Timestamp().Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", cfg.File).Msg("log file unavailable; logging to stdout")
	}
}

// Writer returns the raw destination chosen by Init, for secondary loggers
// such as the HTTP access log.
func Writer() io.Writer {
	outputMu.RLock()
	defer outputMu.RUnlock()
	return output
}

func setWriter(w io.Writer) {
	outputMu.Lock()
	defer outputMu.Unlock()
	output = w
}
