// pkg/utils/logger.go
package utils

import (
	"os"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config holds logger settings, usually mapped from the logging section of config.yaml
type Config struct {
	LogLevel  string
	LogFormat string // "text" or "json"
	Pretty    bool
}

// Logger wraps logrus so call sites can attach the calling function name
type Logger struct {
	*logrus.Logger
}

// NewLogger builds a configured logger. Unknown levels fall back to info.
func NewLogger(cfg Config) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if cfg.LogFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			ForceColors:   cfg.Pretty,
			FullTimestamp: true,
		})
	}

	return &Logger{Logger: l}
}

// WithFunc attaches the name of the calling function as a field
func (l *Logger) WithFunc() *logrus.Entry {
	return l.WithField("func", callerFunc())
}

func callerFunc() string {
	pc, _, _, ok := runtime.Caller(2)
	if !ok {
		return "unknown"
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}
	name := fn.Name()
	// Trim the package path, keep receiver.method
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}
