package logger

import (
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// New builds the process logger from the loaded APP_ENV and LOG_LEVEL
// values. "local" switches to a text formatter; everything else logs JSON.
func New(appEnv, level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	if strings.ToLower(strings.TrimSpace(appEnv)) == "local" {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339Nano,
		})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	}

	l.SetLevel(ParseLevel(level))
	return l
}

func ParseLevel(v string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
