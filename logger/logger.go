package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// InfoLogger writes informational messages to stdout and the rotated log file.
var InfoLogger *logrus.Logger

// ErrorLogger writes error messages to stderr and the rotated log file.
var ErrorLogger *logrus.Logger

// Plain stdout/stderr loggers until InitLoggers runs, so packages that log
// during tests never hit a nil logger.
func init() {
	InfoLogger = newLogger(os.Stdout)
	ErrorLogger = newLogger(os.Stderr)
}

// InitLoggers sets up the application loggers. Log files rotate via lumberjack
// so a long-running server does not fill the disk. Call once from main before
// anything logs.
func InitLoggers() {
	rotator := &lumberjack.Logger{
		Filename:   logFilePath(),
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}

	InfoLogger = newLogger(io.MultiWriter(os.Stdout, rotator))
	ErrorLogger = newLogger(io.MultiWriter(os.Stderr, rotator))
}

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	l.SetLevel(parseLevel(os.Getenv("LOG_LEVEL")))
	return l
}

func logFilePath() string {
	if path := os.Getenv("LOG_FILE"); path != "" {
		return path
	}
	return "logs/helpyzo-api.log"
}

func parseLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
