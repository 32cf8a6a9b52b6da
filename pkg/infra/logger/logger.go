package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultDir        = "logs"
	fileBufferSize    = 32 * 1024
	consoleBufferSize = 1024
)

type Options struct {
	// Component names the log file, e.g. "trustbatch" writes logs/trustbatch.log.
	Component string
	Dir       string
	// Level is parsed with logrus.ParseLevel. Empty reads LOG_LEVEL.
	Level   string
	Console bool
}

// NewLogger returns a JSON logger writing asynchronously to a file, plus a
// close function flushing pending lines.
func NewLogger(opts Options) (*logrus.Logger, func(), error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})
	logger.SetLevel(parseLevel(opts.Level))

	dir := opts.Dir
	if dir == "" {
		dir = defaultDir
	}
	component := opts.Component
	if component == "" {
		component = "trustbatch"
	}
	if strings.ContainsAny(component, `/\`) {
		return nil, nil, fmt.Errorf("invalid log component %q", component)
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	fileWriter, err := NewAsyncFileWriter(filepath.Join(dir, component+".log"), fileBufferSize)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize async log writer: %w", err)
	}
	logger.SetOutput(fileWriter)

	closers := []func(){fileWriter.Close}
	if opts.Console {
		hook := NewAsyncConsoleHook(os.Stdout, consoleBufferSize)
		logger.AddHook(hook)
		closers = append([]func(){hook.Close}, closers...)
	}

	return logger, func() {
		for _, c := range closers {
			c()
		}
	}, nil
}

// NewNopLogger discards everything. Used by tools and tests.
func NewNopLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func parseLevel(level string) logrus.Level {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
