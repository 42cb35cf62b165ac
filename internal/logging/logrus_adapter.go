package logging

import (
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options configures the logrus backend.
type Options struct {
	// Level is debug, info, warn or error. Anything else logs at info.
	Level string
	// Format is "json" or "text".
	Format string
	// Output defaults to stderr; stdout is reserved for CSV and reports.
	Output io.Writer
}

// leadingFields are printed first in text output, in this order, so that
// per-file and per-row lines line up when grepped.
var leadingFields = []string{FieldFile, FieldFormat, FieldRow, FieldColumn, FieldDescription, FieldCategory, FieldStrategy}

// NewLogrus builds the logrus logger behind LogrusAdapter.
func NewLogrus(opts Options) *logrus.Logger {
	logger := logrus.New()

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(opts.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			SortingFunc:   sortFields,
		})
	}
	return logger
}

// sortFields puts leadingFields first and the rest alphabetically. logrus
// passes the built-in time, level and msg keys too; those keep the front.
func sortFields(keys []string) {
	rank := func(k string) int {
		switch k {
		case logrus.FieldKeyTime:
			return -3
		case logrus.FieldKeyLevel:
			return -2
		case logrus.FieldKeyMsg:
			return -1
		}
		for i, f := range leadingFields {
			if k == f {
				return i
			}
		}
		return len(leadingFields)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		ri, rj := rank(keys[i]), rank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})
}

// LogrusAdapter adapts logrus.Logger to implement our Logger interface.
type LogrusAdapter struct {
	logger *logrus.Logger
	entry  *logrus.Entry
}

// NewLogrusAdapter returns a Logger at level in format, writing to stderr.
func NewLogrusAdapter(level, format string) Logger {
	return NewLogrusAdapterFromLogger(NewLogrus(Options{Level: level, Format: format}))
}

// NewLogrusAdapterFromLogger wraps an existing logrus.Logger. A nil logger
// gets the defaults of NewLogrus.
func NewLogrusAdapterFromLogger(logger *logrus.Logger) Logger {
	if logger == nil {
		logger = NewLogrus(Options{})
	}
	return &LogrusAdapter{
		logger: logger,
		entry:  logrus.NewEntry(logger),
	}
}

func (l *LogrusAdapter) with(entry *logrus.Entry) Logger {
	return &LogrusAdapter{logger: l.logger, entry: entry}
}

func (l *LogrusAdapter) Debug(msg string, fields ...Field) {
	l.entry.WithFields(convertFields(fields)).Debug(msg)
}

func (l *LogrusAdapter) Info(msg string, fields ...Field) {
	l.entry.WithFields(convertFields(fields)).Info(msg)
}

func (l *LogrusAdapter) Warn(msg string, fields ...Field) {
	l.entry.WithFields(convertFields(fields)).Warn(msg)
}

func (l *LogrusAdapter) Error(msg string, fields ...Field) {
	l.entry.WithFields(convertFields(fields)).Error(msg)
}

// Fatal logs and exits the process.
func (l *LogrusAdapter) Fatal(msg string, fields ...Field) {
	l.entry.WithFields(convertFields(fields)).Fatal(msg)
}

// Fatalf logs and exits the process.
func (l *LogrusAdapter) Fatalf(msg string, args ...interface{}) {
	l.entry.Fatalf(msg, args...)
}

func (l *LogrusAdapter) WithError(err error) Logger {
	return l.with(l.entry.WithError(err))
}

func (l *LogrusAdapter) WithField(key string, value interface{}) Logger {
	return l.with(l.entry.WithField(key, value))
}

func (l *LogrusAdapter) WithFields(fields ...Field) Logger {
	return l.with(l.entry.WithFields(convertFields(fields)))
}

func convertFields(fields []Field) logrus.Fields {
	logrusFields := make(logrus.Fields, len(fields))
	for _, field := range fields {
		logrusFields[field.Key] = field.Value
	}
	return logrusFields
}
