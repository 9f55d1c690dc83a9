package logx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a logger that writes to a timestamped file inside dir. The file
// name carries the command so runs are easy to tell apart. The returned closer
// should be closed when logging is no longer needed.
func New(dir, command string, level log.Level) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("ensure logs directory: %w", err)
	}

	filename := time.Now().Format("20060102-150405")
	if name := sanitize(command); name != "" {
		filename += "-" + name
	}
	filePath := filepath.Join(dir, filename+".log")
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := log.NewWithOptions(file, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05.000",
		Prefix:          "pvm",
		Formatter:       log.LogfmtFormatter,
	})
	return logger, file, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}

// ParseLevel maps a config value such as "debug" to a level.
func ParseLevel(value string) (log.Level, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(strings.ToLower(value))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q", value)
	}
	return level, nil
}

func sanitize(command string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(command) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ' || r == '_':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
