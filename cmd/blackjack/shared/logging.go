package shared

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogger configures a charmbracelet logger writing to w. Log files get
// timestamps; the console does not.
func SetupLogger(w io.Writer, level log.Level, timestamps bool) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: timestamps,
		TimeFormat:      "15:04:05",
		Prefix:          "blackjack",
	})
}

// OpenLogFile opens path for appending, creating it if needed
func OpenLogFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// Quiet returns a child of logger that only reports warnings and errors.
// Tables log every settled round at Info, which drowns out command output.
func Quiet(logger *log.Logger) *log.Logger {
	quiet := logger.With()
	quiet.SetLevel(max(logger.GetLevel(), log.WarnLevel))
	return quiet
}
