package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/storecast/schema"
)

// Status label constants.
const (
	OKValue     = "OK"     // Submission succeeded
	FailedValue = "Failed" // Submission failed
	CachedValue = "Cached" // Submission served from cache
)

// Color variables for console output.
var (
	OKColor     = color.New(color.FgGreen)
	FailedColor = color.New(color.FgRed, color.Bold)
	CachedColor = color.New(color.FgCyan)
)

// GetPlainLabel returns a plain text label for a submission status.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(status string, cached bool) string {
	switch {
	case status == string(schema.SubmissionFailed):
		return FailedValue
	case cached:
		return CachedValue
	default:
		return OKValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(status string, cached bool) string {
	text := GetPlainLabel(status, cached)

	switch text {
	case FailedValue:
		return FailedColor.Sprint(text)
	case CachedValue:
		return CachedColor.Sprint(text)
	default:
		return OKColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the response cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".storecast_cache.db"
	}
	return filepath.Join(homeDir, ".storecast_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for submission history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".storecast_history.db"
	}
	return filepath.Join(homeDir, ".storecast_history.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so the result has room for "..." and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
