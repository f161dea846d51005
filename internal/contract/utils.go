package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fatih/color"

	"github.com/huangsam/pitfeat/schema"
)

// identifierRe restricts schema, table and column names to plain SQL identifiers.
var identifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Color variables for console output.
var (
	CategoricalColor = color.New(color.FgMagenta, color.Bold) // bounded string codes
	LabelColor       = color.New(color.FgRed, color.Bold)     // ground-truth outcomes stand out
	NumericColor     = color.New(color.FgCyan)                // the common case
)

// GetPlainKindLabel returns a plain text label for a feature kind. This is the
// core logic used for CSV, JSON, and table printing.
func GetPlainKindLabel(kind schema.FeatureKind) string {
	switch kind {
	case schema.CategoricalKind:
		return "Categorical"
	case schema.LabelKind:
		return "Label"
	default:
		return "Numeric"
	}
}

// GetColorKindLabel returns a colored text label for console output (table).
func GetColorKindLabel(kind schema.FeatureKind) string {
	text := GetPlainKindLabel(kind)

	switch kind {
	case schema.CategoricalKind:
		return CategoricalColor.Sprint(text)
	case schema.LabelKind:
		return LabelColor.Sprint(text)
	default:
		return NumericColor.Sprint(text)
	}
}

// ValidateIdentifier rejects names that cannot be used unquoted as SQL identifiers.
func ValidateIdentifier(name string) error {
	if !identifierRe.MatchString(name) {
		return fmt.Errorf("invalid identifier %q: must match %s", name, identifierRe.String())
	}
	return nil
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
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

// GetRunDBFilePath returns the path to the SQLite DB file for the run ledger.
func GetRunDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".pitfeat_runs.db"
	}
	return filepath.Join(homeDir, ".pitfeat_runs.db")
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
