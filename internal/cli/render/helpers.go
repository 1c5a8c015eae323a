package render

import (
	"regexp"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

var titleCaser = cases.Title(language.English)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// stripAnsiCodes removes ANSI color codes from a string
func stripAnsiCodes(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// title capitalizes each word, e.g. "dry run" -> "Dry Run"
func title(s string) string {
	return titleCaser.String(s)
}

// shortHash abbreviates a transaction hash for tables
func shortHash(hash string) string {
	if len(hash) <= 18 {
		return hash
	}
	return hash[:10] + "…" + hash[len(hash)-6:]
}
