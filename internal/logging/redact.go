package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// RedactEmail masks an email address for safe logging.
// "john.doe@example.com" → "jo***@example.com"
// Short local parts (≤2 chars) are fully masked: "ab@example.com" → "***@example.com"
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***@***"
	}
	name := []rune(parts[0])
	if len(name) > 2 {
		return string(name[:2]) + "***@" + parts[1]
	}
	return "***@" + parts[1]
}

// RedactText masks every email address embedded in s.
func RedactText(s string) string {
	return emailPattern.ReplaceAllStringFunc(s, RedactEmail)
}

func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindString {
		return a
	}
	if a.Key == slog.MessageKey {
		return a
	}
	return slog.String(a.Key, RedactText(a.Value.String()))
}
