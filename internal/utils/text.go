package utils

import (
	"strings"
	"unicode/utf8"
)

// CleanUTF8 drops invalid UTF-8 sequences and NUL bytes, which postgres
// rejects in text columns. The flag reports whether anything was removed.
func CleanUTF8(input string) (string, bool) {
	needsCleaning := strings.Contains(input, "\x00") || !utf8.ValidString(input)

	if !needsCleaning {
		return input, false
	}

	cleaned := strings.ToValidUTF8(input, "")
	cleaned = strings.ReplaceAll(cleaned, "\x00", "")

	return cleaned, true
}

