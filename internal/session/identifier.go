package session

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/syllabusmaster/planner/internal/progress"
)

// ErrIdentifierTooShort rejects identifiers under three characters before
// any gateway I/O happens.
var ErrIdentifierTooShort = errors.New("identifier must be at least 3 characters")

const minIdentifierLen = 3

var identifierFolder = cases.Fold()

// NormalizeIdentifier trims and Unicode case-folds a raw identifier into
// the document key used by the sync gateway. The same input always folds
// to the same key, across sessions and devices.
func NormalizeIdentifier(raw string) (string, error) {
	id := identifierFolder.String(strings.TrimSpace(raw))
	if len([]rune(id)) < minIdentifierLen {
		return "", ErrIdentifierTooShort
	}
	return id, nil
}

// DetectLoginMethod classifies an identifier the way the registration
// screen does: an @ means email, all digits means phone, anything else is
// an opaque app id.
func DetectLoginMethod(raw string) progress.LoginMethod {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "@") {
		return progress.MethodEmail
	}
	if raw != "" && isAllDigits(raw) {
		return progress.MethodPhone
	}
	return progress.MethodID
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
