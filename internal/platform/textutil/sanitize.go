// Package textutil cleans customer-supplied free text before it is persisted.
package textutil

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// PlainText strips markup from value, trims it and cuts it to at most limit runes.
// A non-positive limit disables the cut.
func PlainText(value string, limit int) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	cleaned := html.UnescapeString(strict.Sanitize(value))
	cleaned = strings.TrimSpace(cleaned)
	if limit > 0 && utf8.RuneCountInString(cleaned) > limit {
		runes := []rune(cleaned)
		cleaned = strings.TrimSpace(string(runes[:limit]))
	}
	return cleaned
}

// OptionalPlainText is PlainText for optional fields. Nil and blank inputs yield nil.
func OptionalPlainText(value *string, limit int) *string {
	if value == nil {
		return nil
	}
	cleaned := PlainText(*value, limit)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}
