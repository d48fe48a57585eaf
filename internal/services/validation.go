package services

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

func (f fieldErrors) maxLen(field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		f.add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

func (f fieldErrors) intRange(field string, value, min, max int) {
	if value < min || value > max {
		f.add(field, fmt.Sprintf("must be between %d and %d", min, max))
	}
}

func (f fieldErrors) oneOf(field, value string, allowed map[string]bool) {
	if !allowed[value] {
		f.add(field, "must be one of "+strings.Join(sortedKeys(allowed), ", "))
	}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// ParseID parses a path identifier. Malformed ids are validation errors.
func ParseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, invalidField(field, "must be a valid UUID")
	}
	return id, nil
}

// truncate shortens s to at most max runes.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}
