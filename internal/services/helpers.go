package services

import (
	"strings"

	"github.com/google/uuid"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isUUID guards lookups by id: postgres rejects malformed uuids with an error
// rather than returning no rows.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
