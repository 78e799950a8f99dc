package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewReferenceCode generates a short human-readable booking reference,
// e.g. "BK-9F2C41D7".
func NewReferenceCode() string {
	id := uuid.New().String()
	return "BK-" + strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8])
}

// NewSessionID generates an editing-session identifier for lock
// acquisition when the client didn't supply one.
func NewSessionID() string {
	return uuid.New().String()
}
