package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewApplicationRef returns a short human-facing reference code such as
// "APP-3F9C21A8D0". Uniqueness is backed by the column's unique index; the
// code itself only needs to be unguessable enough for support emails.
func NewApplicationRef() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("APP-%s", strings.ToUpper(raw[:10]))
}
