package repository

import (
	"strings"

	"github.com/google/uuid"
)

// NewRefID returns a public listing reference such as "LST-9F86D081"
func NewRefID() string {
	id := uuid.New()
	return "LST-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}
