package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID26 returns a 26-character lowercase hex identifier, the fixed primary
// key format for clicks, conversions and log rows.
func NewID26() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return hex[:26]
}
