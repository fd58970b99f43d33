package report

import (
	"math"
	"strings"
)

// MaxHours bounds a single item.
const MaxHours = 24

// ValidateItem validates a single project/hours pair.
func ValidateItem(item Item) error {
	if strings.TrimSpace(item.Project) == "" {
		return ErrInvalidInput
	}
	if math.IsNaN(item.Hours) || item.Hours <= 0 || item.Hours > MaxHours {
		return ErrInvalidHours
	}
	return nil
}
