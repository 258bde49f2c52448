package skill

import (
	"errors"
	"strings"
)

// Uncategorized always exists, cannot be renamed or deleted, and receives the
// skills of deleted categories.
const Uncategorized = "Uncategorized"

type Skill struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Patch is a partial Skill; nil fields are left untouched.
type Patch struct {
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
}

var ErrNameRequired = errors.New("skill name is required")

func (s *Skill) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

// NormalizeCategory maps a blank category to Uncategorized.
func NormalizeCategory(category string) string {
	if strings.TrimSpace(category) == "" {
		return Uncategorized
	}
	return category
}
