package domain

import (
	"fmt"
	"strings"
)

const (
	maxNameLength = 50
	minTokens     = 1
	maxTokens     = 1_000_000
	minPrice      = 1
	maxPrice      = 1_000_000_000
)

// FieldErrors maps a form field to a human-readable validation message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	return fmt.Sprintf("bundle form invalid: %d field(s)", len(e))
}

// BundleForm is the operator-edited bundle before derivation. PricePerToken
// is never part of the form; it is recomputed on every save.
type BundleForm struct {
	Name         string  `json:"name"`
	Tokens       int64   `json:"tokens"`
	Price        int64   `json:"price"`
	Label        *string `json:"label"`
	DisplayOrder *int    `json:"display_order"`
	Status       string  `json:"status"`
}

// ValidateForm checks a bundle form against the catalog. Name uniqueness is
// case-insensitive and skips the bundle being edited. DisplayOrder is only
// required to be present; neither range nor uniqueness is enforced.
func ValidateForm(form BundleForm, existing []BundlePackage, editingID int64) FieldErrors {
	errs := FieldErrors{}

	name := strings.TrimSpace(form.Name)
	switch {
	case name == "":
		errs["name"] = "name is required"
	case len([]rune(name)) > maxNameLength:
		errs["name"] = fmt.Sprintf("name must be at most %d characters", maxNameLength)
	default:
		for _, b := range existing {
			if b.ID == editingID {
				continue
			}
			if strings.EqualFold(strings.TrimSpace(b.Name), name) {
				errs["name"] = fmt.Sprintf("a bundle named %q already exists", b.Name)
				break
			}
		}
	}

	if form.Tokens < minTokens || form.Tokens > maxTokens {
		errs["tokens"] = fmt.Sprintf("tokens must be between %d and %d", minTokens, maxTokens)
	}
	if form.Price < minPrice || form.Price > maxPrice {
		errs["price"] = fmt.Sprintf("price must be between %d and %d", minPrice, maxPrice)
	}
	if form.DisplayOrder == nil {
		errs["display_order"] = "display order is required"
	}
	if form.Status != "" && form.Status != StatusActive && form.Status != StatusInactive {
		errs["status"] = "status must be active or inactive"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// PricePerToken derives the display-only per-token price, rounded half up.
func PricePerToken(price, tokens int64) int64 {
	if tokens <= 0 {
		return 0
	}
	return (price + tokens/2) / tokens
}
