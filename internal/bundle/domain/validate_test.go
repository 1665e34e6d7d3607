package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intRef(v int) *int { return &v }

func validForm() BundleForm {
	return BundleForm{
		Name:         "Starter",
		Tokens:       50,
		Price:        50_000,
		DisplayOrder: intRef(1),
		Status:       StatusActive,
	}
}

func TestValidateForm_Valid(t *testing.T) {
	assert.Nil(t, ValidateForm(validForm(), nil, 0))
}

func TestValidateForm_NameRequired(t *testing.T) {
	form := validForm()
	form.Name = "   "

	errs := ValidateForm(form, nil, 0)
	assert.Contains(t, errs, "name")
}

func TestValidateForm_NameTooLong(t *testing.T) {
	form := validForm()
	form.Name = strings.Repeat("x", 51)

	errs := ValidateForm(form, nil, 0)
	assert.Contains(t, errs, "name")

	form.Name = strings.Repeat("x", 50)
	assert.Nil(t, ValidateForm(form, nil, 0))
}

func TestValidateForm_NameUniqueCaseInsensitive(t *testing.T) {
	existing := []BundlePackage{
		{ID: 1, Name: "Bundle Hemat"},
	}

	form := validForm()
	form.Name = "bundle hemat"

	errs := ValidateForm(form, existing, 0)
	assert.Contains(t, errs, "name")

	// editing the bundle itself keeps its own name
	assert.Nil(t, ValidateForm(form, existing, 1))
}

func TestValidateForm_TokenAndPriceRanges(t *testing.T) {
	form := validForm()
	form.Tokens = 0
	assert.Contains(t, ValidateForm(form, nil, 0), "tokens")

	form = validForm()
	form.Tokens = 1_000_001
	assert.Contains(t, ValidateForm(form, nil, 0), "tokens")

	form = validForm()
	form.Price = 0
	assert.Contains(t, ValidateForm(form, nil, 0), "price")

	form = validForm()
	form.Price = 1_000_000_001
	assert.Contains(t, ValidateForm(form, nil, 0), "price")
}

func TestValidateForm_DisplayOrderPresenceOnly(t *testing.T) {
	form := validForm()
	form.DisplayOrder = nil
	assert.Contains(t, ValidateForm(form, nil, 0), "display_order")

	// negative and duplicate orders are deliberately accepted
	form.DisplayOrder = intRef(-5)
	assert.Nil(t, ValidateForm(form, nil, 0))
}

func TestValidateForm_Status(t *testing.T) {
	form := validForm()
	form.Status = "deleted"
	assert.Contains(t, ValidateForm(form, nil, 0), "status")

	form.Status = ""
	assert.Nil(t, ValidateForm(form, nil, 0))
}

func TestPricePerToken(t *testing.T) {
	assert.Equal(t, int64(1000), PricePerToken(50_000, 50))
	assert.Equal(t, int64(900), PricePerToken(225_000, 250))

	// rounds half up
	assert.Equal(t, int64(333), PricePerToken(1000, 3))
	assert.Equal(t, int64(0), PricePerToken(1000, 0))
}
