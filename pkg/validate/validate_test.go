package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type signupForm struct {
	Name     string `validate:"required,min=2,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

type partialForm struct {
	Name  *string  `validate:"min=2,max=50"`
	Email *string  `validate:"email"`
	Price *float64 `validate:"gte=0"`
}

type priceForm struct {
	Price *float64 `validate:"required,gte=0"`
}

func TestStructCollectsAllFailingFields(t *testing.T) {
	errs := Struct(signupForm{Name: "A", Email: "not-an-email", Password: "short"})

	assert.Len(t, errs, 3)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestStructPassesValidInput(t *testing.T) {
	errs := Struct(signupForm{Name: "Alice", Email: "alice@example.com", Password: "secret123"})
	assert.Empty(t, errs)
}

func TestRequiredFailsOnWhitespaceString(t *testing.T) {
	errs := Struct(signupForm{Name: "   ", Email: "a@b.co", Password: "secret123"})
	assert.Contains(t, errs, "name")
}

func TestNilPointerSkipsEveryRuleExceptRequired(t *testing.T) {
	errs := Struct(partialForm{})
	assert.Empty(t, errs)
}

func TestSetPointerStillValidated(t *testing.T) {
	bad := "x"
	errs := Struct(partialForm{Name: &bad})
	assert.Contains(t, errs, "name")
}

func TestRequiredPointerDetectsMissingPrice(t *testing.T) {
	errs := Struct(priceForm{})
	assert.Contains(t, errs, "price")
}

func TestZeroPriceIsPresent(t *testing.T) {
	zero := 0.0
	errs := Struct(priceForm{Price: &zero})
	assert.Empty(t, errs)
}

func TestNegativePriceFailsGte(t *testing.T) {
	neg := -1.5
	errs := Struct(priceForm{Price: &neg})
	assert.Contains(t, errs, "price")
}

func TestRequiredFailsOnEmptySlice(t *testing.T) {
	type form struct {
		IDs []uint `validate:"required"`
	}
	assert.Contains(t, Struct(form{}), "ids")
	assert.Contains(t, Struct(form{IDs: []uint{}}), "ids")
	assert.Empty(t, Struct(form{IDs: []uint{1}}))
}
