package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("user@example.com"))
	assert.True(t, ValidateEmail("first.last+tag@sub.example.co"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("missing@tld"))
	assert.False(t, ValidateEmail(""))
}

func TestValidateUsername(t *testing.T) {
	ok, _ := ValidateUsername("alice_01")
	assert.True(t, ok)

	ok, msg := ValidateUsername("ab")
	assert.False(t, ok)
	assert.NotEmpty(t, msg)

	ok, _ = ValidateUsername("has space")
	assert.False(t, ok)

	ok, _ = ValidateUsername("semi;colon")
	assert.False(t, ok)
}

func TestValidateStructTags(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
		Role  string `validate:"required,oneof=student instructor"`
	}

	v := NewValidator()

	assert.NoError(t, v.ValidateStruct(payload{Email: "a@b.co", Role: "student"}))

	err := v.ValidateStruct(payload{Email: "bad", Role: "admin"})
	assert.Error(t, err)

	errs := FormatValidationErrors(err)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "role")
}
