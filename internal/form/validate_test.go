package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateLogin_EmptyFields(t *testing.T) {
	errs := validateLogin(map[string]string{})

	assert.Equal(t, msgEmailRequired, errs[FieldEmail])
	assert.Equal(t, msgPasswordRequired, errs[FieldPassword])
	assert.Len(t, errs, 2, "both fields should be reported at once")
}

func TestValidateLogin_Valid(t *testing.T) {
	errs := validateLogin(map[string]string{
		FieldEmail:    "user@example.com",
		FieldPassword: "hunter2",
	})
	assert.Empty(t, errs)
}

func TestValidateLogin_NoLengthCheck(t *testing.T) {
	// Login accepts short passwords; the minimum only applies at registration.
	errs := validateLogin(map[string]string{
		FieldEmail:    "user@example.com",
		FieldPassword: "abc",
	})
	assert.Empty(t, errs)
}

func TestEmailShapes(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"plain address", "user@example.com", true},
		{"subdomain", "user@mail.example.co.uk", true},
		{"plus tag", "user+tag@example.com", true},
		{"missing at", "userexample.com", false},
		{"two ats", "user@@example.com", false},
		{"missing local part", "@example.com", false},
		{"missing domain", "user@", false},
		{"no dot in domain", "user@example", false},
		{"dot at domain start", "user@.com", false},
		{"dot at domain end", "user@example.", false},
		{"embedded space", "us er@example.com", false},
		{"trailing newline", "user@example.com\n", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, isValidEmail(tc.email), "email %q", tc.email)
		})
	}
}

func TestValidateRegister_PasswordLength(t *testing.T) {
	values := map[string]string{
		FieldEmail:           "user@example.com",
		FieldPassword:        "short78",
		FieldConfirmPassword: "short78",
	}
	errs := validateRegister(values)
	assert.Equal(t, msgPasswordTooShort, errs[FieldPassword])

	values[FieldPassword] = "short789"
	values[FieldConfirmPassword] = "short789"
	errs = validateRegister(values)
	assert.Empty(t, errs, "8 characters is exactly enough")
}

func TestValidateRegister_ConfirmMismatch(t *testing.T) {
	errs := validateRegister(map[string]string{
		FieldEmail:           "user@example.com",
		FieldPassword:        "password123",
		FieldConfirmPassword: "password124",
	})
	assert.Equal(t, msgPasswordMismatch, errs[FieldConfirmPassword])
	assert.NotContains(t, errs, FieldPassword)
}

func TestValidateRegister_EmptyConfirm(t *testing.T) {
	errs := validateRegister(map[string]string{
		FieldEmail:    "user@example.com",
		FieldPassword: "password123",
	})
	assert.Equal(t, msgConfirmRequired, errs[FieldConfirmPassword])
}

func TestValidateRegister_AllEmpty(t *testing.T) {
	errs := validateRegister(map[string]string{})
	assert.Equal(t, msgEmailRequired, errs[FieldEmail])
	assert.Equal(t, msgPasswordRequired, errs[FieldPassword])
	assert.Equal(t, msgConfirmRequired, errs[FieldConfirmPassword])
}

func TestValidateForgotPassword(t *testing.T) {
	assert.Equal(t, msgEmailRequired, validateForgotPassword(map[string]string{})[FieldEmail])
	assert.Equal(t, msgEmailInvalid, validateForgotPassword(map[string]string{FieldEmail: "nope"})[FieldEmail])
	assert.Empty(t, validateForgotPassword(map[string]string{FieldEmail: "user@example.com"}))
}
