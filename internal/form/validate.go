package form

import "strings"

// Field validation messages. The wording is fixed; tests and the UI both
// rely on it.
const (
	msgEmailRequired    = "Email is required"
	msgEmailInvalid     = "Please enter a valid email address"
	msgPasswordRequired = "Password is required"
	msgPasswordTooShort = "Password must be at least 8 characters"
	msgConfirmRequired  = "Please confirm your password"
	msgPasswordMismatch = "Passwords do not match"
)

// minPasswordLength applies to registration only; login accepts whatever
// the account was created with.
const minPasswordLength = 8

// Each validator checks every applicable field unconditionally so that a
// single submit surfaces all outstanding problems at once.

func validateLogin(values map[string]string) map[string]string {
	errs := make(map[string]string)
	checkEmail(errs, values[FieldEmail])
	if values[FieldPassword] == "" {
		errs[FieldPassword] = msgPasswordRequired
	}
	return errs
}

func validateRegister(values map[string]string) map[string]string {
	errs := make(map[string]string)
	checkEmail(errs, values[FieldEmail])

	password := values[FieldPassword]
	switch {
	case password == "":
		errs[FieldPassword] = msgPasswordRequired
	case len(password) < minPasswordLength:
		errs[FieldPassword] = msgPasswordTooShort
	}

	confirm := values[FieldConfirmPassword]
	switch {
	case confirm == "":
		errs[FieldConfirmPassword] = msgConfirmRequired
	case confirm != password:
		errs[FieldConfirmPassword] = msgPasswordMismatch
	}

	return errs
}

func validateForgotPassword(values map[string]string) map[string]string {
	errs := make(map[string]string)
	checkEmail(errs, values[FieldEmail])
	return errs
}

func checkEmail(errs map[string]string, email string) {
	if email == "" {
		errs[FieldEmail] = msgEmailRequired
	} else if !isValidEmail(email) {
		errs[FieldEmail] = msgEmailInvalid
	}
}

// isValidEmail performs the form's basic shape check: no whitespace,
// exactly one "@" with characters on both sides, and a "." inside the
// domain with characters on both sides. The provider performs the real
// validation; this exists to give immediate feedback.
func isValidEmail(email string) bool {
	if strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	if strings.Count(email, "@") != 1 {
		return false
	}

	atIndex := strings.Index(email, "@")
	if atIndex < 1 || atIndex == len(email)-1 {
		return false
	}

	domain := email[atIndex+1:]
	dotIndex := strings.LastIndex(domain, ".")
	if dotIndex < 1 || dotIndex == len(domain)-1 {
		return false
	}

	return true
}
