package sessiongate

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Field rules carried over verbatim from the reference application. The
// password rule really is this weak; the accompanying message predates it and
// ships as-is.
var (
	usernameRe  = regexp.MustCompile(`^.{1,20}$`)
	firstNameRe = regexp.MustCompile(`^.{1,100}$`)
	lastNameRe  = regexp.MustCompile(`^.{1,100}$`)
	passwordRe  = regexp.MustCompile(`^.{1,20}$`)
	emailRe     = regexp.MustCompile(`^[\S]+@[\S]+\.[\S]+$`)
)

const (
	msgInvalidUsername  = "Invalid user name."
	msgInvalidFirstName = "Invalid first name."
	msgInvalidLastName  = "Invalid last name."
	msgInvalidPassword  = "Password must be 8 to 18 characters including numbers, lowercase and uppercase letters."
	msgPasswordMismatch = "Password must match"
	msgInvalidEmail     = "Invalid email address"
	msgDuplicateUser    = "User name already in use. Please choose another"
)

// SignupPayload is the raw signup form input.
type SignupPayload struct {
	Username  string `form:"userName" json:"userName"`
	FirstName string `form:"firstName" json:"firstName"`
	LastName  string `form:"lastName" json:"lastName"`
	Password  string `form:"password" json:"password"`
	Verify    string `form:"verify" json:"verify"`
	Email     string `form:"email" json:"email"`
}

// Validate evaluates the field rules in fixed order, short-circuiting at the
// first violation: the returned map carries at most one message, keyed by the
// failing field's form name. Empty email is permitted; a non-empty one must be
// local@domain.tld shaped. No I/O happens here.
func (p SignupPayload) Validate() (bool, map[string]string) {
	fieldErrors := map[string]string{}

	checks := []struct {
		field string
		value string
		rules []validation.Rule
	}{
		{"userName", p.Username, []validation.Rule{
			validation.Required.Error(msgInvalidUsername),
			validation.Match(usernameRe).Error(msgInvalidUsername),
		}},
		{"firstName", p.FirstName, []validation.Rule{
			validation.Required.Error(msgInvalidFirstName),
			validation.Match(firstNameRe).Error(msgInvalidFirstName),
		}},
		{"lastName", p.LastName, []validation.Rule{
			validation.Required.Error(msgInvalidLastName),
			validation.Match(lastNameRe).Error(msgInvalidLastName),
		}},
		{"password", p.Password, []validation.Rule{
			validation.Required.Error(msgInvalidPassword),
			validation.Match(passwordRe).Error(msgInvalidPassword),
		}},
		{"verify", p.Verify, []validation.Rule{
			validation.By(matchesPassword(p.Password)),
		}},
	}

	for _, c := range checks {
		if err := validation.Validate(c.value, c.rules...); err != nil {
			fieldErrors[c.field] = err.Error()
			return false, fieldErrors
		}
	}

	if p.Email != "" {
		if err := validation.Validate(p.Email, validation.Match(emailRe).Error(msgInvalidEmail)); err != nil {
			fieldErrors["email"] = err.Error()
			return false, fieldErrors
		}
	}

	return true, fieldErrors
}

// matchesPassword checks the confirmation field against the password exactly.
func matchesPassword(password string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != password {
			return errors.New(msgPasswordMismatch)
		}
		return nil
	}
}
