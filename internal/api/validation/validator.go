package validation

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf16"

	"github.com/layer10security/formrelay/internal/api/dto/common"

	"github.com/go-playground/validator/v10"
)

// TagEmail is the struct tag bound to the email predicate
const TagEmail = "formemail"

// emailRegex is a minimal local@domain.tld shape check, not RFC validation
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// EmailValidator reports whether a string is an acceptable email address
type EmailValidator func(string) bool

// IsEmail is the default EmailValidator
func IsEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Validator checks decoded form submissions
type Validator struct {
	validate *validator.Validate
}

// New creates a validator using IsEmail
func New() *Validator {
	return NewWithEmailValidator(IsEmail)
}

// NewWithEmailValidator creates a validator with a custom email predicate
func NewWithEmailValidator(isEmail EmailValidator) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	RegisterValidators(v, isEmail)
	return &Validator{validate: v}
}

// RegisterValidators registers custom validators
func RegisterValidators(v *validator.Validate, isEmail EmailValidator) {
	registerEmail(v, TagEmail, isEmail)
}

// registerEmail panics on failure so a bad tag surfaces at startup
func registerEmail(v *validator.Validate, tag string, isEmail EmailValidator) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return isEmail(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register %q validator: %v", tag, err))
	}
}

// Submission validates req. An empty required field maps to missing; any
// other failure is an invalid email, the only other tag forms carry.
func (v *Validator) Submission(req interface{}, missing *common.APIError) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return common.ErrInternal.WithCause(err)
	}

	for _, fe := range fieldErrors {
		if fe.Tag() == "required" {
			return missing
		}
	}
	return common.ErrInvalidEmail
}

// Email validates a single address. A positive maxLen bounds its length
// in UTF-16 code units, the unit browsers count in.
func (v *Validator) Email(email string, maxLen int) error {
	if err := v.validate.Var(email, TagEmail); err != nil {
		return common.ErrInvalidEmail
	}
	if maxLen > 0 && utf16Len(email) > maxLen {
		return common.ErrInvalidEmail
	}
	return nil
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
