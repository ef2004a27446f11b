package checkout

import (
	"regexp"
	"strings"

	"github.com/teesbyshelsea/storefront/internal/domain"
)

// FieldError is a user-correctable problem with one shipping field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldValidators holds the format checks for shipping contact fields.
// Locale-specific deployments can swap individual validators.
type FieldValidators struct {
	Email   func(string) bool
	Phone   func(string) bool
	ZipCode func(string) bool
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9][0-9]{0,15}$`)
	zipPattern   = regexp.MustCompile(`^[0-9]{5}(-[0-9]{4})?$`)
)

// phoneSeparators are stripped before the phone format check.
var phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

// DefaultValidators returns the US-locale field validators.
func DefaultValidators() FieldValidators {
	return FieldValidators{
		Email:   func(v string) bool { return emailPattern.MatchString(v) },
		Phone:   func(v string) bool { return phonePattern.MatchString(phoneSeparators.Replace(v)) },
		ZipCode: func(v string) bool { return zipPattern.MatchString(v) },
	}
}

// ValidateShipping checks required-field presence and formats. An empty
// result means the shipping info is acceptable.
func (fv FieldValidators) ValidateShipping(info domain.ShippingInfo) []FieldError {
	var errs []FieldError

	required := []struct {
		field string
		value string
	}{
		{"first_name", info.FirstName},
		{"last_name", info.LastName},
		{"email", info.Email},
		{"phone", info.Phone},
		{"address", info.Address},
		{"city", info.City},
		{"state", info.State},
		{"zip_code", info.ZipCode},
		{"country", info.Country},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, FieldError{Field: f.field, Message: "This field is required"})
		}
	}

	if v := strings.TrimSpace(info.Email); v != "" && !fv.Email(v) {
		errs = append(errs, FieldError{Field: "email", Message: "Please enter a valid email address"})
	}
	if v := strings.TrimSpace(info.Phone); v != "" && !fv.Phone(v) {
		errs = append(errs, FieldError{Field: "phone", Message: "Please enter a valid phone number"})
	}
	if v := strings.TrimSpace(info.ZipCode); v != "" && !fv.ZipCode(v) {
		errs = append(errs, FieldError{Field: "zip_code", Message: "Please enter a valid ZIP code"})
	}

	return errs
}
