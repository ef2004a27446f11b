package checkout

import (
	"testing"

	"github.com/teesbyshelsea/storefront/internal/domain"
)

func validShipping() domain.ShippingInfo {
	return domain.ShippingInfo{
		FirstName: "Shelsea",
		LastName:  "Smith",
		Email:     "shelsea@example.com",
		Phone:     "+1 (555) 123-4567",
		Address:   "123 Main St",
		City:      "Austin",
		State:     "TX",
		ZipCode:   "78701",
		Country:   "US",
	}
}

func TestValidateShipping_Valid(t *testing.T) {
	errs := DefaultValidators().ValidateShipping(validShipping())
	if len(errs) != 0 {
		t.Errorf("Expected no field errors, got %+v", errs)
	}
}

func TestValidateShipping_RequiredFields(t *testing.T) {
	errs := DefaultValidators().ValidateShipping(domain.ShippingInfo{})
	if len(errs) != 9 {
		t.Fatalf("Expected 9 required-field errors, got %d", len(errs))
	}
	for _, e := range errs {
		if e.Message != "This field is required" {
			t.Errorf("Unexpected message for %s: %s", e.Field, e.Message)
		}
	}
}

func TestValidateShipping_WhitespaceOnlyIsMissing(t *testing.T) {
	info := validShipping()
	info.City = "   "

	errs := DefaultValidators().ValidateShipping(info)
	if len(errs) != 1 || errs[0].Field != "city" {
		t.Errorf("Expected city required error, got %+v", errs)
	}
}

func TestValidateShipping_EmailFormat(t *testing.T) {
	cases := []struct {
		email string
		valid bool
	}{
		{"shelsea@example.com", true},
		{"a@b.co", true},
		{"no-at-sign", false},
		{"two@@example.com", false},
		{"spaces in@example.com", false},
		{"missing@tld", false},
	}
	fv := DefaultValidators()
	for _, tc := range cases {
		info := validShipping()
		info.Email = tc.email
		errs := fv.ValidateShipping(info)
		if tc.valid && len(errs) != 0 {
			t.Errorf("Expected %q valid, got %+v", tc.email, errs)
		}
		if !tc.valid && len(errs) == 0 {
			t.Errorf("Expected %q rejected", tc.email)
		}
	}
}

func TestValidateShipping_PhoneFormat(t *testing.T) {
	cases := []struct {
		phone string
		valid bool
	}{
		{"+15551234567", true},
		{"555-123-4567", true},
		{"(555) 123 4567", true},
		{"0123456", false}, // leading zero
		{"not-a-phone", false},
		{"+", false},
	}
	fv := DefaultValidators()
	for _, tc := range cases {
		info := validShipping()
		info.Phone = tc.phone
		errs := fv.ValidateShipping(info)
		if tc.valid && len(errs) != 0 {
			t.Errorf("Expected %q valid, got %+v", tc.phone, errs)
		}
		if !tc.valid && len(errs) == 0 {
			t.Errorf("Expected %q rejected", tc.phone)
		}
	}
}

func TestValidateShipping_ZipFormat(t *testing.T) {
	cases := []struct {
		zip   string
		valid bool
	}{
		{"78701", true},
		{"78701-1234", true},
		{"1234", false},
		{"787011", false},
		{"78701-12", false},
	}
	fv := DefaultValidators()
	for _, tc := range cases {
		info := validShipping()
		info.ZipCode = tc.zip
		errs := fv.ValidateShipping(info)
		if tc.valid && len(errs) != 0 {
			t.Errorf("Expected %q valid, got %+v", tc.zip, errs)
		}
		if !tc.valid && len(errs) == 0 {
			t.Errorf("Expected %q rejected", tc.zip)
		}
	}
}
