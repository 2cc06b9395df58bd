package checkout

import (
	"regexp"
	"strings"

	pkgerrors "github.com/asimbashir/bazario-backend/pkg/errors"
)

// ShippingForm is the checkout address form as submitted by the client.
type ShippingForm struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Province      string `json:"province"`
	City          string `json:"city"`
	StreetAddress string `json:"street_address"`
	Mobile        string `json:"mobile"`
	Email         string `json:"email"`
}

var (
	// Pakistani mobile numbers: 03 followed by nine digits.
	mobileRe = regexp.MustCompile(`^03[0-9]{9}$`)
	emailRe  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidateShippingForm checks required fields in form display order and
// short-circuits on the first failure. The messages are user-facing and
// rendered verbatim by the storefront.
func ValidateShippingForm(form ShippingForm) error {
	required := []struct {
		value   string
		message string
	}{
		{form.FirstName, "First Name is required"},
		{form.LastName, "Last Name is required"},
		{form.Province, "Province is required"},
		{form.City, "City is required"},
		{form.StreetAddress, "Street Address is required"},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, field.message)
		}
	}

	mobile := strings.TrimSpace(form.Mobile)
	if mobile == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "Mobile Number is required")
	}
	if !mobileRe.MatchString(mobile) {
		return pkgerrors.New(pkgerrors.CodeValidation, "Please enter a valid mobile number (03XXXXXXXXX)")
	}

	email := strings.TrimSpace(form.Email)
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "Email is required")
	}
	if !emailRe.MatchString(email) {
		return pkgerrors.New(pkgerrors.CodeValidation, "Please enter a valid email address")
	}

	return nil
}
