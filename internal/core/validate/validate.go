// Package validate holds the pure input checks run before any order mutation.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rl1809/checkout/internal/core/domain"
)

// FieldError is a user-correctable validation failure scoped to one field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	cardRe   = regexp.MustCompile(`^\d{16}$`)
	cvvRe    = regexp.MustCompile(`^\d{3}$`)
	expiryRe = regexp.MustCompile(`^(\d{2})/(\d{2})$`)
	emailRe  = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	phoneRe  = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	zipRe    = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	spaceRe  = regexp.MustCompile(`\s`)
)

// Card reports whether number, after stripping whitespace, is exactly 16
// decimal digits.
func Card(number string) bool {
	return cardRe.MatchString(spaceRe.ReplaceAllString(number, ""))
}

// Expiry checks MM/YY format, month range and that the card expires strictly
// after the current year-month. YY is interpreted as 20YY.
func Expiry(text string, now time.Time) error {
	m := expiryRe.FindStringSubmatch(text)
	if m == nil {
		return &FieldError{Field: "expiryDate", Message: "Expiry date must be in MM/YY format"}
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return &FieldError{Field: "expiryDate", Message: "Month must be between 01 and 12"}
	}
	year += 2000
	if year < now.Year() || (year == now.Year() && month <= int(now.Month())) {
		return &FieldError{Field: "expiryDate", Message: "Expiry date must be in the future"}
	}
	return nil
}

// PaymentInfo validates card number, expiry and the 3-digit simulation code.
func PaymentInfo(pi domain.PaymentInfo, now time.Time) error {
	if !Card(pi.CardNumber) {
		return &FieldError{Field: "cardNumber", Message: "Card number must be exactly 16 digits"}
	}
	if err := Expiry(pi.ExpiryDate, now); err != nil {
		return err
	}
	if !cvvRe.MatchString(pi.CVV) {
		return &FieldError{Field: "cvv", Message: "CVV must be 3 digits"}
	}
	return nil
}

// CustomerInfo requires every contact field and checks email, phone and zip
// code shapes. The first violation wins.
func CustomerInfo(ci domain.CustomerInfo) error {
	required := []struct {
		field string
		value string
	}{
		{"fullName", ci.FullName},
		{"email", ci.Email},
		{"phone", ci.Phone},
		{"address", ci.Address},
		{"city", ci.City},
		{"state", ci.State},
		{"zipCode", ci.ZipCode},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &FieldError{Field: r.field, Message: fmt.Sprintf("%s is required", r.field)}
		}
	}
	if !emailRe.MatchString(ci.Email) {
		return &FieldError{Field: "email", Message: "Please enter a valid email"}
	}
	if !phoneRe.MatchString(ci.Phone) {
		return &FieldError{Field: "phone", Message: "Please enter a valid phone number"}
	}
	if !zipRe.MatchString(ci.ZipCode) {
		return &FieldError{Field: "zipCode", Message: "Please enter a valid zip code"}
	}
	return nil
}
