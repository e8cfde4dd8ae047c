package checkout

import (
	"errors"
	"regexp"
	"strings"

	"github.com/tasselgroup/storefront/internal/domain"
)

// ErrEmptyCart blocks both submission paths before any field is inspected.
var ErrEmptyCart = errors.New("Your cart is empty. Please add items before checkout.")

// ValidationError names the first invalid field so the page can focus it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateForm checks cart non-emptiness first, then the contact fields in
// page order, then the address block when fulfillment is delivery. It stops
// at the first failure; no state is mutated.
func (o *Orchestrator) ValidateForm(form domain.CheckoutForm) error {
	if o.store.IsEmpty() {
		return ErrEmptyCart
	}

	if strings.TrimSpace(form.FullName) == "" {
		return &ValidationError{Field: "fullname", Message: "Please enter your full name"}
	}

	email := strings.TrimSpace(form.Email)
	if email == "" {
		return &ValidationError{Field: "email", Message: "Please enter your email address"}
	}
	if !emailRe.MatchString(email) {
		return &ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}

	if strings.TrimSpace(form.Phone) == "" {
		return &ValidationError{Field: "phone", Message: "Please enter your phone number"}
	}

	if !form.TermsAccepted {
		return &ValidationError{Field: "terms", Message: "Please agree to the terms and conditions"}
	}

	if form.Fulfillment == domain.FulfillmentDelivery {
		if strings.TrimSpace(form.Delivery.Address) == "" {
			return &ValidationError{Field: "address", Message: "Please enter your delivery address"}
		}
		if strings.TrimSpace(form.Delivery.City) == "" {
			return &ValidationError{Field: "city", Message: "Please enter your city"}
		}
		// Postal code stays optional.
	}

	return nil
}
