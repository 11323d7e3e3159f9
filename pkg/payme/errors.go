package payme

import "errors"

var (
	// ErrNotInitialized is returned by every operation invoked before a
	// successful Init.
	ErrNotInitialized = errors.New("gateway not initialized, call Init first")

	// ErrAuthentication is returned by Init when the onboarding service
	// produced no usable session for the provided credentials.
	ErrAuthentication = errors.New("unable to fetch account related to the key provided")

	ErrFeesNotFound        = errors.New("fees not defined for this amount, please contact support")
	ErrPaymentNotFound     = errors.New("payment not found for this reference")
	ErrPaymentItemNotFound = errors.New("payment item not found for this reference")
)
