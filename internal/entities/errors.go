// Package entities contains core storefront entities and errors.
package entities

import "errors"

var (
	// ErrInvalidArgument signals failed input validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound is returned when the backend has no such client, raffle or file.
	ErrNotFound = errors.New("not found")
	// ErrSessionNotFound signals a missing or expired checkout session.
	ErrSessionNotFound = errors.New("checkout session not found")
	// ErrInvalidStep signals a checkout transition not allowed from the current step.
	ErrInvalidStep = errors.New("invalid checkout step")
	// ErrCheckoutFailed signals that the backend rejected a purchase step.
	ErrCheckoutFailed = errors.New("checkout failed")
	// ErrUpstream signals an unexpected failure of the backend or media store.
	ErrUpstream = errors.New("upstream failure")
)
