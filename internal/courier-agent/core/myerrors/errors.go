package myerrors

import "errors"

var (
	// Position acquisition failures. GPS off and missing permission are
	// recoverable by the driver, everything else is transient.
	ErrGpsUnavailable   = errors.New("location service is disabled")
	ErrPermissionDenied = errors.New("location permission denied")

	// Transport failures on best-effort sends, absorbed locally.
	ErrNetworkTransient = errors.New("network request failed")

	// Offer resolution outcomes. Losing the race is expected, not an alarm.
	ErrOfferTaken     = errors.New("offer already taken by another driver")
	ErrOfferExpired   = errors.New("offer expired on server")
	ErrNoPendingOffer = errors.New("no pending offer")
)
