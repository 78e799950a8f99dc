package services

import "errors"

// Domain error sentinels. Validation operations never raise these to
// callers directly: they come back as structured BookingValidation
// lists so the UI can render every problem at once.
var (
	ErrInvalidStayParameters = errors.New("invalid_stay_parameters")
	ErrRateNotFound          = errors.New("rate_not_found")
	ErrConflictDetected      = errors.New("conflict_detected")
	ErrCapacityExceeded      = errors.New("capacity_exceeded")
	ErrBusinessRuleViolation = errors.New("business_rule_violation")
	ErrStoreQueryFailure     = errors.New("store_query_failure")
	ErrBookingNotFound       = errors.New("booking_not_found")
)
