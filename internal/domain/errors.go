package domain

import "errors"

var (
	// ErrMemberNotFound is returned when a member id does not resolve.
	ErrMemberNotFound = errors.New("member not found")
	// ErrPlanNotFound is returned when a referenced plan does not exist.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrEventNotFound is returned when an attendance event id does not resolve.
	ErrEventNotFound = errors.New("attendance event not found")
	// ErrMemberInactive is returned when checking in a deactivated member.
	ErrMemberInactive = errors.New("member is not active")
	// ErrOpenVisit is returned when a member already has a visit without an exit.
	ErrOpenVisit = errors.New("member already has an open visit")
	// ErrVisitClosed is returned when checking out an already closed visit.
	ErrVisitClosed = errors.New("visit already has an exit recorded")
	// ErrEmailExists is returned when creating a member with a taken email.
	ErrEmailExists = errors.New("email already registered")
	// ErrInsufficientData signals a training snapshot below the minimum row
	// count. It is recovered internally via synthetic substitution and never
	// surfaced to callers.
	ErrInsufficientData = errors.New("insufficient training data")
)
