package service

import "errors"

var (
	// ErrNoSuitableActivities means the catalog has nothing that fits the
	// profile's age group and preferences. Nothing is persisted.
	ErrNoSuitableActivities = errors.New("no suitable activities")

	// ErrProfileNotFound is returned when no user profile has been stored.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrInvalidInput wraps caller mistakes such as an unknown engagement
	// level or an out-of-range rating.
	ErrInvalidInput = errors.New("invalid input")
)
