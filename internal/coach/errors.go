package coach

import "errors"

var (
	// ErrNotFound is returned when an entity does not exist or is not owned
	// by the requesting user.
	ErrNotFound = errors.New("not found")

	// ErrGoalLimitExceeded is returned when creating a goal would exceed the
	// active-goal cap.
	ErrGoalLimitExceeded = errors.New("goal limit exceeded")

	// ErrInvalidTransition is returned when a lifecycle operation is applied
	// to an entity in the wrong state.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrMissionExpired is returned when a mission's week has already passed.
	ErrMissionExpired = errors.New("mission expired")

	// ErrInvalidInput wraps validation failures on user-supplied values.
	ErrInvalidInput = errors.New("invalid input")
)
