package util

import "errors"

var (
	ErrCourseNotFound = errors.New("course not found")
	// ErrNotRepresentable is the expected signal that an activity type has no
	// navigable view; callers handle it by omission, never as a failure.
	ErrNotRepresentable = errors.New("activity not representable")
	// ErrInvalidCourseData marks a caller contract violation (a section
	// referencing an activity that is not part of the snapshot).
	ErrInvalidCourseData = errors.New("invalid course data")
	ErrPermissionDenied  = errors.New("permission denied")
)
