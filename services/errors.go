package services

import "errors"

// Enrollment failure taxonomy. Controllers map these onto HTTP status codes;
// anything else coming out of the service is an internal error and the
// transaction it happened in has been rolled back.
var (
	ErrCourseNotFound     = errors.New("course not found or not available for enrollment")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrAlreadyEnrolled    = errors.New("already enrolled in this course")
	ErrNotEnrolled        = errors.New("not enrolled in this course")
	ErrInvalidState       = errors.New("enrollment state does not allow this operation")
	ErrInvalidTransition  = errors.New("disallowed enrollment status transition")
	ErrForbidden          = errors.New("not allowed to modify this enrollment")
)
