package leads

import "errors"

var (
	// ErrMissingSession is returned when the session id is missing
	ErrMissingSession = errors.New("session id is required")

	// ErrMissingEmail is returned when the email is missing
	ErrMissingEmail = errors.New("email is required")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")
)
