package page

import "errors"

var (
	ErrMissingToken = errors.New("token not found or has invalid format")
	ErrNetwork      = errors.New("network failure")
)

// Messages shown on the surface for controller-level failures.
const (
	MsgMissingToken = "Token not found or has invalid format"
	msgProcessing   = "Error processing token: %v"
)
