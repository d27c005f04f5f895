package fetch

import "errors"

var (
	// ErrInvalidURL is returned when a target is not an http or https URL.
	ErrInvalidURL = errors.New("invalid URL: expected http or https")

	// ErrInvalidProxyAddress is returned for a proxy that is not host:port.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")
)
