package sieve

import "errors"

var (
	// ErrChainNotFound is returned when operating on an unregistered chain.
	ErrChainNotFound = errors.New("sieve: chain not found")

	// ErrShutdown is returned when operating on a shut-down Sieve instance,
	// and wraps the cancellation of scans interrupted by Shutdown.
	ErrShutdown = errors.New("sieve: instance has been shut down")

	// ErrChainAlreadyRegistered is returned when adding a chain that already exists.
	ErrChainAlreadyRegistered = errors.New("sieve: chain already registered")

	// ErrInvalidLogLevel is returned for a log level name that is not recognized.
	ErrInvalidLogLevel = errors.New("sieve: invalid log level")
)
