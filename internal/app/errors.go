package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrForbidden  = errors.New("only the project owner may change it")
	ErrNotStarted = errors.New("service not started")
	ErrSeed       = errors.New("invalid seed data")
	ErrStopped    = errors.New("service stopped; its store is closed")
)
