package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrLimitExceeded = errors.New("limit exceeds the maximum")
	ErrNoViewer      = errors.New("missing viewer identity")
	ErrNoLeader      = errors.New("no scored project yet")
	ErrFormat        = errors.New("unsupported report format")
)
