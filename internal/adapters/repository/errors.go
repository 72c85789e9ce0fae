package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound          = errors.New("project not found")
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	ErrUnsupportedStore  = errors.New("unsupported store")
)
