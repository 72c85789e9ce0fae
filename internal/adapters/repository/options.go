package repository

import (
	"time"

	"github.com/google/uuid"
)

// Option applies a configuration option to a store.
type Option func(*storeOptions)

type storeOptions struct {
	now   func() time.Time
	newID func() string
}

func defaultStoreOptions() storeOptions {
	return storeOptions{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// WithClock sets the time source used for CreatedAt and UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(o *storeOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator sets the function that assigns project IDs.
func WithIDGenerator(newID func() string) Option {
	return func(o *storeOptions) {
		if newID != nil {
			o.newID = newID
		}
	}
}
