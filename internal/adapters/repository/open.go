package repository

import (
	"context"
	"fmt"
)

// Store kinds accepted by OpenStore.
const (
	KindMemory = "memory"
	KindSQL    = "sql"
)

// OpenStore builds the store named by kind. driver and dsn are only used
// by the sql kind.
func OpenStore(ctx context.Context, kind string, driver Driver, dsn string, opts ...Option) (Store, error) {
	switch kind {
	case "", KindMemory:
		return NewMemoryStore(opts...), nil
	case KindSQL:
		db, err := Open(ctx, driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", driver, err)
		}
		return NewSQLStore(db, driver, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStore, kind)
	}
}
