package fixture

import (
	"context"
	"fmt"
	"sync"

	"geostore/pkg/common/config"
	"geostore/pkg/common/logger"
)

// InitError is returned by Shared when the shared context could not be
// built. It is returned to every caller; initialization is never retried.
type InitError struct {
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("fixture: shared context initialization failed: %v", e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

var (
	sharedOnce sync.Once
	shared     *Context
	sharedErr  error

	// newContext is swapped by tests.
	newContext = New
)

// Shared returns the process-wide Context, building it on first use.
// Concurrent first callers block until the single initialization ends and
// then all see the same result. Later calls ignore cfg.
func Shared(ctx context.Context, cfg *config.Config) (*Context, error) {
	sharedOnce.Do(func() {
		c, err := newContext(ctx, cfg)
		if err != nil {
			sharedErr = &InitError{Err: err}
			logger.WithComponent("fixture").Error().Err(err).Msg("critical error during database initialization")
			return
		}
		shared = c
	})
	return shared, sharedErr
}
