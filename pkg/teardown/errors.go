package teardown

import (
	"errors"
	"fmt"
)

// ErrNotRemoved is wrapped by RowError when a DAO reports that a row it
// just listed could not be removed.
var ErrNotRemoved = errors.New("row not removed")

// RowError stops a purge at the first row that could not be deleted.
type RowError struct {
	Entity string
	ID     int64
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("teardown: %s %d: %v", e.Entity, e.ID, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// CountError reports rows left behind after every listed row was removed.
// It usually means a purge step is ordered wrongly or a dependency is missing.
type CountError struct {
	Entity    string
	Remaining int64
}

func (e *CountError) Error() string {
	return fmt.Sprintf("teardown: %s has not been properly deleted, %d rows remain", e.Entity, e.Remaining)
}

// QueryError wraps a failed FindAll or Count.
type QueryError struct {
	Entity string
	Op     string
	Err    error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("teardown: %s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
