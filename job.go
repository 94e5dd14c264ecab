package qmag

import (
	"context"
	"time"
)

// Job is one unit of work handed to a worker, typically the evaluation of
// a single eigenset.
type Job struct {
	ID        string
	Fn        func(ctx context.Context) (any, error)
	StartTime time.Time
}
