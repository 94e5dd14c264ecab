package qmag

import (
	"context"
	"fmt"

	"github.com/theapemachine/errnie"
	"golang.org/x/sync/errgroup"
)

// FileResult is the evaluation of one eigenset file. Err is set when the
// file could not be read or the eigenset as a whole could not be evaluated;
// per-eigenpair failures live in Result.
type FileResult struct {
	Path   string
	Result Result
	Err    error
}

/*
EvaluateFiles loads and evaluates every file on the pool, one job per file.
The returned slice is index-aligned with paths, and a failing file only
fails its own entry. Cancelling ctx fails every file whose job has not
started yet, including jobs already queued on the pool. At most one job per worker is in flight, so queued
jobs never wait on a busy pool long enough to hit the scheduling timeout.
*/
func (q *Q) EvaluateFiles(ctx context.Context, ev *Evaluator, paths []string) []FileResult {
	results := make([]FileResult, len(paths))

	var g errgroup.Group
	g.SetLimit(cap(q.workers))

	for i, path := range paths {
		results[i].Path = path

		if ctx.Err() != nil {
			results[i].Err = ctx.Err()
			continue
		}

		g.Go(func() error {
			id := fmt.Sprintf("%d:%s", i, path)
			defer q.Forget(id)

			outcome := <-q.Schedule(id, func(jobCtx context.Context) (any, error) {
				if err := jobCtx.Err(); err != nil {
					return nil, err
				}
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				return evaluateFile(ev, path)
			})

			if outcome.Error != nil {
				results[i].Err = outcome.Error
				return nil
			}

			results[i].Result = outcome.Value.(Result)
			return nil
		})
	}

	g.Wait()

	errnie.Info("evaluated %d eigenset files - metrics %v", len(paths), q.metrics.Export())
	return results
}

func evaluateFile(ev *Evaluator, path string) (Result, error) {
	es, err := LoadEigenset(path)
	if err != nil {
		return Result{}, err
	}

	result, err := ev.Evaluate(es)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}

	return result, nil
}
