package ode

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Job is one independent integration for RunAll.
type Job struct {
	Name   string
	Method Method
	System System
	X0     State
	Times  []float64
}

// RunAll integrates every job concurrently. Results are returned in job order;
// the first failure cancels the remaining jobs.
func RunAll(ctx context.Context, jobs []Job) ([]*Result, error) {
	results := make([]*Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	for i, job := range jobs {
		g.Go(func() error {
			res, err := job.Method.Integrate(gctx, job.System, job.X0, job.Times)
			if err != nil {
				return &JobError{Name: job.Name, Wrapped: err}
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// JobError names the job that failed inside RunAll.
type JobError struct {
	Name    string
	Wrapped error
}

func (e *JobError) Error() string {
	return "ode: job " + e.Name + ": " + e.Wrapped.Error()
}

func (e *JobError) Unwrap() error {
	return e.Wrapped
}
