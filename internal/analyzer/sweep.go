package analyzer

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/delaywatch/internal/rental"
)

// Thresholds expands sweep options into the list of thresholds to evaluate.
func Thresholds(opts SweepOptions) ([]int, error) {
	if opts.Step <= 0 {
		return nil, fmt.Errorf("%w: sweep step must be positive, got %d", ErrInvalidArgument, opts.Step)
	}
	if opts.Start < 0 {
		return nil, fmt.Errorf("%w: sweep start must not be negative, got %d", ErrInvalidArgument, opts.Start)
	}
	if opts.Stop < opts.Start {
		return nil, fmt.Errorf("%w: sweep stop %d is before start %d", ErrInvalidArgument, opts.Stop, opts.Start)
	}

	var out []int
	for th := opts.Start; th <= opts.Stop; th += opts.Step {
		out = append(out, th)
	}
	return out, nil
}

// Sweep evaluates friction, affected rentals and mean owner share loss for
// every threshold in opts. Thresholds are evaluated concurrently over the
// shared table; the returned points are in threshold order.
func Sweep(ctx context.Context, t *rental.Table, opts SweepOptions) ([]SweepPoint, error) {
	thresholds, err := Thresholds(opts)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	points := make([]SweepPoint, len(thresholds))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, th := range thresholds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := evaluate(t, th, opts.Scope)
			if err != nil {
				return fmt.Errorf("threshold %d: %w", th, err)
			}
			// Each goroutine owns its slot; no locking needed.
			points[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

func evaluate(t *rental.Table, threshold int, scope rental.Scope) (SweepPoint, error) {
	loss, err := OwnerShareLoss(t, threshold, scope, MetricMean)
	if err != nil {
		return SweepPoint{}, err
	}
	return SweepPoint{
		Threshold:      threshold,
		Friction:       Friction(t, threshold, scope),
		Affected:       AffectedRentals(t, threshold, scope),
		OwnerShareLoss: loss,
	}, nil
}
