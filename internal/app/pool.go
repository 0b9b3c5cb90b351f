package service

import (
	"context"
	"errors"
	"sync"

	"github.com/fieldgeneral/dynasty/internal/domain/model"
)

// runBuilds fans position board builds out over a bounded pool of workers
// and waits for all of them. Tiering and valuation inside one build are
// independent of every other position's build, so the builds share nothing
// and may run concurrently. Errors are collected, not short-circuited: one
// degenerate position must not block the others from publishing.
func runBuilds(ctx context.Context, workers int, positions []model.Position, build func(context.Context, model.Position) error) error {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(positions) {
		workers = len(positions)
	}

	jobs := make(chan model.Position, len(positions))
	for _, pos := range positions {
		jobs <- pos
	}
	close(jobs)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pos := range jobs {
				if ctx.Err() != nil {
					return
				}
				if err := build(ctx, pos); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}
