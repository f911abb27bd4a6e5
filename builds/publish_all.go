package builds

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/reusee/arcflow/flowconfigs"
	"github.com/reusee/arcflow/logs"
	"github.com/reusee/arcflow/syncs"
)

// PublishAll publishes several projects concurrently.
// Packages are returned in the order of ids, nil for the failed ones.
type PublishAll func(ctx context.Context, ids []string, packageName string) ([]*Package, error)

func (Module) PublishAll(
	publish Publish,
	maxConcurrent flowconfigs.MaxConcurrentBuilds,
	logger logs.Logger,
) PublishAll {
	return func(ctx context.Context, ids []string, packageName string) ([]*Package, error) {
		logger.InfoContext(ctx, "publish all", "projects", len(ids), "concurrency", maxConcurrent)

		sem := syncs.NewSemaphore(int(maxConcurrent))
		ret := make([]*Package, len(ids))
		errs := make([]error, len(ids))
		var wg sync.WaitGroup
		for i, id := range ids {
			if err := sem.AcquireContext(ctx); err != nil {
				errs[i] = err
				break
			}
			wg.Go(func() {
				defer sem.Release()
				pkg, err := publish(ctx, id, packageName)
				if err != nil {
					errs[i] = fmt.Errorf("%s: %w", id, err)
					return
				}
				ret[i] = pkg
			})
		}
		wg.Wait()

		return ret, errors.Join(errs...)
	}
}
