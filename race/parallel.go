package race

import "golang.org/x/sync/errgroup"

// fanOut calls fn for every index in [0, n), on up to parallelism goroutines.
// The error of the lowest failing index is returned, whatever the schedule.
func fanOut(n, parallelism int, fn func(idx int) error) error {
	errs := make([]error, n)

	if parallelism <= 1 || n <= 1 {
		for idx := 0; idx < n; idx++ {
			if errs[idx] = fn(idx); errs[idx] != nil {
				return errs[idx]
			}
		}

		return nil
	}

	var g errgroup.Group

	g.SetLimit(parallelism)

	for idx := 0; idx < n; idx++ {
		idx := idx

		g.Go(func() error {
			errs[idx] = fn(idx)

			return nil
		})
	}

	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}
