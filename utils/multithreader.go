package utils

import (
	"go.uber.org/atomic"

	"sync"
)

// MultiThread runs an operation on a range of integers, spread across a number of goroutines.
//
// should be run sequentially, not in a separate thread
// designed for use by operators in their per-example calculations
//
// the range includes 'start' and excludes 'end'
//  - MultiThread assumes that end ≥ start
// 'f' is the function that should be run for each value in the range
// 'opsPerThread' is the number of values that each goroutine will handle before requesting another set
// 'threads' is the number of goroutines. If it is less than 2, 'f' is run on the calling goroutine.
//
// The first error returned by 'f' stops the distribution of further work and is returned once
// every goroutine has finished.
func MultiThread(start, end int, f func(int) error, opsPerThread, threads int) error {
	if opsPerThread < 1 {
		opsPerThread = 1
	}

	if threads < 2 || end-start <= opsPerThread {
		for i := start; i < end; i++ {
			if err := f(i); err != nil {
				return err
			}
		}

		return nil
	}

	index := atomic.NewInt64(int64(start))
	var firstErr atomic.Error

	var wg sync.WaitGroup

	wg.Add(threads)
	for thread := 0; thread < threads; thread++ {
		go func() {
			defer wg.Done()

			for firstErr.Load() == nil {
				i := int(index.Add(int64(opsPerThread))) - opsPerThread
				if i >= end {
					return
				}

				e := i + opsPerThread
				if e > end {
					e = end
				}

				for ; i < e; i++ {
					if err := f(i); err != nil {
						firstErr.CompareAndSwap(nil, err)
						return
					}
				}
			}
		}()
	}

	wg.Wait()

	return firstErr.Load()
}
