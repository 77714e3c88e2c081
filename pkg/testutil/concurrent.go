package testutil

import (
	"errors"
	"sync"
	"sync/atomic"

	dErrors "estate-ledger/pkg/domain-errors"
	"estate-ledger/pkg/platform/sentinel"
)

// ConcurrentResult counts how a burst of racing calls ended.
type ConcurrentResult struct {
	Successes int32
	// Conflicts counts losers of a race: already settled, conflict or already used.
	Conflicts int32
	NotFounds int32
	Errors    int32
}

func (r *ConcurrentResult) record(err error) {
	var n *int32
	switch {
	case err == nil:
		n = &r.Successes
	case lostRace(err):
		n = &r.Conflicts
	case errors.Is(err, sentinel.ErrNotFound), dErrors.HasCode(err, dErrors.CodeNotFound):
		n = &r.NotFounds
	default:
		n = &r.Errors
	}
	atomic.AddInt32(n, 1)
}

// RunConcurrent starts n goroutines, releases them at once and waits for
// fn to return in each. fn receives the goroutine index.
func RunConcurrent(n int, fn func(i int) error) *ConcurrentResult {
	result := &ConcurrentResult{}
	gate := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		go func() {
			defer wg.Done()
			<-gate
			result.record(fn(i))
		}()
	}
	close(gate)
	wg.Wait()
	return result
}

func lostRace(err error) bool {
	for _, target := range []error{sentinel.ErrConflict, sentinel.ErrAlreadyUsed} {
		if errors.Is(err, target) {
			return true
		}
	}
	code := dErrors.CodeOf(err)
	return code == dErrors.CodeAlreadySettled || code == dErrors.CodeConflict
}
