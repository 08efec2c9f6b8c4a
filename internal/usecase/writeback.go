package usecase

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// writeback runs durable writes in the background. Wait collects every write
// started since the previous Wait.
type writeback struct {
	mu sync.Mutex
	g  *errgroup.Group
}

func (w *writeback) Go(fn func() error) {
	w.mu.Lock()
	if w.g == nil {
		w.g = new(errgroup.Group)
	}
	g := w.g
	w.mu.Unlock()
	g.Go(fn)
}

func (w *writeback) Wait() error {
	w.mu.Lock()
	g := w.g
	w.g = nil
	w.mu.Unlock()
	if g == nil {
		return nil
	}
	return g.Wait()
}
