// Package goroutine runs background work that must not crash the process.
package goroutine

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/Picoli-Igor/Dash2/internal/shared/logger"
)

// Group runs named goroutines. A panic is logged with its stack trace and
// ends only the goroutine that raised it.
type Group struct {
	log    logger.Interface
	wg     sync.WaitGroup
	panics atomic.Int64
}

func NewGroup(log logger.Interface) *Group {
	return &Group{log: log}
}

func (g *Group) Go(name string, fn func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				g.panics.Add(1)
				g.log.Errorw("goroutine panicked",
					"goroutine", name,
					"panic", fmt.Sprint(r),
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn()
	}()
}

// Wait blocks until every started goroutine has returned or ctx is done.
func (g *Group) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Panics reports how many goroutines ended in a panic.
func (g *Group) Panics() int64 {
	return g.panics.Load()
}
