package iter

import (
	"log/slog"
	"sync"

	"ember/core-go/pkg/runtime"
)

// Yield hands an owned value to the consumer and suspends the body. It
// returns false once the coroutine has been closed; the body should then
// return.
type Yield func(v runtime.Value) bool

type coroutineResult struct {
	value runtime.Value
	done  bool
	err   error
}

// coroutine runs body on its own goroutine. The consumer and the body hand
// control back and forth over unbuffered channels, so only one side runs at
// a time.
type coroutine struct {
	rt   *runtime.Runtime
	body func(yield Yield) error

	requests chan struct{}
	results  chan coroutineResult

	mu        sync.Mutex
	started   bool
	busy      bool
	done      bool
	cancelled bool
	yields    int
}

// NewCoroutine wraps body as an iterator. The body starts on the first Next.
func NewCoroutine(rt *runtime.Runtime, body func(yield Yield) error) *runtime.IteratorValue {
	c := &coroutine{
		rt:       rt,
		body:     body,
		requests: make(chan struct{}),
		results:  make(chan coroutineResult),
	}
	return runtime.NewIteratorValue(c.next, c.close)
}

func (c *coroutine) next() (runtime.Value, bool, error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return runtime.Null, true, runtime.NewValueError("coroutine resumed while running")
	}
	if c.done || c.cancelled {
		c.mu.Unlock()
		return runtime.Null, true, nil
	}
	c.busy = true
	if !c.started {
		c.started = true
		go c.run()
	}
	c.mu.Unlock()

	c.requests <- struct{}{}
	res, ok := <-c.results

	c.mu.Lock()
	c.busy = false
	if !ok || res.done || res.err != nil {
		c.done = true
	}
	c.mu.Unlock()
	if !ok {
		return runtime.Null, true, nil
	}
	if res.err != nil {
		return end(res.err)
	}
	return res.value, res.done, nil
}

func (c *coroutine) run() {
	defer close(c.results)
	if !c.await() {
		return
	}
	err := c.body(c.yield)
	c.results <- coroutineResult{done: true, err: err}
}

func (c *coroutine) yield(v runtime.Value) bool {
	c.mu.Lock()
	cancelled := c.cancelled
	c.yields++
	c.mu.Unlock()
	if cancelled {
		c.rt.Release(v)
		return false
	}
	c.results <- coroutineResult{value: v}
	return c.await()
}

func (c *coroutine) await() bool {
	_, ok := <-c.requests
	return ok
}

// close cancels a suspended body: its pending yield returns false and the
// body runs to completion before close returns. Values it yields meanwhile
// are released.
func (c *coroutine) close() {
	c.mu.Lock()
	if c.cancelled || c.done {
		c.cancelled = true
		c.mu.Unlock()
		return
	}
	c.cancelled = true
	if !c.started || c.busy {
		c.mu.Unlock()
		return
	}
	yields := c.yields
	close(c.requests)
	c.mu.Unlock()

	for res := range c.results {
		c.rt.Release(res.value)
	}
	c.rt.Logger().Debug("coroutine cancelled", slog.Int("yields", yields))
}
