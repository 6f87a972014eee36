package task

import "time"

const (
	// defaultSpinBudget is the number of immediate re-polls after the
	// first pending result before the driver yields the processor.
	defaultSpinBudget = 64

	// defaultYieldInterval is how long the driver pauses between poll
	// rounds once the spin budget is exhausted.
	defaultYieldInterval = 500 * time.Microsecond
)

// Option configures Drive.
type Option func(*driver)

// WithSpinBudget sets the number of immediate re-polls performed before
// yielding. A budget of zero yields after every pending poll.
func WithSpinBudget(n int) Option {
	return func(d *driver) {
		if n >= 0 {
			d.spinBudget = n
		}
	}
}

// WithYieldInterval sets the pause between poll rounds.
func WithYieldInterval(interval time.Duration) Option {
	return func(d *driver) {
		if interval > 0 {
			d.yield = interval
		}
	}
}

// WithSleep replaces the sleep function used to yield. The clock is an
// injected capability so tests can count yields instead of waiting.
func WithSleep(sleep func(time.Duration)) Option {
	return func(d *driver) {
		if sleep != nil {
			d.sleep = sleep
		}
	}
}

type driver struct {
	spinBudget int
	yield      time.Duration
	sleep      func(time.Duration)
}

// Drive polls t to completion and returns its result or its failure
// verbatim. An already-ready task returns on the first poll with zero
// added latency; the yield path is never touched.
//
// While the task is pending, Drive re-polls immediately up to the spin
// budget to catch fast-resolving readiness cheaply, then relinquishes
// the processor for the yield interval before the next round. It never
// retries or suppresses the task's errors.
func Drive[T any](t Task[T], opts ...Option) (T, error) {
	d := driver{
		spinBudget: defaultSpinBudget,
		yield:      defaultYieldInterval,
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(&d)
	}

	if result, done, err := t.Poll(); done {
		return result, err
	}

	for {
		for spins := 0; spins < d.spinBudget; spins++ {
			if result, done, err := t.Poll(); done {
				return result, err
			}
		}
		d.sleep(d.yield)
		if result, done, err := t.Poll(); done {
			return result, err
		}
	}
}
