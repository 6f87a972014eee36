// Package task provides a minimal driver that runs a single asynchronous
// computation to completion without an event-loop reactor.
//
// A [Task] is a suspended computation polled toward completion. [Drive]
// alternates bounded immediate re-polls ("spin") with short voluntary
// pauses ("yield") until the task reports ready. There is no readiness
// notification channel: a task must attempt a real non-blocking operation
// on every poll and report pending when the operation would block. A task
// that caches a stale not-ready answer loses forward progress.
//
// The driver runs one computation per invocation. It has no timeout or
// cancellation of its own; a caller needing a deadline threads it through
// to the computation (see [github.com/crator-sh/crator/pkg/fetch], whose
// task honors a context). Errors from the computation pass through the
// driver verbatim.
package task

// Task is a suspended computation with two states: pending (done=false,
// poll again later) and ready (done=true, with its result or failure).
// A Task is owned by the single Drive invocation polling it and is not
// safe for concurrent polls.
type Task[T any] interface {
	// Poll attempts one step of the computation without blocking
	// indefinitely. It returns done=false while the computation is
	// pending. Once done=true is returned the task is complete and
	// must not be polled again.
	Poll() (result T, done bool, err error)
}

// Func adapts a plain function to the Task interface.
type Func[T any] func() (T, bool, error)

func (f Func[T]) Poll() (T, bool, error) { return f() }

// Ready returns a task that is already complete with the given result.
func Ready[T any](result T) Task[T] {
	return Func[T](func() (T, bool, error) { return result, true, nil })
}

// Fail returns a task that is already complete with the given error.
func Fail[T any](err error) Task[T] {
	return Func[T](func() (T, bool, error) {
		var zero T
		return zero, true, err
	})
}
