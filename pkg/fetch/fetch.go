// Package fetch performs the raw HTTPS exchange with the registry.
//
// The fetcher opens a secure stream, writes a minimal GET request, and
// reads the full response. TLS handshake mechanics are delegated to the
// platform connector via an injected [DialFunc]; the package never
// reimplements them.
//
// A request is exposed as a [task.Task] state machine (dial, send, read)
// so it can be driven by the spin-then-yield loop in
// [github.com/crator-sh/crator/pkg/task]. There is no reactor underneath:
// every poll attempts a real read with a short deadline on the
// connection and reports pending when the read would block, so a retry
// never reuses a stale not-ready result. Deadlines come from the
// caller's context, threaded into the dial and the read loop; the driver
// itself enforces nothing.
package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/crator-sh/crator/pkg/observability"
	"github.com/crator-sh/crator/pkg/task"
)

// DialFunc opens a byte stream to the given host. The default dials TLS
// on port 443; tests substitute plain pipes or local listeners.
type DialFunc func(ctx context.Context, host string) (net.Conn, error)

// DialTLS is the default secure-transport capability.
func DialTLS(ctx context.Context, host string) (net.Conn, error) {
	dialer := tls.Dialer{
		NetDialer: &net.Dialer{},
		Config:    &tls.Config{ServerName: host},
	}
	return dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, "443"))
}

// pollReadWindow bounds how long a single poll may wait on the socket.
// Short enough that a pending poll returns promptly to the driver, long
// enough that arriving bytes are picked up without an extra round.
const pollReadWindow = time.Millisecond

// Fetcher issues GET requests for registry metadata.
// The zero value dials TLS with no User-Agent; NewFetcher sets one.
type Fetcher struct {
	Dial      DialFunc // nil means DialTLS
	UserAgent string
}

// NewFetcher creates a Fetcher with the default TLS dialer.
func NewFetcher(userAgent string) *Fetcher {
	return &Fetcher{Dial: DialTLS, UserAgent: userAgent}
}

// Get returns a task that fetches path from host when driven. The
// returned task is owned by a single driver invocation and must not be
// polled concurrently.
func (f *Fetcher) Get(ctx context.Context, host, path string) task.Task[Response] {
	dial := f.Dial
	if dial == nil {
		dial = DialTLS
	}
	return &getTask{
		ctx:       ctx,
		dial:      dial,
		host:      host,
		path:      path,
		userAgent: f.UserAgent,
	}
}

type dialResult struct {
	conn net.Conn
	err  error
}

// getTask walks dial -> read -> done. The dial and request write happen
// on a helper goroutine because neither can be attempted without
// blocking; polls observe its completion through a buffered channel.
// Reads happen directly on the polling goroutine with a short deadline.
type getTask struct {
	ctx       context.Context
	dial      DialFunc
	host      string
	path      string
	userAgent string

	dialCh chan dialResult
	conn   net.Conn
	raw    []byte
	start  time.Time
	done   bool
}

func (t *getTask) Poll() (Response, bool, error) {
	if t.done {
		return Response{}, true, fmt.Errorf("fetch: poll after completion")
	}
	if err := t.ctx.Err(); err != nil {
		return t.fail(err)
	}

	if t.conn == nil {
		if t.dialCh == nil {
			t.startDial()
			return Response{}, false, nil
		}
		select {
		case res := <-t.dialCh:
			t.dialCh = nil // result consumed, nothing left to reap
			if res.err != nil {
				return t.fail(res.err)
			}
			t.conn = res.conn
		default:
			return Response{}, false, nil // dial still in flight
		}
	}
	return t.pollRead()
}

func (t *getTask) startDial() {
	t.start = time.Now()
	t.dialCh = make(chan dialResult, 1)
	observability.Fetch().OnRequest(t.ctx, t.host, t.path)

	go func() {
		conn, err := t.dial(t.ctx, t.host)
		if err != nil {
			t.dialCh <- dialResult{err: err}
			return
		}
		if deadline, ok := t.ctx.Deadline(); ok {
			_ = conn.SetWriteDeadline(deadline)
		}
		request := fmt.Sprintf(
			"GET %s HTTP/1.1\r\nHost: %s\r\nUser-Agent: %s\r\nAccept: application/json\r\nConnection: close\r\n\r\n",
			t.path, t.host, t.userAgent,
		)
		if _, err := conn.Write([]byte(request)); err != nil {
			conn.Close()
			t.dialCh <- dialResult{err: err}
			return
		}
		t.dialCh <- dialResult{conn: conn}
	}()
}

// pollRead drains whatever the socket has within the poll window. A
// deadline error with an incomplete response means "would block": report
// pending and let the driver decide when to poll again.
func (t *getTask) pollRead() (Response, bool, error) {
	deadline := time.Now().Add(pollReadWindow)
	if ctxDeadline, ok := t.ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := t.conn.SetReadDeadline(deadline); err != nil {
		return t.fail(err)
	}

	buf := make([]byte, 4096)
	for {
		n, err := t.conn.Read(buf)
		t.raw = append(t.raw, buf[:n]...)

		switch {
		case err == nil:
			if complete, resp, perr := t.tryComplete(); complete {
				return t.finish(resp, perr)
			}
		case os.IsTimeout(err):
			if t.ctx.Err() != nil {
				return t.fail(t.ctx.Err())
			}
			if complete, resp, perr := t.tryComplete(); complete {
				return t.finish(resp, perr)
			}
			return Response{}, false, nil
		case errors.Is(err, io.EOF):
			resp, perr := parseResponse(t.raw)
			if perr == nil {
				perr = resp.verifyComplete()
			}
			return t.finish(resp, perr)
		default:
			return t.fail(err)
		}
	}
}

// tryComplete parses the accumulated bytes and reports whether the
// response is already whole (headers present and declared length
// satisfied) without waiting for connection close.
func (t *getTask) tryComplete() (bool, Response, error) {
	if !headersComplete(t.raw) {
		return false, Response{}, nil
	}
	resp, err := parseResponse(t.raw)
	if err != nil {
		// Framing defect: no amount of further reading repairs it.
		return true, Response{}, err
	}
	if resp.complete {
		return true, resp, nil
	}
	return false, Response{}, nil
}

func (t *getTask) finish(resp Response, err error) (Response, bool, error) {
	t.done = true
	t.conn.Close()
	if err != nil {
		observability.Fetch().OnError(t.ctx, t.host, t.path, err)
		return Response{}, true, err
	}
	observability.Fetch().OnResponse(t.ctx, t.host, t.path, resp.Status, time.Since(t.start))
	return resp, true, nil
}

func (t *getTask) fail(err error) (Response, bool, error) {
	t.done = true
	if t.conn != nil {
		t.conn.Close()
	} else if t.dialCh != nil {
		// The dial goroutine may still deliver a connection; reap it.
		ch := t.dialCh
		go func() {
			if res := <-ch; res.conn != nil {
				res.conn.Close()
			}
		}()
	}
	observability.Fetch().OnError(t.ctx, t.host, t.path, err)
	return Response{}, true, err
}
