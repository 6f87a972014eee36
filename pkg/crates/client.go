package crates

import (
	"context"
	"fmt"
	"net/http"

	"github.com/crator-sh/crator/pkg/buildinfo"
	"github.com/crator-sh/crator/pkg/errors"
	"github.com/crator-sh/crator/pkg/fetch"
	"github.com/crator-sh/crator/pkg/task"
)

// DefaultHost is the registry queried when no host is configured.
const DefaultHost = "crates.io"

// Client retrieves crate metadata. Each Retrieve call owns its own
// connection and scan state, so a Client is safe for concurrent use.
type Client struct {
	host      string
	fetcher   *fetch.Fetcher
	driveOpts []task.Option
}

// Option configures a Client.
type Option func(*Client)

// WithHost overrides the registry host.
func WithHost(host string) Option {
	return func(c *Client) {
		if host != "" {
			c.host = host
		}
	}
}

// WithFetcher substitutes the network fetcher, mainly for tests that
// dial a local listener instead of the registry.
func WithFetcher(f *fetch.Fetcher) Option {
	return func(c *Client) {
		if f != nil {
			c.fetcher = f
		}
	}
}

// WithDriveOptions forwards options to the task driver, e.g. a custom
// spin budget or yield interval.
func WithDriveOptions(opts ...task.Option) Option {
	return func(c *Client) { c.driveOpts = opts }
}

// NewClient creates a Client for the default registry. crates.io
// requires a User-Agent; the fetcher sends the build's identity.
func NewClient(opts ...Option) *Client {
	c := &Client{
		host:    DefaultHost,
		fetcher: fetch.NewFetcher(buildinfo.UserAgent()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Retrieve fetches metadata for the named crate and assembles the
// record. Deadlines are the caller's to set on ctx; they are threaded
// through to the fetch task, not enforced by the driver. There are no
// internal retries: transient failures surface to the caller verbatim.
func (c *Client) Retrieve(ctx context.Context, name string) (*Record, error) {
	if err := errors.ValidateCrateName(name); err != nil {
		return nil, err
	}

	t := c.fetcher.Get(ctx, c.host, fmt.Sprintf("/api/v1/crates/%s", name))
	resp, err := task.Drive(t, c.driveOpts...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConnection, err, "fetch crate %s", name)
	}

	switch {
	case resp.Status == http.StatusOK:
	case resp.Status == http.StatusNotFound:
		return nil, errors.Wrap(errors.ErrCodeHTTP, &errors.StatusError{Status: resp.Status},
			"crate %s not found", name)
	default:
		return nil, errors.Wrap(errors.ErrCodeHTTP, &errors.StatusError{Status: resp.Status},
			"registry returned status %d for crate %s", resp.Status, name)
	}

	return buildRecord(name, string(resp.Body))
}
