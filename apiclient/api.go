package apiclient

import "context"

// API is the request surface views and authenticators depend on. *Client
// implements it directly; the session gate implements it with refresh
// handling layered on top.
type API interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

var _ API = (*Client)(nil)
