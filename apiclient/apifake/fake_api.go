package apifake

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/jrsteele09/social-dashboard/apiclient"
)

var _ apiclient.API = (*FakeAPI)(nil)

// Handler produces the response for a routed call. body is the request body
// for POST calls and nil for GET.
type Handler func(ctx context.Context, body any) (any, error)

// Call is a recorded request.
type Call struct {
	Method string
	Path   string
	Body   any
}

// FakeAPI routes calls to handlers keyed by "METHOD path". Responses are
// passed through JSON so out receives exactly what a real client would
// decode. Unrouted calls fail with a 404 *apiclient.Error.
type FakeAPI struct {
	routes map[string]Handler
	calls  []Call
	lock   sync.Mutex
}

func NewFakeAPI() *FakeAPI {
	return &FakeAPI{routes: make(map[string]Handler)}
}

func (f *FakeAPI) Handle(method, path string, h Handler) *FakeAPI {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.routes[method+" "+path] = h
	return f
}

// Respond routes method and path to a fixed response.
func (f *FakeAPI) Respond(method, path string, resp any) *FakeAPI {
	return f.Handle(method, path, func(context.Context, any) (any, error) { return resp, nil })
}

// Fail routes method and path to a response with the given status code.
func (f *FakeAPI) Fail(method, path string, status int) *FakeAPI {
	return f.Handle(method, path, func(context.Context, any) (any, error) {
		return nil, &apiclient.Error{Method: method, Path: path, StatusCode: status}
	})
}

func (f *FakeAPI) Get(ctx context.Context, path string, out any) error {
	return f.dispatch(ctx, http.MethodGet, path, nil, out)
}

func (f *FakeAPI) Post(ctx context.Context, path string, body, out any) error {
	return f.dispatch(ctx, http.MethodPost, path, body, out)
}

// Calls returns the recorded requests in order.
func (f *FakeAPI) Calls() []Call {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallCount returns how many requests were made to method and path.
func (f *FakeAPI) CallCount(method, path string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (f *FakeAPI) dispatch(ctx context.Context, method, path string, body, out any) error {
	f.lock.Lock()
	f.calls = append(f.calls, Call{Method: method, Path: path, Body: body})
	h, ok := f.routes[method+" "+path]
	f.lock.Unlock()

	if !ok {
		return &apiclient.Error{Method: method, Path: path, StatusCode: http.StatusNotFound}
	}
	resp, err := h(ctx, body)
	if err != nil {
		return err
	}
	if out == nil || resp == nil {
		return nil
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("apifake: encode response: %w", err)
	}
	return json.Unmarshal(data, out)
}
