package platforms

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/social-dashboard/internal/errors"
	"github.com/rs/zerolog"
)

// CallbackPath is where the API redirects the browser after the handshake.
const CallbackPath = "/platforms"

// CallbackHandler serves the redirect-back route and delivers the parsed
// status to results. Only the first status is delivered; later redirects are
// acknowledged but dropped.
func CallbackHandler(results chan<- ConnectionStatus, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Get(CallbackPath, func(w http.ResponseWriter, req *http.Request) {
		status := ParseStatus(req.URL.Query())
		select {
		case results <- status:
		default:
			logger.Debug().Str("state", string(status.State)).Msg("Callback: status already delivered")
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		switch status.State {
		case Connected:
			fmt.Fprintln(w, "Instagram connected. You can close this window.")
		case Errored:
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "Error: %s\n", status.Message)
		default:
			fmt.Fprintln(w, "No connection status received.")
		}
	})
	return r
}

// CallbackListener receives a single redirect-back on a local address.
type CallbackListener struct {
	listener net.Listener
	server   *http.Server
	results  chan ConnectionStatus
}

// ListenCallback starts listening on addr. Use Addr to build the redirect
// target when addr picks a random port.
func ListenCallback(addr string, logger zerolog.Logger) (*CallbackListener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "[ListenCallback] listen %s", addr)
	}
	results := make(chan ConnectionStatus, 1)
	cl := &CallbackListener{
		listener: ln,
		results:  results,
		server: &http.Server{
			Handler:           CallbackHandler(results, logger),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
	go func() {
		if err := cl.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Err(err).Msg("Callback: server stopped")
		}
	}()
	return cl, nil
}

func (cl *CallbackListener) Addr() string {
	return cl.listener.Addr().String()
}

// Wait blocks until a redirect arrives or ctx ends, then shuts the listener
// down.
func (cl *CallbackListener) Wait(ctx context.Context) (ConnectionStatus, error) {
	defer cl.Close()
	select {
	case status := <-cl.results:
		return status, nil
	case <-ctx.Done():
		return ConnectionStatus{}, ctx.Err()
	}
}

func (cl *CallbackListener) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return cl.server.Shutdown(ctx)
}
