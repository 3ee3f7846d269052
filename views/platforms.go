package views

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/jrsteele09/social-dashboard/apiclient"
	"github.com/jrsteele09/social-dashboard/internal/errors"
	"github.com/jrsteele09/social-dashboard/loader"
	"github.com/jrsteele09/social-dashboard/platforms"
	"github.com/rs/zerolog"
)

const ConnectFailedMessage = "Failed to initiate connection"

// Platforms shows the connection state of the supported platforms. The state
// comes only from the redirect query the view was entered with; connecting
// is a separate, user-triggered fetch.
type Platforms struct {
	status  platforms.ConnectionStatus
	connect *loader.Loader[string]
	api     apiclient.API
	opts    options
}

func NewPlatforms(query url.Values, logger zerolog.Logger, opts ...Option) *Platforms {
	return &Platforms{
		status:  platforms.ParseStatus(query),
		connect: loader.New[string]("platform-connect", logger),
		opts:    newOptions(opts),
	}
}

// Mount keeps the session API for Connect. Nothing is fetched on entry.
func (v *Platforms) Mount(_ context.Context, api apiclient.API) {
	v.api = api
}

func (v *Platforms) Status() platforms.ConnectionStatus {
	return v.status
}

// Connect fetches the external authorisation URL for Instagram.
func (v *Platforms) Connect(ctx context.Context) (string, error) {
	if v.api == nil {
		return "", errors.ErrUnauthenticated
	}
	svc := platforms.NewService(v.api)
	st := v.connect.Load(ctx, func(ctx context.Context) (string, error) {
		return svc.Connect(ctx, platforms.Instagram)
	})
	if st.Status == loader.Failed {
		return "", st.Err
	}
	return st.Data, nil
}

func (v *Platforms) Render(w io.Writer) error {
	v.opts.heading(w, "Platforms")
	if v.status.State == platforms.Errored {
		fmt.Fprintln(w, v.opts.paint(Red, "Error: "+v.status.Message))
	}

	if v.status.State == platforms.Connected {
		fmt.Fprintf(w, "Instagram: %s\n", v.opts.paint(Green, "Connected"))
	} else {
		fmt.Fprintln(w, "Instagram: not linked")
	}

	if v.connect.Generation() == 0 {
		return nil
	}
	switch st := v.connect.State(); st.Status {
	case loader.Loaded:
		fmt.Fprintf(w, "Authorise at: %s\n", st.Data)
	case loader.Failed:
		fmt.Fprintln(w, v.opts.paint(Red, ConnectFailedMessage))
	}
	return nil
}
