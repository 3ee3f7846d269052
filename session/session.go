package session

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jrsteele09/social-dashboard/apiclient"
	"github.com/jrsteele09/social-dashboard/credentials"
	"github.com/jrsteele09/social-dashboard/internal/errors"
	"github.com/rs/zerolog"
)

// Placeholder is rendered in place of any view while no session is active.
const Placeholder = "Loading session..."

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

type State int

const (
	Unauthenticated State = iota
	Active
	Refreshing
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Active:
		return "active"
	case Refreshing:
		return "refreshing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Authenticator establishes a new session by obtaining a credential pair.
type Authenticator interface {
	Authenticate(ctx context.Context) (credentials.Pair, error)
}

// Refresher exchanges a refresh token for a renewed credential pair. An empty
// RefreshToken in the returned pair means the previous one stays valid.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (credentials.Pair, error)
}

// View is a routed screen. Mount runs the view's data loaders through api and
// never fails: fetch failures are recorded in the view's own state.
type View interface {
	Mount(ctx context.Context, api apiclient.API)
	Render(w io.Writer) error
}

// call is an in-flight acquisition or refresh shared by concurrent callers.
type call struct {
	done chan struct{}
	err  error
}

// Gate decides whether views may mount. It is the only writer of the
// credentials store and, through Get and Post, the session context every view
// issues its requests with.
type Gate struct {
	store     credentials.Store
	api       apiclient.API
	auth      Authenticator
	refresher Refresher
	logger    zerolog.Logger

	lock       sync.Mutex
	state      State
	acquire    *call
	refreshing *call
	// epoch is bumped by Logout. Acquisitions and refreshes started under an
	// earlier epoch drop their result.
	epoch uint64
}

var _ apiclient.API = (*Gate)(nil)

type Option func(*Gate)

// WithRefresher enables the refresh transition. Without one, an expired or
// rejected access token is passed through to the caller as a fetch failure.
func WithRefresher(r Refresher) Option {
	return func(g *Gate) {
		g.refresher = r
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

// NewGate returns a gate that starts Active when store already holds an
// access token and Unauthenticated otherwise.
func NewGate(store credentials.Store, api apiclient.API, auth Authenticator, opts ...Option) *Gate {
	g := &Gate{
		store:  store,
		api:    api,
		auth:   auth,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if credentials.HasSession(store) {
		g.state = Active
	}
	return g
}

func (g *Gate) State() State {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.state
}

// Mount performs the automatic acquisition when no session is active. Only one
// attempt is ever made per Gate; later calls report the outcome of that
// attempt without contacting the authenticator again.
func (g *Gate) Mount(ctx context.Context) error {
	g.lock.Lock()
	if g.state != Unauthenticated {
		g.lock.Unlock()
		return nil
	}
	if c := g.acquire; c != nil {
		g.lock.Unlock()
		<-c.done
		if c.err == nil && g.State() == Unauthenticated {
			return errors.ErrUnauthenticated
		}
		return c.err
	}
	c := &call{done: make(chan struct{})}
	g.acquire = c
	epoch := g.epoch
	g.lock.Unlock()

	pair, err := g.authenticate(ctx)

	g.lock.Lock()
	superseded := err == nil && g.epoch != epoch
	if err == nil && !superseded {
		if err = g.store.Save(pair); err == nil {
			g.state = Active
		}
	}
	g.lock.Unlock()

	switch {
	case superseded:
		c.err = errors.ErrUnauthenticated
		g.logger.Info().Msg("Session: acquisition discarded after logout")
	case err != nil:
		c.err = errors.Wrapf(err, "%w", errors.ErrAcquisitionFailure)
		g.logger.Error().Err(err).Msg("Session: credential acquisition failed")
	default:
		g.logger.Info().Msg("Session: credential acquired")
	}
	close(c.done)
	return c.err
}

func (g *Gate) authenticate(ctx context.Context) (credentials.Pair, error) {
	if g.auth == nil {
		return credentials.Pair{}, fmt.Errorf("no authenticator configured")
	}
	pair, err := g.auth.Authenticate(ctx)
	if err != nil {
		return credentials.Pair{}, err
	}
	if pair.AccessToken == "" {
		return credentials.Pair{}, fmt.Errorf("authenticator returned an empty access token")
	}
	return pair, nil
}

// Render mounts and renders view when a session is active. In any other
// state it writes Placeholder and the view is never mounted.
func (g *Gate) Render(ctx context.Context, w io.Writer, view View) error {
	if g.State() == Unauthenticated {
		_ = g.Mount(ctx)
	}
	if g.State() == Unauthenticated {
		_, err := fmt.Fprintln(w, Placeholder)
		return err
	}
	view.Mount(ctx, g)
	return view.Render(w)
}

// Logout clears the stored credentials and moves the gate to
// Unauthenticated. Acquisitions and refreshes still in flight are discarded
// when they complete.
func (g *Gate) Logout() error {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.epoch++
	if err := g.store.Clear(); err != nil {
		return err
	}
	g.state = Unauthenticated
	g.logger.Info().Msg("Session: logged out")
	return nil
}

// Get issues a GET through the session: it is refused without a network call
// while unauthenticated and retried once after a successful refresh.
func (g *Gate) Get(ctx context.Context, path string, out any) error {
	return g.do(ctx, func(ctx context.Context) error {
		return g.api.Get(ctx, path, out)
	})
}

// Post issues a POST through the session. See Get.
func (g *Gate) Post(ctx context.Context, path string, body, out any) error {
	return g.do(ctx, func(ctx context.Context) error {
		return g.api.Post(ctx, path, body, out)
	})
}

func (g *Gate) do(ctx context.Context, send func(context.Context) error) error {
	if g.State() == Unauthenticated {
		return errors.ErrUnauthenticated
	}
	if g.refresher != nil && AccessTokenExpired(g.store.AccessToken(), NowTimeFunc()) {
		if err := g.Refresh(ctx); err != nil {
			return err
		}
	}

	err := send(ctx)
	if err == nil || g.refresher == nil || !errors.Is(err, errors.ErrUnauthorized) {
		return err
	}
	if rerr := g.Refresh(ctx); rerr != nil {
		return rerr
	}
	return send(ctx)
}
