package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/social-dashboard/apiclient"
	"github.com/jrsteele09/social-dashboard/credentials/filestore"
	"github.com/jrsteele09/social-dashboard/internal/config"
	apperrors "github.com/jrsteele09/social-dashboard/internal/errors"
	"github.com/jrsteele09/social-dashboard/internal/logging"
	"github.com/jrsteele09/social-dashboard/internal/metrics"
	"github.com/jrsteele09/social-dashboard/platforms"
	"github.com/jrsteele09/social-dashboard/posts"
	"github.com/jrsteele09/social-dashboard/session"
	"github.com/jrsteele09/social-dashboard/views"
	"github.com/rs/zerolog"
)

// app wires the credentials store, API client and session gate for a single
// process run. A run is one "page load": the gate makes at most one automatic
// acquisition attempt.
type app struct {
	config        config.Config
	logger        zerolog.Logger
	out           io.Writer
	viewOpts      []views.Option
	store         *filestore.Store
	client        *apiclient.Client
	gate          *session.Gate
	metrics       *metrics.Client
	metricsServer *http.Server
}

// runCommand builds the app and dispatches command. logout still works when
// the credentials file cannot be read: the file is removed without decoding.
func runCommand(ctx context.Context, c config.Config, logger zerolog.Logger, out io.Writer, colour bool, command string, f cliFlags) error {
	a, err := newApp(ctx, c, logger, out, colour)
	if err != nil {
		if command != "logout" || !apperrors.Is(err, apperrors.ErrStorage) {
			return err
		}
		logger.Warn().Err(err).Msg("Logout: discarding unreadable credentials file")
		if err := filestore.Remove(c.GetCredentialsFile()); err != nil {
			return err
		}
		fmt.Fprintln(out, "Logged out.")
		return nil
	}
	defer a.close()
	return a.dispatch(ctx, command, f)
}

func newApp(ctx context.Context, c config.Config, logger zerolog.Logger, out io.Writer, colour bool) (*app, error) {
	store, err := filestore.Open(c.GetCredentialsFile(), c.GetCredentialsPassphrase())
	if err != nil {
		return nil, err
	}

	m := metrics.NewClient("dashboard")
	rps, burst := c.GetRateLimit()
	client, err := apiclient.New(c.GetAPIBaseURL(), store,
		apiclient.WithTimeout(c.GetRequestTimeout()),
		apiclient.WithRateLimit(rps, burst),
		apiclient.WithMetrics(m),
		apiclient.WithLogger(logging.Component(logger, "apiclient")),
	)
	if err != nil {
		return nil, err
	}

	auth, refresher, err := newAuthenticator(ctx, c, client)
	if err != nil {
		return nil, err
	}

	a := &app{
		config:   c,
		logger:   logger,
		out:      out,
		viewOpts: []views.Option{views.WithColour(colour), views.WithLocation(time.Local)},
		store:    store,
		client:   client,
		metrics:  m,
		gate: session.NewGate(store, client, auth,
			session.WithRefresher(refresher),
			session.WithLogger(logging.Component(logger, "session")),
		),
	}
	if addr := c.GetMetricsAddr(); addr != "" {
		a.serveMetrics(addr)
	}
	return a, nil
}

func newAuthenticator(ctx context.Context, c config.AuthConfig, client *apiclient.Client) (session.Authenticator, session.Refresher, error) {
	switch c.GetAuthMode() {
	case config.DevAuthMode:
		return session.NewPasswordAuthenticator(client, c.GetUsername(), c.GetPassword()),
			session.NewAPIRefresher(client), nil
	case config.OIDCAuthMode:
		oidcAuth, err := session.NewOIDCAuthenticator(ctx, session.OIDCParams{
			Issuer:       c.GetOIDCIssuer(),
			ClientID:     c.GetOIDCClientID(),
			ClientSecret: c.GetOIDCClientSecret(),
			Username:     c.GetUsername(),
			Password:     c.GetPassword(),
		})
		if err != nil {
			return nil, nil, err
		}
		return oidcAuth, oidcAuth, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown AUTH_MODE %q", apperrors.ErrInvalidConfig, c.GetAuthMode())
	}
}

func (a *app) serveMetrics(addr string) {
	r := chi.NewRouter()
	r.Handle("/metrics", a.metrics.Handler())
	a.metricsServer = &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Err(err).Str("addr", addr).Msg("Metrics server stopped")
		}
	}()
}

func (a *app) close() {
	if a.metricsServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.metricsServer.Shutdown(ctx); err != nil {
		a.logger.Err(err).Msg("Metrics server shutdown")
	}
}

func (a *app) dispatch(ctx context.Context, command string, f cliFlags) error {
	switch command {
	case "dashboard":
		return a.render(ctx, views.NewDashboard(a.viewLogger("dashboard"), a.viewOpts...))
	case "posts":
		return a.render(ctx, views.NewPosts(a.viewLogger("posts"), a.viewOpts...))
	case "platforms":
		q, err := url.ParseQuery(strings.TrimPrefix(f.query, "?"))
		if err != nil {
			return fmt.Errorf("invalid -query: %w", err)
		}
		return a.render(ctx, views.NewPlatforms(q, a.viewLogger("platforms"), a.viewOpts...))
	case "connect":
		return a.connect(ctx)
	case "create":
		return a.create(ctx, f)
	case "watch":
		return a.watch(ctx, f.interval)
	case "logout":
		if err := a.gate.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Logged out.")
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) viewLogger(name string) zerolog.Logger {
	return logging.Component(a.logger, "view").With().Str("view", name).Logger()
}

// render mounts the gate and then the view. An acquisition failure only
// leaves the gate's placeholder on screen; the reason is in the log. Storage
// failures are fatal.
func (a *app) render(ctx context.Context, view session.View) error {
	if err := a.gate.Mount(ctx); apperrors.Is(err, apperrors.ErrStorage) {
		return err
	}
	return a.gate.Render(ctx, a.out, view)
}

func (a *app) connect(ctx context.Context) error {
	view := views.NewPlatforms(url.Values{}, a.viewLogger("platforms"), a.viewOpts...)
	if err := a.render(ctx, view); err != nil {
		return err
	}
	if a.gate.State() == session.Unauthenticated {
		return nil
	}

	listener, err := platforms.ListenCallback(a.config.GetCallbackAddr(), a.logger)
	if err != nil {
		return err
	}
	authURL, err := view.Connect(ctx)
	if err != nil {
		listener.Close()
		return view.Render(a.out)
	}

	fmt.Fprintf(a.out, "\nOpen this URL in your browser to authorise Instagram:\n  %s\n", authURL)
	fmt.Fprintf(a.out, "Waiting for the redirect on http://%s%s ...\n\n", listener.Addr(), platforms.CallbackPath)

	status, err := listener.Wait(ctx)
	if err != nil {
		return err
	}
	return a.gate.Render(ctx, a.out, views.NewPlatforms(status.Query(), a.viewLogger("platforms"), a.viewOpts...))
}

func (a *app) create(ctx context.Context, f cliFlags) error {
	if strings.TrimSpace(f.content) == "" {
		return fmt.Errorf("create: -content is required")
	}
	if err := a.gate.Mount(ctx); err != nil {
		return err
	}
	var targets []string
	for _, p := range strings.Split(f.platforms, ",") {
		if p = strings.TrimSpace(p); p != "" {
			targets = append(targets, strings.ToLower(p))
		}
	}
	created, err := posts.NewService(a.gate).Create(ctx, posts.NewPost{
		Content:   f.content,
		Goal:      posts.Goal(f.goal),
		Platforms: targets,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created post %d (%s)\n", created.ID, created.Status)
	return nil
}

// watch re-enters the dashboard on every tick. Mounts overlap when the API is
// slower than the interval; the loader keeps only the newest result and each
// frame is written whole. Frames finished after ctx ends are dropped.
func (a *app) watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("watch: -interval must be positive")
	}
	if err := a.gate.Mount(ctx); apperrors.Is(err, apperrors.ErrStorage) {
		return err
	}

	view := views.NewDashboard(a.viewLogger("dashboard"), a.viewOpts...)
	var outLock sync.Mutex
	var wg sync.WaitGroup
	tick := func() {
		defer wg.Done()
		var frame bytes.Buffer
		err := a.gate.Render(ctx, &frame, view)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			a.logger.Err(err).Msg("Watch: render failed")
			return
		}
		outLock.Lock()
		defer outLock.Unlock()
		if _, err := frame.WriteTo(a.out); err != nil {
			a.logger.Err(err).Msg("Watch: write failed")
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	wg.Add(1)
	go tick()
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil
		case <-ticker.C:
			wg.Add(1)
			go tick()
		}
	}
}
