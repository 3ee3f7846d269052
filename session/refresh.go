package session

import (
	"context"
	"fmt"

	"github.com/jrsteele09/social-dashboard/credentials"
	"github.com/jrsteele09/social-dashboard/internal/errors"
)

// Refresh runs the Active -> Refreshing transition. On success the renewed
// pair is saved and the gate returns to Active; on failure the store is
// cleared and the gate becomes Unauthenticated. Concurrent callers share one
// refresh. A refresh abandoned because ctx ended leaves the session as it was,
// and one overtaken by Logout is dropped with ErrUnauthenticated.
func (g *Gate) Refresh(ctx context.Context) error {
	g.lock.Lock()
	if g.state == Unauthenticated {
		g.lock.Unlock()
		return errors.ErrUnauthenticated
	}
	if c := g.refreshing; c != nil {
		g.lock.Unlock()
		select {
		case <-c.done:
			return c.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c := &call{done: make(chan struct{})}
	g.refreshing = c
	g.state = Refreshing
	epoch := g.epoch
	refreshToken := g.store.RefreshToken()
	g.lock.Unlock()

	pair, err := g.exchange(ctx, refreshToken)

	g.lock.Lock()
	if g.refreshing == c {
		g.refreshing = nil
	}
	if err == nil && g.epoch == epoch {
		err = g.store.Save(pair)
	}
	switch {
	case g.epoch != epoch:
		c.err = errors.ErrUnauthenticated
	case err == nil:
		g.state = Active
	case ctx.Err() != nil:
		g.state = Active
		c.err = ctx.Err()
	default:
		if cerr := g.store.Clear(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		g.state = Unauthenticated
		c.err = errors.Wrapf(err, "%w", errors.ErrRefreshFailure)
	}
	g.lock.Unlock()

	switch {
	case c.err == nil:
		g.logger.Debug().Msg("Session: credentials refreshed")
	case errors.Is(c.err, errors.ErrUnauthenticated):
		g.logger.Info().Msg("Session: refresh discarded after logout")
	default:
		g.logger.Error().Err(c.err).Msg("Session: refresh failed")
	}
	close(c.done)
	return c.err
}

// exchange obtains a renewed pair. Persisting it is left to Refresh, which
// first checks that no logout happened meanwhile.
func (g *Gate) exchange(ctx context.Context, refreshToken string) (credentials.Pair, error) {
	if g.refresher == nil {
		return credentials.Pair{}, fmt.Errorf("no refresher configured")
	}
	if refreshToken == "" {
		return credentials.Pair{}, fmt.Errorf("no refresh token stored")
	}
	pair, err := g.refresher.Refresh(ctx, refreshToken)
	if err != nil {
		return credentials.Pair{}, err
	}
	if pair.AccessToken == "" {
		return credentials.Pair{}, fmt.Errorf("refresher returned an empty access token")
	}
	if pair.RefreshToken == "" {
		pair.RefreshToken = refreshToken
	}
	return pair, nil
}
