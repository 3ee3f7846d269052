package authfake

import (
	"context"
	"sync"

	"github.com/jrsteele09/social-dashboard/credentials"
	"github.com/jrsteele09/social-dashboard/session"
)

var (
	_ session.Authenticator = (*FakeAuthenticator)(nil)
	_ session.Refresher     = (*FakeRefresher)(nil)
)

// FakeAuthenticator returns Pair, or Err when set, and counts calls. Block,
// when non-nil, is waited on before returning.
type FakeAuthenticator struct {
	Pair  credentials.Pair
	Err   error
	Block chan struct{}

	calls int
	lock  sync.Mutex
}

func NewFakeAuthenticator(pair credentials.Pair) *FakeAuthenticator {
	return &FakeAuthenticator{Pair: pair}
}

func NewFailingAuthenticator(err error) *FakeAuthenticator {
	return &FakeAuthenticator{Err: err}
}

func (a *FakeAuthenticator) Authenticate(ctx context.Context) (credentials.Pair, error) {
	a.lock.Lock()
	a.calls++
	a.lock.Unlock()

	if a.Block != nil {
		select {
		case <-a.Block:
		case <-ctx.Done():
			return credentials.Pair{}, ctx.Err()
		}
	}
	if a.Err != nil {
		return credentials.Pair{}, a.Err
	}
	return a.Pair, nil
}

func (a *FakeAuthenticator) Calls() int {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.calls
}

// FakeRefresher returns Pair, or Err when set, and records the refresh tokens
// it was given. Block, when non-nil, is waited on before returning.
type FakeRefresher struct {
	Pair  credentials.Pair
	Err   error
	Block chan struct{}

	tokens []string
	lock   sync.Mutex
}

func (r *FakeRefresher) Refresh(ctx context.Context, refreshToken string) (credentials.Pair, error) {
	r.lock.Lock()
	r.tokens = append(r.tokens, refreshToken)
	r.lock.Unlock()

	if r.Block != nil {
		select {
		case <-r.Block:
		case <-ctx.Done():
			return credentials.Pair{}, ctx.Err()
		}
	}
	if r.Err != nil {
		return credentials.Pair{}, r.Err
	}
	return r.Pair, nil
}

func (r *FakeRefresher) Tokens() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]string(nil), r.tokens...)
}
