package credentialsrepofake

import (
	"sync"

	"github.com/jrsteele09/social-dashboard/credentials"
)

var _ credentials.Store = (*FakeStore)(nil)

// FakeStore is an in-memory credentials.Store. SaveErr, when set, is returned
// from Save without modifying the stored pair.
type FakeStore struct {
	pair    credentials.Pair
	saves   int
	SaveErr error
	lock    sync.RWMutex
}

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

// NewFakeStoreWith returns a fake already holding pair.
func NewFakeStoreWith(pair credentials.Pair) *FakeStore {
	return &FakeStore{pair: pair}
}

func (s *FakeStore) Save(pair credentials.Pair) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.pair = pair
	s.saves++
	return nil
}

func (s *FakeStore) Clear() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.pair = credentials.Pair{}
	return nil
}

func (s *FakeStore) AccessToken() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.pair.AccessToken
}

func (s *FakeStore) RefreshToken() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.pair.RefreshToken
}

// Pair returns a copy of the stored pair.
func (s *FakeStore) Pair() credentials.Pair {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.pair
}

// Saves returns how many times Save succeeded.
func (s *FakeStore) Saves() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.saves
}
