// Package loader holds the per-mount fetch state of a view.
package loader

import (
	"context"
	"fmt"
	"sync"

	"github.com/jrsteele09/social-dashboard/internal/errors"
	"github.com/rs/zerolog"
)

type Status int

const (
	Loading Status = iota
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// State is the tagged result of a load. Data is only meaningful when Status
// is Loaded and Err only when it is Failed.
type State[T any] struct {
	Status Status
	Data   T
	Err    error
}

// Fetch performs the single remote request of a mount.
type Fetch[T any] func(ctx context.Context) (T, error)

// Loader runs one fetch per mount. Each Load starts a new generation; a result
// that arrives after a newer Load has started is discarded so a slow, stale
// response can never overwrite fresher state.
type Loader[T any] struct {
	name   string
	logger zerolog.Logger

	lock       sync.Mutex
	generation uint64
	state      State[T]
}

func New[T any](name string, logger zerolog.Logger) *Loader[T] {
	return &Loader[T]{name: name, logger: logger}
}

// Load resets the state to Loading, runs fetch and records its outcome. It
// returns the state after the call, which is the newer generation's state
// when this result was discarded.
func (l *Loader[T]) Load(ctx context.Context, fetch Fetch[T]) State[T] {
	gen := l.begin()
	data, err := fetch(ctx)
	return l.complete(gen, data, err)
}

func (l *Loader[T]) State() State[T] {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.state
}

// Generation returns the number of loads started so far.
func (l *Loader[T]) Generation() uint64 {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.generation
}

func (l *Loader[T]) begin() uint64 {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.generation++
	l.state = State[T]{Status: Loading}
	return l.generation
}

func (l *Loader[T]) complete(gen uint64, data T, err error) State[T] {
	l.lock.Lock()
	defer l.lock.Unlock()

	if gen != l.generation {
		l.logger.Debug().
			Str("loader", l.name).
			Uint64("generation", gen).
			Uint64("current", l.generation).
			Msg("stale response discarded")
		return l.state
	}

	if err != nil {
		l.state = State[T]{Status: Failed, Err: err}
		if errors.Is(err, context.Canceled) {
			l.logger.Debug().Err(err).Str("loader", l.name).Msg("fetch cancelled")
		} else {
			l.logger.Error().Err(err).Str("loader", l.name).Msg("fetch failed")
		}
		return l.state
	}
	l.state = State[T]{Status: Loaded, Data: data}
	return l.state
}
