package courses

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var (
	// ErrNotReady is returned while the dataset is still loading.
	ErrNotReady = errors.New("dataset not loaded yet")
	// ErrLoadFailed wraps the cause of a failed load.
	ErrLoadFailed = errors.New("dataset load failed")
)

// Loader fetches the dataset once, in the background, and records the outcome.
type Loader struct {
	src     Source
	timeout time.Duration
	log     *slog.Logger

	once sync.Once
	done chan struct{}

	mu    sync.RWMutex
	state LoadState
	doc   *Document
	err   error
}

func NewLoader(src Source, timeout time.Duration, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		src:     src,
		timeout: timeout,
		log:     log,
		done:    make(chan struct{}),
		state:   StatePending,
	}
}

// Start launches the load. Calls after the first are no-ops.
func (l *Loader) Start(ctx context.Context) {
	l.once.Do(func() {
		go l.run(ctx)
	})
}

func (l *Loader) run(ctx context.Context) {
	defer close(l.done)

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	started := time.Now()
	doc, err := l.src.Load(ctx)
	if err == nil && doc == nil {
		err = errors.New("source returned no document")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.state = StateFailed
		l.err = fmt.Errorf("%w: %s: %w", ErrLoadFailed, l.src.Name(), err)
		l.log.Error("dataset load failed", "source", l.src.Name(), "error", err)
		return
	}

	for _, issue := range Validate(doc.Courses) {
		l.log.Warn("dataset record invalid", "index", issue.Index, "field", issue.Field, "problem", issue.Problem)
	}
	l.state = StateReady
	l.doc = doc
	l.log.Info("dataset loaded",
		"source", l.src.Name(),
		"courses", len(doc.Courses),
		"duration", time.Since(started),
	)
}

// State returns the current lifecycle state and, when failed, the error.
func (l *Loader) State() (LoadState, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state, l.err
}

// Document returns the loaded dataset, ErrNotReady while pending, or the load error.
func (l *Loader) Document() (*Document, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	switch l.state {
	case StateReady:
		return l.doc, nil
	case StateFailed:
		return nil, l.err
	}
	return nil, ErrNotReady
}

// Wait blocks until the load settles or ctx ends.
func (l *Loader) Wait(ctx context.Context) error {
	select {
	case <-l.done:
		_, err := l.Document()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
