package courses

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// gatedSource blocks Load until release is closed.
type gatedSource struct {
	release chan struct{}
	doc     *Document
	err     error
}

func (s *gatedSource) Name() string { return "gated" }

func (s *gatedSource) Load(ctx context.Context) (*Document, error) {
	select {
	case <-s.release:
		return s.doc, s.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoaderPendingToReady(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	src := &gatedSource{release: make(chan struct{}), doc: &Document{Courses: sample}}
	l := NewLoader(src, time.Second, discardLogger())

	state, err := l.State()
	assert.Equal(t, StatePending, state)
	assert.NoError(t, err)

	l.Start(context.Background())
	l.Start(context.Background()) // no second load

	_, err = l.Document()
	assert.ErrorIs(t, err, ErrNotReady)

	close(src.release)
	require.NoError(t, l.Wait(context.Background()))

	state, err = l.State()
	assert.Equal(t, StateReady, state)
	assert.NoError(t, err)

	doc, err := l.Document()
	require.NoError(t, err)
	assert.Equal(t, sample, doc.Courses)
}

func TestLoaderPendingToFailed(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	boom := errors.New("connection refused")
	src := &gatedSource{release: make(chan struct{}), err: boom}
	close(src.release)

	l := NewLoader(src, time.Second, discardLogger())
	l.Start(context.Background())

	err := l.Wait(context.Background())
	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "gated")

	state, stateErr := l.State()
	assert.Equal(t, StateFailed, state)
	assert.ErrorIs(t, stateErr, boom)

	_, err = l.Document()
	assert.ErrorIs(t, err, ErrLoadFailed)
}

func TestLoaderTimeout(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	src := &gatedSource{release: make(chan struct{})}
	l := NewLoader(src, 20*time.Millisecond, discardLogger())
	l.Start(context.Background())

	err := l.Wait(context.Background())
	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoaderNilDocumentFails(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	src := &gatedSource{release: make(chan struct{})}
	close(src.release)

	l := NewLoader(src, 0, discardLogger())
	l.Start(context.Background())
	assert.ErrorIs(t, l.Wait(context.Background()), ErrLoadFailed)
}

func TestLoaderWaitHonorsContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	src := &gatedSource{release: make(chan struct{}), doc: &Document{}}
	l := NewLoader(src, 0, discardLogger())
	l.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Wait(ctx), context.DeadlineExceeded)

	close(src.release)
	require.NoError(t, l.Wait(context.Background()))
}

func TestLoaderLogsInvalidRecords(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	src := &gatedSource{release: make(chan struct{}), doc: &Document{Courses: []Course{
		{Name: "A", Date: "someday", Category: "X"},
	}}}
	close(src.release)

	l := NewLoader(src, 0, log)
	l.Start(context.Background())
	require.NoError(t, l.Wait(context.Background()), "invalid dates do not fail the load")

	assert.Contains(t, buf.String(), "dataset record invalid")
	assert.Contains(t, buf.String(), "field=fecha")
}
