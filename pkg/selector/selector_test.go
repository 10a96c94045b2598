package selector

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	path string
	err  error
	got  Request
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) PickFile(ctx context.Context, req Request) (string, error) {
	f.got = req
	return f.path, f.err
}

func TestSelect_ReturnsAbsolutePath(t *testing.T) {
	b := &fakeBackend{path: "/tmp/doc.pdf"}
	s := New(b, WithTitle("Pick one"), WithStartDir("/tmp"))

	path, ok, err := s.Select(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, filepath.Clean("/tmp/doc.pdf"), path)

	assert.Equal(t, "Pick one", b.got.Title)
	assert.Equal(t, "/tmp", b.got.StartDir)
	assert.Equal(t, DefaultFilters(), b.got.Filters)
}

func TestSelect_RelativePathIsResolved(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	path, ok, err := New(&fakeBackend{path: "scan.png"}).Select(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(wd, "scan.png"), path)
}

func TestSelect_CancelIsAbsenceNotError(t *testing.T) {
	path, ok, err := New(&fakeBackend{err: ErrCanceled}).Select(context.Background())
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, path)
}

func TestSelect_DialogFailureIsError(t *testing.T) {
	b := &fakeBackend{err: errors.Join(ErrUnavailable, errors.New("zenity not found"))}

	path, ok, err := New(b).Select(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, ok)
	assert.Empty(t, path)
}

func TestSelect_EmptyPathWithoutErrorIsAbsence(t *testing.T) {
	_, ok, err := New(&fakeBackend{}).Select(context.Background())
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestSelect_InterruptedContextIsReturnedUnwrapped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path, ok, err := New(&fakeBackend{err: context.Canceled}).Select(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.False(t, ok)
	assert.Empty(t, path)
}
