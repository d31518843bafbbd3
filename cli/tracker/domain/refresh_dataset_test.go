package domain

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/daniil11ru/tracker/cli/tracker/source"
	"github.com/daniil11ru/tracker/cli/tracker/source/object/s3"
	"github.com/daniil11ru/tracker/cli/tracker/types"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	body string
	err  error
}

func (s *fakeSource) Fetch(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(strings.NewReader(s.body)), nil
}

type recordingNotifier struct {
	events [][]byte
}

func (n *recordingNotifier) Save(m interface{ ToBytes() ([]byte, error) }) error {
	data, err := m.ToBytes()
	n.events = append(n.events, data)
	return err
}

func TestRefreshDataset_Run(t *testing.T) {
	log.SetOutput(io.Discard)

	originalNow := now
	now = func() time.Time { return at(59) }
	defer func() { now = originalNow }()

	store := newMemoryStore(t)
	notifier := &recordingNotifier{}
	refresh := &RefreshDataset{
		Source:   &fakeSource{body: scenarioCSV},
		Bucket:   "carnot-bucket",
		Key:      "data/data.csv",
		Store:    store,
		Notifier: notifier,
	}

	d, err := refresh.Run(ctx)
	require.NoError(t, err)
	assert.Len(t, d.Snapshot, 3)

	snapshot, err := store.GetSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, d.Snapshot, snapshot)

	require.Len(t, notifier.events, 1)
	var event types.LoadEvent
	require.NoError(t, json.Unmarshal(notifier.events[0], &event))
	assert.Equal(t, types.LoadEvent{
		Version:  1,
		Bucket:   "carnot-bucket",
		Key:      "data/data.csv",
		Records:  3,
		Devices:  2,
		LoadedAt: at(59),
	}, event)
}

func TestRefreshDataset_FailedReloadKeepsCache(t *testing.T) {
	log.SetOutput(io.Discard)

	store := newMemoryStore(t)
	fake := &fakeSource{body: scenarioCSV}
	refresh := &RefreshDataset{Source: fake, Store: store}

	loaded, err := refresh.Run(ctx)
	require.NoError(t, err)

	tests := []struct {
		name string
		src  fakeSource
		kind LoadErrorKind
	}{
		{name: "Source unavailable", src: fakeSource{err: errors.New("AccessDenied")}, kind: SourceUnavailable},
		{name: "Malformed row", src: fakeSource{body: header + "oops,1,1,2021-10-23,2021-10-23,0\n"}, kind: ParseFailure},
		{name: "NaN speed", src: fakeSource{body: header + "1,1,1,2021-10-23,2021-10-23,NaN\n"}, kind: ParseFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			*fake = tt.src

			_, err := refresh.Run(ctx)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr), "expected LoadError, got %v", err)
			assert.Equal(t, tt.kind, loadErr.Kind)

			snapshot, err := store.GetSnapshot(ctx)
			require.NoError(t, err)
			assert.Equal(t, loaded.Snapshot, snapshot)

			latest, err := store.GetLatest(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, loaded.Latest[1], latest)
		})
	}
}

func TestRefreshDataset_MissingCredentialsIsSourceUnavailable(t *testing.T) {
	log.SetOutput(io.Discard)

	objects, err := s3.New(ctx, s3.Settings{Endpoint: "http://127.0.0.1:1"})
	require.NoError(t, err)

	refresh := &RefreshDataset{Source: objects, Bucket: "carnot-bucket", Key: "data/data.csv", Store: newMemoryStore(t)}
	err = refresh.Initialize(ctx, "")

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr), "expected LoadError, got %v", err)
	assert.Equal(t, SourceUnavailable, loadErr.Kind)
	assert.ErrorIs(t, err, source.ErrCredentialsMissing)
}

func TestRefreshDataset_Initialize(t *testing.T) {
	log.SetOutput(io.Discard)

	refresh := &RefreshDataset{Source: &fakeSource{body: scenarioCSV}, Store: newMemoryStore(t)}
	require.NoError(t, refresh.Initialize(ctx, "@every 1h"))
	refresh.Shutdown()

	refresh = &RefreshDataset{Source: &fakeSource{body: scenarioCSV}, Store: newMemoryStore(t)}
	assert.Error(t, refresh.Initialize(ctx, "every now and then"))

	refresh = &RefreshDataset{Source: &fakeSource{err: errors.New("no route to host")}, Store: newMemoryStore(t)}
	err := refresh.Initialize(ctx, "")
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, SourceUnavailable, loadErr.Kind)
}
