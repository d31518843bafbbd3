package memory

import (
	"context"
	"sync"

	"github.com/daniil11ru/tracker/cli/tracker/storage/cache"
	"github.com/daniil11ru/tracker/cli/tracker/types"
)

// Store кэш в памяти процесса. Значения хранятся сериализованными, как и в Redis.
type Store struct {
	mu       sync.RWMutex
	codec    cache.Codec
	latest   map[int64][]byte
	snapshot []byte
}

func New(codec cache.Codec) *Store {
	return &Store{codec: codec, latest: make(map[int64][]byte)}
}

func (s *Store) Init(cfg map[string]string) error {
	codec, err := cache.NewCodec(cfg["codec"])
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codec = codec
	s.latest = make(map[int64][]byte)
	s.snapshot = nil
	return nil
}

func (s *Store) PutLatest(_ context.Context, deviceID int64, record types.Record) error {
	data, err := s.codec.EncodeRecord(record)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.latest[deviceID] = data
	s.mu.Unlock()
	return nil
}

func (s *Store) GetLatest(_ context.Context, deviceID int64) (types.Record, error) {
	s.mu.RLock()
	data, ok := s.latest[deviceID]
	s.mu.RUnlock()
	if !ok {
		return types.Record{}, cache.ErrNotFound
	}
	return s.codec.DecodeRecord(data)
}

func (s *Store) PutSnapshot(_ context.Context, snapshot types.Snapshot) error {
	data, err := s.codec.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snapshot = data
	s.mu.Unlock()
	return nil
}

func (s *Store) GetSnapshot(_ context.Context) (types.Snapshot, error) {
	s.mu.RLock()
	data := s.snapshot
	s.mu.RUnlock()
	if data == nil {
		return nil, cache.ErrNotFound
	}
	return s.codec.DecodeSnapshot(data)
}

func (s *Store) Replace(_ context.Context, dataset types.Dataset) error {
	snapshot, err := s.codec.EncodeSnapshot(dataset.Snapshot)
	if err != nil {
		return err
	}
	latest := make(map[int64][]byte, len(dataset.Latest))
	for id, record := range dataset.Latest {
		if latest[id], err = s.codec.EncodeRecord(record); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.latest = latest
	s.snapshot = snapshot
	s.mu.Unlock()
	return nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) Close() error {
	return nil
}
