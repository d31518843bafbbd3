package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/daniil11ru/tracker/cli/tracker/storage/cache"
	"github.com/daniil11ru/tracker/cli/tracker/types"
)

var (
	ErrNoData         = errors.New("нет данных в кэше")
	ErrDeviceNotFound = errors.New("устройство не найдено")
)

type InvalidRangeError struct {
	Param string
	Value string
	Err   error
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("некорректный параметр %s=%q: %v", e.Param, e.Value, e.Err)
}

func (e *InvalidRangeError) Unwrap() error {
	return e.Err
}

// ParseRange разбирает границы временного окна запроса.
func ParseRange(start, end string) (time.Time, time.Time, error) {
	startTime, err := types.ParseTime(start)
	if err != nil {
		return time.Time{}, time.Time{}, &InvalidRangeError{Param: "start_time", Value: start, Err: err}
	}
	endTime, err := types.ParseTime(end)
	if err != nil {
		return time.Time{}, time.Time{}, &InvalidRangeError{Param: "end_time", Value: end, Err: err}
	}
	return startTime, endTime, nil
}

// FullDataset возвращает снимок в порядке хранения.
func FullDataset(snapshot types.Snapshot) (types.Snapshot, error) {
	if snapshot == nil {
		return nil, ErrNoData
	}
	return snapshot, nil
}

// StartEndLocation первая и последняя позиции устройства в порядке снимка.
func StartEndLocation(snapshot types.Snapshot, deviceID int64) (types.Position2D, types.Position2D, error) {
	var start, end types.Position2D
	found := false
	for _, record := range snapshot {
		if record.DeviceID != deviceID {
			continue
		}
		if !found {
			start = record.Position()
			found = true
		}
		end = record.Position()
	}
	if !found {
		return start, end, ErrDeviceNotFound
	}
	return start, end, nil
}

// LocationPointsInWindow точки устройства с time_stamp в [start, end]. Пустой результат не ошибка.
func LocationPointsInWindow(snapshot types.Snapshot, deviceID int64, start, end time.Time) []types.LocationPoint {
	points := []types.LocationPoint{}
	for _, record := range snapshot {
		if record.DeviceID != deviceID {
			continue
		}
		if record.TimeStamp.Before(start) || record.TimeStamp.After(end) {
			continue
		}
		points = append(points, types.LocationPoint{
			Latitude:  record.Latitude,
			Longitude: record.Longitude,
			TimeStamp: record.TimeStamp,
		})
	}
	return points
}

// Query отвечает на запросы по данным кэша. Кэш передаётся явно, глобального состояния нет.
type Query struct {
	Store cache.Store
}

func NewQuery(store cache.Store) *Query {
	return &Query{Store: store}
}

func (q *Query) snapshot(ctx context.Context) (types.Snapshot, error) {
	snapshot, err := q.Store.GetSnapshot(ctx)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, ErrNoData
	}
	return snapshot, err
}

func (q *Query) FullDataset(ctx context.Context) (types.Snapshot, error) {
	snapshot, err := q.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return FullDataset(snapshot)
}

// LatestForDevice читает отдельный ключ устройства, не разбирая весь снимок.
func (q *Query) LatestForDevice(ctx context.Context, deviceID int64) (types.Record, error) {
	record, err := q.Store.GetLatest(ctx, deviceID)
	if errors.Is(err, cache.ErrNotFound) {
		return types.Record{}, ErrDeviceNotFound
	}
	return record, err
}

func (q *Query) StartEndLocation(ctx context.Context, deviceID int64) (types.Position2D, types.Position2D, error) {
	snapshot, err := q.snapshot(ctx)
	if err != nil {
		return types.Position2D{}, types.Position2D{}, err
	}
	return StartEndLocation(snapshot, deviceID)
}

func (q *Query) LocationPointsInWindow(ctx context.Context, deviceID int64, start, end time.Time) ([]types.LocationPoint, error) {
	snapshot, err := q.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return LocationPointsInWindow(snapshot, deviceID, start, end), nil
}

func (q *Query) Ping(ctx context.Context) error {
	return q.Store.Ping(ctx)
}
