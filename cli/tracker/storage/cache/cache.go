package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/daniil11ru/tracker/cli/tracker/types"
)

// ErrNotFound ключ отсутствует в кэше: данные ещё не загружены или устройство неизвестно
var ErrNotFound = errors.New("ключ не найден в кэше")

// UnavailableError хранилище не ответило, в отличие от ErrNotFound данные могут существовать
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("кэш недоступен: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Store хранилище снимка набора данных и последних записей устройств.
// Все записи полностью перезаписывают предыдущие значения.
type Store interface {
	PutLatest(ctx context.Context, deviceID int64, record types.Record) error
	GetLatest(ctx context.Context, deviceID int64) (types.Record, error)

	PutSnapshot(ctx context.Context, snapshot types.Snapshot) error
	GetSnapshot(ctx context.Context) (types.Snapshot, error)

	// Replace атомарно заменяет снимок и все последние записи, удаляя устройства,
	// которых нет в новом наборе.
	Replace(ctx context.Context, dataset types.Dataset) error

	Ping(ctx context.Context) error
	Close() error
}
