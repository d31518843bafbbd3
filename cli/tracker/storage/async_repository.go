package storage

import (
	"errors"
	"runtime"
	"sync"

	log "github.com/sirupsen/logrus"
)

var ErrQueueFull = errors.New("очередь уведомлений переполнена")
var ErrClosed = errors.New("асинхронный репозиторий был закрыт")

// AsyncRepository отправляет уведомления в фоне, чтобы медленные хранилища не задерживали загрузку
type AsyncRepository struct {
	repo   Saver
	ch     chan Message
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

func NewAsyncRepository(repo Saver, buffer, workers int) *AsyncRepository {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	ar := &AsyncRepository{
		repo: repo,
		ch:   make(chan Message, buffer),
	}
	for i := 0; i < workers; i++ {
		ar.wg.Add(1)
		go ar.worker()
	}
	return ar
}

func (a *AsyncRepository) worker() {
	defer a.wg.Done()
	for msg := range a.ch {
		if err := a.repo.Save(msg); err != nil {
			log.WithField("err", err).Warn("Уведомление о загрузке доставлено не во все хранилища")
		}
	}
}

// Save не блокируется: при заполненной очереди сообщение отбрасывается.
func (a *AsyncRepository) Save(m Message) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}
	select {
	case a.ch <- m:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close дожидается отправки уже поставленных в очередь сообщений.
func (a *AsyncRepository) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.ch)
	a.mu.Unlock()
	a.wg.Wait()
}
