package storage

import (
	"errors"

	"github.com/daniil11ru/tracker/cli/tracker/storage/cache"
	"github.com/daniil11ru/tracker/cli/tracker/storage/cache/memory"
	"github.com/daniil11ru/tracker/cli/tracker/storage/cache/redis"
	"github.com/daniil11ru/tracker/cli/tracker/storage/store/mysql"
	"github.com/daniil11ru/tracker/cli/tracker/storage/store/nats"
	"github.com/daniil11ru/tracker/cli/tracker/storage/store/postgresql"
	"github.com/daniil11ru/tracker/cli/tracker/storage/store/rabbitmq"
	"github.com/daniil11ru/tracker/cli/tracker/storage/store/tarantool_queue"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidStorage = errors.New("storage not found")
var ErrUnknownStorage = errors.New("storage isn't support yet")
var ErrAmbiguousCache = errors.New("only one cache storage can be configured")

// Message уведомление, которое можно сериализовать для внешнего хранилища
type Message = interface{ ToBytes() ([]byte, error) }

type Store interface {
	Connector
	Saver
}

// Saver интерфейс для подключения внешних хранилищ
type Saver interface {
	// Save сохранение в хранилище
	Save(Message) error
}

// Connector интерфейс для подключения внешних хранилищ
type Connector interface {
	// Init установка соединения с хранилищем
	Init(map[string]string) error

	// Close закрытие соединения с хранилищем
	Close() error
}

type cacheStore interface {
	cache.Store
	Init(map[string]string) error
}

// LoadCache создаёт кэш по секции storage конфига
func LoadCache(storages map[string]map[string]string) (cache.Store, error) {
	if len(storages) == 0 {
		return nil, ErrInvalidStorage
	}
	if len(storages) > 1 {
		return nil, ErrAmbiguousCache
	}

	var db cacheStore
	for store, params := range storages {
		switch store {
		case "redis":
			db = &redis.Connector{}
		case "memory":
			db = &memory.Store{}
		default:
			return nil, ErrUnknownStorage
		}

		if err := db.Init(params); err != nil {
			return nil, err
		}
		log.Infof("Кэш %s инициализирован", store)
	}
	return db, nil
}

// Repository набор хранилищ, получающих уведомления о загрузке данных
type Repository struct {
	storages []Store
}

// AddStore добавляет хранилище для сохранения данных
func (r *Repository) AddStore(s Store) {
	r.storages = append(r.storages, s)
}

// Save сохраняет сообщение во все установленные хранилища. Ошибка одного хранилища
// не мешает остальным, возвращается первая из них.
func (r *Repository) Save(m Message) error {
	var first error
	for _, store := range r.storages {
		if err := store.Save(m); err != nil {
			log.WithField("err", err).Error("Не удалось отправить уведомление о загрузке")
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// LoadStorages загружает хранилища из структуры конфига. Пустая секция допустима.
// При ошибке уже открытые в этом вызове хранилища закрываются.
func (r *Repository) LoadStorages(storages map[string]map[string]string) (err error) {
	loaded := len(r.storages)
	defer func() {
		if err == nil {
			return
		}
		for _, store := range r.storages[loaded:] {
			if closeErr := store.Close(); closeErr != nil {
				log.Warnf("Не удалось закрыть хранилище: %v", closeErr)
			}
		}
		r.storages = r.storages[:loaded]
	}()

	var db Store
	for store, params := range storages {
		switch store {
		case "rabbitmq":
			db = &rabbitmq.Connector{}
		case "postgresql":
			db = &postgresql.Connector{}
		case "nats":
			db = &nats.Connector{}
		case "tarantool_queue":
			db = &tarantool_queue.Connector{}
		case "mysql":
			db = &mysql.Connector{}
		default:
			return ErrUnknownStorage
		}

		if err := db.Init(params); err != nil {
			return err
		}

		r.AddStore(db)
	}
	return nil
}

func (r *Repository) Close() error {
	var first error
	for _, store := range r.storages {
		if err := store.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// NewRepository создает пустой репозиторий
func NewRepository() *Repository {
	return &Repository{}
}
