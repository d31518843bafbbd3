package redis

/*
Настройки, которые могут быть в конфиге для подключения кэша:

host = "localhost"
port = "6379"
password = ""
db = "0"
prefix = ""
codec = "json"
*/

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/daniil11ru/tracker/cli/tracker/storage/cache"
	"github.com/daniil11ru/tracker/cli/tracker/types"
	"github.com/daniil11ru/tracker/cli/tracker/util"
	"github.com/go-redis/redis/v8"
)

const (
	snapshotKey = "raw_data"
	devicesKey  = "devices"
	latestKey   = "latest:"
)

type Connector struct {
	client *redis.Client
	codec  cache.Codec
	prefix string
}

func (c *Connector) Init(cfg map[string]string) error {
	if cfg == nil {
		return fmt.Errorf("некорректная ссылка на конфигурацию")
	}

	db, err := strconv.Atoi(util.OptionValue(cfg, "db", "0"))
	if err != nil {
		return fmt.Errorf("не удалось получить номер базы Redis: %v", err)
	}
	if c.codec, err = cache.NewCodec(cfg["codec"]); err != nil {
		return err
	}
	c.prefix = cfg["prefix"]

	c.client = redis.NewClient(&redis.Options{
		Addr:     util.OptionValue(cfg, "host", "localhost") + ":" + util.OptionValue(cfg, "port", "6379"),
		Password: cfg["password"],
		DB:       db,
	})

	if err := c.Ping(context.Background()); err != nil {
		c.client.Close()
		c.client = nil
		return fmt.Errorf("Redis недоступен: %w", err)
	}
	return nil
}

func (c *Connector) latestKey(deviceID int64) string {
	return c.prefix + latestKey + strconv.FormatInt(deviceID, 10)
}

func unavailable(err error) error {
	return &cache.UnavailableError{Err: err}
}

func (c *Connector) PutLatest(ctx context.Context, deviceID int64, record types.Record) error {
	data, err := c.codec.EncodeRecord(record)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.latestKey(deviceID), data, 0).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (c *Connector) GetLatest(ctx context.Context, deviceID int64) (types.Record, error) {
	data, err := c.client.Get(ctx, c.latestKey(deviceID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return types.Record{}, cache.ErrNotFound
	}
	if err != nil {
		return types.Record{}, unavailable(err)
	}
	return c.codec.DecodeRecord(data)
}

func (c *Connector) PutSnapshot(ctx context.Context, snapshot types.Snapshot) error {
	data, err := c.codec.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.prefix+snapshotKey, data, 0).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (c *Connector) GetSnapshot(ctx context.Context) (types.Snapshot, error) {
	data, err := c.client.Get(ctx, c.prefix+snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cache.ErrNotFound
	}
	if err != nil {
		return nil, unavailable(err)
	}
	return c.codec.DecodeSnapshot(data)
}

// Replace выполняет всю замену в MULTI/EXEC, поэтому читатели видят либо старый, либо новый набор.
func (c *Connector) Replace(ctx context.Context, dataset types.Dataset) error {
	snapshot, err := c.codec.EncodeSnapshot(dataset.Snapshot)
	if err != nil {
		return err
	}
	latest := make(map[string][]byte, len(dataset.Latest))
	members := make([]interface{}, 0, len(dataset.Latest))
	for id, record := range dataset.Latest {
		data, err := c.codec.EncodeRecord(record)
		if err != nil {
			return err
		}
		latest[c.latestKey(id)] = data
		members = append(members, strconv.FormatInt(id, 10))
	}

	previous, err := c.client.SMembers(ctx, c.prefix+devicesKey).Result()
	if err != nil {
		return unavailable(err)
	}

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, member := range previous {
			id, err := strconv.ParseInt(member, 10, 64)
			if err != nil {
				continue
			}
			if _, ok := dataset.Latest[id]; !ok {
				pipe.Del(ctx, c.latestKey(id))
			}
		}
		pipe.Del(ctx, c.prefix+devicesKey)
		for key, data := range latest {
			pipe.Set(ctx, key, data, 0)
		}
		if len(members) > 0 {
			pipe.SAdd(ctx, c.prefix+devicesKey, members...)
		}
		pipe.Set(ctx, c.prefix+snapshotKey, snapshot, 0)
		return nil
	})
	if err != nil {
		return unavailable(err)
	}
	return nil
}

func (c *Connector) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (c *Connector) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
