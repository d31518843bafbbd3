package tarantool_queue

/*
Плагин для отправки уведомлений о загрузке в Tarantool queue.

Раздел настроек, которые должны отвечають в конфиге для подключения хранилища:

host = "localhost"
port = "3301"
user = "user"
password = "pass"
max_recons = 5
timeout = 1
reconnect = 1
queue = "dataset_loads"
*/

import (
	"fmt"
	"strconv"
	"time"

	"github.com/daniil11ru/tracker/cli/tracker/util"
	"github.com/tarantool/go-tarantool"
	"github.com/tarantool/go-tarantool/queue"
)

type Connector struct {
	connection *tarantool.Connection
	queue      queue.Queue
}

func intOption(cfg map[string]string, name, defaultValue string) (int, error) {
	value, err := strconv.Atoi(util.OptionValue(cfg, name, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("не удалось получить %s: %v", name, err)
	}
	return value, nil
}

func (c *Connector) Init(cfg map[string]string) error {
	if cfg == nil {
		return fmt.Errorf("некорректная ссылка на конфигурацию")
	}

	maxRecons, err := intOption(cfg, "max_recons", "5")
	if err != nil {
		return err
	}
	timeout, err := intOption(cfg, "timeout", "1")
	if err != nil {
		return err
	}
	reconnect, err := intOption(cfg, "reconnect", "1")
	if err != nil {
		return err
	}

	opts := tarantool.Opts{
		Timeout:       time.Duration(timeout) * time.Second,
		Reconnect:     time.Duration(reconnect) * time.Second,
		MaxReconnects: uint(maxRecons),
		User:          cfg["user"],
		Pass:          cfg["password"],
	}

	addr := util.OptionValue(cfg, "host", "localhost") + ":" + util.OptionValue(cfg, "port", "3301")
	c.connection, err = tarantool.Connect(addr, opts)
	if err != nil {
		return fmt.Errorf("не удалось подключиться к Tarantool: %v", err)
	}
	c.queue = queue.New(c.connection, util.OptionValue(cfg, "queue", "dataset_loads"))

	return nil
}

func (c *Connector) Save(msg interface{ ToBytes() ([]byte, error) }) error {
	if msg == nil {
		return fmt.Errorf("некорректная ссылка на сообщение")
	}

	data, err := msg.ToBytes()
	if err != nil {
		return fmt.Errorf("ошибка сериализации сообщения: %v", err)
	}

	if _, err = c.queue.Put(string(data)); err != nil {
		return fmt.Errorf("не удалось поставить сообщение в очередь: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	if c.connection == nil {
		return nil
	}
	return c.connection.Close()
}
