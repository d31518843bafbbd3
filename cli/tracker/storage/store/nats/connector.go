package nats

/*
Плагин для отправки уведомлений о загрузке в NATS.

Раздел настроек, которые должны отвечають в конфиге для подключения хранилища:

servers = "nats://localhost:4222"
subject = "tracker.dataset.loaded"
timeout = 2
*/

import (
	"fmt"
	"strconv"
	"time"

	"github.com/daniil11ru/tracker/cli/tracker/util"
	"github.com/nats-io/nats.go"
)

type Connector struct {
	connection *nats.Conn
	subject    string
}

func (c *Connector) Init(cfg map[string]string) error {
	if cfg == nil {
		return fmt.Errorf("некорректная ссылка на конфигурацию")
	}

	timeout, err := strconv.Atoi(util.OptionValue(cfg, "timeout", "2"))
	if err != nil {
		return fmt.Errorf("не удалось получить timeout: %v", err)
	}
	c.subject = util.OptionValue(cfg, "subject", "tracker.dataset.loaded")

	c.connection, err = nats.Connect(
		util.OptionValue(cfg, "servers", nats.DefaultURL),
		nats.Name("tracker"),
		nats.Timeout(time.Duration(timeout)*time.Second),
	)
	if err != nil {
		return fmt.Errorf("не удалось подключиться к NATS: %v", err)
	}
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

	if err = c.connection.Publish(c.subject, data); err != nil {
		return fmt.Errorf("не удалось отправить сообщение: %v", err)
	}
	return c.connection.Flush()
}

func (c *Connector) Close() error {
	if c.connection != nil {
		c.connection.Close()
	}
	return nil
}
