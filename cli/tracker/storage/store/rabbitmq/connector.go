package rabbitmq

/*
Плагин для отправки уведомлений о загрузке в RabbitMQ.

Раздел настроек, которые должны отвечають в конфиге для подключения хранилища:

host = "localhost"
port = "5672"
user = "guest"
password = "guest"
exchange = "tracker"
exchange_type = "fanout"
routing_key = "dataset.loaded"
*/

import (
	"fmt"
	"time"

	"github.com/daniil11ru/tracker/cli/tracker/util"
	"github.com/streadway/amqp"
)

type Connector struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
}

func (c *Connector) Init(cfg map[string]string) error {
	var err error
	if cfg == nil {
		return fmt.Errorf("некорректная ссылка на конфигурацию")
	}

	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		util.OptionValue(cfg, "user", "guest"),
		util.OptionValue(cfg, "password", "guest"),
		util.OptionValue(cfg, "host", "localhost"),
		util.OptionValue(cfg, "port", "5672"),
	)
	c.exchange = util.OptionValue(cfg, "exchange", "tracker")
	c.routingKey = util.OptionValue(cfg, "routing_key", "dataset.loaded")

	if c.connection, err = amqp.Dial(url); err != nil {
		return fmt.Errorf("не удалось подключиться к RabbitMQ: %v", err)
	}
	if c.channel, err = c.connection.Channel(); err != nil {
		return fmt.Errorf("не удалось открыть канал RabbitMQ: %v", err)
	}

	err = c.channel.ExchangeDeclare(c.exchange, util.OptionValue(cfg, "exchange_type", "fanout"), true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("не удалось объявить exchange %s: %v", c.exchange, err)
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

	err = c.channel.Publish(c.exchange, c.routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         data,
	})
	if err != nil {
		return fmt.Errorf("не удалось отправить сообщение: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.connection != nil {
		return c.connection.Close()
	}
	return nil
}
