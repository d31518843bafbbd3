package postgresql

/*
Настройки, которые могут (а не которые – должны) быть в конфиге для подключения хранилища:

host = "localhost"
port = "5432"
user = "postgres"
password = "postgres"
database = "tracker"
table = "dataset_load"
event_field_name = "event"
sslmode = "disable"
*/

import (
	"database/sql"
	"fmt"

	"github.com/daniil11ru/tracker/cli/tracker/util"
	_ "github.com/lib/pq"
)

type Connector struct {
	connection *sql.DB
	insert     string
}

func (c *Connector) Init(cfg map[string]string) error {
	var (
		err error
	)
	if cfg == nil {
		return fmt.Errorf("некорректная ссылка на конфигурацию")
	}

	connStr := fmt.Sprintf("dbname=%s host=%s port=%s user=%s password=%s sslmode=%s",
		util.OptionValue(cfg, "database", "tracker"),
		util.OptionValue(cfg, "host", "localhost"),
		util.OptionValue(cfg, "port", "5432"),
		util.OptionValue(cfg, "user", "postgres"),
		util.OptionValue(cfg, "password", "postgres"),
		util.OptionValue(cfg, "sslmode", "disable"))
	if c.connection, err = sql.Open("postgres", connStr); err != nil {
		return fmt.Errorf("ошибка подключения к PostgreSQL: %v", err)
	}

	if err = c.connection.Ping(); err != nil {
		return fmt.Errorf("PostgreSQL недоступен: %v", err)
	}

	table := util.OptionValue(cfg, "table", "dataset_load")
	field := util.OptionValue(cfg, "event_field_name", "event")
	createQuery := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id SERIAL PRIMARY KEY,
		%s JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, table, field)
	if _, err = c.connection.Exec(createQuery); err != nil {
		return fmt.Errorf("не удалось создать таблицу %s: %v", table, err)
	}

	c.insert = fmt.Sprintf("INSERT INTO %s (%s) VALUES ($1)", table, field)
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

	if _, err = c.connection.Exec(c.insert, string(data)); err != nil {
		return fmt.Errorf("не удалось вставить запись: %v", err)
	}
	return nil
}

func (c *Connector) Close() error {
	if c.connection == nil {
		return nil
	}
	return c.connection.Close()
}
