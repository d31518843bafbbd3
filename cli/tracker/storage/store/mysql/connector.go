package mysql

/*
Настройки, которые могут быть в конфиге для подключения хранилища:

host = "localhost"
port = "3306"
user = "root"
password = ""
database = "tracker"
table = "dataset_load"
event_field_name = "event"
*/

import (
	"database/sql"
	"fmt"

	"github.com/daniil11ru/tracker/cli/tracker/util"
	"github.com/go-sql-driver/mysql"
)

type Connector struct {
	connection *sql.DB
	insert     string
}

func (c *Connector) Init(cfg map[string]string) error {
	var err error
	if cfg == nil {
		return fmt.Errorf("некорректная ссылка на конфигурацию")
	}

	dsn := mysql.NewConfig()
	dsn.Net = "tcp"
	dsn.Addr = util.OptionValue(cfg, "host", "localhost") + ":" + util.OptionValue(cfg, "port", "3306")
	dsn.User = util.OptionValue(cfg, "user", "root")
	dsn.Passwd = cfg["password"]
	dsn.DBName = util.OptionValue(cfg, "database", "tracker")
	dsn.ParseTime = true

	if c.connection, err = sql.Open("mysql", dsn.FormatDSN()); err != nil {
		return fmt.Errorf("ошибка подключения к MySQL: %v", err)
	}

	if err = c.connection.Ping(); err != nil {
		return fmt.Errorf("MySQL недоступен: %v", err)
	}

	table := util.OptionValue(cfg, "table", "dataset_load")
	field := util.OptionValue(cfg, "event_field_name", "event")
	createQuery := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		%s JSON NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`, table, field)
	if _, err = c.connection.Exec(createQuery); err != nil {
		return fmt.Errorf("не удалось создать таблицу %s: %v", table, err)
	}

	c.insert = fmt.Sprintf("INSERT INTO %s (%s) VALUES (?)", table, field)
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
