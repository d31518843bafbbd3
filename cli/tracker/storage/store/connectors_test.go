package store

import (
	"testing"

	"github.com/daniil11ru/tracker/cli/tracker/storage/store/mysql"
	"github.com/daniil11ru/tracker/cli/tracker/storage/store/nats"
	"github.com/daniil11ru/tracker/cli/tracker/storage/store/postgresql"
	"github.com/daniil11ru/tracker/cli/tracker/storage/store/rabbitmq"
	"github.com/daniil11ru/tracker/cli/tracker/storage/store/tarantool_queue"
	"github.com/stretchr/testify/assert"
)

type connector interface {
	Init(map[string]string) error
	Save(interface{ ToBytes() ([]byte, error) }) error
	Close() error
}

func TestConnectorsRejectNilConfig(t *testing.T) {
	connectors := map[string]connector{
		"mysql":           &mysql.Connector{},
		"nats":            &nats.Connector{},
		"postgresql":      &postgresql.Connector{},
		"rabbitmq":        &rabbitmq.Connector{},
		"tarantool_queue": &tarantool_queue.Connector{},
	}

	for name, c := range connectors {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, c.Init(nil))
			assert.NoError(t, c.Close(), "closing a connector that never connected is a no-op")
		})
	}
}

func TestTarantoolQueueRejectsBadNumbers(t *testing.T) {
	c := &tarantool_queue.Connector{}
	assert.Error(t, c.Init(map[string]string{"max_recons": "many"}))
}
