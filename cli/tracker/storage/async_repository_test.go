package storage

import (
	"io"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockingSaver struct {
	started chan struct{}
	release chan struct{}
	saved   chan string
}

func (b *blockingSaver) Save(m Message) error {
	b.started <- struct{}{}
	<-b.release
	data, _ := m.ToBytes()
	b.saved <- string(data)
	return nil
}

func TestAsyncRepository_DeliversBeforeClose(t *testing.T) {
	log.SetOutput(io.Discard)

	saver := &mockSaver{}
	async := NewAsyncRepository(saver, 10, 2)

	for i := 0; i < 5; i++ {
		require.NoError(t, async.Save(testData("event")))
	}
	async.Close()

	assert.Equal(t, 5, saver.count())
	assert.ErrorIs(t, async.Save(testData("late")), ErrClosed)
	async.Close()
}

func TestAsyncRepository_QueueFull(t *testing.T) {
	log.SetOutput(io.Discard)

	saver := &blockingSaver{
		started: make(chan struct{}, 2),
		release: make(chan struct{}),
		saved:   make(chan string, 2),
	}
	async := NewAsyncRepository(saver, 1, 1)

	require.NoError(t, async.Save(testData("first")))
	<-saver.started
	require.NoError(t, async.Save(testData("second")))

	assert.ErrorIs(t, async.Save(testData("third")), ErrQueueFull)

	close(saver.release)
	async.Close()

	assert.Equal(t, "first", <-saver.saved)
	assert.Equal(t, "second", <-saver.saved)
}
