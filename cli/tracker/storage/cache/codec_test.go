package cache

import (
	"testing"
	"time"

	"github.com/daniil11ru/tracker/cli/tracker/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() types.Snapshot {
	base := time.Date(2021, 10, 23, 14, 8, 35, 123456789, time.UTC)
	return types.Snapshot{
		{DeviceID: 1, Latitude: 19.91, Longitude: 73.77, Speed: 0, TimeStamp: base, Sts: base.Add(time.Millisecond)},
		{DeviceID: 2, Latitude: -33.5, Longitude: 151.25, Speed: 42.75, TimeStamp: base.Add(time.Second), Sts: base.Add(2 * time.Second)},
	}
}

func TestCodecRoundTrip(t *testing.T) {
	for _, name := range []string{CodecJSON, CodecMsgpack} {
		t.Run(name, func(t *testing.T) {
			codec, err := NewCodec(name)
			require.NoError(t, err)

			snapshot := sampleSnapshot()

			data, err := codec.EncodeSnapshot(snapshot)
			require.NoError(t, err)
			decoded, err := codec.DecodeSnapshot(data)
			require.NoError(t, err)
			assert.Equal(t, snapshot, decoded)

			data, err = codec.EncodeRecord(snapshot[1])
			require.NoError(t, err)
			record, err := codec.DecodeRecord(data)
			require.NoError(t, err)
			assert.Equal(t, snapshot[1], record)
		})
	}
}

func TestCodecEmptySnapshot(t *testing.T) {
	codec, err := NewCodec("")
	require.NoError(t, err)

	data, err := codec.EncodeSnapshot(types.Snapshot{})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	decoded, err := codec.DecodeSnapshot(data)
	require.NoError(t, err)
	assert.NotNil(t, decoded)
	assert.Empty(t, decoded)
}

func TestNewCodecUnknown(t *testing.T) {
	_, err := NewCodec("xml")
	assert.Error(t, err)
}
