package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/daniil11ru/tracker/cli/tracker/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "device_fk_id,latitude,longitude,time_stamp,sts,speed\n"

// scenarioCSV строки 1 и 2 принадлежат устройству 1 и идут в обратном порядке по sts.
const scenarioCSV = header +
	"1,10,20,2021-10-23T14:00:02Z,2021-10-23T14:00:02Z,5\n" +
	"1,1,2,2021-10-23T14:00:01Z,2021-10-23T14:00:01Z,3\n" +
	"2,5,5,2021-10-23T14:00:03Z,2021-10-23T14:00:03Z,0\n"

func at(sec int) time.Time {
	return time.Date(2021, 10, 23, 14, 0, sec, 0, time.UTC)
}

func mustLoad(t *testing.T, csv string) types.Dataset {
	t.Helper()
	d, err := Load(strings.NewReader(csv))
	require.NoError(t, err)
	return d
}

func TestLoad_Scenario(t *testing.T) {
	d := mustLoad(t, scenarioCSV)

	require.Len(t, d.Snapshot, 3)
	assert.Equal(t, at(1), d.Snapshot[0].Sts)
	assert.Equal(t, 1.0, d.Snapshot[0].Latitude)
	assert.Equal(t, at(2), d.Snapshot[1].Sts)
	assert.Equal(t, 10.0, d.Snapshot[1].Latitude)
	assert.Equal(t, int64(2), d.Snapshot[2].DeviceID)

	assert.Equal(t, 2, d.Devices())
	assert.Equal(t, at(2), d.Latest[1].Sts)
	assert.Equal(t, 20.0, d.Latest[1].Longitude)
	assert.Equal(t, at(3), d.Latest[2].Sts)
}

func TestLoad_StableSortAndLatestTies(t *testing.T) {
	csv := header +
		"7,1,1,2021-10-23T14:00:05Z,2021-10-23T14:00:05Z,0\n" +
		"7,2,2,2021-10-23T14:00:01Z,2021-10-23T14:00:05Z,0\n" +
		"8,3,3,2021-10-23T14:00:00Z,2021-10-23T14:00:00Z,0\n" +
		"7,4,4,2021-10-23T14:00:09Z,2021-10-23T14:00:05Z,0\n"

	d := mustLoad(t, csv)

	var latitudes []float64
	for i, r := range d.Snapshot {
		latitudes = append(latitudes, r.Latitude)
		if i > 0 {
			assert.False(t, r.Sts.Before(d.Snapshot[i-1].Sts), "snapshot must be sorted by sts")
		}
	}
	assert.Equal(t, []float64{3, 1, 2, 4}, latitudes, "rows with equal sts keep their original order")
	assert.Equal(t, 4.0, d.Latest[7].Latitude, "latest with equal sts is the last row in file order")
}

func TestLoad_ColumnOrderAndExtraColumns(t *testing.T) {
	csv := "\ufeffsts, speed, Unnamed: 0, device_fk_id, time_stamp, latitude, longitude\n" +
		"2021-10-23 14:00:01,1.5,0,25029.0,2021-10-23 14:00:00.250,19.9,73.7\n"

	d := mustLoad(t, csv)

	require.Len(t, d.Snapshot, 1)
	r := d.Snapshot[0]
	assert.Equal(t, int64(25029), r.DeviceID)
	assert.Equal(t, 19.9, r.Latitude)
	assert.Equal(t, 73.7, r.Longitude)
	assert.Equal(t, 1.5, r.Speed)
	assert.Equal(t, time.Date(2021, 10, 23, 14, 0, 0, 250000000, time.UTC), r.TimeStamp)
}

func TestLoad_HeaderOnly(t *testing.T) {
	d := mustLoad(t, header)

	assert.NotNil(t, d.Snapshot)
	assert.Empty(t, d.Snapshot)
	assert.Empty(t, d.Latest)
}

func TestLoad_ParseFailure(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		row  int
	}{
		{name: "Empty file", csv: "", row: 0},
		{name: "Missing sts column", csv: "device_fk_id,latitude,longitude,time_stamp,speed\n1,1,1,2021-10-23,0\n", row: 0},
		{name: "Bad device id", csv: header + "1,1,1,2021-10-23,2021-10-23,0\nx,1,1,2021-10-23,2021-10-23,0\n", row: 2},
		{name: "Bad timestamp", csv: header + "1,1,1,never,2021-10-23,0\n", row: 1},
		{name: "Device id overflows int64", csv: header + "9223372036854775808.0,1,1,2021-10-23,2021-10-23,0\n", row: 1},
		{name: "NaN latitude", csv: header + "1,1,1,2021-10-23,2021-10-23,0\n1,NaN,1,2021-10-23,2021-10-23,0\n", row: 2},
		{name: "NaN speed", csv: header + "1,1,1,2021-10-23,2021-10-23,NaN\n", row: 1},
		{name: "Wrong field count", csv: header + "1,1,1,2021-10-23,2021-10-23,0\n1,1\n", row: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.csv))

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr), "expected LoadError, got %v", err)
			assert.Equal(t, ParseFailure, loadErr.Kind)
			assert.Equal(t, tt.row, loadErr.Row)
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

func TestLoad_ReadFailureIsSourceUnavailable(t *testing.T) {
	_, err := Load(failingReader{})

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, SourceUnavailable, loadErr.Kind)
}
