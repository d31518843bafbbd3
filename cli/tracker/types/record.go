package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Названия колонок исходного CSV
const (
	ColumnDeviceID  = "device_fk_id"
	ColumnLatitude  = "latitude"
	ColumnLongitude = "longitude"
	ColumnTimeStamp = "time_stamp"
	ColumnSts       = "sts"
	ColumnSpeed     = "speed"
)

// RequiredColumns колонки, без которых загрузка невозможна
var RequiredColumns = []string{ColumnDeviceID, ColumnTimeStamp, ColumnSts}

// Record одна телеметрическая точка устройства
type Record struct {
	DeviceID  int64
	Latitude  float64
	Longitude float64
	Speed     float64
	TimeStamp time.Time
	Sts       time.Time
}

// Snapshot весь набор записей, упорядоченный по возрастанию Sts
type Snapshot []Record

// LatestIndex последняя (по Sts) запись каждого устройства
type LatestIndex map[int64]Record

// Dataset результат одной загрузки
type Dataset struct {
	Snapshot Snapshot
	Latest   LatestIndex
}

// Devices возвращает количество устройств в наборе.
func (d Dataset) Devices() int {
	return len(d.Latest)
}

type MalformedRecordError struct {
	Field  string
	Value  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("некорректное поле %s=%q: %s", e.Field, e.Value, e.Reason)
}

// ParseRecord строит запись из строки таблицы, ключи которой совпадают с заголовком.
func ParseRecord(row map[string]string) (Record, error) {
	var r Record

	deviceID, err := parseDeviceID(row)
	if err != nil {
		return r, err
	}
	r.DeviceID = deviceID

	if r.Latitude, err = parseFloat(row, ColumnLatitude); err != nil {
		return r, err
	}
	if r.Longitude, err = parseFloat(row, ColumnLongitude); err != nil {
		return r, err
	}
	if r.Speed, err = parseFloat(row, ColumnSpeed); err != nil {
		return r, err
	}
	if r.TimeStamp, err = parseRequiredTime(row, ColumnTimeStamp); err != nil {
		return r, err
	}
	if r.Sts, err = parseRequiredTime(row, ColumnSts); err != nil {
		return r, err
	}

	return r, nil
}

func parseDeviceID(row map[string]string) (int64, error) {
	value, ok := row[ColumnDeviceID]
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return 0, &MalformedRecordError{Field: ColumnDeviceID, Value: value, Reason: "значение отсутствует"}
	}

	if id, err := strconv.ParseInt(value, 10, 64); err == nil {
		if id < 0 {
			return 0, &MalformedRecordError{Field: ColumnDeviceID, Value: value, Reason: "отрицательный идентификатор"}
		}
		return id, nil
	}

	// pandas выгружает целочисленные колонки с пропусками как 25029.0
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, &MalformedRecordError{Field: ColumnDeviceID, Value: value, Reason: "не целое число"}
	}
	// float64(math.MaxInt64) округляется до 2^63
	if f < 0 || f >= 1<<63 {
		return 0, &MalformedRecordError{Field: ColumnDeviceID, Value: value, Reason: "идентификатор вне допустимого диапазона"}
	}
	return int64(f), nil
}

func parseFloat(row map[string]string, column string) (float64, error) {
	value := strings.TrimSpace(row[column])
	if value == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &MalformedRecordError{Field: column, Value: value, Reason: "не число"}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &MalformedRecordError{Field: column, Value: value, Reason: "не конечное число"}
	}
	return f, nil
}

func parseRequiredTime(row map[string]string, column string) (time.Time, error) {
	value := strings.TrimSpace(row[column])
	if value == "" {
		return time.Time{}, &MalformedRecordError{Field: column, Value: value, Reason: "значение отсутствует"}
	}
	t, err := ParseTime(value)
	if err != nil {
		return time.Time{}, &MalformedRecordError{Field: column, Value: value, Reason: err.Error()}
	}
	return t, nil
}

type recordJSON struct {
	DeviceID  int64   `json:"device_fk_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	TimeStamp string  `json:"time_stamp"`
	Sts       string  `json:"sts"`
	Speed     float64 `json:"speed"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		DeviceID:  r.DeviceID,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		TimeStamp: FormatTime(r.TimeStamp),
		Sts:       FormatTime(r.Sts),
		Speed:     r.Speed,
	})
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var aux recordJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	timeStamp, err := ParseTime(aux.TimeStamp)
	if err != nil {
		return fmt.Errorf("поле %s: %w", ColumnTimeStamp, err)
	}
	sts, err := ParseTime(aux.Sts)
	if err != nil {
		return fmt.Errorf("поле %s: %w", ColumnSts, err)
	}

	*r = Record{
		DeviceID:  aux.DeviceID,
		Latitude:  aux.Latitude,
		Longitude: aux.Longitude,
		Speed:     aux.Speed,
		TimeStamp: timeStamp,
		Sts:       sts,
	}
	return nil
}

// LatestView представление записи для /latest_device_info, без идентификатора устройства.
type LatestView struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	TimeStamp string  `json:"time_stamp"`
	Sts       string  `json:"sts"`
	Speed     float64 `json:"speed"`
}

func (r Record) View() LatestView {
	return LatestView{
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		TimeStamp: FormatTime(r.TimeStamp),
		Sts:       FormatTime(r.Sts),
		Speed:     r.Speed,
	}
}
