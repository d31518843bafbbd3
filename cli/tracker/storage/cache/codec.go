package cache

import (
	"encoding/json"
	"fmt"

	"github.com/daniil11ru/tracker/cli/tracker/types"
	"gopkg.in/vmihailenco/msgpack.v2"
)

const (
	CodecJSON    = "json"
	CodecMsgpack = "msgpack"
)

// Codec сериализация записей для хранения в кэше
type Codec interface {
	EncodeRecord(types.Record) ([]byte, error)
	DecodeRecord([]byte) (types.Record, error)
	EncodeSnapshot(types.Snapshot) ([]byte, error)
	DecodeSnapshot([]byte) (types.Snapshot, error)
}

func NewCodec(name string) (Codec, error) {
	switch name {
	case "", CodecJSON:
		return jsonCodec{}, nil
	case CodecMsgpack:
		return msgpackCodec{}, nil
	default:
		return nil, fmt.Errorf("неизвестный формат сериализации: %s", name)
	}
}

// entry плоское представление записи; время хранится в RFC3339Nano без потери точности
type entry struct {
	DeviceID  int64   `json:"device_fk_id" msgpack:"device_fk_id"`
	Latitude  float64 `json:"latitude" msgpack:"latitude"`
	Longitude float64 `json:"longitude" msgpack:"longitude"`
	TimeStamp string  `json:"time_stamp" msgpack:"time_stamp"`
	Sts       string  `json:"sts" msgpack:"sts"`
	Speed     float64 `json:"speed" msgpack:"speed"`
}

func toEntry(r types.Record) entry {
	return entry{
		DeviceID:  r.DeviceID,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		TimeStamp: types.FormatTime(r.TimeStamp),
		Sts:       types.FormatTime(r.Sts),
		Speed:     r.Speed,
	}
}

func (e entry) record() (types.Record, error) {
	timeStamp, err := types.ParseTime(e.TimeStamp)
	if err != nil {
		return types.Record{}, err
	}
	sts, err := types.ParseTime(e.Sts)
	if err != nil {
		return types.Record{}, err
	}
	return types.Record{
		DeviceID:  e.DeviceID,
		Latitude:  e.Latitude,
		Longitude: e.Longitude,
		Speed:     e.Speed,
		TimeStamp: timeStamp,
		Sts:       sts,
	}, nil
}

func toEntries(s types.Snapshot) []entry {
	entries := make([]entry, len(s))
	for i, r := range s {
		entries[i] = toEntry(r)
	}
	return entries
}

func fromEntries(entries []entry) (types.Snapshot, error) {
	s := make(types.Snapshot, len(entries))
	for i, e := range entries {
		r, err := e.record()
		if err != nil {
			return nil, fmt.Errorf("повреждённая запись %d в снимке: %w", i, err)
		}
		s[i] = r
	}
	return s, nil
}

type jsonCodec struct{}

func (jsonCodec) EncodeRecord(r types.Record) ([]byte, error) {
	return json.Marshal(toEntry(r))
}

func (jsonCodec) DecodeRecord(data []byte) (types.Record, error) {
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return types.Record{}, err
	}
	return e.record()
}

func (jsonCodec) EncodeSnapshot(s types.Snapshot) ([]byte, error) {
	return json.Marshal(toEntries(s))
}

func (jsonCodec) DecodeSnapshot(data []byte) (types.Snapshot, error) {
	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return fromEntries(entries)
}

type msgpackCodec struct{}

func (msgpackCodec) EncodeRecord(r types.Record) ([]byte, error) {
	return msgpack.Marshal(toEntry(r))
}

func (msgpackCodec) DecodeRecord(data []byte) (types.Record, error) {
	var e entry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return types.Record{}, err
	}
	return e.record()
}

func (msgpackCodec) EncodeSnapshot(s types.Snapshot) ([]byte, error) {
	return msgpack.Marshal(toEntries(s))
}

func (msgpackCodec) DecodeSnapshot(data []byte) (types.Snapshot, error) {
	var entries []entry
	if err := msgpack.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return fromEntries(entries)
}
