package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Position2D сериализуется в JSON как пара [широта, долгота].
type Position2D struct {
	Latitude  float64
	Longitude float64
}

func (p Position2D) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Latitude, p.Longitude})
}

func (p *Position2D) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("ожидалась пара координат, получено %d значений", len(pair))
	}
	p.Latitude, p.Longitude = pair[0], pair[1]
	return nil
}

func (r Record) Position() Position2D {
	return Position2D{Latitude: r.Latitude, Longitude: r.Longitude}
}

type LocationPoint struct {
	Latitude  float64
	Longitude float64
	TimeStamp time.Time
}

func (p LocationPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		TimeStamp string  `json:"time_stamp"`
	}{p.Latitude, p.Longitude, FormatTime(p.TimeStamp)})
}
