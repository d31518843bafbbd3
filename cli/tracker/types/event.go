package types

import (
	"encoding/json"
	"time"
)

// LoadEvent уведомление об успешной загрузке набора данных
type LoadEvent struct {
	Version  int64     `json:"version"`
	Bucket   string    `json:"bucket"`
	Key      string    `json:"key"`
	Records  int       `json:"records"`
	Devices  int       `json:"devices"`
	LoadedAt time.Time `json:"loaded_at"`
}

func (e LoadEvent) ToBytes() ([]byte, error) {
	return json.Marshal(e)
}
