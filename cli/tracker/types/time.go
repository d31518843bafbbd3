package types

import (
	"fmt"
	"strings"
	"time"
)

// Форматы, в которых встречаются отметки времени в исходных данных и в запросах.
// Значения без часового пояса считаются UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime разбирает отметку времени в одном из поддерживаемых форматов.
func ParseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("неизвестный формат времени: %q", value)
}

// FormatTime единственное текстовое представление времени в ответах и в кэше.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
