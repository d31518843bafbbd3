package domain

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/daniil11ru/tracker/cli/tracker/types"
)

type LoadErrorKind int

const (
	SourceUnavailable LoadErrorKind = iota + 1
	ParseFailure
)

func (k LoadErrorKind) String() string {
	switch k {
	case SourceUnavailable:
		return "source unavailable"
	case ParseFailure:
		return "parse failure"
	default:
		return "unknown"
	}
}

// LoadError ошибка загрузки. Row заполняется для ParseFailure и указывает номер строки данных (с 1).
type LoadError struct {
	Kind LoadErrorKind
	Row  int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s: строка %d: %v", e.Kind, e.Row, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load разбирает CSV с заголовком в набор данных. Любая некорректная строка прерывает загрузку целиком.
func Load(r io.Reader) (types.Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return types.Dataset{}, &LoadError{Kind: ParseFailure, Err: errors.New("пустой файл, нет заголовка")}
	}
	if err != nil {
		return types.Dataset{}, readError(err, 0)
	}

	columns := make([]string, len(header))
	present := make(map[string]bool, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		columns[i] = name
		present[name] = true
	}
	for _, required := range types.RequiredColumns {
		if !present[required] {
			return types.Dataset{}, &LoadError{Kind: ParseFailure, Err: fmt.Errorf("в заголовке нет колонки %s", required)}
		}
	}

	snapshot := types.Snapshot{}
	row := make(map[string]string, len(columns))
	for n := 1; ; n++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return types.Dataset{}, readError(err, n)
		}

		for i, name := range columns {
			row[name] = fields[i]
		}
		record, err := types.ParseRecord(row)
		if err != nil {
			return types.Dataset{}, &LoadError{Kind: ParseFailure, Row: n, Err: err}
		}
		snapshot = append(snapshot, record)
	}

	sort.SliceStable(snapshot, func(i, j int) bool {
		return snapshot[i].Sts.Before(snapshot[j].Sts)
	})

	return types.Dataset{Snapshot: snapshot, Latest: latestIndex(snapshot)}, nil
}

// latestIndex ожидает снимок, отсортированный по Sts: последняя встреченная запись устройства побеждает.
func latestIndex(snapshot types.Snapshot) types.LatestIndex {
	latest := make(types.LatestIndex)
	for _, record := range snapshot {
		latest[record.DeviceID] = record
	}
	return latest
}

// readError отличает испорченный CSV от обрыва чтения источника.
func readError(err error, row int) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &LoadError{Kind: ParseFailure, Row: row, Err: err}
	}
	return &LoadError{Kind: SourceUnavailable, Err: err}
}
