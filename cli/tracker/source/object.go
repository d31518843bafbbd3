package source

import (
	"context"
	"errors"
	"io"
)

var ErrCredentialsMissing = errors.New("AWS credentials not found")

// Object источник исходного CSV
type Object interface {
	Fetch(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}
