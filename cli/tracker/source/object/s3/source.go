package s3

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/daniil11ru/tracker/cli/tracker/source"
)

type Settings struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type Source struct {
	client             *s3.Client
	credentialsMissing bool
}

// New создаёт клиента S3 со статическими ключами. Endpoint задаётся для S3-совместимых хранилищ.
// Отсутствие ключей обнаруживается при первом Fetch, чтобы загрузка классифицировала его как недоступность источника.
func New(ctx context.Context, settings Settings) (*Source, error) {
	region := settings.Region
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(settings.AccessKey, settings.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("не удалось сформировать конфигурацию AWS: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if settings.Endpoint != "" {
			o.BaseEndpoint = aws.String(settings.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Source{
		client:             client,
		credentialsMissing: settings.AccessKey == "" || settings.SecretKey == "",
	}, nil
}

func (s *Source) Fetch(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	if s.credentialsMissing {
		return nil, source.ErrCredentialsMissing
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("не удалось получить s3://%s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}
