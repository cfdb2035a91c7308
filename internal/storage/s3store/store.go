// Package s3store хранит загруженные файлы в S3-совместимом бакете (AWS, MinIO).
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/sir_venger/upload_lite/internal/models"
)

// Config — параметры подключения к бакету.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Prefix    string
}

// API — подмножество s3.Client, которым пользуется хранилище.
type API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	s3.ListObjectsV2APIClient
}

type Store struct {
	api    API
	bucket string
	prefix string
}

// New создаёт клиента S3 со статическими ключами и path-style адресацией (нужно для MinIO).
func New(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 bucket is empty")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})

	return NewWithAPI(client, cfg.Bucket, cfg.Prefix), nil
}

// NewWithAPI собирает хранилище поверх готового клиента.
func NewWithAPI(api API, bucket, prefix string) *Store {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &Store{api: api, bucket: bucket, prefix: prefix}
}

// Root возвращает адрес хранилища, который получает внешний скрипт.
func (s *Store) Root() string {
	return "s3://" + s.bucket + "/" + s.prefix
}

// Store загружает объект. Несикабельный поток буферизуется: SigV4 без TLS требует длину и хеш тела.
func (s *Store) Store(ctx context.Context, name string, r io.Reader) (models.StoredFile, error) {
	clean, err := models.CleanName(name, false)
	if err != nil {
		return models.StoredFile{}, err
	}

	body, size, err := sizedBody(r)
	if err != nil {
		return models.StoredFile{}, fmt.Errorf("failed to store file %s: %w", clean, err)
	}
	if size == 0 {
		return models.StoredFile{}, fmt.Errorf("failed to store file %s: %w", clean, models.ErrEmptyFile)
	}

	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.prefix + clean),
		Body:          body,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return models.StoredFile{}, fmt.Errorf("failed to store file %s: %w", clean, err)
	}

	return models.StoredFile{Name: clean, Size: size, StoredAt: time.Now().UTC()}, nil
}

// LoadAll перечисляет объекты верхнего уровня под префиксомв том порядке, в каком их отдаёт S3 (лексикографическом).
func (s *Store) LoadAll(ctx context.Context) ([]string, error) {
	p := s3.NewListObjectsV2Paginator(s.api, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(s.prefix),
		Delimiter: aws.String("/"),
	})

	var names []string
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read stored files: %w", err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			names = append(names, name)
		}
	}

	return names, nil
}

// Load открывает объект на чтение; NoSuchKey превращается в ErrNotFound.
func (s *Store) Load(ctx context.Context, name string) (*models.Resource, error) {
	clean, err := models.CleanName(name, true)
	if err != nil || clean != name {
		return nil, fmt.Errorf("could not read file %s: %w", name, models.ErrNotFound)
	}

	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + clean),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("could not read file %s: %w", name, models.ErrNotFound)
		}
		return nil, fmt.Errorf("could not read file %s: %w", name, err)
	}

	return &models.Resource{
		Name:    path.Base(clean),
		Size:    aws.ToInt64(out.ContentLength),
		ModTime: aws.ToTime(out.LastModified),
		Body:    out.Body,
	}, nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

// sizedBody возвращает сикабельное тело и его длину.
func sizedBody(r io.Reader) (io.ReadSeeker, int64, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		cur, err := rs.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, 0, err
		}
		end, err := rs.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, err
		}
		if _, err = rs.Seek(cur, io.SeekStart); err != nil {
			return nil, 0, err
		}
		return rs, end - cur, nil
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}
	return bytes.NewReader(b), int64(len(b)), nil
}
