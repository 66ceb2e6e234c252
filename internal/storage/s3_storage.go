package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const (
	exportFolder    = "exports"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// objectPutter is the part of *s3.Client the storage needs
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Storage struct {
	client  objectPutter
	bucket  string
	region  string
	baseURL string
}

// ArchivedObject describes an uploaded file
type ArchivedObject struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func NewS3Storage(ctx context.Context, region, bucket, accessKeyID, secretAccessKey, baseURL string) *S3Storage {
	var cfg aws.Config
	var err error

	// If credentials are provided, use them. Otherwise, use default credential chain
	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region: region,
			Credentials: credentials.NewStaticCredentialsProvider(
				accessKeyID,
				secretAccessKey,
				"",
			),
		}
	} else {
		// Environment variables, ~/.aws/credentials, IAM role, etc.
		cfg, err = config.LoadDefaultConfig(ctx, config.WithRegion(region))
		if err != nil {
			cfg = aws.Config{
				Region: region,
			}
		}
	}

	return newS3Storage(s3.NewFromConfig(cfg), bucket, region, baseURL)
}

func newS3Storage(client objectPutter, bucket, region, baseURL string) *S3Storage {
	return &S3Storage{
		client:  client,
		bucket:  bucket,
		region:  region,
		baseURL: baseURL,
	}
}

// ArchiveExport uploads an xlsx export as exports/<date>-<uuid>.xlsx
func (s *S3Storage) ArchiveExport(ctx context.Context, data []byte, at time.Time) (*ArchivedObject, error) {
	key := fmt.Sprintf("%s/%s-%s.xlsx", exportFolder, at.Format("20060102"), uuid.New().String())
	if err := s.PutObject(ctx, key, xlsxContentType, data); err != nil {
		return nil, err
	}
	return &ArchivedObject{Key: key, URL: s.FileURL(key)}, nil
}

func (s *S3Storage) PutObject(ctx context.Context, key, contentType string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// FileURL is the public location of key
func (s *S3Storage) FileURL(key string) string {
	if s.baseURL != "" {
		// CloudFront or custom domain
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
