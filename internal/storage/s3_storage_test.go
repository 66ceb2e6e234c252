package storage

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestS3Storage_ArchiveExport(t *testing.T) {
	putter := &fakePutter{}
	store := newS3Storage(putter, "giftbox-reports", "ap-northeast-2", "")

	at := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	obj, err := store.ArchiveExport(context.Background(), []byte("xlsx-bytes"), at)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^exports/20260910-[0-9a-f-]{36}\.xlsx$`), obj.Key)
	assert.Equal(t, "https://giftbox-reports.s3.ap-northeast-2.amazonaws.com/"+obj.Key, obj.URL)

	require.NotNil(t, putter.input)
	assert.Equal(t, "giftbox-reports", aws.ToString(putter.input.Bucket))
	assert.Equal(t, obj.Key, aws.ToString(putter.input.Key))
	assert.Equal(t, xlsxContentType, aws.ToString(putter.input.ContentType))
	assert.Equal(t, int64(10), aws.ToInt64(putter.input.ContentLength))
	assert.Equal(t, []byte("xlsx-bytes"), putter.body)
}

func TestS3Storage_FileURL_BaseURL(t *testing.T) {
	store := newS3Storage(&fakePutter{}, "bucket", "us-east-1", "https://cdn.example.com")
	assert.Equal(t, "https://cdn.example.com/exports/a.xlsx", store.FileURL("exports/a.xlsx"))
}

func TestS3Storage_PutObject_Error(t *testing.T) {
	store := newS3Storage(&fakePutter{err: errors.New("access denied")}, "bucket", "us-east-1", "")

	_, err := store.ArchiveExport(context.Background(), []byte("x"), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}
