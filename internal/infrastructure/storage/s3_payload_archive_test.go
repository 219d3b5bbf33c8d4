package storage

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salehub/backend/internal/domain/sale"
	infraconfig "github.com/salehub/backend/internal/infrastructure/config"
)

type fakeS3 struct {
	puts          []*s3.PutObjectInput
	bodies        [][]byte
	putErr        error
	headErr       error
	createdBucket string
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, _ := io.ReadAll(in.Body)
	f.puts = append(f.puts, in)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) CreateBucket(ctx context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.createdBucket = *in.Bucket
	return &s3.CreateBucketOutput{}, nil
}

func newEntry() *sale.WebhookLogEntry {
	return &sale.WebhookLogEntry{
		ID:         uuid.MustParse("22222222-2222-2222-2222-222222222222"),
		TenantID:   uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		Gateway:    sale.GatewayOrion,
		ExternalID: "tx/1",
		Body:       []byte(`{"transaction_id":"tx/1"}`),
		ReceivedAt: time.Date(2025, 4, 9, 23, 30, 0, 0, time.UTC),
	}
}

func TestS3PayloadArchive_Archive(t *testing.T) {
	fake := &fakeS3{}
	archive := newS3PayloadArchive(fake, "payloads", "/webhooks/")

	key, err := archive.Archive(context.Background(), newEntry())
	require.NoError(t, err)

	assert.Equal(t, "webhooks/11111111-1111-1111-1111-111111111111/orion/2025/04/09/tx%2F1-22222222-2222-2222-2222-222222222222.json", key)
	require.Len(t, fake.puts, 1)
	assert.Equal(t, "payloads", *fake.puts[0].Bucket)
	assert.Equal(t, "application/json", *fake.puts[0].ContentType)
	assert.Equal(t, "orion", fake.puts[0].Metadata["gateway"])
	assert.JSONEq(t, `{"transaction_id":"tx/1"}`, string(fake.bodies[0]))
}

func TestS3PayloadArchive_ArchiveError(t *testing.T) {
	archive := newS3PayloadArchive(&fakeS3{putErr: errors.New("503")}, "payloads", "")

	_, err := archive.Archive(context.Background(), newEntry())
	assert.ErrorContains(t, err, "failed to archive payload")
}

func TestS3PayloadArchive_EnsureBucket(t *testing.T) {
	t.Run("exists", func(t *testing.T) {
		fake := &fakeS3{}
		require.NoError(t, newS3PayloadArchive(fake, "payloads", "").EnsureBucket(context.Background()))
		assert.Empty(t, fake.createdBucket)
	})

	t.Run("creates when missing", func(t *testing.T) {
		fake := &fakeS3{headErr: &types.NotFound{}}
		require.NoError(t, newS3PayloadArchive(fake, "payloads", "").EnsureBucket(context.Background()))
		assert.Equal(t, "payloads", fake.createdBucket)
	})

	t.Run("other errors surface", func(t *testing.T) {
		fake := &fakeS3{headErr: errors.New("forbidden")}
		assert.Error(t, newS3PayloadArchive(fake, "payloads", "").EnsureBucket(context.Background()))
	})
}

func TestNewS3PayloadArchive_Validation(t *testing.T) {
	_, err := NewS3PayloadArchive(context.Background(), nil)
	assert.Error(t, err)

	_, err = NewS3PayloadArchive(context.Background(), &infraconfig.ArchiveConfig{Region: "us-east-1"})
	assert.ErrorContains(t, err, "bucket")

	archive, err := NewS3PayloadArchive(context.Background(), &infraconfig.ArchiveConfig{
		Bucket:       "payloads",
		Region:       "us-east-1",
		Endpoint:     "localhost:9000",
		AccessKey:    "key",
		SecretKey:    "secret",
		UsePathStyle: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "payloads", archive.bucket)
}
