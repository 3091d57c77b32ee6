package audit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockS3Client implements S3Uploader for testing.
type mockS3Client struct {
	putObjectFunc func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	uploadedBody  []byte
	uploadedKey   string
}

func (m *mockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if params.Body != nil {
		body, err := io.ReadAll(params.Body)
		if err != nil {
			return nil, err
		}
		m.uploadedBody = body
	}
	if params.Key != nil {
		m.uploadedKey = *params.Key
	}
	if m.putObjectFunc != nil {
		return m.putObjectFunc(ctx, params, optFns...)
	}
	return &s3.PutObjectOutput{}, nil
}

func TestArchiveUploadsRecords(t *testing.T) {
	mock := &mockS3Client{}
	archiver := NewS3ArchiverWithClient(mock, "phi-audit-archive", "ledger/")

	records := []Record{
		{ID: "a", Timestamp: time.Now().UTC(), Action: "patient.read", Actor: "clinician-7", PayloadHash: "ph", ChainHash: "ch"},
	}

	key, err := archiver.Archive(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, key, mock.uploadedKey)
	assert.Contains(t, key, "ledger/audit-")

	var obj archiveObject
	require.NoError(t, json.Unmarshal(mock.uploadedBody, &obj))
	require.Len(t, obj.Records, 1)
	assert.Equal(t, "patient.read", obj.Records[0].Action)
}

func TestArchiveEmptyWindow(t *testing.T) {
	archiver := NewS3ArchiverWithClient(&mockS3Client{}, "phi-audit-archive", "")
	_, err := archiver.Archive(context.Background(), nil)
	assert.Error(t, err)
}

func TestArchiveUploadFailure(t *testing.T) {
	mock := &mockS3Client{
		putObjectFunc: func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			return nil, errors.New("access denied")
		},
	}
	archiver := NewS3ArchiverWithClient(mock, "phi-audit-archive", "")

	_, err := archiver.Archive(context.Background(), []Record{{ID: "a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}
