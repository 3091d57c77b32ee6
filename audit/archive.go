package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Uploader is the slice of the S3 API the archiver needs. Tests substitute
// a mock.
type S3Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver exports verified ledger windows to an S3 bucket for offsite
// retention. The export is a point-in-time copy, not a backup mechanism: the
// ledger in SQLite remains the source of truth and the chain hashes inside
// the export stay verifiable on their own.
type S3Archiver struct {
	client S3Uploader
	bucket string
	prefix string
}

// NewS3Archiver creates an archiver using the default AWS credential chain.
func NewS3Archiver(ctx context.Context, bucket, prefix string) (*S3Archiver, error) {
	if bucket == "" {
		return nil, fmt.Errorf("archive bucket cannot be empty")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return &S3Archiver{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// NewS3ArchiverWithClient creates an archiver over an existing client.
func NewS3ArchiverWithClient(client S3Uploader, bucket, prefix string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket, prefix: prefix}
}

// archiveObject is the exported document layout.
type archiveObject struct {
	ArchivedAt time.Time `json:"archivedAt"`
	Records    []Record  `json:"records"`
}

// Archive uploads the given records as a single JSON object and returns the
// object key.
func (a *S3Archiver) Archive(ctx context.Context, records []Record) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("nothing to archive")
	}

	body, err := json.Marshal(archiveObject{
		ArchivedAt: time.Now().UTC(),
		Records:    records,
	})
	if err != nil {
		return "", fmt.Errorf("failed to serialize archive: %w", err)
	}

	key := fmt.Sprintf("%saudit-%s-%s.json",
		a.prefix,
		time.Now().UTC().Format("20060102T150405Z"),
		uuid.NewString())

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload archive to s3://%s/%s: %w", a.bucket, key, err)
	}
	return key, nil
}
