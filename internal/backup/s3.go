package backup

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// SnapshotInfo describes one stored snapshot object.
type SnapshotInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// Exporter uploads table snapshots to Amazon S3 (or compatible APIs). It is
// an operator-facing surface driven by the admin CLI, not part of the
// request path.
type Exporter struct {
	client   *s3.Client
	uploader *manager.Uploader
}

func NewExporter(client *s3.Client) *Exporter {
	return &Exporter{
		client:   client,
		uploader: manager.NewUploader(client),
	}
}

// UploadSnapshot writes data under a timestamped key below keyPrefix and
// returns the object's s3:// location.
func (e *Exporter) UploadSnapshot(ctx context.Context, bucket, keyPrefix string, data []byte) (string, error) {
	if bucket == "" {
		return "", fmt.Errorf("snapshot bucket is required")
	}

	key := strings.Trim(keyPrefix, "/")
	if key != "" {
		key += "/"
	}
	key += fmt.Sprintf("users-%s.json", time.Now().UTC().Format("20060102T150405Z"))

	_, err := e.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
		ACL:    types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}

	return fmt.Sprintf("s3://%s/%s", bucket, key), nil
}

// ListSnapshots returns the snapshot objects under prefix.
func (e *Exporter) ListSnapshots(ctx context.Context, bucket, prefix string) ([]SnapshotInfo, error) {
	if bucket == "" {
		return nil, fmt.Errorf("snapshot bucket is required")
	}

	var snapshots []SnapshotInfo
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	}
	if strings.TrimSpace(prefix) != "" {
		input.Prefix = aws.String(prefix)
	}

	for {
		output, err := e.client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}

		for _, obj := range output.Contents {
			snapshots = append(snapshots, SnapshotInfo{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: obj.LastModified,
			})
		}

		if !aws.ToBool(output.IsTruncated) || output.NextContinuationToken == nil {
			break
		}
		input.ContinuationToken = output.NextContinuationToken
	}

	return snapshots, nil
}
