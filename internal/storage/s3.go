package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Service pulls artifact sets from Amazon S3 (or compatible APIs).
type S3Service struct {
	client     *s3.Client
	downloader *manager.Downloader
}

func NewS3Service(client *s3.Client) *S3Service {
	return &S3Service{
		client:     client,
		downloader: manager.NewDownloader(client),
	}
}

func (s *S3Service) ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	if bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	var objects []ObjectInfo
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	}
	if strings.TrimSpace(prefix) != "" {
		input.Prefix = aws.String(prefix)
	}

	for {
		output, err := s.client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}

		for _, obj := range output.Contents {
			objects = append(objects, ObjectInfo{
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

	return objects, nil
}

// DownloadPrefix fetches every object under the prefix into localDir, using
// the object's basename as the local file name. Keys resolving outside the
// directory are rejected. Returns the number of files written.
func (s *S3Service) DownloadPrefix(ctx context.Context, bucket, prefix, localDir string) (int, error) {
	if bucket == "" {
		return 0, fmt.Errorf("storage bucket is required")
	}
	if err := os.MkdirAll(localDir, 0o755); err != nil {
		return 0, fmt.Errorf("create artifact dir: %w", err)
	}

	objects, err := s.ListObjects(ctx, bucket, prefix)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, obj := range objects {
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		name := path.Base(obj.Key)
		if name == "" || name == "." || name == ".." || strings.Contains(name, string(filepath.Separator)) {
			return count, fmt.Errorf("unsafe object key %q", obj.Key)
		}

		local := filepath.Join(localDir, name)
		f, err := os.Create(local)
		if err != nil {
			return count, fmt.Errorf("create %s: %w", local, err)
		}
		_, err = s.downloader.Download(ctx, f, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(obj.Key),
		})
		closeErr := f.Close()
		if err != nil {
			return count, fmt.Errorf("download %s: %w", obj.Key, err)
		}
		if closeErr != nil {
			return count, fmt.Errorf("close %s: %w", local, closeErr)
		}
		count++
	}

	return count, nil
}

var _ Service = (*S3Service)(nil)
