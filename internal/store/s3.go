// =============================================================================
// ojsconvert - S3 Object Store
// =============================================================================
//
// Boundary component for the lambda-style round trip: download the uploaded
// spreadsheet, upload the converted XML, and tag the source object so the
// bucket's lifecycle rules can expire it. Nothing here affects document
// correctness; it wraps the converter for deployments where the spreadsheet
// never touches a local disk.
//
// =============================================================================

package store

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Store wraps an S3 bucket.
type Store struct {
	client *s3.Client
	bucket string
}

// New creates a Store using the default AWS credential chain. Region may be
// empty, in which case the chain's region applies.
func New(ctx context.Context, bucket, region string) (*Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is not configured")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return &Store{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// Download fetches an object to a local path.
func (s *Store) Download(ctx context.Context, key, path string) error {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to get s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, out.Body); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Upload writes a local file to an object key.
func (s *Store) Upload(ctx context.Context, path, key string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return fmt.Errorf("failed to put s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}

// TagSource marks the uploaded spreadsheet for lifecycle management.
func (s *Store) TagSource(ctx context.Context, key string) error {
	_, err := s.client.PutObjectTagging(ctx, &s3.PutObjectTaggingInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Tagging: &types.Tagging{
			TagSet: []types.Tag{
				{Key: aws.String("upload_type"), Value: aws.String("csv")},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to tag s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}
