package destination

import (
	"context"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"histrestore/internal/config"
	"histrestore/internal/hr"
)

// Object metadata keys carrying the snapshot's file metadata.
const (
	metaModTime = "mtime"
	metaMode    = "mode"
)

// S3Destination uploads restored files to an S3 bucket.
// Objects are stored as <prefix>/<relative path>; the source modification
// time and permission bits travel as object metadata.
type S3Destination struct {
	bucket   string
	prefix   string
	client   *s3.Client
	uploader *manager.Uploader
}

// NewS3Destination creates an S3 destination from configuration.
// Credentials come from the static key pair when configured, otherwise from
// the default AWS credential chain.
func NewS3Destination(cfg config.DestinationConfig) (*S3Destination, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	if cfg.S3AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Destination{
		bucket:   cfg.S3Bucket,
		prefix:   strings.Trim(cfg.S3Prefix, "/"),
		client:   client,
		uploader: manager.NewUploader(client),
	}, nil
}

// Prepare verifies that the bucket is reachable.
func (d *S3Destination) Prepare() error {
	_, err := d.client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: aws.String(d.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %s not accessible: %w", d.bucket, err)
	}
	return nil
}

// Put uploads r to the object for relPath.
func (d *S3Destination) Put(relPath string, r io.Reader, size int64, meta hr.FileMeta) error {
	metadata := map[string]string{}
	if !meta.ModTime.IsZero() {
		metadata[metaModTime] = meta.ModTime.UTC().Format(time.RFC3339Nano)
	}
	if meta.Mode != 0 {
		metadata[metaMode] = strconv.FormatUint(uint64(meta.Mode.Perm()), 8)
	}

	_, err := d.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket:        aws.String(d.bucket),
		Key:           aws.String(d.key(relPath)),
		Body:          r,
		ContentLength: aws.Int64(size),
		Metadata:      metadata,
	})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", relPath, err)
	}
	return nil
}

// Location returns the s3:// URL of relPath.
func (d *S3Destination) Location(relPath string) string {
	key := d.key(relPath)
	if key == "" {
		return "s3://" + d.bucket
	}
	return "s3://" + d.bucket + "/" + key
}

func (d *S3Destination) key(relPath string) string {
	if relPath == "" {
		return d.prefix
	}
	if d.prefix == "" {
		return relPath
	}
	return path.Join(d.prefix, relPath)
}

// Compile-time check that S3Destination implements hr.Destination interface
var _ hr.Destination = (*S3Destination)(nil)
