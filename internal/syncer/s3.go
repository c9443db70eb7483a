package syncer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/spm/internal/common"
	"github.com/dmitrijs2005/spm/internal/config"
	"github.com/dmitrijs2005/spm/internal/store"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 uploads every blob and record of a store to a bucket.
type S3 struct {
	client objectPutter
	bucket string
	prefix string
	src    store.Store
}

// NewS3 builds the S3 client from static credentials. A custom endpoint
// switches to path-style addressing.
func NewS3(ctx context.Context, cfg config.S3Config, src store.Store) (*S3, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix, src: src}, nil
}

func (s *S3) put(ctx context.Context, key string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Init uploads the freshly created key blobs.
func (s *S3) Init(ctx context.Context) error {
	return s.Push(ctx, "init")
}

// Push uploads the key blobs under <prefix>.spmkey/ and every record under
// <prefix><key>. Objects carry no history, so message is not used.
func (s *S3) Push(ctx context.Context, message string) error {
	for _, name := range []string{common.KeyBlobName, common.PublicKeyBlobName} {
		data, err := s.src.ReadBlob(ctx, name)
		if errors.Is(err, common.ErrorNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if err := s.put(ctx, s.prefix+path.Join(common.KeyDirName, name), data); err != nil {
			return err
		}
	}

	records, err := s.src.Records(ctx)
	if err != nil {
		return err
	}
	for _, r := range records {
		if err := s.put(ctx, s.prefix+r.Key, r.Body); err != nil {
			return err
		}
	}
	return nil
}
