package imagesrc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrS3NotConfigured = errors.New("s3 source is not configured")

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// GetObjectAPI is the part of *s3.Client used here.
type GetObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// S3 hands out S3Object sources backed by one client.
type S3 struct {
	api GetObjectAPI
}

// NewS3 builds a client from cfg. Static credentials are used when both keys
// are set, otherwise the default AWS chain applies. A non-empty Endpoint
// switches to path-style addressing for MinIO-like servers.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
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
	return &S3{api: client}, nil
}

// NewS3WithAPI wraps an existing client.
func NewS3WithAPI(api GetObjectAPI) *S3 {
	return &S3{api: api}
}

func (s *S3) Object(bucket, key string) *S3Object {
	return &S3Object{api: s.api, Bucket: bucket, Key: key}
}

// S3Object reads an image from a bucket.
type S3Object struct {
	api    GetObjectAPI
	Bucket string
	Key    string

	contentType string
}

func (o *S3Object) Name() string { return path.Base(o.Key) }

// MIMEType is known only after ReadBytes; before that the type is sniffed.
func (o *S3Object) MIMEType() string { return o.contentType }

func (o *S3Object) ReadBytes(ctx context.Context) ([]byte, error) {
	out, err := o.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(o.Bucket),
		Key:    aws.String(o.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", o.Bucket, o.Key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, err
	}
	if out.ContentType != nil && *out.ContentType != "binary/octet-stream" {
		o.contentType = *out.ContentType
	}
	return data, nil
}

// ParseS3URI splits "s3://bucket/key/with/slashes".
func ParseS3URI(ref string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(ref, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
