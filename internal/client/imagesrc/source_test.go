package imagesrc

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/homepoint/internal/client/imageenc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.PNG")
	require.NoError(t, os.WriteFile(path, []byte("png-bytes"), 0o600))

	f := File{Path: path}
	assert.Equal(t, "logo.PNG", f.Name())
	assert.Equal(t, "image/png", f.MIMEType())

	data, err := f.ReadBytes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	n, err := f.Size()
	require.NoError(t, err)
	assert.EqualValues(t, 9, n)

	_, err = File{Path: filepath.Join(t.TempDir(), "missing.jpg")}.ReadBytes(context.Background())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFile_EncodesThroughPipeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.gif")
	require.NoError(t, os.WriteFile(path, []byte("GIF89a"), 0o600))

	s, err := imageenc.New(imageenc.DataURI).EncodeSource(context.Background(), File{Path: path})
	require.NoError(t, err)
	assert.Equal(t, "data:image/gif;base64,R0lGODlh", s)
}

func TestParseS3URI(t *testing.T) {
	tests := []struct {
		ref    string
		bucket string
		key    string
		ok     bool
	}{
		{"s3://media/hero/banner.jpg", "media", "hero/banner.jpg", true},
		{"s3://media", "", "", false},
		{"s3:///key", "", "", false},
		{"/tmp/a.png", "", "", false},
	}

	for _, tt := range tests {
		b, k, ok := ParseS3URI(tt.ref)
		assert.Equal(t, tt.ok, ok, tt.ref)
		assert.Equal(t, tt.bucket, b, tt.ref)
		assert.Equal(t, tt.key, k, tt.ref)
	}
}

type fakeS3 struct {
	in   *s3.GetObjectInput
	body []byte
	ct   *string
	err  error
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.body)), ContentType: f.ct}, nil
}

func TestS3Object_ReadBytes(t *testing.T) {
	api := &fakeS3{body: []byte("jpeg"), ct: aws.String("image/jpeg")}
	obj := NewS3WithAPI(api).Object("media", "hero/banner.jpg")

	assert.Equal(t, "banner.jpg", obj.Name())
	assert.Empty(t, obj.MIMEType())

	data, err := obj.ReadBytes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), data)
	assert.Equal(t, "image/jpeg", obj.MIMEType())
	assert.Equal(t, "media", aws.ToString(api.in.Bucket))
	assert.Equal(t, "hero/banner.jpg", aws.ToString(api.in.Key))
}

func TestS3Object_Error(t *testing.T) {
	boom := errors.New("NoSuchKey")
	_, err := NewS3WithAPI(&fakeS3{err: boom}).Object("b", "k").ReadBytes(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "s3://b/k")
}

func TestResolver(t *testing.T) {
	r := &Resolver{S3: NewS3WithAPI(&fakeS3{})}

	src, err := r.Resolve("s3://media/a.png")
	require.NoError(t, err)
	assert.IsType(t, &S3Object{}, src)

	src, err = r.Resolve("./a.png")
	require.NoError(t, err)
	assert.Equal(t, File{Path: "./a.png"}, src)

	_, err = (&Resolver{}).Resolve("s3://media/a.png")
	require.ErrorIs(t, err, ErrS3NotConfigured)

	all, err := r.ResolveAll([]string{"a.png", "s3://m/b.png"})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestNewS3_AppliesConfig(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-central-1", lo.Region)
		assert.NotNil(t, lo.Credentials)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	s, err := NewS3(context.Background(), S3Config{
		Region: "eu-central-1", Endpoint: "http://127.0.0.1:9000", AccessKey: "minio", SecretKey: "secret",
	})
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "http://127.0.0.1:9000", aws.ToString(opts.BaseEndpoint))
	assert.True(t, opts.UsePathStyle)
}

func TestNewS3_LoadError(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no region")
	}

	_, err := NewS3(context.Background(), S3Config{})
	require.Error(t, err)
}
