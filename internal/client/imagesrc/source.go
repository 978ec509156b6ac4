// Package imagesrc provides the byte sources the operator can attach to a
// form: local files, in-memory buffers and S3 objects.
package imagesrc

import (
	"context"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/homepoint/internal/client/imageenc"
)

// File reads a local file. The MIME type is derived from the extension and
// left empty (sniffed) for unknown extensions.
type File struct {
	Path string
}

func (f File) Name() string { return filepath.Base(f.Path) }

func (f File) MIMEType() string {
	return mime.TypeByExtension(strings.ToLower(filepath.Ext(f.Path)))
}

func (f File) ReadBytes(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(f.Path)
}

// Size returns the file size in bytes.
func (f File) Size() (int64, error) {
	st, err := os.Stat(f.Path)
	if err != nil {
		return 0, err
	}
	return st.Size(), nil
}

// Bytes is an in-memory source.
type Bytes struct {
	FileName string
	Type     string
	Data     []byte
}

func (b Bytes) Name() string { return b.FileName }
func (b Bytes) MIMEType() string { return b.Type }
func (b Bytes) ReadBytes(context.Context) ([]byte, error) { return b.Data, nil }
func (b Bytes) Size() (int64, error) { return int64(len(b.Data)), nil }

// Sized is implemented by sources that know their length without reading.
type Sized interface {
	Size() (int64, error)
}

// Resolver turns operator-typed references into sources.
type Resolver struct {
	S3 *S3
}

// Resolve maps "s3://bucket/key" to an S3Object and anything else to a
// local File.
func (r *Resolver) Resolve(ref string) (imageenc.Source, error) {
	if bucket, key, ok := ParseS3URI(ref); ok {
		if r == nil || r.S3 == nil {
			return nil, ErrS3NotConfigured
		}
		return r.S3.Object(bucket, key), nil
	}
	return File{Path: ref}, nil
}

// ResolveAll resolves each reference in order.
func (r *Resolver) ResolveAll(refs []string) ([]imageenc.Source, error) {
	out := make([]imageenc.Source, 0, len(refs))
	for _, ref := range refs {
		s, err := r.Resolve(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
