// Package imageenc turns binary values embedded in request payloads into
// base64 text. Payloads are walked recursively; every Source (or io.Reader)
// leaf is read and replaced by its encoding, everything else is copied.
package imageenc

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
)

// Convention selects the textual form of an encoded image.
type Convention int

const (
	// DataURI renders "data:<mime>;base64,<payload>".
	DataURI Convention = iota
	// Bare renders only the base64 payload.
	Bare
)

func (c Convention) String() string {
	if c == Bare {
		return "bare"
	}
	return "data-uri"
}

// Source is a binary input selected by the operator.
type Source interface {
	Name() string
	// MIMEType may return "" in which case the type is sniffed.
	MIMEType() string
	ReadBytes(ctx context.Context) ([]byte, error)
}

// EncodingError reports which leaf failed. Path uses "a[1].b" notation.
type EncodingError struct {
	Path string
	Err  error
}

func (e *EncodingError) Error() string {
	if e.Path == "" {
		return "encode image: " + e.Err.Error()
	}
	return fmt.Sprintf("encode image at %s: %v", e.Path, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

type Option func(*Encoder)

// WithPNG re-encodes every image as PNG before it is base64 encoded.
func WithPNG() Option {
	return func(e *Encoder) { e.toPNG = true }
}

// WithConcurrency caps the number of sources read at once. Zero or negative
// means unlimited.
func WithConcurrency(n int) Option {
	return func(e *Encoder) { e.limit = n }
}

type Encoder struct {
	conv  Convention
	toPNG bool
	limit int
}

func New(conv Convention, opts ...Option) *Encoder {
	e := &Encoder{conv: conv}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Encoder) Convention() Convention { return e.conv }

type job struct {
	path string
	src  Source
}

// Encode returns a copy of value in which every binary leaf is replaced by
// its encoded string. map[string]any, []any, []map[string]any and []Source
// are descended into at any depth; a []Source becomes a []string. All leaves
// are read concurrently. If any leaf fails the whole call fails with an
// *EncodingError and no partial result is returned.
func (e *Encoder) Encode(ctx context.Context, value any) (any, error) {
	var jobs []job
	build := plan(value, "", &jobs)

	results := make([]string, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			s, err := e.EncodeSource(gctx, j.src)
			if err != nil {
				return &EncodingError{Path: j.path, Err: err}
			}
			results[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return build(results), nil
}

// EncodeSource reads and encodes a single source.
func (e *Encoder) EncodeSource(ctx context.Context, src Source) (string, error) {
	data, err := src.ReadBytes(ctx)
	if err != nil {
		return "", err
	}
	mime := src.MIMEType()
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	if e.toPNG {
		data, err = convertPNG(data)
		if err != nil {
			return "", err
		}
		mime = "image/png"
	}
	return EncodeBytes(e.conv, mime, data), nil
}

// EncodeBytes is the pure encoding step.
func EncodeBytes(conv Convention, mime string, data []byte) string {
	payload := base64.StdEncoding.EncodeToString(data)
	if conv == Bare {
		return payload
	}
	return "data:" + mime + ";base64," + payload
}

func convertPNG(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// plan walks v, registers a job per binary leaf and returns a function that
// assembles the encoded copy once the job results are known.
func plan(v any, path string, jobs *[]job) func([]string) any {
	switch x := v.(type) {
	case Source:
		return leaf(x, path, jobs)
	case io.Reader:
		return leaf(&readerSource{r: x, name: path}, path, jobs)
	case map[string]any:
		if x == nil {
			return constant(x)
		}
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		builders := make(map[string]func([]string) any, len(x))
		for _, k := range keys {
			builders[k] = plan(x[k], joinKey(path, k), jobs)
		}
		return func(r []string) any {
			out := make(map[string]any, len(builders))
			for k, b := range builders {
				out[k] = b(r)
			}
			return out
		}
	case []any:
		if x == nil {
			return constant(x)
		}
		builders := make([]func([]string) any, len(x))
		for i, item := range x {
			builders[i] = plan(item, joinIndex(path, i), jobs)
		}
		return func(r []string) any {
			out := make([]any, len(builders))
			for i, b := range builders {
				out[i] = b(r)
			}
			return out
		}
	case []map[string]any:
		if x == nil {
			return constant(x)
		}
		builders := make([]func([]string) any, len(x))
		for i, item := range x {
			builders[i] = plan(item, joinIndex(path, i), jobs)
		}
		return func(r []string) any {
			out := make([]map[string]any, len(builders))
			for i, b := range builders {
				out[i], _ = b(r).(map[string]any)
			}
			return out
		}
	case []Source:
		if x == nil {
			return constant([]string(nil))
		}
		idx := make([]int, len(x))
		for i, s := range x {
			idx[i] = len(*jobs)
			*jobs = append(*jobs, job{path: joinIndex(path, i), src: s})
		}
		return func(r []string) any {
			out := make([]string, len(idx))
			for i, j := range idx {
				out[i] = r[j]
			}
			return out
		}
	default:
		return constant(v)
	}
}

func leaf(src Source, path string, jobs *[]job) func([]string) any {
	i := len(*jobs)
	*jobs = append(*jobs, job{path: path, src: src})
	return func(r []string) any { return r[i] }
}

func constant(v any) func([]string) any {
	return func([]string) any { return v }
}

func joinKey(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func joinIndex(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

// readerSource adapts a plain io.Reader; its type is always sniffed.
type readerSource struct {
	r    io.Reader
	name string
}

func (s *readerSource) Name() string     { return s.name }
func (s *readerSource) MIMEType() string { return "" }

func (s *readerSource) ReadBytes(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.ReadAll(s.r)
}
