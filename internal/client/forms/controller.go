// Package forms holds the edit/create state machines behind the admin
// screens. A Controller keeps the last loaded record, an editable draft and
// pending file selections; Submit validates, encodes the files and runs the
// mutation through the query cache so that success invalidates the screens
// that show the record.
package forms

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/homepoint/internal/client/imageenc"
	"github.com/dmitrijs2005/homepoint/internal/client/querycache"
	"github.com/dmitrijs2005/homepoint/internal/common"
)

type State int

const (
	StateEmpty State = iota
	StateViewing
	StateEditing
	StateCreating
)

func (s State) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateEditing:
		return "editing"
	case StateCreating:
		return "creating"
	default:
		return "empty"
	}
}

// Draft is the editable copy of a record plus files picked for it, keyed by
// field name.
type Draft[T any] struct {
	Value T
	Files map[string][]imageenc.Source
}

// Binding connects a controller to its resource.
type Binding[T any] struct {
	Name     string
	Encoder  *imageenc.Encoder
	Template func() T
	Validate func(d Draft[T]) error
	// Apply stores encoded files into the value that is sent.
	Apply  func(v *T, files map[string][]string)
	Create func(ctx context.Context, v T) (T, error)
	Update func(ctx context.Context, id string, v T) (T, error)
	ID     func(v T) string
	// Invalidate lists what a successful submit makes stale.
	Invalidate []querycache.Matcher
}

type Controller[T any] struct {
	mu         sync.Mutex
	state      State
	record     *T
	draft      Draft[T]
	submitting bool

	cache *querycache.Cache
	b     Binding[T]
}

func NewController[T any](cache *querycache.Cache, b Binding[T]) *Controller[T] {
	return &Controller[T]{cache: cache, b: b}
}

func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Editable reports whether fields accept input.
func (c *Controller[T]) Editable() bool {
	s := c.State()
	return s == StateEditing || s == StateCreating
}

// Record returns a copy of the last loaded record.
func (c *Controller[T]) Record() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.record == nil {
		var zero T
		return zero, false
	}
	return *c.record, true
}

func (c *Controller[T]) Draft() Draft[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := Draft[T]{Value: c.draft.Value}
	if len(c.draft.Files) > 0 {
		d.Files = make(map[string][]imageenc.Source, len(c.draft.Files))
		for k, v := range c.draft.Files {
			d.Files[k] = append([]imageenc.Source(nil), v...)
		}
	}
	return d
}

// Load applies a cache snapshot. Data of type T or *T counts as a record; a
// nil pointer or no data means the resource does not exist. A draft being
// edited or created is never overwritten.
func (c *Controller[T]) Load(e querycache.Entry) {
	var rec *T
	switch v := e.Data.(type) {
	case T:
		rec = &v
	case *T:
		if v != nil {
			cp := *v
			rec = &cp
		}
	}
	c.LoadRecord(rec)
}

// LoadRecord is Load for callers that already hold the record.
func (c *Controller[T]) LoadRecord(rec *T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if rec != nil {
		cp := *rec
		rec = &cp
	}
	switch c.state {
	case StateEditing, StateCreating:
		if rec != nil {
			c.record = rec
		}
		return
	}
	c.record = rec
	if rec == nil {
		c.state = StateEmpty
	} else {
		c.state = StateViewing
	}
}

// BeginEdit moves viewing -> editing with the loaded record as the draft.
func (c *Controller[T]) BeginEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.b.Update == nil {
		return fmt.Errorf("%w: %s cannot be edited", common.ErrInvalidTransition, c.b.Name)
	}
	if c.state != StateViewing || c.record == nil {
		return fmt.Errorf("%w: edit from %s", common.ErrInvalidTransition, c.state)
	}
	c.draft = Draft[T]{Value: clone(*c.record)}
	c.state = StateEditing
	return nil
}

// BeginCreate moves empty -> creating with a template draft. Viewing is
// also accepted for list screens, where the loaded record is just the
// selected row.
func (c *Controller[T]) BeginCreate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.b.Create == nil {
		return fmt.Errorf("%w: %s cannot be created", common.ErrInvalidTransition, c.b.Name)
	}
	if c.state != StateEmpty && c.state != StateViewing {
		return fmt.Errorf("%w: create from %s", common.ErrInvalidTransition, c.state)
	}
	var v T
	if c.b.Template != nil {
		v = c.b.Template()
	}
	c.draft = Draft[T]{Value: v}
	c.state = StateCreating
	return nil
}

// Edit changes the draft in place.
func (c *Controller[T]) Edit(fn func(v *T)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateEditing && c.state != StateCreating {
		return fmt.Errorf("%w: fields are read-only while %s", common.ErrInvalidTransition, c.state)
	}
	fn(&c.draft.Value)
	return nil
}

// SetFiles replaces the pending selection for field. No sources clears it.
func (c *Controller[T]) SetFiles(field string, srcs ...imageenc.Source) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateEditing && c.state != StateCreating {
		return fmt.Errorf("%w: fields are read-only while %s", common.ErrInvalidTransition, c.state)
	}
	if len(srcs) == 0 {
		delete(c.draft.Files, field)
		return nil
	}
	if c.draft.Files == nil {
		c.draft.Files = make(map[string][]imageenc.Source)
	}
	c.draft.Files[field] = append([]imageenc.Source(nil), srcs...)
	return nil
}

// Cancel discards the draft: editing -> viewing, creating -> empty (or
// viewing when a record is loaded).
func (c *Controller[T]) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateEditing, StateCreating:
		c.draft = Draft[T]{}
		if c.record != nil {
			c.state = StateViewing
		} else {
			c.state = StateEmpty
		}
	}
}

// Reset forgets the loaded record and the draft.
func (c *Controller[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record = nil
	c.draft = Draft[T]{}
	c.state = StateEmpty
}

// Submit validates the draft, encodes pending files and creates or updates
// the record. On any failure state and draft are left as they were.
func (c *Controller[T]) Submit(ctx context.Context) (T, error) {
	var zero T

	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return zero, ErrBusy
	}
	state := c.state
	if state != StateEditing && state != StateCreating {
		c.mu.Unlock()
		return zero, fmt.Errorf("%w: submit while %s", common.ErrInvalidTransition, state)
	}
	var id string
	if state == StateEditing && c.b.ID != nil {
		id = c.b.ID(*c.record)
	}
	c.submitting = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	d := c.Draft()
	if c.b.Validate != nil {
		if err := c.b.Validate(d); err != nil {
			return zero, err
		}
	}

	value := d.Value
	if len(d.Files) > 0 {
		files, err := c.encodeFiles(ctx, d.Files)
		if err != nil {
			return zero, err
		}
		if c.b.Apply != nil {
			c.b.Apply(&value, files)
		}
	}

	res, err := c.cache.Mutate(ctx, func(ctx context.Context) (any, error) {
		if state == StateCreating {
			return c.b.Create(ctx, value)
		}
		return c.b.Update(ctx, id, value)
	}, c.b.Invalidate...)
	if err != nil {
		return zero, err
	}
	rec := res.(T)

	c.mu.Lock()
	if c.state == state {
		c.record = &rec
		c.draft = Draft[T]{}
		c.state = StateViewing
	}
	c.mu.Unlock()

	return rec, nil
}

func (c *Controller[T]) encodeFiles(ctx context.Context, files map[string][]imageenc.Source) (map[string][]string, error) {
	enc := c.b.Encoder
	if enc == nil {
		enc = imageenc.New(imageenc.DataURI)
	}

	in := make(map[string]any, len(files))
	for k, v := range files {
		in[k] = v
	}
	out, err := enc.Encode(ctx, in)
	if err != nil {
		return nil, err
	}

	encoded := make(map[string][]string, len(files))
	for k, v := range out.(map[string]any) {
		if s, ok := v.([]string); ok {
			encoded[k] = s
		}
	}
	return encoded, nil
}

// clone deep-copies plain records through JSON. Values JSON cannot carry
// are copied shallowly.
func clone[T any](v T) T {
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}
