package cli

import (
	"context"

	"github.com/dmitrijs2005/homepoint/internal/client/forms"
	"github.com/dmitrijs2005/homepoint/internal/client/imageenc"
	"github.com/dmitrijs2005/homepoint/internal/client/querycache"
)

func (a *App) peek(key querycache.Key) querycache.Entry {
	e, _ := a.screens.Cache().Peek(key)
	return e
}

// beginSingleton loads e into ctl and starts editing the record, or
// creating one when the resource does not exist yet.
func beginSingleton[T any](ctl *forms.Controller[T], e querycache.Entry) error {
	ctl.Load(e)
	if ctl.State() == forms.StateViewing {
		return ctl.BeginEdit()
	}
	return ctl.BeginCreate()
}

// askFiles prompts for file references. No input means no change.
func (a *App) askFiles(label string) ([]imageenc.Source, error) {
	refs, err := GetList(a.reader, label+": file paths or s3:// URIs, empty to keep", a.out)
	if err != nil || len(refs) == 0 {
		return nil, err
	}
	return a.resolver.ResolveAll(refs)
}

// attach asks for files and stores them on ctl under field.
func attach[T any](a *App, ctl *forms.Controller[T], field, label string) error {
	srcs, err := a.askFiles(label)
	if err != nil {
		return err
	}
	if len(srcs) == 0 {
		return nil
	}
	return ctl.SetFiles(field, srcs...)
}

// fill copies the draft, lets edit change the copy and writes it back.
func fill[T any](ctl *forms.Controller[T], edit func(v *T) error) error {
	v := ctl.Draft().Value
	if err := edit(&v); err != nil {
		return err
	}
	return ctl.Edit(func(d *T) { *d = v })
}

func submit[T any](ctx context.Context, a *App, ctl *forms.Controller[T], okMsg, failMsg string) (T, error) {
	rec, err := ctl.Submit(ctx)
	if err != nil {
		return rec, a.fail(failMsg, err)
	}
	a.notify.Success(okMsg)
	return rec, nil
}
