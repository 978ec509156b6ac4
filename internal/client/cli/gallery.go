package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/homepoint/internal/client/api"
	"github.com/dmitrijs2005/homepoint/internal/client/forms"
	"github.com/dmitrijs2005/homepoint/internal/client/keys"
	"github.com/dmitrijs2005/homepoint/internal/common"
)

func (a *App) PaymentList(ctx context.Context, args []string) error {
	return a.gallery(ctx, a.screens.API().PaymentList, "paymentlist", args)
}

func (a *App) Developers(ctx context.Context, args []string) error {
	return a.gallery(ctx, a.screens.API().AssociateDevelopers, "developers", args)
}

// gallery drives an image-list resource. Images are uploaded as bare
// base64; edit appends to the existing list.
func (a *App) gallery(ctx context.Context, g *api.Gallery, cmd string, args []string) error {
	// load starts a controller from the record's own cache entry.
	load := func(id string) (*forms.Gallery, error) {
		rec, err := a.screens.GalleryItem(ctx, g, id)
		if err != nil {
			return nil, err
		}
		if rec.ID == "" {
			return nil, fmt.Errorf("%w: no %s record %s", common.ErrNotFound, cmd, id)
		}
		ctl := forms.NewGallery(a.screens.Cache(), g)
		ctl.Load(a.peek(keys.GalleryItem(g.Resource(), id)))
		return ctl, nil
	}

	op, rest := sub(args)
	switch {
	case op == "":
		list, err := a.screens.Gallery(ctx, g)
		if err != nil {
			return a.fail("Loading images failed", err)
		}
		rows := make([][]string, 0, len(list))
		for _, rec := range list {
			for i, img := range rec.Images {
				rows = append(rows, []string{rec.ID, strconv.Itoa(i), imageInfo(img)})
			}
			if len(rec.Images) == 0 {
				rows = append(rows, []string{rec.ID, "-", ""})
			}
		}
		table(a.out, []string{"id", "n", "image"}, rows)
		return nil

	case op == "add":
		ctl := forms.NewGallery(a.screens.Cache(), g)
		if err := ctl.BeginCreate(); err != nil {
			return a.fail("", err)
		}
		if err := attach(a, ctl.Controller, "images", "Images"); err != nil {
			return a.fail("", err)
		}
		_, err := submit(ctx, a, ctl.Controller, "Images uploaded successfully!", "Error submitting images")
		return err

	case op == "edit" && len(rest) == 1:
		ctl, err := load(rest[0])
		if err != nil {
			return a.fail("Loading record failed", err)
		}
		if err := ctl.BeginEdit(); err != nil {
			return a.fail("", err)
		}
		if err := attach(a, ctl.Controller, "images", "Images to add"); err != nil {
			return a.fail("", err)
		}
		_, err = submit(ctx, a, ctl.Controller, "Images updated successfully!", "Error submitting images")
		return err

	case op == "rmimg" && len(rest) == 2:
		idx, err := strconv.Atoi(rest[1])
		if err != nil {
			return a.fail("", usage(cmd+" rmimg <id> <n>"))
		}
		ctl, err := load(rest[0])
		if err != nil {
			return a.fail("Loading record failed", err)
		}
		if _, err := ctl.RemoveImageAt(ctx, idx); err != nil {
			return a.fail("Error deleting image", err)
		}
		a.notify.Success("Image deleted successfully!")
		return nil

	case op == "delete" && len(rest) == 1:
		if err := a.screens.DeleteGallery(ctx, g, rest[0]); err != nil {
			return a.fail("Deleting record failed", err)
		}
		a.notify.Success("Record deleted")
		return nil
	}
	return a.fail("", usage(cmd+" [add|edit <id>|rmimg <id> <n>|delete <id>]"))
}
