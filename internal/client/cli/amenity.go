package cli

import (
	"context"

	"github.com/dmitrijs2005/homepoint/internal/client/imageenc"
)

// Amenity uploads an amenity tile; the image goes out as a multipart file.
func (a *App) Amenity(ctx context.Context, args []string) error {
	if op, _ := sub(args); op != "add" {
		return a.fail("", usage("amenity add"))
	}

	title, err := a.text("Amenity title")
	if err != nil {
		return err
	}
	ref, err := a.text("Image: file path or s3:// URI")
	if err != nil {
		return err
	}
	var src imageenc.Source
	if ref != "" {
		if src, err = a.resolver.Resolve(ref); err != nil {
			return a.fail("", err)
		}
	}

	if _, err := a.screens.UploadAmenity(ctx, title, src); err != nil {
		return a.fail("Uploading amenity failed", err)
	}
	a.notify.Success("Amenity uploaded!")
	return nil
}
