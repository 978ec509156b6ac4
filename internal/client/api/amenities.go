package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/homepoint/internal/client/httpclient"
	"github.com/dmitrijs2005/homepoint/internal/client/imageenc"
	"github.com/dmitrijs2005/homepoint/internal/client/models"
)

// Amenities uploads amenity tiles. Unlike the other modules the image is
// sent as a multipart file, not as base64 inside JSON.
type Amenities struct{ d Doer }

func (a *Amenities) Upload(ctx context.Context, title string, image imageenc.Source) (models.Amenity, error) {
	data, err := image.ReadBytes(ctx)
	if err != nil {
		return models.Amenity{}, fmt.Errorf("read %s: %w", image.Name(), err)
	}
	ct := image.MIMEType()
	if ct == "" {
		ct = http.DetectContentType(data)
	}

	body := &httpclient.Multipart{
		Fields: map[string]string{"title": title},
		Files: []httpclient.FilePart{{
			Field:       "image",
			FileName:    image.Name(),
			ContentType: ct,
			Data:        data,
		}},
	}
	raw, err := a.d.Do(ctx, http.MethodPost, "/amenities", body, nil)
	if err != nil {
		return models.Amenity{}, err
	}
	return unwrapData[models.Amenity](raw)
}
