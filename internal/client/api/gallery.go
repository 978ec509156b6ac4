package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/homepoint/internal/client/models"
)

// Gallery is the module for image-list resources (payment list, associate
// developers). Images travel as bare base64 payloads.
type Gallery struct {
	d    Doer
	base string
}

type galleryPayload struct {
	Images []string `json:"images"`
}

func (g *Gallery) Resource() string { return g.base[1:] }

func (g *Gallery) List(ctx context.Context) ([]models.Gallery, error) {
	raw, err := g.d.Do(ctx, http.MethodGet, g.base, nil, nil)
	if err != nil {
		return nil, err
	}
	return unwrapArray[models.Gallery](raw)
}

func (g *Gallery) Get(ctx context.Context, id string) (models.Gallery, error) {
	raw, err := g.d.Do(ctx, http.MethodGet, pathID(g.base, id), nil, nil)
	if err != nil {
		return models.Gallery{}, err
	}
	return unwrapData[models.Gallery](raw)
}

func (g *Gallery) Create(ctx context.Context, images []string) (models.Gallery, error) {
	raw, err := g.d.Do(ctx, http.MethodPost, g.base, galleryPayload{Images: images}, nil)
	if err != nil {
		return models.Gallery{}, err
	}
	return unwrapData[models.Gallery](raw)
}

// Update replaces the image list of id.
func (g *Gallery) Update(ctx context.Context, id string, images []string) (models.Gallery, error) {
	raw, err := g.d.Do(ctx, http.MethodPut, pathID(g.base, id), galleryPayload{Images: images}, nil)
	if err != nil {
		return models.Gallery{}, err
	}
	return unwrapData[models.Gallery](raw)
}

// RemoveImageAt drops the image at idx from record id.
func (g *Gallery) RemoveImageAt(ctx context.Context, id string, idx int) (models.Gallery, error) {
	raw, err := g.d.Do(ctx, http.MethodPut, pathID(g.base, id)+"/"+strconv.Itoa(idx), nil, nil)
	if err != nil {
		return models.Gallery{}, err
	}
	return unwrapData[models.Gallery](raw)
}

func (g *Gallery) Delete(ctx context.Context, id string) error {
	_, err := g.d.Do(ctx, http.MethodDelete, pathID(g.base, id), nil, nil)
	return err
}
