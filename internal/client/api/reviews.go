package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/homepoint/internal/client/models"
)

type Reviews struct{ d Doer }

// List reads the "reviews" field; a body without it is an empty list.
func (r *Reviews) List(ctx context.Context) ([]models.Review, error) {
	raw, err := r.d.Do(ctx, http.MethodGet, "/reviews", nil, nil)
	if err != nil {
		return nil, err
	}
	return unwrapList[models.Review](raw, "reviews")
}

func (r *Reviews) Create(ctx context.Context, in models.Review) (models.Review, error) {
	raw, err := r.d.Do(ctx, http.MethodPost, "/reviews", in, nil)
	if err != nil {
		return models.Review{}, err
	}
	return unwrapData[models.Review](raw)
}

func (r *Reviews) Update(ctx context.Context, id string, in models.Review) (models.Review, error) {
	raw, err := r.d.Do(ctx, http.MethodPut, pathID("/reviews", id), in, nil)
	if err != nil {
		return models.Review{}, err
	}
	return unwrapData[models.Review](raw)
}

func (r *Reviews) Delete(ctx context.Context, id string) error {
	_, err := r.d.Do(ctx, http.MethodDelete, pathID("/reviews", id), nil, nil)
	return err
}
