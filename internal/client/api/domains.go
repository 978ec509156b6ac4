package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/homepoint/internal/client/models"
)

type Domains struct{ d Doer }

func (d *Domains) List(ctx context.Context) ([]models.Domain, error) {
	raw, err := d.d.Do(ctx, http.MethodGet, "/domains", nil, nil)
	if err != nil {
		return nil, err
	}
	return unwrapArray[models.Domain](raw)
}

func (d *Domains) ActiveCount(ctx context.Context) (int64, error) {
	return count(ctx, d.d, "/domains/active-count")
}

func (d *Domains) ExpiredCount(ctx context.Context) (int64, error) {
	return count(ctx, d.d, "/domains/expired-count")
}
