package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/homepoint/internal/client/models"
)

type Master struct{ d Doer }

// Get returns the master record or nil when none exists yet.
func (m *Master) Get(ctx context.Context) (*models.Master, error) {
	raw, err := m.d.Do(ctx, http.MethodGet, "/master", nil, nil)
	if err != nil {
		return nil, err
	}
	return unwrapSingleton[models.Master](raw)
}

func (m *Master) Create(ctx context.Context, in models.Master) (models.Master, error) {
	in.ID = ""
	raw, err := m.d.Do(ctx, http.MethodPost, "/master", in, nil)
	if err != nil {
		return models.Master{}, err
	}
	return unwrapData[models.Master](raw)
}

func (m *Master) Update(ctx context.Context, id string, in models.Master) (models.Master, error) {
	raw, err := m.d.Do(ctx, http.MethodPut, pathID("/master", id), in, nil)
	if err != nil {
		return models.Master{}, err
	}
	return unwrapData[models.Master](raw)
}
