package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/homepoint/internal/client/models"
	"github.com/tidwall/gjson"
)

type Projects struct{ d Doer }

// List returns all projects. A body carrying a single "project" object is
// treated as a one-element list.
func (p *Projects) List(ctx context.Context) ([]models.Project, error) {
	raw, err := p.d.Do(ctx, http.MethodGet, "/projects", nil, nil)
	if err != nil {
		return nil, err
	}
	if r := gjson.GetBytes(raw, "project"); r.IsObject() {
		one, err := decode[models.Project]([]byte(r.Raw))
		if err != nil {
			return nil, err
		}
		return []models.Project{one}, nil
	}
	return unwrapArray[models.Project](raw)
}

func (p *Projects) Get(ctx context.Context, id string) (models.Project, error) {
	raw, err := p.d.Do(ctx, http.MethodGet, pathID("/projects", id), nil, nil)
	if err != nil {
		return models.Project{}, err
	}
	return unwrapData[models.Project](raw)
}

// Create posts an already-encoded nested project payload.
func (p *Projects) Create(ctx context.Context, payload map[string]any) (models.Project, error) {
	raw, err := p.d.Do(ctx, http.MethodPost, "/projects", payload, nil)
	if err != nil {
		return models.Project{}, err
	}
	return unwrapData[models.Project](raw)
}

func (p *Projects) Delete(ctx context.Context, id string) error {
	_, err := p.d.Do(ctx, http.MethodDelete, pathID("/projects", id), nil, nil)
	return err
}

func (p *Projects) ZonesLaunches(ctx context.Context) ([]models.ZoneLaunch, error) {
	raw, err := p.d.Do(ctx, http.MethodGet, "/projects/zones-launches", nil, nil)
	if err != nil {
		return nil, err
	}
	return unwrapArray[models.ZoneLaunch](raw)
}
