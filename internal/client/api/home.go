package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/homepoint/internal/client/httpclient"
	"github.com/dmitrijs2005/homepoint/internal/client/models"
	"github.com/dmitrijs2005/homepoint/internal/common"
	"github.com/tidwall/gjson"
)

type Hero struct{ d Doer }

// Get returns the home hero or nil when none is configured.
func (h *Hero) Get(ctx context.Context) (*models.Hero, error) {
	raw, err := h.d.Do(ctx, http.MethodGet, "/homehero", nil, nil)
	if err != nil {
		return nil, err
	}
	return unwrapSingleton[models.Hero](raw)
}

func (h *Hero) Create(ctx context.Context, in models.Hero) (models.Hero, error) {
	in.ID = ""
	raw, err := h.d.Do(ctx, http.MethodPost, "/homehero", in, nil)
	if err != nil {
		return models.Hero{}, err
	}
	return unwrapData[models.Hero](raw)
}

func (h *Hero) Update(ctx context.Context, id string, in models.Hero) (models.Hero, error) {
	raw, err := h.d.Do(ctx, http.MethodPut, pathID("/homehero", id), in, nil)
	if err != nil {
		return models.Hero{}, err
	}
	return unwrapData[models.Hero](raw)
}

type About struct{ d Doer }

// Get returns the about block or nil. A 2xx body with "success": false is
// reported as an *httpclient.HTTPStatusError carrying the server message.
func (a *About) Get(ctx context.Context) (*models.About, error) {
	raw, err := a.d.Do(ctx, http.MethodGet, "/homeabout", nil, nil)
	if err != nil {
		return nil, err
	}
	if s := gjson.GetBytes(raw, "success"); s.Exists() && s.Type == gjson.False {
		msg := gjson.GetBytes(raw, "message").String()
		if msg == "" {
			msg = common.DefaultErrorMessage
		}
		return nil, &httpclient.HTTPStatusError{StatusCode: http.StatusOK, Message: msg, Body: raw}
	}
	return unwrapSingleton[models.About](raw)
}

func (a *About) Create(ctx context.Context, in models.About) (models.About, error) {
	in.ID = ""
	raw, err := a.d.Do(ctx, http.MethodPost, "/homeabout", in, nil)
	if err != nil {
		return models.About{}, err
	}
	return unwrapData[models.About](raw)
}

func (a *About) Update(ctx context.Context, id string, in models.About) (models.About, error) {
	raw, err := a.d.Do(ctx, http.MethodPut, pathID("/homeabout", id), in, nil)
	if err != nil {
		return models.About{}, err
	}
	return unwrapData[models.About](raw)
}
