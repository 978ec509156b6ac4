package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/homepoint/internal/client/models"
)

type Users struct{ d Doer }

func (u *Users) List(ctx context.Context) ([]models.User, error) {
	raw, err := u.d.Do(ctx, http.MethodGet, "/users", nil, nil)
	if err != nil {
		return nil, err
	}
	return unwrapList[models.User](raw, "users")
}

// Get unwraps "user", then "data", then the raw body.
func (u *Users) Get(ctx context.Context, id string) (models.User, error) {
	raw, err := u.d.Do(ctx, http.MethodGet, pathID("/users", id), nil, nil)
	if err != nil {
		return models.User{}, err
	}
	return decode[models.User](pick(raw, "user", "data"))
}

func (u *Users) Create(ctx context.Context, in models.User) (models.User, error) {
	raw, err := u.d.Do(ctx, http.MethodPost, "/users", in, nil)
	if err != nil {
		return models.User{}, err
	}
	return unwrapData[models.User](raw)
}

func (u *Users) Update(ctx context.Context, id string, in models.User) (models.User, error) {
	raw, err := u.d.Do(ctx, http.MethodPut, pathID("/users", id), in, nil)
	if err != nil {
		return models.User{}, err
	}
	return unwrapData[models.User](raw)
}

func (u *Users) Delete(ctx context.Context, id string) error {
	_, err := u.d.Do(ctx, http.MethodDelete, pathID("/users", id), nil, nil)
	return err
}
