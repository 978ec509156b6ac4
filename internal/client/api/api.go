// Package api wraps each admin REST resource in a small stateless module.
// Modules build paths, pick the response envelope and unwrap it; they do not
// cache or retry, and errors from the transport are returned unchanged.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Doer is satisfied by *httpclient.Client.
type Doer interface {
	Do(ctx context.Context, method, path string, body any, headers http.Header) (json.RawMessage, error)
}

// API groups every resource module over one transport.
type API struct {
	Projects            *Projects
	Reviews             *Reviews
	Users               *Users
	Master              *Master
	Domains             *Domains
	PaymentList         *Gallery
	AssociateDevelopers *Gallery
	Hero                *Hero
	About               *About
	Counts              *Counts
	Amenities           *Amenities
	Auth                *Auth
}

func New(d Doer) *API {
	return &API{
		Projects:            &Projects{d: d},
		Reviews:             &Reviews{d: d},
		Users:               &Users{d: d},
		Master:              &Master{d: d},
		Domains:             &Domains{d: d},
		PaymentList:         &Gallery{d: d, base: "/paymentlist"},
		AssociateDevelopers: &Gallery{d: d, base: "/associatedeveloper"},
		Hero:                &Hero{d: d},
		About:               &About{d: d},
		Counts:              &Counts{d: d},
		Amenities:           &Amenities{d: d},
		Auth:                &Auth{d: d},
	}
}

// pathID joins a resource base with an escaped id segment.
func pathID(base, id string) string {
	return base + "/" + url.PathEscape(id)
}
