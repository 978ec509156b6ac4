package services

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/homepoint/internal/client/api"
	"github.com/dmitrijs2005/homepoint/internal/client/forms"
	"github.com/dmitrijs2005/homepoint/internal/client/imageenc"
	"github.com/dmitrijs2005/homepoint/internal/client/keys"
	"github.com/dmitrijs2005/homepoint/internal/client/models"
	"github.com/dmitrijs2005/homepoint/internal/client/querycache"
	"golang.org/x/sync/errgroup"
)

// Screens serves every read of the admin screens through the query cache
// and runs deletes as cache mutations.
type Screens struct {
	api   *api.API
	cache *querycache.Cache
	now   func() time.Time
}

func NewScreens(a *api.API, c *querycache.Cache) *Screens {
	return &Screens{api: a, cache: c, now: time.Now}
}

func (s *Screens) API() *api.API             { return s.api }
func (s *Screens) Cache() *querycache.Cache { return s.cache }

// get reads key through the cache. When the last fetch failed the error is
// returned together with whatever data the entry still holds.
func get[T any](ctx context.Context, c *querycache.Cache, key querycache.Key, fetch func(context.Context) (T, error)) (T, error) {
	e, err := c.Get(ctx, key, func(ctx context.Context) (any, error) { return fetch(ctx) })
	v, _ := querycache.Typed[T](e)
	if err != nil {
		return v, err
	}
	if e.Status == querycache.StatusError {
		return v, e.Err
	}
	return v, nil
}

func (s *Screens) Master(ctx context.Context) (*models.Master, error) {
	return get(ctx, s.cache, keys.Master, s.api.Master.Get)
}

func (s *Screens) Hero(ctx context.Context) (*models.Hero, error) {
	return get(ctx, s.cache, keys.Hero, s.api.Hero.Get)
}

func (s *Screens) About(ctx context.Context) (*models.About, error) {
	return get(ctx, s.cache, keys.About, s.api.About.Get)
}

func (s *Screens) Reviews(ctx context.Context) ([]models.Review, error) {
	return get(ctx, s.cache, keys.Reviews, s.api.Reviews.List)
}

func (s *Screens) Users(ctx context.Context) ([]models.User, error) {
	return get(ctx, s.cache, keys.Users, s.api.Users.List)
}

func (s *Screens) User(ctx context.Context, id string) (models.User, error) {
	return get(ctx, s.cache, keys.User(id), func(ctx context.Context) (models.User, error) {
		return s.api.Users.Get(ctx, id)
	})
}

func (s *Screens) Projects(ctx context.Context) ([]models.Project, error) {
	return get(ctx, s.cache, keys.Projects, s.api.Projects.List)
}

func (s *Screens) Project(ctx context.Context, id string) (models.Project, error) {
	return get(ctx, s.cache, keys.Project(id), func(ctx context.Context) (models.Project, error) {
		return s.api.Projects.Get(ctx, id)
	})
}

func (s *Screens) ZonesLaunches(ctx context.Context) ([]models.ZoneLaunch, error) {
	return get(ctx, s.cache, keys.ZonesLaunches, s.api.Projects.ZonesLaunches)
}

func (s *Screens) Domains(ctx context.Context) ([]models.Domain, error) {
	return get(ctx, s.cache, keys.Domains, s.api.Domains.List)
}

// Gallery lists an image-list resource such as the payment list.
func (s *Screens) Gallery(ctx context.Context, g *api.Gallery) ([]models.Gallery, error) {
	return get(ctx, s.cache, keys.Gallery(g.Resource()), g.List)
}

// GalleryItem reads one record of an image-list resource by id.
func (s *Screens) GalleryItem(ctx context.Context, g *api.Gallery, id string) (models.Gallery, error) {
	return get(ctx, s.cache, keys.GalleryItem(g.Resource(), id), func(ctx context.Context) (models.Gallery, error) {
		return g.Get(ctx, id)
	})
}

// Counts loads the four dashboard counters concurrently; each is cached
// under its own key.
func (s *Screens) Counts(ctx context.Context) (models.Counts, error) {
	var out models.Counts
	g, gctx := errgroup.WithContext(ctx)
	load := func(key querycache.Key, fetch func(context.Context) (int64, error), dst *int64) {
		g.Go(func() error {
			n, err := get(gctx, s.cache, key, fetch)
			*dst = n
			return err
		})
	}
	load(keys.ActiveDomainsCount, s.api.Domains.ActiveCount, &out.ActiveDomains)
	load(keys.ExpiredDomainsCount, s.api.Domains.ExpiredCount, &out.ExpiredDomains)
	load(keys.ProjectsCount, s.api.Counts.Projects, &out.Projects)
	load(keys.UsersCount, s.api.Counts.Users, &out.Users)
	err := g.Wait()
	return out, err
}

// ExpiringDomains returns the domains that expire within
// models.ExpiringSoonWindow.
func (s *Screens) ExpiringDomains(ctx context.Context) ([]models.Domain, error) {
	all, err := s.Domains(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	var out []models.Domain
	for _, d := range all {
		if d.ExpiringSoon(now) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Screens) mutate(ctx context.Context, op func(context.Context) error, invalidate ...querycache.Matcher) error {
	_, err := s.cache.Mutate(ctx, func(ctx context.Context) (any, error) {
		return nil, op(ctx)
	}, invalidate...)
	return err
}

// UploadAmenity posts an amenity tile with its image as a multipart file.
func (s *Screens) UploadAmenity(ctx context.Context, title string, image imageenc.Source) (models.Amenity, error) {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return models.Amenity{}, &forms.ValidationError{Field: "title", Message: "Amenity title is required"}
	case image == nil:
		return models.Amenity{}, &forms.ValidationError{Field: "image", Message: "Amenity image is required"}
	}
	res, err := s.cache.Mutate(ctx, func(ctx context.Context) (any, error) {
		return s.api.Amenities.Upload(ctx, title, image)
	}, querycache.Prefix(keys.ResourceAmenities))
	if err != nil {
		return models.Amenity{}, err
	}
	return res.(models.Amenity), nil
}

func (s *Screens) DeleteReview(ctx context.Context, id string) error {
	return s.mutate(ctx, func(ctx context.Context) error {
		return s.api.Reviews.Delete(ctx, id)
	}, keys.Reviews)
}

func (s *Screens) DeleteUser(ctx context.Context, id string) error {
	return s.mutate(ctx, func(ctx context.Context) error {
		return s.api.Users.Delete(ctx, id)
	}, keys.Users, keys.UsersCount, keys.User(id))
}

func (s *Screens) DeleteProject(ctx context.Context, id string) error {
	return s.mutate(ctx, func(ctx context.Context) error {
		return s.api.Projects.Delete(ctx, id)
	}, querycache.Prefix(keys.ResourceProjects), keys.ProjectsCount, keys.ZonesLaunches)
}

func (s *Screens) DeleteGallery(ctx context.Context, g *api.Gallery, id string) error {
	return s.mutate(ctx, func(ctx context.Context) error {
		return g.Delete(ctx, id)
	}, querycache.Prefix(g.Resource()))
}
