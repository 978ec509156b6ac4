package forms

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/homepoint/internal/client/api"
	"github.com/dmitrijs2005/homepoint/internal/client/imageenc"
	"github.com/dmitrijs2005/homepoint/internal/client/keys"
	"github.com/dmitrijs2005/homepoint/internal/client/models"
	"github.com/dmitrijs2005/homepoint/internal/client/querycache"
)

// first returns the first encoded file of field, or "".
func first(files map[string][]string, field string) string {
	if v := files[field]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func hasFile[T any](d Draft[T], field string) bool {
	return len(d.Files[field]) > 0
}

// NewMaster edits the site-wide master record. The logo is mandatory and is
// always sent as a PNG data URI.
func NewMaster(c *querycache.Cache, a *api.API) *Controller[models.Master] {
	return NewController(c, Binding[models.Master]{
		Name:    "master data",
		Encoder: imageenc.New(imageenc.DataURI, imageenc.WithPNG()),
		Validate: func(d Draft[models.Master]) error {
			if d.Value.Logo == "" && !hasFile(d, "logo") {
				return invalid("logo", "Logo is required")
			}
			m := d.Value
			var phone string
			if len(m.Phone) > 0 {
				phone = m.Phone[0]
			}
			return required(
				[3]string{"email", "Email", m.Email},
				[3]string{"registeredOffice", "Registered office", m.Address.RegisteredOffice},
				[3]string{"marketingOffice", "Marketing office", m.Address.MarketingOffice},
				[3]string{"rera", "RERA", m.Rera},
				[3]string{"phone", "Phone", phone},
			)
		},
		Apply: func(v *models.Master, files map[string][]string) {
			if s := first(files, "logo"); s != "" {
				v.Logo = s
			}
		},
		Create: a.Master.Create,
		Update: a.Master.Update,
		ID:     func(m models.Master) string { return m.ID },
		Invalidate: []querycache.Matcher{
			keys.Master,
		},
	})
}

func NewHero(c *querycache.Cache, a *api.API) *Controller[models.Hero] {
	return NewController(c, Binding[models.Hero]{
		Name:    "home hero",
		Encoder: imageenc.New(imageenc.DataURI),
		Validate: func(d Draft[models.Hero]) error {
			if d.Value.Image == "" && !hasFile(d, "image") {
				return invalid("image", "Image is required")
			}
			h := d.Value
			return required(
				[3]string{"title", "Title", h.Title},
				[3]string{"subtitle", "Subtitle", h.Subtitle},
				[3]string{"brokerage", "Brokerage", h.Value.Brokerage},
				[3]string{"projects", "Projects", h.Value.Projects},
				[3]string{"developers", "Developers", h.Value.Developers},
				[3]string{"happyClient", "Happy clients", h.Value.HappyClient},
			)
		},
		Apply: func(v *models.Hero, files map[string][]string) {
			if s := first(files, "image"); s != "" {
				v.Image = s
			}
		},
		Create:     a.Hero.Create,
		Update:     a.Hero.Update,
		ID:         func(h models.Hero) string { return h.ID },
		Invalidate: []querycache.Matcher{keys.Hero},
	})
}

func NewAbout(c *querycache.Cache, a *api.API) *Controller[models.About] {
	return NewController(c, Binding[models.About]{
		Name:    "home about",
		Encoder: imageenc.New(imageenc.DataURI),
		Validate: func(d Draft[models.About]) error {
			if d.Value.Image == "" && !hasFile(d, "image") {
				return invalid("image", "Image is required")
			}
			return required([3]string{"description", "Description", d.Value.Description})
		},
		Apply: func(v *models.About, files map[string][]string) {
			if s := first(files, "image"); s != "" {
				v.Image = s
			}
		},
		Create:     a.About.Create,
		Update:     a.About.Update,
		ID:         func(x models.About) string { return x.ID },
		Invalidate: []querycache.Matcher{keys.About},
	})
}

func NewReview(c *querycache.Cache, a *api.API) *Controller[models.Review] {
	return NewController(c, Binding[models.Review]{
		Name:    "review",
		Encoder: imageenc.New(imageenc.DataURI),
		Validate: func(d Draft[models.Review]) error {
			r := d.Value
			return required(
				[3]string{"name", "Name", r.Name},
				[3]string{"work", "Work", r.Work},
				[3]string{"message", "Message", r.Message},
			)
		},
		Apply: func(v *models.Review, files map[string][]string) {
			if s := first(files, "image"); s != "" {
				v.Image = s
			}
		},
		Create:     a.Reviews.Create,
		Update:     a.Reviews.Update,
		ID:         func(r models.Review) string { return r.ID },
		Invalidate: []querycache.Matcher{keys.Reviews},
	})
}

func userMatchers() []querycache.Matcher {
	return []querycache.Matcher{
		keys.Users,
		keys.UsersCount,
		querycache.Prefix(keys.ResourceUser),
	}
}

// NewUserEdit edits an existing user. A new profile image must pass
// ValidateProfileImage.
func NewUserEdit(c *querycache.Cache, a *api.API) *Controller[models.User] {
	return NewController(c, Binding[models.User]{
		Name:    "user",
		Encoder: imageenc.New(imageenc.DataURI),
		Validate: func(d Draft[models.User]) error {
			u := d.Value
			if err := required(
				[3]string{"name", "Name", u.Name},
				[3]string{"email", "Email", u.Email},
				[3]string{"role", "Role", u.Role},
				[3]string{"status", "Status", u.Status},
			); err != nil {
				return err
			}
			for _, src := range d.Files["profileImage"] {
				if err := ValidateProfileImage(src); err != nil {
					return err
				}
			}
			return nil
		},
		Apply: func(v *models.User, files map[string][]string) {
			if s := first(files, "profileImage"); s != "" {
				v.ProfileImage = s
			}
		},
		Update:     a.Users.Update,
		ID:         func(u models.User) string { return u.ID },
		Invalidate: userMatchers(),
	})
}

// NewUserCreate adds a user. Name, email and password are mandatory.
func NewUserCreate(c *querycache.Cache, a *api.API) *Controller[models.User] {
	return NewController(c, Binding[models.User]{
		Name:     "user",
		Encoder:  imageenc.New(imageenc.DataURI),
		Template: func() models.User { return models.User{Role: "user"} },
		Validate: func(d Draft[models.User]) error {
			u := d.Value
			if u.Name == "" || u.Email == "" || u.Password == "" {
				return invalid("", "Please fill all required fields.")
			}
			for _, src := range d.Files["profileImage"] {
				if err := ValidateProfileImage(src); err != nil {
					return err
				}
			}
			return nil
		},
		Apply: func(v *models.User, files map[string][]string) {
			if s := first(files, "profileImage"); s != "" {
				v.ProfileImage = s
			}
		},
		Create:     a.Users.Create,
		Invalidate: userMatchers(),
	})
}

// Gallery is the controller of an image-list screen. New images are
// appended to the record on submit; RemoveImageAt deletes one image
// directly.
type Gallery struct {
	*Controller[models.Gallery]
	api   *api.Gallery
	cache *querycache.Cache
}

func NewGallery(c *querycache.Cache, g *api.Gallery) *Gallery {
	family := querycache.Prefix(g.Resource())
	ctl := NewController(c, Binding[models.Gallery]{
		Name:    g.Resource(),
		Encoder: imageenc.New(imageenc.Bare),
		Validate: func(d Draft[models.Gallery]) error {
			if len(d.Value.Images) == 0 && !hasFile(d, "images") {
				return invalid("images", "Please select images to upload.")
			}
			return nil
		},
		Apply: func(v *models.Gallery, files map[string][]string) {
			v.Images = append(v.Images, files["images"]...)
		},
		Create: func(ctx context.Context, v models.Gallery) (models.Gallery, error) {
			return g.Create(ctx, v.Images)
		},
		Update: func(ctx context.Context, id string, v models.Gallery) (models.Gallery, error) {
			return g.Update(ctx, id, v.Images)
		},
		ID:         func(v models.Gallery) string { return v.ID },
		Invalidate: []querycache.Matcher{family},
	})
	return &Gallery{Controller: ctl, api: g, cache: c}
}

// RemoveImageAt deletes the image at idx of the loaded record.
func (g *Gallery) RemoveImageAt(ctx context.Context, idx int) (models.Gallery, error) {
	rec, ok := g.Record()
	if !ok || g.State() != StateViewing {
		return models.Gallery{}, invalid("images", "Select a record first")
	}
	if idx < 0 || idx >= len(rec.Images) {
		return models.Gallery{}, invalid("images", "No image at that position")
	}

	res, err := g.cache.Mutate(ctx, func(ctx context.Context) (any, error) {
		return g.api.RemoveImageAt(ctx, rec.ID, idx)
	}, querycache.Prefix(g.api.Resource()))
	if err != nil {
		return models.Gallery{}, err
	}
	out := res.(models.Gallery)
	if out.ID == "" {
		// some backends reply with a bare status
		out = rec
		out.Images = append(append([]string(nil), rec.Images[:idx]...), rec.Images[idx+1:]...)
	}
	g.LoadRecord(&out)
	return out, nil
}

// NewProject creates projects. Projects are never edited from the client;
// the returned form carries the new ID.
func NewProject(c *querycache.Cache, a *api.API) *Controller[ProjectForm] {
	enc := imageenc.New(imageenc.DataURI)
	return NewController(c, Binding[ProjectForm]{
		Name:     "project",
		Encoder:  enc,
		Template: NewProjectForm,
		Validate: func(d Draft[ProjectForm]) error {
			f := d.Value
			return required(
				[3]string{"project_name", "Project name", strings.TrimSpace(f.ProjectName)},
				[3]string{"title", "Title", strings.TrimSpace(f.Title)},
			)
		},
		Create: func(ctx context.Context, f ProjectForm) (ProjectForm, error) {
			payload, err := enc.Encode(ctx, f.Payload())
			if err != nil {
				return ProjectForm{}, err
			}
			p, err := a.Projects.Create(ctx, payload.(map[string]any))
			if err != nil {
				return ProjectForm{}, err
			}
			f.ID = p.ID
			return f, nil
		},
		Invalidate: []querycache.Matcher{
			querycache.Prefix(keys.ResourceProjects),
			keys.ProjectsCount,
			keys.ZonesLaunches,
		},
	})
}
