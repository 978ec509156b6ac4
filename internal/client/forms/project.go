package forms

import (
	"github.com/dmitrijs2005/homepoint/internal/client/imageenc"
	"github.com/dmitrijs2005/homepoint/internal/common"
)

type Highlight struct {
	Title       string
	Description string
	Image       []imageenc.Source
}

type ProjectZone struct {
	Title  string
	Active bool
	Image  []imageenc.Source
}

// LocationCategory holds items as typed by the operator: one comma
// separated string.
type LocationCategory struct {
	Category string
	Items    string
}

type Layout struct {
	Name         string
	Image        []imageenc.Source
	CarpetArea   string
	SaleableArea string
	CarParks     string
}

// ProjectForm is the flat create-project form. Payload groups it into the
// nested document the API expects.
type ProjectForm struct {
	ID string

	ProjectName string
	ProjectLogo []imageenc.Source

	Title          string
	Tagline        string
	PriceRange     string
	LandArea       string
	PossessionDate string
	Configurations []string
	HeroImages     []imageenc.Source

	OverviewTitle         string
	OverviewSubtitle      string
	OverviewDescription   string
	OverviewGalleryImages []imageenc.Source
	OverviewButtonLabel   string
	OverviewButtonLink    string

	Amenities  []string
	Highlights []Highlight
	Zones      []ProjectZone

	FreshProject bool
	Development  bool

	LocationSectionTitle    string
	LocationSectionSubtitle string
	MapEmbedURL             string
	LocationCategories      []LocationCategory

	Layouts                 []Layout
	MasterLayoutDescription string
	DownloadPDFURL          string

	LeftImage         []imageenc.Source
	LeftTitle         string
	RealtyTitle       string
	RealtyDescription string
	GroupTitle        string
	GroupDescription  string
	CTAButtonText     string
	CTAButtonLink     string
}

// NewProjectForm returns the blank form: one empty highlight, one active
// zone and one location category.
func NewProjectForm() ProjectForm {
	return ProjectForm{
		Highlights:         []Highlight{{}},
		Zones:              []ProjectZone{{Active: true}},
		LocationCategories: []LocationCategory{{}},
	}
}

func sources(s []imageenc.Source) []imageenc.Source {
	if s == nil {
		return []imageenc.Source{}
	}
	return s
}

// Payload builds the grouped project document. Image fields stay as
// sources so the result can be passed to an imageenc.Encoder.
func (f ProjectForm) Payload() map[string]any {
	configs := make([]any, 0, len(f.Configurations))
	for _, c := range f.Configurations {
		configs = append(configs, map[string]any{"bhk": c})
	}

	highlights := make([]map[string]any, 0, len(f.Highlights))
	for _, h := range f.Highlights {
		highlights = append(highlights, map[string]any{
			"title":       h.Title,
			"description": h.Description,
			"image":       sources(h.Image),
		})
	}

	zones := make([]map[string]any, 0, len(f.Zones))
	for _, z := range f.Zones {
		zones = append(zones, map[string]any{
			"title":  z.Title,
			"active": z.Active,
			"image":  sources(z.Image),
		})
	}

	categories := make([]map[string]any, 0, len(f.LocationCategories))
	for _, c := range f.LocationCategories {
		categories = append(categories, map[string]any{
			"category": c.Category,
			"items":    common.SplitList(c.Items),
		})
	}

	layouts := make([]map[string]any, 0, len(f.Layouts))
	for _, l := range f.Layouts {
		layouts = append(layouts, map[string]any{
			"name":          l.Name,
			"image":         sources(l.Image),
			"carpet_area":   l.CarpetArea,
			"saleable_area": l.SaleableArea,
			"car_parks":     l.CarParks,
		})
	}

	amenities := f.Amenities
	if amenities == nil {
		amenities = []string{}
	}

	return map[string]any{
		"project_info": map[string]any{
			"project_name": f.ProjectName,
			"project_logo": sources(f.ProjectLogo),
		},
		"hero": map[string]any{
			"title":           f.Title,
			"tagline":         f.Tagline,
			"price_range":     f.PriceRange,
			"land_area":       f.LandArea,
			"possession_date": f.PossessionDate,
			"configurations":  configs,
			"hero_images":     sources(f.HeroImages),
		},
		"overview": map[string]any{
			"overview_title":          f.OverviewTitle,
			"overview_subtitle":       f.OverviewSubtitle,
			"overview_description":    f.OverviewDescription,
			"overview_gallery_images": sources(f.OverviewGalleryImages),
			"overview_button_label":   f.OverviewButtonLabel,
			"overview_button_link":    f.OverviewButtonLink,
		},
		"amenities":  amenities,
		"highlights": highlights,
		"zones":      zones,
		"location_advantage": map[string]any{
			"location_section_title":    f.LocationSectionTitle,
			"location_section_subtitle": f.LocationSectionSubtitle,
			"map_embed_url":             f.MapEmbedURL,
			"location_categories":       categories,
		},
		"layout_and_floorplan": map[string]any{
			"layouts":                   layouts,
			"master_layout_description": f.MasterLayoutDescription,
			"download_pdf_url":          f.DownloadPDFURL,
		},
		"about": map[string]any{
			"left_image":         sources(f.LeftImage),
			"left_title":         f.LeftTitle,
			"realty_title":       f.RealtyTitle,
			"realty_description": f.RealtyDescription,
			"group_title":        f.GroupTitle,
			"group_description":  f.GroupDescription,
			"cta_button_text":    f.CTAButtonText,
			"cta_button_link":    f.CTAButtonLink,
		},
		"fresh_project": f.FreshProject,
		"development":   f.Development,
	}
}
