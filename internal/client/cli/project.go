package cli

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/homepoint/internal/client/forms"
)

func (a *App) Projects(ctx context.Context, args []string) error {
	op, rest := sub(args)
	switch {
	case op == "":
		list, err := a.screens.Projects(ctx)
		if err != nil {
			return a.fail("Loading projects failed", err)
		}
		rows := make([][]string, 0, len(list))
		for _, p := range list {
			name := p.ProjectName
			if name == "" {
				name = p.Hero.Title
			}
			rows = append(rows, []string{
				p.ID, name, p.Hero.Tagline,
				yesNo(p.FreshProject), yesNo(p.Development), strconv.Itoa(len(p.Zones)),
			})
		}
		table(a.out, []string{"id", "name", "tagline", "fresh", "development", "zones"}, rows)
		return nil

	case op == "show" && len(rest) == 1:
		p, err := a.screens.Project(ctx, rest[0])
		if err != nil {
			return a.fail("Loading project failed", err)
		}
		kv(a.out,
			"ID", p.ID,
			"Name", p.ProjectName,
			"Title", p.Hero.Title,
			"Tagline", p.Hero.Tagline,
			"Fresh project", yesNo(p.FreshProject),
			"Development", yesNo(p.Development),
			"Zones", strconv.Itoa(len(p.Zones)),
		)
		for _, z := range p.Zones {
			a.println(" -", z.Title, "active:", yesNo(z.Active), "images:", len(z.Image))
		}
		return nil

	case op == "add":
		return a.addProject(ctx)

	case op == "delete" && len(rest) == 1:
		if err := a.screens.DeleteProject(ctx, rest[0]); err != nil {
			return a.fail("Deleting project failed", err)
		}
		a.notify.Success("Project deleted")
		return nil
	}
	return a.fail("", usage("projects [show <id>|add|delete <id>]"))
}

// addProject walks the operator through every section of a project.
func (a *App) addProject(ctx context.Context) error {
	ctl := forms.NewProject(a.screens.Cache(), a.screens.API())
	if err := ctl.BeginCreate(); err != nil {
		return a.fail("", err)
	}
	if err := fill(ctl, a.projectWizard); err != nil {
		return a.fail("", err)
	}
	_, err := submit(ctx, a, ctl, "Project submitted successfully!", "Failed to submit project")
	return err
}

func (a *App) projectWizard(f *forms.ProjectForm) error {
	var err error

	a.println("-- Project info")
	if err = a.askAll(field{"Project name", &f.ProjectName}); err != nil {
		return err
	}
	if f.ProjectLogo, err = a.askFiles("Project logo"); err != nil {
		return err
	}

	a.println("-- Hero")
	if err = a.askAll(
		field{"Title", &f.Title},
		field{"Tagline", &f.Tagline},
		field{"Price range", &f.PriceRange},
		field{"Land area", &f.LandArea},
		field{"Possession date", &f.PossessionDate},
	); err != nil {
		return err
	}
	if f.Configurations, err = GetList(a.reader, "Configurations, e.g. 2 BHK, 3 BHK", a.out); err != nil {
		return err
	}
	if f.HeroImages, err = a.askFiles("Hero images"); err != nil {
		return err
	}

	a.println("-- Overview")
	if err = a.askAll(
		field{"Overview title", &f.OverviewTitle},
		field{"Overview subtitle", &f.OverviewSubtitle},
	); err != nil {
		return err
	}
	if f.OverviewDescription, err = GetMultiline(a.reader, "Overview description", a.out); err != nil {
		return err
	}
	if f.OverviewGalleryImages, err = a.askFiles("Overview gallery images"); err != nil {
		return err
	}
	if err = a.askAll(
		field{"Button label", &f.OverviewButtonLabel},
		field{"Button link", &f.OverviewButtonLink},
	); err != nil {
		return err
	}

	a.println("-- Amenities and highlights")
	if f.Amenities, err = GetList(a.reader, "Amenities", a.out); err != nil {
		return err
	}
	f.Highlights = f.Highlights[:0]
	for {
		more, err := GetBool(a.reader, "Add a key highlight?", len(f.Highlights) == 0, a.out)
		if err != nil {
			return err
		}
		if !more {
			break
		}
		var h forms.Highlight
		if err := a.askAll(field{"Highlight title", &h.Title}, field{"Highlight description", &h.Description}); err != nil {
			return err
		}
		if h.Image, err = a.askFiles("Highlight image"); err != nil {
			return err
		}
		f.Highlights = append(f.Highlights, h)
	}

	a.println("-- Zones")
	f.Zones = f.Zones[:0]
	for {
		more, err := GetBool(a.reader, "Add a zone?", len(f.Zones) == 0, a.out)
		if err != nil {
			return err
		}
		if !more {
			break
		}
		z := forms.ProjectZone{}
		if err := a.askAll(field{"Zone title", &z.Title}); err != nil {
			return err
		}
		if z.Active, err = GetBool(a.reader, "Active", true, a.out); err != nil {
			return err
		}
		if z.Image, err = a.askFiles("Zone images"); err != nil {
			return err
		}
		f.Zones = append(f.Zones, z)
	}
	if f.FreshProject, err = GetBool(a.reader, "Fresh project", false, a.out); err != nil {
		return err
	}
	if f.Development, err = GetBool(a.reader, "Under development", false, a.out); err != nil {
		return err
	}

	a.println("-- Location advantage")
	if err = a.askAll(
		field{"Section title", &f.LocationSectionTitle},
		field{"Section subtitle", &f.LocationSectionSubtitle},
		field{"Map embed URL", &f.MapEmbedURL},
	); err != nil {
		return err
	}
	f.LocationCategories = f.LocationCategories[:0]
	for {
		more, err := GetBool(a.reader, "Add a location category?", len(f.LocationCategories) == 0, a.out)
		if err != nil {
			return err
		}
		if !more {
			break
		}
		var c forms.LocationCategory
		if err := a.askAll(field{"Category", &c.Category}, field{"Items (comma separated)", &c.Items}); err != nil {
			return err
		}
		f.LocationCategories = append(f.LocationCategories, c)
	}

	a.println("-- Layout and floorplan")
	for {
		more, err := GetBool(a.reader, "Add a layout?", false, a.out)
		if err != nil {
			return err
		}
		if !more {
			break
		}
		var l forms.Layout
		if err := a.askAll(
			field{"Layout name", &l.Name},
			field{"Carpet area", &l.CarpetArea},
			field{"Saleable area", &l.SaleableArea},
			field{"Car parks", &l.CarParks},
		); err != nil {
			return err
		}
		if l.Image, err = a.askFiles("Layout image"); err != nil {
			return err
		}
		f.Layouts = append(f.Layouts, l)
	}
	if err = a.askAll(
		field{"Master layout description", &f.MasterLayoutDescription},
		field{"Download PDF URL", &f.DownloadPDFURL},
	); err != nil {
		return err
	}

	a.println("-- About")
	if f.LeftImage, err = a.askFiles("Left image"); err != nil {
		return err
	}
	return a.askAll(
		field{"Left title", &f.LeftTitle},
		field{"Realty title", &f.RealtyTitle},
		field{"Realty description", &f.RealtyDescription},
		field{"Group title", &f.GroupTitle},
		field{"Group description", &f.GroupDescription},
		field{"CTA button text", &f.CTAButtonText},
		field{"CTA button link", &f.CTAButtonLink},
	)
}
