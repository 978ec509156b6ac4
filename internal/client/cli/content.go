package cli

import (
	"context"

	"github.com/dmitrijs2005/homepoint/internal/client/forms"
	"github.com/dmitrijs2005/homepoint/internal/client/keys"
	"github.com/dmitrijs2005/homepoint/internal/client/models"
)

func at(s []string, i int) string {
	if i < len(s) {
		return s[i]
	}
	return ""
}

func nonEmpty(items ...string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Master shows the master data, or edits it with "master edit".
func (a *App) Master(ctx context.Context, args []string) error {
	m, err := a.screens.Master(ctx)
	if err != nil {
		return a.fail("Loading master data failed", err)
	}
	switch op, _ := sub(args); op {
	case "":
		if m == nil {
			a.println("No master data yet; use 'master edit'")
			return nil
		}
		kv(a.out,
			"ID", m.ID,
			"Logo", imageInfo(m.Logo),
			"Email", m.Email,
			"Registered office", m.Address.RegisteredOffice,
			"Marketing office", m.Address.MarketingOffice,
			"RERA", m.Rera,
			"Privyar API", m.PrivyarAPI,
			"Phone 1", at(m.Phone, 0),
			"Phone 2", at(m.Phone, 1),
			"Facebook", m.Facebook,
			"Instagram", m.Instagram,
			"Linkedin", m.Linkedin,
			"Youtube", m.Youtube,
		)
		return nil
	case "edit":
	default:
		return a.fail("", usage("master [edit]"))
	}

	ctl := forms.NewMaster(a.screens.Cache(), a.screens.API())
	if err := beginSingleton(ctl, a.peek(keys.Master)); err != nil {
		return a.fail("", err)
	}
	err = fill(ctl, func(v *models.Master) error {
		phone1, phone2 := at(v.Phone, 0), at(v.Phone, 1)
		if err := a.askAll(
			field{"Email", &v.Email},
			field{"Registered office", &v.Address.RegisteredOffice},
			field{"Marketing office", &v.Address.MarketingOffice},
			field{"RERA", &v.Rera},
			field{"Privyar API", &v.PrivyarAPI},
			field{"Phone 1", &phone1},
			field{"Phone 2", &phone2},
			field{"Facebook", &v.Facebook},
			field{"Instagram", &v.Instagram},
			field{"Linkedin", &v.Linkedin},
			field{"Youtube", &v.Youtube},
		); err != nil {
			return err
		}
		v.Phone = nonEmpty(phone1, phone2)
		return nil
	})
	if err != nil {
		return err
	}
	if err := attach(a, ctl, "logo", "Logo"); err != nil {
		return a.fail("", err)
	}
	_, err = submit(ctx, a, ctl, "Master data saved", "Saving master data failed")
	return err
}

func (a *App) Hero(ctx context.Context, args []string) error {
	h, err := a.screens.Hero(ctx)
	if err != nil {
		return a.fail("Loading hero failed", err)
	}
	switch op, _ := sub(args); op {
	case "":
		if h == nil {
			a.println("No hero section yet; use 'hero edit'")
			return nil
		}
		kv(a.out,
			"ID", h.ID,
			"Image", imageInfo(h.Image),
			"Title", h.Title,
			"Subtitle", h.Subtitle,
			"Brokerage", h.Value.Brokerage,
			"Projects", h.Value.Projects,
			"Developers", h.Value.Developers,
			"Happy clients", h.Value.HappyClient,
		)
		return nil
	case "edit":
	default:
		return a.fail("", usage("hero [edit]"))
	}

	ctl := forms.NewHero(a.screens.Cache(), a.screens.API())
	if err := beginSingleton(ctl, a.peek(keys.Hero)); err != nil {
		return a.fail("", err)
	}
	err = fill(ctl, func(v *models.Hero) error {
		return a.askAll(
			field{"Title", &v.Title},
			field{"Subtitle", &v.Subtitle},
			field{"Brokerage", &v.Value.Brokerage},
			field{"Projects", &v.Value.Projects},
			field{"Developers", &v.Value.Developers},
			field{"Happy clients", &v.Value.HappyClient},
		)
	})
	if err != nil {
		return err
	}
	if err := attach(a, ctl, "image", "Image"); err != nil {
		return a.fail("", err)
	}
	_, err = submit(ctx, a, ctl, "Hero section saved", "Saving hero section failed")
	return err
}

func (a *App) About(ctx context.Context, args []string) error {
	ab, err := a.screens.About(ctx)
	if err != nil {
		return a.fail("Loading about section failed", err)
	}
	switch op, _ := sub(args); op {
	case "":
		if ab == nil {
			a.println("No about section yet; use 'about edit'")
			return nil
		}
		kv(a.out, "ID", ab.ID, "Image", imageInfo(ab.Image), "Description", ab.Description)
		return nil
	case "edit":
	default:
		return a.fail("", usage("about [edit]"))
	}

	ctl := forms.NewAbout(a.screens.Cache(), a.screens.API())
	if err := beginSingleton(ctl, a.peek(keys.About)); err != nil {
		return a.fail("", err)
	}
	err = fill(ctl, func(v *models.About) error {
		d, err := GetMultiline(a.reader, "Description (empty keeps the current text)", a.out)
		if err != nil {
			return err
		}
		if d != "" {
			v.Description = d
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := attach(a, ctl, "image", "Image"); err != nil {
		return a.fail("", err)
	}
	_, err = submit(ctx, a, ctl, "About section saved", "Saving about section failed")
	return err
}
