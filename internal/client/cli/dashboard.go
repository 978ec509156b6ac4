package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/dmitrijs2005/homepoint/internal/client/models"
)

func (a *App) Dashboard(ctx context.Context) error {
	c, err := a.screens.Counts(ctx)
	if err != nil {
		return a.fail("Loading counters failed", err)
	}
	table(a.out, []string{"counter", "value"}, [][]string{
		{"Active domains", strconv.FormatInt(c.ActiveDomains, 10)},
		{"Expired domains", strconv.FormatInt(c.ExpiredDomains, 10)},
		{"Projects", strconv.FormatInt(c.Projects, 10)},
		{"Users", strconv.FormatInt(c.Users, 10)},
	})
	return nil
}

// Domains prints every displayable column plus an expiry flag. "soon"
// limits the list to domains expiring within 15 days.
func (a *App) Domains(ctx context.Context, args []string) error {
	op, _ := sub(args)
	var (
		list []models.Domain
		err  error
	)
	switch op {
	case "":
		list, err = a.screens.Domains(ctx)
	case "soon":
		list, err = a.screens.ExpiringDomains(ctx)
	default:
		return a.fail("", usage("domains [soon]"))
	}
	if err != nil {
		return a.fail("Loading domains failed", err)
	}
	if len(list) == 0 {
		a.println("No domains")
		return nil
	}

	now := time.Now()
	cols := models.Columns(list)
	rows := make([][]string, 0, len(list))
	for _, d := range list {
		row := make([]string, 0, len(cols)+1)
		for _, c := range cols {
			row = append(row, short(d.String(c), 40))
		}
		switch {
		case d.Expired(now):
			row = append(row, "expired")
		case d.ExpiringSoon(now):
			row = append(row, "expiring soon")
		default:
			row = append(row, "")
		}
		rows = append(rows, row)
	}
	table(a.out, append(cols, "status"), rows)
	return nil
}

func (a *App) Zones(ctx context.Context) error {
	list, err := a.screens.ZonesLaunches(ctx)
	if err != nil {
		return a.fail("Loading zones failed", err)
	}
	var rows [][]string
	for _, p := range list {
		for _, z := range p.Zones {
			rows = append(rows, []string{p.ID, p.ProjectName, z.Title, yesNo(z.Active), strconv.Itoa(len(z.Image))})
		}
	}
	if len(rows) == 0 {
		a.println("No zones")
		return nil
	}
	table(a.out, []string{"project id", "project", "zone", "active", "images"}, rows)
	return nil
}
