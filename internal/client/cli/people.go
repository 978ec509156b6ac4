package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/homepoint/internal/client/forms"
	"github.com/dmitrijs2005/homepoint/internal/client/keys"
	"github.com/dmitrijs2005/homepoint/internal/client/models"
	"github.com/dmitrijs2005/homepoint/internal/common"
)

// Reviews lists, adds, edits and deletes testimonials.
func (a *App) Reviews(ctx context.Context, args []string) error {
	op, rest := sub(args)
	switch {
	case op == "":
		list, err := a.screens.Reviews(ctx)
		if err != nil {
			return a.fail("Loading reviews failed", err)
		}
		rows := make([][]string, 0, len(list))
		for _, r := range list {
			rows = append(rows, []string{r.ID, r.Name, r.Work, short(r.Message, 50), imageInfo(r.Image)})
		}
		table(a.out, []string{"id", "name", "work", "message", "image"}, rows)
		return nil

	case op == "add":
		ctl := forms.NewReview(a.screens.Cache(), a.screens.API())
		if err := ctl.BeginCreate(); err != nil {
			return a.fail("", err)
		}
		return a.reviewForm(ctx, ctl, "Review added", "Adding review failed")

	case op == "edit" && len(rest) == 1:
		list, err := a.screens.Reviews(ctx)
		if err != nil {
			return a.fail("Loading reviews failed", err)
		}
		ctl := forms.NewReview(a.screens.Cache(), a.screens.API())
		for i := range list {
			if list[i].ID == rest[0] {
				ctl.LoadRecord(&list[i])
			}
		}
		if err := ctl.BeginEdit(); err != nil {
			return a.fail("", fmt.Errorf("review %s: %w", rest[0], err))
		}
		return a.reviewForm(ctx, ctl, "Review updated", "Updating review failed")

	case op == "delete" && len(rest) == 1:
		if err := a.screens.DeleteReview(ctx, rest[0]); err != nil {
			return a.fail("Deleting review failed", err)
		}
		a.notify.Success("Review deleted")
		return nil
	}
	return a.fail("", usage("reviews [add|edit <id>|delete <id>]"))
}

func (a *App) reviewForm(ctx context.Context, ctl *forms.Controller[models.Review], okMsg, failMsg string) error {
	err := fill(ctl, func(v *models.Review) error {
		return a.askAll(
			field{"Name", &v.Name},
			field{"Work", &v.Work},
			field{"Message", &v.Message},
		)
	})
	if err != nil {
		return err
	}
	if err := attach(a, ctl, "image", "Photo"); err != nil {
		return a.fail("", err)
	}
	_, err = submit(ctx, a, ctl, okMsg, failMsg)
	return err
}

// Users manages admin accounts.
func (a *App) Users(ctx context.Context, args []string) error {
	op, rest := sub(args)
	switch {
	case op == "":
		list, err := a.screens.Users(ctx)
		if err != nil {
			return a.fail("Loading users failed", err)
		}
		rows := make([][]string, 0, len(list))
		for _, u := range list {
			rows = append(rows, []string{u.ID, u.Name, u.Email, u.Role, u.Status})
		}
		table(a.out, []string{"id", "name", "email", "role", "status"}, rows)
		return nil

	case op == "show" && len(rest) == 1:
		u, err := a.screens.User(ctx, rest[0])
		if err != nil {
			return a.fail("Loading user failed", err)
		}
		kv(a.out,
			"ID", u.ID,
			"Name", u.Name,
			"Email", u.Email,
			"Role", u.Role,
			"Status", u.Status,
			"Profile image", imageInfo(u.ProfileImage),
		)
		return nil

	case op == "add":
		return a.addUser(ctx)

	case op == "edit" && len(rest) == 1:
		return a.editUser(ctx, rest[0])

	case op == "delete" && len(rest) == 1:
		if err := a.screens.DeleteUser(ctx, rest[0]); err != nil {
			return a.fail("Deleting user failed", err)
		}
		a.notify.Success("User deleted successfully.")
		return nil
	}
	return a.fail("", usage("users [show <id>|add|edit <id>|delete <id>]"))
}

func (a *App) addUser(ctx context.Context) error {
	ctl := forms.NewUserCreate(a.screens.Cache(), a.screens.API())
	if err := ctl.BeginCreate(); err != nil {
		return a.fail("", err)
	}
	err := fill(ctl, func(v *models.User) error {
		if err := a.askAll(field{"Name", &v.Name}, field{"Email", &v.Email}); err != nil {
			return err
		}
		pw, err := GetPassword(a.out, "Password")
		if err != nil {
			return err
		}
		v.Password = string(pw)
		common.WipeByteArray(pw)
		return a.askAll(field{"Role", &v.Role})
	})
	if err != nil {
		return err
	}
	if err := attach(a, ctl, "profileImage", "Profile image"); err != nil {
		return a.fail("", err)
	}
	_, err = submit(ctx, a, ctl, "User created successfully!", "Creating user failed")
	return err
}

func (a *App) editUser(ctx context.Context, id string) error {
	if _, err := a.screens.User(ctx, id); err != nil {
		return a.fail("Loading user failed", err)
	}
	ctl := forms.NewUserEdit(a.screens.Cache(), a.screens.API())
	ctl.Load(a.peek(keys.User(id)))
	if err := ctl.BeginEdit(); err != nil {
		return a.fail("", err)
	}
	err := fill(ctl, func(v *models.User) error {
		return a.askAll(
			field{"Name", &v.Name},
			field{"Email", &v.Email},
			field{"Role", &v.Role},
			field{"Status", &v.Status},
		)
	})
	if err != nil {
		return err
	}
	if err := attach(a, ctl, "profileImage", "Profile image (JPG, PNG or GIF under 2MB)"); err != nil {
		return a.fail("", err)
	}
	_, err = submit(ctx, a, ctl, "User updated successfully.", "Updating user failed")
	return err
}
