package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/homepoint/internal/client/notify"
)

// Login prompts for credentials and stores the returned session.
func (a *App) Login(ctx context.Context) error {
	email, err := a.text("Email")
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out, "Password")
	if err != nil {
		a.log.Error(ctx, "read password", "error", err)
		return err
	}

	name, err := a.auth.Login(ctx, email, password)
	if err != nil {
		notify.Failure(a.notify, "Login failed", err)
		return err
	}
	if name == "" {
		name = email
	}
	a.userName = name
	a.notify.Success("Login successful")
	return nil
}

// Logout wipes the stored session and the cache.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return a.fail("Logout failed", err)
	}
	a.userName = ""
	a.notify.Success("Logged out")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	sess, err := a.auth.Session(ctx)
	if err != nil {
		return a.fail("", err)
	}
	a.println("Signed in as", sess.UserName)
	if !sess.ExpiresAt.IsZero() {
		a.println("Session expires", sess.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

// ForgotPassword runs the OTP reset flow: request a code, then set a new
// password with it.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := a.text("Email")
	if err != nil {
		return err
	}
	msg, err := a.auth.RequestPasswordReset(ctx, email)
	if err != nil {
		notify.Failure(a.notify, "", err)
		return err
	}
	a.notify.Success(msg)

	otp, err := a.text("OTP")
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out, "New password")
	if err != nil {
		return err
	}
	msg, err = a.auth.ResetPassword(ctx, email, otp, password)
	if err != nil {
		notify.Failure(a.notify, "", err)
		return err
	}
	a.notify.Success(msg)
	return nil
}
