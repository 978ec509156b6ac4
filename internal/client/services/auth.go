package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/homepoint/internal/client/api"
	"github.com/dmitrijs2005/homepoint/internal/client/querycache"
	"github.com/dmitrijs2005/homepoint/internal/common"
)

// AuthService defines the session operations of the REPL.
//
// Login stores the token and display name; Logout wipes them and drops
// every cached resource. Password reset is a two-step OTP flow.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) (string, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (Session, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, email, otp string, newPassword []byte) (string, error)
}

type authService struct {
	api   *api.Auth
	store *CredentialStore
	cache *querycache.Cache
}

func NewAuthService(a *api.Auth, store *CredentialStore, cache *querycache.Cache) AuthService {
	return &authService{api: a, store: store, cache: cache}
}

// Login returns the display name sent by the server. The password buffer is
// wiped before returning.
func (s *authService) Login(ctx context.Context, email string, password []byte) (string, error) {
	defer common.WipeByteArray(password)

	resp, err := s.api.Login(ctx, email, string(password))
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if !resp.Success || resp.Token == "" {
		msg := resp.Message
		if msg == "" {
			msg = "Login failed"
		}
		return "", fmt.Errorf("%w: %s", common.ErrUnauthorized, msg)
	}

	if err := s.store.Save(ctx, resp.Token, resp.UserName); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return resp.UserName, nil
}

func (s *authService) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.cache.Purge()
	return nil
}

func (s *authService) Session(ctx context.Context) (Session, error) {
	return s.store.Load(ctx)
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	resp, err := s.api.RequestPasswordReset(ctx, email)
	if err != nil {
		return "", err
	}
	return statusMessage(resp.Success, resp.Message, "OTP sent to your email", "OTP request failed")
}

func (s *authService) ResetPassword(ctx context.Context, email, otp string, newPassword []byte) (string, error) {
	defer common.WipeByteArray(newPassword)

	resp, err := s.api.ResetPassword(ctx, email, otp, string(newPassword))
	if err != nil {
		return "", err
	}
	return statusMessage(resp.Success, resp.Message, "Password reset successful", "Password reset failed")
}

// statusMessage turns a {success, message} reply into a message or an
// error, using the fallbacks when the server sent no text.
func statusMessage(ok bool, msg, okText, failText string) (string, error) {
	if !ok {
		if msg == "" {
			msg = failText
		}
		return "", errors.New(msg)
	}
	if msg == "" {
		msg = okText
	}
	return msg, nil
}
