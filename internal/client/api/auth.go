package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/homepoint/internal/client/models"
)

type Auth struct{ d Doer }

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp,omitempty"`
	NewPassword string `json:"newPassword,omitempty"`
}

// Login exchanges credentials for a token. A 2xx reply with success=false
// is returned as-is; callers decide how to report it.
func (a *Auth) Login(ctx context.Context, email, password string) (models.LoginResponse, error) {
	raw, err := a.d.Do(ctx, http.MethodPost, "/login", loginRequest{Email: email, Password: password}, nil)
	if err != nil {
		return models.LoginResponse{}, err
	}
	return decode[models.LoginResponse](raw)
}

// RequestPasswordReset asks the backend to mail a one-time code.
func (a *Auth) RequestPasswordReset(ctx context.Context, email string) (models.StatusResponse, error) {
	raw, err := a.d.Do(ctx, http.MethodPost, "/request-password-reset", resetRequest{Email: email}, nil)
	if err != nil {
		return models.StatusResponse{}, err
	}
	return decode[models.StatusResponse](raw)
}

func (a *Auth) ResetPassword(ctx context.Context, email, otp, newPassword string) (models.StatusResponse, error) {
	raw, err := a.d.Do(ctx, http.MethodPost, "/reset-password-otp", resetRequest{Email: email, OTP: otp, NewPassword: newPassword}, nil)
	if err != nil {
		return models.StatusResponse{}, err
	}
	return decode[models.StatusResponse](raw)
}
