package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"amber-storefront/internal/domain"
	"amber-storefront/internal/normalize"
)

type loginPayload struct {
	Email    string `json:"emailUsr"`
	Password string `json:"contraseña"`
}

// RegisterInput is the sign-up form as sent to the backend
type RegisterInput struct {
	Name     string `json:"nombreUsr"`
	LastName string `json:"apellidoUsr"`
	Phone    string `json:"celUsr"`
	Email    string `json:"emailUsr"`
	Password string `json:"contraseña"`
}

func (c *client) Login(ctx context.Context, email, password string) (normalize.AuthPayload, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	resp, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/usuarios/login",
		body:   loginPayload{Email: email, Password: password},
	})
	if err != nil {
		return normalize.AuthPayload{}, err
	}
	if err := check(resp, "Error en el login", false); err != nil {
		return normalize.AuthPayload{}, err
	}
	return authPayload(resp, email)
}

func (c *client) Register(ctx context.Context, in RegisterInput) (normalize.AuthPayload, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	resp, err := c.do(ctx, request{method: http.MethodPost, path: "/usuarios/registrar", body: in})
	if err != nil {
		return normalize.AuthPayload{}, err
	}
	if err := check(resp, "Error en el registro", false); err != nil {
		return normalize.AuthPayload{}, err
	}
	return authPayload(resp, in.Email)
}

func authPayload(resp response, email string) (normalize.AuthPayload, error) {
	payload, err := normalize.Auth(resp.body, email)
	if err != nil {
		return normalize.AuthPayload{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return payload, nil
}

func (c *client) Profile(ctx context.Context, token string) (domain.User, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, path: "/usuarios/perfil", token: token})
	if err != nil {
		return domain.User{}, err
	}
	if err := check(resp, "Error al obtener el perfil", false); err != nil {
		return domain.User{}, err
	}

	user, err := normalize.User(resp.body, "")
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to read profile: %w", err)
	}
	return user, nil
}

// ValidateToken asks the backend whether token is still accepted.
func (c *client) ValidateToken(ctx context.Context, token string) (bool, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, path: "/usuarios/validate", token: token})
	if err != nil {
		return false, err
	}
	return resp.ok(), nil
}
