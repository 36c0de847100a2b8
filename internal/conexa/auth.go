package conexa

import (
	"context"
	"errors"
	"net/http"
)

// TokenPair carrega os tokens emitidos pelo backend no login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Login autentica no backend e faz parsing tolerante da resposta:
// aceita accessToken | access_token | token e refreshToken | refresh_token.
func (c *Client) Login(ctx context.Context, email, password string) (TokenPair, error) {
	body := map[string]string{"email": email, "password": password}

	var raw map[string]any
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, "", body, &raw); err != nil {
		return TokenPair{}, err
	}

	access := firstString(raw, "accessToken", "access_token", "token")
	if access == "" {
		return TokenPair{}, errors.New("conexa: resposta de login sem token de acesso")
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: firstString(raw, "refreshToken", "refresh_token"),
	}, nil
}

// Me carrega o registro bruto do usuário autenticado via GET /auth/me.
// O registro é mantido sem esquema rígido: o formato do campo roles varia
// entre ambientes e é normalizado adiante.
func (c *Client) Me(ctx context.Context, token string) (map[string]any, error) {
	var payload struct {
		User map[string]any `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, token, nil, &payload); err != nil {
		return nil, err
	}
	if payload.User == nil {
		return nil, errors.New("conexa: resposta de /auth/me sem usuário")
	}
	return payload.User, nil
}

func firstString(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if val, ok := raw[key].(string); ok && val != "" {
			return val
		}
	}
	return ""
}
