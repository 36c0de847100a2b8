package conexa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrUnauthorized indica credencial ausente, expirada ou rejeitada
	// pelo backend. A camada de sessão derruba a sessão ao recebê-lo.
	ErrUnauthorized = errors.New("conexa: credencial rejeitada")
	// ErrNotFound indica recurso inexistente no backend.
	ErrNotFound = errors.New("conexa: recurso não encontrado")
)

// Client encapsula chamadas REST ao backend Conexa. O backend é a
// autoridade final de todas as decisões; este cliente apenas transporta.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Config descreve os parâmetros essenciais do cliente.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// New cria um cliente apontando para a API do Conexa.
func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, errors.New("conexa: base url obrigatória")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(base, "/"),
	}, nil
}

type apiError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do executa uma requisição JSON autenticada e decodifica a resposta.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("conexa: payload: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("conexa: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil {
			msg := apiErr.Message
			if msg == "" {
				msg = apiErr.Error
			}
			if msg != "" {
				return fmt.Errorf("conexa: status %d: %s", resp.StatusCode, msg)
			}
		}
		return fmt.Errorf("conexa: status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("conexa: resposta: %w", err)
	}
	return nil
}
