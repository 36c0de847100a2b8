package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vml-arquivos/font-conexa-v2/internal/auth"
)

var (
	// ErrNotFound indica sessão inexistente ou expirada.
	ErrNotFound = errors.New("sessão não encontrada")
)

// Session é o objeto explícito de sessão: criado após autenticação,
// destruído no logout ou quando o backend rejeita a credencial. Todos os
// demais componentes apenas leem este registro.
type Session struct {
	ID           string         `json:"id"`
	User         map[string]any `json:"user"`
	Roles        []string       `json:"roles"`
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Selection é o estado consultivo de última unidade/turma selecionada.
// Nunca substitui uma avaliação fresca de capacidades ou da trava
// pedagógica; serve apenas como conveniência de interface.
type Selection struct {
	UnitID      string `json:"unit_id,omitempty"`
	ClassroomID string `json:"classroom_id,omitempty"`
}

// Store persiste sessões e seleções no Redis.
type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewStore cria o repositório de sessões.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{redis: client, ttl: ttl}
}

func sessionKey(id string) string   { return "sessao:" + id }
func selectionKey(id string) string { return "sessao:selecao:" + id }

// Save grava a sessão com TTL.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, sessionKey(sess.ID), payload, s.ttl).Err()
}

// Get recupera a sessão pelo ID.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	payload, err := s.redis.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Delete remove a sessão e a seleção associada.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.redis.Del(ctx, sessionKey(id), selectionKey(id)).Err()
}

// SaveSelection grava a última unidade/turma escolhida na sessão.
func (s *Store) SaveSelection(ctx context.Context, sessionID string, sel Selection) error {
	payload, err := json.Marshal(sel)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, selectionKey(sessionID), payload, s.ttl).Err()
}

// GetSelection recupera a última seleção; ausência devolve seleção vazia.
func (s *Store) GetSelection(ctx context.Context, sessionID string) (Selection, error) {
	payload, err := s.redis.Get(ctx, selectionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Selection{}, nil
	}
	if err != nil {
		return Selection{}, err
	}

	var sel Selection
	if err := json.Unmarshal(payload, &sel); err != nil {
		return Selection{}, err
	}
	return sel, nil
}

// SaveRefresh liga o hash do refresh token à sessão.
func (s *Store) SaveRefresh(ctx context.Context, hash, sessionID string, ttl time.Duration) error {
	return s.redis.Set(ctx, auth.RefreshRedisKey(hash), sessionID, ttl).Err()
}

// ConsumeRefresh resolve e invalida o refresh token em uma operação.
func (s *Store) ConsumeRefresh(ctx context.Context, hash string) (string, error) {
	key := auth.RefreshRedisKey(hash)
	sessionID, err := s.redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", auth.ErrInvalidRefresh
	}
	if err != nil {
		return "", err
	}
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		return "", err
	}
	return sessionID, nil
}
