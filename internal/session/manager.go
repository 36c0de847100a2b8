package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vml-arquivos/font-conexa-v2/internal/auth"
	"github.com/vml-arquivos/font-conexa-v2/internal/conexa"
	"github.com/vml-arquivos/font-conexa-v2/internal/roles"
)

var (
	// ErrUnauthenticated indica ausência de sessão válida.
	ErrUnauthenticated = errors.New("sessão inválida ou expirada")
)

// Backend é o recorte do cliente Conexa usado pela sessão.
type Backend interface {
	Login(ctx context.Context, email, password string) (conexa.TokenPair, error)
	Me(ctx context.Context, token string) (map[string]any, error)
}

// Issued carrega os tokens emitidos pelo BFF para o navegador.
type Issued struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Manager controla o ciclo de vida das sessões: login delega a
// autenticação ao backend, o registro do usuário é normalizado uma única
// vez e a sessão resultante vive no Redis até logout ou invalidação.
type Manager struct {
	backend    Backend
	store      *Store
	jwt        *auth.JWTManager
	refreshTTL time.Duration
}

// NewManager cria o gerenciador de sessões.
func NewManager(backend Backend, store *Store, jwtManager *auth.JWTManager, refreshTTL time.Duration) *Manager {
	return &Manager{backend: backend, store: store, jwt: jwtManager, refreshTTL: refreshTTL}
}

// Login autentica no backend, carrega o usuário e cria a sessão.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, Issued, error) {
	pair, err := m.backend.Login(ctx, email, password)
	if err != nil {
		return nil, Issued{}, err
	}

	user, err := m.backend.Me(ctx, pair.AccessToken)
	if err != nil {
		return nil, Issued{}, err
	}

	sess := &Session{
		ID:           uuid.NewString(),
		User:         user,
		Roles:        roles.Normalize(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		CreatedAt:    time.Now().UTC(),
	}

	if err := m.store.Save(ctx, sess); err != nil {
		return nil, Issued{}, err
	}

	issued, err := m.issue(ctx, sess)
	if err != nil {
		return nil, Issued{}, err
	}
	return sess, issued, nil
}

// Resolve valida o token de sessão e carrega a sessão do Redis.
// Qualquer falha degrada para ErrUnauthenticated: negação por padrão.
func (m *Manager) Resolve(ctx context.Context, sessionToken string) (*Session, error) {
	claims, err := m.jwt.ParseAndValidate(sessionToken)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	sess, err := m.store.Get(ctx, claims.Subject)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Refresh troca um refresh token válido por novos tokens, rotacionando o
// refresh (uso único).
func (m *Manager) Refresh(ctx context.Context, rawRefresh string) (*Session, Issued, error) {
	sessionID, err := m.store.ConsumeRefresh(ctx, auth.HashRefreshToken(rawRefresh))
	if err != nil {
		return nil, Issued{}, ErrUnauthenticated
	}

	sess, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, Issued{}, ErrUnauthenticated
	}

	issued, err := m.issue(ctx, sess)
	if err != nil {
		return nil, Issued{}, err
	}
	return sess, issued, nil
}

// Logout destrói a sessão.
func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	return m.store.Delete(ctx, sessionID)
}

// Invalidate derruba a sessão quando o backend rejeita a credencial
// (autorização expirada sinalizada por uma requisição recusada).
func (m *Manager) Invalidate(ctx context.Context, sessionID string) {
	if err := m.store.Delete(ctx, sessionID); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("falha ao invalidar sessão")
	}
}

func (m *Manager) issue(ctx context.Context, sess *Session) (Issued, error) {
	access, err := m.jwt.GenerateSessionToken(sess.ID, sess.Roles)
	if err != nil {
		return Issued{}, err
	}

	rawRefresh, hashed, err := auth.GenerateRefreshToken()
	if err != nil {
		return Issued{}, err
	}
	if err := m.store.SaveRefresh(ctx, hashed, sess.ID, m.refreshTTL); err != nil {
		return Issued{}, err
	}

	return Issued{AccessToken: access, RefreshToken: rawRefresh}, nil
}
