package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/vml-arquivos/font-conexa-v2/internal/auth"
	"github.com/vml-arquivos/font-conexa-v2/internal/conexa"
)

type stubBackend struct {
	pair     conexa.TokenPair
	user     map[string]any
	loginErr error
	meErr    error
}

func (s *stubBackend) Login(_ context.Context, _, _ string) (conexa.TokenPair, error) {
	return s.pair, s.loginErr
}

func (s *stubBackend) Me(_ context.Context, _ string) (map[string]any, error) {
	return s.user, s.meErr
}

func newTestManager(t *testing.T, backend Backend) *Manager {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewStore(client, time.Hour)
	jwtManager := auth.NewJWTManager("um-segredo-de-teste-com-32-caracteres!", 15*time.Minute)
	return NewManager(backend, store, jwtManager, time.Hour)
}

func professoraBackend() *stubBackend {
	return &stubBackend{
		pair: conexa.TokenPair{AccessToken: "backend-tok", RefreshToken: "backend-refresh"},
		user: map[string]any{
			"id":    "user-1",
			"email": "prof@conexa.test",
			"roles": []any{map[string]any{"level": "PROFESSOR"}},
		},
	}
}

func TestManager_LoginNormalizaPapeisUmaVez(t *testing.T) {
	manager := newTestManager(t, professoraBackend())

	sess, issued, err := manager.Login(context.Background(), "prof@conexa.test", "senha")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if len(sess.Roles) != 1 || sess.Roles[0] != "PROFESSOR" {
		t.Fatalf("expected [PROFESSOR], got %v", sess.Roles)
	}
	if sess.AccessToken != "backend-tok" {
		t.Fatalf("expected backend token preserved, got %q", sess.AccessToken)
	}
	if issued.AccessToken == "" || issued.RefreshToken == "" {
		t.Fatal("expected issued tokens")
	}
	if issued.AccessToken == "backend-tok" {
		t.Fatal("token do BFF não pode ser o token do backend")
	}
}

func TestManager_ResolveCarregaSessao(t *testing.T) {
	manager := newTestManager(t, professoraBackend())

	sess, issued, err := manager.Login(context.Background(), "prof@conexa.test", "senha")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	resolved, err := manager.Resolve(context.Background(), issued.AccessToken)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.ID != sess.ID {
		t.Fatalf("expected session %q, got %q", sess.ID, resolved.ID)
	}
	if !resolved.Capabilities().IsProfessor {
		t.Fatal("expected IsProfessor capability")
	}
}

func TestManager_ResolveTokenInvalido(t *testing.T) {
	manager := newTestManager(t, professoraBackend())

	if _, err := manager.Resolve(context.Background(), "nem-um-jwt"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestManager_LogoutDerrubaSessao(t *testing.T) {
	manager := newTestManager(t, professoraBackend())

	_, issued, err := manager.Login(context.Background(), "prof@conexa.test", "senha")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	sess, err := manager.Resolve(context.Background(), issued.AccessToken)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if err := manager.Logout(context.Background(), sess.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := manager.Resolve(context.Background(), issued.AccessToken); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated after logout, got %v", err)
	}
}

func TestManager_RefreshRotaciona(t *testing.T) {
	manager := newTestManager(t, professoraBackend())

	_, issued, err := manager.Login(context.Background(), "prof@conexa.test", "senha")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	_, renewed, err := manager.Refresh(context.Background(), issued.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if renewed.RefreshToken == issued.RefreshToken {
		t.Fatal("refresh deve ser rotacionado")
	}

	// O refresh antigo foi consumido.
	if _, _, err := manager.Refresh(context.Background(), issued.RefreshToken); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated reusando refresh, got %v", err)
	}

	// O novo segue válido.
	if _, _, err := manager.Refresh(context.Background(), renewed.RefreshToken); err != nil {
		t.Fatalf("novo refresh deve funcionar: %v", err)
	}
}

func TestManager_LoginRecusadoPeloBackend(t *testing.T) {
	backend := professoraBackend()
	backend.loginErr = conexa.ErrUnauthorized
	manager := newTestManager(t, backend)

	if _, _, err := manager.Login(context.Background(), "prof@conexa.test", "errada"); !errors.Is(err, conexa.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
