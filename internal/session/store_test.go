package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/vml-arquivos/font-conexa-v2/internal/auth"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewStore(client, time.Hour), mr
}

func TestStore_SaveGetDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	sess := &Session{
		ID:          "sess-1",
		User:        map[string]any{"id": "user-1", "email": "prof@conexa.test"},
		Roles:       []string{"PROFESSOR"},
		AccessToken: "tok",
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Email() != "prof@conexa.test" {
		t.Fatalf("expected email preserved, got %q", got.Email())
	}
	if len(got.Roles) != 1 || got.Roles[0] != "PROFESSOR" {
		t.Fatalf("expected roles preserved, got %v", got.Roles)
	}

	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "sess-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStore_SessaoExpirada(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, &Session{ID: "sess-1"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	mr.FastForward(2 * time.Hour)

	if _, err := store.Get(ctx, "sess-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after TTL, got %v", err)
	}
}

func TestStore_Selecao(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	// Ausência degrada para seleção vazia, sem erro.
	sel, err := store.GetSelection(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get selection: %v", err)
	}
	if sel.ClassroomID != "" || sel.UnitID != "" {
		t.Fatalf("expected empty selection, got %+v", sel)
	}

	if err := store.SaveSelection(ctx, "sess-1", Selection{UnitID: "u1", ClassroomID: "t1"}); err != nil {
		t.Fatalf("save selection: %v", err)
	}
	sel, err = store.GetSelection(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get selection: %v", err)
	}
	if sel.ClassroomID != "t1" || sel.UnitID != "u1" {
		t.Fatalf("unexpected selection: %+v", sel)
	}

	// Logout remove a seleção junto da sessão.
	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	sel, err = store.GetSelection(ctx, "sess-1")
	if err != nil || sel.ClassroomID != "" {
		t.Fatalf("expected empty selection after delete, got %+v (%v)", sel, err)
	}
}

func TestStore_RefreshUsoUnico(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	raw, hashed, err := auth.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if raw == hashed {
		t.Fatal("hash não pode coincidir com o valor cru")
	}

	if err := store.SaveRefresh(ctx, hashed, "sess-1", time.Hour); err != nil {
		t.Fatalf("save refresh: %v", err)
	}

	sessionID, err := store.ConsumeRefresh(ctx, hashed)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if sessionID != "sess-1" {
		t.Fatalf("expected sess-1, got %q", sessionID)
	}

	if _, err := store.ConsumeRefresh(ctx, hashed); !errors.Is(err, auth.ErrInvalidRefresh) {
		t.Fatalf("segundo consumo deve falhar, got %v", err)
	}
}
