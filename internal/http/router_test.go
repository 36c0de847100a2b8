package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/vml-arquivos/font-conexa-v2/internal/audit"
	"github.com/vml-arquivos/font-conexa-v2/internal/auth"
	"github.com/vml-arquivos/font-conexa-v2/internal/compras"
	"github.com/vml-arquivos/font-conexa-v2/internal/conexa"
	"github.com/vml-arquivos/font-conexa-v2/internal/config"
	"github.com/vml-arquivos/font-conexa-v2/internal/diario"
	"github.com/vml-arquivos/font-conexa-v2/internal/gate"
	"github.com/vml-arquivos/font-conexa-v2/internal/session"
)

// fakeConexa simula o backend Conexa para os testes de roteamento.
func fakeConexa(t *testing.T, role string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "senha-certa" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"accessToken": "backend-tok"})
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{
				"id":    "user-1",
				"email": "alguem@conexa.test",
				"roles": []any{map[string]any{"level": role}},
			},
		})
	})
	mux.HandleFunc("/lookup/units/accessible", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		_ = json.NewEncoder(w).Encode([]conexa.Unit{{ID: "u1", Name: "Unidade Centro"}})
	})
	mux.HandleFunc("/pedidos-compra", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		_ = json.NewEncoder(w).Encode([]conexa.PedidoCompra{})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T, role string) http.Handler {
	t.Helper()

	backendSrv := fakeConexa(t, role)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	cfg := &config.Config{
		Port:            8080,
		ConexaBaseURL:   backendSrv.URL,
		RedisURL:        "redis://" + mr.Addr(),
		SessionSecret:   "um-segredo-de-teste-com-32-caracteres!",
		SessionTTL:      time.Hour,
		AccessTTL:       15 * time.Minute,
		RefreshTTL:      time.Hour,
		Timezone:        gate.DefaultTimezone,
		RateLimitPublic: config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
		RateLimitAuth:   config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
	}

	backend, err := conexa.New(conexa.Config{BaseURL: cfg.ConexaBaseURL})
	if err != nil {
		t.Fatalf("conexa: %v", err)
	}

	loc, err := gate.LoadLocation(cfg.Timezone)
	if err != nil {
		t.Fatalf("timezone: %v", err)
	}

	store := session.NewStore(redisClient, cfg.SessionTTL)
	jwtManager := auth.NewJWTManager(cfg.SessionSecret, cfg.AccessTTL)
	sessions := session.NewManager(backend, store, jwtManager, cfg.RefreshTTL)
	recorder := audit.NewRecorder(nil)

	return NewRouter(cfg, backend, sessions, recorder,
		compras.NewService(backend, recorder),
		diario.NewService(backend, store, loc))
}

func login(t *testing.T, router http.Handler) string {
	t.Helper()

	body := strings.NewReader(`{"email":"alguem@conexa.test","password":"senha-certa"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", res.Code, res.Body.String())
	}

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("login: unmarshal: %v", err)
	}
	if envelope.Data.AccessToken == "" {
		t.Fatal("login: expected access token")
	}
	return envelope.Data.AccessToken
}

func TestRouter_LoginDevolvePerfilResolvido(t *testing.T) {
	router := newTestRouter(t, "PROFESSOR")

	body := strings.NewReader(`{"email":"alguem@conexa.test","password":"senha-certa"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if envelope.Data["perfil"] != "Professor(a)" {
		t.Fatalf("expected Professor(a), got %v", envelope.Data["perfil"])
	}
	if envelope.Data["redirect_to"] != "/app/teacher-dashboard" {
		t.Fatalf("expected teacher dashboard, got %v", envelope.Data["redirect_to"])
	}
}

func TestRouter_LoginCredenciaisInvalidas(t *testing.T) {
	router := newTestRouter(t, "PROFESSOR")

	body := strings.NewReader(`{"email":"alguem@conexa.test","password":"errada"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
}

func TestRouter_MeExigeSessao(t *testing.T) {
	router := newTestRouter(t, "PROFESSOR")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}

	var envelope struct {
		Error struct {
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if envelope.Error.Details["redirect_to"] != "/login" {
		t.Fatalf("expected redirect to /login, got %v", envelope.Error.Details)
	}
}

func TestRouter_MeComSessao(t *testing.T) {
	router := newTestRouter(t, "UNIDADE_DIRETORA")
	token := login(t, router)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var envelope struct {
		Data struct {
			Perfil string   `json:"perfil"`
			Roles  []string `json:"roles"`
		} `json:"data"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if envelope.Data.Perfil != "Unidade" {
		t.Fatalf("expected Unidade, got %q", envelope.Data.Perfil)
	}
	if len(envelope.Data.Roles) != 1 || envelope.Data.Roles[0] != "UNIDADE_DIRETORA" {
		t.Fatalf("unexpected roles: %v", envelope.Data.Roles)
	}
}

func TestRouter_GuardNegaPedidosParaProfessora(t *testing.T) {
	router := newTestRouter(t, "PROFESSOR")
	token := login(t, router)

	req := httptest.NewRequest(http.MethodGet, "/pedidos-compra", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.Code)
	}

	var envelope struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if envelope.Error.Code != "FORBIDDEN" {
		t.Fatalf("expected FORBIDDEN, got %q", envelope.Error.Code)
	}
	if envelope.Error.Details["redirect_to"] != "/app/dashboard" {
		t.Fatalf("expected safe redirect, got %v", envelope.Error.Details)
	}
}

func TestRouter_GuardAdmitePedidosParaUnidade(t *testing.T) {
	router := newTestRouter(t, "UNIDADE_DIRETORA")
	token := login(t, router)

	req := httptest.NewRequest(http.MethodGet, "/pedidos-compra", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", res.Code, res.Body.String())
	}
}

func TestRouter_LookupUnits(t *testing.T) {
	router := newTestRouter(t, "UNIDADE")
	token := login(t, router)

	req := httptest.NewRequest(http.MethodGet, "/lookup/units/accessible", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var envelope struct {
		Data []conexa.Unit `json:"data"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].ID != "u1" {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
}

func TestRouter_LogoutDerrubaSessao(t *testing.T) {
	router := newTestRouter(t, "PROFESSOR")
	token := login(t, router)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", res.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res = httptest.NewRecorder()
	router.ServeHTTP(res, req)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", res.Code)
	}
}
