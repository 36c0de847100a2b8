package diario

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vml-arquivos/font-conexa-v2/internal/conexa"
	"github.com/vml-arquivos/font-conexa-v2/internal/gate"
	httpmiddleware "github.com/vml-arquivos/font-conexa-v2/internal/http/middleware"
	"github.com/vml-arquivos/font-conexa-v2/internal/session"
)

// ServiceProvider é o recorte do serviço exposto pelos handlers.
type ServiceProvider interface {
	Painel(ctx context.Context, sess *session.Session, classroomID string) gate.Snapshot
	Registrar(ctx context.Context, sess *session.Session, input RegistrarInput) (conexa.DiaryEvent, gate.Snapshot, error)
	ListarEventos(ctx context.Context, sess *session.Session) ([]conexa.DiaryEvent, error)
	SalvarSelecao(ctx context.Context, sess *session.Session, sel session.Selection) error
}

// SessionInvalidator derruba a sessão quando o backend rejeita a credencial.
type SessionInvalidator interface {
	Invalidate(ctx context.Context, sessionID string)
}

// Handler expõe o painel do dia e o registro de diário.
type Handler struct {
	service  ServiceProvider
	sessions SessionInvalidator
}

// NewHandler cria o handler do módulo de diário.
func NewHandler(service ServiceProvider, sessions SessionInvalidator) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// RegisterRoutes registra as rotas do módulo.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/diario/hoje", h.painel)
	r.Get("/diario/eventos", h.listarEventos)
	r.Post("/diario/eventos", h.registrar)
	r.Put("/diario/selecao", h.salvarSelecao)
}

func (h *Handler) painel(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())

	snap := h.service.Painel(r.Context(), sess, r.URL.Query().Get("classroomId"))
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) listarEventos(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())

	events, err := h.service.ListarEventos(r.Context(), sess)
	if err != nil {
		h.writeServiceError(w, r, sess, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *Handler) registrar(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())

	var input RegistrarInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", nil)
		return
	}

	event, snap, err := h.service.Registrar(r.Context(), sess, input)
	if err != nil {
		if errors.Is(err, ErrBloqueado) {
			writeError(w, http.StatusConflict, "TRAVA_PEDAGOGICA", snap.Reason, map[string]any{"state": snap.State})
			return
		}
		if errors.Is(err, ErrDadosInsuficientes) {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION", err.Error(), nil)
			return
		}
		h.writeServiceError(w, r, sess, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"evento": event, "painel": snap})
}

func (h *Handler) salvarSelecao(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())

	var sel session.Selection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", nil)
		return
	}

	if err := h.service.SalvarSelecao(r.Context(), sess, sel); err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível salvar seleção", nil)
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, sess *session.Session, err error) {
	switch {
	case errors.Is(err, conexa.ErrUnauthorized):
		if sess != nil {
			h.sessions.Invalidate(r.Context(), sess.ID)
		}
		writeError(w, http.StatusUnauthorized, "AUTH", "credencial expirada", nil)
	case errors.Is(err, conexa.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "registro não encontrado", nil)
	default:
		writeError(w, http.StatusBadGateway, "UPSTREAM", "falha ao consultar o backend", nil)
	}
}

type successEnvelope struct {
	Data  any `json:"data"`
	Error any `json:"error"`
}

type errorEnvelope struct {
	Data  any       `json:"data"`
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(successEnvelope{Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope{
		Error: errorBody{Code: code, Message: message, Details: details},
	})
}
