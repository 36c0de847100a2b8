package compras

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vml-arquivos/font-conexa-v2/internal/conexa"
	httpmiddleware "github.com/vml-arquivos/font-conexa-v2/internal/http/middleware"
	"github.com/vml-arquivos/font-conexa-v2/internal/session"
)

// ServiceProvider é o recorte do serviço exposto pelos handlers.
type ServiceProvider interface {
	CreateRequest(ctx context.Context, sess *session.Session, input CreateRequestInput) (conexa.MaterialRequest, error)
	ListMine(ctx context.Context, sess *session.Session) ([]RequestView, error)
	ListUnit(ctx context.Context, sess *session.Session, filter conexa.MaterialRequestFilter) ([]RequestView, error)
	Review(ctx context.Context, sess *session.Session, id string, input ReviewInput) (conexa.MaterialRequest, error)
	Consolidar(ctx context.Context, sess *session.Session, input ConsolidarInput) (conexa.ConsolidacaoResult, error)
	ListPedidos(ctx context.Context, sess *session.Session, filter conexa.PedidoFilter) ([]PedidoView, error)
	GetPedido(ctx context.Context, sess *session.Session, id string) (PedidoView, error)
	AtualizarStatus(ctx context.Context, sess *session.Session, id string, input AtualizarStatusInput) (PedidoView, error)
}

// SessionInvalidator derruba a sessão quando o backend rejeita a credencial.
type SessionInvalidator interface {
	Invalidate(ctx context.Context, sessionID string)
}

// Handler expõe os endpoints REST de requisições e pedidos de compra.
type Handler struct {
	service  ServiceProvider
	sessions SessionInvalidator
}

// NewHandler cria o handler do módulo de compras.
func NewHandler(service ServiceProvider, sessions SessionInvalidator) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// RegisterRequisicaoRoutes registra as rotas de requisições de material.
func (h *Handler) RegisterRequisicaoRoutes(r chi.Router) {
	r.Post("/material-requests", h.createRequest)
	r.Get("/material-requests/minhas", h.listMine)
	r.Get("/material-requests", h.listUnit)
	r.Patch("/material-requests/{requestID}/review", h.review)
}

// RegisterPedidoRoutes registra as rotas de pedidos de compra.
func (h *Handler) RegisterPedidoRoutes(r chi.Router) {
	r.Post("/pedidos-compra/consolidar", h.consolidar)
	r.Get("/pedidos-compra", h.listPedidos)
	r.Get("/pedidos-compra/{pedidoID}", h.getPedido)
	r.Patch("/pedidos-compra/{pedidoID}/status", h.atualizarStatus)
}

func (h *Handler) createRequest(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())

	var input CreateRequestInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", nil)
		return
	}

	request, err := h.service.CreateRequest(r.Context(), sess, input)
	if err != nil {
		h.writeServiceError(w, r, sess, err)
		return
	}
	writeJSON(w, http.StatusCreated, request)
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())

	requests, err := h.service.ListMine(r.Context(), sess)
	if err != nil {
		h.writeServiceError(w, r, sess, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (h *Handler) listUnit(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())

	filter := conexa.MaterialRequestFilter{
		Status:      conexa.StatusRequisicao(r.URL.Query().Get("status")),
		ClassroomID: r.URL.Query().Get("classroomId"),
		Categoria:   conexa.CategoriaMaterial(r.URL.Query().Get("categoria")),
	}

	requests, err := h.service.ListUnit(r.Context(), sess, filter)
	if err != nil {
		h.writeServiceError(w, r, sess, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())
	requestID := chi.URLParam(r, "requestID")

	var input ReviewInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", nil)
		return
	}

	request, err := h.service.Review(r.Context(), sess, requestID, input)
	if err != nil {
		h.writeServiceError(w, r, sess, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

func (h *Handler) consolidar(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())

	var input ConsolidarInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", nil)
		return
	}

	result, err := h.service.Consolidar(r.Context(), sess, input)
	if err != nil {
		h.writeServiceError(w, r, sess, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) listPedidos(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())

	filter := conexa.PedidoFilter{
		MesReferencia: r.URL.Query().Get("mesReferencia"),
		UnitID:        r.URL.Query().Get("unitId"),
		Status:        conexa.StatusPedido(r.URL.Query().Get("status")),
	}

	pedidos, err := h.service.ListPedidos(r.Context(), sess, filter)
	if err != nil {
		h.writeServiceError(w, r, sess, err)
		return
	}
	writeJSON(w, http.StatusOK, pedidos)
}

func (h *Handler) getPedido(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())

	pedido, err := h.service.GetPedido(r.Context(), sess, chi.URLParam(r, "pedidoID"))
	if err != nil {
		h.writeServiceError(w, r, sess, err)
		return
	}
	writeJSON(w, http.StatusOK, pedido)
}

func (h *Handler) atualizarStatus(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())
	pedidoID := chi.URLParam(r, "pedidoID")

	var input AtualizarStatusInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", nil)
		return
	}

	pedido, err := h.service.AtualizarStatus(r.Context(), sess, pedidoID, input)
	if err != nil {
		h.writeServiceError(w, r, sess, err)
		return
	}
	writeJSON(w, http.StatusOK, pedido)
}

// writeServiceError normaliza falhas do serviço no envelope padrão.
// Credencial rejeitada pelo backend derruba a sessão local.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, sess *session.Session, err error) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, conexa.ErrUnauthorized):
		if sess != nil {
			h.sessions.Invalidate(r.Context(), sess.ID)
		}
		writeError(w, http.StatusUnauthorized, "AUTH", "credencial expirada", nil)
	case errors.Is(err, ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "acesso negado para este perfil", nil)
	case errors.Is(err, ErrTransicaoInvalida):
		writeError(w, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	case errors.Is(err, conexa.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "registro não encontrado", nil)
	case errors.As(err, &validationErrs):
		writeError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", validationErrs.Error())
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
