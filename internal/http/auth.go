package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/vml-arquivos/font-conexa-v2/internal/conexa"
	"github.com/vml-arquivos/font-conexa-v2/internal/guard"
	httpmiddleware "github.com/vml-arquivos/font-conexa-v2/internal/http/middleware"
	"github.com/vml-arquivos/font-conexa-v2/internal/roles"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Login delega a autenticação ao backend, normaliza os papéis do usuário
// uma única vez e devolve os tokens de sessão junto do perfil resolvido.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", verrs.Error())
			return
		}
		WriteError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", nil)
		return
	}

	sess, issued, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, conexa.ErrUnauthorized) {
			WriteError(w, http.StatusUnauthorized, "AUTH", "credenciais inválidas", nil)
			return
		}
		WriteError(w, http.StatusBadGateway, "UPSTREAM", "falha ao autenticar no backend", nil)
		return
	}

	caps := sess.Capabilities()
	WriteJSON(w, http.StatusOK, map[string]any{
		"access_token":  issued.AccessToken,
		"refresh_token": issued.RefreshToken,
		"user":          sess.User,
		"roles":         sess.Roles,
		"perfil":        caps.Label(),
		"capabilities":  caps,
		"redirect_to":   roles.RedirectPath(sess.Roles),
	})
}

// Refresh troca um refresh token válido por novos tokens (rotação).
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "payload inválido", nil)
		return
	}

	_, issued, err := h.sessions.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "refresh inválido ou expirado",
			map[string]string{"redirect_to": guard.LoginPath})
		return
	}
	WriteJSON(w, http.StatusOK, issued)
}

// Logout destrói a sessão corrente.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())
	if sess != nil {
		_ = h.sessions.Logout(r.Context(), sess.ID)
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Me devolve o usuário da sessão com papéis, capacidades e menu visível.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())

	caps := sess.Capabilities()
	WriteJSON(w, http.StatusOK, map[string]any{
		"user":         sess.User,
		"roles":        sess.Roles,
		"perfil":       caps.Label(),
		"capabilities": caps,
		"redirect_to":  roles.RedirectPath(sess.Roles),
		"menu":         guard.MenuFor(sess.Roles),
	})
}

// LookupUnits lista as unidades acessíveis ao usuário logado.
func (h *Handler) LookupUnits(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())

	units, err := h.backend.AccessibleUnits(r.Context(), sess.AccessToken)
	if err != nil {
		h.writeBackendError(w, r, sess.ID, err)
		return
	}
	WriteJSON(w, http.StatusOK, units)
}

// LookupClassrooms lista as turmas acessíveis, com filtro opcional por
// unidade.
func (h *Handler) LookupClassrooms(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())

	classrooms, err := h.backend.AccessibleClassrooms(r.Context(), sess.AccessToken, r.URL.Query().Get("unitId"))
	if err != nil {
		h.writeBackendError(w, r, sess.ID, err)
		return
	}
	WriteJSON(w, http.StatusOK, classrooms)
}

// LookupTeachers lista as professoras acessíveis, com filtro opcional por
// unidade.
func (h *Handler) LookupTeachers(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())

	teachers, err := h.backend.AccessibleTeachers(r.Context(), sess.AccessToken, r.URL.Query().Get("unitId"))
	if err != nil {
		h.writeBackendError(w, r, sess.ID, err)
		return
	}
	WriteJSON(w, http.StatusOK, teachers)
}

// Health responde status simples.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeBackendError(w http.ResponseWriter, r *http.Request, sessionID string, err error) {
	switch {
	case errors.Is(err, conexa.ErrUnauthorized):
		h.sessions.Invalidate(r.Context(), sessionID)
		WriteError(w, http.StatusUnauthorized, "AUTH", "credencial expirada",
			map[string]string{"redirect_to": guard.LoginPath})
	case errors.Is(err, conexa.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "registro não encontrado", nil)
	default:
		WriteError(w, http.StatusBadGateway, "UPSTREAM", "falha ao consultar o backend", nil)
	}
}
