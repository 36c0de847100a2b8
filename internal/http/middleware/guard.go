package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/vml-arquivos/font-conexa-v2/internal/audit"
	"github.com/vml-arquivos/font-conexa-v2/internal/guard"
)

// RequireRoles admite a rota apenas para quem possui ao menos um dos
// tokens exigidos, pela regra de grupo por prefixo. Negação nunca expõe a
// tela protegida: responde com destino seguro e registra o diagnóstico
// (papéis do usuário + papéis exigidos) para observabilidade.
func RequireRoles(recorder *audit.Recorder, required ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSession(r.Context())
			if sess == nil {
				writeAuthError(w, "sessão ausente")
				return
			}

			decision := guard.Evaluate(required, sess.Roles)
			if !decision.Allowed {
				log.Warn().
					Strs("role_set", decision.RoleSet).
					Strs("required", decision.Required).
					Str("path", r.URL.Path).
					Msg("acesso negado")
				recorder.Denial(r.Context(), sess.UserID(), r.URL.Path, decision.RoleSet, decision.Required)
				writeGuardError(w, decision)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeGuardError(w http.ResponseWriter, decision guard.Decision) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": nil,
		"error": map[string]any{
			"code":    "FORBIDDEN",
			"message": "acesso negado para este perfil",
			"details": map[string]string{"redirect_to": decision.RedirectTo},
		},
	})
}
