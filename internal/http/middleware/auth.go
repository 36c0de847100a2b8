package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vml-arquivos/font-conexa-v2/internal/guard"
	"github.com/vml-arquivos/font-conexa-v2/internal/session"
)

type contextKey string

const (
	// ContextKeySession guarda a sessão resolvida da requisição.
	ContextKeySession contextKey = "session"
)

// Auth resolve o token de sessão Bearer e injeta a sessão no contexto.
// Sessão ausente, expirada ou inválida nega deterministicamente com
// redirecionamento para o login, independentemente da rota pedida.
func Auth(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeAuthError(w, "token ausente")
				return
			}

			sess, err := sessions.Resolve(r.Context(), parts[1])
			if err != nil {
				writeAuthError(w, "sessão inválida")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession recupera a sessão do contexto.
func GetSession(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(ContextKeySession).(*session.Session)
	return sess
}

// GetRoles recupera o conjunto de papéis da sessão corrente.
func GetRoles(ctx context.Context) []string {
	if sess := GetSession(ctx); sess != nil {
		return sess.Roles
	}
	return nil
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": nil,
		"error": map[string]any{
			"code":    "AUTH",
			"message": message,
			"details": map[string]string{"redirect_to": guard.LoginPath},
		},
	})
}
