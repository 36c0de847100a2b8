package guard

import (
	"github.com/vml-arquivos/font-conexa-v2/internal/roles"
)

// Rotas de destino seguras usadas quando o acesso é negado.
const (
	LoginPath     = "/login"
	DashboardPath = "/app/dashboard"
)

// Decision descreve o resultado de uma avaliação de acesso, incluindo o
// diagnóstico necessário para observabilidade em caso de negação.
type Decision struct {
	Allowed    bool     `json:"allowed"`
	RedirectTo string   `json:"redirect_to,omitempty"`
	RoleSet    []string `json:"role_set,omitempty"`
	Required   []string `json:"required,omitempty"`
}

// CanAccess concede acesso sse o conjunto de papéis contém ao menos um
// token listado em required, diretamente ou pela regra de grupo por
// prefixo. Um token exigido nunca concede implicitamente um grupo mais
// amplo: a relação é "o usuário possui esta permissão específica".
func CanAccess(required, set []string) bool {
	for _, token := range set {
		for _, req := range required {
			if token == req || roles.BelongsToGroup(token, req) {
				return true
			}
		}
	}
	return false
}

// Evaluate aplica CanAccess e materializa a decisão com destino de
// redirecionamento e diagnóstico. Conjunto vazio de papéis nega sempre.
func Evaluate(required, set []string) Decision {
	if CanAccess(required, set) {
		return Decision{Allowed: true, RoleSet: set, Required: required}
	}
	return Decision{
		Allowed:    false,
		RedirectTo: DashboardPath,
		RoleSet:    set,
		Required:   required,
	}
}
