package session

import "github.com/vml-arquivos/font-conexa-v2/internal/roles"

// UserID devolve o ID do usuário no backend, quando presente no registro.
func (s *Session) UserID() string {
	if s == nil {
		return ""
	}
	id, _ := s.User["id"].(string)
	return id
}

// Email devolve o e-mail do usuário, quando presente.
func (s *Session) Email() string {
	if s == nil {
		return ""
	}
	email, _ := s.User["email"].(string)
	return email
}

// Capabilities resolve as capacidades a partir dos papéis normalizados.
func (s *Session) Capabilities() roles.Capabilities {
	if s == nil {
		return roles.Capabilities{}
	}
	return roles.Resolve(s.Roles)
}
