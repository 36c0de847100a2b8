package roles

// Capabilities agrega os recortes de permissão derivados do conjunto de
// papéis. Os booleanos são independentes: um usuário pode satisfazer vários.
type Capabilities struct {
	IsDeveloper    bool `json:"is_developer"`
	IsMantenedora  bool `json:"is_mantenedora"`
	IsStaffCentral bool `json:"is_staff_central"`
	IsUnidade      bool `json:"is_unidade"`
	IsProfessor    bool `json:"is_professor"`
}

// Resolve deriva as capacidades de um conjunto de papéis. DEVELOPER exige
// presença exata; os demais grupos aceitam qualquer token do grupo.
func Resolve(set []string) Capabilities {
	return Capabilities{
		IsDeveloper:    HasToken(set, Developer),
		IsMantenedora:  HasGroup(set, Mantenedora),
		IsStaffCentral: HasGroup(set, StaffCentral),
		IsUnidade:      HasGroup(set, Unidade),
		IsProfessor:    HasGroup(set, Professor),
	}
}

// Label devolve o rótulo do perfil principal, por cascata de prioridade.
// Usado apenas para exibição, nunca para autorização.
func (c Capabilities) Label() string {
	switch {
	case c.IsDeveloper:
		return "Desenvolvedor"
	case c.IsMantenedora:
		return "Mantenedora"
	case c.IsStaffCentral:
		return "Equipe Central"
	case c.IsUnidade:
		return "Unidade"
	case c.IsProfessor:
		return "Professor(a)"
	default:
		return "Usuário"
	}
}

// RedirectPath devolve a rota pós-login conforme o perfil: professores vão
// para o painel pedagógico, demais perfis para o painel administrativo.
func RedirectPath(set []string) string {
	if HasGroup(set, Professor) {
		return "/app/teacher-dashboard"
	}
	return "/app/dashboard"
}
