package guard

// MenuItem descreve uma entrada de navegação e os papéis que a habilitam.
// Required vazio significa visível a qualquer usuário autenticado.
type MenuItem struct {
	Path     string   `json:"path"`
	Label    string   `json:"label"`
	Required []string `json:"-"`
}

var menuItems = []MenuItem{
	{Path: "/app/dashboard", Label: "Dashboard"},
	{Path: "/app/teacher-dashboard", Label: "Painel do Dia", Required: []string{"PROFESSOR"}},
	{Path: "/app/plannings", Label: "Planejamentos", Required: []string{"UNIDADE", "STAFF_CENTRAL", "MANTENEDORA", "DEVELOPER"}},
	{Path: "/app/diary", Label: "Diário", Required: []string{"PROFESSOR", "UNIDADE"}},
	{Path: "/app/matrices", Label: "Matriz", Required: []string{"STAFF_CENTRAL", "MANTENEDORA", "DEVELOPER"}},
	{Path: "/app/requisicoes", Label: "Requisições de Material", Required: []string{"PROFESSOR", "UNIDADE"}},
	{Path: "/app/pedidos-compra", Label: "Pedidos de Compra", Required: []string{"UNIDADE", "STAFF_CENTRAL", "MANTENEDORA", "DEVELOPER"}},
	{Path: "/app/reports", Label: "Relatórios", Required: []string{"UNIDADE", "STAFF_CENTRAL", "MANTENEDORA", "DEVELOPER"}},
}

// MenuFor filtra o menu pelo conjunto de papéis do usuário.
func MenuFor(set []string) []MenuItem {
	out := make([]MenuItem, 0, len(menuItems))
	for _, item := range menuItems {
		if len(item.Required) == 0 || CanAccess(item.Required, set) {
			out = append(out, item)
		}
	}
	return out
}
