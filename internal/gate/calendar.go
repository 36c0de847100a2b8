package gate

import "time"

// DefaultTimezone é a referência fixa do calendário letivo. "Hoje" é
// sempre calculado aqui, nunca no fuso do espectador, para evitar deriva
// perto da meia-noite.
const DefaultTimezone = "America/Sao_Paulo"

// LoadLocation resolve o fuso do calendário letivo, com fallback para o
// padrão quando a entrada é vazia.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	return time.LoadLocation(name)
}

// PedagogicalToday devolve a data civil corrente no fuso letivo, no
// formato YYYY-MM-DD usado pelo backend.
func PedagogicalToday(now time.Time, loc *time.Location) string {
	return now.In(loc).Format("2006-01-02")
}
