package gate

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vml-arquivos/font-conexa-v2/internal/conexa"
	"github.com/vml-arquivos/font-conexa-v2/internal/roles"
)

// State enumera os estados da trava pedagógica.
type State string

const (
	StateIdle           State = "IDLE"
	StateSelectRequired State = "SELECT_REQUIRED"
	StateLoading        State = "LOADING"
	StateBlocked        State = "BLOCKED"
	StateReady          State = "READY"
)

// Motivos visíveis de bloqueio. São o único sinal que distingue as causas
// para o usuário; ambas rendem a mesma trava na interface.
const (
	ReasonNoClassroom      = "Nenhuma turma atribuída ao seu usuário. Entre em contato com a coordenação."
	ReasonNoActivePlanning = "Nenhum planejamento ativo encontrado para sua turma. Entre em contato com a coordenação."
	ReasonNoEntryToday     = "Não há entrada curricular programada para hoje. Verifique o calendário letivo."
	ReasonLoadFailure      = "Erro ao carregar informações do dia. Tente novamente."
)

// Snapshot é a visão externa imutável da máquina em um instante.
type Snapshot struct {
	State       State                   `json:"state"`
	ClassroomID string                  `json:"classroom_id,omitempty"`
	Planning    *conexa.Planning        `json:"planning,omitempty"`
	Entry       *conexa.CurriculumEntry `json:"entry,omitempty"`
	Reason      string                  `json:"reason,omitempty"`
	Diagnostic  string                  `json:"-"`
}

// Registrable informa se o registro de diário está habilitado.
func (s Snapshot) Registrable() bool {
	return s.State == StateReady && s.Planning != nil && s.Entry != nil
}

// PedagogicalAPI é o recorte do backend consumido pela trava.
type PedagogicalAPI interface {
	ListPlannings(ctx context.Context, token string, filter conexa.PlanningFilter) ([]conexa.Planning, error)
	ListCurriculumEntries(ctx context.Context, token string, filter conexa.CurriculumFilter) ([]conexa.CurriculumEntry, error)
	AccessibleClassrooms(ctx context.Context, token, unitID string) ([]conexa.Classroom, error)
}

// Gate é a máquina de estados por seleção de turma que decide se o
// registro de diário do dia está liberado. As buscas são sequenciais
// (a segunda depende da primeira) e respostas de seleções supersedidas
// são descartadas: vale sempre a última seleção.
type Gate struct {
	api   PedagogicalAPI
	loc   *time.Location
	clock func() time.Time

	mu           sync.Mutex
	snap         Snapshot
	current      uuid.UUID
	autoSelected bool
}

// Option configura o Gate.
type Option func(*Gate)

// WithClock injeta relógio determinístico (testes).
func WithClock(clock func() time.Time) Option {
	return func(g *Gate) { g.clock = clock }
}

// New cria a máquina no estado Idle.
func New(api PedagogicalAPI, loc *time.Location, opts ...Option) *Gate {
	g := &Gate{
		api:   api,
		loc:   loc,
		clock: time.Now,
		snap:  Snapshot{State: StateIdle},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Snapshot devolve a visão corrente.
func (g *Gate) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snap
}

// Start resolve o estado inicial conforme o perfil do ator. Professora
// com exatamente uma turma acessível é selecionada automaticamente, uma
// única vez; perfis administrativos precisam escolher unidade e turma.
func (g *Gate) Start(ctx context.Context, token string, caps roles.Capabilities) Snapshot {
	if !caps.IsProfessor {
		g.mu.Lock()
		if g.snap.State == StateIdle {
			g.snap = Snapshot{State: StateSelectRequired}
		}
		snap := g.snap
		g.mu.Unlock()
		return snap
	}

	g.mu.Lock()
	if g.autoSelected || g.snap.State != StateIdle {
		snap := g.snap
		g.mu.Unlock()
		return snap
	}
	g.autoSelected = true
	g.mu.Unlock()

	classrooms, err := g.api.AccessibleClassrooms(ctx, token, "")
	if err != nil {
		return g.applyIfCurrent(uuid.Nil, Snapshot{
			State:      StateBlocked,
			Reason:     ReasonLoadFailure,
			Diagnostic: err.Error(),
		})
	}

	switch len(classrooms) {
	case 0:
		return g.applyIfCurrent(uuid.Nil, Snapshot{State: StateBlocked, Reason: ReasonNoClassroom})
	case 1:
		return g.Select(ctx, token, classrooms[0].ID)
	default:
		return g.applyIfCurrent(uuid.Nil, Snapshot{State: StateSelectRequired})
	}
}

// Select inicia (ou reinicia) o carregamento para a turma informada.
// Selecionar outra turma durante um carregamento pendente supersede a
// seleção anterior: a resposta antiga nunca sobrescreve a mais nova.
func (g *Gate) Select(ctx context.Context, token, classroomID string) Snapshot {
	g.mu.Lock()
	selection := uuid.New()
	g.current = selection
	g.snap = Snapshot{State: StateLoading, ClassroomID: classroomID}
	g.mu.Unlock()

	snap := g.load(ctx, token, classroomID)
	return g.applyIfCurrent(selection, snap)
}

// load executa as buscas sequenciais e computa o estado terminal.
// Qualquer falha de transporte colapsa em Blocked; a máquina nunca fica
// presa em Loading.
func (g *Gate) load(ctx context.Context, token, classroomID string) Snapshot {
	plannings, err := g.api.ListPlannings(ctx, token, conexa.PlanningFilter{
		ClassroomID: classroomID,
		Status:      conexa.PlanejamentoEmExecucao,
	})
	if err != nil {
		return Snapshot{State: StateBlocked, ClassroomID: classroomID, Reason: ReasonLoadFailure, Diagnostic: err.Error()}
	}
	if len(plannings) == 0 {
		return Snapshot{State: StateBlocked, ClassroomID: classroomID, Reason: ReasonNoActivePlanning}
	}

	// Multiplicidade de planejamentos ativos é uma ambiguidade tolerada:
	// vale o primeiro, com aviso.
	active := plannings[0]
	if len(plannings) > 1 {
		log.Warn().Int("count", len(plannings)).Str("classroom_id", classroomID).
			Msg("múltiplos planejamentos ativos; usando o primeiro")
	}

	today := PedagogicalToday(g.clock(), g.loc)
	entries, err := g.api.ListCurriculumEntries(ctx, token, conexa.CurriculumFilter{
		CurriculumMatrixID: active.CurriculumMatrixID,
		StartDate:          today,
		EndDate:            today,
	})
	if err != nil {
		return Snapshot{State: StateBlocked, ClassroomID: classroomID, Planning: &active, Reason: ReasonLoadFailure, Diagnostic: err.Error()}
	}
	if len(entries) == 0 {
		// O planejamento permanece exposto para contexto na interface.
		return Snapshot{State: StateBlocked, ClassroomID: classroomID, Planning: &active, Reason: ReasonNoEntryToday}
	}

	entry := entries[0]
	return Snapshot{State: StateReady, ClassroomID: classroomID, Planning: &active, Entry: &entry}
}

// applyIfCurrent aplica o snapshot somente se a seleção originadora ainda
// é a corrente; respostas obsoletas devolvem o estado vigente.
func (g *Gate) applyIfCurrent(selection uuid.UUID, snap Snapshot) Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	if selection != uuid.Nil && selection != g.current {
		return g.snap
	}
	if selection == uuid.Nil && g.current != uuid.Nil {
		// Uma seleção explícita já começou; o resultado do Start perdeu.
		return g.snap
	}
	g.snap = snap
	return snap
}
