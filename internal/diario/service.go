package diario

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/vml-arquivos/font-conexa-v2/internal/conexa"
	"github.com/vml-arquivos/font-conexa-v2/internal/gate"
	"github.com/vml-arquivos/font-conexa-v2/internal/session"
)

var (
	// ErrBloqueado indica trava pedagógica ativa: sem planejamento em
	// execução e entrada curricular do dia não há registro de diário.
	ErrBloqueado = errors.New("trava pedagógica ativa")
	// ErrDadosInsuficientes indica payload sem os vínculos obrigatórios.
	ErrDadosInsuficientes = errors.New("dados insuficientes para registrar diário")
)

// BackendAPI é o recorte do cliente Conexa usado pelo módulo de diário.
type BackendAPI interface {
	gate.PedagogicalAPI
	ListDiaryEvents(ctx context.Context, token string) ([]conexa.DiaryEvent, error)
	CreateDiaryEvent(ctx context.Context, token string, input conexa.CreateDiaryEventInput) (conexa.DiaryEvent, error)
}

// SelectionStore persiste a última unidade/turma escolhida. É estado
// consultivo: nunca substitui uma avaliação fresca da trava.
type SelectionStore interface {
	GetSelection(ctx context.Context, sessionID string) (session.Selection, error)
	SaveSelection(ctx context.Context, sessionID string, sel session.Selection) error
}

// Service resolve o painel do dia e o registro de diário, sempre por
// trás da trava pedagógica.
type Service struct {
	api   BackendAPI
	store SelectionStore
	loc   *time.Location
	clock func() time.Time
}

// NewService cria o serviço de diário.
func NewService(api BackendAPI, store SelectionStore, loc *time.Location) *Service {
	return &Service{api: api, store: store, loc: loc, clock: time.Now}
}

// Painel avalia a trava pedagógica para a turma pedida (ou para a última
// seleção persistida, ou por auto-seleção de professora com turma única)
// e devolve o estado resultante.
func (s *Service) Painel(ctx context.Context, sess *session.Session, classroomID string) gate.Snapshot {
	g := gate.New(s.api, s.loc, gate.WithClock(s.clock))

	if classroomID == "" && s.store != nil {
		if sel, err := s.store.GetSelection(ctx, sess.ID); err == nil {
			classroomID = sel.ClassroomID
		}
	}

	var snap gate.Snapshot
	if classroomID != "" {
		snap = g.Select(ctx, sess.AccessToken, classroomID)
	} else {
		snap = g.Start(ctx, sess.AccessToken, sess.Capabilities())
	}

	if snap.ClassroomID != "" && s.store != nil {
		_ = s.store.SaveSelection(ctx, sess.ID, session.Selection{ClassroomID: snap.ClassroomID})
	}
	return snap
}

// RegistrarInput é o payload de registro de diário.
type RegistrarInput struct {
	ClassroomID string `json:"classroomId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Registrar cria um registro de diário para o dia. A trava é reavaliada
// na hora: estado persistido nunca é confiado no lugar de uma avaliação
// fresca.
func (s *Service) Registrar(ctx context.Context, sess *session.Session, input RegistrarInput) (conexa.DiaryEvent, gate.Snapshot, error) {
	if strings.TrimSpace(input.Title) == "" {
		return conexa.DiaryEvent{}, gate.Snapshot{}, errors.New("título obrigatório")
	}

	snap := s.Painel(ctx, sess, input.ClassroomID)
	if !snap.Registrable() {
		return conexa.DiaryEvent{}, snap, ErrBloqueado
	}

	planning := snap.Planning
	entry := snap.Entry
	if planning.ID == "" || entry.ID == "" || planning.ClassroomID == "" {
		return conexa.DiaryEvent{}, snap, ErrDadosInsuficientes
	}

	event, err := s.api.CreateDiaryEvent(ctx, sess.AccessToken, conexa.CreateDiaryEventInput{
		Title:             input.Title,
		Date:              gate.PedagogicalToday(s.clock(), s.loc),
		Description:       input.Description,
		PlanningID:        planning.ID,
		CurriculumEntryID: entry.ID,
		ClassroomID:       planning.ClassroomID,
	})
	if err != nil {
		return conexa.DiaryEvent{}, snap, err
	}
	return event, snap, nil
}

// ListarEventos lista os registros de diário acessíveis ao usuário.
func (s *Service) ListarEventos(ctx context.Context, sess *session.Session) ([]conexa.DiaryEvent, error) {
	return s.api.ListDiaryEvents(ctx, sess.AccessToken)
}

// SalvarSelecao persiste a seleção consultiva de unidade/turma.
func (s *Service) SalvarSelecao(ctx context.Context, sess *session.Session, sel session.Selection) error {
	if s.store == nil {
		return nil
	}
	return s.store.SaveSelection(ctx, sess.ID, sel)
}
