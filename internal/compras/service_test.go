package compras

import (
	"context"
	"errors"
	"testing"

	"github.com/vml-arquivos/font-conexa-v2/internal/audit"
	"github.com/vml-arquivos/font-conexa-v2/internal/conexa"
	"github.com/vml-arquivos/font-conexa-v2/internal/session"
)

type stubBackend struct {
	request    conexa.MaterialRequest
	requests   []conexa.MaterialRequest
	pedido     conexa.PedidoCompra
	pedidos    []conexa.PedidoCompra
	resultado  conexa.ConsolidacaoResult
	err        error
	reviewed   bool
	updated    bool
	lastStatus conexa.StatusPedido
}

func (s *stubBackend) CreateMaterialRequest(_ context.Context, _ string, _ conexa.CreateMaterialRequestInput) (conexa.MaterialRequest, error) {
	return s.request, s.err
}

func (s *stubBackend) ListMyMaterialRequests(_ context.Context, _ string) ([]conexa.MaterialRequest, error) {
	return s.requests, s.err
}

func (s *stubBackend) ListUnitMaterialRequests(_ context.Context, _ string, _ conexa.MaterialRequestFilter) ([]conexa.MaterialRequest, error) {
	return s.requests, s.err
}

func (s *stubBackend) ReviewMaterialRequest(_ context.Context, _, _, _, _ string) (conexa.MaterialRequest, error) {
	s.reviewed = true
	return s.request, s.err
}

func (s *stubBackend) ConsolidarPedido(_ context.Context, _ string, _ conexa.ConsolidarPedidoInput) (conexa.ConsolidacaoResult, error) {
	return s.resultado, s.err
}

func (s *stubBackend) ListPedidos(_ context.Context, _ string, _ conexa.PedidoFilter) ([]conexa.PedidoCompra, error) {
	return s.pedidos, s.err
}

func (s *stubBackend) GetPedido(_ context.Context, _, _ string) (conexa.PedidoCompra, error) {
	return s.pedido, s.err
}

func (s *stubBackend) UpdatePedidoStatus(_ context.Context, _, _ string, status conexa.StatusPedido, _ string) (conexa.PedidoCompra, error) {
	s.updated = true
	s.lastStatus = status
	out := s.pedido
	out.Status = status
	return out, s.err
}

func sessWith(roleSet ...string) *session.Session {
	return &session.Session{
		ID:          "sess-1",
		User:        map[string]any{"id": "user-1"},
		Roles:       roleSet,
		AccessToken: "tok",
	}
}

func newTestService(backend *stubBackend) *Service {
	return NewService(backend, audit.NewRecorder(nil))
}

func TestCreateRequest_PerfilSemAlcada(t *testing.T) {
	svc := newTestService(&stubBackend{})

	_, err := svc.CreateRequest(context.Background(), sessWith("MANTENEDORA"), CreateRequestInput{})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCreateRequest_ValidaPayload(t *testing.T) {
	svc := newTestService(&stubBackend{})

	_, err := svc.CreateRequest(context.Background(), sessWith("PROFESSOR"), CreateRequestInput{
		Titulo: "Materiais de pintura",
		// categoria, itens, justificativa e urgência ausentes
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestCreateRequest_Sucesso(t *testing.T) {
	backend := &stubBackend{request: conexa.MaterialRequest{ID: "req-1", Status: conexa.RequisicaoSolicitado}}
	svc := newTestService(backend)

	request, err := svc.CreateRequest(context.Background(), sessWith("PROFESSOR"), CreateRequestInput{
		Categoria:     conexa.CategoriaPedagogico,
		Titulo:        "Materiais de pintura",
		Itens:         []conexa.MaterialRequestItem{{Item: "Tinta guache", Quantidade: 10}},
		Justificativa: "Projeto de artes do trimestre",
		Urgencia:      "MEDIA",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if request.ID != "req-1" {
		t.Fatalf("expected req-1, got %q", request.ID)
	}
}

func TestReview_ProfessoraNuncaChegaAoBackend(t *testing.T) {
	backend := &stubBackend{}
	svc := newTestService(backend)

	_, err := svc.Review(context.Background(), sessWith("PROFESSOR"), "req-1", ReviewInput{Decision: "APPROVED"})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if backend.reviewed {
		t.Fatal("revisão recusada localmente não deve chamar o backend")
	}
}

func TestReview_UnidadeAprova(t *testing.T) {
	backend := &stubBackend{request: conexa.MaterialRequest{ID: "req-1", Status: conexa.RequisicaoAprovado}}
	svc := newTestService(backend)

	request, err := svc.Review(context.Background(), sessWith("UNIDADE_DIRETORA"), "req-1", ReviewInput{Decision: "APPROVED"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !backend.reviewed {
		t.Fatal("expected backend call")
	}
	if request.Status != conexa.RequisicaoAprovado {
		t.Fatalf("expected APROVADO, got %s", request.Status)
	}
}

func TestReview_DecisaoInvalida(t *testing.T) {
	svc := newTestService(&stubBackend{})

	_, err := svc.Review(context.Background(), sessWith("UNIDADE"), "req-1", ReviewInput{Decision: "MAYBE"})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestConsolidar_ApenasUnidade(t *testing.T) {
	svc := newTestService(&stubBackend{})

	_, err := svc.Consolidar(context.Background(), sessWith("PROFESSOR"), ConsolidarInput{MesReferencia: "2026-03"})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestConsolidar_Sucesso(t *testing.T) {
	backend := &stubBackend{resultado: conexa.ConsolidacaoResult{PedidoID: "ped-1", TotalItens: 4}}
	svc := newTestService(backend)

	result, err := svc.Consolidar(context.Background(), sessWith("UNIDADE"), ConsolidarInput{MesReferencia: "2026-03"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PedidoID != "ped-1" || result.TotalItens != 4 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestAtualizarStatus_ReleStatusDoBackend(t *testing.T) {
	backend := &stubBackend{pedido: conexa.PedidoCompra{ID: "ped-1", Status: conexa.PedidoEnviado}}
	svc := newTestService(backend)

	view, err := svc.AtualizarStatus(context.Background(), sessWith("MANTENEDORA"), "ped-1", AtualizarStatusInput{Status: conexa.PedidoEmAnalise})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !backend.updated || backend.lastStatus != conexa.PedidoEmAnalise {
		t.Fatalf("expected update para EM_ANALISE, got %v %s", backend.updated, backend.lastStatus)
	}
	if view.Status != conexa.PedidoEmAnalise {
		t.Fatalf("expected EM_ANALISE, got %s", view.Status)
	}
}

func TestAtualizarStatus_TransicaoForaDoConjunto(t *testing.T) {
	backend := &stubBackend{pedido: conexa.PedidoCompra{ID: "ped-1", Status: conexa.PedidoEnviado}}
	svc := newTestService(backend)

	_, err := svc.AtualizarStatus(context.Background(), sessWith("UNIDADE"), "ped-1", AtualizarStatusInput{Status: conexa.PedidoEmAnalise})
	if !errors.Is(err, ErrTransicaoInvalida) {
		t.Fatalf("expected ErrTransicaoInvalida, got %v", err)
	}
	if backend.updated {
		t.Fatal("transição recusada não deve chamar o backend")
	}
}

func TestListPedidos_DecoraAcoesPorPerfil(t *testing.T) {
	backend := &stubBackend{pedidos: []conexa.PedidoCompra{{ID: "ped-1", Status: conexa.PedidoEnviado}}}
	svc := newTestService(backend)

	views, err := svc.ListPedidos(context.Background(), sessWith("UNIDADE"), conexa.PedidoFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views))
	}
	if len(views[0].ProximosStatus) != 0 {
		t.Fatalf("unidade sobre ENVIADO deve esconder ações, got %v", views[0].ProximosStatus)
	}
	if views[0].StatusLabel != "Enviado" {
		t.Fatalf("expected label Enviado, got %q", views[0].StatusLabel)
	}
}
