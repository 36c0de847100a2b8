package compras

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/vml-arquivos/font-conexa-v2/internal/audit"
	"github.com/vml-arquivos/font-conexa-v2/internal/conexa"
	"github.com/vml-arquivos/font-conexa-v2/internal/roles"
	"github.com/vml-arquivos/font-conexa-v2/internal/session"
)

var (
	// ErrForbidden indica ator sem alçada para a operação.
	ErrForbidden = errors.New("acesso negado")
	// ErrTransicaoInvalida indica destino fora do conjunto oferecido.
	ErrTransicaoInvalida = errors.New("transição de status não permitida para este perfil")
)

// BackendAPI é o recorte do cliente Conexa usado pelo módulo de compras.
type BackendAPI interface {
	CreateMaterialRequest(ctx context.Context, token string, input conexa.CreateMaterialRequestInput) (conexa.MaterialRequest, error)
	ListMyMaterialRequests(ctx context.Context, token string) ([]conexa.MaterialRequest, error)
	ListUnitMaterialRequests(ctx context.Context, token string, filter conexa.MaterialRequestFilter) ([]conexa.MaterialRequest, error)
	ReviewMaterialRequest(ctx context.Context, token, id, decision, observacao string) (conexa.MaterialRequest, error)
	ConsolidarPedido(ctx context.Context, token string, input conexa.ConsolidarPedidoInput) (conexa.ConsolidacaoResult, error)
	ListPedidos(ctx context.Context, token string, filter conexa.PedidoFilter) ([]conexa.PedidoCompra, error)
	GetPedido(ctx context.Context, token, id string) (conexa.PedidoCompra, error)
	UpdatePedidoStatus(ctx context.Context, token, id string, status conexa.StatusPedido, observacoes string) (conexa.PedidoCompra, error)
}

// Service orquestra requisições de material e pedidos de compra. Toda
// decisão final é do backend; aqui só se recusa localmente o que a
// autoridade de transição já sabe que seria rejeitado.
type Service struct {
	api      BackendAPI
	audit    *audit.Recorder
	validate *validator.Validate
}

// NewService cria o serviço de compras.
func NewService(api BackendAPI, recorder *audit.Recorder) *Service {
	return &Service{api: api, audit: recorder, validate: validator.New()}
}

// CreateRequestInput é o payload de criação de requisição.
type CreateRequestInput struct {
	ClassroomID   string                       `json:"classroomId" validate:"omitempty"`
	Categoria     conexa.CategoriaMaterial     `json:"categoria" validate:"required,oneof=HIGIENE LIMPEZA ALIMENTACAO PEDAGOGICO OUTRO"`
	Titulo        string                       `json:"titulo" validate:"required"`
	Descricao     string                       `json:"descricao"`
	Itens         []conexa.MaterialRequestItem `json:"itens" validate:"required,min=1,dive"`
	Justificativa string                       `json:"justificativa" validate:"required"`
	Urgencia      string                       `json:"urgencia" validate:"required,oneof=BAIXA MEDIA ALTA"`
}

// CreateRequest cria uma requisição em nome da professora logada.
func (s *Service) CreateRequest(ctx context.Context, sess *session.Session, input CreateRequestInput) (conexa.MaterialRequest, error) {
	caps := sess.Capabilities()
	if !caps.IsProfessor && !caps.IsUnidade {
		return conexa.MaterialRequest{}, ErrForbidden
	}
	if err := s.validate.Struct(input); err != nil {
		return conexa.MaterialRequest{}, err
	}

	return s.api.CreateMaterialRequest(ctx, sess.AccessToken, conexa.CreateMaterialRequestInput{
		ClassroomID:   input.ClassroomID,
		Categoria:     input.Categoria,
		Titulo:        input.Titulo,
		Descricao:     input.Descricao,
		Itens:         input.Itens,
		Justificativa: input.Justificativa,
		Urgencia:      input.Urgencia,
	})
}

// RequestView decora a requisição com rótulos e decisões oferecidas.
type RequestView struct {
	conexa.MaterialRequest
	StatusLabel    string                    `json:"statusLabel"`
	CategoriaLabel string                    `json:"categoriaLabel"`
	Decisoes       []conexa.StatusRequisicao `json:"decisoes"`
}

// ListMine lista as requisições da própria solicitante.
func (s *Service) ListMine(ctx context.Context, sess *session.Session) ([]RequestView, error) {
	requests, err := s.api.ListMyMaterialRequests(ctx, sess.AccessToken)
	if err != nil {
		return nil, err
	}
	return s.decorateRequests(sess, requests), nil
}

// ListUnit lista as requisições da unidade para revisão.
func (s *Service) ListUnit(ctx context.Context, sess *session.Session, filter conexa.MaterialRequestFilter) ([]RequestView, error) {
	if !sess.Capabilities().IsUnidade {
		return nil, ErrForbidden
	}
	requests, err := s.api.ListUnitMaterialRequests(ctx, sess.AccessToken, filter)
	if err != nil {
		return nil, err
	}
	return s.decorateRequests(sess, requests), nil
}

// ReviewInput é o payload de revisão de requisição.
type ReviewInput struct {
	Decision   string `json:"decision" validate:"required,oneof=APPROVED REJECTED"`
	Observacao string `json:"observacao"`
}

// Review aprova ou rejeita uma requisição em nome da unidade. O conjunto
// oferecido pela autoridade precisa conter o destino; fora dele a chamada
// nem chega ao backend.
func (s *Service) Review(ctx context.Context, sess *session.Session, id string, input ReviewInput) (conexa.MaterialRequest, error) {
	if err := s.validate.Struct(input); err != nil {
		return conexa.MaterialRequest{}, err
	}

	caps := sess.Capabilities()
	destino := conexa.RequisicaoAprovado
	if input.Decision == "REJECTED" {
		destino = conexa.RequisicaoRejeitado
	}

	offered := false
	for _, next := range NextRequisicao(conexa.RequisicaoSolicitado, caps) {
		if next == destino {
			offered = true
			break
		}
	}
	s.audit.Transition(ctx, sess.UserID(), "material_request", id, string(conexa.RequisicaoSolicitado), string(destino), offered)
	if !offered {
		return conexa.MaterialRequest{}, ErrForbidden
	}

	return s.api.ReviewMaterialRequest(ctx, sess.AccessToken, id, input.Decision, input.Observacao)
}

// ConsolidarInput é o payload da consolidação mensal.
type ConsolidarInput struct {
	MesReferencia string `json:"mesReferencia" validate:"required,len=7"`
	UnitID        string `json:"unitId"`
	Observacoes   string `json:"observacoes"`
}

// Consolidar agrega as requisições aprovadas do mês em um pedido de
// compra da unidade. O upsert por (unidade, mês) é do backend: repetir a
// operação produz o mesmo estado final.
func (s *Service) Consolidar(ctx context.Context, sess *session.Session, input ConsolidarInput) (conexa.ConsolidacaoResult, error) {
	if !sess.Capabilities().IsUnidade {
		return conexa.ConsolidacaoResult{}, ErrForbidden
	}
	if err := s.validate.Struct(input); err != nil {
		return conexa.ConsolidacaoResult{}, err
	}

	return s.api.ConsolidarPedido(ctx, sess.AccessToken, conexa.ConsolidarPedidoInput{
		MesReferencia: input.MesReferencia,
		UnitID:        input.UnitID,
		Observacoes:   input.Observacoes,
	})
}

// PedidoView decora o pedido com rótulo e próximos status oferecidos ao
// ator corrente. Conjunto vazio significa "esconder ações".
type PedidoView struct {
	conexa.PedidoCompra
	StatusLabel    string                `json:"statusLabel"`
	ProximosStatus []conexa.StatusPedido `json:"proximosStatus"`
}

// ListPedidos lista pedidos com as ações oferecidas ao perfil corrente.
func (s *Service) ListPedidos(ctx context.Context, sess *session.Session, filter conexa.PedidoFilter) ([]PedidoView, error) {
	pedidos, err := s.api.ListPedidos(ctx, sess.AccessToken, filter)
	if err != nil {
		return nil, err
	}

	caps := sess.Capabilities()
	views := make([]PedidoView, 0, len(pedidos))
	for _, pedido := range pedidos {
		views = append(views, PedidoView{
			PedidoCompra:   pedido,
			StatusLabel:    StatusPedidoLabel(pedido.Status),
			ProximosStatus: nextOrEmpty(pedido.Status, caps),
		})
	}
	return views, nil
}

// GetPedido busca um pedido decorado pelo ID.
func (s *Service) GetPedido(ctx context.Context, sess *session.Session, id string) (PedidoView, error) {
	pedido, err := s.api.GetPedido(ctx, sess.AccessToken, id)
	if err != nil {
		return PedidoView{}, err
	}
	return PedidoView{
		PedidoCompra:   pedido,
		StatusLabel:    StatusPedidoLabel(pedido.Status),
		ProximosStatus: nextOrEmpty(pedido.Status, sess.Capabilities()),
	}, nil
}

// AtualizarStatusInput é o payload de avanço de status.
type AtualizarStatusInput struct {
	Status      conexa.StatusPedido `json:"status" validate:"required,oneof=RASCUNHO ENVIADO EM_ANALISE COMPRADO EM_ENTREGA ENTREGUE CANCELADO"`
	Observacoes string              `json:"observacoes"`
}

// AtualizarStatus avança o status de um pedido. O status corrente é
// relido do backend e o destino precisa estar no conjunto oferecido.
func (s *Service) AtualizarStatus(ctx context.Context, sess *session.Session, id string, input AtualizarStatusInput) (PedidoView, error) {
	if err := s.validate.Struct(input); err != nil {
		return PedidoView{}, err
	}

	pedido, err := s.api.GetPedido(ctx, sess.AccessToken, id)
	if err != nil {
		return PedidoView{}, err
	}

	caps := sess.Capabilities()
	offered := PodeTransicionar(pedido.Status, caps, input.Status)
	s.audit.Transition(ctx, sess.UserID(), "pedido_compra", id, string(pedido.Status), string(input.Status), offered)
	if !offered {
		return PedidoView{}, ErrTransicaoInvalida
	}

	updated, err := s.api.UpdatePedidoStatus(ctx, sess.AccessToken, id, input.Status, input.Observacoes)
	if err != nil {
		return PedidoView{}, err
	}
	return PedidoView{
		PedidoCompra:   updated,
		StatusLabel:    StatusPedidoLabel(updated.Status),
		ProximosStatus: nextOrEmpty(updated.Status, caps),
	}, nil
}

func (s *Service) decorateRequests(sess *session.Session, requests []conexa.MaterialRequest) []RequestView {
	caps := sess.Capabilities()
	views := make([]RequestView, 0, len(requests))
	for _, request := range requests {
		decisoes := NextRequisicao(request.Status, caps)
		if decisoes == nil {
			decisoes = []conexa.StatusRequisicao{}
		}
		views = append(views, RequestView{
			MaterialRequest: request,
			StatusLabel:     StatusRequisicaoLabel(request.Status),
			CategoriaLabel:  CategoriaLabel(request.Categoria),
			Decisoes:        decisoes,
		})
	}
	return views
}

func nextOrEmpty(status conexa.StatusPedido, caps roles.Capabilities) []conexa.StatusPedido {
	next := NextPedido(status, caps)
	if next == nil {
		return []conexa.StatusPedido{}
	}
	return next
}
