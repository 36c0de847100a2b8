package conexa

import (
	"context"
	"net/http"
	"net/url"
)

// CreateMaterialRequestInput é o payload de criação de requisição.
type CreateMaterialRequestInput struct {
	ClassroomID   string                `json:"classroomId,omitempty"`
	Categoria     CategoriaMaterial     `json:"categoria"`
	Titulo        string                `json:"titulo"`
	Descricao     string                `json:"descricao,omitempty"`
	Itens         []MaterialRequestItem `json:"itens"`
	Justificativa string                `json:"justificativa"`
	Urgencia      string                `json:"urgencia"`
}

// CreateMaterialRequest cria uma requisição de material da professora.
func (c *Client) CreateMaterialRequest(ctx context.Context, token string, input CreateMaterialRequestInput) (MaterialRequest, error) {
	var request MaterialRequest
	if err := c.do(ctx, http.MethodPost, "/material-requests", nil, token, input, &request); err != nil {
		return MaterialRequest{}, err
	}
	return request, nil
}

// ListMyMaterialRequests lista as requisições da própria professora.
func (c *Client) ListMyMaterialRequests(ctx context.Context, token string) ([]MaterialRequest, error) {
	var requests []MaterialRequest
	if err := c.do(ctx, http.MethodGet, "/material-requests/minhas", nil, token, nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// MaterialRequestFilter restringe a listagem da unidade.
type MaterialRequestFilter struct {
	Status      StatusRequisicao
	ClassroomID string
	Categoria   CategoriaMaterial
}

// ListUnitMaterialRequests lista todas as requisições da unidade.
func (c *Client) ListUnitMaterialRequests(ctx context.Context, token string, filter MaterialRequestFilter) ([]MaterialRequest, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.ClassroomID != "" {
		query.Set("classroomId", filter.ClassroomID)
	}
	if filter.Categoria != "" {
		query.Set("categoria", string(filter.Categoria))
	}

	var requests []MaterialRequest
	if err := c.do(ctx, http.MethodGet, "/material-requests", query, token, nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// ReviewMaterialRequest aprova ou rejeita uma requisição em nome da unidade.
func (c *Client) ReviewMaterialRequest(ctx context.Context, token, id, decision, observacao string) (MaterialRequest, error) {
	body := map[string]string{"decision": decision}
	if observacao != "" {
		body["observacao"] = observacao
	}

	var request MaterialRequest
	if err := c.do(ctx, http.MethodPatch, "/material-requests/"+id+"/review", nil, token, body, &request); err != nil {
		return MaterialRequest{}, err
	}
	return request, nil
}

// ConsolidarPedidoInput é o payload da consolidação mensal.
type ConsolidarPedidoInput struct {
	MesReferencia string `json:"mesReferencia"`
	UnitID        string `json:"unitId,omitempty"`
	Observacoes   string `json:"observacoes,omitempty"`
}

// ConsolidacaoResult resume o resultado do upsert idempotente do backend.
type ConsolidacaoResult struct {
	PedidoID         string       `json:"pedidoId"`
	MesReferencia    string       `json:"mesReferencia"`
	Status           StatusPedido `json:"status"`
	TotalItens       int          `json:"totalItens"`
	TotalRequisicoes int          `json:"totalRequisicoes"`
	Mensagem         string       `json:"mensagem"`
}

// ConsolidarPedido consolida as requisições aprovadas do mês em um pedido.
// O backend faz upsert por (unidade, mês): repetir a chamada produz o
// mesmo estado final.
func (c *Client) ConsolidarPedido(ctx context.Context, token string, input ConsolidarPedidoInput) (ConsolidacaoResult, error) {
	var result ConsolidacaoResult
	if err := c.do(ctx, http.MethodPost, "/pedidos-compra/consolidar", nil, token, input, &result); err != nil {
		return ConsolidacaoResult{}, err
	}
	return result, nil
}

// PedidoFilter restringe a listagem de pedidos de compra.
type PedidoFilter struct {
	MesReferencia string
	UnitID        string
	Status        StatusPedido
}

// ListPedidos lista pedidos de compra com filtros opcionais.
func (c *Client) ListPedidos(ctx context.Context, token string, filter PedidoFilter) ([]PedidoCompra, error) {
	query := url.Values{}
	if filter.MesReferencia != "" {
		query.Set("mesReferencia", filter.MesReferencia)
	}
	if filter.UnitID != "" {
		query.Set("unitId", filter.UnitID)
	}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}

	var pedidos []PedidoCompra
	if err := c.do(ctx, http.MethodGet, "/pedidos-compra", query, token, nil, &pedidos); err != nil {
		return nil, err
	}
	return pedidos, nil
}

// GetPedido busca um pedido pelo ID.
func (c *Client) GetPedido(ctx context.Context, token, id string) (PedidoCompra, error) {
	var pedido PedidoCompra
	if err := c.do(ctx, http.MethodGet, "/pedidos-compra/"+id, nil, token, nil, &pedido); err != nil {
		return PedidoCompra{}, err
	}
	return pedido, nil
}

// UpdatePedidoStatus atualiza o status de um pedido no backend.
func (c *Client) UpdatePedidoStatus(ctx context.Context, token, id string, status StatusPedido, observacoes string) (PedidoCompra, error) {
	body := map[string]string{"status": string(status)}
	if observacoes != "" {
		body["observacoes"] = observacoes
	}

	var pedido PedidoCompra
	if err := c.do(ctx, http.MethodPatch, "/pedidos-compra/"+id+"/status", nil, token, body, &pedido); err != nil {
		return PedidoCompra{}, err
	}
	return pedido, nil
}
