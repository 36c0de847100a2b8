package compras

import (
	"github.com/vml-arquivos/font-conexa-v2/internal/conexa"
	"github.com/vml-arquivos/font-conexa-v2/internal/roles"
)

// Autoridade de transição: funções puras e totais que computam os
// próximos status *oferecidos* pela interface para cada combinação de
// documento, status corrente e papel do ator. A checagem autoritativa é
// do backend; este recorte existe para nunca oferecer uma ação que será
// previsivelmente recusada. Combinação indefinida devolve conjunto vazio,
// nunca erro: o chamador esconde a ação.

// NextRequisicao computa as decisões legais sobre uma requisição de
// material. Apenas revisores de unidade agem, e apenas sobre SOLICITADO.
// A retirada pela própria solicitante não passa por esta camada.
func NextRequisicao(status conexa.StatusRequisicao, caps roles.Capabilities) []conexa.StatusRequisicao {
	if !caps.IsUnidade {
		return nil
	}
	switch status {
	case conexa.RequisicaoSolicitado:
		return []conexa.StatusRequisicao{conexa.RequisicaoAprovado, conexa.RequisicaoRejeitado}
	default:
		return nil
	}
}

// NextPedido computa os próximos status legais de um pedido de compra
// para o ator. A unidade só age sobre o próprio rascunho; o restante do
// fluxo pertence à mantenedora (DEVELOPER opera com a mesma alçada).
func NextPedido(status conexa.StatusPedido, caps roles.Capabilities) []conexa.StatusPedido {
	var out []conexa.StatusPedido

	if caps.IsUnidade && status == conexa.PedidoRascunho {
		out = append(out, conexa.PedidoEnviado, conexa.PedidoCancelado)
	}

	if caps.IsMantenedora || caps.IsDeveloper {
		switch status {
		case conexa.PedidoEnviado:
			out = append(out, conexa.PedidoEmAnalise, conexa.PedidoCancelado)
		case conexa.PedidoEmAnalise:
			out = append(out, conexa.PedidoComprado, conexa.PedidoCancelado)
		case conexa.PedidoComprado:
			out = append(out, conexa.PedidoEmEntrega)
		case conexa.PedidoEmEntrega:
			out = append(out, conexa.PedidoEntregue)
		}
	}

	return out
}

// PodeTransicionar informa se o destino está entre os status oferecidos.
func PodeTransicionar(status conexa.StatusPedido, caps roles.Capabilities, destino conexa.StatusPedido) bool {
	for _, next := range NextPedido(status, caps) {
		if next == destino {
			return true
		}
	}
	return false
}
