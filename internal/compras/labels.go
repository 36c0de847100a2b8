package compras

import "github.com/vml-arquivos/font-conexa-v2/internal/conexa"

// Rótulos de exibição em português. Switches exaustivos: status novo sem
// rótulo cai no default e devolve a string crua, visível em revisão.

// StatusRequisicaoLabel mapeia status de requisição para rótulo.
func StatusRequisicaoLabel(status conexa.StatusRequisicao) string {
	switch status {
	case conexa.RequisicaoRascunho:
		return "Rascunho"
	case conexa.RequisicaoSolicitado:
		return "Aguardando Aprovação"
	case conexa.RequisicaoAprovado:
		return "Aprovado"
	case conexa.RequisicaoRejeitado:
		return "Rejeitado"
	case conexa.RequisicaoEntregue:
		return "Entregue"
	case conexa.RequisicaoCancelado:
		return "Cancelado"
	default:
		return string(status)
	}
}

// StatusPedidoLabel mapeia status de pedido de compra para rótulo.
func StatusPedidoLabel(status conexa.StatusPedido) string {
	switch status {
	case conexa.PedidoRascunho:
		return "Rascunho"
	case conexa.PedidoEnviado:
		return "Enviado"
	case conexa.PedidoEmAnalise:
		return "Em Análise"
	case conexa.PedidoComprado:
		return "Comprado"
	case conexa.PedidoEmEntrega:
		return "Em Entrega"
	case conexa.PedidoEntregue:
		return "Entregue"
	case conexa.PedidoCancelado:
		return "Cancelado"
	default:
		return string(status)
	}
}

// CategoriaLabel mapeia categoria de material para rótulo.
func CategoriaLabel(categoria conexa.CategoriaMaterial) string {
	switch categoria {
	case conexa.CategoriaHigiene:
		return "Higiene Pessoal"
	case conexa.CategoriaLimpeza:
		return "Limpeza"
	case conexa.CategoriaAlimentacao:
		return "Alimentação"
	case conexa.CategoriaPedagogico:
		return "Pedagógico"
	case conexa.CategoriaOutro:
		return "Outro"
	default:
		return string(categoria)
	}
}
