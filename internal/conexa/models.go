package conexa

// Modelos de transporte do backend Conexa. Os vocabulários de status são
// enumerações exatas: o backend compara por igualdade de string, então
// nenhum sinônimo pode ser inventado deste lado.

// StatusPlanejamento enumera o ciclo de vida de um planejamento.
type StatusPlanejamento string

const (
	PlanejamentoRascunho   StatusPlanejamento = "RASCUNHO"
	PlanejamentoEmExecucao StatusPlanejamento = "EM_EXECUCAO"
	PlanejamentoEmRevisao  StatusPlanejamento = "EM_REVISAO"
	PlanejamentoArquivado  StatusPlanejamento = "ARQUIVADO"
)

// StatusRequisicao enumera o ciclo de vida de uma requisição de material.
type StatusRequisicao string

const (
	RequisicaoRascunho   StatusRequisicao = "RASCUNHO"
	RequisicaoSolicitado StatusRequisicao = "SOLICITADO"
	RequisicaoAprovado   StatusRequisicao = "APROVADO"
	RequisicaoRejeitado  StatusRequisicao = "REJEITADO"
	RequisicaoEntregue   StatusRequisicao = "ENTREGUE"
	RequisicaoCancelado  StatusRequisicao = "CANCELADO"
)

// StatusPedido enumera o ciclo de vida de um pedido de compra consolidado.
type StatusPedido string

const (
	PedidoRascunho  StatusPedido = "RASCUNHO"
	PedidoEnviado   StatusPedido = "ENVIADO"
	PedidoEmAnalise StatusPedido = "EM_ANALISE"
	PedidoComprado  StatusPedido = "COMPRADO"
	PedidoEmEntrega StatusPedido = "EM_ENTREGA"
	PedidoEntregue  StatusPedido = "ENTREGUE"
	PedidoCancelado StatusPedido = "CANCELADO"
)

// CategoriaMaterial enumera as categorias de requisição de material.
type CategoriaMaterial string

const (
	CategoriaHigiene     CategoriaMaterial = "HIGIENE"
	CategoriaLimpeza     CategoriaMaterial = "LIMPEZA"
	CategoriaAlimentacao CategoriaMaterial = "ALIMENTACAO"
	CategoriaPedagogico  CategoriaMaterial = "PEDAGOGICO"
	CategoriaOutro       CategoriaMaterial = "OUTRO"
)

// Planning representa um planejamento pedagógico de uma turma.
type Planning struct {
	ID                 string             `json:"id"`
	Title              string             `json:"title"`
	Description        string             `json:"description,omitempty"`
	Status             StatusPlanejamento `json:"status"`
	ClassroomID        string             `json:"classroomId"`
	CurriculumMatrixID string             `json:"curriculumMatrixId"`
}

// CurriculumEntry é a entrada da matriz curricular para um dia letivo.
type CurriculumEntry struct {
	ID                 string `json:"id"`
	CurriculumMatrixID string `json:"curriculumMatrixId"`
	Date               string `json:"date"`
	ObjetivoBNCC       string `json:"objetivoBNCC"`
	ObjetivoCurriculo  string `json:"objetivoCurriculo"`
	Intencionalidade   string `json:"intencionalidade"`
	ExemploAtividade   string `json:"exemploAtividade"`
}

// Unit é uma unidade (creche/escola) acessível ao usuário.
type Unit struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Classroom é uma turma acessível ao usuário.
type Classroom struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	UnitID string `json:"unitId,omitempty"`
}

// TeacherSummary é o recorte de professora devolvido pelos lookups.
type TeacherSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	UnitID string `json:"unitId,omitempty"`
}

// MaterialRequestItem é um item de uma requisição de material.
type MaterialRequestItem struct {
	Item       string  `json:"item"`
	Quantidade float64 `json:"quantidade"`
	Unidade    string  `json:"unidade,omitempty"`
}

// MaterialRequest é uma requisição de material de uma professora.
type MaterialRequest struct {
	ID                string                `json:"id"`
	Code              string                `json:"code"`
	Title             string                `json:"title"`
	Description       string                `json:"description,omitempty"`
	Categoria         CategoriaMaterial     `json:"categoria,omitempty"`
	Status            StatusRequisicao      `json:"status"`
	Urgencia          string                `json:"urgencia,omitempty"`
	Justificativa     string                `json:"justificativa,omitempty"`
	Itens             []MaterialRequestItem `json:"itens,omitempty"`
	ClassroomID       string                `json:"classroomId,omitempty"`
	CreatedBy         string                `json:"createdBy"`
	RequestedDate     string                `json:"requestedDate,omitempty"`
	ApprovedBy        string                `json:"approvedBy,omitempty"`
	ApprovedDate      string                `json:"approvedDate,omitempty"`
	ObservacaoRevisao string                `json:"observacaoRevisao,omitempty"`
}

// ItemPedido é uma linha de um pedido de compra consolidado.
type ItemPedido struct {
	ID            string  `json:"id"`
	Categoria     string  `json:"categoria"`
	Descricao     string  `json:"descricao"`
	Quantidade    float64 `json:"quantidade"`
	UnidadeMedida string  `json:"unidadeMedida,omitempty"`
	CustoEstimado float64 `json:"custoEstimado,omitempty"`
}

// PedidoCompra agrega as requisições aprovadas de uma unidade no mês.
type PedidoCompra struct {
	ID             string       `json:"id"`
	MesReferencia  string       `json:"mesReferencia"`
	Status         StatusPedido `json:"status"`
	Observacoes    string       `json:"observacoes,omitempty"`
	ConsolidadoPor string       `json:"consolidadoPor,omitempty"`
	CriadoEm       string       `json:"criadoEm,omitempty"`
	AtualizadoEm   string       `json:"atualizadoEm,omitempty"`
	EnviadoEm      string       `json:"enviadoEm,omitempty"`
	EntregueEm     string       `json:"entregueEm,omitempty"`
	Unit           Unit         `json:"unit"`
	Itens          []ItemPedido `json:"itens"`
}

// DiaryEvent é um registro de diário de turma.
type DiaryEvent struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Date              string `json:"date"`
	Description       string `json:"description,omitempty"`
	PlanningID        string `json:"planningId,omitempty"`
	CurriculumEntryID string `json:"curriculumEntryId,omitempty"`
	ClassroomID       string `json:"classroomId,omitempty"`
}
