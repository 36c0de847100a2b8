package audit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Recorder persiste eventos de auditoria (negações de acesso e tentativas
// de transição de documentos) em Postgres. É opcional: sem pool
// configurado todas as operações viram no-ops e o diagnóstico fica apenas
// no log estruturado. Falha de escrita nunca derruba a requisição.
type Recorder struct {
	pool *pgxpool.Pool
}

// NewRecorder cria o gravador. Pool nulo produz um gravador inerte.
func NewRecorder(pool *pgxpool.Pool) *Recorder {
	return &Recorder{pool: pool}
}

// Denial registra uma negação do guard de rotas.
func (r *Recorder) Denial(ctx context.Context, subject, path string, roleSet, required []string) {
	if r == nil || r.pool == nil {
		return
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO auditoria_acessos (subject, path, role_set, required, em)
VALUES ($1, $2, $3, $4, $5)`, subject, path, roleSet, required, time.Now().UTC())
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("auditoria: falha ao registrar negação")
	}
}

// Transition registra uma tentativa de transição de status de documento.
func (r *Recorder) Transition(ctx context.Context, subject, docType, docID, from, to string, offered bool) {
	if r == nil || r.pool == nil {
		return
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO auditoria_transicoes (subject, doc_type, doc_id, de, para, oferecida, em)
VALUES ($1, $2, $3, $4, $5, $6, $7)`, subject, docType, docID, from, to, offered, time.Now().UTC())
	if err != nil {
		log.Warn().Err(err).Str("doc_id", docID).Msg("auditoria: falha ao registrar transição")
	}
}
