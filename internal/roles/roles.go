package roles

import "strings"

// Tokens canônicos reconhecidos pelo Conexa. O vocabulário é aberto:
// qualquer token em caixa alta pode aparecer, e variantes como
// UNIDADE_DIRETORA pertencem ao grupo UNIDADE pela regra de prefixo.
const (
	Professor    = "PROFESSOR"
	Unidade      = "UNIDADE"
	StaffCentral = "STAFF_CENTRAL"
	Mantenedora  = "MANTENEDORA"
	Developer    = "DEVELOPER"
)

// Normalize extrai os papéis de um registro de usuário de formato frouxo.
// Aceita, nesta ordem de precedência:
//   - user.roles como lista de strings
//   - user.roles como lista de objetos (campo level, fallback roleId)
//   - user.user.roles nos mesmos formatos (sessão embrulhando perfil)
//
// Entrada malformada nunca gera erro: degrada para lista vazia, que o
// restante do sistema trata como negação por padrão.
func Normalize(user any) []string {
	record, ok := user.(map[string]any)
	if !ok {
		return nil
	}

	raw, ok := record["roles"].([]any)
	if !ok || len(raw) == 0 {
		nested, ok := record["user"].(map[string]any)
		if !ok {
			return nil
		}
		raw, ok = nested["roles"].([]any)
		if !ok {
			return nil
		}
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		switch v := item.(type) {
		case string:
			if token := canonical(v); token != "" {
				out = append(out, token)
			}
		case map[string]any:
			level, _ := v["level"].(string)
			if level == "" {
				level, _ = v["roleId"].(string)
			}
			if token := canonical(level); token != "" {
				out = append(out, token)
			}
		}
	}
	return out
}

// NormalizeStrings aplica a mesma canonicalização a uma lista já tipada,
// como a claim roles de um JWT.
func NormalizeStrings(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if token := canonical(item); token != "" {
			out = append(out, token)
		}
	}
	return out
}

// BelongsToGroup verifica pertencimento pelo prefixo delimitado por "_".
// UNIDADE_DIRETORA pertence a UNIDADE; UNIDADEX não.
func BelongsToGroup(token, group string) bool {
	if token == group {
		return true
	}
	return strings.HasPrefix(token, group+"_")
}

// HasGroup verifica se algum token do conjunto pertence ao grupo.
func HasGroup(set []string, group string) bool {
	for _, token := range set {
		if BelongsToGroup(token, group) {
			return true
		}
	}
	return false
}

// HasToken verifica presença exata de um token.
func HasToken(set []string, token string) bool {
	for _, t := range set {
		if t == token {
			return true
		}
	}
	return false
}

func canonical(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
