package store

import "time"

// Message is one turn of a conversation. Append-only; replayed in ascending
// timestamp order when a prompt is assembled.
type Message struct {
	SessionID string
	Role      string // "user" or "assistant"
	Content   string
	Timestamp time.Time
}

// Lead is the qualification record accumulated for one session. All
// attribute columns start empty and are filled in as the conversation
// surfaces them.
type Lead struct {
	SessionID         string
	Nome              string
	Empresa           string
	Segmento          string
	Problema          string
	InvestimentoAtual string
	Telefone          string
	Email             string
	Qualificado       bool
	ConversaCompleta  string
	CreatedAt         time.Time
}

// LeadRow is a Lead joined with its message count, as listed on the admin
// dashboard.
type LeadRow struct {
	Lead
	TotalMensagens int
}

// LeadUpdate is a partial update against a Lead. Only non-nil fields are
// written; the field set doubles as the update allow-list, checked at
// compile time.
type LeadUpdate struct {
	Nome              *string
	Empresa           *string
	Segmento          *string
	Problema          *string
	InvestimentoAtual *string
	Telefone          *string
	Email             *string
	Qualificado       *bool
	ConversaCompleta  *string
}

// fields returns the column names and values of the set fields, in schema
// order.
func (u LeadUpdate) fields() ([]string, []any) {
	var cols []string
	var args []any
	set := func(col string, v any) {
		cols = append(cols, col)
		args = append(args, v)
	}
	if u.Nome != nil {
		set("nome", *u.Nome)
	}
	if u.Empresa != nil {
		set("empresa", *u.Empresa)
	}
	if u.Segmento != nil {
		set("segmento", *u.Segmento)
	}
	if u.Problema != nil {
		set("problema", *u.Problema)
	}
	if u.InvestimentoAtual != nil {
		set("investimento_atual", *u.InvestimentoAtual)
	}
	if u.Telefone != nil {
		set("telefone", *u.Telefone)
	}
	if u.Email != nil {
		set("email", *u.Email)
	}
	if u.Qualificado != nil {
		set("qualificado", *u.Qualificado)
	}
	if u.ConversaCompleta != nil {
		set("conversa_completa", *u.ConversaCompleta)
	}
	return cols, args
}

// Stats are the aggregate lead counters shown on the health endpoint and the
// admin dashboard.
type Stats struct {
	TotalLeads        int     `json:"total_leads"`
	LeadsQualificados int     `json:"leads_qualificados"`
	LeadsComNome      int     `json:"leads_com_nome"`
	LeadsComEmail     int     `json:"leads_com_email"`
	TaxaQualificacao  float64 `json:"taxa_qualificacao"`
}
