package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Proposal status values (legacy API enum, kept in Portuguese on the wire).
const (
	StatusRascunho  = "rascunho"
	StatusEmAnalise = "em_analise"
	StatusAprovada  = "aprovada"
	StatusReprovada = "reprovada"
	StatusCancelada = "cancelada"
)

// Statuses lists every valid proposal status.
var Statuses = []string{StatusRascunho, StatusEmAnalise, StatusAprovada, StatusReprovada, StatusCancelada}

// IsValidStatus reports whether s is one of the five proposal statuses.
func IsValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Proposta is a crédito consignado proposal. Column and JSON names match the
// legacy API. Soft deleted rows (deleted_at set) are excluded from all
// queries by gorm.DeletedAt.
type Proposta struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ClienteNome      string          `gorm:"column:cliente_nome;size:255;not null" json:"cliente_nome"`
	ClienteCpf       string          `gorm:"column:cliente_cpf;size:14;index;not null" json:"cliente_cpf"`
	ClienteSalario   decimal.Decimal `gorm:"column:cliente_salario;type:decimal(12,2);not null" json:"cliente_salario"`
	ValorSolicitado  decimal.Decimal `gorm:"column:valor_solicitado;type:decimal(12,2);not null" json:"valor_solicitado"`
	PrazoMeses       int             `gorm:"column:prazo_meses;not null" json:"prazo_meses"`
	TaxaJuros        decimal.Decimal `gorm:"column:taxa_juros;type:decimal(8,4);not null" json:"taxa_juros"`
	ValorParcela     decimal.Decimal `gorm:"column:valor_parcela;type:decimal(12,2);not null" json:"valor_parcela"`
	ValorTotal       decimal.Decimal `gorm:"column:valor_total;type:decimal(12,2);not null" json:"valor_total"`
	MargemDisponivel decimal.Decimal `gorm:"column:margem_disponivel;type:decimal(12,2);not null" json:"margem_disponivel"`
	Status           string          `gorm:"column:status;type:varchar(20);default:'rascunho'" json:"status"`
	Observacoes      *string         `gorm:"column:observacoes;type:text" json:"observacoes"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Proposta) TableName() string {
	return "propostas"
}

// BeforeCreate sets the id if not already set (DBs without default uuid).
func (p *Proposta) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PropostaResource is the wire shape of a proposal: monetary amounts as
// fixed 2-decimal strings, same as the legacy API resource.
type PropostaResource struct {
	ID               uuid.UUID `json:"id"`
	ClienteNome      string    `json:"cliente_nome"`
	ClienteCpf       string    `json:"cliente_cpf"`
	ClienteSalario   string    `json:"cliente_salario"`
	ValorSolicitado  string    `json:"valor_solicitado"`
	PrazoMeses       int       `json:"prazo_meses"`
	TaxaJuros        string    `json:"taxa_juros"`
	ValorParcela     string    `json:"valor_parcela"`
	ValorTotal       string    `json:"valor_total"`
	MargemDisponivel string    `json:"margem_disponivel"`
	Status           string    `json:"status"`
	Observacoes      *string   `json:"observacoes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Resource converts a Proposta to its API representation.
func (p *Proposta) Resource() PropostaResource {
	return PropostaResource{
		ID:               p.ID,
		ClienteNome:      p.ClienteNome,
		ClienteCpf:       p.ClienteCpf,
		ClienteSalario:   p.ClienteSalario.StringFixed(2),
		ValorSolicitado:  p.ValorSolicitado.StringFixed(2),
		PrazoMeses:       p.PrazoMeses,
		TaxaJuros:        p.TaxaJuros.StringFixed(2),
		ValorParcela:     p.ValorParcela.StringFixed(2),
		ValorTotal:       p.ValorTotal.StringFixed(2),
		MargemDisponivel: p.MargemDisponivel.StringFixed(2),
		Status:           p.Status,
		Observacoes:      p.Observacoes,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// Resources converts a slice of proposals for list responses.
func Resources(items []Proposta) []PropostaResource {
	out := make([]PropostaResource, 0, len(items))
	for i := range items {
		out = append(out, items[i].Resource())
	}
	return out
}
