package propostas

import (
	"context"

	"consignado-backend/internal/domain"
	"consignado-backend/internal/pkg/cpf"
	"consignado-backend/internal/pkg/finance"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service orchestrates proposal lifecycle rules (CPF validation, financial
// calculation, state machine) on top of the Store.
type Service struct {
	Store *Store
	// TaxaPadrao is the interest rate (% a.m.) applied when a proposal does
	// not supply one. Comes from config (TAXA_JUROS_PADRAO).
	TaxaPadrao decimal.Decimal
}

type CreatePropostaInput struct {
	ClienteNome     string
	ClienteCpf      string
	ClienteSalario  decimal.Decimal
	ValorSolicitado decimal.Decimal
	PrazoMeses      int
	TaxaJuros       *decimal.Decimal
	Status          string
	Observacoes     *string
}

// Create validates the CPF, enforces CPF uniqueness among active proposals,
// computes the derived amounts and persists the proposal. Nothing is
// persisted when the installment exceeds the client margin.
func (s *Service) Create(ctx context.Context, in CreatePropostaInput) (*domain.Proposta, error) {
	cpfNorm, err := cpf.Validate(in.ClienteCpf)
	if err != nil {
		return nil, err
	}
	exists, err := s.Store.HasActiveCPF(ctx, cpfNorm, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCpfDuplicado
	}

	status := in.Status
	if status == "" {
		status = domain.StatusRascunho
	}
	if !domain.IsValidStatus(status) {
		return nil, ErrStatusInvalido
	}

	taxa := s.TaxaPadrao
	if in.TaxaJuros != nil {
		taxa = *in.TaxaJuros
	}
	margem := finance.Margem(in.ClienteSalario)
	parcela := finance.Parcela(in.ValorSolicitado, taxa, in.PrazoMeses)
	total := finance.Total(parcela, in.PrazoMeses)

	if parcela.GreaterThan(margem) {
		return nil, ErrMargemExcedida
	}

	p := &domain.Proposta{
		ClienteNome:      in.ClienteNome,
		ClienteCpf:       cpfNorm,
		ClienteSalario:   in.ClienteSalario,
		ValorSolicitado:  in.ValorSolicitado,
		PrazoMeses:       in.PrazoMeses,
		TaxaJuros:        taxa,
		ValorParcela:     parcela,
		ValorTotal:       total,
		MargemDisponivel: margem,
		Status:           status,
		Observacoes:      in.Observacoes,
	}
	if err := s.Store.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

type UpdatePropostaInput struct {
	ClienteNome     *string
	ClienteSalario  *decimal.Decimal
	ValorSolicitado *decimal.Decimal
	PrazoMeses      *int
	TaxaJuros       *decimal.Decimal
	Observacoes     *string
}

// Update applies only the supplied fields. Derived amounts (parcela, total,
// margem) are NOT recomputed here; only Create and the status flow write
// them. Status changes go through UpdateStatus.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdatePropostaInput) (*domain.Proposta, error) {
	updates := map[string]interface{}{}
	if in.ClienteNome != nil {
		updates["cliente_nome"] = *in.ClienteNome
	}
	if in.ClienteSalario != nil {
		updates["cliente_salario"] = *in.ClienteSalario
	}
	if in.ValorSolicitado != nil {
		updates["valor_solicitado"] = *in.ValorSolicitado
	}
	if in.PrazoMeses != nil {
		updates["prazo_meses"] = *in.PrazoMeses
	}
	if in.TaxaJuros != nil {
		updates["taxa_juros"] = *in.TaxaJuros
	}
	if in.Observacoes != nil {
		updates["observacoes"] = *in.Observacoes
	}
	if len(updates) == 0 {
		return s.Store.Find(ctx, id)
	}
	return s.Store.Update(ctx, id, updates)
}

// UpdateStatus applies the state machine:
//   - cancelada is reachable from any status;
//   - em_analise is blocked from aprovada/reprovada and requires that no
//     other active proposal for the same CPF is already em_analise;
//   - every other transition is allowed.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, novo string) (*domain.Proposta, error) {
	if !domain.IsValidStatus(novo) {
		return nil, ErrStatusInvalido
	}
	return s.Store.UpdateStatus(ctx, id, novo, func(tx *gorm.DB, atual *domain.Proposta) error {
		if novo != domain.StatusEmAnalise {
			return nil
		}
		if atual.Status == domain.StatusAprovada || atual.Status == domain.StatusReprovada {
			return ErrTransicaoInvalida
		}
		var count int64
		err := tx.Model(&domain.Proposta{}).
			Where("cliente_cpf = ? AND status = ? AND id <> ?", atual.ClienteCpf, domain.StatusEmAnalise, atual.ID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrAnaliseConflitante
		}
		return nil
	})
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.Store.Delete(ctx, id)
}

func (s *Service) Find(ctx context.Context, id uuid.UUID) (*domain.Proposta, error) {
	return s.Store.Find(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filters, page int) ([]domain.Proposta, int64, error) {
	return s.Store.List(ctx, f, page)
}

// ListEvents returns the audit trail of a proposal, newest first. Fails with
// ErrNotFound when the proposal is missing or deleted.
func (s *Service) ListEvents(ctx context.Context, id uuid.UUID) ([]domain.PropostaEvent, error) {
	if _, err := s.Store.Find(ctx, id); err != nil {
		return nil, err
	}
	return s.Store.ListEvents(ctx, id)
}
