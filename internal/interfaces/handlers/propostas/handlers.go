package propostas

import (
	"errors"

	propsvc "consignado-backend/internal/application/propostas"
	"consignado-backend/internal/domain"
	"consignado-backend/internal/pkg/cpf"
	"consignado-backend/internal/pkg/response"
	"consignado-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Service *propsvc.Service
}

type storePropostaRequest struct {
	ClienteNome     string   `json:"cliente_nome" validate:"required,max=255"`
	ClienteCpf      string   `json:"cliente_cpf" validate:"required"`
	ClienteSalario  *float64 `json:"cliente_salario" validate:"required,min=1500"`
	ValorSolicitado *float64 `json:"valor_solicitado" validate:"required,min=1000,max=50000"`
	PrazoMeses      *int     `json:"prazo_meses" validate:"required,min=6,max=60"`
	TaxaJuros       *float64 `json:"taxa_juros" validate:"omitempty,gt=0,lt=100"`
	Status          string   `json:"status" validate:"omitempty,oneof=rascunho em_analise aprovada reprovada cancelada"`
	Observacoes     *string  `json:"observacoes"`
}

type updatePropostaRequest struct {
	ClienteNome     *string  `json:"cliente_nome" validate:"omitempty,max=255"`
	ClienteSalario  *float64 `json:"cliente_salario" validate:"omitempty,min=1500"`
	ValorSolicitado *float64 `json:"valor_solicitado" validate:"omitempty,min=1000,max=50000"`
	PrazoMeses      *int     `json:"prazo_meses" validate:"omitempty,min=6,max=60"`
	TaxaJuros       *float64 `json:"taxa_juros" validate:"omitempty,gt=0,lt=100"`
	Observacoes     *string  `json:"observacoes"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// GET /api/propostas?search=&status=&page=
func (h *Handlers) Index(c *fiber.Ctx) error {
	filters := propsvc.Filters{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}
	page := c.QueryInt("page", 1)
	items, total, err := h.Service.List(c.Context(), filters, page)
	if err != nil {
		return serviceError(c, err)
	}
	lastPage := int(total) / propsvc.PerPage
	if int(total)%propsvc.PerPage != 0 || lastPage == 0 {
		lastPage++
	}
	meta := fiber.Map{
		"current_page": page,
		"per_page":     propsvc.PerPage,
		"total":        total,
		"last_page":    lastPage,
	}
	return response.SuccessWithMeta(c, "Propostas carregadas com sucesso.", domain.Resources(items), meta)
}

// GET /api/propostas/:id
func (h *Handlers) Show(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.Error(c, propsvc.ErrNotFound.Error(), fiber.StatusNotFound, nil)
	}
	p, err := h.Service.Find(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Proposta encontrada.", p.Resource())
}

// POST /api/propostas/create — 201, or 422 on validation/CPF/margin failure.
func (h *Handlers) Store(c *fiber.Ctx) error {
	var req storePropostaRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Corpo da requisição inválido.", fiber.StatusUnprocessableEntity, nil)
	}
	if errs := validation.Validate(req); errs != nil {
		return response.Error(c, "Os dados fornecidos são inválidos.", fiber.StatusUnprocessableEntity, errs)
	}
	in := propsvc.CreatePropostaInput{
		ClienteNome:     req.ClienteNome,
		ClienteCpf:      req.ClienteCpf,
		ClienteSalario:  decimal.NewFromFloat(*req.ClienteSalario),
		ValorSolicitado: decimal.NewFromFloat(*req.ValorSolicitado),
		PrazoMeses:      *req.PrazoMeses,
		Status:          req.Status,
		Observacoes:     req.Observacoes,
	}
	if req.TaxaJuros != nil {
		taxa := decimal.NewFromFloat(*req.TaxaJuros)
		in.TaxaJuros = &taxa
	}
	p, err := h.Service.Create(c.Context(), in)
	if err != nil {
		return serviceError(c, err)
	}
	return response.SuccessCreated(c, "Proposta criada com sucesso!", p.Resource())
}

// PATCH /api/propostas/:id/update — sparse update; derived fields untouched.
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.Error(c, propsvc.ErrNotFound.Error(), fiber.StatusNotFound, nil)
	}
	var req updatePropostaRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Corpo da requisição inválido.", fiber.StatusUnprocessableEntity, nil)
	}
	if errs := validation.Validate(req); errs != nil {
		return response.Error(c, "Os dados fornecidos são inválidos.", fiber.StatusUnprocessableEntity, errs)
	}
	in := propsvc.UpdatePropostaInput{
		ClienteNome: req.ClienteNome,
		PrazoMeses:  req.PrazoMeses,
		Observacoes: req.Observacoes,
	}
	if req.ClienteSalario != nil {
		d := decimal.NewFromFloat(*req.ClienteSalario)
		in.ClienteSalario = &d
	}
	if req.ValorSolicitado != nil {
		d := decimal.NewFromFloat(*req.ValorSolicitado)
		in.ValorSolicitado = &d
	}
	if req.TaxaJuros != nil {
		d := decimal.NewFromFloat(*req.TaxaJuros)
		in.TaxaJuros = &d
	}
	p, err := h.Service.Update(c.Context(), id, in)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Proposta atualizada com sucesso!", p.Resource())
}

// PATCH /api/propostas/:id/status
func (h *Handlers) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.Error(c, propsvc.ErrNotFound.Error(), fiber.StatusNotFound, nil)
	}
	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Corpo da requisição inválido.", fiber.StatusUnprocessableEntity, nil)
	}
	if errs := validation.Validate(req); errs != nil {
		return response.Error(c, "Os dados fornecidos são inválidos.", fiber.StatusUnprocessableEntity, errs)
	}
	p, err := h.Service.UpdateStatus(c.Context(), id, req.Status)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Status atualizado com sucesso!", p.Resource())
}

// DELETE /api/propostas/:id — soft delete.
func (h *Handlers) Destroy(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.Error(c, propsvc.ErrNotFound.Error(), fiber.StatusNotFound, nil)
	}
	if err := h.Service.Delete(c.Context(), id); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Proposta removida com sucesso.", nil)
}

// GET /api/propostas/:id/events — audit trail, newest first.
func (h *Handlers) Events(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.Error(c, propsvc.ErrNotFound.Error(), fiber.StatusNotFound, nil)
	}
	events, err := h.Service.ListEvents(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Eventos carregados com sucesso.", events)
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

// serviceError maps service errors to HTTP codes: NotFound 404, business
// rules 422, everything else a generic 500 (no internal detail leaks).
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, propsvc.ErrNotFound):
		return response.Error(c, err.Error(), fiber.StatusNotFound, nil)
	case errors.Is(err, cpf.ErrInvalid):
		return response.Error(c, "Os dados fornecidos são inválidos.", fiber.StatusUnprocessableEntity,
			map[string][]string{"cliente_cpf": {err.Error()}})
	case errors.Is(err, propsvc.ErrCpfDuplicado):
		return response.Error(c, "Os dados fornecidos são inválidos.", fiber.StatusUnprocessableEntity,
			map[string][]string{"cliente_cpf": {err.Error()}})
	case errors.Is(err, propsvc.ErrMargemExcedida):
		return response.Error(c, err.Error(), fiber.StatusUnprocessableEntity, nil)
	case errors.Is(err, propsvc.ErrStatusInvalido),
		errors.Is(err, propsvc.ErrTransicaoInvalida),
		errors.Is(err, propsvc.ErrAnaliseConflitante):
		return response.Error(c, "Os dados fornecidos são inválidos.", fiber.StatusUnprocessableEntity,
			map[string][]string{"status": {err.Error()}})
	default:
		return response.Error(c, "Erro interno do servidor.", fiber.StatusInternalServerError, nil)
	}
}
