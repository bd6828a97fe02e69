package propostas

import "errors"

// Business-rule errors. Messages are the legacy API messages and are safe to
// send to the client; anything else is reported as a generic 500.
var (
	ErrNotFound           = errors.New("Proposta não encontrada.")
	ErrStatusInvalido     = errors.New("Status inválido.")
	ErrTransicaoInvalida  = errors.New(`Não é possível retornar para "em análise".`)
	ErrAnaliseConflitante = errors.New("Já existe outra proposta em análise para este cliente.")
	ErrMargemExcedida     = errors.New("A parcela excede a margem disponível do cliente.")
	ErrCpfDuplicado       = errors.New("Já existe uma proposta ativa para este CPF.")
)
