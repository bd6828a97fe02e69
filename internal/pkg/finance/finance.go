package finance

import "github.com/shopspring/decimal"

// PercentualMargem is the share of the client salary available for
// installment payments (30%).
var PercentualMargem = decimal.NewFromFloat(0.30)

var (
	um  = decimal.NewFromInt(1)
	cem = decimal.NewFromInt(100)
)

// Parcela computes the fixed monthly installment (PMT) that repays principal
// over meses months at taxaPercent per month (e.g. 2.5 means 2.5% a.m.).
// Result is rounded half-up to 2 decimal places. A zero rate degenerates to
// simple division.
func Parcela(principal, taxaPercent decimal.Decimal, meses int) decimal.Decimal {
	n := decimal.NewFromInt(int64(meses))
	r := taxaPercent.Div(cem)
	if r.IsZero() {
		return principal.DivRound(n, 2)
	}
	fator := um.Add(r).Pow(n)
	return principal.Mul(r).Mul(fator).DivRound(fator.Sub(um), 2)
}

// Margem returns the available consignable margin: salario x 30%, rounded
// half-up to 2 decimal places.
func Margem(salario decimal.Decimal) decimal.Decimal {
	return salario.Mul(PercentualMargem).Round(2)
}

// Total returns the full repayment amount: parcela x meses, rounded half-up
// to 2 decimal places.
func Total(parcela decimal.Decimal, meses int) decimal.Decimal {
	return parcela.Mul(decimal.NewFromInt(int64(meses))).Round(2)
}
