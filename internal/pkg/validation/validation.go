package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their json name so error keys match the wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// messages maps "<json field>.<tag>" to the legacy validation messages.
var messages = map[string]string{
	"cliente_salario.min":  "O salário deve ser no mínimo R$ 1.500,00",
	"valor_solicitado.min": "Valor mínimo R$ 1.000,00",
	"valor_solicitado.max": "Valor máximo R$ 50.000,00",
	"prazo_meses.min":      "Prazo mínimo 6 meses",
	"prazo_meses.max":      "Prazo máximo 60 meses",
}

// Validate checks req's validate tags and returns per-field messages keyed
// by json field name; nil when the struct is valid.
func Validate(req interface{}) map[string][]string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string][]string{"request": {"Corpo da requisição inválido."}}
	}
	out := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = append(out[fe.Field()], messageFor(fe))
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("O campo %s é obrigatório.", fe.Field())
	case "max":
		return fmt.Sprintf("O campo %s excede o máximo de %s.", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("O campo %s deve ser um de: %s.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("O campo %s é inválido.", fe.Field())
	}
}
