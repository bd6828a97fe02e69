package cpf

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalid is returned for any CPF that fails normalization or checksum.
var ErrInvalid = errors.New("O CPF informado é inválido.")

var nonDigits = regexp.MustCompile(`\D`)

// Normalize strips every non-digit character from a raw CPF
// (e.g. "123.456.789-09" -> "12345678909").
func Normalize(raw string) string {
	return nonDigits.ReplaceAllString(raw, "")
}

// Validate normalizes raw and verifies the CPF structure: 11 digits, not a
// repeated sequence, and both weighted mod-11 check digits correct.
// Returns the normalized CPF on success.
func Validate(raw string) (string, error) {
	c := Normalize(raw)
	if len(c) != 11 {
		return "", ErrInvalid
	}
	if strings.Count(c, string(c[0])) == 11 {
		return "", ErrInvalid
	}
	for t := 9; t < 11; t++ {
		sum := 0
		for i := 0; i < t; i++ {
			sum += int(c[i]-'0') * (t + 1 - i)
		}
		d := ((10 * sum) % 11) % 10
		if int(c[t]-'0') != d {
			return "", ErrInvalid
		}
	}
	return c, nil
}
