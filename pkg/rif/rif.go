// Package rif valida y normaliza el Registro de Información Fiscal venezolano (SENIAT).
package rif

import (
	"fmt"
	"strings"
	"unicode"
)

// valor numérico de la letra inicial del RIF.
var letterValues = map[byte]int{
	'V': 1,
	'E': 2,
	'J': 3,
	'P': 4,
	'G': 5,
}

// pesos módulo 11, aplicados a la letra y a los 8 dígitos del número.
var rifWeights = [9]int{4, 3, 2, 7, 6, 5, 4, 3, 2}

// RIF es un registro ya validado.
type RIF struct {
	Letter byte
	Number string // 8 dígitos, con ceros a la izquierda
	Check  byte
}

func (r RIF) String() string {
	return fmt.Sprintf("%c-%s-%c", r.Letter, r.Number, r.Check)
}

// Parse acepta "J-31234567-5", "J312345675" o "j 31234567 5" y verifica el dígito.
func Parse(s string) (RIF, error) {
	letter, digits, err := split(s)
	if err != nil {
		return RIF{}, err
	}
	if len(digits) != 9 {
		return RIF{}, fmt.Errorf("rif: se esperaban 9 dígitos (número + verificador), se encontraron %d", len(digits))
	}
	expected := checkDigit(letter, digits[:8])
	if digits[8] != expected {
		return RIF{}, fmt.Errorf("rif: dígito verificador inválido: esperado %c, recibido %c", expected, digits[8])
	}
	return RIF{Letter: letter, Number: string(digits[:8]), Check: expected}, nil
}

// Validate indica si s es un RIF con dígito verificador correcto.
func Validate(s string) error {
	_, err := Parse(s)
	return err
}

// Normalize devuelve el RIF en formato "L-NNNNNNNN-D".
func Normalize(s string) (string, error) {
	r, err := Parse(s)
	if err != nil {
		return "", err
	}
	return r.String(), nil
}

// ComputeCheckDigit calcula el dígito verificador para una letra y un número de hasta 8 dígitos.
func ComputeCheckDigit(letter byte, number string) (byte, error) {
	letter = byte(unicode.ToUpper(rune(letter)))
	if _, ok := letterValues[letter]; !ok {
		return 0, fmt.Errorf("rif: tipo de contribuyente inválido %q", letter)
	}
	digits := extractDigits(number)
	if len(digits) == 0 || len(digits) > 8 {
		return 0, fmt.Errorf("rif: el número debe tener entre 1 y 8 dígitos, se encontraron %d", len(digits))
	}
	return checkDigit(letter, pad(digits)), nil
}

func split(s string) (byte, []byte, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, nil, fmt.Errorf("rif: vacío")
	}
	letter := s[0]
	if _, ok := letterValues[letter]; !ok {
		return 0, nil, fmt.Errorf("rif: tipo de contribuyente inválido %q", letter)
	}
	return letter, extractDigits(s[1:]), nil
}

func checkDigit(letter byte, number []byte) byte {
	sum := letterValues[letter] * rifWeights[0]
	for i, d := range number {
		sum += int(d-'0') * rifWeights[i+1]
	}
	dv := 11 - sum%11
	if dv > 9 {
		dv = 0
	}
	return byte('0' + dv)
}

func pad(digits []byte) []byte {
	out := make([]byte, 8-len(digits), 8)
	for i := range out {
		out[i] = '0'
	}
	return append(out, digits...)
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}
