package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jhoicas/facturacion-ve/internal/application/dto"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// columnas: codigo;descripcion;precio;alicuota;exento
const catalogColumns = 5

// readCatalog decodifica un CSV Windows-1252 separado por ';'. La primera fila es encabezado.
// Los precios aceptan coma o punto decimal.
func readCatalog(r io.Reader) ([]dto.CreateProductRequest, error) {
	cr := csv.NewReader(transform.NewReader(r, charmap.Windows1252.NewDecoder()))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []dto.CreateProductRequest
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leer CSV: %w", err)
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "codigo") {
			continue
		}
		if len(rec) < catalogColumns {
			return nil, fmt.Errorf("línea %d: se esperaban %d columnas, hay %d", line, catalogColumns, len(rec))
		}
		p, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func parseRecord(rec []string) (dto.CreateProductRequest, error) {
	price, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[2]), ",", "."))
	if err != nil {
		return dto.CreateProductRequest{}, fmt.Errorf("precio %q inválido", rec[2])
	}
	rate, err := strconv.Atoi(strings.TrimSpace(rec[3]))
	if err != nil {
		return dto.CreateProductRequest{}, fmt.Errorf("alícuota %q inválida", rec[3])
	}
	return dto.CreateProductRequest{
		Code:        strings.TrimSpace(rec[0]),
		Description: strings.TrimSpace(rec[1]),
		Price:       price,
		VATRate:     rate,
		Exempt:      isYes(rec[4]),
	}, nil
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "s", "si", "sí", "true", "x":
		return true
	}
	return false
}
