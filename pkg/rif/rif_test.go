package rif_test

import (
	"testing"

	"github.com/jhoicas/facturacion-ve/pkg/rif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RIFValidos(t *testing.T) {
	cases := map[string]string{
		"J-31234567-5": "J-31234567-5",
		"j312345675":   "J-31234567-5",
		"J-00006372-9": "J-00006372-9",
		"G 20000041 4": "G-20000041-4",
	}
	for in, want := range cases {
		got, err := rif.Normalize(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
}

func TestParse_DigitoVerificadorIncorrecto(t *testing.T) {
	err := rif.Validate("J-31234567-4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "esperado 5")
}

func TestParse_FormatoInvalido(t *testing.T) {
	for _, in := range []string{"", "X-31234567-5", "J-3123", "J-312345678-90"} {
		assert.Error(t, rif.Validate(in), in)
	}
}

func TestComputeCheckDigit(t *testing.T) {
	dv, err := rif.ComputeCheckDigit('j', "31234567")
	require.NoError(t, err)
	assert.Equal(t, byte('5'), dv)

	dv, err = rif.ComputeCheckDigit('J', "6372")
	require.NoError(t, err)
	assert.Equal(t, byte('9'), dv, "el número se completa con ceros a la izquierda")

	_, err = rif.ComputeCheckDigit('Z', "1")
	assert.Error(t, err)
}
