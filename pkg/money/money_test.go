package money_test

import (
	"strings"
	"testing"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/facturo/pkg/money"
)

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

func TestFormat_SufijoYAgrupacion(t *testing.T) {
	got := money.Format(decimal.NewFromInt(1250000))

	assert.True(t, strings.HasSuffix(got, " XOF"), got)
	assert.Equal(t, "1250000", digits(got))
	// Hay separador de miles: el número formateado es más largo que los dígitos.
	assert.Greater(t, len([]rune(strings.TrimSuffix(got, " XOF"))), 7)
}

func TestFormat_Cero(t *testing.T) {
	assert.Equal(t, "0 XOF", money.Format(decimal.Zero))
}

func TestFormatNumber_Decimales(t *testing.T) {
	got := money.FormatNumber(decimal.RequireFromString("12.5"))
	assert.Equal(t, "125", digits(got))
	assert.Contains(t, got, ",", "el francés usa coma decimal")
}
