package draft

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturo/internal/domain/entity"
)

// Prefijos numéricos aceptados. Como en un campo numérico de formulario,
// se toma el prefijo válido y se ignora el resto ("3 uds" -> 3). Las
// cantidades admiten además el prefijo hexadecimal "0x" ("0x10" -> 16).
var (
	hexPrefix     = regexp.MustCompile(`^[+-]?0[xX][0-9a-fA-F]+`)
	intPrefix     = regexp.MustCompile(`^[+-]?\d+`)
	decimalPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// parseQuantity convierte la entrada cruda en cantidad. Negativos o
// entradas no numéricas valen 0 (clamp-not-reject).
func parseQuantity(raw string) int {
	raw = strings.TrimSpace(raw)
	if m := hexPrefix.FindString(raw); m != "" {
		n, err := strconv.ParseInt(m, 0, strconv.IntSize)
		if err != nil || n < 0 {
			return 0
		}
		return int(n)
	}
	m := intPrefix.FindString(raw)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parseUnitPrice convierte la entrada cruda en precio unitario. Negativos,
// entradas no numéricas o fuera de entity.AmountInRange valen 0 (clamp-not-reject).
func parseUnitPrice(raw string) decimal.Decimal {
	m := decimalPrefix.FindString(strings.TrimSpace(raw))
	if m == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(m, "."))
	if err != nil || !entity.AmountInRange(d) {
		return decimal.Zero
	}
	return d
}
