// Package money agrupa las primitivas numéricas y de formato monetario del motor
// contable: coerción segura de valores capturados por el usuario y
// representación con el símbolo de la moneda.
package money

import (
	"bytes"
	"encoding/json"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ToNumber convierte cualquier valor a un decimal finito.
// Valores vacíos, nulos, booleanos, NaN, infinitos o no numéricos devuelven 0; nunca entra en pánico.
func ToNumber(v any) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return n
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero
		}
		return *n
	case Number:
		return n.Decimal
	case int:
		return decimal.NewFromInt(int64(n))
	case int8:
		return decimal.NewFromInt(int64(n))
	case int16:
		return decimal.NewFromInt(int64(n))
	case int32:
		return decimal.NewFromInt32(n)
	case int64:
		return decimal.NewFromInt(n)
	case uint:
		return fromUint(uint64(n))
	case uint8:
		return fromUint(uint64(n))
	case uint16:
		return fromUint(uint64(n))
	case uint32:
		return fromUint(uint64(n))
	case uint64:
		return fromUint(n)
	case float32:
		return fromFloat(float64(n))
	case float64:
		return fromFloat(n)
	case json.Number:
		return parseString(n.String())
	case string:
		return parseString(n)
	default:
		return decimal.Zero
	}
}

// fromUint sin pasar por int64: uint64 grandes no se desbordan.
func fromUint(u uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0)
}

func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// parseString acepta "12.5", " 12.5 ", "12,5" (coma decimal si no hay punto).
func parseString(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Number es un decimal con decodificación JSON tolerante: acepta números,
// cadenas, null o basura y los normaliza con ToNumber.
type Number struct {
	decimal.Decimal
}

// NewNumber envuelve un decimal.
func NewNumber(d decimal.Decimal) Number { return Number{Decimal: d} }

// UnmarshalJSON implementa json.Unmarshaler sin devolver error por valores inválidos.
func (n *Number) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		n.Decimal = decimal.Zero
		return nil
	}
	n.Decimal = ToNumber(raw)
	return nil
}

// MarshalJSON emite el valor como número JSON.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}
