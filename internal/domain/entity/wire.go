package entity

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ukena18/Haci-sub000/pkg/money"
)

// Códec tolerante del árbol de estado. Los registros llegan capturados a mano
// desde el cliente: fechas como RFC3339, "YYYY-MM-DD" o epoch en milisegundos,
// números como cadenas o vacíos. La decodificación nunca falla por un campo
// mal formado; el valor se descarta (fecha nula, número cero).

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// looseTime decodifica una fecha en cualquiera de los formatos aceptados.
type looseTime struct {
	time.Time
}

func (t *looseTime) UnmarshalJSON(data []byte) error {
	t.Time = time.Time{}
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil
	}
	switch v := raw.(type) {
	case json.Number:
		ms := money.ToNumber(v).IntPart()
		if ms > 0 {
			t.Time = time.UnixMilli(ms).UTC()
		}
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				t.Time = parsed
				return nil
			}
		}
	}
	return nil
}

func (t looseTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func newLooseTime(t *time.Time) *looseTime {
	if t == nil || t.IsZero() {
		return nil
	}
	return &looseTime{Time: *t}
}

func (t *looseTime) ptr() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

func (t *looseTime) value() time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.Time
}

// looseInt decodifica un entero opcional; "" o basura equivalen a ausente.
type looseInt struct {
	v  int
	ok bool
}

func (n *looseInt) UnmarshalJSON(data []byte) error {
	n.v, n.ok = 0, false
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil
	}
	switch v := raw.(type) {
	case json.Number:
		n.v, n.ok = int(money.ToNumber(v).IntPart()), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		if d, err := decimal.NewFromString(s); err == nil {
			n.v, n.ok = int(d.IntPart()), true
		}
	}
	return nil
}

func (n looseInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.v)
}

func newLooseInt(v *int) *looseInt {
	if v == nil {
		return nil
	}
	return &looseInt{v: *v, ok: true}
}

func (n *looseInt) ptr() *int {
	if n == nil || !n.ok {
		return nil
	}
	v := n.v
	return &v
}

func newNumber(d decimal.Decimal) *money.Number {
	n := money.NewNumber(d)
	return &n
}

func numberOrZero(n *money.Number) decimal.Decimal {
	if n == nil {
		return decimal.Zero
	}
	return n.Decimal
}

func numberPtr(n *money.Number) *decimal.Decimal {
	if n == nil {
		return nil
	}
	d := n.Decimal
	return &d
}

func numberFromPtr(d *decimal.Decimal) *money.Number {
	if d == nil {
		return nil
	}
	return newNumber(*d)
}

// trackedOrDefault: ausente equivale a seguimiento activo.
func trackedOrDefault(b *bool) bool {
	if b == nil {
		return true
	}
	return *b
}
