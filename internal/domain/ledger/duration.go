// Package ledger es el motor contable: costo de trabajos por modo, saldos de
// clientes, vencimientos vigilados y totales de caja.
//
// Todas las funciones son puras respecto al árbol de estado que reciben; el
// único insumo variable es "now", que se pasa explícitamente porque la
// duración de un cronómetro abierto depende del instante de evaluación.
// Ninguna función guarda totales: todo se recalcula en cada llamada.
package ledger

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ukena18/Haci-sub000/internal/domain/entity"
)

var (
	minutesPerHour = decimal.NewFromInt(60)
	msPerHour      = decimal.NewFromInt(int64(time.Hour / time.Millisecond))
)

// parseClock convierte "HH:MM" (o "H:MM") en minutos desde medianoche.
func parseClock(s string) (int, bool) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, false
	}
	hh, err := strconv.Atoi(h)
	if err != nil || hh < 0 || hh > 23 {
		return 0, false
	}
	mm, err := strconv.Atoi(m)
	if err != nil || mm < 0 || mm > 59 || len(m) != 2 {
		return 0, false
	}
	return hh*60 + mm, true
}

// spanMinutes minutos entre start y end en el mismo día de referencia.
// Devuelve 0 si falta alguno o el tramo no es positivo: los trabajos que
// cruzan la medianoche no están soportados.
func spanMinutes(start, end string) int {
	s, ok := parseClock(start)
	if !ok {
		return 0
	}
	e, ok := parseClock(end)
	if !ok {
		return 0
	}
	if e <= s {
		return 0
	}
	return e - s
}

// netMinutes minutos trabajados descontando el descanso, con piso en cero.
func netMinutes(start, end string, breakMinutes decimal.Decimal) decimal.Decimal {
	span := decimal.NewFromInt(int64(spanMinutes(start, end)))
	net := span.Sub(breakMinutes)
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}

// DurationHours horas entre dos horarios "HH:MM".
func DurationHours(start, end string) decimal.Decimal {
	return decimal.NewFromInt(int64(spanMinutes(start, end))).Div(minutesPerHour)
}

// DurationWithBreak max(0, DurationHours(start, end) − breakMinutes/60).
func DurationWithBreak(start, end string, breakMinutes decimal.Decimal) decimal.Decimal {
	return netMinutes(start, end, breakMinutes).Div(minutesPerHour)
}

// sessionsElapsed suma las sesiones cerradas más la abierta (now − ClockInAt).
// Tramos no positivos cuentan cero.
func sessionsElapsed(c entity.ClockCosting, now time.Time) time.Duration {
	var total time.Duration
	for _, s := range c.Sessions {
		if s.InAt.IsZero() || s.OutAt.IsZero() {
			continue
		}
		if d := s.OutAt.Sub(s.InAt); d > 0 {
			total += d
		}
	}
	if c.IsRunning && c.ClockInAt != nil {
		if d := now.Sub(*c.ClockInAt); d > 0 {
			total += d
		}
	}
	return total
}

// SessionsHours horas acumuladas del cronómetro. Con una sesión abierta el
// resultado solo es válido en el instante now.
func SessionsHours(c entity.ClockCosting, now time.Time) decimal.Decimal {
	return durationMillis(sessionsElapsed(c, now)).Div(msPerHour)
}

func durationMillis(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d / time.Millisecond))
}
