package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ukena18/Haci-sub000/internal/domain/entity"
)

// JobCost resultado del costeo de un trabajo en un instante.
type JobCost struct {
	Mode        entity.TimeMode
	Hours       decimal.Decimal // sin sentido para precio cerrado (HasDuration=false)
	HasDuration bool
	Labor       decimal.Decimal // mano de obra o precio cerrado
	Parts       decimal.Decimal
	Total       decimal.Decimal
	Live        bool // cronómetro abierto: el total cambia con el tiempo
}

// PartTotal importe de una línea de repuesto.
// Con UnitPrice: Qty (1 si falta) × UnitPrice. Registros antiguos sin
// UnitPrice usan Price como importe plano.
func PartTotal(p entity.Part) decimal.Decimal {
	if p.UnitPrice == nil {
		return p.Price
	}
	qty := decimal.NewFromInt(1)
	if p.Qty != nil {
		qty = *p.Qty
	}
	return qty.Mul(*p.UnitPrice)
}

// PartsTotal Σ PartTotal; sin repuestos es 0.
func PartsTotal(parts []entity.Part) decimal.Decimal {
	total := decimal.Zero
	for _, p := range parts {
		total = total.Add(PartTotal(p))
	}
	return total
}

// JobLabor mano de obra (manual/cronómetro) o precio cerrado.
func JobLabor(job entity.Job, now time.Time) decimal.Decimal {
	switch c := job.Costing.(type) {
	case entity.ManualCosting:
		return c.Rate.Mul(netMinutes(c.Start, c.End, c.BreakMinutes)).Div(minutesPerHour)
	case entity.ClockCosting:
		return c.Rate.Mul(durationMillis(sessionsElapsed(c, now))).Div(msPerHour)
	case entity.FixedCosting:
		return c.FixedPrice
	default:
		return decimal.Zero
	}
}

// JobDurationHours horas del trabajo; ok=false en precio cerrado, donde la
// duración no se muestra.
func JobDurationHours(job entity.Job, now time.Time) (decimal.Decimal, bool) {
	switch c := job.Costing.(type) {
	case entity.ManualCosting:
		return DurationWithBreak(c.Start, c.End, c.BreakMinutes), true
	case entity.ClockCosting:
		return SessionsHours(c, now), true
	default:
		return decimal.Zero, false
	}
}

// JobTotal mano de obra (o precio cerrado) + repuestos, redondeado a centavos.
func JobTotal(job entity.Job, now time.Time) decimal.Decimal {
	return JobLabor(job, now).Add(PartsTotal(job.Parts)).Round(2)
}

// ResolveJob agrupa el costeo completo de un trabajo.
func ResolveJob(job entity.Job, now time.Time) JobCost {
	hours, hasDuration := JobDurationHours(job, now)
	labor := JobLabor(job, now)
	parts := PartsTotal(job.Parts)
	live := false
	if c, ok := job.Costing.(entity.ClockCosting); ok {
		live = c.IsRunning && c.ClockInAt != nil
	}
	return JobCost{
		Mode:        job.Mode(),
		Hours:       hours,
		HasDuration: hasDuration,
		Labor:       labor.Round(2),
		Parts:       parts.Round(2),
		Total:       labor.Add(parts).Round(2),
		Live:        live,
	}
}
