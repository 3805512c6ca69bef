package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ukena18/Haci-sub000/pkg/money"
)

// TimeMode base de costo de un trabajo (mutuamente excluyentes).
type TimeMode string

const (
	TimeModeManual TimeMode = "manual" // hora inicio/fin manual con descanso
	TimeModeClock  TimeMode = "clock"  // sesiones de cronómetro
	TimeModeFixed  TimeMode = "fixed"  // precio cerrado
)

// Costing es la unión cerrada de modos de costo. Solo ManualCosting,
// ClockCosting y FixedCosting la implementan; cada una trae únicamente
// los campos que su modo usa.
type Costing interface {
	Mode() TimeMode
	costing()
}

// ManualCosting trabajo con horario "HH:MM" en un mismo día.
type ManualCosting struct {
	Start        string
	End          string
	BreakMinutes decimal.Decimal
	Rate         decimal.Decimal // tarifa por hora
}

// Session tramo cerrado de cronómetro.
type Session struct {
	InAt  time.Time
	OutAt time.Time
}

// ClockCosting trabajo medido con cronómetro. Si IsRunning, la sesión abierta
// empieza en ClockInAt y aún no tiene salida.
type ClockCosting struct {
	Sessions  []Session
	IsRunning bool
	ClockInAt *time.Time
	Rate      decimal.Decimal
}

// FixedCosting trabajo a precio cerrado; el rango planificado es solo informativo.
type FixedCosting struct {
	FixedPrice   decimal.Decimal
	PlannedStart *time.Time
	PlannedEnd   *time.Time
}

func (ManualCosting) Mode() TimeMode { return TimeModeManual }
func (ClockCosting) Mode() TimeMode  { return TimeModeClock }
func (FixedCosting) Mode() TimeMode  { return TimeModeFixed }

func (ManualCosting) costing() {}
func (ClockCosting) costing()  {}
func (FixedCosting) costing()  {}

// Part repuesto o material facturado en un trabajo.
// Registros antiguos solo traen Price (importe plano) sin Qty/UnitPrice.
type Part struct {
	Name      string           `json:"name,omitempty"`
	Qty       *decimal.Decimal `json:"qty,omitempty"`
	UnitPrice *decimal.Decimal `json:"unitPrice,omitempty"`
	Price     decimal.Decimal  `json:"price,omitempty"`
}

type partWire struct {
	Name      string        `json:"name,omitempty"`
	Qty       *money.Number `json:"qty,omitempty"`
	UnitPrice *money.Number `json:"unitPrice,omitempty"`
	Price     *money.Number `json:"price,omitempty"`
}

// UnmarshalJSON decodifica cantidades y precios de forma tolerante.
func (p *Part) UnmarshalJSON(data []byte) error {
	var w partWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = Part{
		Name:      w.Name,
		Qty:       numberPtr(w.Qty),
		UnitPrice: numberPtr(w.UnitPrice),
		Price:     numberOrZero(w.Price),
	}
	return nil
}

// MarshalJSON emite los importes como números.
func (p Part) MarshalJSON() ([]byte, error) {
	w := partWire{
		Name:      p.Name,
		Qty:       numberFromPtr(p.Qty),
		UnitPrice: numberFromPtr(p.UnitPrice),
	}
	if p.UnitPrice == nil || !p.Price.IsZero() {
		w.Price = newNumber(p.Price)
	}
	return json.Marshal(w)
}

// Job unidad de trabajo facturable de un cliente.
// La moneda se hereda del cliente; nunca se guarda en el trabajo.
type Job struct {
	ID           string
	CustomerID   string
	Title        string
	Notes        string
	Date         *time.Time
	Costing      Costing
	Parts        []Part
	IsCompleted  bool
	CompletedAt  *time.Time
	IsPaid       bool
	PaidAt       *time.Time
	DueDays      *int       // plazo de pago en días naturales
	DueDate      *time.Time // vencimiento explícito; prevalece sobre DueDays
	TrackPayment bool
	DueDismissed bool
	CreatedAt    time.Time
}

// Mode devuelve el modo de costo; sin costing se considera precio cerrado en cero.
func (j Job) Mode() TimeMode {
	if j.Costing == nil {
		return TimeModeFixed
	}
	return j.Costing.Mode()
}

// HasPaymentTerm indica si el trabajo tiene plazo de pago.
func (j Job) HasPaymentTerm() bool {
	return j.DueDays != nil || j.DueDate != nil
}

type sessionWire struct {
	InAt  *looseTime `json:"inAt,omitempty"`
	OutAt *looseTime `json:"outAt,omitempty"`
}

// jobWire forma plana del trabajo en el árbol de estado.
type jobWire struct {
	ID           string        `json:"id"`
	CustomerID   string        `json:"customerId"`
	Title        string        `json:"title,omitempty"`
	Notes        string        `json:"notes,omitempty"`
	Date         *looseTime    `json:"date,omitempty"`
	TimeMode     TimeMode      `json:"timeMode"`
	Start        string        `json:"start,omitempty"`
	End          string        `json:"end,omitempty"`
	BreakMinutes *money.Number `json:"breakMinutes,omitempty"`
	Rate         *money.Number `json:"rate,omitempty"`
	Sessions     []sessionWire `json:"sessions,omitempty"`
	IsRunning    bool          `json:"isRunning,omitempty"`
	ClockInAt    *looseTime    `json:"clockInAt,omitempty"`
	FixedPrice   *money.Number `json:"fixedPrice,omitempty"`
	PlannedStart *looseTime    `json:"plannedStart,omitempty"`
	PlannedEnd   *looseTime    `json:"plannedEnd,omitempty"`
	Parts        []Part        `json:"parts"`
	IsCompleted  bool          `json:"isCompleted"`
	CompletedAt  *looseTime    `json:"completedAt,omitempty"`
	IsPaid       bool          `json:"isPaid"`
	PaidAt       *looseTime    `json:"paidAt,omitempty"`
	DueDays      *looseInt     `json:"dueDays,omitempty"`
	DueDate      *looseTime    `json:"dueDate,omitempty"`
	TrackPayment *bool         `json:"trackPayment,omitempty"`
	DueDismissed bool          `json:"dueDismissed"`
	CreatedAt    *looseTime    `json:"createdAt,omitempty"`
}

// UnmarshalJSON reconstruye la unión de costo desde timeMode.
// Un timeMode ausente o desconocido se trata como manual.
func (j *Job) UnmarshalJSON(data []byte) error {
	var w jobWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*j = Job{
		ID:           w.ID,
		CustomerID:   w.CustomerID,
		Title:        w.Title,
		Notes:        w.Notes,
		Date:         w.Date.ptr(),
		Parts:        w.Parts,
		IsCompleted:  w.IsCompleted,
		CompletedAt:  w.CompletedAt.ptr(),
		IsPaid:       w.IsPaid,
		PaidAt:       w.PaidAt.ptr(),
		DueDays:      w.DueDays.ptr(),
		DueDate:      w.DueDate.ptr(),
		TrackPayment: trackedOrDefault(w.TrackPayment),
		DueDismissed: w.DueDismissed,
		CreatedAt:    w.CreatedAt.value(),
	}
	switch w.TimeMode {
	case TimeModeClock:
		c := ClockCosting{
			IsRunning: w.IsRunning,
			ClockInAt: w.ClockInAt.ptr(),
			Rate:      numberOrZero(w.Rate),
		}
		for _, s := range w.Sessions {
			c.Sessions = append(c.Sessions, Session{InAt: s.InAt.value(), OutAt: s.OutAt.value()})
		}
		j.Costing = c
	case TimeModeFixed:
		j.Costing = FixedCosting{
			FixedPrice:   numberOrZero(w.FixedPrice),
			PlannedStart: w.PlannedStart.ptr(),
			PlannedEnd:   w.PlannedEnd.ptr(),
		}
	default:
		j.Costing = ManualCosting{
			Start:        w.Start,
			End:          w.End,
			BreakMinutes: numberOrZero(w.BreakMinutes),
			Rate:         numberOrZero(w.Rate),
		}
	}
	return nil
}

// MarshalJSON aplana el trabajo; solo emite los campos del modo activo.
func (j Job) MarshalJSON() ([]byte, error) {
	w := jobWire{
		ID:           j.ID,
		CustomerID:   j.CustomerID,
		Title:        j.Title,
		Notes:        j.Notes,
		Date:         newLooseTime(j.Date),
		TimeMode:     j.Mode(),
		Parts:        j.Parts,
		IsCompleted:  j.IsCompleted,
		CompletedAt:  newLooseTime(j.CompletedAt),
		IsPaid:       j.IsPaid,
		PaidAt:       newLooseTime(j.PaidAt),
		DueDays:      newLooseInt(j.DueDays),
		DueDate:      newLooseTime(j.DueDate),
		TrackPayment: &j.TrackPayment,
		DueDismissed: j.DueDismissed,
		CreatedAt:    newLooseTime(&j.CreatedAt),
	}
	if w.Parts == nil {
		w.Parts = []Part{}
	}
	switch c := j.Costing.(type) {
	case ManualCosting:
		w.Start, w.End = c.Start, c.End
		w.BreakMinutes = newNumber(c.BreakMinutes)
		w.Rate = newNumber(c.Rate)
	case ClockCosting:
		w.Rate = newNumber(c.Rate)
		w.IsRunning = c.IsRunning
		w.ClockInAt = newLooseTime(c.ClockInAt)
		for _, s := range c.Sessions {
			in, out := s.InAt, s.OutAt
			w.Sessions = append(w.Sessions, sessionWire{InAt: newLooseTime(&in), OutAt: newLooseTime(&out)})
		}
	case FixedCosting:
		w.FixedPrice = newNumber(c.FixedPrice)
		w.PlannedStart = newLooseTime(c.PlannedStart)
		w.PlannedEnd = newLooseTime(c.PlannedEnd)
	case nil:
		w.FixedPrice = newNumber(decimal.Zero)
	}
	return json.Marshal(w)
}
