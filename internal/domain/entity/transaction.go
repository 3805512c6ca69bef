package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ukena18/Haci-sub000/pkg/money"
)

// Tipos de movimiento.
type TransactionType string

const (
	TransactionPayment TransactionType = "payment" // cobro (mueve caja)
	TransactionDebt    TransactionType = "debt"    // cargo adicional al cliente
)

// Medios de pago (solo cobros).
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodCard     PaymentMethod = "card"
	MethodTransfer PaymentMethod = "transfer"
)

// SourceJob marca los cobros generados al liquidar un trabajo.
const SourceJob = "job"

// Transaction cobro o deuda de un cliente. Amount siempre es positivo;
// el signo depende de Type.
type Transaction struct {
	ID           string
	CustomerID   string
	VaultID      string // solo cobros
	JobID        string // trabajo liquidado cuando Source == SourceJob
	Type         TransactionType
	Amount       decimal.Decimal
	Method       PaymentMethod
	Date         time.Time
	DueDays      *int       // solo deudas
	DueDate      *time.Time // solo deudas
	TrackPayment bool
	DueDismissed bool
	Settled      bool // deuda saldada
	Source       string
	Note         string
	CreatedAt    time.Time
}

// IsPayment indica si es un cobro.
func (t Transaction) IsPayment() bool { return t.Type == TransactionPayment }

// IsDebt indica si es una deuda.
func (t Transaction) IsDebt() bool { return t.Type == TransactionDebt }

// IsGenerated indica si el movimiento fue creado al liquidar un trabajo.
func (t Transaction) IsGenerated() bool { return t.Source == SourceJob }

// HasPaymentTerm indica si la deuda tiene vencimiento.
func (t Transaction) HasPaymentTerm() bool {
	return t.DueDays != nil || t.DueDate != nil
}

type transactionWire struct {
	ID           string          `json:"id"`
	CustomerID   string          `json:"customerId"`
	VaultID      string          `json:"vaultId,omitempty"`
	JobID        string          `json:"jobId,omitempty"`
	Type         TransactionType `json:"type"`
	Amount       *money.Number   `json:"amount"`
	Method       PaymentMethod   `json:"method,omitempty"`
	Date         *looseTime      `json:"date,omitempty"`
	DueDays      *looseInt       `json:"dueDays,omitempty"`
	DueDate      *looseTime      `json:"dueDate,omitempty"`
	TrackPayment *bool           `json:"trackPayment,omitempty"`
	DueDismissed bool            `json:"dueDismissed"`
	Settled      bool            `json:"settled,omitempty"`
	Source       string          `json:"source,omitempty"`
	Note         string          `json:"note,omitempty"`
	CreatedAt    *looseTime      `json:"createdAt,omitempty"`
}

// UnmarshalJSON normaliza el importe a positivo y decodifica fechas de forma tolerante.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var w transactionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*t = Transaction{
		ID:           w.ID,
		CustomerID:   w.CustomerID,
		VaultID:      w.VaultID,
		JobID:        w.JobID,
		Type:         w.Type,
		Amount:       numberOrZero(w.Amount).Abs(),
		Method:       w.Method,
		Date:         w.Date.value(),
		DueDays:      w.DueDays.ptr(),
		DueDate:      w.DueDate.ptr(),
		TrackPayment: trackedOrDefault(w.TrackPayment),
		DueDismissed: w.DueDismissed,
		Settled:      w.Settled,
		Source:       w.Source,
		Note:         w.Note,
		CreatedAt:    w.CreatedAt.value(),
	}
	return nil
}

// MarshalJSON emite la forma plana del árbol de estado.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionWire{
		ID:           t.ID,
		CustomerID:   t.CustomerID,
		VaultID:      t.VaultID,
		JobID:        t.JobID,
		Type:         t.Type,
		Amount:       newNumber(t.Amount),
		Method:       t.Method,
		Date:         newLooseTime(&t.Date),
		DueDays:      newLooseInt(t.DueDays),
		DueDate:      newLooseTime(t.DueDate),
		TrackPayment: &t.TrackPayment,
		DueDismissed: t.DueDismissed,
		Settled:      t.Settled,
		Source:       t.Source,
		Note:         t.Note,
		CreatedAt:    newLooseTime(&t.CreatedAt),
	})
}
