package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Peticiones ──

// CustomerRequest body para POST/PUT /api/customers.
type CustomerRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=120"`
	Surname  string `json:"surname,omitempty" validate:"max=120"`
	Phone    string `json:"phone,omitempty" validate:"max=40"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Address  string `json:"address,omitempty" validate:"max=300"`
	Currency string `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`
}

// PartRequest línea de repuesto. Sin unit_price se toma price como importe plano.
type PartRequest struct {
	Name      string           `json:"name" validate:"max=200"`
	Qty       *decimal.Decimal `json:"qty,omitempty"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Price     decimal.Decimal  `json:"price,omitempty"`
}

// SessionRequest tramo cerrado de cronómetro.
type SessionRequest struct {
	InAt  time.Time `json:"in_at" validate:"required"`
	OutAt time.Time `json:"out_at" validate:"required"`
}

// JobRequest body para POST /api/jobs (ID vacío o desconocido crea, ID existente edita).
// Solo se leen los campos del modo indicado en time_mode.
type JobRequest struct {
	ID           string           `json:"id,omitempty"`
	CustomerID   string           `json:"customer_id" validate:"required"`
	Title        string           `json:"title" validate:"max=200"`
	Notes        string           `json:"notes,omitempty" validate:"max=2000"`
	Date         *time.Time       `json:"date,omitempty"`
	TimeMode     string           `json:"time_mode" validate:"required,oneof=manual clock fixed"`
	Start        string           `json:"start,omitempty"`
	End          string           `json:"end,omitempty"`
	BreakMinutes decimal.Decimal  `json:"break_minutes,omitempty"`
	Rate         decimal.Decimal  `json:"rate,omitempty"`
	Sessions     []SessionRequest `json:"sessions,omitempty" validate:"dive"`
	FixedPrice   decimal.Decimal  `json:"fixed_price,omitempty"`
	PlannedStart *time.Time       `json:"planned_start,omitempty"`
	PlannedEnd   *time.Time       `json:"planned_end,omitempty"`
	Parts        []PartRequest    `json:"parts,omitempty" validate:"dive"`
	DueDays      *int             `json:"due_days,omitempty" validate:"omitempty,min=0,max=3650"`
	DueDate      *time.Time       `json:"due_date,omitempty"`
	TrackPayment *bool            `json:"track_payment,omitempty"`
}

// PayJobRequest body para POST /api/jobs/:id/pay.
type PayJobRequest struct {
	VaultID string     `json:"vault_id,omitempty"`
	Method  string     `json:"method,omitempty" validate:"omitempty,oneof=cash card transfer"`
	Date    *time.Time `json:"date,omitempty"`
}

// PaymentRequest body para POST /api/transactions/payments.
type PaymentRequest struct {
	CustomerID string          `json:"customer_id" validate:"required"`
	VaultID    string          `json:"vault_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method,omitempty" validate:"omitempty,oneof=cash card transfer"`
	Date       *time.Time      `json:"date,omitempty"`
	Note       string          `json:"note,omitempty" validate:"max=500"`
}

// DebtRequest body para POST /api/transactions/debts.
type DebtRequest struct {
	CustomerID   string          `json:"customer_id" validate:"required"`
	Amount       decimal.Decimal `json:"amount"`
	Date         *time.Time      `json:"date,omitempty"`
	DueDays      *int            `json:"due_days,omitempty" validate:"omitempty,min=0,max=3650"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
	TrackPayment *bool           `json:"track_payment,omitempty"`
	Note         string          `json:"note,omitempty" validate:"max=500"`
}

// VaultRequest body para POST /api/vaults.
type VaultRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=120"`
	Currency string `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`
}

// RenameVaultRequest body para PUT /api/vaults/:id.
type RenameVaultRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// ActiveVaultRequest body para PUT /api/vaults/active.
type ActiveVaultRequest struct {
	VaultID string `json:"vault_id" validate:"required"`
}

// ProfileRequest body para PUT /api/profile.
type ProfileRequest struct {
	BusinessName string `json:"business_name" validate:"max=200"`
	OwnerName    string `json:"owner_name,omitempty" validate:"max=200"`
	Phone        string `json:"phone,omitempty" validate:"max=40"`
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	Currency     string `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`
	DueDays      *int   `json:"due_days,omitempty" validate:"omitempty,min=0,max=3650"`
}

// ── Respuestas ──

// CustomerTotalsResponse saldo de un cliente; balance negativo = debe.
type CustomerTotalsResponse struct {
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Currency     string          `json:"currency"`
	TotalDebt    decimal.Decimal `json:"total_debt"`
	TotalPayment decimal.Decimal `json:"total_payment"`
	Balance      decimal.Decimal `json:"balance"`
	BalanceText  string          `json:"balance_text"`
}

// JobCostResponse costeo de un trabajo en el instante de la consulta.
type JobCostResponse struct {
	JobID     string           `json:"job_id"`
	Mode      string           `json:"mode"`
	Hours     *decimal.Decimal `json:"hours,omitempty"` // ausente en precio cerrado
	Labor     decimal.Decimal  `json:"labor"`
	Parts     decimal.Decimal  `json:"parts"`
	Total     decimal.Decimal  `json:"total"`
	TotalText string           `json:"total_text"`
	Currency  string           `json:"currency"`
	Live      bool             `json:"live"`
	At        time.Time        `json:"at"`
}

// WatchItemResponse cobro pendiente con plazo.
type WatchItemResponse struct {
	Kind         string          `json:"kind"`
	ID           string          `json:"id"`
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name,omitempty"`
	Title        string          `json:"title,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	AmountText   string          `json:"amount_text"`
	Currency     string          `json:"currency"`
	BaseDate     string          `json:"base_date"`
	DueDate      string          `json:"due_date"`
	DueDays      int             `json:"due_days"`
	DaysElapsed  int             `json:"days_elapsed"`
	DaysLeft     int             `json:"days_left"`
	Overdue      bool            `json:"overdue"`
	Dismissed    bool            `json:"dismissed"`
}

// VaultResponse caja con su efectivo real.
type VaultResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Currency         string          `json:"currency"`
	Active           bool            `json:"active"`
	TotalPayment     decimal.Decimal `json:"total_payment"`
	TotalText        string          `json:"total_text"`
	TransactionCount int             `json:"transaction_count"`
}
