package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ukena18/Haci-sub000/internal/domain/entity"
	"github.com/ukena18/Haci-sub000/pkg/money"
)

// Convención única de saldo (detalle, vista compartida, CLI y API):
//
//	TotalDebt    = Σ total de cada trabajo + Σ movimientos "debt"
//	TotalPayment = Σ movimientos "payment" (incluye los generados al liquidar trabajos)
//	Balance      = TotalPayment − TotalDebt   (negativo: el cliente debe)
//
// Un trabajo es deuda desde que existe, sin importar IsCompleted/IsPaid.

// Options ajusta la agregación.
type Options struct {
	// CountPaidJobs suma como cobro el total de los trabajos marcados IsPaid
	// que no tienen un cobro generado enlazado (registros antiguos). Nunca
	// cuenta dos veces un trabajo liquidado con movimiento.
	CountPaidJobs bool
}

// Totals saldo derivado de un cliente.
type Totals struct {
	TotalDebt    decimal.Decimal
	TotalPayment decimal.Decimal
	Balance      decimal.Decimal
}

// CustomerTotals pliega trabajos y movimientos del cliente en su saldo.
// Los registros de otros clientes se ignoran.
func CustomerTotals(customerID string, jobs []entity.Job, txs []entity.Transaction, now time.Time, opts Options) Totals {
	debt := decimal.Zero
	paid := decimal.Zero
	settled := settledJobs(txs)

	for _, j := range jobs {
		if j.CustomerID != customerID {
			continue
		}
		total := JobTotal(j, now)
		debt = debt.Add(total)
		if opts.CountPaidJobs && j.IsPaid && !settled[j.ID] {
			paid = paid.Add(total)
		}
	}
	for _, t := range txs {
		if t.CustomerID != customerID {
			continue
		}
		switch t.Type {
		case entity.TransactionDebt:
			debt = debt.Add(t.Amount)
		case entity.TransactionPayment:
			paid = paid.Add(t.Amount)
		}
	}
	return Totals{
		TotalDebt:    debt,
		TotalPayment: paid,
		Balance:      paid.Sub(debt),
	}
}

// settledJobs trabajos con un cobro generado enlazado.
func settledJobs(txs []entity.Transaction) map[string]bool {
	out := make(map[string]bool)
	for _, t := range txs {
		if t.IsPayment() && t.IsGenerated() && t.JobID != "" {
			out[t.JobID] = true
		}
	}
	return out
}

// ManualTransactions movimientos editables por el usuario: excluye los
// generados al liquidar trabajos, que ya están representados por el trabajo.
func ManualTransactions(txs []entity.Transaction) []entity.Transaction {
	out := make([]entity.Transaction, 0, len(txs))
	for _, t := range txs {
		if t.IsGenerated() {
			continue
		}
		out = append(out, t)
	}
	return out
}

// EffectiveCurrency moneda del cliente, la del perfil o la moneda por defecto.
func EffectiveCurrency(c entity.Customer, p entity.Profile) string {
	if code := money.NormalizeCode(c.Currency); code != "" {
		return code
	}
	if code := money.NormalizeCode(p.Currency); code != "" {
		return code
	}
	return money.DefaultCode
}

// Tipos de línea del estado de cuenta.
const (
	LineJob     = "job"
	LineJobPaid = "job_paid"
	LineDebt    = "debt"
	LinePayment = "payment"
)

type statementEntry struct {
	line    entity.StatementLine
	created time.Time
}

// CustomerStatement líneas cronológicas del cliente con saldo acumulado
// (misma convención que CustomerTotals: el saldo final coincide con Balance).
func CustomerStatement(customerID string, jobs []entity.Job, txs []entity.Transaction, now time.Time, opts Options) []entity.StatementLine {
	var entries []statementEntry
	settled := settledJobs(txs)

	for _, j := range jobs {
		if j.CustomerID != customerID {
			continue
		}
		total := JobTotal(j, now)
		date := jobDate(j)
		entries = append(entries, statementEntry{
			line: entity.StatementLine{
				Date: date, Kind: LineJob, RefID: j.ID, Description: j.Title,
				Debit: total, Credit: decimal.Zero,
			},
			created: j.CreatedAt,
		})
		if opts.CountPaidJobs && j.IsPaid && !settled[j.ID] {
			paidAt := date
			if j.PaidAt != nil {
				paidAt = *j.PaidAt
			}
			entries = append(entries, statementEntry{
				line: entity.StatementLine{
					Date: paidAt, Kind: LineJobPaid, RefID: j.ID, Description: j.Title,
					Debit: decimal.Zero, Credit: total,
				},
				created: j.CreatedAt,
			})
		}
	}
	for _, t := range txs {
		if t.CustomerID != customerID {
			continue
		}
		line := entity.StatementLine{Date: txDate(t), RefID: t.ID, Description: t.Note, Debit: decimal.Zero, Credit: decimal.Zero}
		switch t.Type {
		case entity.TransactionDebt:
			line.Kind, line.Debit = LineDebt, t.Amount
		case entity.TransactionPayment:
			line.Kind, line.Credit = LinePayment, t.Amount
		default:
			continue
		}
		entries = append(entries, statementEntry{line: line, created: t.CreatedAt})
	}

	sort.SliceStable(entries, func(i, k int) bool {
		a, b := entries[i], entries[k]
		if !a.line.Date.Equal(b.line.Date) {
			return a.line.Date.Before(b.line.Date)
		}
		if !a.created.Equal(b.created) {
			return a.created.Before(b.created)
		}
		return a.line.RefID < b.line.RefID
	})

	running := decimal.Zero
	out := make([]entity.StatementLine, 0, len(entries))
	for _, e := range entries {
		running = running.Add(e.line.Credit).Sub(e.line.Debit)
		e.line.Balance = running
		out = append(out, e.line)
	}
	return out
}

// jobDate fecha contable del trabajo: fecha de trabajo, finalización o creación.
func jobDate(j entity.Job) time.Time {
	switch {
	case j.Date != nil:
		return *j.Date
	case j.CompletedAt != nil:
		return *j.CompletedAt
	default:
		return j.CreatedAt
	}
}

func txDate(t entity.Transaction) time.Time {
	if t.Date.IsZero() {
		return t.CreatedAt
	}
	return t.Date
}
