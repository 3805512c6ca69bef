package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ukena18/Haci-sub000/internal/domain/entity"
)

// DuePolicy reglas de cálculo del vencimiento.
type DuePolicy struct {
	// SkipWeekends corre al lunes un vencimiento que cae en sábado o domingo.
	SkipWeekends bool
}

// WatchKind origen de un elemento vigilado.
type WatchKind string

const (
	WatchJob  WatchKind = "job"
	WatchDebt WatchKind = "debt"
)

// WatchItem cobro pendiente con plazo, derivado en cada consulta.
type WatchItem struct {
	Kind        WatchKind
	ID          string
	CustomerID  string
	Title       string
	Amount      decimal.Decimal
	BaseDate    time.Time
	DueDate     time.Time
	DueDays     int // plazo original en días (DueDate − BaseDate si se fijó la fecha)
	DaysElapsed int
	DaysLeft    int // cero o negativo: vencido
	Overdue     bool
	Dismissed   bool
	CreatedAt   time.Time
}

// civilDay reduce t a su día calendario. Las fechas sin hora (medianoche en
// su propia zona) conservan su día; las demás se leen en la zona de ref.
func civilDay(t time.Time, ref *time.Location) time.Time {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	l := t.In(ref)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// DaysElapsed días naturales completos entre base y now (nunca negativo).
func DaysElapsed(base, now time.Time) int {
	d := daysBetween(civilDay(base, now.Location()), civilDay(now, now.Location()))
	if d < 0 {
		return 0
	}
	return d
}

// NextBusinessDay corre sábado y domingo al lunes siguiente.
func NextBusinessDay(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, 2)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	default:
		return t
	}
}

// DueDate vencimiento efectivo: la fecha explícita prevalece; si no,
// base + dueDays. ok=false cuando no hay plazo.
func DueDate(base time.Time, dueDays *int, explicit *time.Time, loc *time.Location, policy DuePolicy) (time.Time, bool) {
	var due time.Time
	switch {
	case explicit != nil && !explicit.IsZero():
		due = civilDay(*explicit, loc)
	case dueDays != nil:
		due = civilDay(base, loc).AddDate(0, 0, *dueDays)
	default:
		return time.Time{}, false
	}
	if policy.SkipWeekends {
		due = NextBusinessDay(due)
	}
	return due, true
}

// jobBaseDate base del plazo de un trabajo: finalización, fecha del trabajo o creación.
func jobBaseDate(j entity.Job) time.Time {
	switch {
	case j.CompletedAt != nil:
		return *j.CompletedAt
	case j.Date != nil:
		return *j.Date
	default:
		return j.CreatedAt
	}
}

// debtBaseDate base del plazo de una deuda: su fecha o, sin ella, su creación.
func debtBaseDate(t entity.Transaction) time.Time {
	if !t.Date.IsZero() {
		return t.Date
	}
	return t.CreatedAt
}

func newWatchItem(kind WatchKind, id, customerID, title string, amount decimal.Decimal,
	base time.Time, due time.Time, created time.Time, dismissed bool, now time.Time) WatchItem {
	loc := now.Location()
	baseDay := civilDay(base, loc)
	elapsed := DaysElapsed(base, now)
	left := daysBetween(baseDay, due) - elapsed
	return WatchItem{
		Kind:        kind,
		ID:          id,
		CustomerID:  customerID,
		Title:       title,
		Amount:      amount,
		BaseDate:    baseDay,
		DueDate:     due,
		DueDays:     daysBetween(baseDay, due),
		DaysElapsed: elapsed,
		DaysLeft:    left,
		Overdue:     left <= 0,
		Dismissed:   dismissed,
		CreatedAt:   created,
	}
}

// collect arma los elementos con plazo; dismissed elige si
// se devuelven los descartados o los activos.
func collect(state entity.StateTree, now time.Time, policy DuePolicy, dismissed bool) []WatchItem {
	loc := now.Location()
	var out []WatchItem

	for _, j := range state.Jobs {
		if j.DueDismissed != dismissed || !j.TrackPayment || j.IsPaid || !j.HasPaymentTerm() {
			continue
		}
		amount := JobTotal(j, now)
		if !amount.IsPositive() {
			continue
		}
		base := jobBaseDate(j)
		due, ok := DueDate(base, j.DueDays, j.DueDate, loc, policy)
		if !ok {
			continue
		}
		out = append(out, newWatchItem(WatchJob, j.ID, j.CustomerID, j.Title, amount, base, due, j.CreatedAt, j.DueDismissed, now))
	}

	for _, t := range state.Payments {
		if !t.IsDebt() || t.DueDismissed != dismissed || !t.TrackPayment || t.Settled || !t.HasPaymentTerm() {
			continue
		}
		if !t.Amount.IsPositive() {
			continue
		}
		base := debtBaseDate(t)
		due, ok := DueDate(base, t.DueDays, t.DueDate, loc, policy)
		if !ok {
			continue
		}
		out = append(out, newWatchItem(WatchDebt, t.ID, t.CustomerID, t.Note, t.Amount, base, due, t.CreatedAt, t.DueDismissed, now))
	}

	sort.SliceStable(out, func(i, k int) bool {
		a, b := out[i], out[k]
		if a.DaysLeft != b.DaysLeft {
			return a.DaysLeft < b.DaysLeft
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out
}

// Watchlist cobros pendientes con plazo, ordenados del más urgente al menos.
// Excluye descartados, no vigilados, pagados o saldados, sin plazo y de importe cero.
func Watchlist(state entity.StateTree, now time.Time, policy DuePolicy) []WatchItem {
	return collect(state, now, policy, false)
}

// DismissedItems elementos descartados que seguirían vigilados si se restauran.
func DismissedItems(state entity.StateTree, now time.Time, policy DuePolicy) []WatchItem {
	return collect(state, now, policy, true)
}
