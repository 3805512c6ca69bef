package ledger

import (
	"strings"
	"time"

	"github.com/ukena18/Haci-sub000/internal/domain"
	"github.com/ukena18/Haci-sub000/internal/domain/entity"
	"github.com/ukena18/Haci-sub000/pkg/money"
)

// ── Clientes ──

// CustomerFields datos editables de un cliente.
type CustomerFields struct {
	Name     string
	Surname  string
	Phone    string
	Email    string
	Address  string
	Currency string
}

func (f CustomerFields) validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return domain.ErrInvalidInput
	}
	if code := money.NormalizeCode(f.Currency); code != "" && !money.IsKnownCode(code) {
		return domain.ErrInvalidInput
	}
	return nil
}

// CreateCustomer alta de cliente. ID vacío genera uno nuevo.
type CreateCustomer struct {
	ID string
	CustomerFields
}

func (CreateCustomer) Kind() string { return "create_customer" }

func (in CreateCustomer) apply(s *entity.StateTree, env Env) error {
	if err := in.validate(); err != nil {
		return err
	}
	id := env.id(in.ID)
	if customerIndex(s, id) >= 0 {
		return domain.ErrDuplicate
	}
	s.Customers = append(s.Customers, entity.Customer{
		ID:        id,
		Name:      strings.TrimSpace(in.Name),
		Surname:   strings.TrimSpace(in.Surname),
		Phone:     in.Phone,
		Email:     in.Email,
		Address:   in.Address,
		Currency:  money.NormalizeCode(in.Currency),
		CreatedAt: env.now(),
	})
	return nil
}

// UpdateCustomer edición de cliente. Cambiar la moneda efectiva de un
// cliente con cobros en caja se rechaza: los cobros quedarían en otra moneda.
type UpdateCustomer struct {
	ID string
	CustomerFields
}

func (UpdateCustomer) Kind() string { return "update_customer" }

func (in UpdateCustomer) apply(s *entity.StateTree, _ Env) error {
	if err := in.validate(); err != nil {
		return err
	}
	i := customerIndex(s, in.ID)
	if i < 0 {
		return domain.ErrNotFound
	}
	c := s.Customers[i]
	next := c
	next.Name = strings.TrimSpace(in.Name)
	next.Surname = strings.TrimSpace(in.Surname)
	next.Phone = in.Phone
	next.Email = in.Email
	next.Address = in.Address
	next.Currency = money.NormalizeCode(in.Currency)

	if EffectiveCurrency(c, s.Profile) != EffectiveCurrency(next, s.Profile) {
		for _, t := range s.Payments {
			if t.CustomerID == c.ID && t.IsPayment() && t.VaultID != "" {
				return domain.ErrCurrencyMismatch
			}
		}
	}
	s.Customers[i] = next
	return nil
}

// DeleteCustomer baja de cliente junto con sus trabajos y movimientos.
type DeleteCustomer struct {
	ID string
}

func (DeleteCustomer) Kind() string { return "delete_customer" }

func (in DeleteCustomer) apply(s *entity.StateTree, _ Env) error {
	i := customerIndex(s, in.ID)
	if i < 0 {
		return domain.ErrNotFound
	}
	s.Customers = append(s.Customers[:i:i], s.Customers[i+1:]...)

	jobs := make([]entity.Job, 0, len(s.Jobs))
	for _, j := range s.Jobs {
		if j.CustomerID != in.ID {
			jobs = append(jobs, j)
		}
	}
	s.Jobs = jobs

	txs := make([]entity.Transaction, 0, len(s.Payments))
	for _, t := range s.Payments {
		if t.CustomerID != in.ID {
			txs = append(txs, t)
		}
	}
	s.Payments = txs
	return nil
}

// ── Trabajos ──

// SaveJob alta (ID vacío) o edición de un trabajo. Los indicadores de ciclo
// de vida (completado, pagado, descartado) solo cambian con sus intenciones.
type SaveJob struct {
	Job entity.Job
}

func (SaveJob) Kind() string { return "save_job" }

func (in SaveJob) apply(s *entity.StateTree, env Env) error {
	j := in.Job
	if j.Costing == nil {
		return domain.ErrInvalidInput
	}
	if j.CustomerID == "" {
		return domain.ErrCustomerNeeded
	}
	if customerIndex(s, j.CustomerID) < 0 {
		return domain.ErrNotFound
	}
	j.Title = strings.TrimSpace(j.Title)

	if i := jobIndex(s, j.ID); j.ID != "" && i >= 0 {
		prev := s.Jobs[i]
		j.IsCompleted, j.CompletedAt = prev.IsCompleted, prev.CompletedAt
		j.IsPaid, j.PaidAt = prev.IsPaid, prev.PaidAt
		j.DueDismissed = prev.DueDismissed
		j.CreatedAt = prev.CreatedAt
		if prev.IsPaid && j.CustomerID != prev.CustomerID {
			return domain.ErrAlreadyPaid
		}
		// la sesión abierta solo la cierran ClockOut, CompleteJob o MarkJobPaid
		if next, ok := j.Costing.(entity.ClockCosting); ok {
			if old, ok := prev.Costing.(entity.ClockCosting); ok && old.IsRunning {
				next.IsRunning, next.ClockInAt = true, old.ClockInAt
				j.Costing = next
			}
		}
		s.Jobs[i] = j
		return nil
	}

	j.ID = env.id(j.ID)
	j.IsCompleted, j.CompletedAt = false, nil
	j.IsPaid, j.PaidAt = false, nil
	j.DueDismissed = false
	j.CreatedAt = env.now()
	if !j.HasPaymentTerm() && s.Profile.DueDays != nil {
		days := *s.Profile.DueDays
		j.DueDays = &days
	}
	s.Jobs = append(s.Jobs, j)
	return nil
}

// DeleteJob borra un trabajo que ningún movimiento referencia.
type DeleteJob struct {
	ID string
}

func (DeleteJob) Kind() string { return "delete_job" }

func (in DeleteJob) apply(s *entity.StateTree, _ Env) error {
	i := jobIndex(s, in.ID)
	if i < 0 {
		return domain.ErrNotFound
	}
	for _, t := range s.Payments {
		if t.JobID == in.ID {
			return domain.ErrJobReferenced
		}
	}
	s.Jobs = append(s.Jobs[:i:i], s.Jobs[i+1:]...)
	return nil
}

// ClockIn abre una sesión de cronómetro en now.
type ClockIn struct {
	JobID string
}

func (ClockIn) Kind() string { return "clock_in" }

func (in ClockIn) apply(s *entity.StateTree, env Env) error {
	i := jobIndex(s, in.JobID)
	if i < 0 {
		return domain.ErrNotFound
	}
	j := s.Jobs[i]
	c, ok := j.Costing.(entity.ClockCosting)
	if !ok {
		return domain.ErrNotClockMode
	}
	if j.IsCompleted || j.IsPaid {
		return domain.ErrConflict
	}
	if c.IsRunning {
		return domain.ErrClockRunning
	}
	c.IsRunning = true
	c.ClockInAt = ptrTime(env.now())
	j.Costing = c
	s.Jobs[i] = j
	return nil
}

// ClockOut cierra la sesión abierta.
type ClockOut struct {
	JobID string
}

func (ClockOut) Kind() string { return "clock_out" }

func (in ClockOut) apply(s *entity.StateTree, env Env) error {
	i := jobIndex(s, in.JobID)
	if i < 0 {
		return domain.ErrNotFound
	}
	j := s.Jobs[i]
	c, ok := j.Costing.(entity.ClockCosting)
	if !ok {
		return domain.ErrNotClockMode
	}
	if !c.IsRunning {
		return domain.ErrClockStopped
	}
	closeClock(&j, env.now())
	s.Jobs[i] = j
	return nil
}

// CompleteJob da por terminada la mano de obra; cierra el cronómetro abierto.
type CompleteJob struct {
	JobID string
}

func (CompleteJob) Kind() string { return "complete_job" }

func (in CompleteJob) apply(s *entity.StateTree, env Env) error {
	i := jobIndex(s, in.JobID)
	if i < 0 {
		return domain.ErrNotFound
	}
	j := s.Jobs[i]
	if j.IsCompleted {
		return domain.ErrConflict
	}
	now := env.now()
	closeClock(&j, now)
	j.IsCompleted = true
	j.CompletedAt = ptrTime(now)
	s.Jobs[i] = j
	return nil
}

// MarkJobPaid liquida el trabajo: cierra el cronómetro y, si el total es
// positivo, registra un cobro generado en la caja indicada o la activa.
type MarkJobPaid struct {
	JobID         string
	TransactionID string
	VaultID       string
	Method        entity.PaymentMethod
	Date          *time.Time
}

func (MarkJobPaid) Kind() string { return "mark_job_paid" }

func (in MarkJobPaid) apply(s *entity.StateTree, env Env) error {
	i := jobIndex(s, in.JobID)
	if i < 0 {
		return domain.ErrNotFound
	}
	j := s.Jobs[i]
	if j.IsPaid {
		return domain.ErrAlreadyPaid
	}
	method, err := paymentMethod(in.Method)
	if err != nil {
		return err
	}
	now := env.now()
	paidAt := timeOr(in.Date, now)
	closeClock(&j, now)

	if total := JobTotal(j, now); total.IsPositive() {
		ci := customerIndex(s, j.CustomerID)
		if ci < 0 {
			return domain.ErrCustomerNeeded
		}
		v, err := resolveVault(s, in.VaultID, s.Customers[ci])
		if err != nil {
			return err
		}
		s.Payments = append(s.Payments, entity.Transaction{
			ID:           env.id(in.TransactionID),
			CustomerID:   j.CustomerID,
			VaultID:      v.ID,
			JobID:        j.ID,
			Type:         entity.TransactionPayment,
			Amount:       total,
			Method:       method,
			Date:         paidAt,
			TrackPayment: true,
			Source:       entity.SourceJob,
			Note:         j.Title,
			CreatedAt:    now,
		})
	}
	j.IsPaid = true
	j.PaidAt = ptrTime(paidAt)
	s.Jobs[i] = j
	return nil
}

func paymentMethod(m entity.PaymentMethod) (entity.PaymentMethod, error) {
	switch m {
	case "":
		return entity.MethodCash, nil
	case entity.MethodCash, entity.MethodCard, entity.MethodTransfer:
		return m, nil
	default:
		return "", domain.ErrInvalidInput
	}
}
