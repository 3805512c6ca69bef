package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ukena18/Haci-sub000/internal/domain"
	"github.com/ukena18/Haci-sub000/internal/domain/entity"
	"github.com/ukena18/Haci-sub000/pkg/money"
)

// ── Movimientos ──

// CollectPayment cobro manual a un cliente en la caja indicada o la activa.
type CollectPayment struct {
	ID         string
	CustomerID string
	VaultID    string
	Amount     decimal.Decimal
	Method     entity.PaymentMethod
	Date       *time.Time
	Note       string
}

func (CollectPayment) Kind() string { return "collect_payment" }

func (in CollectPayment) apply(s *entity.StateTree, env Env) error {
	if !in.Amount.IsPositive() {
		return domain.ErrInvalidInput
	}
	method, err := paymentMethod(in.Method)
	if err != nil {
		return err
	}
	ci := customerIndex(s, in.CustomerID)
	if ci < 0 {
		return domain.ErrNotFound
	}
	v, err := resolveVault(s, in.VaultID, s.Customers[ci])
	if err != nil {
		return err
	}
	now := env.now()
	id := env.id(in.ID)
	if txIndex(s, id) >= 0 {
		return domain.ErrDuplicate
	}
	s.Payments = append(s.Payments, entity.Transaction{
		ID:           id,
		CustomerID:   in.CustomerID,
		VaultID:      v.ID,
		Type:         entity.TransactionPayment,
		Amount:       in.Amount,
		Method:       method,
		Date:         timeOr(in.Date, now),
		TrackPayment: true,
		Note:         in.Note,
		CreatedAt:    now,
	})
	return nil
}

// AddDebt cargo adicional al cliente, con plazo opcional.
type AddDebt struct {
	ID         string
	CustomerID string
	Amount     decimal.Decimal
	Date       *time.Time
	DueDays    *int
	DueDate    *time.Time
	Untracked  bool // no vigilar el vencimiento
	Note       string
}

func (AddDebt) Kind() string { return "add_debt" }

func (in AddDebt) apply(s *entity.StateTree, env Env) error {
	if !in.Amount.IsPositive() {
		return domain.ErrInvalidInput
	}
	if in.DueDays != nil && *in.DueDays < 0 {
		return domain.ErrInvalidInput
	}
	if customerIndex(s, in.CustomerID) < 0 {
		return domain.ErrNotFound
	}
	now := env.now()
	id := env.id(in.ID)
	if txIndex(s, id) >= 0 {
		return domain.ErrDuplicate
	}
	s.Payments = append(s.Payments, entity.Transaction{
		ID:           id,
		CustomerID:   in.CustomerID,
		Type:         entity.TransactionDebt,
		Amount:       in.Amount,
		Date:         timeOr(in.Date, now),
		DueDays:      in.DueDays,
		DueDate:      in.DueDate,
		TrackPayment: !in.Untracked,
		Note:         in.Note,
		CreatedAt:    now,
	})
	return nil
}

// SettleDebt marca una deuda como saldada; deja de vigilarse. El dinero
// recibido se registra aparte con CollectPayment.
type SettleDebt struct {
	ID string
}

func (SettleDebt) Kind() string { return "settle_debt" }

func (in SettleDebt) apply(s *entity.StateTree, _ Env) error {
	i := txIndex(s, in.ID)
	if i < 0 || !s.Payments[i].IsDebt() {
		return domain.ErrNotFound
	}
	if s.Payments[i].Settled {
		return domain.ErrConflict
	}
	s.Payments[i].Settled = true
	return nil
}

// DeleteTransaction borra un movimiento manual. Los generados se eliminan
// junto con su trabajo o revirtiendo el pago, nunca sueltos.
type DeleteTransaction struct {
	ID string
}

func (DeleteTransaction) Kind() string { return "delete_transaction" }

func (in DeleteTransaction) apply(s *entity.StateTree, _ Env) error {
	i := txIndex(s, in.ID)
	if i < 0 {
		return domain.ErrNotFound
	}
	if s.Payments[i].IsGenerated() {
		return domain.ErrGeneratedTransaction
	}
	s.Payments = append(s.Payments[:i:i], s.Payments[i+1:]...)
	return nil
}

// ── Vigilancia ──

// DismissWatchItem deja de vigilar un trabajo o deuda sin tocar su plazo.
type DismissWatchItem struct {
	ItemKind WatchKind
	ID       string
}

// RestoreWatchItem vuelve a vigilar un elemento descartado; los días
// transcurridos siguen contando desde la fecha base original.
type RestoreWatchItem struct {
	ItemKind WatchKind
	ID       string
}

func (DismissWatchItem) Kind() string { return "dismiss_watch_item" }
func (RestoreWatchItem) Kind() string { return "restore_watch_item" }

func (in DismissWatchItem) apply(s *entity.StateTree, _ Env) error {
	return setDismissed(s, in.ItemKind, in.ID, true)
}

func (in RestoreWatchItem) apply(s *entity.StateTree, _ Env) error {
	return setDismissed(s, in.ItemKind, in.ID, false)
}

func setDismissed(s *entity.StateTree, kind WatchKind, id string, v bool) error {
	switch kind {
	case WatchJob:
		i := jobIndex(s, id)
		if i < 0 {
			return domain.ErrNotFound
		}
		s.Jobs[i].DueDismissed = v
	case WatchDebt:
		i := txIndex(s, id)
		if i < 0 || !s.Payments[i].IsDebt() {
			return domain.ErrNotFound
		}
		s.Payments[i].DueDismissed = v
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// ── Cajas ──

// CreateVault alta de caja. La moneda queda fija; sin moneda se usa la del
// perfil. La primera caja pasa a ser la activa.
type CreateVault struct {
	ID       string
	Name     string
	Currency string
}

func (CreateVault) Kind() string { return "create_vault" }

func (in CreateVault) apply(s *entity.StateTree, env Env) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.ErrInvalidInput
	}
	code := money.NormalizeCode(in.Currency)
	if code == "" {
		code = EffectiveCurrency(entity.Customer{}, s.Profile)
	}
	if !money.IsKnownCode(code) {
		return domain.ErrInvalidInput
	}
	id := env.id(in.ID)
	if vaultIndex(s, id) >= 0 {
		return domain.ErrDuplicate
	}
	s.Vaults = append(s.Vaults, entity.Vault{
		ID:        id,
		Name:      name,
		Currency:  code,
		CreatedAt: env.now(),
	})
	if s.ActiveVaultID == "" {
		s.ActiveVaultID = id
	}
	return nil
}

// RenameVault cambia solo el nombre; la moneda es inmutable.
type RenameVault struct {
	ID   string
	Name string
}

func (RenameVault) Kind() string { return "rename_vault" }

func (in RenameVault) apply(s *entity.StateTree, _ Env) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.ErrInvalidInput
	}
	i := vaultIndex(s, in.ID)
	if i < 0 {
		return domain.ErrNotFound
	}
	s.Vaults[i].Name = name
	return nil
}

// DeleteVault borra una caja sin movimientos que no sea la activa.
type DeleteVault struct {
	ID string
}

func (DeleteVault) Kind() string { return "delete_vault" }

func (in DeleteVault) apply(s *entity.StateTree, _ Env) error {
	i := vaultIndex(s, in.ID)
	if i < 0 {
		return domain.ErrNotFound
	}
	if err := CheckVaultDeletion(in.ID, s.ActiveVaultID, s.Payments); err != nil {
		return err
	}
	s.Vaults = append(s.Vaults[:i:i], s.Vaults[i+1:]...)
	return nil
}

// SetActiveVault elige la caja por defecto de los cobros.
type SetActiveVault struct {
	ID string
}

func (SetActiveVault) Kind() string { return "set_active_vault" }

func (in SetActiveVault) apply(s *entity.StateTree, _ Env) error {
	if vaultIndex(s, in.ID) < 0 {
		return domain.ErrNotFound
	}
	s.ActiveVaultID = in.ID
	return nil
}

// UpdateProfile reemplaza los datos del negocio.
type UpdateProfile struct {
	Profile entity.Profile
}

func (UpdateProfile) Kind() string { return "update_profile" }

func (in UpdateProfile) apply(s *entity.StateTree, _ Env) error {
	p := in.Profile
	p.Currency = money.NormalizeCode(p.Currency)
	if p.Currency != "" && !money.IsKnownCode(p.Currency) {
		return domain.ErrInvalidInput
	}
	if p.DueDays != nil && *p.DueDays < 0 {
		return domain.ErrInvalidInput
	}
	if p.Currency == "" {
		p.Currency = s.Profile.Currency
	}
	// clientes sin moneda propia heredan la del perfil: no puede cambiar bajo sus cobros
	for _, c := range s.Customers {
		if EffectiveCurrency(c, s.Profile) == EffectiveCurrency(c, p) {
			continue
		}
		for _, t := range s.Payments {
			if t.CustomerID == c.ID && t.IsPayment() && t.VaultID != "" {
				return domain.ErrCurrencyMismatch
			}
		}
	}
	s.Profile = p
	return nil
}
