package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/ukena18/Haci-sub000/internal/domain"
	"github.com/ukena18/Haci-sub000/internal/domain/entity"
	"github.com/ukena18/Haci-sub000/pkg/money"
)

// Intent mutación expresada por el usuario. Apply la convierte en un árbol nuevo.
type Intent interface {
	Kind() string
	apply(s *entity.StateTree, env Env) error
}

// Env insumos no deterministas de una mutación.
type Env struct {
	Now   time.Time
	NewID func() string
}

func (e Env) now() time.Time {
	if e.Now.IsZero() {
		return time.Now().UTC()
	}
	return e.Now
}

func (e Env) id(preset string) string {
	if preset != "" {
		return preset
	}
	if e.NewID != nil {
		return e.NewID()
	}
	return NewID()
}

// NewID identificador derivado del tiempo (UUIDv7).
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Apply aplica la intención sobre una copia del árbol; el original no se toca.
// Si la intención falla se devuelve el árbol recibido sin cambios.
func Apply(state entity.StateTree, in Intent, env Env) (entity.StateTree, error) {
	if in == nil {
		return state, domain.ErrInvalidInput
	}
	next := state.Clone()
	if err := in.apply(&next, env); err != nil {
		return state, err
	}
	return next, nil
}

// ── búsquedas por índice ──

func customerIndex(s *entity.StateTree, id string) int {
	for i := range s.Customers {
		if s.Customers[i].ID == id {
			return i
		}
	}
	return -1
}

func jobIndex(s *entity.StateTree, id string) int {
	for i := range s.Jobs {
		if s.Jobs[i].ID == id {
			return i
		}
	}
	return -1
}

func txIndex(s *entity.StateTree, id string) int {
	for i := range s.Payments {
		if s.Payments[i].ID == id {
			return i
		}
	}
	return -1
}

func vaultIndex(s *entity.StateTree, id string) int {
	for i := range s.Vaults {
		if s.Vaults[i].ID == id {
			return i
		}
	}
	return -1
}

// resolveVault caja indicada o, sin ella, la activa. Verifica que la moneda
// coincida con la moneda efectiva del cliente.
func resolveVault(s *entity.StateTree, vaultID string, c entity.Customer) (entity.Vault, error) {
	if vaultID == "" {
		vaultID = s.ActiveVaultID
	}
	if vaultID == "" {
		return entity.Vault{}, domain.ErrVaultRequired
	}
	i := vaultIndex(s, vaultID)
	if i < 0 {
		return entity.Vault{}, domain.ErrNotFound
	}
	v := s.Vaults[i]
	if money.NormalizeCode(v.Currency) != EffectiveCurrency(c, s.Profile) {
		return entity.Vault{}, domain.ErrCurrencyMismatch
	}
	return v, nil
}

// closeClock cierra la sesión abierta en now. Las sesiones se copian para no
// compartir el arreglo con el árbol original.
func closeClock(j *entity.Job, now time.Time) {
	c, ok := j.Costing.(entity.ClockCosting)
	if !ok || !c.IsRunning {
		return
	}
	sessions := make([]entity.Session, 0, len(c.Sessions)+1)
	sessions = append(sessions, c.Sessions...)
	if c.ClockInAt != nil {
		sessions = append(sessions, entity.Session{InAt: *c.ClockInAt, OutAt: now})
	}
	c.Sessions = sessions
	c.IsRunning = false
	c.ClockInAt = nil
	j.Costing = c
}

func timeOr(t *time.Time, def time.Time) time.Time {
	if t == nil || t.IsZero() {
		return def
	}
	return *t
}

func ptrTime(t time.Time) *time.Time { return &t }
