package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Profile datos del negocio dueño de la cuenta.
type Profile struct {
	BusinessName string `json:"businessName,omitempty"`
	OwnerName    string `json:"ownerName,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Currency     string `json:"currency,omitempty"` // moneda por defecto de clientes sin moneda asignada
	DueDays      *int   `json:"dueDays,omitempty"`  // plazo por defecto para trabajos nuevos
}

// UnmarshalJSON tolera un plazo por defecto capturado como texto.
func (p *Profile) UnmarshalJSON(data []byte) error {
	type plain Profile
	var w struct {
		plain
		DueDays *looseInt `json:"dueDays"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = Profile(w.plain)
	p.DueDays = w.DueDays.ptr()
	return nil
}

// StateTree árbol completo de la cuenta tal como se sincroniza con el almacén remoto.
// Reservations pertenece al calendario (fuera del motor) y se conserva sin interpretar.
type StateTree struct {
	Customers     []Customer        `json:"customers"`
	Jobs          []Job             `json:"jobs"`
	Payments      []Transaction     `json:"payments"`
	Vaults        []Vault           `json:"vaults"`
	Reservations  []json.RawMessage `json:"reservations"`
	Profile       Profile           `json:"profile"`
	ActiveVaultID string            `json:"activeVaultId,omitempty"`
}

// EmptyState árbol vacío con colecciones inicializadas (se serializan como []).
func EmptyState() StateTree {
	return StateTree{
		Customers:    []Customer{},
		Jobs:         []Job{},
		Payments:     []Transaction{},
		Vaults:       []Vault{},
		Reservations: []json.RawMessage{},
	}
}

// Clone copia superficial de cada colección; los registros son valores,
// así que modificar un elemento de la copia no altera el original.
// Los slices internos (partes, sesiones) se comparten y solo se reemplazan, nunca se mutan.
func (s StateTree) Clone() StateTree {
	out := s
	out.Customers = append([]Customer{}, s.Customers...)
	out.Jobs = append([]Job{}, s.Jobs...)
	out.Payments = append([]Transaction{}, s.Payments...)
	out.Vaults = append([]Vault{}, s.Vaults...)
	out.Reservations = append([]json.RawMessage{}, s.Reservations...)
	return out
}

// FindCustomer busca un cliente por ID.
func (s StateTree) FindCustomer(id string) (Customer, bool) {
	for _, c := range s.Customers {
		if c.ID == id {
			return c, true
		}
	}
	return Customer{}, false
}

// FindJob busca un trabajo por ID.
func (s StateTree) FindJob(id string) (Job, bool) {
	for _, j := range s.Jobs {
		if j.ID == id {
			return j, true
		}
	}
	return Job{}, false
}

// FindVault busca una caja por ID.
func (s StateTree) FindVault(id string) (Vault, bool) {
	for _, v := range s.Vaults {
		if v.ID == id {
			return v, true
		}
	}
	return Vault{}, false
}

// FindTransaction busca un movimiento por ID.
func (s StateTree) FindTransaction(id string) (Transaction, bool) {
	for _, t := range s.Payments {
		if t.ID == id {
			return t, true
		}
	}
	return Transaction{}, false
}

// JobsOf trabajos de un cliente.
func (s StateTree) JobsOf(customerID string) []Job {
	var out []Job
	for _, j := range s.Jobs {
		if j.CustomerID == customerID {
			out = append(out, j)
		}
	}
	return out
}

// TransactionsOf movimientos de un cliente.
func (s StateTree) TransactionsOf(customerID string) []Transaction {
	var out []Transaction
	for _, t := range s.Payments {
		if t.CustomerID == customerID {
			out = append(out, t)
		}
	}
	return out
}

// ShareSnapshot vista pública de solo lectura del estado de cuenta de un cliente.
type ShareSnapshot struct {
	ShareID      string          `json:"shareId"`
	CustomerID   string          `json:"customerId"`
	CustomerName string          `json:"customerName"`
	BusinessName string          `json:"businessName,omitempty"`
	Currency     string          `json:"currency"`
	TotalDebt    decimal.Decimal `json:"totalDebt"`
	TotalPayment decimal.Decimal `json:"totalPayment"`
	Balance      decimal.Decimal `json:"balance"`
	Lines        []StatementLine `json:"lines"`
	PublishedAt  time.Time       `json:"publishedAt"`
}

// StatementLine línea del estado de cuenta (cargo o abono) con saldo acumulado.
type StatementLine struct {
	Date        time.Time       `json:"date"`
	Kind        string          `json:"kind"` // job | debt | payment
	RefID       string          `json:"refId"`
	Description string          `json:"description,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}
