package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ukena18/Haci-sub000/internal/domain"
	"github.com/ukena18/Haci-sub000/internal/domain/entity"
	"github.com/ukena18/Haci-sub000/internal/domain/repository"
)

var _ repository.StateStore = (*StateRepo)(nil)

// StateRepo implementación de StateStore sobre JSONB (usable con pool o tx).
type StateRepo struct {
	q         Querier
	newID     func() string
	forUpdate bool // dentro de TxRunner: Load bloquea la fila hasta el commit
}

// NewStateRepository construye el adaptador. newID genera los shareId nuevos.
func NewStateRepository(q Querier, newID func() string) *StateRepo {
	return &StateRepo{q: q, newID: newID}
}

// Ensure inserta un árbol vacío si no existe y devuelve el vigente.
func (r *StateRepo) Ensure(ctx context.Context, userID string) (entity.StateTree, error) {
	empty, err := json.Marshal(entity.EmptyState())
	if err != nil {
		return entity.StateTree{}, fmt.Errorf("encode empty state: %w", err)
	}
	query := `
		INSERT INTO ledger_states (user_id, state)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, query, userID, empty); err != nil {
		return entity.StateTree{}, fmt.Errorf("ensure state: %w", err)
	}
	return r.Load(ctx, userID)
}

// Load obtiene el árbol del usuario.
func (r *StateRepo) Load(ctx context.Context, userID string) (entity.StateTree, error) {
	query := `SELECT state FROM ledger_states WHERE user_id = $1`
	if r.forUpdate {
		query += ` FOR UPDATE`
	}
	var raw []byte
	err := r.q.QueryRow(ctx, query, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.StateTree{}, domain.ErrNotFound
		}
		return entity.StateTree{}, fmt.Errorf("load state: %w", err)
	}
	state := entity.EmptyState()
	if err := json.Unmarshal(raw, &state); err != nil {
		return entity.StateTree{}, fmt.Errorf("decode state: %w", err)
	}
	return state, nil
}

// Save reemplaza el árbol completo e incrementa la versión.
func (r *StateRepo) Save(ctx context.Context, userID string, state entity.StateTree) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	query := `
		INSERT INTO ledger_states (user_id, state)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET state = EXCLUDED.state,
		    version = ledger_states.version + 1,
		    updated_at = now()`
	if _, err := r.q.Exec(ctx, query, userID, raw); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// PublishSnapshot inserta o actualiza la vista del cliente conservando el shareId.
func (r *StateRepo) PublishSnapshot(ctx context.Context, userID string, snap entity.ShareSnapshot) (string, error) {
	lines, err := json.Marshal(snap.Lines)
	if err != nil {
		return "", fmt.Errorf("encode lines: %w", err)
	}
	shareID := snap.ShareID
	if shareID == "" {
		shareID = r.newID()
	}
	query := `
		INSERT INTO share_snapshots (
			share_id, user_id, customer_id, customer_name, business_name, currency,
			total_debt, total_payment, balance, lines, published_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, customer_id) DO UPDATE
		SET customer_name = EXCLUDED.customer_name,
		    business_name = EXCLUDED.business_name,
		    currency      = EXCLUDED.currency,
		    total_debt    = EXCLUDED.total_debt,
		    total_payment = EXCLUDED.total_payment,
		    balance       = EXCLUDED.balance,
		    lines         = EXCLUDED.lines,
		    published_at  = EXCLUDED.published_at
		RETURNING share_id`
	var out string
	err = r.q.QueryRow(ctx, query,
		shareID, userID, snap.CustomerID, snap.CustomerName, snap.BusinessName, snap.Currency,
		snap.TotalDebt, snap.TotalPayment, snap.Balance, lines, snap.PublishedAt,
	).Scan(&out)
	if err != nil {
		if violatesUnique(err, shareIDKey) {
			return "", domain.ErrDuplicate
		}
		return "", fmt.Errorf("publish snapshot: %w", err)
	}
	return out, nil
}

// GetSnapshot obtiene una vista publicada por shareId.
func (r *StateRepo) GetSnapshot(ctx context.Context, shareID string) (entity.ShareSnapshot, error) {
	query := `
		SELECT share_id, customer_id, customer_name, business_name, currency,
		       total_debt, total_payment, balance, lines, published_at
		FROM share_snapshots WHERE share_id = $1`
	var s entity.ShareSnapshot
	var lines []byte
	err := r.q.QueryRow(ctx, query, shareID).Scan(
		&s.ShareID, &s.CustomerID, &s.CustomerName, &s.BusinessName, &s.Currency,
		&s.TotalDebt, &s.TotalPayment, &s.Balance, &lines, &s.PublishedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.ShareSnapshot{}, domain.ErrNotFound
		}
		return entity.ShareSnapshot{}, fmt.Errorf("get snapshot: %w", err)
	}
	if err := json.Unmarshal(lines, &s.Lines); err != nil {
		return entity.ShareSnapshot{}, fmt.Errorf("decode lines: %w", err)
	}
	return s, nil
}
