// Package sqlite guarda el árbol de estado en un archivo local (un negocio,
// sin servidor). Mismo contrato que el almacén PostgreSQL.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/ukena18/Haci-sub000/internal/domain"
	"github.com/ukena18/Haci-sub000/internal/domain/entity"
	"github.com/ukena18/Haci-sub000/internal/domain/repository"
)

var (
	_ repository.StateStore = (*Store)(nil)
	_ repository.Transactor = (*Store)(nil)
)

// Migrations sentencias del esquema; SQLite ejecuta una a la vez.
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS ledger_states (
			user_id    TEXT PRIMARY KEY,
			state      TEXT NOT NULL,
			version    INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE TABLE IF NOT EXISTS share_snapshots (
			share_id      TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL,
			customer_id   TEXT NOT NULL,
			customer_name TEXT NOT NULL DEFAULT '',
			business_name TEXT NOT NULL DEFAULT '',
			currency      TEXT NOT NULL,
			total_debt    TEXT NOT NULL,
			total_payment TEXT NOT NULL,
			balance       TEXT NOT NULL,
			lines         TEXT NOT NULL DEFAULT '[]',
			published_at  TEXT NOT NULL,
			UNIQUE (user_id, customer_id)
		)`,
	}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store StateStore sobre modernc.org/sqlite.
type Store struct {
	db    *sql.DB
	q     querier
	newID func() string
}

// Open abre (o crea) la base en path y aplica el esquema.
// Una sola conexión: SQLite serializa las escrituras de todos modos.
func Open(ctx context.Context, path string, newID func() string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{`PRAGMA journal_mode=WAL`, `PRAGMA busy_timeout=5000`}
	for _, stmt := range append(pragmas, Migrations()...) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return &Store{db: db, q: db, newID: newID}, nil
}

// Close cierra la base.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifica la conexión.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Run ejecuta fn dentro de una transacción.
func (s *Store) Run(ctx context.Context, fn func(store repository.StateStore) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&Store{db: s.db, q: tx, newID: s.newID}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Ensure inserta un árbol vacío si no existe y devuelve el vigente.
func (s *Store) Ensure(ctx context.Context, userID string) (entity.StateTree, error) {
	empty, err := json.Marshal(entity.EmptyState())
	if err != nil {
		return entity.StateTree{}, fmt.Errorf("encode empty state: %w", err)
	}
	_, err = s.q.ExecContext(ctx,
		`INSERT INTO ledger_states (user_id, state) VALUES (?, ?) ON CONFLICT (user_id) DO NOTHING`,
		userID, string(empty))
	if err != nil {
		return entity.StateTree{}, fmt.Errorf("ensure state: %w", err)
	}
	return s.Load(ctx, userID)
}

// Load obtiene el árbol del usuario.
func (s *Store) Load(ctx context.Context, userID string) (entity.StateTree, error) {
	var raw string
	err := s.q.QueryRowContext(ctx, `SELECT state FROM ledger_states WHERE user_id = ?`, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.StateTree{}, domain.ErrNotFound
		}
		return entity.StateTree{}, fmt.Errorf("load state: %w", err)
	}
	state := entity.EmptyState()
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return entity.StateTree{}, fmt.Errorf("decode state: %w", err)
	}
	return state, nil
}

// Save reemplaza el árbol completo.
func (s *Store) Save(ctx context.Context, userID string, state entity.StateTree) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	_, err = s.q.ExecContext(ctx, `
		INSERT INTO ledger_states (user_id, state) VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE
		SET state = excluded.state,
		    version = ledger_states.version + 1,
		    updated_at = datetime('now')`,
		userID, string(raw))
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// PublishSnapshot inserta o actualiza la vista del cliente conservando el shareId.
func (s *Store) PublishSnapshot(ctx context.Context, userID string, snap entity.ShareSnapshot) (string, error) {
	lines, err := json.Marshal(snap.Lines)
	if err != nil {
		return "", fmt.Errorf("encode lines: %w", err)
	}
	shareID := snap.ShareID
	if shareID == "" {
		shareID = s.newID()
	}
	var out string
	err = s.q.QueryRowContext(ctx, `
		INSERT INTO share_snapshots (
			share_id, user_id, customer_id, customer_name, business_name, currency,
			total_debt, total_payment, balance, lines, published_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, customer_id) DO UPDATE
		SET customer_name = excluded.customer_name,
		    business_name = excluded.business_name,
		    currency      = excluded.currency,
		    total_debt    = excluded.total_debt,
		    total_payment = excluded.total_payment,
		    balance       = excluded.balance,
		    lines         = excluded.lines,
		    published_at  = excluded.published_at
		RETURNING share_id`,
		shareID, userID, snap.CustomerID, snap.CustomerName, snap.BusinessName, snap.Currency,
		snap.TotalDebt.String(), snap.TotalPayment.String(), snap.Balance.String(),
		string(lines), snap.PublishedAt.UTC().Format(time.RFC3339Nano),
	).Scan(&out)
	if err != nil {
		return "", fmt.Errorf("publish snapshot: %w", err)
	}
	return out, nil
}

// GetSnapshot obtiene una vista publicada por shareId.
func (s *Store) GetSnapshot(ctx context.Context, shareID string) (entity.ShareSnapshot, error) {
	var (
		snap                       entity.ShareSnapshot
		debt, paid, balance, lines string
		publishedAt                string
	)
	err := s.q.QueryRowContext(ctx, `
		SELECT share_id, customer_id, customer_name, business_name, currency,
		       total_debt, total_payment, balance, lines, published_at
		FROM share_snapshots WHERE share_id = ?`, shareID,
	).Scan(&snap.ShareID, &snap.CustomerID, &snap.CustomerName, &snap.BusinessName, &snap.Currency,
		&debt, &paid, &balance, &lines, &publishedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.ShareSnapshot{}, domain.ErrNotFound
		}
		return entity.ShareSnapshot{}, fmt.Errorf("get snapshot: %w", err)
	}
	if snap.TotalDebt, err = decimal.NewFromString(debt); err != nil {
		return entity.ShareSnapshot{}, fmt.Errorf("decode total_debt: %w", err)
	}
	if snap.TotalPayment, err = decimal.NewFromString(paid); err != nil {
		return entity.ShareSnapshot{}, fmt.Errorf("decode total_payment: %w", err)
	}
	if snap.Balance, err = decimal.NewFromString(balance); err != nil {
		return entity.ShareSnapshot{}, fmt.Errorf("decode balance: %w", err)
	}
	if snap.PublishedAt, err = time.Parse(time.RFC3339Nano, publishedAt); err != nil {
		return entity.ShareSnapshot{}, fmt.Errorf("decode published_at: %w", err)
	}
	if err := json.Unmarshal([]byte(lines), &snap.Lines); err != nil {
		return entity.ShareSnapshot{}, fmt.Errorf("decode lines: %w", err)
	}
	return snap, nil
}
