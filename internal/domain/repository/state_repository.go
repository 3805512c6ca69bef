package repository

import (
	"context"

	"github.com/ukena18/Haci-sub000/internal/domain/entity"
)

// StateStore define el puerto de persistencia del árbol de estado por usuario.
// El árbol se guarda y se lee completo; no hay escrituras parciales.
type StateStore interface {
	// Ensure crea un árbol vacío si el usuario aún no tiene uno y devuelve el vigente.
	Ensure(ctx context.Context, userID string) (entity.StateTree, error)
	// Load devuelve domain.ErrNotFound si el usuario no tiene árbol.
	Load(ctx context.Context, userID string) (entity.StateTree, error)
	// Save reemplaza el árbol completo (última escritura gana).
	Save(ctx context.Context, userID string, state entity.StateTree) error
	// PublishSnapshot guarda la vista pública del cliente y devuelve su shareId,
	// estable entre publicaciones del mismo cliente.
	PublishSnapshot(ctx context.Context, userID string, snap entity.ShareSnapshot) (string, error)
	// GetSnapshot lee una vista publicada; domain.ErrNotFound si no existe.
	GetSnapshot(ctx context.Context, shareID string) (entity.ShareSnapshot, error)
}

// Transactor ejecuta fn con un StateStore transaccional: leer, mutar y
// guardar dentro de fn es atómico respecto a otras llamadas del mismo usuario.
type Transactor interface {
	Run(ctx context.Context, fn func(store StateStore) error) error
}
