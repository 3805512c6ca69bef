package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ukena18/Haci-sub000/internal/domain"
	"github.com/ukena18/Haci-sub000/internal/domain/entity"
	"github.com/ukena18/Haci-sub000/internal/domain/repository"
)

var _ repository.StateStore = (*fileStore)(nil)

// errReadOnly las exportaciones JSON se consultan, no se modifican.
var errReadOnly = errors.New("el archivo de estado es de solo lectura")

// fileStore expone una exportación JSON del árbol como StateStore de solo lectura.
type fileStore struct {
	path string
}

func (f *fileStore) Ensure(ctx context.Context, userID string) (entity.StateTree, error) {
	return f.Load(ctx, userID)
}

func (f *fileStore) Load(_ context.Context, _ string) (entity.StateTree, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entity.StateTree{}, domain.ErrNotFound
		}
		return entity.StateTree{}, fmt.Errorf("read state file: %w", err)
	}
	state := entity.EmptyState()
	if err := json.Unmarshal(raw, &state); err != nil {
		return entity.StateTree{}, fmt.Errorf("decode state file %s: %w", f.path, err)
	}
	return state, nil
}

func (f *fileStore) Save(context.Context, string, entity.StateTree) error {
	return errReadOnly
}

func (f *fileStore) PublishSnapshot(context.Context, string, entity.ShareSnapshot) (string, error) {
	return "", errReadOnly
}

func (f *fileStore) GetSnapshot(context.Context, string) (entity.ShareSnapshot, error) {
	return entity.ShareSnapshot{}, domain.ErrNotFound
}
