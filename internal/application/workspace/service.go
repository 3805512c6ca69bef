// Package workspace contenedor del árbol de estado de cada usuario:
// carga, aplica intenciones con el reductor del ledger y guarda el árbol completo.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ukena18/Haci-sub000/internal/domain"
	"github.com/ukena18/Haci-sub000/internal/domain/entity"
	"github.com/ukena18/Haci-sub000/internal/domain/ledger"
	"github.com/ukena18/Haci-sub000/internal/domain/repository"
	"github.com/ukena18/Haci-sub000/pkg/clock"
	"github.com/ukena18/Haci-sub000/pkg/logger"
	"github.com/ukena18/Haci-sub000/pkg/money"
)

// Observer recibe las mediciones del servicio (metrics.Recorder lo implementa).
type Observer interface {
	ObserveIntent(kind string, took time.Duration, err error)
	ObserveStore(op string, err error)
	SetOverdue(n int)
}

type nopObserver struct{}

func (nopObserver) ObserveIntent(string, time.Duration, error) {}
func (nopObserver) ObserveStore(string, error)                 {}
func (nopObserver) SetOverdue(int)                             {}

// Options reglas contables configurables.
type Options struct {
	Policy          ledger.DuePolicy
	Totals          ledger.Options
	DefaultCurrency string // moneda del perfil cuando el árbol aún no tiene una
}

// Deps dependencias del servicio. Tx, Observer, Clock y NewID son opcionales.
type Deps struct {
	Store    repository.StateStore
	Tx       repository.Transactor
	Clock    clock.Clock
	Log      *logger.Logger
	Observer Observer
	NewID    func() string
}

// Service casos de uso sobre el árbol de estado.
type Service struct {
	store     repository.StateStore
	tx        repository.Transactor
	clock     clock.Clock
	log       *logger.Logger
	obs       Observer
	newID     func() string
	opts      Options
	formatter *money.Formatter
	loads     singleflight.Group
}

// New construye el servicio.
func New(deps Deps, opts Options) *Service {
	s := &Service{
		store: deps.Store,
		tx:    deps.Tx,
		clock: deps.Clock,
		log:   deps.Log,
		obs:   deps.Observer,
		newID: deps.NewID,
		opts:  opts,
	}
	if s.clock == nil {
		s.clock = clock.System{}
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	s.log = s.log.Component("workspace")
	if s.obs == nil {
		s.obs = nopObserver{}
	}
	if s.newID == nil {
		s.newID = ledger.NewID
	}
	s.opts.DefaultCurrency = money.NormalizeCode(opts.DefaultCurrency)
	if !money.IsKnownCode(s.opts.DefaultCurrency) {
		s.opts.DefaultCurrency = money.DefaultCode
	}
	s.formatter = money.NewFormatter(s.opts.DefaultCurrency)
	return s
}

// NewID genera un ID para una intención antes de despacharla,
// así el llamador conoce el registro creado.
func (s *Service) NewID() string {
	return s.newID()
}

// Now instante usado por las consultas.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

// Ensure crea el árbol vacío del usuario si no existe.
func (s *Service) Ensure(ctx context.Context, userID string) (entity.StateTree, error) {
	if userID == "" {
		return entity.StateTree{}, domain.ErrUnauthorized
	}
	state, err := s.store.Ensure(ctx, userID)
	s.obs.ObserveStore("ensure", err)
	if err != nil {
		return entity.StateTree{}, fmt.Errorf("ensure state: %w", err)
	}
	s.loads.Forget(userID)
	return state, nil
}

// Load devuelve el árbol del usuario; domain.ErrNotFound si nunca se creó.
// Lecturas simultáneas del mismo usuario comparten una sola consulta.
func (s *Service) Load(ctx context.Context, userID string) (entity.StateTree, error) {
	if userID == "" {
		return entity.StateTree{}, domain.ErrUnauthorized
	}
	// la lectura compartida no hereda la cancelación de quien la inició;
	// cada llamador deja de esperar cuando vence su propio ctx
	shared := context.WithoutCancel(ctx)
	ch := s.loads.DoChan(userID, func() (any, error) {
		state, err := s.store.Load(shared, userID)
		s.obs.ObserveStore("load", ignoreNotFound(err))
		return state, err
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return entity.StateTree{}, ctx.Err()
	case res = <-ch:
	}
	v, err := res.Val, res.Err
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return entity.StateTree{}, domain.ErrNotFound
		}
		return entity.StateTree{}, fmt.Errorf("load state: %w", err)
	}
	// el valor compartido no se entrega: cada llamador recibe su copia
	return v.(entity.StateTree).Clone(), nil
}

// Save reemplaza el árbol completo (sincronización desde un cliente).
func (s *Service) Save(ctx context.Context, userID string, state entity.StateTree) error {
	if userID == "" {
		return domain.ErrUnauthorized
	}
	err := s.store.Save(ctx, userID, normalize(state))
	s.obs.ObserveStore("save", err)
	s.loads.Forget(userID)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Dispatch carga el árbol, aplica la intención y guarda el resultado.
// Con Transactor la secuencia es atómica; sin él, la última escritura gana.
func (s *Service) Dispatch(ctx context.Context, userID string, in ledger.Intent) (entity.StateTree, error) {
	if userID == "" {
		return entity.StateTree{}, domain.ErrUnauthorized
	}
	started := time.Now()
	var out entity.StateTree
	run := func(store repository.StateStore) error {
		state, err := store.Load(ctx, userID)
		s.obs.ObserveStore("load", ignoreNotFound(err))
		switch {
		case errors.Is(err, domain.ErrNotFound):
			state = entity.EmptyState()
		case err != nil:
			return fmt.Errorf("load state: %w", err)
		}

		next, err := ledger.Apply(s.withDefaults(state), in, ledger.Env{Now: s.clock.Now(), NewID: s.newID})
		if err != nil {
			return err
		}
		err = store.Save(ctx, userID, next)
		s.obs.ObserveStore("save", err)
		if err != nil {
			return fmt.Errorf("save state: %w", err)
		}
		out = next
		return nil
	}

	var err error
	if s.tx != nil {
		err = s.tx.Run(ctx, run)
	} else {
		err = run(s.store)
	}
	s.loads.Forget(userID)
	s.obs.ObserveIntent(in.Kind(), time.Since(started), err)
	if err != nil {
		s.log.Warn().Str("user_id", userID).Str("intent", in.Kind()).Err(err).Msg("intención rechazada")
		return entity.StateTree{}, err
	}
	s.log.Debug().Str("user_id", userID).Str("intent", in.Kind()).Dur("took", time.Since(started)).Msg("intención aplicada")
	return out, nil
}

// view árbol para consultas: un usuario sin árbol ve uno vacío.
func (s *Service) view(ctx context.Context, userID string) (entity.StateTree, error) {
	state, err := s.Load(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		state, err = entity.EmptyState(), nil
	}
	if err != nil {
		return entity.StateTree{}, err
	}
	return s.withDefaults(state), nil
}

// withDefaults completa la moneda del perfil con la configurada.
func (s *Service) withDefaults(state entity.StateTree) entity.StateTree {
	state = normalize(state)
	if money.NormalizeCode(state.Profile.Currency) == "" {
		state.Profile.Currency = s.opts.DefaultCurrency
	}
	return state
}

// normalize reemplaza colecciones nulas por vacías.
func normalize(state entity.StateTree) entity.StateTree {
	if state.Customers == nil {
		state.Customers = []entity.Customer{}
	}
	if state.Jobs == nil {
		state.Jobs = []entity.Job{}
	}
	if state.Payments == nil {
		state.Payments = []entity.Transaction{}
	}
	if state.Vaults == nil {
		state.Vaults = []entity.Vault{}
	}
	if state.Reservations == nil {
		state.Reservations = entity.EmptyState().Reservations
	}
	return state
}

func ignoreNotFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}
