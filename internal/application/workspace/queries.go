package workspace

import (
	"context"
	"fmt"

	"github.com/ukena18/Haci-sub000/internal/application/dto"
	"github.com/ukena18/Haci-sub000/internal/domain"
	"github.com/ukena18/Haci-sub000/internal/domain/entity"
	"github.com/ukena18/Haci-sub000/internal/domain/ledger"
)

const dayLayout = "2006-01-02"

// CustomerTotals saldo canónico de un cliente.
func (s *Service) CustomerTotals(ctx context.Context, userID, customerID string) (dto.CustomerTotalsResponse, error) {
	state, err := s.view(ctx, userID)
	if err != nil {
		return dto.CustomerTotalsResponse{}, err
	}
	c, ok := state.FindCustomer(customerID)
	if !ok {
		return dto.CustomerTotalsResponse{}, domain.ErrNotFound
	}
	t := ledger.CustomerTotals(customerID, state.Jobs, state.Payments, s.clock.Now(), s.opts.Totals)
	code := ledger.EffectiveCurrency(c, state.Profile)
	return dto.CustomerTotalsResponse{
		CustomerID:   c.ID,
		CustomerName: c.FullName(),
		Currency:     code,
		TotalDebt:    t.TotalDebt,
		TotalPayment: t.TotalPayment,
		Balance:      t.Balance,
		BalanceText:  s.formatter.Format(t.Balance, code),
	}, nil
}

// JobCost costeo de un trabajo ahora; con cronómetro abierto el total es "vivo".
func (s *Service) JobCost(ctx context.Context, userID, jobID string) (dto.JobCostResponse, error) {
	state, err := s.view(ctx, userID)
	if err != nil {
		return dto.JobCostResponse{}, err
	}
	job, ok := state.FindJob(jobID)
	if !ok {
		return dto.JobCostResponse{}, domain.ErrNotFound
	}
	now := s.clock.Now()
	cost := ledger.ResolveJob(job, now)
	c, _ := state.FindCustomer(job.CustomerID)
	code := ledger.EffectiveCurrency(c, state.Profile)

	out := dto.JobCostResponse{
		JobID:     job.ID,
		Mode:      string(cost.Mode),
		Labor:     cost.Labor,
		Parts:     cost.Parts,
		Total:     cost.Total,
		TotalText: s.formatter.Format(cost.Total, code),
		Currency:  code,
		Live:      cost.Live,
		At:        now,
	}
	if cost.HasDuration {
		h := cost.Hours.Round(2)
		out.Hours = &h
	}
	return out, nil
}

// Watchlist cobros vigilados ordenados por días restantes.
func (s *Service) Watchlist(ctx context.Context, userID string) ([]dto.WatchItemResponse, error) {
	state, err := s.view(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := ledger.Watchlist(state, s.clock.Now(), s.opts.Policy)
	overdue := 0
	for _, it := range items {
		if it.Overdue {
			overdue++
		}
	}
	s.obs.SetOverdue(overdue)
	return s.toWatchResponses(state, items), nil
}

// DismissedItems elementos descartados que se pueden restaurar.
func (s *Service) DismissedItems(ctx context.Context, userID string) ([]dto.WatchItemResponse, error) {
	state, err := s.view(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toWatchResponses(state, ledger.DismissedItems(state, s.clock.Now(), s.opts.Policy)), nil
}

// VaultTotals efectivo real de una caja.
func (s *Service) VaultTotals(ctx context.Context, userID, vaultID string) (dto.VaultResponse, error) {
	state, err := s.view(ctx, userID)
	if err != nil {
		return dto.VaultResponse{}, err
	}
	v, ok := state.FindVault(vaultID)
	if !ok {
		return dto.VaultResponse{}, domain.ErrNotFound
	}
	return s.toVaultResponse(state, v), nil
}

// ListVaults cajas del usuario con sus totales.
func (s *Service) ListVaults(ctx context.Context, userID string) ([]dto.VaultResponse, error) {
	state, err := s.view(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VaultResponse, 0, len(state.Vaults))
	for _, v := range state.Vaults {
		out = append(out, s.toVaultResponse(state, v))
	}
	return out, nil
}

// PublishShare publica (o actualiza) la vista pública del cliente con los
// totales canónicos y su estado de cuenta.
func (s *Service) PublishShare(ctx context.Context, userID, customerID string) (entity.ShareSnapshot, error) {
	state, err := s.view(ctx, userID)
	if err != nil {
		return entity.ShareSnapshot{}, err
	}
	c, ok := state.FindCustomer(customerID)
	if !ok {
		return entity.ShareSnapshot{}, domain.ErrNotFound
	}
	now := s.clock.Now()
	t := ledger.CustomerTotals(customerID, state.Jobs, state.Payments, now, s.opts.Totals)
	snap := entity.ShareSnapshot{
		CustomerID:   c.ID,
		CustomerName: c.FullName(),
		BusinessName: state.Profile.BusinessName,
		Currency:     ledger.EffectiveCurrency(c, state.Profile),
		TotalDebt:    t.TotalDebt,
		TotalPayment: t.TotalPayment,
		Balance:      t.Balance,
		Lines:        ledger.CustomerStatement(customerID, state.Jobs, state.Payments, now, s.opts.Totals),
		PublishedAt:  now.UTC(),
	}
	shareID, err := s.store.PublishSnapshot(ctx, userID, snap)
	s.obs.ObserveStore("publish", err)
	if err != nil {
		return entity.ShareSnapshot{}, fmt.Errorf("publish snapshot: %w", err)
	}
	snap.ShareID = shareID
	s.log.Info().Str("user_id", userID).Str("customer_id", customerID).Str("share_id", shareID).Msg("vista pública publicada")
	return snap, nil
}

// GetShare vista pública por shareId; no requiere usuario.
func (s *Service) GetShare(ctx context.Context, shareID string) (entity.ShareSnapshot, error) {
	if shareID == "" {
		return entity.ShareSnapshot{}, domain.ErrNotFound
	}
	snap, err := s.store.GetSnapshot(ctx, shareID)
	s.obs.ObserveStore("get_snapshot", ignoreNotFound(err))
	if err != nil {
		return entity.ShareSnapshot{}, err
	}
	return snap, nil
}

func (s *Service) toVaultResponse(state entity.StateTree, v entity.Vault) dto.VaultResponse {
	t := ledger.ComputeVaultTotals(v.ID, state.Payments)
	return dto.VaultResponse{
		ID:               v.ID,
		Name:             v.Name,
		Currency:         v.Currency,
		Active:           v.ID == state.ActiveVaultID,
		TotalPayment:     t.TotalPayment,
		TotalText:        s.formatter.Format(t.TotalPayment, v.Currency),
		TransactionCount: t.TransactionCount,
	}
}

func (s *Service) toWatchResponses(state entity.StateTree, items []ledger.WatchItem) []dto.WatchItemResponse {
	out := make([]dto.WatchItemResponse, 0, len(items))
	for _, it := range items {
		c, _ := state.FindCustomer(it.CustomerID)
		code := ledger.EffectiveCurrency(c, state.Profile)
		out = append(out, dto.WatchItemResponse{
			Kind:         string(it.Kind),
			ID:           it.ID,
			CustomerID:   it.CustomerID,
			CustomerName: c.FullName(),
			Title:        it.Title,
			Amount:       it.Amount,
			AmountText:   s.formatter.Format(it.Amount, code),
			Currency:     code,
			BaseDate:     it.BaseDate.Format(dayLayout),
			DueDate:      it.DueDate.Format(dayLayout),
			DueDays:      it.DueDays,
			DaysElapsed:  it.DaysElapsed,
			DaysLeft:     it.DaysLeft,
			Overdue:      it.Overdue,
			Dismissed:    it.Dismissed,
		})
	}
	return out
}
