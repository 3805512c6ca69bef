package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/ukena18/Haci-sub000/internal/domain"
	"github.com/ukena18/Haci-sub000/internal/domain/entity"
)

// VaultTotals efectivo real de una caja.
type VaultTotals struct {
	TotalPayment     decimal.Decimal
	TransactionCount int
}

// ComputeVaultTotals suma solo los cobros que referencian la caja; las deudas
// y los movimientos de otras cajas no la afectan.
func ComputeVaultTotals(vaultID string, txs []entity.Transaction) VaultTotals {
	out := VaultTotals{TotalPayment: decimal.Zero}
	for _, t := range txs {
		if t.Type != entity.TransactionPayment || t.VaultID != vaultID {
			continue
		}
		out.TotalPayment = out.TotalPayment.Add(t.Amount)
		out.TransactionCount++
	}
	return out
}

// VaultReferenceCount movimientos de cualquier tipo que apuntan a la caja.
func VaultReferenceCount(vaultID string, txs []entity.Transaction) int {
	n := 0
	for _, t := range txs {
		if t.VaultID == vaultID {
			n++
		}
	}
	return n
}

// CheckVaultDeletion valida que la caja pueda eliminarse: nunca la activa,
// nunca una con movimientos.
func CheckVaultDeletion(vaultID, activeVaultID string, txs []entity.Transaction) error {
	if vaultID == activeVaultID {
		return domain.ErrVaultActive
	}
	if VaultReferenceCount(vaultID, txs) > 0 {
		return domain.ErrVaultInUse
	}
	return nil
}
