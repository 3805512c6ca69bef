package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukena18/Haci-sub000/internal/domain/entity"
	"github.com/ukena18/Haci-sub000/internal/domain/ledger"
)

// permutations todas las ordenaciones de los índices 0..n-1.
func permutations(n int) [][]int {
	if n == 0 {
		return [][]int{{}}
	}
	var out [][]int
	for _, p := range permutations(n - 1) {
		for i := 0; i <= len(p); i++ {
			q := make([]int, 0, n)
			q = append(q, p[:i]...)
			q = append(q, n-1)
			q = append(q, p[i:]...)
			out = append(out, q)
		}
	}
	return out
}

func reorder[T any](in []T, order []int) []T {
	out := make([]T, len(order))
	for i, idx := range order {
		out[i] = in[idx]
	}
	return out
}

func TestJobTotal_OrdenDeRepuestosNoAltera(t *testing.T) {
	parts := []entity.Part{
		{Name: "cable", Qty: dp("2"), UnitPrice: dp("12.5")},
		{Name: "llave", Price: d("40")},
		{Name: "cinta", Qty: dp("0.5"), UnitPrice: dp("3.33")},
	}
	base := manualJob("j1", "c1", "09:00", "12:00", "30", "100")

	for _, order := range permutations(len(parts)) {
		job := base
		job.Parts = reorder(parts, order)
		assertDecimal(t, "316.67", ledger.JobTotal(job, testNow), "orden %v", order)
	}
}

func TestJobTotal_OrdenDeSesionesNoAltera(t *testing.T) {
	sessions := []entity.Session{
		{InAt: at("2024-03-15T10:00:00Z"), OutAt: at("2024-03-15T11:30:00Z")},
		{InAt: at("2024-03-14T08:00:00Z"), OutAt: at("2024-03-14T10:00:00Z")},
	}

	cases := []struct {
		name  string
		order []int
	}{
		{"cronologico", []int{1, 0}},
		{"inverso", []int{0, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			job := entity.Job{
				ID:      "j1",
				Costing: entity.ClockCosting{Rate: d("200"), Sessions: reorder(sessions, tc.order)},
			}
			cost := ledger.ResolveJob(job, testNow)
			assertDecimal(t, "3.5", cost.Hours)
			assertDecimal(t, "700", cost.Total)
		})
	}
}

func TestContratos_Idempotentes(t *testing.T) {
	s := watchState()
	s.Vaults = []entity.Vault{{ID: "v1", Name: "Kasa"}}
	s.Jobs = append(s.Jobs, manualJob("j2", "c1", "08:00", "10:00", "0", "150"))
	s.Payments = append(s.Payments, payment("t1", "c1", "v1", "120"), payment("t2", "c1", "v1", "30"))
	opts := ledger.Options{CountPaidJobs: true}

	t.Run("JobTotal", func(t *testing.T) {
		for _, j := range s.Jobs {
			first := ledger.JobTotal(j, testNow)
			assert.True(t, first.Equal(ledger.JobTotal(j, testNow)), j.ID)
		}
	})
	t.Run("CustomerTotals", func(t *testing.T) {
		first := ledger.CustomerTotals("c1", s.Jobs, s.Payments, testNow, opts)
		second := ledger.CustomerTotals("c1", s.Jobs, s.Payments, testNow, opts)
		assert.True(t, first.TotalDebt.Equal(second.TotalDebt))
		assert.True(t, first.TotalPayment.Equal(second.TotalPayment))
		assert.True(t, first.Balance.Equal(second.Balance))
		assertDecimal(t, "-530", first.Balance)
	})
	t.Run("Watchlist", func(t *testing.T) {
		first := ledger.Watchlist(s, testNow, ledger.DuePolicy{})
		require.NotEmpty(t, first)
		assert.Equal(t, first, ledger.Watchlist(s, testNow, ledger.DuePolicy{}))
	})
	t.Run("ComputeVaultTotals", func(t *testing.T) {
		first := ledger.ComputeVaultTotals("v1", s.Payments)
		second := ledger.ComputeVaultTotals("v1", s.Payments)
		assert.True(t, first.TotalPayment.Equal(second.TotalPayment))
		assert.Equal(t, first.TransactionCount, second.TransactionCount)
		assertDecimal(t, "150", first.TotalPayment)
	})
}
