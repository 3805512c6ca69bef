package ledger_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukena18/Haci-sub000/internal/domain"
	"github.com/ukena18/Haci-sub000/internal/domain/entity"
	"github.com/ukena18/Haci-sub000/internal/domain/ledger"
)

// seqEnv genera IDs predecibles: id-1, id-2, ...
func seqEnv(now time.Time) ledger.Env {
	n := 0
	return ledger.Env{
		Now: now,
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
}

func apply(t *testing.T, s entity.StateTree, env ledger.Env, intents ...ledger.Intent) entity.StateTree {
	t.Helper()
	for _, in := range intents {
		var err error
		s, err = ledger.Apply(s, in, env)
		require.NoError(t, err, in.Kind())
	}
	return s
}

func baseState(t *testing.T) entity.StateTree {
	env := seqEnv(testNow)
	return apply(t, entity.EmptyState(), env,
		ledger.CreateCustomer{ID: "c1", CustomerFields: ledger.CustomerFields{Name: "Mehmet", Currency: "TRY"}},
		ledger.CreateVault{ID: "v1", Name: "Caja principal", Currency: "TRY"},
	)
}

func TestApply_NoMutaElOriginal(t *testing.T) {
	s := baseState(t)
	s.Jobs = []entity.Job{fixedJob("j1", "c1", "100")}

	next, err := ledger.Apply(s, ledger.DismissWatchItem{ItemKind: ledger.WatchJob, ID: "j1"}, seqEnv(testNow))

	require.NoError(t, err)
	assert.False(t, s.Jobs[0].DueDismissed, "el árbol original no cambia")
	assert.True(t, next.Jobs[0].DueDismissed)
}

func TestApply_ErrorDevuelveEstadoSinCambios(t *testing.T) {
	s := baseState(t)

	next, err := ledger.Apply(s, ledger.CollectPayment{CustomerID: "c1", Amount: d("-5")}, seqEnv(testNow))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Len(t, next.Payments, 0)
}

func TestCreateVault_PrimeraEsActiva(t *testing.T) {
	s := baseState(t)
	assert.Equal(t, "v1", s.ActiveVaultID)

	s = apply(t, s, seqEnv(testNow), ledger.CreateVault{ID: "v2", Name: "Dólares", Currency: "usd"})
	assert.Equal(t, "v1", s.ActiveVaultID)
	v, ok := s.FindVault("v2")
	require.True(t, ok)
	assert.Equal(t, "USD", v.Currency)
}

func TestMarkJobPaid_GeneraCobroYCuadraSaldo(t *testing.T) {
	s := baseState(t)
	env := seqEnv(testNow)
	s = apply(t, s, env,
		ledger.SaveJob{Job: fixedJob("", "c1", "300")},
	)
	require.Len(t, s.Jobs, 1)
	jobID := s.Jobs[0].ID

	s = apply(t, s, env, ledger.MarkJobPaid{JobID: jobID})

	require.Len(t, s.Payments, 1)
	tx := s.Payments[0]
	assert.Equal(t, entity.SourceJob, tx.Source)
	assert.Equal(t, jobID, tx.JobID)
	assert.Equal(t, "v1", tx.VaultID)
	assert.Equal(t, entity.MethodCash, tx.Method)
	assertDecimal(t, "300", tx.Amount)

	totals := ledger.CustomerTotals("c1", s.Jobs, s.Payments, testNow, ledger.Options{CountPaidJobs: true})
	assertDecimal(t, "0", totals.Balance)
	assertDecimal(t, "300", ledger.ComputeVaultTotals("v1", s.Payments).TotalPayment)

	_, err := ledger.Apply(s, ledger.MarkJobPaid{JobID: jobID}, env)
	assert.ErrorIs(t, err, domain.ErrAlreadyPaid)

	_, err = ledger.Apply(s, ledger.DeleteTransaction{ID: tx.ID}, env)
	assert.ErrorIs(t, err, domain.ErrGeneratedTransaction)

	_, err = ledger.Apply(s, ledger.DeleteJob{ID: jobID}, env)
	assert.ErrorIs(t, err, domain.ErrJobReferenced)
}

func TestMarkJobPaid_TotalCeroNoGeneraCobro(t *testing.T) {
	s := baseState(t)
	s.Vaults = nil
	s.ActiveVaultID = ""
	s = apply(t, s, seqEnv(testNow), ledger.SaveJob{Job: fixedJob("j1", "c1", "0")}, ledger.MarkJobPaid{JobID: "j1"})

	assert.Empty(t, s.Payments)
	assert.True(t, s.Jobs[0].IsPaid)
}

func TestCollectPayment_MonedaDistintaSeRechaza(t *testing.T) {
	s := baseState(t)
	s = apply(t, s, seqEnv(testNow), ledger.CreateVault{ID: "usd", Name: "USD", Currency: "USD"})

	_, err := ledger.Apply(s, ledger.CollectPayment{CustomerID: "c1", VaultID: "usd", Amount: d("10")}, seqEnv(testNow))

	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
}

func TestCollectPayment_SinCaja(t *testing.T) {
	s := baseState(t)
	s.ActiveVaultID = ""

	_, err := ledger.Apply(s, ledger.CollectPayment{CustomerID: "c1", Amount: d("10")}, seqEnv(testNow))

	assert.ErrorIs(t, err, domain.ErrVaultRequired)
}

func TestUpdateCustomer_NoCambiaMonedaConCobros(t *testing.T) {
	s := baseState(t)
	s = apply(t, s, seqEnv(testNow), ledger.CollectPayment{CustomerID: "c1", Amount: d("10")})

	_, err := ledger.Apply(s, ledger.UpdateCustomer{ID: "c1", CustomerFields: ledger.CustomerFields{Name: "Mehmet", Currency: "EUR"}}, seqEnv(testNow))
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)

	s = apply(t, s, seqEnv(testNow), ledger.UpdateCustomer{ID: "c1", CustomerFields: ledger.CustomerFields{Name: "Mehmet Ali", Currency: "TRY"}})
	c, _ := s.FindCustomer("c1")
	assert.Equal(t, "Mehmet Ali", c.Name)
}

func TestDeleteCustomer_Cascada(t *testing.T) {
	s := baseState(t)
	env := seqEnv(testNow)
	s = apply(t, s, env,
		ledger.CreateCustomer{ID: "c2", CustomerFields: ledger.CustomerFields{Name: "Otro"}},
		ledger.SaveJob{Job: fixedJob("j1", "c1", "100")},
		ledger.SaveJob{Job: fixedJob("j2", "c2", "100")},
		ledger.MarkJobPaid{JobID: "j1"},
		ledger.AddDebt{CustomerID: "c1", Amount: d("5")},
	)

	s = apply(t, s, env, ledger.DeleteCustomer{ID: "c1"})

	assert.Len(t, s.Customers, 1)
	require.Len(t, s.Jobs, 1)
	assert.Equal(t, "j2", s.Jobs[0].ID)
	assert.Empty(t, s.Payments)
	assertDecimal(t, "0", ledger.ComputeVaultTotals("v1", s.Payments).TotalPayment)
}

func TestClockInOut_Sesiones(t *testing.T) {
	s := baseState(t)
	job := entity.Job{ID: "j1", CustomerID: "c1", Costing: entity.ClockCosting{Rate: d("200")}, TrackPayment: true}
	s = apply(t, s, seqEnv(testNow), ledger.SaveJob{Job: job})

	s = apply(t, s, seqEnv(testNow), ledger.ClockIn{JobID: "j1"})
	_, err := ledger.Apply(s, ledger.ClockIn{JobID: "j1"}, seqEnv(testNow))
	assert.ErrorIs(t, err, domain.ErrClockRunning)

	s = apply(t, s, seqEnv(testNow.Add(90*time.Minute)), ledger.ClockOut{JobID: "j1"})
	_, err = ledger.Apply(s, ledger.ClockOut{JobID: "j1"}, seqEnv(testNow))
	assert.ErrorIs(t, err, domain.ErrClockStopped)

	c := s.Jobs[0].Costing.(entity.ClockCosting)
	require.Len(t, c.Sessions, 1)
	assert.False(t, c.IsRunning)
	assertDecimal(t, "300", ledger.JobTotal(s.Jobs[0], testNow.Add(5*time.Hour)))
}

func TestClockIn_ModoIncorrecto(t *testing.T) {
	s := baseState(t)
	s = apply(t, s, seqEnv(testNow), ledger.SaveJob{Job: fixedJob("j1", "c1", "10")})

	_, err := ledger.Apply(s, ledger.ClockIn{JobID: "j1"}, seqEnv(testNow))

	assert.ErrorIs(t, err, domain.ErrNotClockMode)
}

func TestCompleteJob_CierraCronometro(t *testing.T) {
	s := baseState(t)
	job := entity.Job{ID: "j1", CustomerID: "c1", Costing: entity.ClockCosting{Rate: d("60")}}
	s = apply(t, s, seqEnv(testNow), ledger.SaveJob{Job: job}, ledger.ClockIn{JobID: "j1"})

	s = apply(t, s, seqEnv(testNow.Add(time.Hour)), ledger.CompleteJob{JobID: "j1"})

	j := s.Jobs[0]
	assert.True(t, j.IsCompleted)
	require.NotNil(t, j.CompletedAt)
	assert.False(t, j.Costing.(entity.ClockCosting).IsRunning)
	assertDecimal(t, "60", ledger.JobTotal(j, testNow.Add(10*time.Hour)))

	_, err := ledger.Apply(s, ledger.CompleteJob{JobID: "j1"}, seqEnv(testNow))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestSaveJob_ConservaCicloDeVidaYPlazoDelPerfil(t *testing.T) {
	s := baseState(t)
	s.Profile.DueDays = intp(15)
	s = apply(t, s, seqEnv(testNow), ledger.SaveJob{Job: fixedJob("j1", "c1", "100")}, ledger.CompleteJob{JobID: "j1"})

	require.NotNil(t, s.Jobs[0].DueDays)
	assert.Equal(t, 15, *s.Jobs[0].DueDays)

	edit := fixedJob("j1", "c1", "120")
	edit.DueDays = intp(3)
	s = apply(t, s, seqEnv(testNow), ledger.SaveJob{Job: edit})

	assert.True(t, s.Jobs[0].IsCompleted, "editar no reinicia el ciclo de vida")
	assert.Equal(t, 3, *s.Jobs[0].DueDays)
	assertDecimal(t, "120", ledger.JobTotal(s.Jobs[0], testNow))
}

func TestSaveJob_EditarNoDetieneCronometro(t *testing.T) {
	s := baseState(t)
	job := entity.Job{ID: "j1", CustomerID: "c1", Costing: entity.ClockCosting{Rate: d("100")}}
	s = apply(t, s, seqEnv(testNow), ledger.SaveJob{Job: job}, ledger.ClockIn{JobID: "j1"})

	job.Title = "renombrado"
	s = apply(t, s, seqEnv(testNow), ledger.SaveJob{Job: job})

	c := s.Jobs[0].Costing.(entity.ClockCosting)
	assert.True(t, c.IsRunning)
	require.NotNil(t, c.ClockInAt)
	assertDecimal(t, "100", ledger.JobTotal(s.Jobs[0], testNow.Add(time.Hour)))
}

func TestSaveJob_Validaciones(t *testing.T) {
	s := baseState(t)

	_, err := ledger.Apply(s, ledger.SaveJob{Job: entity.Job{CustomerID: "c1"}}, seqEnv(testNow))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ledger.Apply(s, ledger.SaveJob{Job: fixedJob("", "", "1")}, seqEnv(testNow))
	assert.ErrorIs(t, err, domain.ErrCustomerNeeded)

	_, err = ledger.Apply(s, ledger.SaveJob{Job: fixedJob("", "nadie", "1")}, seqEnv(testNow))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddDebtYSettle(t *testing.T) {
	s := baseState(t)
	s = apply(t, s, seqEnv(testNow), ledger.AddDebt{ID: "d1", CustomerID: "c1", Amount: d("40"), DueDays: intp(3)})

	require.Len(t, ledger.Watchlist(s, testNow, ledger.DuePolicy{}), 1)

	s = apply(t, s, seqEnv(testNow), ledger.SettleDebt{ID: "d1"})
	assert.Empty(t, ledger.Watchlist(s, testNow, ledger.DuePolicy{}))

	_, err := ledger.Apply(s, ledger.SettleDebt{ID: "d1"}, seqEnv(testNow))
	assert.ErrorIs(t, err, domain.ErrConflict)

	s = apply(t, s, seqEnv(testNow), ledger.DeleteTransaction{ID: "d1"})
	assert.Empty(t, s.Payments)
}

func TestAddDebt_SinVigilancia(t *testing.T) {
	s := baseState(t)
	s = apply(t, s, seqEnv(testNow), ledger.AddDebt{CustomerID: "c1", Amount: d("40"), DueDays: intp(3), Untracked: true})

	assert.Empty(t, ledger.Watchlist(s, testNow, ledger.DuePolicy{}))
}

func TestDeleteVault_Reglas(t *testing.T) {
	s := baseState(t)
	env := seqEnv(testNow)
	s = apply(t, s, env,
		ledger.CreateVault{ID: "v2", Name: "Secundaria"},
		ledger.CreateVault{ID: "v3", Name: "Vacía"},
		ledger.CollectPayment{CustomerID: "c1", VaultID: "v2", Amount: d("5")},
	)

	_, err := ledger.Apply(s, ledger.DeleteVault{ID: "v1"}, env)
	assert.ErrorIs(t, err, domain.ErrVaultActive)

	_, err = ledger.Apply(s, ledger.DeleteVault{ID: "v2"}, env)
	assert.ErrorIs(t, err, domain.ErrVaultInUse)

	s = apply(t, s, env, ledger.DeleteVault{ID: "v3"}, ledger.SetActiveVault{ID: "v2"}, ledger.RenameVault{ID: "v2", Name: "Principal"})
	assert.Len(t, s.Vaults, 2)
	assert.Equal(t, "v2", s.ActiveVaultID)
	v, _ := s.FindVault("v2")
	assert.Equal(t, "Principal", v.Name)
}

func TestUpdateProfile_MonedaInvalida(t *testing.T) {
	s := baseState(t)

	_, err := ledger.Apply(s, ledger.UpdateProfile{Profile: entity.Profile{Currency: "nope"}}, seqEnv(testNow))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	s = apply(t, s, seqEnv(testNow), ledger.UpdateProfile{Profile: entity.Profile{BusinessName: "Taller", Currency: "eur"}})
	assert.Equal(t, "EUR", s.Profile.Currency)
}

func TestUpdateProfile_MonedaHeredadaConCobros(t *testing.T) {
	s := apply(t, entity.EmptyState(), seqEnv(testNow),
		ledger.UpdateProfile{Profile: entity.Profile{Currency: "TRY"}},
		ledger.CreateCustomer{ID: "c1", CustomerFields: ledger.CustomerFields{Name: "Sin moneda"}},
		ledger.CreateVault{ID: "v1", Name: "Kasa"},
		ledger.CollectPayment{ID: "t1", CustomerID: "c1", Amount: d("10")},
	)

	_, err := ledger.Apply(s, ledger.UpdateProfile{Profile: entity.Profile{Currency: "USD"}}, seqEnv(testNow))
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)

	s = apply(t, s, seqEnv(testNow), ledger.UpdateProfile{Profile: entity.Profile{BusinessName: "Taller"}})
	assert.Equal(t, "TRY", s.Profile.Currency, "sin moneda se conserva la anterior")
}

func TestEnv_IDsDerivadosDelTiempo(t *testing.T) {
	s := apply(t, entity.EmptyState(), ledger.Env{Now: testNow},
		ledger.CreateCustomer{CustomerFields: ledger.CustomerFields{Name: "Sin ID"}})

	require.Len(t, s.Customers, 1)
	assert.Len(t, s.Customers[0].ID, 36)
	assert.Equal(t, byte('7'), s.Customers[0].ID[14], "UUID versión 7")
}
