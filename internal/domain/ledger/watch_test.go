package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukena18/Haci-sub000/internal/domain/entity"
	"github.com/ukena18/Haci-sub000/internal/domain/ledger"
)

func watchState() entity.StateTree {
	overdue := fixedJob("j1", "c1", "300")
	overdue.CompletedAt = atp("2024-03-05T10:00:00Z")
	overdue.IsCompleted = true
	overdue.DueDays = intp(7)

	upcoming := debt("d1", "c1", "80")
	upcoming.Date = at("2024-03-14T00:00:00Z")
	upcoming.DueDays = intp(30)

	s := entity.EmptyState()
	s.Customers = []entity.Customer{{ID: "c1", Name: "Ayşe"}}
	s.Jobs = []entity.Job{overdue}
	s.Payments = []entity.Transaction{upcoming}
	return s
}

func TestWatchlist_OrdenYDias(t *testing.T) {
	items := ledger.Watchlist(watchState(), testNow, ledger.DuePolicy{})

	require.Len(t, items, 2)

	assert.Equal(t, ledger.WatchJob, items[0].Kind)
	assert.Equal(t, "j1", items[0].ID)
	assert.Equal(t, 10, items[0].DaysElapsed)
	assert.Equal(t, -3, items[0].DaysLeft)
	assert.Equal(t, 7, items[0].DueDays)
	assert.True(t, items[0].Overdue)
	assertDecimal(t, "300", items[0].Amount)

	assert.Equal(t, ledger.WatchDebt, items[1].Kind)
	assert.Equal(t, 29, items[1].DaysLeft)
	assert.False(t, items[1].Overdue)
}

func TestWatchlist_VenceHoyEsVencido(t *testing.T) {
	s := watchState()
	s.Jobs[0].DueDays = intp(10)

	items := ledger.Watchlist(s, testNow, ledger.DuePolicy{})

	require.NotEmpty(t, items)
	assert.Equal(t, 0, items[0].DaysLeft)
	assert.True(t, items[0].Overdue)
}

func TestWatchlist_Exclusiones(t *testing.T) {
	s := watchState()

	paid := fixedJob("j2", "c1", "100")
	paid.DueDays = intp(1)
	paid.IsPaid = true

	untracked := fixedJob("j3", "c1", "100")
	untracked.DueDays = intp(1)
	untracked.TrackPayment = false

	noTerm := fixedJob("j4", "c1", "100")

	zero := fixedJob("j5", "c1", "0")
	zero.DueDays = intp(1)

	settled := debt("d2", "c1", "10")
	settled.DueDays = intp(1)
	settled.Settled = true

	dismissed := debt("d3", "c1", "10")
	dismissed.DueDays = intp(1)
	dismissed.DueDismissed = true

	s.Jobs = append(s.Jobs, paid, untracked, noTerm, zero)
	s.Payments = append(s.Payments, settled, dismissed, payment("p1", "c1", "v1", "5"))

	items := ledger.Watchlist(s, testNow, ledger.DuePolicy{})

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	assert.ElementsMatch(t, []string{"j1", "d1"}, ids)
}

func TestWatchlist_DescartarYRestaurar(t *testing.T) {
	base := watchState()
	before := ledger.Watchlist(base, testNow, ledger.DuePolicy{})

	dismissed, err := ledger.Apply(base, ledger.DismissWatchItem{ItemKind: ledger.WatchJob, ID: "j1"}, ledger.Env{Now: testNow})
	require.NoError(t, err)

	active := ledger.Watchlist(dismissed, testNow, ledger.DuePolicy{})
	require.Len(t, active, 1)
	assert.Equal(t, "d1", active[0].ID)

	hidden := ledger.DismissedItems(dismissed, testNow, ledger.DuePolicy{})
	require.Len(t, hidden, 1)
	assert.True(t, hidden[0].Dismissed)

	job, _ := dismissed.FindJob("j1")
	assert.Equal(t, 7, *job.DueDays, "descartar no toca el plazo")

	restored, err := ledger.Apply(dismissed, ledger.RestoreWatchItem{ItemKind: ledger.WatchJob, ID: "j1"}, ledger.Env{Now: testNow})
	require.NoError(t, err)

	after := ledger.Watchlist(restored, testNow, ledger.DuePolicy{})
	require.Len(t, after, 2)
	assert.Equal(t, before[0].DaysLeft, after[0].DaysLeft, "restaurar no reinicia los días")
	assert.Equal(t, before[0].DaysElapsed, after[0].DaysElapsed)
}

func TestWatchlist_DesempateCreacionEId(t *testing.T) {
	s := entity.EmptyState()
	a := debt("b", "c1", "10")
	a.DueDays = intp(5)
	b := debt("a", "c1", "10")
	b.DueDays = intp(5)
	c := debt("c", "c1", "10")
	c.DueDays = intp(5)
	c.CreatedAt = a.CreatedAt.Add(-time.Minute)
	s.Payments = []entity.Transaction{a, b, c}

	items := ledger.Watchlist(s, testNow, ledger.DuePolicy{})

	require.Len(t, items, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{items[0].ID, items[1].ID, items[2].ID})
}

func TestWatchlist_FechaExplicitaPrevalece(t *testing.T) {
	s := entity.EmptyState()
	x := debt("d1", "c1", "10")
	x.Date = at("2024-03-10T00:00:00Z")
	x.DueDays = intp(100)
	x.DueDate = atp("2024-03-20T00:00:00Z")
	s.Payments = []entity.Transaction{x}

	items := ledger.Watchlist(s, testNow, ledger.DuePolicy{})

	require.Len(t, items, 1)
	assert.Equal(t, 10, items[0].DueDays)
	assert.Equal(t, 5, items[0].DaysLeft)
}

func TestDueDate_SaltarFinDeSemana(t *testing.T) {
	friday := at("2024-03-01T00:00:00Z")

	plain, ok := ledger.DueDate(friday, intp(1), nil, time.UTC, ledger.DuePolicy{})
	require.True(t, ok)
	assert.Equal(t, time.Saturday, plain.Weekday())

	skipped, ok := ledger.DueDate(friday, intp(1), nil, time.UTC, ledger.DuePolicy{SkipWeekends: true})
	require.True(t, ok)
	assert.Equal(t, time.Monday, skipped.Weekday())
	assert.Equal(t, 4, skipped.Day())

	_, ok = ledger.DueDate(friday, nil, nil, time.UTC, ledger.DuePolicy{})
	assert.False(t, ok, "sin plazo no hay vencimiento")
}

func TestNextBusinessDay(t *testing.T) {
	wed := at("2024-03-06T00:00:00Z")
	sun := at("2024-03-10T00:00:00Z")
	assert.Equal(t, wed, ledger.NextBusinessDay(wed))
	assert.Equal(t, time.Monday, ledger.NextBusinessDay(sun).Weekday())
}

func TestDaysElapsed_NuncaNegativo(t *testing.T) {
	assert.Equal(t, 0, ledger.DaysElapsed(testNow.Add(72*time.Hour), testNow))
	assert.Equal(t, 1, ledger.DaysElapsed(at("2024-03-14T23:00:00Z"), testNow))
}
