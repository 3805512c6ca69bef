package ledger_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ukena18/Haci-sub000/internal/domain/entity"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func atp(s string) *time.Time {
	t := at(s)
	return &t
}

func intp(v int) *int { return &v }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	msg := fmt.Sprintf("esperado %s, obtenido %s", want, got.String())
	if len(msgAndArgs) > 0 {
		if format, ok := msgAndArgs[0].(string); ok {
			msg += ": " + fmt.Sprintf(format, msgAndArgs[1:]...)
		}
	}
	assert.True(t, d(want).Equal(got), msg)
}

func manualJob(id, customerID, start, end string, breakMin, rate string) entity.Job {
	return entity.Job{
		ID:           id,
		CustomerID:   customerID,
		Title:        "trabajo " + id,
		Costing:      entity.ManualCosting{Start: start, End: end, BreakMinutes: d(breakMin), Rate: d(rate)},
		TrackPayment: true,
		CreatedAt:    testNow.Add(-48 * time.Hour),
	}
}

func fixedJob(id, customerID, price string) entity.Job {
	return entity.Job{
		ID:           id,
		CustomerID:   customerID,
		Title:        "trabajo " + id,
		Costing:      entity.FixedCosting{FixedPrice: d(price)},
		TrackPayment: true,
		CreatedAt:    testNow.Add(-48 * time.Hour),
	}
}

func payment(id, customerID, vaultID, amount string) entity.Transaction {
	return entity.Transaction{
		ID:           id,
		CustomerID:   customerID,
		VaultID:      vaultID,
		Type:         entity.TransactionPayment,
		Amount:       d(amount),
		Method:       entity.MethodCash,
		Date:         testNow.Add(-time.Hour),
		TrackPayment: true,
		CreatedAt:    testNow.Add(-time.Hour),
	}
}

func debt(id, customerID, amount string) entity.Transaction {
	return entity.Transaction{
		ID:           id,
		CustomerID:   customerID,
		Type:         entity.TransactionDebt,
		Amount:       d(amount),
		Date:         testNow.Add(-time.Hour),
		TrackPayment: true,
		CreatedAt:    testNow.Add(-time.Hour),
	}
}
