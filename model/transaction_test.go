package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"buy", KindBuy, false},
		{"SELL", KindSell, false},
		{"other-credit", KindOtherCredit, false},
		{"otherDebit", KindOtherDebit, false},
		{" otherdebit ", KindOtherDebit, false},
		{"buySell", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKind_Properties(t *testing.T) {
	assert.Equal(t, "/otherCredit", KindOtherCredit.Path())
	assert.Equal(t, "buy order", KindBuy.Label())
	assert.True(t, KindOtherDebit.UsesNameField())
	assert.False(t, KindSell.UsesNameField())
	assert.True(t, KindSell.IsIncome())
	assert.True(t, KindOtherCredit.IsIncome())
	assert.False(t, KindBuy.IsIncome())
	assert.False(t, Kind("buySell").Valid())
}

func TestTransaction_Due(t *testing.T) {
	txn := Transaction{Kind: KindBuy, Amount: mustDecimal(t, "1000"), PaymentStatus: StatusPending}
	assert.True(t, txn.Due().Equal(mustDecimal(t, "1000")), "no payments means the full amount is due")

	txn.Payments = append(txn.Payments, Payment{Amount: mustDecimal(t, "400"), ModeofPayment: ModeCash})
	assert.True(t, txn.TotalPaid().Equal(mustDecimal(t, "400")))
	assert.True(t, txn.Due().Equal(mustDecimal(t, "600")))
	assert.Equal(t, StatusPending, txn.PaymentStatus)

	txn.Payments = append(txn.Payments, Payment{Amount: mustDecimal(t, "600"), ModeofPayment: "HDFC"})
	assert.True(t, txn.Due().IsZero())
}

func TestTransaction_Counterparty(t *testing.T) {
	buy := Transaction{Kind: KindBuy}
	buy.SetCounterparty("Ram Traders")
	assert.Equal(t, "Ram Traders", buy.CustomerName)
	assert.Equal(t, "Ram Traders", buy.Counterparty())

	debit := Transaction{Kind: KindOtherDebit}
	debit.SetCounterparty(" electricity ")
	assert.Equal(t, " electricity ", debit.Name, "names are stored untouched")
	assert.Equal(t, " electricity ", debit.Counterparty())
}

func TestTransaction_SetStatus(t *testing.T) {
	deadline := time.Now().Add(48 * time.Hour)
	txn := Transaction{Kind: KindSell, PaymentStatus: StatusPending, PaymentDeadline: &deadline}

	assert.Error(t, txn.SetStatus(StatusConfirmed, " "))
	assert.Equal(t, StatusPending, txn.PaymentStatus)

	require.NoError(t, txn.SetStatus(StatusConfirmed, "SBI"))
	assert.Equal(t, StatusConfirmed, txn.PaymentStatus)
	assert.Equal(t, "SBI", txn.ModeofPayment)
	assert.Nil(t, txn.PaymentDeadline)

	require.NoError(t, txn.SetStatus(StatusPending, "ignored"))
	assert.Equal(t, StatusPending, txn.PaymentStatus)
	assert.Empty(t, txn.ModeofPayment)

	assert.Error(t, txn.SetStatus(PaymentStatus("Paid"), ""))
}

func TestTransaction_Deadlines(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-50 * time.Hour)
	soon := now.Add(24 * time.Hour)
	later := now.Add(5 * 24 * time.Hour)

	overdue := Transaction{PaymentStatus: StatusPending, PaymentDeadline: &past}
	assert.True(t, overdue.IsOverdue(now))
	assert.Equal(t, 2, overdue.OverdueDays(now))
	assert.False(t, overdue.IsUpcoming(now, 72*time.Hour))

	upcoming := Transaction{PaymentStatus: StatusPending, PaymentDeadline: &soon}
	assert.False(t, upcoming.IsOverdue(now))
	assert.True(t, upcoming.IsUpcoming(now, 72*time.Hour))
	assert.Equal(t, 0, upcoming.OverdueDays(now))

	farAway := Transaction{PaymentStatus: StatusPending, PaymentDeadline: &later}
	assert.False(t, farAway.IsUpcoming(now, 72*time.Hour))

	confirmed := Transaction{PaymentStatus: StatusConfirmed, PaymentDeadline: &past}
	assert.False(t, confirmed.IsOverdue(now))

	noDeadline := Transaction{PaymentStatus: StatusPending}
	assert.False(t, noDeadline.IsOverdue(now))
	assert.False(t, noDeadline.IsUpcoming(now, 72*time.Hour))
}

func TestTag(t *testing.T) {
	txns := Tag(KindSell, []Transaction{{ID: "a"}, {ID: "b"}})
	for _, txn := range txns {
		assert.Equal(t, KindSell, txn.Kind)
	}
}
