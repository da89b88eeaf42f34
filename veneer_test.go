package veneer

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/nitesh7079/veneer/aggregate"
	"github.com/nitesh7079/veneer/api"
	apimodel "github.com/nitesh7079/veneer/api/model"
	"github.com/nitesh7079/veneer/config"
	"github.com/nitesh7079/veneer/internal/apierror"
	"github.com/nitesh7079/veneer/internal/clock"
	"github.com/nitesh7079/veneer/internal/fakeapi"
	"github.com/nitesh7079/veneer/internal/session"
	"github.com/nitesh7079/veneer/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wacul/ptr"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
)

var start = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type harness struct {
	v     *Veneer
	clock *clock.Mock
	store *session.FileStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mock := clock.NewMock(start)
	backend := fakeapi.NewAPI(config.DevServerConfig{}, fakeapi.WithClock(mock), fakeapi.WithBcryptCost(bcrypt.MinCost))
	srv := httptest.NewServer(backend.Router())
	t.Cleanup(srv.Close)

	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	client, err := api.NewClient(srv.URL+fakeapi.BasePath, api.WithSession(store))
	require.NoError(t, err)

	return &harness{v: New(&config.Configuration{}, client, store, WithClock(mock)), clock: mock, store: store}
}

func (h *harness) register(t *testing.T) {
	t.Helper()
	_, err := h.v.Register(context.Background(), &apimodel.Register{
		FullName: "Shyam Sundar", Email: "shyam@example.com", Password: "secret123", PhoneNo: "9876543210",
	})
	require.NoError(t, err)
}

func (h *harness) order(t *testing.T, kind model.Kind, name, amount string) model.Transaction {
	t.Helper()
	form := &apimodel.CreateTransaction{Kind: kind, Amount: dec(amount), PaymentStatus: model.StatusPending}
	form.SetCounterparty(name)
	out, err := h.v.CreateTransaction(context.Background(), form)
	require.NoError(t, err)
	h.clock.Advance(time.Hour)
	for _, txn := range out.Transactions {
		if txn.Counterparty() == name && txn.Amount.Equal(dec(amount)) {
			return txn
		}
	}
	t.Fatalf("created %s for %s not found after refresh", kind, name)
	return model.Transaction{}
}

func (h *harness) addBank(t *testing.T, name, account string) model.Bank {
	t.Helper()
	_, banks, err := h.v.AddBank(context.Background(), &apimodel.CreateBank{
		BankName: name, AccountNumber: account, AccountHolderName: "Annapurna Veneer",
		IfscCode: "HDFC0001234", BranchName: "Andheri", AccountType: model.AccountCurrent,
	})
	require.NoError(t, err)
	for _, b := range banks {
		if b.BankName == name {
			return b
		}
	}
	t.Fatalf("bank %s not listed after adding it", name)
	return model.Bank{}
}

func TestPartialPaymentLeavesDue(t *testing.T) {
	h := newHarness(t)
	h.register(t)
	ctx := context.Background()

	created := h.order(t, model.KindBuy, "Ram Traders", "1000")

	result, err := h.v.ApplyPayment(ctx, &apimodel.RecordPayment{
		Kind: model.KindBuy, Target: "Ram Traders", Amount: dec("400"), ModeofPayment: model.ModeCash,
	})
	require.NoError(t, err)
	assert.Equal(t, "Payment of 400 applied to 1 buy order(s)", result.Message)
	require.Len(t, result.Allocations, 1)
	assert.Equal(t, created.ID, result.Allocations[0].TransactionID)
	assert.True(t, result.Allocations[0].Applied.Equal(dec("400")))
	assert.True(t, result.Allocations[0].Remaining.Equal(dec("600")))

	require.Len(t, result.Transactions, 1)
	txn := result.Transactions[0]
	assert.True(t, txn.TotalPaid().Equal(dec("400")))
	assert.True(t, txn.Due().Equal(dec("600")))
	assert.Equal(t, model.StatusPending, txn.PaymentStatus)

	view := NewTransactionView(model.KindBuy, result.Transactions, aggregate.Criteria{})
	require.Len(t, view.Groups, 1)
	assert.True(t, view.Groups[0].TotalAmount.Equal(dec("1000")))
	assert.True(t, view.Groups[0].TotalPaid.Equal(dec("400")))
	assert.True(t, view.Groups[0].Due.Equal(dec("600")))
	assert.False(t, view.Groups[0].AllConfirmed)

	again, err := h.v.SummarizeTransactions(ctx, model.KindBuy, aggregate.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, view.Groups, again.Groups)

	result, err = h.v.ApplyPayment(ctx, &apimodel.RecordPayment{
		Kind: model.KindBuy, Target: created.ID, Amount: dec("600"), ModeofPayment: model.ModeCash,
	})
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.True(t, result.Transactions[0].Due().IsZero())
	assert.Len(t, result.Transactions[0].Payments, 2)
	assert.Equal(t, model.StatusPending, result.Transactions[0].PaymentStatus)
}

func TestOverpaymentChangesNothing(t *testing.T) {
	h := newHarness(t)
	h.register(t)
	ctx := context.Background()

	h.order(t, model.KindSell, "Sita Plywood", "500")

	_, err := h.v.ApplyPayment(ctx, &apimodel.RecordPayment{
		Kind: model.KindSell, Target: "Sita Plywood", Amount: dec("700"), ModeofPayment: model.ModeCash,
	})
	require.Error(t, err)
	assert.True(t, apierror.IsCode(err, apierror.ErrInvalidInput))
	assert.Equal(t, "Payment amount exceeds total due amount", apierror.Message(err))

	txns, err := h.v.ListTransactions(ctx, model.KindSell)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Empty(t, txns[0].Payments)
}

func TestPaymentValidationSendsNothing(t *testing.T) {
	h := newHarness(t)
	h.register(t)
	ctx := context.Background()
	h.order(t, model.KindBuy, "Ram", "100")

	tests := []struct {
		name    string
		payment apimodel.RecordPayment
	}{
		{"zero amount", apimodel.RecordPayment{Kind: model.KindBuy, Target: "Ram", Amount: decimal.Zero, ModeofPayment: model.ModeCash}},
		{"blank target", apimodel.RecordPayment{Kind: model.KindBuy, Target: "  ", Amount: dec("10"), ModeofPayment: model.ModeCash}},
		{"missing mode", apimodel.RecordPayment{Kind: model.KindBuy, Target: "Ram", Amount: dec("10")}},
		{"unknown mode", apimodel.RecordPayment{Kind: model.KindBuy, Target: "Ram", Amount: dec("10"), ModeofPayment: "Paytm"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.payment
			_, err := h.v.ApplyPayment(ctx, &p)
			assert.True(t, apierror.IsCode(err, apierror.ErrInvalidInput), "got %v", err)
		})
	}

	txns, err := h.v.ListTransactions(ctx, model.KindBuy)
	require.NoError(t, err)
	assert.Empty(t, txns[0].Payments)
}

func TestPayInFull(t *testing.T) {
	h := newHarness(t)
	h.register(t)
	ctx := context.Background()

	h.order(t, model.KindOtherDebit, "Electricity", "300")
	h.order(t, model.KindOtherDebit, "Electricity", "200")

	result, err := h.v.PayInFull(ctx, model.KindOtherDebit, "Electricity", model.ModeCash)
	require.NoError(t, err)
	assert.Len(t, result.Allocations, 2)
	for _, txn := range result.Transactions {
		assert.True(t, txn.Due().IsZero())
	}

	_, err = h.v.PayInFull(ctx, model.KindOtherDebit, "Electricity", model.ModeCash)
	assert.True(t, apierror.IsCode(err, apierror.ErrInvalidInput))
}

func TestDeactivatedBankKeepsHistory(t *testing.T) {
	h := newHarness(t)
	h.register(t)
	ctx := context.Background()

	bank := h.addBank(t, "HDFC Bank", "50100012345678")
	modes, err := h.v.PaymentModes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{model.ModeCash, "HDFC Bank"}, modes)

	first := h.order(t, model.KindSell, "Gopal", "800")
	out, err := h.v.UpdateStatus(ctx, model.KindSell, first.ID, model.StatusConfirmed, "HDFC Bank")
	require.NoError(t, err)
	require.Len(t, out.Transactions, 1)
	assert.Equal(t, "HDFC Bank", out.Transactions[0].ModeofPayment)
	assert.Nil(t, out.Transactions[0].PaymentDeadline)

	msg, banks, err := h.v.ToggleBank(ctx, bank.ID)
	require.NoError(t, err)
	assert.Contains(t, msg, "deactivated")
	require.Len(t, banks, 1)
	assert.False(t, banks[0].IsActive)

	modes, err = h.v.PaymentModes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{model.ModeCash}, modes)

	txns, err := h.v.ListTransactions(ctx, model.KindSell)
	require.NoError(t, err)
	assert.Equal(t, "HDFC Bank", txns[0].ModeofPayment)

	second := h.order(t, model.KindSell, "Gopal", "200")
	_, err = h.v.UpdateStatus(ctx, model.KindSell, second.ID, model.StatusConfirmed, "HDFC Bank")
	assert.True(t, apierror.IsCode(err, apierror.ErrInvalidInput))

	statement, err := h.v.BankStatement(ctx, bank.ID, 0)
	require.NoError(t, err)
	require.Len(t, statement.Transactions, 1)
	row := statement.Transactions[0]
	assert.Equal(t, first.ID, row.ID)
	assert.Equal(t, "Gopal", row.CustomerName)
	assert.True(t, row.Amount.Equal(dec("800")))
	assert.True(t, row.IsCredit())
	assert.Equal(t, 1, statement.Summary.TransactionCount)
	assert.True(t, statement.Summary.TotalCredit.Equal(dec("800")))
	assert.True(t, statement.Summary.CurrentBalance.Equal(dec("800")))
}

func TestUpdateStatusRules(t *testing.T) {
	h := newHarness(t)
	h.register(t)
	ctx := context.Background()
	txn := h.order(t, model.KindBuy, "Ram", "100")

	_, err := h.v.UpdateStatus(ctx, model.KindBuy, txn.ID, model.StatusConfirmed, " ")
	assert.True(t, apierror.IsCode(err, apierror.ErrInvalidInput))

	_, err = h.v.UpdateStatus(ctx, model.KindBuy, txn.ID, model.StatusPending, model.ModeCash)
	assert.True(t, apierror.IsCode(err, apierror.ErrInvalidInput))

	_, err = h.v.UpdateStatus(ctx, model.KindBuy, txn.ID, "Paid", "")
	assert.True(t, apierror.IsCode(err, apierror.ErrInvalidInput))

	out, err := h.v.UpdateStatus(ctx, model.KindBuy, txn.ID, model.StatusConfirmed, model.ModeCash)
	require.NoError(t, err)
	assert.Equal(t, model.ModeCash, out.Transactions[0].ModeofPayment)

	out, err = h.v.UpdateStatus(ctx, model.KindBuy, txn.ID, model.StatusPending, "")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, out.Transactions[0].PaymentStatus)
	assert.Empty(t, out.Transactions[0].ModeofPayment)
}

func TestSummarizeAndSuggest(t *testing.T) {
	h := newHarness(t)
	h.register(t)
	ctx := context.Background()

	h.order(t, model.KindBuy, "Ram", "100")
	h.order(t, model.KindBuy, "ram", "50")
	h.order(t, model.KindBuy, "Mohan", "70")

	view, err := h.v.SummarizeTransactions(ctx, model.KindBuy, aggregate.Criteria{Name: "ram"})
	require.NoError(t, err)
	assert.Len(t, view.Transactions, 2)
	assert.Len(t, view.Groups, 2)
	assert.True(t, view.Totals.TotalAmount.Equal(dec("150")))
	require.Len(t, view.Similar, 1)
	assert.Equal(t, 0, view.Similar[0].Distance)

	suggestions, err := h.v.Suggest(ctx, model.KindBuy, "MO")
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "Mohan", suggestions[0].Counterparty())

	suggestions, err = h.v.Suggest(ctx, model.KindBuy, " ")
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestAccounting(t *testing.T) {
	h := newHarness(t)
	h.register(t)
	ctx := context.Background()

	overdue := &apimodel.CreateTransaction{
		Kind: model.KindBuy, CustomerName: "Ram", Amount: dec("1000"),
		PaymentStatus: model.StatusPending, PaymentDeadline: ptr.Time(start.Add(-24 * time.Hour)),
	}
	_, err := h.v.CreateTransaction(ctx, overdue)
	require.NoError(t, err)
	_, err = h.v.CreateTransaction(ctx, &apimodel.CreateTransaction{
		Kind: model.KindSell, CustomerName: "Sita", Amount: dec("1500"),
		PaymentStatus: model.StatusConfirmed, ModeofPayment: model.ModeCash,
	})
	require.NoError(t, err)
	h.order(t, model.KindOtherCredit, "Scrap sale", "200")
	h.order(t, model.KindOtherDebit, "Rent", "300")

	summary, err := h.v.Accounting(ctx)
	require.NoError(t, err)
	assert.True(t, summary.Income.Equal(dec("1700")))
	assert.True(t, summary.Expenses.Equal(dec("1300")))
	assert.True(t, summary.ProfitLoss.Equal(dec("400")))
	assert.Equal(t, 1, summary.Pending.Buy)
	assert.Equal(t, 0, summary.Pending.Sell)
	assert.Equal(t, 1, summary.Overdue.Total)
	assert.True(t, summary.Overdue.AmountBuy.Equal(dec("1000")))
}

func TestAccountingFailsAsAWhole(t *testing.T) {
	hc := &http.Client{}
	httpmock.ActivateNonDefault(hc)
	defer httpmock.DeactivateAndReset()

	const base = "http://backend.test/api/v1"
	empty := httpmock.NewStringResponder(http.StatusOK, `{"success":true,"data":[]}`)
	httpmock.RegisterResponder(http.MethodGet, base+"/buy", empty)
	httpmock.RegisterResponder(http.MethodGet, base+"/sell", empty)
	httpmock.RegisterResponder(http.MethodGet, base+"/otherCredit", empty)
	httpmock.RegisterResponder(http.MethodGet, base+"/otherDebit",
		httpmock.NewStringResponder(http.StatusInternalServerError, `{"success":false,"message":"Database unavailable"}`))

	client, err := api.NewClient(base, api.WithHTTPClient(hc))
	require.NoError(t, err)
	v := New(nil, client, session.NewFileStore(filepath.Join(t.TempDir(), "s.json")))

	summary, err := v.Accounting(context.Background())
	assert.Nil(t, summary)
	require.Error(t, err)
	assert.Equal(t, "Database unavailable", apierror.Message(err))
}

func TestNotifications(t *testing.T) {
	h := newHarness(t)
	h.register(t)
	ctx := context.Background()

	_, err := h.v.CreateTransaction(ctx, &apimodel.CreateTransaction{
		Kind: model.KindSell, CustomerName: "Gopal", Amount: dec("900"),
		PaymentStatus: model.StatusPending, PaymentDeadline: ptr.Time(start.Add(-72 * time.Hour)),
	})
	require.NoError(t, err)

	_, check, err := h.v.CheckOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, check.TotalOverdue)
	assert.Equal(t, 1, check.Overdue.NotificationsCreated)

	view, err := h.v.Notifications(ctx, aggregate.NotificationCriteria{State: aggregate.ReadUnread, Name: "gop"})
	require.NoError(t, err)
	require.Len(t, view.Notifications, 1)
	assert.Equal(t, aggregate.NotificationStats{Total: 1, Unread: 1}, view.Stats)

	require.NoError(t, h.v.MarkAsRead(ctx, view.Notifications[0].ID))

	view, err = h.v.Notifications(ctx, aggregate.NotificationCriteria{State: aggregate.ReadUnread})
	require.NoError(t, err)
	assert.Empty(t, view.Notifications)
	assert.Equal(t, aggregate.NotificationStats{Total: 1, Read: 1}, view.Stats)
}

func TestSessionLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.v.CurrentSession(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)

	h.register(t)
	s, err := h.v.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "shyam@example.com", s.Email)

	require.NoError(t, h.v.Logout(ctx))
	_, err = h.v.ListTransactions(ctx, model.KindBuy)
	assert.True(t, apierror.IsCode(err, apierror.ErrUnauthorized))

	_, err = h.v.Login(ctx, &apimodel.Login{Email: "shyam@example.com", Password: "wrong-pass"})
	assert.True(t, apierror.IsCode(err, apierror.ErrUnauthorized))

	_, err = h.v.Login(ctx, &apimodel.Login{Email: "shyam@example.com", Password: "secret123"})
	require.NoError(t, err)

	h.clock.Advance(25 * time.Hour)
	_, err = h.v.CurrentSession(ctx)
	assert.True(t, errors.Is(err, ErrSessionExpired))
	_, err = h.store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	h.register(t)
	h.order(t, model.KindSell, "Sita", "250")

	var buf bytes.Buffer
	require.NoError(t, h.v.Export(context.Background(), model.KindSell, aggregate.Criteria{}, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, "Sita", rows[3][0])
}

func TestAccountBook(t *testing.T) {
	h := newHarness(t)
	h.register(t)
	ctx := context.Background()

	entry, _, err := h.v.AddAccountEntry(ctx, &apimodel.CreateAccount{PersonName: "Hari", Type: model.EntryCredit, Amount: dec("500")})
	require.NoError(t, err)

	_, _, err = h.v.ConfirmAccountPayment(ctx, entry.ID, dec("500"))
	require.NoError(t, err)

	book, err := h.v.AccountBook(ctx, model.AccountFilter{})
	require.NoError(t, err)
	require.Len(t, book.Entries, 1)
	assert.Equal(t, model.StatusConfirmed, book.Entries[0].PaymentStatus)
	assert.True(t, book.Balance.Balance.Equal(dec("500")))

	require.NoError(t, h.v.DeleteAccountEntry(ctx, entry.ID))
	book, err = h.v.AccountBook(ctx, model.AccountFilter{})
	require.NoError(t, err)
	assert.Empty(t, book.Entries)
}
