package fakeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nitesh7079/veneer/api"
	apimodel "github.com/nitesh7079/veneer/api/model"
	"github.com/nitesh7079/veneer/config"
	"github.com/nitesh7079/veneer/internal/apierror"
	"github.com/nitesh7079/veneer/internal/clock"
	"github.com/nitesh7079/veneer/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wacul/ptr"
	"golang.org/x/crypto/bcrypt"
)

var start = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

type sessionHolder struct {
	s *model.Session
}

func (h *sessionHolder) Load(context.Context) (*model.Session, error) {
	return h.s, nil
}

type harness struct {
	api     *Api
	clock   *clock.Mock
	client  *api.Client
	session *sessionHolder
}

func newHarness(t *testing.T, conf config.DevServerConfig) *harness {
	t.Helper()
	mock := clock.NewMock(start)
	a := NewAPI(conf, WithClock(mock), WithBcryptCost(bcrypt.MinCost))
	srv := httptest.NewServer(a.Router())
	t.Cleanup(srv.Close)

	holder := &sessionHolder{}
	c, err := api.NewClient(srv.URL+BasePath, api.WithSession(holder))
	require.NoError(t, err)
	return &harness{api: a, clock: mock, client: c, session: holder}
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	resp, err := h.client.Register(context.Background(), &apimodel.Register{
		FullName: "Shyam Sundar", Email: "shyam@example.com", Password: "secret123", PhoneNo: "9876543210",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	h.session.s = &model.Session{Token: resp.Token, UserID: resp.User.ID}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func buyOrder(name, amount string) *apimodel.CreateTransaction {
	return &apimodel.CreateTransaction{CustomerName: name, Amount: dec(amount), PaymentStatus: model.StatusPending}
}

func TestAuthRequired(t *testing.T) {
	h := newHarness(t, config.DevServerConfig{})
	ctx := context.Background()

	_, err := h.client.Transactions(model.KindBuy).List(ctx)
	assert.True(t, apierror.IsCode(err, apierror.ErrUnauthorized))
	assert.Equal(t, "Authentication required", apierror.Message(err))

	h.session.s = &model.Session{Token: "not-a-token"}
	_, err = h.client.ListBanks(ctx)
	assert.True(t, apierror.IsCode(err, apierror.ErrUnauthorized))

	h.login(t)
	h.session.s.UserID = "someone-else"
	_, err = h.client.ListBanks(ctx)
	assert.True(t, apierror.IsCode(err, apierror.ErrUnauthorized))
	assert.Equal(t, http.StatusForbidden, mustAPIError(t, err).StatusCode)
}

func TestTokenExpiry(t *testing.T) {
	h := newHarness(t, config.DevServerConfig{TokenTTLHours: 1})
	h.login(t)

	_, err := h.client.ListBanks(context.Background())
	require.NoError(t, err)

	h.clock.Advance(2 * time.Hour)
	_, err = h.client.ListBanks(context.Background())
	assert.True(t, apierror.IsCode(err, apierror.ErrUnauthorized))
}

func TestRegisterAndLogin(t *testing.T) {
	h := newHarness(t, config.DevServerConfig{})
	h.login(t)
	ctx := context.Background()

	_, err := h.client.Register(ctx, &apimodel.Register{FullName: "Again", Email: "SHYAM@example.com", Password: "secret123", PhoneNo: "9876543210"})
	assert.Equal(t, "User already exists with this email", apierror.Message(err))

	_, err = h.client.Login(ctx, &apimodel.Login{Email: "shyam@example.com", Password: "wrong-password"})
	assert.True(t, apierror.IsCode(err, apierror.ErrUnauthorized))
	assert.Equal(t, "Invalid email or password", apierror.Message(err))

	resp, err := h.client.Login(ctx, &apimodel.Login{Email: "shyam@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "Shyam Sundar", resp.User.FullName)
	assert.NotEmpty(t, resp.Token)
}

func TestCreateAndList(t *testing.T) {
	h := newHarness(t, config.DevServerConfig{})
	h.login(t)
	ctx := context.Background()
	sell := h.client.Transactions(model.KindSell)

	first, err := sell.Create(ctx, buyOrder("Ram", "100"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Data.OrderNumber)
	assert.Equal(t, "Sell order created successfully", first.Message)

	h.clock.Advance(time.Minute)
	second, err := sell.Create(ctx, buyOrder("Shyam", "200"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Data.OrderNumber)

	list, err := sell.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Shyam", list[0].Counterparty())
	assert.Equal(t, model.KindSell, list[0].Kind)

	debit, err := h.client.Transactions(model.KindOtherDebit).Create(ctx, &apimodel.CreateTransaction{Name: "Electricity", Amount: dec("75"), PaymentStatus: model.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, model.CategoryOther, debit.Data.Category)
	assert.Equal(t, int64(1), debit.Data.OrderNumber)
}

func TestValidationErrorsAreReportedPerField(t *testing.T) {
	h := newHarness(t, config.DevServerConfig{})
	h.login(t)

	// bypass client side validation to see the server answer
	body := `{"CustomerName":"","Amount":0,"PaymentStatus":"Pending"}`
	req, err := http.NewRequest(http.MethodPost, "/api/v1/buy", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+h.session.s.Token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.api.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp model.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed: Amount: must be greater than 0, CustomerName: customer name is required", resp.Text())
}

func TestApplyPaymentOldestFirst(t *testing.T) {
	h := newHarness(t, config.DevServerConfig{})
	h.login(t)
	ctx := context.Background()
	buy := h.client.Transactions(model.KindBuy)

	older, err := buy.Create(ctx, buyOrder("Ram", "300"))
	require.NoError(t, err)
	h.clock.Advance(time.Hour)
	newer, err := buy.Create(ctx, buyOrder("Ram", "500"))
	require.NoError(t, err)
	_, err = buy.Create(ctx, buyOrder("ram", "999"))
	require.NoError(t, err)

	resp, err := buy.ApplyPayment(ctx, apimodel.PaymentPayload{CustomerName: "Ram", PaymentAmount: dec("400"), ModeofPayment: "Cash"})
	require.NoError(t, err)
	assert.Equal(t, "Payment of 400 applied to 2 buy order(s)", resp.Message)

	var allocations []allocation
	require.NoError(t, json.Unmarshal(resp.Data, &allocations))
	require.Len(t, allocations, 2)
	assert.Equal(t, older.Data.ID, allocations[0].TransactionID)
	assert.Equal(t, "300", allocations[0].Applied)
	assert.Equal(t, "0", allocations[0].Remaining)
	assert.Equal(t, newer.Data.ID, allocations[1].TransactionID)
	assert.Equal(t, "100", allocations[1].Applied)

	list, err := buy.List(ctx)
	require.NoError(t, err)
	for _, txn := range list {
		switch txn.ID {
		case older.Data.ID:
			assert.True(t, txn.Due().IsZero())
			assert.Equal(t, model.StatusPending, txn.PaymentStatus)
		case newer.Data.ID:
			assert.True(t, dec("400").Equal(txn.Due()))
		default:
			assert.True(t, dec("999").Equal(txn.Due()), "other counterparty untouched")
		}
	}

	_, err = buy.ApplyPayment(ctx, apimodel.PaymentPayload{CustomerName: "Ram", PaymentAmount: dec("401"), ModeofPayment: "Cash"})
	assert.True(t, apierror.IsCode(err, apierror.ErrInvalidInput))
	assert.Equal(t, "Payment amount exceeds total due amount", apierror.Message(err))

	_, err = buy.ApplyPayment(ctx, apimodel.PaymentPayload{CustomerName: "Gopal", PaymentAmount: dec("1"), ModeofPayment: "Cash"})
	assert.True(t, apierror.IsCode(err, apierror.ErrNotFound))

	// a transaction id targets that transaction only
	_, err = buy.ApplyPayment(ctx, apimodel.PaymentPayload{CustomerName: newer.Data.ID, PaymentAmount: dec("400"), ModeofPayment: "Cash"})
	require.NoError(t, err)
}

func TestUpdateStatus(t *testing.T) {
	h := newHarness(t, config.DevServerConfig{})
	h.login(t)
	ctx := context.Background()
	buy := h.client.Transactions(model.KindBuy)

	deadline := start.Add(72 * time.Hour)
	form := buyOrder("Ram", "100")
	form.PaymentDeadline = &deadline
	created, err := buy.Create(ctx, form)
	require.NoError(t, err)

	status := model.StatusConfirmed
	updated, err := buy.Update(ctx, created.Data.ID, &apimodel.UpdateTransaction{PaymentStatus: &status, ModeofPayment: ptr.String("Cash")})
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, updated.Data.PaymentStatus)
	assert.Equal(t, "Cash", updated.Data.ModeofPayment)
	assert.Nil(t, updated.Data.PaymentDeadline)

	pending := model.StatusPending
	updated, err = buy.Update(ctx, created.Data.ID, &apimodel.UpdateTransaction{PaymentStatus: &pending})
	require.NoError(t, err)
	assert.Empty(t, updated.Data.ModeofPayment)

	_, err = buy.Update(ctx, newID(), &apimodel.UpdateTransaction{Description: ptr.String("x")})
	assert.True(t, apierror.IsCode(err, apierror.ErrNotFound))
}

func TestBanks(t *testing.T) {
	h := newHarness(t, config.DevServerConfig{})
	h.login(t)
	ctx := context.Background()

	form := &apimodel.CreateBank{
		BankName: "HDFC Bank", AccountNumber: "50100012345678", AccountHolderName: "Annapurna Veneer",
		IfscCode: "hdfc0001234", BranchName: "Andheri", AccountType: model.AccountCurrent,
	}
	created, err := h.client.CreateBank(ctx, form)
	require.NoError(t, err)
	assert.True(t, created.Data.IsActive)
	assert.Equal(t, "HDFC0001234", created.Data.IfscCode)

	_, err = h.client.CreateBank(ctx, form)
	assert.True(t, apierror.IsCode(err, apierror.ErrInvalidInput))

	methods, err := h.client.PaymentMethods(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.PaymentMethod{{Name: "Cash", Type: "cash"}, {Name: "HDFC Bank", Type: "bank", BankID: created.Data.ID}}, methods)

	// pay a sell order through the bank, then read the statement
	sell := h.client.Transactions(model.KindSell)
	_, err = sell.Create(ctx, buyOrder("Ram", "1000"))
	require.NoError(t, err)
	_, err = sell.ApplyPayment(ctx, apimodel.PaymentPayload{CustomerName: "Ram", PaymentAmount: dec("250"), ModeofPayment: "HDFC Bank"})
	require.NoError(t, err)

	statement, err := h.client.BankTransactions(ctx, created.Data.ID, 10)
	require.NoError(t, err)
	require.Len(t, statement.Transactions, 1)
	assert.Equal(t, "Sell", statement.Transactions[0].TransactionType)
	assert.True(t, dec("250").Equal(statement.Summary.CurrentBalance))

	toggled, err := h.client.ToggleBankStatus(ctx, created.Data.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Data.IsActive)
	assert.Equal(t, "Bank account deactivated successfully", toggled.Message)

	methods, err = h.client.PaymentMethods(ctx)
	require.NoError(t, err)
	assert.Len(t, methods, 1)

	_, err = h.client.ToggleBankStatus(ctx, newID())
	assert.True(t, apierror.IsCode(err, apierror.ErrNotFound))
}

func TestCheckOverdueAndMarkAsRead(t *testing.T) {
	// The session has to outlive the clock advance below.
	h := newHarness(t, config.DevServerConfig{TokenTTLHours: 7 * 24})
	h.login(t)
	ctx := context.Background()

	deadline := start.Add(24 * time.Hour)
	form := buyOrder("Ram", "1000")
	form.PaymentDeadline = &deadline
	_, err := h.client.Transactions(model.KindBuy).Create(ctx, form)
	require.NoError(t, err)

	check, err := h.client.CheckOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, check.Data.TotalOverdue)

	h.clock.Advance(4 * 24 * time.Hour)
	check, err = h.client.CheckOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, check.Data.TotalOverdue)
	assert.Equal(t, 1, check.Data.Overdue.NotificationsCreated)

	check, err = h.client.CheckOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, check.Data.Overdue.NotificationsCreated)

	unread, err := h.client.UnreadNotifications(ctx)
	require.NoError(t, err)
	require.True(t, unread.Success)
	require.Len(t, unread.Data, 1)
	n := unread.Data[0]
	assert.Equal(t, "Buy", n.TransactionType)
	assert.Equal(t, 3, n.OverdueDays)
	assert.True(t, dec("1000").Equal(n.PendingAmount))

	require.NoError(t, h.client.MarkAsRead(ctx, n.ID))
	unread, err = h.client.UnreadNotifications(ctx)
	require.NoError(t, err)
	assert.Empty(t, unread.Data)

	all, err := h.client.ListNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].IsReaded)
}

func TestAccounts(t *testing.T) {
	h := newHarness(t, config.DevServerConfig{})
	h.login(t)
	ctx := context.Background()

	credit, err := h.client.CreateAccount(ctx, &apimodel.CreateAccount{PersonName: "Ram", Type: model.EntryCredit, Amount: dec("500")})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, credit.Data.PaymentStatus)

	h.clock.Advance(time.Hour)
	_, err = h.client.CreateAccount(ctx, &apimodel.CreateAccount{PersonName: "Ram", Type: model.EntryDebit, Amount: dec("200"), PaymentStatus: model.StatusConfirmed, ModeofPayment: "Cash"})
	require.NoError(t, err)
	_, err = h.client.CreateAccount(ctx, &apimodel.CreateAccount{PersonName: "Shyam", Type: model.EntryCredit, Amount: dec("50")})
	require.NoError(t, err)

	_, err = h.client.ConfirmAccountPayment(ctx, credit.Data.ID, dec("600"))
	assert.True(t, apierror.IsCode(err, apierror.ErrInvalidInput))

	confirmed, err := h.client.ConfirmAccountPayment(ctx, credit.Data.ID, dec("500"))
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, confirmed.Data.PaymentStatus)

	balance, err := h.client.AccountBalance(ctx)
	require.NoError(t, err)
	assert.True(t, dec("300").Equal(balance.Balance))

	summary, err := h.client.AccountSummary(ctx, model.AccountFilter{PersonName: "Ram"})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TransactionCount)
	assert.True(t, dec("300").Equal(summary.NetBalance))

	latest, err := h.client.LatestPerPerson(ctx, model.AccountFilter{})
	require.NoError(t, err)
	assert.Len(t, latest, 2)

	pending, err := h.client.PendingAccountPayments(ctx, model.AccountFilter{})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Shyam", pending[0].PersonName)

	page, err := h.client.ListAccounts(ctx, model.AccountFilter{Limit: 2, Page: 2})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, 3, page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)

	require.NoError(t, h.client.DeleteAccount(ctx, credit.Data.ID))
	err = h.client.DeleteAccount(ctx, credit.Data.ID)
	assert.True(t, apierror.IsCode(err, apierror.ErrNotFound))
}

func TestRateLimit(t *testing.T) {
	rps, burst := 1.0, 1
	h := newHarness(t, config.DevServerConfig{RateLimitRPS: &rps, RateLimitBurst: &burst, CleanupIntervalSec: 60})

	rec := httptest.NewRecorder()
	h.api.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.api.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func mustAPIError(t *testing.T, err error) apierror.APIError {
	t.Helper()
	apiErr, ok := apierror.As(err)
	require.True(t, ok, "expected an APIError, got %v", err)
	return apiErr
}
