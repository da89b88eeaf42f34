package fakeapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	apimodel "github.com/nitesh7079/veneer/api/model"
	"github.com/nitesh7079/veneer/aggregate"
	"github.com/nitesh7079/veneer/model"
)

var errOverConfirm = errors.New("confirmed amount exceeds the entry amount")

// accountFilter turns the query string of the /accounts listings into a predicate.
func accountFilter(c *gin.Context) (func(*model.AccountEntry) bool, error) {
	person := c.Query("personName")
	entryType := model.EntryType(c.Query("type"))
	status := model.PaymentStatus(c.Query("paymentStatus"))

	var from, to *time.Time
	if s := c.Query("startDate"); s != "" {
		t, _, err := aggregate.ParseDate(s, time.UTC)
		if err != nil {
			return nil, err
		}
		from = &t
	}
	if s := c.Query("endDate"); s != "" {
		t, dayOnly, err := aggregate.ParseDate(s, time.UTC)
		if err != nil {
			return nil, err
		}
		if dayOnly {
			t = aggregate.EndOfDay(t)
		}
		to = &t
	}

	return func(e *model.AccountEntry) bool {
		switch {
		case person != "" && !strings.Contains(e.PersonName, person):
			return false
		case entryType != "" && e.Type != entryType:
			return false
		case status != "" && e.PaymentStatus != status:
			return false
		case from != nil && e.Date.Before(*from):
			return false
		case to != nil && e.Date.After(*to):
			return false
		}
		return true
	}, nil
}

func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return page, limit
}

func (a *Api) ListAccounts(c *gin.Context) {
	match, err := accountFilter(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	all := a.store.listAccounts(match)
	page, limit := pageParams(c)

	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	c.JSON(http.StatusOK, model.ListResponse[model.AccountEntry]{
		Success: true,
		Count:   end - start,
		Data:    all[start:end],
		Pagination: &model.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      len(all),
			TotalPages: (len(all) + limit - 1) / limit,
		},
	})
}

func (a *Api) CreateAccount(c *gin.Context) {
	var form apimodel.CreateAccount
	if err := c.ShouldBindJSON(&form); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := form.ValidateCreateAccount(); err != nil {
		invalid(c, err)
		return
	}
	entry := a.store.insertAccount(form.ToAccountEntry(a.store.clock.Now()))
	c.JSON(http.StatusCreated, model.MutationResponse[model.AccountEntry]{Success: true, Message: "Transaction created successfully", Data: entry})
}

// AccountBalance is confirmed credit minus confirmed debit.
func (a *Api) AccountBalance(c *gin.Context) {
	var b model.AccountBalance
	for _, e := range a.store.listAccounts(func(*model.AccountEntry) bool { return true }) {
		if e.Type == model.EntryCredit {
			b.TotalCredit = b.TotalCredit.Add(e.ConfirmedAmount)
		} else {
			b.TotalDebit = b.TotalDebit.Add(e.ConfirmedAmount)
		}
	}
	b.Balance = b.TotalCredit.Sub(b.TotalDebit)
	c.JSON(http.StatusOK, model.MutationResponse[model.AccountBalance]{Success: true, Data: b})
}

func (a *Api) AccountSummary(c *gin.Context) {
	match, err := accountFilter(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	var s model.AccountSummary
	for _, e := range a.store.listAccounts(match) {
		s.TransactionCount++
		if e.Type == model.EntryCredit {
			s.TotalCredit = s.TotalCredit.Add(e.Amount)
		} else {
			s.TotalDebit = s.TotalDebit.Add(e.Amount)
		}
		if e.PaymentStatus == model.StatusPending {
			s.PendingAmount = s.PendingAmount.Add(e.Amount.Sub(e.ConfirmedAmount))
		}
	}
	s.NetBalance = s.TotalCredit.Sub(s.TotalDebit)
	c.JSON(http.StatusOK, model.MutationResponse[model.AccountSummary]{Success: true, Data: s})
}

// LatestPerPerson keeps the newest entry of every person name.
func (a *Api) LatestPerPerson(c *gin.Context) {
	match, err := accountFilter(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	seen := make(map[string]bool)
	latest := make([]model.AccountEntry, 0)
	for _, e := range a.store.listAccounts(match) {
		if seen[e.PersonName] {
			continue
		}
		seen[e.PersonName] = true
		latest = append(latest, e)
	}
	c.JSON(http.StatusOK, model.ListResponse[model.AccountEntry]{Success: true, Count: len(latest), Data: latest})
}

func (a *Api) PendingAccountPayments(c *gin.Context) {
	match, err := accountFilter(c)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	pending := a.store.listAccounts(func(e *model.AccountEntry) bool {
		return e.PaymentStatus == model.StatusPending && match(e)
	})
	c.JSON(http.StatusOK, model.ListResponse[model.AccountEntry]{Success: true, Count: len(pending), Data: pending})
}

// ConfirmAccountPayment adds to the confirmed amount and confirms the entry
// once it is fully covered.
func (a *Api) ConfirmAccountPayment(c *gin.Context) {
	id, ok := objectID(c)
	if !ok {
		return
	}
	var form apimodel.ConfirmPayment
	if err := c.ShouldBindJSON(&form); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := form.ValidateConfirmPayment(); err != nil {
		invalid(c, err)
		return
	}

	entry, err := a.store.updateAccount(id, func(e *model.AccountEntry) error {
		confirmed := e.ConfirmedAmount.Add(form.ConfirmedAmount)
		if confirmed.GreaterThan(e.Amount) {
			return errOverConfirm
		}
		e.ConfirmedAmount = confirmed
		if confirmed.Equal(e.Amount) {
			e.PaymentStatus = model.StatusConfirmed
		}
		return nil
	})
	switch {
	case errors.Is(err, errNotFound):
		fail(c, http.StatusNotFound, "Transaction not found")
		return
	case errors.Is(err, errOverConfirm):
		fail(c, http.StatusBadRequest, "Confirmed amount cannot exceed the pending amount")
		return
	}
	c.JSON(http.StatusOK, model.MutationResponse[model.AccountEntry]{Success: true, Message: "Payment confirmed successfully", Data: entry})
}

func (a *Api) DeleteAccount(c *gin.Context) {
	id, ok := objectID(c)
	if !ok {
		return
	}
	if err := a.store.deleteAccount(id); err != nil {
		fail(c, http.StatusNotFound, "Transaction not found")
		return
	}
	c.JSON(http.StatusOK, model.MutationResponse[*model.AccountEntry]{Success: true, Message: "Transaction deleted successfully"})
}

