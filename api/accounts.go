/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	apimodel "github.com/nitesh7079/veneer/api/model"
	"github.com/nitesh7079/veneer/internal/apierror"
	"github.com/nitesh7079/veneer/model"
	"github.com/shopspring/decimal"
)

// accountQuery drops empty filters so the backend applies no predicate for them.
func accountQuery(f model.AccountFilter) url.Values {
	q := url.Values{}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	set("personName", f.PersonName)
	set("type", string(f.Type))
	set("paymentStatus", string(f.PaymentStatus))
	set("startDate", f.StartDate)
	set("endDate", f.EndDate)
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

func (c *Client) ListAccounts(ctx context.Context, filter model.AccountFilter) (*model.ListResponse[model.AccountEntry], error) {
	var resp model.ListResponse[model.AccountEntry]
	err := c.do(ctx, call{
		op:     operation{name: "list accounts", fallback: "Failed to fetch transactions"},
		method: http.MethodGet,
		path:   "/accounts",
		query:  accountQuery(filter),
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// LatestPerPerson returns the most recent entry of every person. Person names are matched case-sensitively.
func (c *Client) LatestPerPerson(ctx context.Context, filter model.AccountFilter) ([]model.AccountEntry, error) {
	var resp model.ListResponse[model.AccountEntry]
	err := c.do(ctx, call{
		op:     operation{name: "latest account per person", fallback: "Failed to fetch latest transactions per person"},
		method: http.MethodGet,
		path:   "/accounts/latest-per-person",
		query:  accountQuery(filter),
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) CreateAccount(ctx context.Context, form *apimodel.CreateAccount) (*model.MutationResponse[model.AccountEntry], error) {
	if err := form.ValidateCreateAccount(); err != nil {
		return nil, apierror.Validation(err.Error(), err)
	}
	var resp model.MutationResponse[model.AccountEntry]
	err := c.do(ctx, call{
		op:     operation{name: "create account entry", fallback: "Failed to create transaction"},
		method: http.MethodPost,
		path:   "/accounts",
		body:   form,
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AccountBalance(ctx context.Context) (*model.AccountBalance, error) {
	var resp model.MutationResponse[model.AccountBalance]
	err := c.do(ctx, call{
		op:     operation{name: "account balance", fallback: "Failed to fetch balance"},
		method: http.MethodGet,
		path:   "/accounts/balance",
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) AccountSummary(ctx context.Context, filter model.AccountFilter) (*model.AccountSummary, error) {
	var resp model.MutationResponse[model.AccountSummary]
	err := c.do(ctx, call{
		op:     operation{name: "account summary", fallback: "Failed to fetch summary"},
		method: http.MethodGet,
		path:   "/accounts/summary",
		query:  accountQuery(filter),
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) PendingAccountPayments(ctx context.Context, filter model.AccountFilter) ([]model.AccountEntry, error) {
	var resp model.ListResponse[model.AccountEntry]
	err := c.do(ctx, call{
		op:     operation{name: "pending account payments", fallback: "Failed to fetch pending payments"},
		method: http.MethodGet,
		path:   "/accounts/pending/payments",
		query:  accountQuery(filter),
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) ConfirmAccountPayment(ctx context.Context, id string, amount decimal.Decimal) (*model.MutationResponse[model.AccountEntry], error) {
	if err := apimodel.ValidateObjectID(id); err != nil {
		return nil, apierror.Validation(err.Error(), nil)
	}
	form := &apimodel.ConfirmPayment{ConfirmedAmount: amount}
	if err := form.ValidateConfirmPayment(); err != nil {
		return nil, apierror.Validation(err.Error(), err)
	}

	var resp model.MutationResponse[model.AccountEntry]
	err := c.do(ctx, call{
		op:     operation{name: "confirm account payment", fallback: "Failed to confirm payment"},
		method: http.MethodPut,
		path:   "/accounts/" + id + "/confirm",
		body:   form,
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteAccount(ctx context.Context, id string) error {
	if err := apimodel.ValidateObjectID(id); err != nil {
		return apierror.Validation(err.Error(), nil)
	}
	return c.do(ctx, call{
		op:     operation{name: "delete account entry", fallback: "Failed to delete transaction"},
		method: http.MethodDelete,
		path:   "/accounts/" + id,
	})
}

// Ping checks that the backend is reachable using the cheapest read it offers.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, call{
		op:     operation{name: "ping", fallback: "Backend is not reachable", timeout: UnreadTimeout},
		method: http.MethodGet,
		path:   "/accounts/balance",
	})
}
