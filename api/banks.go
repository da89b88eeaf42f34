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
)

// DefaultBankTransactionLimit is the statement length requested when none is given.
const DefaultBankTransactionLimit = 50

func (c *Client) ListBanks(ctx context.Context) ([]model.Bank, error) {
	var resp model.ListResponse[model.Bank]
	err := c.do(ctx, call{
		op:     operation{name: "list banks", fallback: "Failed to fetch banks"},
		method: http.MethodGet,
		path:   "/banks",
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) CreateBank(ctx context.Context, form *apimodel.CreateBank) (*model.MutationResponse[model.Bank], error) {
	if err := form.ValidateCreateBank(); err != nil {
		return nil, apierror.Validation(err.Error(), err)
	}

	var resp model.MutationResponse[model.Bank]
	err := c.do(ctx, call{
		op:     operation{name: "create bank", fallback: "Failed to add bank account"},
		method: http.MethodPost,
		path:   "/banks",
		body:   form,
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ToggleBankStatus flips a bank between active and inactive. Banks are never deleted.
func (c *Client) ToggleBankStatus(ctx context.Context, id string) (*model.MutationResponse[model.Bank], error) {
	if err := apimodel.ValidateObjectID(id); err != nil {
		return nil, apierror.Validation(err.Error(), nil)
	}

	var resp model.MutationResponse[model.Bank]
	err := c.do(ctx, call{
		op:     operation{name: "toggle bank status", fallback: "Failed to toggle bank status"},
		method: http.MethodPatch,
		path:   "/banks/" + id + "/toggle-status",
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// BankTransactions fetches the latest movements of one bank. limit <= 0 uses DefaultBankTransactionLimit.
func (c *Client) BankTransactions(ctx context.Context, id string, limit int) (*model.BankStatement, error) {
	if err := apimodel.ValidateObjectID(id); err != nil {
		return nil, apierror.Validation(err.Error(), nil)
	}
	if limit <= 0 {
		limit = DefaultBankTransactionLimit
	}

	var resp model.MutationResponse[model.BankStatement]
	err := c.do(ctx, call{
		op:     operation{name: "bank transactions", fallback: "Failed to fetch bank transactions"},
		method: http.MethodGet,
		path:   "/banks/" + id + "/transactions",
		query:  url.Values{"limit": []string{strconv.Itoa(limit)}},
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *Client) PaymentMethods(ctx context.Context) ([]model.PaymentMethod, error) {
	var resp model.ListResponse[model.PaymentMethod]
	err := c.do(ctx, call{
		op:     operation{name: "payment methods", fallback: "Failed to fetch payment methods"},
		method: http.MethodGet,
		path:   "/banks/payment-methods",
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}
