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

package veneer

import (
	"context"

	apimodel "github.com/nitesh7079/veneer/api/model"
	"github.com/nitesh7079/veneer/model"
	"github.com/shopspring/decimal"
)

// AccountBook is one page of the cash-book with the balance it rolls up to.
type AccountBook struct {
	Entries    []model.AccountEntry
	Pagination *model.Pagination
	Balance    *model.AccountBalance
}

// AccountBook fetches a page of entries and the overall balance.
func (v *Veneer) AccountBook(ctx context.Context, filter model.AccountFilter) (*AccountBook, error) {
	ctx, span := tracer.Start(ctx, "Reading account book")
	defer span.End()

	page, err := v.client.ListAccounts(ctx, filter)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	balance, err := v.client.AccountBalance(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &AccountBook{Entries: page.Data, Pagination: page.Pagination, Balance: balance}, nil
}

func (v *Veneer) LatestPerPerson(ctx context.Context, filter model.AccountFilter) ([]model.AccountEntry, error) {
	return v.client.LatestPerPerson(ctx, filter)
}

func (v *Veneer) AccountSummary(ctx context.Context, filter model.AccountFilter) (*model.AccountSummary, error) {
	return v.client.AccountSummary(ctx, filter)
}

func (v *Veneer) PendingAccountPayments(ctx context.Context, filter model.AccountFilter) ([]model.AccountEntry, error) {
	return v.client.PendingAccountPayments(ctx, filter)
}

func (v *Veneer) AddAccountEntry(ctx context.Context, form *apimodel.CreateAccount) (*model.AccountEntry, string, error) {
	ctx, span := tracer.Start(ctx, "Adding account entry")
	defer span.End()

	resp, err := v.client.CreateAccount(ctx, form)
	if err != nil {
		span.RecordError(err)
		return nil, "", err
	}
	return &resp.Data, resp.Message, nil
}

// ConfirmAccountPayment confirms part or all of an entry's amount.
func (v *Veneer) ConfirmAccountPayment(ctx context.Context, id string, amount decimal.Decimal) (*model.AccountEntry, string, error) {
	ctx, span := tracer.Start(ctx, "Confirming account payment")
	defer span.End()

	resp, err := v.client.ConfirmAccountPayment(ctx, id, amount)
	if err != nil {
		span.RecordError(err)
		return nil, "", err
	}
	return &resp.Data, resp.Message, nil
}

func (v *Veneer) DeleteAccountEntry(ctx context.Context, id string) error {
	return v.client.DeleteAccount(ctx, id)
}
