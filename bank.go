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
	"github.com/nitesh7079/veneer/aggregate"
	"github.com/nitesh7079/veneer/model"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ListBanks returns the company banks matching term, or all of them for an empty term.
func (v *Veneer) ListBanks(ctx context.Context, term string) ([]model.Bank, error) {
	ctx, span := tracer.Start(ctx, "Listing banks")
	defer span.End()

	banks, err := v.client.ListBanks(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return aggregate.SearchBanks(banks, term), nil
}

// PaymentModes is the set a payment or confirmation may name: Cash plus every active bank.
// Deactivating a bank removes it here but leaves past transactions untouched.
func (v *Veneer) PaymentModes(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "Resolving payment modes")
	defer span.End()

	banks, err := v.client.ListBanks(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return aggregate.PaymentModes(banks), nil
}

// PaymentMethods is the backend's own view of the selectable modes, with bank ids.
func (v *Veneer) PaymentMethods(ctx context.Context) ([]model.PaymentMethod, error) {
	return v.client.PaymentMethods(ctx)
}

// AddBank registers a bank and returns the refreshed list.
func (v *Veneer) AddBank(ctx context.Context, form *apimodel.CreateBank) (string, []model.Bank, error) {
	ctx, span := tracer.Start(ctx, "Adding bank", trace.WithAttributes(attribute.String("bank.name", form.BankName)))
	defer span.End()

	resp, err := v.client.CreateBank(ctx, form)
	if err != nil {
		span.RecordError(err)
		return "", nil, err
	}
	banks, err := v.client.ListBanks(ctx)
	return resp.Message, banks, err
}

// ToggleBank flips a bank between active and inactive.
func (v *Veneer) ToggleBank(ctx context.Context, id string) (string, []model.Bank, error) {
	ctx, span := tracer.Start(ctx, "Toggling bank", trace.WithAttributes(attribute.String("bank.id", id)))
	defer span.End()

	resp, err := v.client.ToggleBankStatus(ctx, id)
	if err != nil {
		span.RecordError(err)
		return "", nil, err
	}
	span.AddEvent("Bank toggled", trace.WithAttributes(attribute.Bool("bank.active", resp.Data.IsActive)))
	banks, err := v.client.ListBanks(ctx)
	return resp.Message, banks, err
}

// BankStatement lists the payments made through a bank, newest first.
func (v *Veneer) BankStatement(ctx context.Context, id string, limit int) (*model.BankStatement, error) {
	ctx, span := tracer.Start(ctx, "Fetching bank statement", trace.WithAttributes(attribute.String("bank.id", id)))
	defer span.End()

	st, err := v.client.BankTransactions(ctx, id, limit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return st, nil
}
