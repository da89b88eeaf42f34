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
	"encoding/json"

	apimodel "github.com/nitesh7079/veneer/api/model"
	"github.com/nitesh7079/veneer/internal/apierror"
	"github.com/nitesh7079/veneer/model"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Allocation is the share of a lump-sum payment the backend placed on one transaction.
type Allocation struct {
	TransactionID string          `json:"transactionId"`
	OrderNumber   int64           `json:"orderNumber,omitempty"`
	Applied       decimal.Decimal `json:"appliedAmount"`
	Remaining     decimal.Decimal `json:"remainingDue"`
}

type PaymentResult struct {
	Outcome
	// Allocations is empty when the backend did not report how it spread the payment.
	Allocations []Allocation
}

// ApplyPayment records a lump-sum payment against a counterparty or a single
// transaction id. The backend decides the allocation; this only validates,
// submits and re-reads the collection. On any error nothing is changed locally.
//
// Parameters:
// - ctx context.Context: The request context.
// - p *apimodel.RecordPayment: The payment form.
//
// Returns:
// - *PaymentResult: The backend message, its allocation and the refreshed collection.
// - error: A validation error before anything is sent, or the backend's error.
func (v *Veneer) ApplyPayment(ctx context.Context, p *apimodel.RecordPayment) (*PaymentResult, error) {
	ctx, span := tracer.Start(ctx, "Applying payment", trace.WithAttributes(
		attribute.String("kind", string(p.Kind)),
		attribute.String("payment.amount", p.Amount.String()),
	))
	defer span.End()

	if err := p.ValidateRecordPayment(); err != nil {
		span.RecordError(err)
		return nil, apierror.Validation(err.Error(), err)
	}
	if err := v.requireMode(ctx, p.ModeofPayment); err != nil {
		span.RecordError(err)
		return nil, err
	}

	resp, err := v.client.Transactions(p.Kind).ApplyPayment(ctx, p.ToPayload())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.AddEvent("Payment accepted")
	logrus.WithFields(logrus.Fields{"kind": p.Kind, "amount": p.Amount.String(), "mode": p.ModeofPayment}).Info(resp.Message)

	result := &PaymentResult{Allocations: decodeAllocations(resp.Data)}
	outcome, err := v.refresh(ctx, p.Kind, resp.Message)
	if outcome != nil {
		result.Outcome = *outcome
	}
	return result, err
}

func decodeAllocations(data json.RawMessage) []Allocation {
	if len(data) == 0 {
		return nil
	}
	var out []Allocation
	if err := json.Unmarshal(data, &out); err != nil {
		logrus.WithError(err).Debug("payment response carries no allocation list")
		return nil
	}
	return out
}

// PayInFull confirms the remaining due of every open transaction of the
// counterparty in one payment.
func (v *Veneer) PayInFull(ctx context.Context, kind model.Kind, counterparty, mode string) (*PaymentResult, error) {
	txns, err := v.ListTransactions(ctx, kind)
	if err != nil {
		return nil, err
	}
	due := decimal.Zero
	for i := range txns {
		if txns[i].Counterparty() == counterparty && txns[i].Due().IsPositive() {
			due = due.Add(txns[i].Due())
		}
	}
	if !due.IsPositive() {
		return nil, apierror.Validation("nothing is due for "+counterparty, nil)
	}
	return v.ApplyPayment(ctx, &apimodel.RecordPayment{Kind: kind, Target: counterparty, Amount: due, ModeofPayment: mode})
}
