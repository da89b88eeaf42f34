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
	"fmt"
	"slices"
	"strings"

	apimodel "github.com/nitesh7079/veneer/api/model"
	"github.com/nitesh7079/veneer/aggregate"
	"github.com/nitesh7079/veneer/internal/apierror"
	"github.com/nitesh7079/veneer/model"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Outcome is the result of a mutation: the backend's message and the
// collection as it reads after the change.
type Outcome struct {
	Message      string
	Transactions []model.Transaction
}

// TransactionView is one collection filtered and grouped by counterparty.
type TransactionView struct {
	Kind         model.Kind
	Criteria     aggregate.Criteria
	Transactions []model.Transaction
	Groups       []aggregate.Group
	Totals       aggregate.Group
	// Similar lists counterparties that differ only by case, spacing or a typo.
	// They are grouped separately.
	Similar []aggregate.SimilarPair
}

// NewTransactionView filters txns and groups what is left.
func NewTransactionView(kind model.Kind, txns []model.Transaction, c aggregate.Criteria) *TransactionView {
	filtered := aggregate.Filter(txns, c)
	groups := aggregate.GroupByCounterparty(filtered)
	return &TransactionView{
		Kind:         kind,
		Criteria:     c,
		Transactions: filtered,
		Groups:       groups,
		Totals:       aggregate.Totals(groups),
		Similar:      aggregate.SimilarCounterparties(groups, aggregate.DefaultSimilarity),
	}
}

// ListTransactions returns every transaction of the collection in server order.
func (v *Veneer) ListTransactions(ctx context.Context, kind model.Kind) ([]model.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Listing transactions", trace.WithAttributes(attribute.String("kind", string(kind))))
	defer span.End()

	if !kind.Valid() {
		return nil, apierror.Validation(fmt.Sprintf("unknown transaction kind %q", kind), nil)
	}
	txns, err := v.client.Transactions(kind).List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.AddEvent("Transactions fetched", trace.WithAttributes(attribute.Int("count", len(txns))))
	return txns, nil
}

// SummarizeTransactions fetches a collection and builds the grouped view for c.
func (v *Veneer) SummarizeTransactions(ctx context.Context, kind model.Kind, c aggregate.Criteria) (*TransactionView, error) {
	txns, err := v.ListTransactions(ctx, kind)
	if err != nil {
		return nil, err
	}
	return NewTransactionView(kind, txns, c), nil
}

// Suggest returns one transaction per counterparty whose name contains input.
// It backs name completion on the order forms.
func (v *Veneer) Suggest(ctx context.Context, kind model.Kind, input string) ([]model.Transaction, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	txns, err := v.ListTransactions(ctx, kind)
	if err != nil {
		return nil, err
	}
	return aggregate.Suggest(txns, input), nil
}

// CreateTransaction validates and submits form, then re-reads the collection.
// A confirmed transaction must name a payment mode that is currently selectable.
func (v *Veneer) CreateTransaction(ctx context.Context, form *apimodel.CreateTransaction) (*Outcome, error) {
	ctx, span := tracer.Start(ctx, "Creating transaction", trace.WithAttributes(attribute.String("kind", string(form.Kind))))
	defer span.End()

	if err := form.ValidateCreateTransaction(); err != nil {
		span.RecordError(err)
		return nil, apierror.Validation(err.Error(), err)
	}
	if form.PaymentStatus == model.StatusConfirmed {
		if err := v.requireMode(ctx, form.ModeofPayment); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	resp, err := v.client.Transactions(form.Kind).Create(ctx, form)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.AddEvent("Transaction created", trace.WithAttributes(attribute.String("transaction.id", resp.Data.ID)))
	logrus.WithFields(logrus.Fields{"kind": form.Kind, "id": resp.Data.ID}).Info("transaction created")

	return v.refresh(ctx, form.Kind, resp.Message)
}

// UpdateStatus moves a transaction between Pending and Confirmed. Confirming
// records mode and drops the deadline; going back to Pending drops the mode.
func (v *Veneer) UpdateStatus(ctx context.Context, kind model.Kind, id string, status model.PaymentStatus, mode string) (*Outcome, error) {
	ctx, span := tracer.Start(ctx, "Updating transaction status", trace.WithAttributes(
		attribute.String("kind", string(kind)),
		attribute.String("transaction.id", id),
		attribute.String("status", string(status)),
	))
	defer span.End()

	update := &apimodel.UpdateTransaction{PaymentStatus: &status}
	switch status {
	case model.StatusConfirmed:
		mode = strings.TrimSpace(mode)
		if mode == "" {
			return nil, apierror.Validation(fmt.Sprintf("mode of payment is required for a confirmed %s", kind.Label()), nil)
		}
		if err := v.requireMode(ctx, mode); err != nil {
			span.RecordError(err)
			return nil, err
		}
		update.ModeofPayment = &mode
	case model.StatusPending:
		if strings.TrimSpace(mode) != "" {
			return nil, apierror.Validation("mode of payment cannot be set on a pending transaction", nil)
		}
	default:
		return nil, apierror.Validation(fmt.Sprintf("invalid payment status %q", status), nil)
	}

	resp, err := v.client.Transactions(kind).Update(ctx, id, update)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return v.refresh(ctx, kind, resp.Message)
}

// refresh re-reads the collection after a mutation. The mutation already
// happened when this fails, so the message is returned alongside the error.
func (v *Veneer) refresh(ctx context.Context, kind model.Kind, message string) (*Outcome, error) {
	txns, err := v.ListTransactions(ctx, kind)
	if err != nil {
		return &Outcome{Message: message}, fmt.Errorf("%s: refreshing %ss: %w", message, kind.Label(), err)
	}
	return &Outcome{Message: message, Transactions: txns}, nil
}

// requireMode rejects a mode that is neither Cash nor an active bank.
func (v *Veneer) requireMode(ctx context.Context, mode string) error {
	modes, err := v.PaymentModes(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(modes, mode) {
		return apierror.Validation(fmt.Sprintf("%q is not an available payment mode: choose one of %s", mode, strings.Join(modes, ", ")), nil)
	}
	return nil
}
