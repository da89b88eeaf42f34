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
	"encoding/json"
	"net/http"

	apimodel "github.com/nitesh7079/veneer/api/model"
	"github.com/nitesh7079/veneer/internal/apierror"
	"github.com/nitesh7079/veneer/model"
)

// Transactions is the gateway for one of the four transaction collections.
type Transactions struct {
	client *Client
	kind   model.Kind
}

func (c *Client) Transactions(kind model.Kind) *Transactions {
	return &Transactions{client: c, kind: kind}
}

func (t *Transactions) Kind() model.Kind {
	return t.kind
}

func (t *Transactions) fallback(action string) string {
	label := t.kind.Label()
	switch action {
	case "fetch":
		return "Failed to fetch " + label + "s"
	case "create":
		if t.kind.UsesNameField() {
			return "Failed to add " + label
		}
		return "Failed to create " + label
	case "payment":
		if t.kind.UsesNameField() {
			return "Failed to add payment to " + label
		}
		return "Failed to apply payment"
	default:
		return "Failed to update " + label
	}
}

// List returns every transaction of the collection in server order, tagged with its kind.
func (t *Transactions) List(ctx context.Context) ([]model.Transaction, error) {
	var resp model.ListResponse[model.Transaction]
	err := t.client.do(ctx, call{
		op:     operation{name: "list " + string(t.kind), fallback: t.fallback("fetch")},
		method: http.MethodGet,
		path:   t.kind.Path(),
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return model.Tag(t.kind, resp.Data), nil
}

func (t *Transactions) Create(ctx context.Context, form *apimodel.CreateTransaction) (*model.MutationResponse[model.Transaction], error) {
	if form.Kind == "" {
		form.Kind = t.kind
	}
	if err := form.ValidateCreateTransaction(); err != nil {
		return nil, apierror.Validation(err.Error(), err)
	}

	var resp model.MutationResponse[model.Transaction]
	err := t.client.do(ctx, call{
		op:     operation{name: "create " + string(t.kind), fallback: t.fallback("create")},
		method: http.MethodPost,
		path:   t.kind.Path(),
		body:   form,
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	resp.Data.Kind = t.kind
	return &resp, nil
}

// ApplyPayment posts a lump-sum payment. The backend decides how it is spread
// across the counterparty's open transactions; data is passed through untouched.
func (t *Transactions) ApplyPayment(ctx context.Context, payload apimodel.PaymentPayload) (*model.MutationResponse[json.RawMessage], error) {
	var resp model.MutationResponse[json.RawMessage]
	err := t.client.do(ctx, call{
		op:     operation{name: "apply payment " + string(t.kind), fallback: t.fallback("payment")},
		method: http.MethodPost,
		path:   t.kind.Path() + "/payments",
		body:   payload,
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (t *Transactions) Update(ctx context.Context, id string, update *apimodel.UpdateTransaction) (*model.MutationResponse[model.Transaction], error) {
	if err := apimodel.ValidateObjectID(id); err != nil {
		return nil, apierror.Validation(err.Error(), nil)
	}
	if err := update.ValidateUpdateTransaction(); err != nil {
		return nil, apierror.Validation(err.Error(), err)
	}

	var resp model.MutationResponse[model.Transaction]
	err := t.client.do(ctx, call{
		op:     operation{name: "update " + string(t.kind), fallback: t.fallback("update")},
		method: http.MethodPatch,
		path:   t.kind.Path() + "/" + id,
		body:   update,
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	resp.Data.Kind = t.kind
	return &resp, nil
}
