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

package model

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/nitesh7079/veneer/model"
	"github.com/shopspring/decimal"
)

// CreateTransaction is the order form shared by all four kinds. Buy and sell
// orders carry the counterparty in CustomerName, the other kinds in Name.
type CreateTransaction struct {
	Kind            model.Kind          `json:"-"`
	CustomerName    string              `json:"CustomerName,omitempty"`
	Name            string              `json:"Name,omitempty"`
	ItemName        string              `json:"ItemName,omitempty"`
	Under           string              `json:"Under,omitempty"`
	Category        string              `json:"Category,omitempty"`
	Description     string              `json:"Description,omitempty"`
	Quantity        *decimal.Decimal    `json:"Quantity,omitempty"`
	Amount          decimal.Decimal     `json:"Amount"`
	VatAmount       *decimal.Decimal    `json:"VatAmount,omitempty"`
	CustomCharges   *decimal.Decimal    `json:"CustomCharges,omitempty"`
	BillNumber      string              `json:"BillNumber,omitempty"`
	PhoneNumber     string              `json:"PhoneNumber,omitempty"`
	VehicleNumber   string              `json:"VehicleNumber,omitempty"`
	DeliveryAddress string              `json:"DeliveryAddress,omitempty"`
	PaymentStatus   model.PaymentStatus `json:"PaymentStatus"`
	PaymentDeadline *time.Time          `json:"PaymentDeadline,omitempty"`
	ModeofPayment   string              `json:"ModeofPayment,omitempty"`
}

// SetCounterparty fills the name field the form's kind expects.
func (t *CreateTransaction) SetCounterparty(name string) {
	if t.Kind.UsesNameField() {
		t.Name = name
		return
	}
	t.CustomerName = name
}

func (t *CreateTransaction) Counterparty() string {
	if t.Kind.UsesNameField() {
		return t.Name
	}
	return t.CustomerName
}

// ValidateCreateTransaction checks the form and fills the defaults the backend
// expects: names are trimmed and other kinds fall back to the "Other" category.
func (t *CreateTransaction) ValidateCreateTransaction() error {
	t.CustomerName = strings.TrimSpace(t.CustomerName)
	t.Name = strings.TrimSpace(t.Name)
	if t.Kind.UsesNameField() && t.Category == "" {
		t.Category = model.CategoryOther
	}
	categories := make([]interface{}, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		categories = append(categories, c)
	}
	confirmed := t.PaymentStatus == model.StatusConfirmed
	return validation.ValidateStruct(t,
		validation.Field(&t.Kind, validation.By(validKind)),
		validation.Field(&t.CustomerName, validation.When(!t.Kind.UsesNameField(), validation.By(notBlank("customer name is required")))),
		validation.Field(&t.Name, validation.When(t.Kind.UsesNameField(), validation.By(notBlank("name is required")))),
		validation.Field(&t.Category, validation.When(t.Kind.UsesNameField(), validation.In(categories...))),
		validation.Field(&t.Amount, validation.By(positiveAmount)),
		validation.Field(&t.Quantity, validation.By(positiveAmount)),
		validation.Field(&t.VatAmount, validation.By(nonNegativeAmount)),
		validation.Field(&t.CustomCharges, validation.By(nonNegativeAmount)),
		validation.Field(&t.PaymentStatus, validation.Required, validation.In(model.StatusPending, model.StatusConfirmed)),
		validation.Field(&t.ModeofPayment,
			validation.When(confirmed, validation.Required.Error("mode of payment is required for a confirmed transaction")),
			validation.When(!confirmed, validation.Empty.Error("mode of payment is only set on confirmed transactions")),
		),
		validation.Field(&t.PaymentDeadline, validation.When(confirmed, validation.Nil.Error("payment deadline is only set on pending transactions"))),
	)
}

func (t *CreateTransaction) ToTransaction() *model.Transaction {
	txn := &model.Transaction{
		Kind:            t.Kind,
		ItemName:        t.ItemName,
		Under:           t.Under,
		Category:        t.Category,
		Description:     t.Description,
		Quantity:        t.Quantity,
		Amount:          t.Amount,
		VatAmount:       t.VatAmount,
		CustomCharges:   t.CustomCharges,
		BillNumber:      t.BillNumber,
		PhoneNumber:     t.PhoneNumber,
		VehicleNumber:   t.VehicleNumber,
		DeliveryAddress: t.DeliveryAddress,
		PaymentStatus:   t.PaymentStatus,
		PaymentDeadline: t.PaymentDeadline,
		ModeofPayment:   t.ModeofPayment,
	}
	txn.SetCounterparty(t.Counterparty())
	return txn
}

// RecordPayment is a lump-sum payment against a counterparty. The backend
// spreads it over that counterparty's open transactions.
//
// Target is sent as is in the counterparty field (CustomerName or Name) of
// the payload; there is no separate id field. The production backend matches
// it against counterparty names only. A transaction id in Target is resolved
// to that single transaction by the dev server, so pay by id only there and
// by name everywhere else.
type RecordPayment struct {
	Kind          model.Kind      `json:"-"`
	Target        string          `json:"-"`
	Amount        decimal.Decimal `json:"-"`
	ModeofPayment string          `json:"-"`
}

func (p *RecordPayment) ValidateRecordPayment() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Kind, validation.By(validKind)),
		validation.Field(&p.Target, validation.By(notBlank("customer name is required"))),
		validation.Field(&p.Amount, validation.By(positiveAmount)),
		validation.Field(&p.ModeofPayment, validation.By(notBlank("mode of payment is required"))),
	)
}

// PaymentPayload is the body of `POST /<kind>/payments`.
type PaymentPayload struct {
	CustomerName  string          `json:"CustomerName,omitempty"`
	Name          string          `json:"Name,omitempty"`
	PaymentAmount decimal.Decimal `json:"paymentAmount"`
	ModeofPayment string          `json:"ModeofPayment"`
}

func (p PaymentPayload) Counterparty() string {
	if p.CustomerName != "" {
		return p.CustomerName
	}
	return p.Name
}

func (p *RecordPayment) ToPayload() PaymentPayload {
	payload := PaymentPayload{PaymentAmount: p.Amount, ModeofPayment: p.ModeofPayment}
	if p.Kind.UsesNameField() {
		payload.Name = p.Target
	} else {
		payload.CustomerName = p.Target
	}
	return payload
}

// UpdateTransaction is a partial update. Only non-nil fields are sent, except
// that a status change also sends the field it clears.
type UpdateTransaction struct {
	PaymentStatus   *model.PaymentStatus
	ModeofPayment   *string
	PaymentDeadline *time.Time
	Amount          *decimal.Decimal
	Description     *string
	ItemName        *string
	BillNumber      *string
}

func (u *UpdateTransaction) ValidateUpdateTransaction() error {
	if u.empty() {
		return errors.New("nothing to update")
	}
	confirmed := u.PaymentStatus != nil && *u.PaymentStatus == model.StatusConfirmed
	pending := u.PaymentStatus != nil && *u.PaymentStatus == model.StatusPending
	return validation.ValidateStruct(u,
		validation.Field(&u.PaymentStatus, validation.In(model.StatusPending, model.StatusConfirmed)),
		validation.Field(&u.ModeofPayment,
			validation.When(confirmed, validation.Required.Error("mode of payment is required for a confirmed transaction")),
			validation.When(pending, validation.Nil.Error("mode of payment cannot be set on a pending transaction")),
		),
		validation.Field(&u.PaymentDeadline, validation.When(confirmed, validation.Nil.Error("payment deadline cannot be set on a confirmed transaction"))),
		validation.Field(&u.Amount, validation.By(positiveAmount)),
	)
}

func (u *UpdateTransaction) empty() bool {
	return u.PaymentStatus == nil && u.ModeofPayment == nil && u.PaymentDeadline == nil &&
		u.Amount == nil && u.Description == nil && u.ItemName == nil && u.BillNumber == nil
}

// Apply copies the set fields onto txn, with status changes going through SetStatus.
func (u *UpdateTransaction) Apply(txn *model.Transaction) error {
	if u.PaymentStatus != nil {
		mode := ""
		if u.ModeofPayment != nil {
			mode = *u.ModeofPayment
		}
		if err := txn.SetStatus(*u.PaymentStatus, mode); err != nil {
			return err
		}
	} else if u.ModeofPayment != nil {
		txn.ModeofPayment = *u.ModeofPayment
	}
	if u.PaymentDeadline != nil {
		txn.PaymentDeadline = u.PaymentDeadline
	}
	if u.Amount != nil {
		txn.Amount = *u.Amount
	}
	if u.Description != nil {
		txn.Description = *u.Description
	}
	if u.ItemName != nil {
		txn.ItemName = *u.ItemName
	}
	if u.BillNumber != nil {
		txn.BillNumber = *u.BillNumber
	}
	return nil
}

func (u UpdateTransaction) MarshalJSON() ([]byte, error) {
	body := map[string]interface{}{}
	if u.PaymentStatus != nil {
		body["PaymentStatus"] = *u.PaymentStatus
		switch *u.PaymentStatus {
		case model.StatusConfirmed:
			body["PaymentDeadline"] = nil
		case model.StatusPending:
			body["ModeofPayment"] = ""
		}
	}
	if u.ModeofPayment != nil {
		body["ModeofPayment"] = *u.ModeofPayment
	}
	if u.PaymentDeadline != nil {
		body["PaymentDeadline"] = *u.PaymentDeadline
	}
	if u.Amount != nil {
		body["Amount"] = *u.Amount
	}
	if u.Description != nil {
		body["Description"] = *u.Description
	}
	if u.ItemName != nil {
		body["ItemName"] = *u.ItemName
	}
	if u.BillNumber != nil {
		body["BillNumber"] = *u.BillNumber
	}
	return json.Marshal(body)
}

func (u *UpdateTransaction) UnmarshalJSON(data []byte) error {
	var raw struct {
		PaymentStatus   *model.PaymentStatus `json:"PaymentStatus"`
		ModeofPayment   *string              `json:"ModeofPayment"`
		PaymentDeadline *time.Time           `json:"PaymentDeadline"`
		Amount          *decimal.Decimal     `json:"Amount"`
		Description     *string              `json:"Description"`
		ItemName        *string              `json:"ItemName"`
		BillNumber      *string              `json:"BillNumber"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = UpdateTransaction(raw)
	// a pending status travels with an empty mode to clear it
	if u.PaymentStatus != nil && *u.PaymentStatus == model.StatusPending && u.ModeofPayment != nil && *u.ModeofPayment == "" {
		u.ModeofPayment = nil
	}
	return nil
}
