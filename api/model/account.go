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
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/nitesh7079/veneer/model"
	"github.com/shopspring/decimal"
)

// CreateAccount is a cash-book entry.
type CreateAccount struct {
	PersonName    string              `json:"personName"`
	Type          model.EntryType     `json:"type"`
	Amount        decimal.Decimal     `json:"amount"`
	PaymentStatus model.PaymentStatus `json:"paymentStatus,omitempty"`
	ModeofPayment string              `json:"ModeofPayment,omitempty"`
	Description   string              `json:"description,omitempty"`
	Date          *time.Time          `json:"date,omitempty"`
}

type ConfirmPayment struct {
	ConfirmedAmount decimal.Decimal `json:"confirmedAmount"`
}

func (a *CreateAccount) ValidateCreateAccount() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.PersonName, validation.By(notBlank("person name is required"))),
		validation.Field(&a.Type, validation.Required, validation.In(model.EntryCredit, model.EntryDebit)),
		validation.Field(&a.Amount, validation.By(positiveAmount)),
		validation.Field(&a.PaymentStatus, validation.In(model.StatusPending, model.StatusConfirmed)),
	)
}

func (c *ConfirmPayment) ValidateConfirmPayment() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ConfirmedAmount, validation.By(positiveAmount)),
	)
}

func (a *CreateAccount) ToAccountEntry(now time.Time) model.AccountEntry {
	entry := model.AccountEntry{
		PersonName:    a.PersonName,
		Type:          a.Type,
		Amount:        a.Amount,
		PaymentStatus: a.PaymentStatus,
		ModeofPayment: a.ModeofPayment,
		Description:   a.Description,
		Date:          now,
	}
	if entry.PaymentStatus == "" {
		entry.PaymentStatus = model.StatusPending
	}
	if a.Date != nil {
		entry.Date = *a.Date
	}
	if entry.PaymentStatus == model.StatusConfirmed {
		entry.ConfirmedAmount = a.Amount
	}
	return entry
}
