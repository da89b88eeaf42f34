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

	"github.com/shopspring/decimal"
)

type EntryType string

const (
	EntryCredit EntryType = "credit"
	EntryDebit  EntryType = "debit"
)

// AccountEntry is one row of the cash-book kept under `/accounts`.
type AccountEntry struct {
	ID              string          `json:"_id"`
	PersonName      string          `json:"personName"`
	Type            EntryType       `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	ConfirmedAmount decimal.Decimal `json:"confirmedAmount"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	ModeofPayment   string          `json:"ModeofPayment,omitempty"`
	Description     string          `json:"description,omitempty"`
	Date            time.Time       `json:"date"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// AccountBalance is the running cash-book balance.
type AccountBalance struct {
	Balance     decimal.Decimal `json:"balance"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
}

// AccountSummary aggregates the cash-book over the requested filters.
type AccountSummary struct {
	TotalCredit      decimal.Decimal `json:"totalCredit"`
	TotalDebit       decimal.Decimal `json:"totalDebit"`
	NetBalance       decimal.Decimal `json:"netBalance"`
	TransactionCount int             `json:"transactionCount"`
	PendingAmount    decimal.Decimal `json:"pendingAmount"`
}

// AccountFilter is turned into the query string of the `/accounts` listings.
// Empty fields are left out of the query.
type AccountFilter struct {
	PersonName    string
	Type          EntryType
	PaymentStatus PaymentStatus
	StartDate     string
	EndDate       string
	Page          int
	Limit         int
}
