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
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies one of the four parallel transaction collections.
// Its string value is also the collection path on the backend.
type Kind string

const (
	KindBuy         Kind = "buy"
	KindSell        Kind = "sell"
	KindOtherCredit Kind = "otherCredit"
	KindOtherDebit  Kind = "otherDebit"
)

// Kinds returns every transaction kind in display order.
func Kinds() []Kind {
	return []Kind{KindBuy, KindSell, KindOtherCredit, KindOtherDebit}
}

// ParseKind accepts the collection name in any case, with or without a dash
// ("other-debit", "otherDebit", "OTHERDEBIT").
func ParseKind(s string) (Kind, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))
	for _, k := range Kinds() {
		if strings.ToLower(string(k)) == normalized {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown transaction kind %q: expected one of buy, sell, other-credit, other-debit", s)
}

func (k Kind) Valid() bool {
	_, err := ParseKind(string(k))
	return err == nil
}

func (k Kind) Path() string {
	return "/" + string(k)
}

// Label is the human name used in messages, e.g. "buy order".
func (k Kind) Label() string {
	switch k {
	case KindBuy:
		return "buy order"
	case KindSell:
		return "sell order"
	case KindOtherCredit:
		return "other credit transaction"
	case KindOtherDebit:
		return "other debit transaction"
	default:
		return "transaction"
	}
}

// UsesNameField reports whether the counterparty travels as `Name` instead of `CustomerName`.
func (k Kind) UsesNameField() bool {
	return k == KindOtherCredit || k == KindOtherDebit
}

// IsIncome reports whether the kind counts as income in the accounting summary.
func (k Kind) IsIncome() bool {
	return k == KindSell || k == KindOtherCredit
}

type PaymentStatus string

const (
	StatusPending   PaymentStatus = "Pending"
	StatusConfirmed PaymentStatus = "Confirmed"
)

func (s PaymentStatus) Valid() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Categories of other credit and other debit transactions.
const (
	CategoryOther    = "Other"
	CategoryPurchase = "Purchase"
	CategoryExpense  = "Expense"
	CategoryUtility  = "Utility"
)

func Categories() []string {
	return []string{CategoryOther, CategoryPurchase, CategoryExpense, CategoryUtility}
}

// ModeCash is always a selectable payment mode; banks are added to it.
const ModeCash = "Cash"

// Payment is one recorded payment event against a transaction.
type Payment struct {
	Amount        decimal.Decimal `json:"amount"`
	ModeofPayment string          `json:"ModeofPayment,omitempty"`
	DateOfPayment time.Time       `json:"dateOfPayment"`
}

// Transaction is the shared shape of buy, sell, other credit and other debit records.
type Transaction struct {
	ID              string           `json:"_id"`
	OrderNumber     int64            `json:"OrderNumber,omitempty"`
	Kind            Kind             `json:"-"`
	CustomerName    string           `json:"CustomerName,omitempty"`
	Name            string           `json:"Name,omitempty"`
	ItemName        string           `json:"ItemName,omitempty"`
	Under           string           `json:"Under,omitempty"`
	Category        string           `json:"Category,omitempty"`
	Description     string           `json:"Description,omitempty"`
	Quantity        *decimal.Decimal `json:"Quantity,omitempty"`
	Amount          decimal.Decimal  `json:"Amount"`
	VatAmount       *decimal.Decimal `json:"VatAmount,omitempty"`
	CustomCharges   *decimal.Decimal `json:"CustomCharges,omitempty"`
	BillNumber      string           `json:"BillNumber,omitempty"`
	PhoneNumber     string           `json:"PhoneNumber,omitempty"`
	VehicleNumber   string           `json:"VehicleNumber,omitempty"`
	DeliveryAddress string           `json:"DeliveryAddress,omitempty"`
	PaymentStatus   PaymentStatus    `json:"PaymentStatus"`
	PaymentDeadline *time.Time       `json:"PaymentDeadline,omitempty"`
	ModeofPayment   string           `json:"ModeofPayment,omitempty"`
	Payments        []Payment        `json:"Payments"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt,omitempty"`
}

// Counterparty returns the grouping key: CustomerName for buy/sell, Name for the
// other kinds. It is returned exactly as stored, without trimming or case folding.
func (t *Transaction) Counterparty() string {
	if t.CustomerName != "" {
		return t.CustomerName
	}
	return t.Name
}

// SetCounterparty stores name in the field the kind expects.
func (t *Transaction) SetCounterparty(name string) {
	if t.Kind.UsesNameField() {
		t.Name = name
		return
	}
	t.CustomerName = name
}

// TotalPaid sums every recorded payment event.
func (t *Transaction) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range t.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// Due is the base amount minus everything paid so far. Overpayment is reported as a negative due.
func (t *Transaction) Due() decimal.Decimal {
	return t.Amount.Sub(t.TotalPaid())
}

func (t *Transaction) IsConfirmed() bool {
	return t.PaymentStatus == StatusConfirmed
}

// SetStatus switches the payment status and keeps deadline and mode mutually
// exclusive: Confirmed drops the deadline and records mode, Pending drops the mode.
func (t *Transaction) SetStatus(status PaymentStatus, mode string) error {
	switch status {
	case StatusConfirmed:
		if strings.TrimSpace(mode) == "" {
			return fmt.Errorf("mode of payment is required for a confirmed %s", t.Kind.Label())
		}
		t.PaymentStatus = StatusConfirmed
		t.ModeofPayment = mode
		t.PaymentDeadline = nil
	case StatusPending:
		t.PaymentStatus = StatusPending
		t.ModeofPayment = ""
	default:
		return fmt.Errorf("invalid payment status %q", status)
	}
	return nil
}

// IsOverdue reports a pending transaction whose deadline is strictly in the past.
func (t *Transaction) IsOverdue(now time.Time) bool {
	return t.PaymentStatus == StatusPending && t.PaymentDeadline != nil && t.PaymentDeadline.Before(now)
}

// IsUpcoming reports a pending transaction whose deadline falls within [now, now+window].
func (t *Transaction) IsUpcoming(now time.Time, window time.Duration) bool {
	if t.PaymentStatus != StatusPending || t.PaymentDeadline == nil {
		return false
	}
	d := *t.PaymentDeadline
	return !d.Before(now) && !d.After(now.Add(window))
}

// OverdueDays is the number of whole days since the deadline passed, zero when not overdue.
func (t *Transaction) OverdueDays(now time.Time) int {
	if !t.IsOverdue(now) {
		return 0
	}
	return int(now.Sub(*t.PaymentDeadline).Hours() / 24)
}

func (t *Transaction) ToJSON() ([]byte, error) {
	return json.Marshal(t)
}

// Tag sets Kind on every transaction of a freshly decoded list.
func Tag(kind Kind, txns []Transaction) []Transaction {
	for i := range txns {
		txns[i].Kind = kind
	}
	return txns
}
