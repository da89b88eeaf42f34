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
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountCurrent  AccountType = "Current"
	AccountSavings  AccountType = "Savings"
	AccountBusiness AccountType = "Business"
	AccountSalary   AccountType = "Salary"
	AccountNRI      AccountType = "NRI"
)

func AccountTypes() []AccountType {
	return []AccountType{AccountCurrent, AccountSavings, AccountBusiness, AccountSalary, AccountNRI}
}

// Bank is a company bank account. Banks are toggled inactive, never deleted.
type Bank struct {
	ID                string      `json:"_id"`
	BankName          string      `json:"bankName"`
	AccountNumber     string      `json:"accountNumber"`
	AccountHolderName string      `json:"accountHolderName"`
	IfscCode          string      `json:"ifscCode"`
	BranchName        string      `json:"branchName"`
	AccountType       AccountType `json:"accountType"`
	ContactPerson     string      `json:"contactPerson,omitempty"`
	ContactNumber     string      `json:"contactNumber,omitempty"`
	Address           string      `json:"address,omitempty"`
	IsActive          bool        `json:"isActive"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt,omitempty"`
}

// MaskedAccountNumber hides everything but the last four digits.
func (b Bank) MaskedAccountNumber() string {
	n := strings.TrimSpace(b.AccountNumber)
	if len(n) <= 4 {
		return n
	}
	return strings.Repeat("*", len(n)-4) + n[len(n)-4:]
}

// BankTransaction is one movement shown on a bank's statement. TransactionType
// is the collection it came from: Buy, Sell, OtherCredit or OtherDebit.
type BankTransaction struct {
	ID              string          `json:"_id"`
	TransactionType string          `json:"transactionType"`
	CustomerName    string          `json:"customerName,omitempty"`
	OrderNumber     int64           `json:"orderNumber,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description,omitempty"`
	TransactionDate time.Time       `json:"transactionDate"`
}

// IsCredit reports money coming into the bank.
func (t BankTransaction) IsCredit() bool {
	return t.TransactionType == "Sell" || t.TransactionType == "OtherCredit"
}

type BankSummary struct {
	TotalCredit      decimal.Decimal `json:"totalCredit"`
	TotalDebit       decimal.Decimal `json:"totalDebit"`
	CurrentBalance   decimal.Decimal `json:"currentBalance"`
	TransactionCount int             `json:"transactionCount"`
}

// BankStatement is the payload of `GET /banks/:id/transactions`.
type BankStatement struct {
	Transactions []BankTransaction `json:"transactions"`
	Summary      BankSummary       `json:"summary"`
}

// PaymentMethod is an entry of `GET /banks/payment-methods`: cash or one bank.
type PaymentMethod struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	BankID string `json:"bankId,omitempty"`
}
