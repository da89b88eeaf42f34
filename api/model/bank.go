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
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/nitesh7079/veneer/model"
)

var ifscPattern = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)

type CreateBank struct {
	BankName          string            `json:"bankName"`
	AccountNumber     string            `json:"accountNumber"`
	AccountHolderName string            `json:"accountHolderName"`
	IfscCode          string            `json:"ifscCode"`
	BranchName        string            `json:"branchName"`
	AccountType       model.AccountType `json:"accountType"`
	ContactPerson     string            `json:"contactPerson,omitempty"`
	ContactNumber     string            `json:"contactNumber,omitempty"`
	Address           string            `json:"address,omitempty"`
}

func (b *CreateBank) ValidateCreateBank() error {
	b.IfscCode = strings.ToUpper(strings.TrimSpace(b.IfscCode))
	types := make([]interface{}, 0, len(model.AccountTypes()))
	for _, t := range model.AccountTypes() {
		types = append(types, t)
	}
	return validation.ValidateStruct(b,
		validation.Field(&b.BankName, validation.Required),
		validation.Field(&b.AccountNumber, validation.Required, is.Digit, validation.Length(6, 18)),
		validation.Field(&b.AccountHolderName, validation.Required),
		validation.Field(&b.IfscCode, validation.Required, validation.Match(ifscPattern).Error("must look like SBIN0001234")),
		validation.Field(&b.BranchName, validation.Required),
		validation.Field(&b.AccountType, validation.Required, validation.In(types...)),
		validation.Field(&b.ContactNumber, is.Digit, validation.Length(10, 15)),
	)
}

func (b *CreateBank) ToBank() model.Bank {
	return model.Bank{
		BankName:          strings.TrimSpace(b.BankName),
		AccountNumber:     b.AccountNumber,
		AccountHolderName: b.AccountHolderName,
		IfscCode:          b.IfscCode,
		BranchName:        b.BranchName,
		AccountType:       b.AccountType,
		ContactPerson:     b.ContactPerson,
		ContactNumber:     b.ContactNumber,
		Address:           b.Address,
		IsActive:          true,
	}
}
