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
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/nitesh7079/veneer/model"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// positiveAmount accepts a decimal or a non-nil decimal pointer greater than zero.
func positiveAmount(value interface{}) error {
	switch v := value.(type) {
	case decimal.Decimal:
		if !v.IsPositive() {
			return errors.New("must be greater than 0")
		}
	case *decimal.Decimal:
		if v != nil && !v.IsPositive() {
			return errors.New("must be greater than 0")
		}
	default:
		return errors.New("invalid amount type")
	}
	return nil
}

// nonNegativeAmount is used for optional charges, where zero is allowed.
func nonNegativeAmount(value interface{}) error {
	v, ok := value.(*decimal.Decimal)
	if !ok {
		return errors.New("invalid amount type")
	}
	if v != nil && v.IsNegative() {
		return errors.New("cannot be negative")
	}
	return nil
}

func validKind(value interface{}) error {
	k, ok := value.(model.Kind)
	if !ok || !k.Valid() {
		return errors.New("must be one of buy, sell, otherCredit, otherDebit")
	}
	return nil
}

// notBlank rejects empty and whitespace-only strings with msg.
func notBlank(msg string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return errors.New(msg)
		}
		return nil
	}
}

// ValidateObjectID checks an id before it is placed in a request path.
func ValidateObjectID(id string) error {
	return validation.Validate(id,
		validation.Required.Error("id is required"),
		validation.By(func(value interface{}) error {
			if !primitive.IsValidObjectID(value.(string)) {
				return errors.New("id must be a 24 character hex object id")
			}
			return nil
		}),
	)
}
