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
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// The backend stores amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Pagination is attached by the backend to some list responses.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ListResponse is the `{ success, data, pagination? }` envelope returned by list endpoints.
type ListResponse[T any] struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Count      int         `json:"count,omitempty"`
	Data       []T         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// MutationResponse is the `{ success, message, data? }` envelope returned by mutations.
type MutationResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

// FieldError is a single entry of a backend validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorBody is the JSON body the backend sends alongside a non-2xx status.
type ErrorBody struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Error   string       `json:"error,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// Text returns the most specific human readable message carried by the body.
// Field errors win over the generic message since they tell the user what to fix.
func (e ErrorBody) Text() string {
	if len(e.Errors) > 0 {
		parts := make([]string, 0, len(e.Errors))
		for _, fe := range e.Errors {
			parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
		}
		return "Validation failed: " + strings.Join(parts, ", ")
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}
