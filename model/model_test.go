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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorBody_Text(t *testing.T) {
	tests := []struct {
		name     string
		body     ErrorBody
		expected string
	}{
		{"message only", ErrorBody{Message: "Customer not found"}, "Customer not found"},
		{"error only", ErrorBody{Error: "boom"}, "boom"},
		{
			"field errors win",
			ErrorBody{Message: "Validation failed", Errors: []FieldError{{Field: "ifscCode", Message: "invalid"}, {Field: "accountNumber", Message: "required"}}},
			"Validation failed: ifscCode: invalid, accountNumber: required",
		},
		{"empty", ErrorBody{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.body.Text())
		})
	}
}

func TestListResponse_Decode(t *testing.T) {
	raw := `{"success":true,"count":2,"data":[{"_id":"n1","CustomerName":"Ram","Amount":1000,"PendingAmount":400,"OverdueDays":3,"IsReaded":false,"createdAt":"2024-05-01T10:00:00Z"},{"_id":"n2","CustomerName":"Shyam","Amount":50.5,"PendingAmount":0,"IsReaded":true,"createdAt":"2024-05-02T10:00:00Z"}]}`
	var resp ListResponse[Notification]
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "1000", resp.Data[0].Amount.String())
	assert.Equal(t, "50.5", resp.Data[1].Amount.String())
	assert.Equal(t, 3, resp.Data[0].OverdueDays)
	assert.Nil(t, resp.Pagination)
}

func TestAmountsMarshalAsNumbers(t *testing.T) {
	txn := Transaction{ID: "t1", Amount: mustDecimal(t, "1000.50"), PaymentStatus: StatusPending}
	data, err := txn.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Amount":1000.5`)
}

func TestBank_MaskedAccountNumber(t *testing.T) {
	assert.Equal(t, "********1234", Bank{AccountNumber: "123456781234"}.MaskedAccountNumber())
	assert.Equal(t, "1234", Bank{AccountNumber: "1234"}.MaskedAccountNumber())
	assert.Equal(t, "", Bank{}.MaskedAccountNumber())
}

func TestNotification_Date(t *testing.T) {
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	legacy := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, created, Notification{CreatedAt: created, NotificationDate: &legacy}.Date())
	assert.Equal(t, legacy, Notification{NotificationDate: &legacy}.Date())
	assert.True(t, Notification{}.Date().IsZero())
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	assert.False(t, Session{Token: "t"}.Expired(now))
	assert.False(t, Session{Token: "t", ExpiresAt: now.Add(time.Hour)}.Expired(now))
	assert.True(t, Session{Token: "t", ExpiresAt: now.Add(-time.Second)}.Expired(now))
}
