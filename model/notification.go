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

// Notification is created by the backend when a pending transaction goes overdue.
// The client only lists them and marks them read.
type Notification struct {
	ID               string          `json:"_id"`
	CustomerName     string          `json:"CustomerName"`
	TransactionType  string          `json:"TransactionType"`
	TransactionID    string          `json:"TransactionId,omitempty"`
	Amount           decimal.Decimal `json:"Amount"`
	PendingAmount    decimal.Decimal `json:"PendingAmount"`
	OverdueDays      int             `json:"OverdueDays"`
	Message          string          `json:"Message,omitempty"`
	IsReaded         bool            `json:"IsReaded"`
	NotificationDate *time.Time      `json:"NotificationDate,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// Date is the creation time, falling back to NotificationDate for older records.
func (n Notification) Date() time.Time {
	if !n.CreatedAt.IsZero() {
		return n.CreatedAt
	}
	if n.NotificationDate != nil {
		return *n.NotificationDate
	}
	return time.Time{}
}

// OverdueCheck is the data returned by `POST /notifications/checkOverdue`.
type OverdueCheck struct {
	TotalOverdue int `json:"totalOverdue"`
	Overdue      struct {
		NotificationsCreated int `json:"notificationsCreated"`
	} `json:"overdue"`
}
