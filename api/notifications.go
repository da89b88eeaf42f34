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

package api

import (
	"context"
	"net/http"

	apimodel "github.com/nitesh7079/veneer/api/model"
	"github.com/nitesh7079/veneer/internal/apierror"
	"github.com/nitesh7079/veneer/model"
)

func (c *Client) ListNotifications(ctx context.Context) ([]model.Notification, error) {
	var resp model.ListResponse[model.Notification]
	err := c.do(ctx, call{
		op:     operation{name: "list notifications", fallback: "Failed to fetch notifications", timeout: SlowTimeout},
		method: http.MethodGet,
		path:   "/notifications/all",
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// UnreadNotifications returns the raw envelope so the poller can tell a
// `success: false` answer apart from a connection failure.
func (c *Client) UnreadNotifications(ctx context.Context) (*model.ListResponse[model.Notification], error) {
	var resp model.ListResponse[model.Notification]
	err := c.do(ctx, call{
		op:     operation{name: "unread notifications", fallback: "Failed to fetch unread notifications", timeout: UnreadTimeout},
		method: http.MethodGet,
		path:   "/notifications/unreaded",
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) MarkAsRead(ctx context.Context, id string) error {
	if err := apimodel.ValidateObjectID(id); err != nil {
		return apierror.Validation(err.Error(), nil)
	}
	return c.do(ctx, call{
		op:     operation{name: "mark notification read", fallback: "Failed to mark notification as read"},
		method: http.MethodPut,
		path:   "/notifications/markAsRead/" + id,
	})
}

// CheckOverdue asks the backend to scan for overdue transactions and create notifications.
func (c *Client) CheckOverdue(ctx context.Context) (*model.MutationResponse[model.OverdueCheck], error) {
	var resp model.MutationResponse[model.OverdueCheck]
	err := c.do(ctx, call{
		op:     operation{name: "check overdue", fallback: "Failed to check overdue payments"},
		method: http.MethodPost,
		path:   "/notifications/checkOverdue",
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
