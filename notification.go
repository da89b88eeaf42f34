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

package veneer

import (
	"context"

	"github.com/nitesh7079/veneer/aggregate"
	"github.com/nitesh7079/veneer/model"
	"github.com/nitesh7079/veneer/poller"
)

// NotificationView is a filtered notification list. Stats always count the
// whole list so the read/unread tabs keep their totals while filtering.
type NotificationView struct {
	Notifications []model.Notification
	Stats         aggregate.NotificationStats
}

func (v *Veneer) Notifications(ctx context.Context, c aggregate.NotificationCriteria) (*NotificationView, error) {
	ctx, span := tracer.Start(ctx, "Listing notifications")
	defer span.End()

	all, err := v.client.ListNotifications(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &NotificationView{
		Notifications: aggregate.FilterNotifications(all, c),
		Stats:         aggregate.StatsOf(all),
	}, nil
}

func (v *Veneer) MarkAsRead(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Marking notification read")
	defer span.End()

	if err := v.client.MarkAsRead(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// CheckOverdue asks the backend to raise notifications for overdue transactions.
func (v *Veneer) CheckOverdue(ctx context.Context) (string, *model.OverdueCheck, error) {
	ctx, span := tracer.Start(ctx, "Checking overdue transactions")
	defer span.End()

	resp, err := v.client.CheckOverdue(ctx)
	if err != nil {
		span.RecordError(err)
		return "", nil, err
	}
	return resp.Message, &resp.Data, nil
}

// NewPoller builds an unread-notification poller on the service's clock.
// The caller starts and stops it.
func (v *Veneer) NewPoller(opts ...poller.Option) *poller.Poller {
	opts = append([]poller.Option{poller.WithClock(v.clock)}, opts...)
	return poller.New(v.client, v.config.Poller, opts...)
}
