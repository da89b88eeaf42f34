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

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nitesh7079/veneer/aggregate"
	"github.com/nitesh7079/veneer/model"
	"github.com/nitesh7079/veneer/poller"
	"github.com/spf13/cobra"
	"github.com/wacul/ptr"
)

func notificationCommands(b *veneerInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notify"},
		Short:   "overdue payment notifications",
	}
	cmd.AddCommand(listNotificationsCommand(b))
	cmd.AddCommand(unreadCommand(b))
	cmd.AddCommand(markReadCommand(b))
	cmd.AddCommand(checkOverdueCommand(b))
	cmd.AddCommand(watchCommand(b))
	return cmd
}

func printNotifications(out io.Writer, ns []model.Notification) error {
	t := newTable(out, "ID", "DATE", "COUNTERPARTY", "TYPE", "AMOUNT", "PENDING", "OVERDUE", "READ")
	for _, n := range ns {
		t.row(n.ID, day(n.Date()), n.CustomerName, n.TransactionType, money(n.Amount), money(n.PendingAmount), fmt.Sprintf("%dd", n.OverdueDays), n.IsReaded)
	}
	return t.flush()
}

func listNotificationsCommand(b *veneerInstance) *cobra.Command {
	var state, name, txnType, date string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "list notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := aggregate.NotificationCriteria{State: aggregate.ReadState(state), Name: name, TransactionType: txnType}
			switch c.State {
			case aggregate.ReadAll, aggregate.ReadRead, aggregate.ReadUnread:
			default:
				return fmt.Errorf("--state must be all, read or unread")
			}
			if date != "" {
				d, _, err := aggregate.ParseDate(date, time.Local)
				if err != nil {
					return fmt.Errorf("--date: %w", err)
				}
				c.Date = ptr.Time(d)
			}

			view, err := b.veneer.Notifications(cmd.Context(), c)
			if err != nil {
				return err
			}
			if b.jsonOut {
				return printJSON(cmd.OutOrStdout(), view)
			}
			if err := printNotifications(cmd.OutOrStdout(), view.Notifications); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d total, %d unread, %d read\n", view.Stats.Total, view.Stats.Unread, view.Stats.Read)
			return nil
		},
	}
	cmd.Flags().StringVar(&state, "state", string(aggregate.ReadAll), "all, read or unread")
	cmd.Flags().StringVar(&name, "name", "", "Counterparty name contains")
	cmd.Flags().StringVar(&txnType, "type", "", "Transaction type contains")
	cmd.Flags().StringVar(&date, "date", "", "Created on this day (YYYY-MM-DD)")
	return cmd
}

func unreadCommand(b *veneerInstance) *cobra.Command {
	return &cobra.Command{
		Use:   "unread",
		Short: "count unread notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := b.veneer.Notifications(cmd.Context(), aggregate.NotificationCriteria{State: aggregate.ReadUnread})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d unread\n", len(view.Notifications))
			return nil
		},
	}
}

func markReadCommand(b *veneerInstance) *cobra.Command {
	return &cobra.Command{
		Use:   "read <id>",
		Short: "mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := b.veneer.MarkAsRead(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Marked as read")
			return nil
		},
	}
}

func checkOverdueCommand(b *veneerInstance) *cobra.Command {
	return &cobra.Command{
		Use:   "check-overdue",
		Short: "ask the backend to raise notifications for overdue transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, _, err := b.veneer.CheckOverdue(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func describeSnapshot(s poller.Snapshot) string {
	switch {
	case s.State == poller.StateStopped:
		return "stopped"
	case s.ConnectionError && s.State == poller.StateBackingOff:
		return fmt.Sprintf("offline: %s (retry %d)", s.LastError, s.Retries)
	case s.ConnectionError:
		return fmt.Sprintf("offline: %s (waiting for next poll)", s.LastError)
	case s.State == poller.StateFetching:
		return ""
	default:
		return fmt.Sprintf("%d unread", s.UnreadCount)
	}
}

func watchCommand(b *veneerInstance) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "poll unread notifications until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			changes := make(chan poller.Snapshot, 16)
			p := b.veneer.NewPoller()
			p.OnChange(func(s poller.Snapshot) {
				select {
				case changes <- s:
				default:
				}
			})
			p.Start()
			defer p.Stop()

			last := ""
			for {
				select {
				case <-ctx.Done():
					return nil
				case s := <-changes:
					line := describeSnapshot(s)
					if line == "" || line == last {
						continue
					}
					last = line
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", time.Now().Format("15:04:05"), line)
				}
			}
		},
	}
}
