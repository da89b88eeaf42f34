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
	"time"

	apimodel "github.com/nitesh7079/veneer/api/model"
	"github.com/nitesh7079/veneer/aggregate"
	"github.com/nitesh7079/veneer/model"
	"github.com/spf13/cobra"
	"github.com/wacul/ptr"
)

type accountFlags struct {
	filter                model.AccountFilter
	entryType, statusFlag string
}

func (f *accountFlags) bind(cmd *cobra.Command, paged bool) {
	cmd.Flags().StringVar(&f.filter.PersonName, "name", "", "Person name contains")
	cmd.Flags().StringVar(&f.entryType, "type", "", "credit or debit")
	cmd.Flags().StringVar(&f.statusFlag, "status", "", "Pending or Confirmed")
	cmd.Flags().StringVar(&f.filter.StartDate, "from", "", "On or after (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.filter.EndDate, "to", "", "On or before (YYYY-MM-DD)")
	if paged {
		cmd.Flags().IntVar(&f.filter.Page, "page", 1, "Page number")
		cmd.Flags().IntVar(&f.filter.Limit, "limit", 20, "Entries per page")
	}
}

func (f *accountFlags) build() model.AccountFilter {
	out := f.filter
	out.Type = model.EntryType(f.entryType)
	out.PaymentStatus = model.PaymentStatus(f.statusFlag)
	return out
}

func printEntries(out io.Writer, entries []model.AccountEntry) error {
	t := newTable(out, "ID", "DATE", "PERSON", "TYPE", "AMOUNT", "CONFIRMED", "STATUS", "MODE")
	for _, e := range entries {
		t.row(e.ID, day(e.Date), e.PersonName, e.Type, money(e.Amount), money(e.ConfirmedAmount), e.PaymentStatus, orDash(e.ModeofPayment))
	}
	return t.flush()
}

func accountCommands(b *veneerInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "the cash-book of credits and debits per person",
	}
	cmd.AddCommand(listAccountsCommand(b))
	cmd.AddCommand(latestAccountsCommand(b))
	cmd.AddCommand(pendingAccountsCommand(b))
	cmd.AddCommand(accountSummaryCommand(b))
	cmd.AddCommand(addAccountCommand(b))
	cmd.AddCommand(confirmAccountCommand(b))
	cmd.AddCommand(deleteAccountCommand(b))
	return cmd
}

func listAccountsCommand(b *veneerInstance) *cobra.Command {
	var flags accountFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "list cash-book entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := b.veneer.AccountBook(cmd.Context(), flags.build())
			if err != nil {
				return err
			}
			if b.jsonOut {
				return printJSON(cmd.OutOrStdout(), book)
			}
			if err := printEntries(cmd.OutOrStdout(), book.Entries); err != nil {
				return err
			}
			if p := book.Pagination; p != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "\npage %d of %d (%d entries)\n", p.Page, p.TotalPages, p.Total)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Balance %s (credit %s, debit %s)\n",
				money(book.Balance.Balance), money(book.Balance.TotalCredit), money(book.Balance.TotalDebit))
			return nil
		},
	}
	flags.bind(cmd, true)
	return cmd
}

func latestAccountsCommand(b *veneerInstance) *cobra.Command {
	var flags accountFlags
	cmd := &cobra.Command{
		Use:   "latest",
		Short: "the latest entry of every person",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := b.veneer.LatestPerPerson(cmd.Context(), flags.build())
			if err != nil {
				return err
			}
			if b.jsonOut {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			return printEntries(cmd.OutOrStdout(), entries)
		},
	}
	flags.bind(cmd, false)
	return cmd
}

func pendingAccountsCommand(b *veneerInstance) *cobra.Command {
	var flags accountFlags
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "entries not fully confirmed",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := b.veneer.PendingAccountPayments(cmd.Context(), flags.build())
			if err != nil {
				return err
			}
			if b.jsonOut {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			return printEntries(cmd.OutOrStdout(), entries)
		},
	}
	flags.bind(cmd, false)
	return cmd
}

func accountSummaryCommand(b *veneerInstance) *cobra.Command {
	var flags accountFlags
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "totals over the matching entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := b.veneer.AccountSummary(cmd.Context(), flags.build())
			if err != nil {
				return err
			}
			if b.jsonOut {
				return printJSON(cmd.OutOrStdout(), s)
			}
			t := newTable(cmd.OutOrStdout(), "CREDIT", "DEBIT", "NET", "PENDING", "ENTRIES")
			t.row(money(s.TotalCredit), money(s.TotalDebit), money(s.NetBalance), money(s.PendingAmount), s.TransactionCount)
			return t.flush()
		},
	}
	flags.bind(cmd, false)
	return cmd
}

func addAccountCommand(b *veneerInstance) *cobra.Command {
	var form apimodel.CreateAccount
	var entryType, amount, statusFlag, date string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "add a cash-book entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			form.Type = model.EntryType(entryType)
			form.PaymentStatus = model.PaymentStatus(statusFlag)
			if form.Amount, err = parseAmount("amount", amount); err != nil {
				return err
			}
			if date != "" {
				d, _, err := aggregate.ParseDate(date, time.Local)
				if err != nil {
					return fmt.Errorf("--date: %w", err)
				}
				form.Date = ptr.Time(d)
			}
			_, msg, err := b.veneer.AddAccountEntry(cmd.Context(), &form)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.PersonName, "name", "", "Person name")
	cmd.Flags().StringVar(&entryType, "type", string(model.EntryCredit), "credit or debit")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount")
	cmd.Flags().StringVar(&statusFlag, "status", "", "Pending or Confirmed")
	cmd.Flags().StringVar(&form.ModeofPayment, "mode", "", "Payment mode")
	cmd.Flags().StringVar(&form.Description, "description", "", "Description")
	cmd.Flags().StringVar(&date, "date", "", "Entry date (YYYY-MM-DD), defaults to now")
	return cmd
}

func confirmAccountCommand(b *veneerInstance) *cobra.Command {
	var amount string
	cmd := &cobra.Command{
		Use:   "confirm <id>",
		Short: "confirm part or all of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseAmount("amount", amount)
			if err != nil {
				return err
			}
			_, msg, err := b.veneer.ConfirmAccountPayment(cmd.Context(), args[0], d)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&amount, "amount", "", "Amount confirmed")
	return cmd
}

func deleteAccountCommand(b *veneerInstance) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "delete a cash-book entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := b.veneer.DeleteAccountEntry(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Entry deleted")
			return nil
		},
	}
}
