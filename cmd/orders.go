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
	"strings"
	"time"

	"github.com/nitesh7079/veneer"
	apimodel "github.com/nitesh7079/veneer/api/model"
	"github.com/nitesh7079/veneer/aggregate"
	"github.com/nitesh7079/veneer/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/wacul/ptr"
)

type criteriaFlags struct {
	name, from, to, category string
}

func (c *criteriaFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.name, "name", "", "Counterparty name contains")
	cmd.Flags().StringVar(&c.from, "from", "", "Created on or after (YYYY-MM-DD)")
	cmd.Flags().StringVar(&c.to, "to", "", "Created on or before (YYYY-MM-DD)")
	cmd.Flags().StringVar(&c.category, "category", "", "Category, for other credit and debit")
}

func (c *criteriaFlags) criteria() (aggregate.Criteria, error) {
	return aggregate.ParseCriteria(c.name, c.from, c.to, c.category, time.Local)
}

func kindFlag(cmd *cobra.Command, kind *string) {
	cmd.Flags().StringVarP(kind, "kind", "k", string(model.KindBuy), "Collection: buy, sell, other-credit or other-debit")
}

func parseAmount(flag, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: %q is not an amount", flag, s)
	}
	return d, nil
}

func optionalAmount(flag, s string) (*decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := parseAmount(flag, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func orderCommands(b *veneerInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orders",
		Aliases: []string{"transactions"},
		Short:   "buy and sell orders, other credits and debits",
	}
	cmd.AddCommand(listOrdersCommand(b))
	cmd.AddCommand(createOrderCommand(b))
	cmd.AddCommand(payCommand(b))
	cmd.AddCommand(statusCommand(b))
	cmd.AddCommand(suggestCommand(b))
	return cmd
}

func listOrdersCommand(b *veneerInstance) *cobra.Command {
	var kind string
	var filters criteriaFlags
	var detail bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "list a collection grouped by counterparty",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := model.ParseKind(kind)
			if err != nil {
				return err
			}
			c, err := filters.criteria()
			if err != nil {
				return err
			}
			view, err := b.veneer.SummarizeTransactions(cmd.Context(), k, c)
			if err != nil {
				return err
			}
			if b.jsonOut {
				return printJSON(cmd.OutOrStdout(), view)
			}
			return printView(cmd.OutOrStdout(), view, detail)
		},
	}
	kindFlag(cmd, &kind)
	filters.bind(cmd)
	cmd.Flags().BoolVar(&detail, "detail", false, "List every transaction under its group")
	return cmd
}

func status(allConfirmed bool) string {
	if allConfirmed {
		return string(model.StatusConfirmed)
	}
	return string(model.StatusPending)
}

func printView(out io.Writer, view *veneer.TransactionView, detail bool) error {
	if len(view.Groups) == 0 {
		fmt.Fprintf(out, "No %ss found\n", view.Kind.Label())
		return nil
	}
	t := newTable(out, "COUNTERPARTY", "COUNT", "TOTAL", "PAID", "DUE", "STATUS")
	for _, g := range view.Groups {
		t.row(g.Name, g.Count, money(g.TotalAmount), money(g.TotalPaid), money(g.Due), status(g.AllConfirmed))
		if !detail {
			continue
		}
		for _, txn := range g.Transactions {
			label := fmt.Sprintf("  #%d %s", txn.OrderNumber, orDash(txn.ItemName))
			if txn.Kind.UsesNameField() {
				label = "  " + orDash(txn.Category)
			}
			t.row(label, day(txn.CreatedAt), money(txn.Amount), money(txn.TotalPaid()), money(txn.Due()), txn.PaymentStatus)
		}
	}
	tot := view.Totals
	t.row("TOTAL", tot.Count, money(tot.TotalAmount), money(tot.TotalPaid), money(tot.Due), status(tot.AllConfirmed))
	if err := t.flush(); err != nil {
		return err
	}
	for _, p := range view.Similar {
		fmt.Fprintf(out, "note: %q and %q look like the same counterparty\n", p.A, p.B)
	}
	return nil
}

func createOrderCommand(b *veneerInstance) *cobra.Command {
	var (
		kind, name, amount, quantity, vat, charges, deadline, statusFlag string
		form                                                             apimodel.CreateTransaction
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "add a transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := model.ParseKind(kind)
			if err != nil {
				return err
			}
			form.Kind = k
			form.SetCounterparty(name)
			form.PaymentStatus = model.PaymentStatus(statusFlag)
			if form.Amount, err = parseAmount("amount", amount); err != nil {
				return err
			}
			if form.Quantity, err = optionalAmount("quantity", quantity); err != nil {
				return err
			}
			if form.VatAmount, err = optionalAmount("vat", vat); err != nil {
				return err
			}
			if form.CustomCharges, err = optionalAmount("charges", charges); err != nil {
				return err
			}
			if deadline != "" {
				d, _, err := aggregate.ParseDate(deadline, time.Local)
				if err != nil {
					return fmt.Errorf("--deadline: %w", err)
				}
				form.PaymentDeadline = ptr.Time(aggregate.EndOfDay(d))
			}

			out, err := b.veneer.CreateTransaction(cmd.Context(), &form)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			return nil
		},
	}
	kindFlag(cmd, &kind)
	cmd.Flags().StringVar(&name, "name", "", "Customer or counterparty name")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount")
	cmd.Flags().StringVar(&statusFlag, "status", string(model.StatusPending), "Pending or Confirmed")
	cmd.Flags().StringVar(&form.ModeofPayment, "mode", "", "Payment mode, required when Confirmed")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Payment deadline (YYYY-MM-DD), Pending only")
	cmd.Flags().StringVar(&form.ItemName, "item", "", "Item name")
	cmd.Flags().StringVar(&form.Under, "under", "", "Item group")
	cmd.Flags().StringVar(&form.Category, "category", "", "Category: Other, Purchase, Expense or Utility")
	cmd.Flags().StringVar(&form.Description, "description", "", "Description")
	cmd.Flags().StringVar(&quantity, "quantity", "", "Quantity")
	cmd.Flags().StringVar(&vat, "vat", "", "VAT amount")
	cmd.Flags().StringVar(&charges, "charges", "", "Custom charges")
	cmd.Flags().StringVar(&form.BillNumber, "bill", "", "Bill number")
	cmd.Flags().StringVar(&form.PhoneNumber, "phone", "", "Phone number")
	cmd.Flags().StringVar(&form.VehicleNumber, "vehicle", "", "Vehicle number")
	cmd.Flags().StringVar(&form.DeliveryAddress, "address", "", "Delivery address")
	return cmd
}

func payCommand(b *veneerInstance) *cobra.Command {
	var kind, target, amount, mode string
	var full bool
	cmd := &cobra.Command{
		Use:   "pay",
		Short: "record a payment against a counterparty or one transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := model.ParseKind(kind)
			if err != nil {
				return err
			}
			var result *veneer.PaymentResult
			if full {
				result, err = b.veneer.PayInFull(cmd.Context(), k, target, mode)
			} else {
				p := &apimodel.RecordPayment{Kind: k, Target: target, ModeofPayment: mode}
				if p.Amount, err = parseAmount("amount", amount); err != nil {
					return err
				}
				result, err = b.veneer.ApplyPayment(cmd.Context(), p)
			}
			if result == nil {
				return err
			}
			if b.jsonOut {
				if perr := printJSON(cmd.OutOrStdout(), result); perr != nil {
					return perr
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			if len(result.Allocations) > 0 {
				t := newTable(cmd.OutOrStdout(), "ORDER", "APPLIED", "REMAINING")
				for _, a := range result.Allocations {
					t.row(fmt.Sprintf("#%d", a.OrderNumber), money(a.Applied), money(a.Remaining))
				}
				if ferr := t.flush(); ferr != nil {
					return ferr
				}
			}
			return err
		},
	}
	kindFlag(cmd, &kind)
	cmd.Flags().StringVar(&target, "to", "", "Counterparty name (the dev server also accepts a transaction id)")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount paid")
	cmd.Flags().StringVar(&mode, "mode", model.ModeCash, "Payment mode: Cash or an active bank")
	cmd.Flags().BoolVar(&full, "full", false, "Pay everything due for the counterparty")
	return cmd
}

func statusCommand(b *veneerInstance) *cobra.Command {
	var kind, statusFlag, mode string
	cmd := &cobra.Command{
		Use:   "status <id>",
		Short: "confirm a transaction or set it back to pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := model.ParseKind(kind)
			if err != nil {
				return err
			}
			out, err := b.veneer.UpdateStatus(cmd.Context(), k, args[0], model.PaymentStatus(statusFlag), mode)
			if out != nil {
				fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			}
			return err
		},
	}
	kindFlag(cmd, &kind)
	cmd.Flags().StringVar(&statusFlag, "status", string(model.StatusConfirmed), "Pending or Confirmed")
	cmd.Flags().StringVar(&mode, "mode", "", "Payment mode, required when Confirmed")
	return cmd
}

func suggestCommand(b *veneerInstance) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "suggest <text>",
		Short: "complete a counterparty name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := model.ParseKind(kind)
			if err != nil {
				return err
			}
			txns, err := b.veneer.Suggest(cmd.Context(), k, args[0])
			if err != nil {
				return err
			}
			for _, txn := range txns {
				fmt.Fprintln(cmd.OutOrStdout(), txn.Counterparty())
			}
			return nil
		},
	}
	kindFlag(cmd, &kind)
	return cmd
}
