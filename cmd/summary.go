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
	"os"

	"github.com/nitesh7079/veneer/model"
	"github.com/spf13/cobra"
)

func summaryCommand(b *veneerInstance) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "accounting summary across all four collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := b.veneer.Accounting(cmd.Context())
			if err != nil {
				return err
			}
			if b.jsonOut {
				return printJSON(cmd.OutOrStdout(), s)
			}
			out := cmd.OutOrStdout()
			t := newTable(out, "", "COUNT", "AMOUNT")
			t.row("Buy orders", s.Buy.Count, money(s.Buy.Amount))
			t.row("Sell orders", s.Sell.Count, money(s.Sell.Amount))
			t.row("Other credit", s.OtherCredit.Count, money(s.OtherCredit.Amount))
			t.row("Other debit", s.OtherDebit.Count, money(s.OtherDebit.Amount))
			if err := t.flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nIncome %s  Expenses %s  Profit/Loss %s\n", money(s.Income), money(s.Expenses), money(s.ProfitLoss))

			t = newTable(out, "", "BUY", "SELL", "TOTAL")
			t.row("Pending", s.Pending.Buy, s.Pending.Sell, s.Pending.Total)
			t.row("Overdue", s.Overdue.Buy, s.Overdue.Sell, s.Overdue.Total)
			t.row("Overdue amount", money(s.Overdue.AmountBuy), money(s.Overdue.AmountSell), money(s.Overdue.TotalAmount))
			t.row("Due in 3 days", s.Upcoming.Buy, s.Upcoming.Sell, s.Upcoming.Total)
			fmt.Fprintln(out)
			return t.flush()
		},
	}
}

func exportCommand(b *veneerInstance) *cobra.Command {
	var kind, output string
	var filters criteriaFlags
	cmd := &cobra.Command{
		Use:   "export",
		Short: "write the grouped view of a collection to an xlsx file",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := model.ParseKind(kind)
			if err != nil {
				return err
			}
			c, err := filters.criteria()
			if err != nil {
				return err
			}
			if output == "" {
				output = fmt.Sprintf("%s-%s.xlsx", k, b.veneer.Now().Format("20060102"))
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := b.veneer.Export(cmd.Context(), k, c, f); err != nil {
				f.Close()
				os.Remove(output)
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}
	kindFlag(cmd, &kind)
	filters.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, defaults to <kind>-<date>.xlsx")
	return cmd
}
