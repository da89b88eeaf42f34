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

	apimodel "github.com/nitesh7079/veneer/api/model"
	"github.com/nitesh7079/veneer/model"
	"github.com/spf13/cobra"
)

func bankCommands(b *veneerInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "banks",
		Short: "company bank accounts",
	}
	cmd.AddCommand(listBanksCommand(b))
	cmd.AddCommand(addBankCommand(b))
	cmd.AddCommand(toggleBankCommand(b))
	cmd.AddCommand(bankStatementCommand(b))
	cmd.AddCommand(paymentModesCommand(b))
	return cmd
}

func printBanks(out io.Writer, banks []model.Bank) error {
	t := newTable(out, "ID", "BANK", "ACCOUNT", "HOLDER", "IFSC", "BRANCH", "TYPE", "ACTIVE")
	for _, bank := range banks {
		t.row(bank.ID, bank.BankName, bank.MaskedAccountNumber(), bank.AccountHolderName, bank.IfscCode, bank.BranchName, bank.AccountType, bank.IsActive)
	}
	return t.flush()
}

func listBanksCommand(b *veneerInstance) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "list banks",
		RunE: func(cmd *cobra.Command, args []string) error {
			banks, err := b.veneer.ListBanks(cmd.Context(), search)
			if err != nil {
				return err
			}
			if b.jsonOut {
				return printJSON(cmd.OutOrStdout(), banks)
			}
			return printBanks(cmd.OutOrStdout(), banks)
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Match bank name, account number, holder or branch")
	return cmd
}

func addBankCommand(b *veneerInstance) *cobra.Command {
	var form apimodel.CreateBank
	var accountType string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "register a bank account",
		RunE: func(cmd *cobra.Command, args []string) error {
			form.AccountType = model.AccountType(accountType)
			msg, banks, err := b.veneer.AddBank(cmd.Context(), &form)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return printBanks(cmd.OutOrStdout(), banks)
		},
	}
	cmd.Flags().StringVar(&form.BankName, "name", "", "Bank name")
	cmd.Flags().StringVar(&form.AccountNumber, "account", "", "Account number")
	cmd.Flags().StringVar(&form.AccountHolderName, "holder", "", "Account holder name")
	cmd.Flags().StringVar(&form.IfscCode, "ifsc", "", "IFSC code")
	cmd.Flags().StringVar(&form.BranchName, "branch", "", "Branch name")
	cmd.Flags().StringVar(&accountType, "type", string(model.AccountCurrent), "Current, Savings, Business, Salary or NRI")
	cmd.Flags().StringVar(&form.ContactPerson, "contact", "", "Contact person")
	cmd.Flags().StringVar(&form.ContactNumber, "contact-number", "", "Contact number")
	cmd.Flags().StringVar(&form.Address, "address", "", "Branch address")
	return cmd
}

func toggleBankCommand(b *veneerInstance) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "activate or deactivate a bank",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, _, err := b.veneer.ToggleBank(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func bankStatementCommand(b *veneerInstance) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "transactions <id>",
		Short: "payments made through a bank",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := b.veneer.BankStatement(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			if b.jsonOut {
				return printJSON(cmd.OutOrStdout(), st)
			}
			t := newTable(cmd.OutOrStdout(), "DATE", "TYPE", "COUNTERPARTY", "ORDER", "AMOUNT")
			for _, tx := range st.Transactions {
				amount := money(tx.Amount)
				if !tx.IsCredit() {
					amount = "-" + amount
				}
				t.row(day(tx.TransactionDate), tx.TransactionType, orDash(tx.CustomerName), tx.OrderNumber, amount)
			}
			if err := t.flush(); err != nil {
				return err
			}
			s := st.Summary
			fmt.Fprintf(cmd.OutOrStdout(), "\nCredit %s  Debit %s  Balance %s  (%d transactions)\n",
				money(s.TotalCredit), money(s.TotalDebit), money(s.CurrentBalance), s.TransactionCount)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of transactions")
	return cmd
}

func paymentModesCommand(b *veneerInstance) *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "payment modes that can be selected now",
		RunE: func(cmd *cobra.Command, args []string) error {
			methods, err := b.veneer.PaymentMethods(cmd.Context())
			if err != nil {
				return err
			}
			if b.jsonOut {
				return printJSON(cmd.OutOrStdout(), methods)
			}
			t := newTable(cmd.OutOrStdout(), "MODE", "TYPE", "BANK ID")
			for _, m := range methods {
				t.row(m.Name, m.Type, orDash(m.BankID))
			}
			return t.flush()
		},
	}
}
