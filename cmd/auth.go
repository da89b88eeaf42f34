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
	"bufio"
	"fmt"
	"strings"

	apimodel "github.com/nitesh7079/veneer/api/model"
	"github.com/nitesh7079/veneer/model"
	"github.com/spf13/cobra"
)

func authCommands(b *veneerInstance) []*cobra.Command {
	return []*cobra.Command{loginCommand(b), registerCommand(b), logoutCommand(b), whoamiCommand(b)}
}

// readPassword takes the password from the flag or, when empty, the first line of stdin.
func readPassword(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func printSession(cmd *cobra.Command, b *veneerInstance, s *model.Session) error {
	if b.jsonOut {
		return printJSON(cmd.OutOrStdout(), s)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (session valid until %s)\n", s.Email, day(s.ExpiresAt))
	return nil
}

func loginCommand(b *veneerInstance) *cobra.Command {
	var form apimodel.Login
	cmd := &cobra.Command{
		Use:   "login",
		Short: "log in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd, form.Password)
			if err != nil {
				return err
			}
			form.Password = password
			s, err := b.veneer.Login(cmd.Context(), &form)
			if err != nil {
				return err
			}
			return printSession(cmd, b, s)
		},
	}
	cmd.Flags().StringVarP(&form.Email, "email", "e", "", "Email address")
	cmd.Flags().StringVarP(&form.Password, "password", "p", "", "Password (read from stdin when omitted)")
	return cmd
}

func registerCommand(b *veneerInstance) *cobra.Command {
	var form apimodel.Register
	cmd := &cobra.Command{
		Use:   "register",
		Short: "create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd, form.Password)
			if err != nil {
				return err
			}
			form.Password = password
			s, err := b.veneer.Register(cmd.Context(), &form)
			if err != nil {
				return err
			}
			return printSession(cmd, b, s)
		},
	}
	cmd.Flags().StringVar(&form.FullName, "name", "", "Full name")
	cmd.Flags().StringVarP(&form.Email, "email", "e", "", "Email address")
	cmd.Flags().StringVarP(&form.Password, "password", "p", "", "Password (read from stdin when omitted)")
	cmd.Flags().StringVar(&form.PhoneNo, "phone", "", "Phone number")
	return cmd
}

func logoutCommand(b *veneerInstance) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := b.veneer.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func whoamiCommand(b *veneerInstance) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "show the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := b.veneer.CurrentSession(cmd.Context())
			if err != nil {
				return err
			}
			return printSession(cmd, b, s)
		},
	}
}
