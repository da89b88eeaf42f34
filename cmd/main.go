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
	"context"
	"fmt"
	"os"

	"github.com/nitesh7079/veneer"
	"github.com/nitesh7079/veneer/config"
	"github.com/nitesh7079/veneer/internal/notification"
	"github.com/nitesh7079/veneer/internal/traces"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// standalone marks commands that run without a backend connection.
const standalone = "standalone"

// Veneer represents the CLI application, encapsulating the root Cobra command.
type Veneer struct {
	cmd *cobra.Command
}

// veneerInstance holds the service and configuration shared by every command.
type veneerInstance struct {
	veneer   *veneer.Veneer
	cnf      *config.Configuration
	jsonOut  bool
	shutdown func(context.Context) error
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and, unless the command is standalone,
// builds the service before any command runs.
func preRun(app *veneerInstance, configFile *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := config.InitConfig(*configFile); err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		cnf, err := config.Fetch()
		if err != nil {
			return err
		}
		app.cnf = cnf

		shutdown, err := traces.SetupOTelSDK(cmd.Context(), cnf.Telemetry)
		if err != nil {
			logrus.WithError(err).Warn("tracing disabled")
		}
		app.shutdown = shutdown

		if cmd.Annotations[standalone] != "" {
			return nil
		}
		v, err := veneer.NewVeneer(cmd.Context())
		if err != nil {
			notification.NotifyError(err)
			return err
		}
		app.veneer = v
		return nil
	}
}

func postRun(app *veneerInstance) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		if app.shutdown == nil {
			return
		}
		if err := app.shutdown(context.Background()); err != nil {
			logrus.WithError(err).Warn("flushing traces")
		}
	}
}

// NewCLI creates the command tree.
func NewCLI() *Veneer {
	var configFile string
	v := &veneerInstance{}

	rootCmd := &cobra.Command{
		Use:           "veneer",
		Short:         "Trading desk for Annapurna Veneer: orders, payments, banks and notifications",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./veneer.json", "Configuration file")
	rootCmd.PersistentFlags().BoolVar(&v.jsonOut, "json", false, "Print results as JSON")
	rootCmd.PersistentPreRunE = preRun(v, &configFile)
	rootCmd.PersistentPostRun = postRun(v)

	rootCmd.AddCommand(configCommands(v))
	rootCmd.AddCommand(authCommands(v)...)
	rootCmd.AddCommand(orderCommands(v))
	rootCmd.AddCommand(bankCommands(v))
	rootCmd.AddCommand(notificationCommands(v))
	rootCmd.AddCommand(accountCommands(v))
	rootCmd.AddCommand(summaryCommand(v))
	rootCmd.AddCommand(exportCommand(v))
	rootCmd.AddCommand(devServerCommand(v))

	return &Veneer{cmd: rootCmd}
}

func (w Veneer) executeCLI() {
	if err := w.cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, userMessage(err))
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
