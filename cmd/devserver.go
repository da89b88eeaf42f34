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
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nitesh7079/veneer/internal/fakeapi"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

/*
devServerCommand starts the in-memory backend on the configured port. It
serves the same routes as the hosted backend, so pointing api.base_url at
http://localhost:<port>/api/v1 runs every other command against it.
*/
func devServerCommand(b *veneerInstance) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:         "devserver",
		Short:       "run an in-memory backend for local development",
		Annotations: map[string]string{standalone: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := b.cnf.DevServer
			if port != "" {
				conf.Port = port
			}
			router := fakeapi.NewAPI(conf).Router()
			server := &http.Server{
				Addr:              ":" + conf.Port,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logrus.Infof("Starting dev server on http://localhost:%s%s", conf.Port, fakeapi.BasePath)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("dev server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			logrus.Info("Shutting down dev server")
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Port to listen on, overrides dev_server.port")
	return cmd
}
