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

// Package veneer is the service layer of the Annapurna Veneer trading desk.
// Every operation goes straight to the backend; mutations are always followed
// by a fresh read so callers never work on stale data.
package veneer

import (
	"context"
	"fmt"
	"time"

	"github.com/nitesh7079/veneer/api"
	"github.com/nitesh7079/veneer/config"
	"github.com/nitesh7079/veneer/internal/clock"
	"github.com/nitesh7079/veneer/internal/session"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("veneer")

// Veneer represents the trading desk: the backend gateway plus the
// persisted login it acts on behalf of.
type Veneer struct {
	client   *api.Client
	sessions session.Store
	config   *config.Configuration
	clock    clock.Clock
}

type Option func(*Veneer)

// WithClock replaces the wall clock used for overdue checks, session expiry and the poller.
func WithClock(c clock.Clock) Option {
	return func(v *Veneer) {
		v.clock = c
	}
}

// NewVeneer builds the service from the loaded configuration.
// It fetches the configuration, opens the session store and the API client.
//
// Parameters:
// - ctx context.Context: Used to connect the redis session store when one is configured.
//
// Returns:
// - *Veneer: The ready service.
// - error: An error if the configuration is missing or a dependency cannot be built.
func NewVeneer(ctx context.Context, opts ...Option) (*Veneer, error) {
	cnf, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	store, err := session.NewStore(ctx, cnf.Session)
	if err != nil {
		return nil, err
	}
	client, err := api.NewClient(cnf.API.BaseURL, api.WithSession(store), api.WithTimeout(cnf.API.Timeout()))
	if err != nil {
		return nil, fmt.Errorf("building api client: %w", err)
	}
	return New(cnf, client, store, opts...), nil
}

// New wires an already built client and session store.
func New(cnf *config.Configuration, client *api.Client, sessions session.Store, opts ...Option) *Veneer {
	if cnf == nil {
		cnf = &config.Configuration{}
	}
	v := &Veneer{client: client, sessions: sessions, config: cnf, clock: clock.Real{}}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Veneer) Client() *api.Client {
	return v.client
}

func (v *Veneer) Config() *config.Configuration {
	return v.config
}

func (v *Veneer) Now() time.Time {
	return v.clock.Now()
}
