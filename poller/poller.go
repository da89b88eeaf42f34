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

// Package poller keeps the unread notification count fresh. It fetches on a
// fixed interval and retries failed fetches with exponential backoff until the
// next tick.
package poller

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nitesh7079/veneer/config"
	"github.com/nitesh7079/veneer/internal/apierror"
	"github.com/nitesh7079/veneer/internal/clock"
	"github.com/nitesh7079/veneer/internal/notification"
	"github.com/nitesh7079/veneer/model"
	"github.com/sirupsen/logrus"
)

type State string

const (
	StateIdle       State = "idle"
	StateFetching   State = "fetching"
	StateBackingOff State = "backing_off"
	StateStopped    State = "stopped"
)

// Fetcher is the part of api.Client the poller needs.
type Fetcher interface {
	UnreadNotifications(ctx context.Context) (*model.ListResponse[model.Notification], error)
	MarkAsRead(ctx context.Context, id string) error
}

// Snapshot is the poller state handed to readers and subscribers.
type Snapshot struct {
	UnreadCount   int
	Notifications []model.Notification
	// ConnectionError is set from the first failed fetch until the next success.
	ConnectionError bool
	State           State
	LastFetched     time.Time
	LastError       string
	// Retries counts retry attempts since the last tick or success.
	Retries int
}

type Poller struct {
	fetcher Fetcher
	clock   clock.Clock
	cfg     config.PollerConfig
	alert   func(error)

	mu        sync.Mutex
	snap      Snapshot
	backoff   backoff.BackOff
	gen       uint64
	started   bool
	stopped   bool
	initial   clock.Timer
	interval  clock.Timer
	retry     clock.Timer
	inflight  context.CancelFunc
	ctx       context.Context
	cancel    context.CancelFunc
	listeners []func(Snapshot)
}

type Option func(*Poller)

func WithClock(c clock.Clock) Option {
	return func(p *Poller) {
		p.clock = c
	}
}

// WithAlert replaces the Slack alert raised when retries are exhausted.
func WithAlert(f func(error)) Option {
	return func(p *Poller) {
		p.alert = f
	}
}

func New(f Fetcher, cfg config.PollerConfig, opts ...Option) *Poller {
	p := &Poller{
		fetcher: f,
		clock:   clock.Real{},
		cfg:     cfg,
		alert:   notification.NotifyError,
		snap:    Snapshot{State: StateIdle},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.backoff = newBackOff(cfg, p.clock)
	return p
}

// newBackOff yields RetryBase, 2*RetryBase, 4*RetryBase... without jitter and
// stops after MaxRetries delays.
func newBackOff(cfg config.PollerConfig, c clock.Clock) backoff.BackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     cfg.RetryBase(),
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         cfg.RetryBase() << uint(cfg.MaxRetries),
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               c,
	}
	b.Reset()
	return backoff.WithMaxRetries(b, uint64(cfg.MaxRetries))
}

// Start schedules the first fetch after the initial delay and a fetch every
// interval after that. Calling it twice has no effect.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true
	p.initial = p.clock.AfterFunc(p.cfg.InitialDelay(), p.tick)
	p.interval = p.clock.AfterFunc(p.cfg.Interval(), p.intervalTick)
}

func (p *Poller) intervalTick() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.interval = p.clock.AfterFunc(p.cfg.Interval(), p.intervalTick)
	p.mu.Unlock()
	p.tick()
}

func (p *Poller) tick() {
	gen, ok := p.restart()
	if !ok {
		return
	}
	p.run(gen)
}

// Refresh fetches immediately, dropping any pending retry.
func (p *Poller) Refresh() {
	p.tick()
}

// restart begins a new attempt generation. Results and retries of older
// generations are discarded.
func (p *Poller) restart() (uint64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return 0, false
	}
	if p.retry != nil {
		p.retry.Stop()
		p.retry = nil
	}
	if p.inflight != nil {
		p.inflight()
		p.inflight = nil
	}
	p.backoff.Reset()
	p.snap.Retries = 0
	p.gen++
	return p.gen, true
}

func (p *Poller) run(gen uint64) {
	p.mu.Lock()
	if p.stopped || gen != p.gen {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.FetchTimeout())
	p.inflight = cancel
	p.snap.State = StateFetching
	snap := p.snapshotLocked()
	p.mu.Unlock()
	p.publish(snap)

	resp, err := p.fetcher.UnreadNotifications(ctx)
	cancel()

	p.mu.Lock()
	if p.stopped || gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.inflight = nil
	var giveUp error
	if err != nil {
		giveUp = p.failLocked(gen, err)
	} else {
		p.succeedLocked(resp)
	}
	snap = p.snapshotLocked()
	p.mu.Unlock()

	if giveUp != nil && p.alert != nil {
		p.alert(giveUp)
	}
	p.publish(snap)
}

func (p *Poller) succeedLocked(resp *model.ListResponse[model.Notification]) {
	p.backoff.Reset()
	p.snap.Retries = 0
	p.snap.State = StateIdle
	p.snap.ConnectionError = false
	p.snap.LastError = ""
	p.snap.LastFetched = p.clock.Now()
	if resp == nil || !resp.Success {
		p.snap.UnreadCount = 0
		p.snap.Notifications = nil
		return
	}
	p.snap.Notifications = resp.Data
	p.snap.UnreadCount = resp.Count
	if p.snap.UnreadCount == 0 {
		p.snap.UnreadCount = len(resp.Data)
	}
}

// failLocked records a failed fetch and schedules the next retry. It returns
// the error to alert on once the retries are used up.
func (p *Poller) failLocked(gen uint64, err error) error {
	p.snap.ConnectionError = true
	p.snap.UnreadCount = 0
	p.snap.LastError = apierror.Message(err)

	next := p.backoff.NextBackOff()
	if next == backoff.Stop {
		p.snap.State = StateIdle
		logrus.WithFields(logrus.Fields{
			"retries": p.snap.Retries,
			"error":   err,
		}).Warn("unread notification fetch failed, waiting for next tick")
		return fmt.Errorf("unread notifications unreachable after %d retries: %w", p.snap.Retries, err)
	}

	p.snap.State = StateBackingOff
	p.snap.Retries++
	logrus.WithFields(logrus.Fields{
		"attempt": p.snap.Retries,
		"delay":   next.String(),
		"error":   err,
	}).Warn("unread notification fetch failed, retrying")
	p.retry = p.clock.AfterFunc(next, func() { p.run(gen) })
	return nil
}

// MarkAsRead marks one notification read on the backend, then refreshes.
func (p *Poller) MarkAsRead(ctx context.Context, id string) error {
	if err := p.fetcher.MarkAsRead(ctx, id); err != nil {
		return err
	}
	p.Refresh()
	return nil
}

// OnChange registers f to receive every state change. f runs on the goroutine
// that caused the change and must not block.
func (p *Poller) OnChange(f func(Snapshot)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, f)
}

func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Poller) snapshotLocked() Snapshot {
	s := p.snap
	if s.Notifications != nil {
		s.Notifications = append([]model.Notification(nil), s.Notifications...)
	}
	return s
}

// publish hands s to every listener. Once the poller is stopped only the
// final stopped snapshot is delivered, even to listeners a stop interrupted.
func (p *Poller) publish(s Snapshot) {
	p.mu.Lock()
	listeners := slices.Clone(p.listeners)
	p.mu.Unlock()
	for _, f := range listeners {
		if s.State != StateStopped && p.isStopped() {
			return
		}
		f(s)
	}
}

func (p *Poller) isStopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}

// Stop cancels every timer and the request in flight. No callback fires
// afterwards.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	for _, t := range []clock.Timer{p.initial, p.interval, p.retry} {
		if t != nil {
			t.Stop()
		}
	}
	p.initial, p.interval, p.retry = nil, nil, nil
	p.gen++
	p.cancel()
	p.inflight = nil
	p.snap.State = StateStopped
	snap := p.snapshotLocked()
	p.mu.Unlock()
	p.publish(snap)
}
