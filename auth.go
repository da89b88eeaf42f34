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

package veneer

import (
	"context"
	"errors"

	apimodel "github.com/nitesh7079/veneer/api/model"
	"github.com/nitesh7079/veneer/internal/session"
	"github.com/nitesh7079/veneer/model"
	"github.com/sirupsen/logrus"
)

var ErrSessionExpired = errors.New("session expired: run `veneer login` again")

// Login authenticates and persists the session for later calls.
func (v *Veneer) Login(ctx context.Context, form *apimodel.Login) (*model.Session, error) {
	ctx, span := tracer.Start(ctx, "Logging in")
	defer span.End()

	resp, err := v.client.Login(ctx, form)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return v.saveSession(ctx, resp)
}

// Register creates the account and logs it in.
func (v *Veneer) Register(ctx context.Context, form *apimodel.Register) (*model.Session, error) {
	ctx, span := tracer.Start(ctx, "Registering user")
	defer span.End()

	resp, err := v.client.Register(ctx, form)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return v.saveSession(ctx, resp)
}

func (v *Veneer) saveSession(ctx context.Context, resp *model.LoginResponse) (*model.Session, error) {
	s, err := session.FromLogin(resp)
	if err != nil {
		return nil, err
	}
	if err := v.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	logrus.WithField("user", s.Email).Info("session saved")
	return s, nil
}

func (v *Veneer) Logout(ctx context.Context) error {
	return v.sessions.Clear(ctx)
}

// CurrentSession returns the stored login. A session whose token has expired
// is cleared and reported as ErrSessionExpired.
func (v *Veneer) CurrentSession(ctx context.Context) (*model.Session, error) {
	s, err := v.sessions.Load(ctx)
	if err != nil {
		return nil, err
	}
	if s.Expired(v.clock.Now()) {
		if err := v.sessions.Clear(ctx); err != nil {
			logrus.WithError(err).Warn("clearing expired session")
		}
		return nil, ErrSessionExpired
	}
	return s, nil
}
