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

package api

import (
	"context"
	"net/http"

	apimodel "github.com/nitesh7079/veneer/api/model"
	"github.com/nitesh7079/veneer/internal/apierror"
	"github.com/nitesh7079/veneer/model"
)

func (c *Client) Login(ctx context.Context, form *apimodel.Login) (*model.LoginResponse, error) {
	if err := form.ValidateLogin(); err != nil {
		return nil, apierror.Validation(err.Error(), err)
	}
	var resp model.LoginResponse
	err := c.do(ctx, call{
		op:     operation{name: "login", fallback: "Login failed", timeout: SlowTimeout},
		method: http.MethodPost,
		path:   "/user/login",
		body:   form,
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, form *apimodel.Register) (*model.LoginResponse, error) {
	if err := form.ValidateRegister(); err != nil {
		return nil, apierror.Validation(err.Error(), err)
	}
	var resp model.LoginResponse
	err := c.do(ctx, call{
		op:     operation{name: "register", fallback: "Registration failed", timeout: SlowTimeout},
		method: http.MethodPost,
		path:   "/user/register",
		body:   form,
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
