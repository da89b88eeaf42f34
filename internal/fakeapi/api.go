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

// Package fakeapi is an in-memory implementation of the Annapurna Veneer
// backend. It serves the same routes under /api/v1 and is used by
// `veneer devserver` and by tests that exercise the client end to end.
package fakeapi

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/nitesh7079/veneer/config"
	"github.com/nitesh7079/veneer/internal/clock"
	"github.com/nitesh7079/veneer/model"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/crypto/bcrypt"
)

const BasePath = "/api/v1"

type Api struct {
	store      *Store
	router     *gin.Engine
	conf       config.DevServerConfig
	bcryptCost int
}

type Option func(*Api)

// WithClock sets the clock used for timestamps and token expiry.
func WithClock(c clock.Clock) Option {
	return func(a *Api) {
		a.store.clock = c
	}
}

// WithBcryptCost lowers the password hashing cost, mainly for tests.
func WithBcryptCost(cost int) Option {
	return func(a *Api) {
		a.bcryptCost = cost
	}
}

func NewAPI(conf config.DevServerConfig, opts ...Option) *Api {
	gin.SetMode(gin.ReleaseMode)
	if conf.JWTSecret == "" {
		conf.JWTSecret = "veneer-dev-secret"
	}
	if conf.TokenTTLHours <= 0 {
		conf.TokenTTLHours = 24
	}
	a := &Api{
		store:      NewStore(nil),
		conf:       conf,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(a)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("veneer-devserver"))
	r.Use(RateLimitMiddleware(conf))
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, "server running...")
	})
	a.router = r
	return a
}

func (a *Api) Store() *Store {
	return a.store
}

func (a *Api) Router() *gin.Engine {
	v1 := a.router.Group(BasePath)
	v1.POST("/user/register", a.Register)
	v1.POST("/user/login", a.Login)

	secured := v1.Group("")
	secured.Use(AuthMiddleware(a.conf.JWTSecret, a.store.clock.Now))

	for _, kind := range model.Kinds() {
		h := transactionHandlers{api: a, kind: kind}
		secured.GET(kind.Path(), h.List)
		secured.POST(kind.Path(), h.Create)
		secured.POST(kind.Path()+"/payments", h.ApplyPayment)
		secured.PATCH(kind.Path()+"/:id", h.Update)
	}

	secured.GET("/banks", a.ListBanks)
	secured.POST("/banks", a.CreateBank)
	secured.GET("/banks/payment-methods", a.PaymentMethods)
	secured.PATCH("/banks/:id/toggle-status", a.ToggleBankStatus)
	secured.GET("/banks/:id/transactions", a.BankTransactions)

	secured.GET("/notifications/all", a.AllNotifications)
	secured.GET("/notifications/unreaded", a.UnreadNotifications)
	secured.PUT("/notifications/markAsRead/:id", a.MarkAsRead)
	secured.POST("/notifications/checkOverdue", a.CheckOverdue)

	secured.GET("/accounts", a.ListAccounts)
	secured.POST("/accounts", a.CreateAccount)
	secured.GET("/accounts/balance", a.AccountBalance)
	secured.GET("/accounts/summary", a.AccountSummary)
	secured.GET("/accounts/latest-per-person", a.LatestPerPerson)
	secured.GET("/accounts/pending/payments", a.PendingAccountPayments)
	secured.PUT("/accounts/:id/confirm", a.ConfirmAccountPayment)
	secured.DELETE("/accounts/:id", a.DeleteAccount)

	return a.router
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, model.ErrorBody{Success: false, Message: message})
}

// invalid reports a form validation failure field by field.
func invalid(c *gin.Context, err error) {
	var fields validation.Errors
	if !errors.As(err, &fields) {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	body := model.ErrorBody{Success: false, Message: "Validation failed"}
	for field, fieldErr := range fields {
		body.Errors = append(body.Errors, model.FieldError{Field: field, Message: fieldErr.Error()})
	}
	sortFieldErrors(body.Errors)
	c.JSON(http.StatusBadRequest, body)
}

// objectID reads the :id route parameter and rejects malformed ids.
func objectID(c *gin.Context) (string, bool) {
	id, passed := c.Params.Get("id")
	if !passed || !isObjectID(id) {
		fail(c, http.StatusBadRequest, "invalid id. pass a valid id in the route /:id")
		return "", false
	}
	return id, true
}
