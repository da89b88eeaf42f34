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

package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/nitesh7079/veneer/model"
)

type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Register struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	PhoneNo  string `json:"PhoneNo"`
}

func (l *Login) ValidateLogin() error {
	return validation.ValidateStruct(l,
		validation.Field(&l.Email, validation.Required.Error("Email is required"), is.EmailFormat),
		validation.Field(&l.Password, validation.Required.Error("Password is required")),
	)
}

func (r *Register) ValidateRegister() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.FullName, validation.By(notBlank("Full name is required"))),
		validation.Field(&r.Email, validation.Required.Error("Email is required"), is.EmailFormat),
		validation.Field(&r.Password, validation.Required.Error("Password is required"), validation.Length(6, 0)),
		validation.Field(&r.PhoneNo, validation.Required.Error("Phone number is required"), is.Digit, validation.Length(10, 15)),
	)
}

func (r *Register) ToUser() model.User {
	return model.User{FullName: r.FullName, Email: r.Email, PhoneNo: r.PhoneNo}
}
