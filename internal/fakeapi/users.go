package fakeapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apimodel "github.com/nitesh7079/veneer/api/model"
	"github.com/nitesh7079/veneer/model"
	"golang.org/x/crypto/bcrypt"
)

func (a *Api) Register(c *gin.Context) {
	var form apimodel.Register
	if err := c.ShouldBindJSON(&form); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	form.Email = strings.ToLower(strings.TrimSpace(form.Email))
	if err := form.ValidateRegister(); err != nil {
		invalid(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), a.bcryptCost)
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}
	u, err := a.store.addUser(form.ToUser(), hash)
	if errors.Is(err, errDuplicate) {
		fail(c, http.StatusBadRequest, "User already exists with this email")
		return
	}
	a.respondWithToken(c, http.StatusCreated, "User registered successfully", u)
}

func (a *Api) Login(c *gin.Context) {
	var form apimodel.Login
	if err := c.ShouldBindJSON(&form); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	form.Email = strings.ToLower(strings.TrimSpace(form.Email))
	if err := form.ValidateLogin(); err != nil {
		invalid(c, err)
		return
	}

	u, ok := a.store.userByEmail(form.Email)
	if !ok || bcrypt.CompareHashAndPassword(u.passwordHash, []byte(form.Password)) != nil {
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	a.respondWithToken(c, http.StatusOK, "Login successful", u.User)
}

func (a *Api) respondWithToken(c *gin.Context, status int, message string, u model.User) {
	token, err := issueToken(a.conf.JWTSecret, u.ID, u.Email, a.store.clock.Now(), a.conf.TokenTTL())
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	c.JSON(status, model.LoginResponse{Success: true, Message: message, Token: token, User: u})
}
