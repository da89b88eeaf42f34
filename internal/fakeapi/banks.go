package fakeapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apimodel "github.com/nitesh7079/veneer/api/model"
	"github.com/nitesh7079/veneer/model"
)

func (a *Api) ListBanks(c *gin.Context) {
	banks := a.store.listBanks()
	c.JSON(http.StatusOK, model.ListResponse[model.Bank]{Success: true, Count: len(banks), Data: banks})
}

func (a *Api) CreateBank(c *gin.Context) {
	var form apimodel.CreateBank
	if err := c.ShouldBindJSON(&form); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := form.ValidateCreateBank(); err != nil {
		invalid(c, err)
		return
	}

	bank, err := a.store.insertBank(form.ToBank())
	if errors.Is(err, errDuplicate) {
		fail(c, http.StatusBadRequest, "Bank account with this account number already exists")
		return
	}
	c.JSON(http.StatusCreated, model.MutationResponse[model.Bank]{Success: true, Message: "Bank account added successfully", Data: bank})
}

func (a *Api) ToggleBankStatus(c *gin.Context) {
	id, ok := objectID(c)
	if !ok {
		return
	}
	bank, err := a.store.toggleBank(id)
	if err != nil {
		fail(c, http.StatusNotFound, "Bank account not found")
		return
	}
	msg := "Bank account deactivated successfully"
	if bank.IsActive {
		msg = "Bank account activated successfully"
	}
	c.JSON(http.StatusOK, model.MutationResponse[model.Bank]{Success: true, Message: msg, Data: bank})
}

// BankTransactions lists the payments made through one bank.
//
// Parameters:
// - limit: Maximum rows to return. Defaults to 50.
func (a *Api) BankTransactions(c *gin.Context) {
	id, ok := objectID(c)
	if !ok {
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		fail(c, http.StatusBadRequest, "limit must be a positive number")
		return
	}
	bank, found := a.store.bank(id)
	if !found {
		fail(c, http.StatusNotFound, "Bank account not found")
		return
	}
	c.JSON(http.StatusOK, model.MutationResponse[model.BankStatement]{Success: true, Data: a.store.bankStatement(bank, limit)})
}

// PaymentMethods is Cash followed by every active bank.
func (a *Api) PaymentMethods(c *gin.Context) {
	methods := []model.PaymentMethod{{Name: model.ModeCash, Type: "cash"}}
	for _, b := range a.store.listBanks() {
		if b.IsActive {
			methods = append(methods, model.PaymentMethod{Name: b.BankName, Type: "bank", BankID: b.ID})
		}
	}
	c.JSON(http.StatusOK, model.ListResponse[model.PaymentMethod]{Success: true, Data: methods})
}
