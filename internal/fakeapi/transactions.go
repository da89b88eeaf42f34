package fakeapi

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	apimodel "github.com/nitesh7079/veneer/api/model"
	"github.com/nitesh7079/veneer/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func isObjectID(id string) bool {
	return primitive.IsValidObjectID(id)
}

func sortFieldErrors(errs []model.FieldError) {
	sort.Slice(errs, func(i, j int) bool {
		return errs[i].Field < errs[j].Field
	})
}

// transactionHandlers serves one of the four transaction collections.
type transactionHandlers struct {
	api  *Api
	kind model.Kind
}

func (h transactionHandlers) List(c *gin.Context) {
	data := h.api.store.listTransactions(h.kind)
	c.JSON(http.StatusOK, model.ListResponse[model.Transaction]{Success: true, Count: len(data), Data: data})
}

// Create stores a new transaction. The kind comes from the route.
//
// Responses:
// - 201 Created: The stored transaction with its id and order number.
// - 400 Bad Request: When the body does not validate.
func (h transactionHandlers) Create(c *gin.Context) {
	var form apimodel.CreateTransaction
	if err := c.ShouldBindJSON(&form); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	form.Kind = h.kind
	if err := form.ValidateCreateTransaction(); err != nil {
		invalid(c, err)
		return
	}

	txn := h.api.store.insertTransaction(form.ToTransaction())
	c.JSON(http.StatusCreated, model.MutationResponse[model.Transaction]{
		Success: true,
		Message: fmt.Sprintf("%s created successfully", capitalize(h.kind.Label())),
		Data:    txn,
	})
}

// ApplyPayment spreads a lump-sum payment over the counterparty's open
// transactions, oldest first. The counterparty may also be a transaction id.
//
// Responses:
// - 200 OK: The allocation per transaction.
// - 400 Bad Request: When the body is invalid or the amount exceeds what is due.
// - 404 Not Found: When nothing is due for the counterparty.
func (h transactionHandlers) ApplyPayment(c *gin.Context) {
	var payload apimodel.PaymentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	form := apimodel.RecordPayment{
		Kind:          h.kind,
		Target:        strings.TrimSpace(payload.Counterparty()),
		Amount:        payload.PaymentAmount,
		ModeofPayment: payload.ModeofPayment,
	}
	if err := form.ValidateRecordPayment(); err != nil {
		invalid(c, err)
		return
	}

	allocations, err := h.api.store.applyPayment(h.kind, form.Target, model.Payment{
		Amount:        form.Amount,
		ModeofPayment: form.ModeofPayment,
	})
	switch {
	case errors.Is(err, errNothingDue):
		fail(c, http.StatusNotFound, "No pending "+h.kind.Label()+"s found for "+form.Target)
		return
	case errors.Is(err, errOverpay):
		fail(c, http.StatusBadRequest, "Payment amount exceeds total due amount")
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, model.MutationResponse[[]allocation]{
		Success: true,
		Message: fmt.Sprintf("Payment of %s applied to %d %s(s)", form.Amount.String(), len(allocations), h.kind.Label()),
		Data:    allocations,
	})
}

func (h transactionHandlers) Update(c *gin.Context) {
	id, ok := objectID(c)
	if !ok {
		return
	}
	var update apimodel.UpdateTransaction
	if err := c.ShouldBindJSON(&update); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := update.ValidateUpdateTransaction(); err != nil {
		invalid(c, err)
		return
	}

	txn, err := h.api.store.updateTransaction(h.kind, id, update.Apply)
	if errors.Is(err, errNotFound) {
		fail(c, http.StatusNotFound, capitalize(h.kind.Label())+" not found")
		return
	}
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, model.MutationResponse[model.Transaction]{
		Success: true,
		Message: capitalize(h.kind.Label()) + " updated successfully",
		Data:    txn,
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// transactionType is the label banks and notifications use for a kind.
func transactionType(kind model.Kind) string {
	switch kind {
	case model.KindBuy:
		return "Buy"
	case model.KindSell:
		return "Sell"
	case model.KindOtherCredit:
		return "OtherCredit"
	default:
		return "OtherDebit"
	}
}
