package fakeapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nitesh7079/veneer/model"
)

func overdueMessage(kind model.Kind, txn *model.Transaction, days int) string {
	return fmt.Sprintf("%s order #%d for %s is overdue by %d day(s). Pending amount: %s",
		transactionType(kind), txn.OrderNumber, txn.Counterparty(), days, txn.Due().StringFixed(2))
}

func (a *Api) AllNotifications(c *gin.Context) {
	data := a.store.listNotifications(false)
	c.JSON(http.StatusOK, model.ListResponse[model.Notification]{Success: true, Count: len(data), Data: data})
}

func (a *Api) UnreadNotifications(c *gin.Context) {
	data := a.store.listNotifications(true)
	c.JSON(http.StatusOK, model.ListResponse[model.Notification]{Success: true, Count: len(data), Data: data})
}

func (a *Api) MarkAsRead(c *gin.Context) {
	id, ok := objectID(c)
	if !ok {
		return
	}
	n, err := a.store.markRead(id)
	if err != nil {
		fail(c, http.StatusNotFound, "Notification not found")
		return
	}
	c.JSON(http.StatusOK, model.MutationResponse[model.Notification]{Success: true, Message: "Notification marked as read", Data: n})
}

// CheckOverdue scans pending buy and sell transactions whose deadline has
// passed and raises a notification for each one not already flagged.
func (a *Api) CheckOverdue(c *gin.Context) {
	total, created := a.store.checkOverdue()
	var result model.OverdueCheck
	result.TotalOverdue = total
	result.Overdue.NotificationsCreated = created
	c.JSON(http.StatusOK, model.MutationResponse[model.OverdueCheck]{
		Success: true,
		Message: fmt.Sprintf("Found %d overdue transaction(s), created %d notification(s)", total, created),
		Data:    result,
	})
}
