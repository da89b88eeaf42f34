package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/nitesh7079/veneer/internal/apierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationEndpoints(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/notifications/all",
		httpmock.NewStringResponder(200, `{"success":true,"data":[{"_id":"n1","CustomerName":"Ram","TransactionType":"Buy","Amount":1000,"PendingAmount":600,"OverdueDays":3,"IsReaded":true},{"_id":"n2","CustomerName":"Shyam","TransactionType":"Sell","IsReaded":false}]}`))
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/notifications/unreaded",
		httpmock.NewStringResponder(200, `{"success":true,"count":1,"data":[{"_id":"n2","CustomerName":"Shyam","IsReaded":false}]}`))
	httpmock.RegisterResponder(http.MethodPut, testBaseURL+"/notifications/markAsRead/"+testObjectID,
		httpmock.NewStringResponder(200, `{"success":true,"message":"Notification marked as read"}`))
	httpmock.RegisterResponder(http.MethodPost, testBaseURL+"/notifications/checkOverdue",
		httpmock.NewStringResponder(200, `{"success":true,"message":"done","data":{"totalOverdue":4,"overdue":{"notificationsCreated":2}}}`))

	ctx := context.Background()

	all, err := c.ListNotifications(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 3, all[0].OverdueDays)

	unread, err := c.UnreadNotifications(ctx)
	require.NoError(t, err)
	assert.True(t, unread.Success)
	assert.Len(t, unread.Data, 1)

	require.NoError(t, c.MarkAsRead(ctx, testObjectID))

	check, err := c.CheckOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, check.Data.TotalOverdue)
	assert.Equal(t, 2, check.Data.Overdue.NotificationsCreated)

	assert.True(t, apierror.IsCode(c.MarkAsRead(ctx, ""), apierror.ErrInvalidInput))
}

func TestUnreadNotifications_UnsuccessfulBody(t *testing.T) {
	c := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/notifications/unreaded",
		httpmock.NewStringResponder(200, `{"success":false,"message":"no user"}`))

	resp, err := c.UnreadNotifications(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Empty(t, resp.Data)
}
