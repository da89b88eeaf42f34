package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/nitesh7079/veneer"
	"github.com/nitesh7079/veneer/aggregate"
	"github.com/nitesh7079/veneer/internal/apierror"
	"github.com/nitesh7079/veneer/internal/session"
	"github.com/nitesh7079/veneer/model"
	"github.com/nitesh7079/veneer/poller"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMessage(t *testing.T) {
	assert.Equal(t, session.ErrNoSession.Error(), userMessage(fmt.Errorf("x: %w", session.ErrNoSession)))
	assert.Equal(t, "Invalid email or password: run `veneer login`",
		userMessage(apierror.FromStatus(http.StatusUnauthorized, "Invalid email or password", nil)))
	assert.Equal(t, "Payment amount exceeds total due amount",
		userMessage(apierror.FromStatus(http.StatusBadRequest, "Payment amount exceeds total due amount", nil)))
	assert.Equal(t, "boom", userMessage(errors.New("boom")))
}

func TestDescribeSnapshot(t *testing.T) {
	assert.Equal(t, "3 unread", describeSnapshot(poller.Snapshot{UnreadCount: 3, State: poller.StateIdle}))
	assert.Equal(t, "", describeSnapshot(poller.Snapshot{State: poller.StateFetching}))
	assert.Equal(t, "offline: timed out (retry 2)",
		describeSnapshot(poller.Snapshot{ConnectionError: true, State: poller.StateBackingOff, LastError: "timed out", Retries: 2}))
	assert.Equal(t, "offline: timed out (waiting for next poll)",
		describeSnapshot(poller.Snapshot{ConnectionError: true, State: poller.StateIdle, LastError: "timed out"}))
	assert.Equal(t, "stopped", describeSnapshot(poller.Snapshot{State: poller.StateStopped}))
}

func TestPrintView(t *testing.T) {
	txns := []model.Transaction{
		{Kind: model.KindBuy, OrderNumber: 1, CustomerName: "Ram", ItemName: "Plywood", Amount: decimal.NewFromInt(1000), PaymentStatus: model.StatusPending,
			Payments: []model.Payment{{Amount: decimal.NewFromInt(400)}}},
		{Kind: model.KindBuy, OrderNumber: 2, CustomerName: "ram", Amount: decimal.NewFromInt(50), PaymentStatus: model.StatusConfirmed},
	}
	view := veneer.NewTransactionView(model.KindBuy, txns, aggregate.Criteria{})

	var buf bytes.Buffer
	require.NoError(t, printView(&buf, view, true))
	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines[0], "COUNTERPARTY")
	assert.Contains(t, lines[1], "1000.00")
	assert.Contains(t, lines[1], "600.00")
	assert.Contains(t, lines[2], "#1 Plywood")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, `note: "Ram" and "ram" look like the same counterparty`)

	buf.Reset()
	require.NoError(t, printView(&buf, veneer.NewTransactionView(model.KindSell, nil, aggregate.Criteria{}), false))
	assert.Equal(t, "No sell orders found\n", buf.String())
}
