package aggregate

import (
	"time"

	"github.com/nitesh7079/veneer/model"
	"github.com/shopspring/decimal"
)

// UpcomingWindow is how far ahead a pending deadline counts as upcoming.
const UpcomingWindow = 3 * 24 * time.Hour

type KindTotals struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// DueCounts splits pending buy and sell transactions.
type DueCounts struct {
	Buy   int `json:"buy"`
	Sell  int `json:"sell"`
	Total int `json:"total"`
}

type OverdueCounts struct {
	DueCounts
	AmountBuy   decimal.Decimal `json:"amountBuy"`
	AmountSell  decimal.Decimal `json:"amountSell"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

type AccountingSummary struct {
	Buy         KindTotals      `json:"buy"`
	Sell        KindTotals      `json:"sell"`
	OtherCredit KindTotals      `json:"otherCredit"`
	OtherDebit  KindTotals      `json:"otherDebit"`
	Income      decimal.Decimal `json:"totalIncome"`
	Expenses    decimal.Decimal `json:"totalExpenses"`
	ProfitLoss  decimal.Decimal `json:"profitLoss"`
	Pending     DueCounts       `json:"pendingPayments"`
	Overdue     OverdueCounts   `json:"overduePayments"`
	Upcoming    DueCounts       `json:"upcomingPayments"`
	GeneratedAt time.Time       `json:"generatedAt"`
}

func totals(txns []model.Transaction) KindTotals {
	t := KindTotals{Count: len(txns), Amount: decimal.Zero}
	for _, txn := range txns {
		t.Amount = t.Amount.Add(txn.Amount)
	}
	return t
}

type dueStats struct {
	pending, overdue, upcoming int
	overdueAmount              decimal.Decimal
}

func dueStatsOf(txns []model.Transaction, now time.Time) dueStats {
	s := dueStats{overdueAmount: decimal.Zero}
	for i := range txns {
		txn := &txns[i]
		if txn.PaymentStatus != model.StatusPending {
			continue
		}
		s.pending++
		if txn.IsOverdue(now) {
			s.overdue++
			s.overdueAmount = s.overdueAmount.Add(txn.Amount)
		}
		if txn.IsUpcoming(now, UpcomingWindow) {
			s.upcoming++
		}
	}
	return s
}

// Accounting computes the income statement over the four collections. Income
// is sell plus other credit, expenses are buy plus other debit. Pending,
// overdue and upcoming figures cover buy and sell only.
func Accounting(buy, sell, otherCredit, otherDebit []model.Transaction, now time.Time) AccountingSummary {
	s := AccountingSummary{
		Buy:         totals(buy),
		Sell:        totals(sell),
		OtherCredit: totals(otherCredit),
		OtherDebit:  totals(otherDebit),
		GeneratedAt: now,
	}
	s.Income = s.Sell.Amount.Add(s.OtherCredit.Amount)
	s.Expenses = s.Buy.Amount.Add(s.OtherDebit.Amount)
	s.ProfitLoss = s.Income.Sub(s.Expenses)

	b, sl := dueStatsOf(buy, now), dueStatsOf(sell, now)
	s.Pending = DueCounts{Buy: b.pending, Sell: sl.pending, Total: b.pending + sl.pending}
	s.Overdue = OverdueCounts{
		DueCounts:   DueCounts{Buy: b.overdue, Sell: sl.overdue, Total: b.overdue + sl.overdue},
		AmountBuy:   b.overdueAmount,
		AmountSell:  sl.overdueAmount,
		TotalAmount: b.overdueAmount.Add(sl.overdueAmount),
	}
	s.Upcoming = DueCounts{Buy: b.upcoming, Sell: sl.upcoming, Total: b.upcoming + sl.upcoming}
	return s
}
