package fakeapi

import (
	"errors"
	"sort"
	"strconv"
	"sync"

	"github.com/nitesh7079/veneer/internal/clock"
	"github.com/nitesh7079/veneer/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("already exists")
)

type user struct {
	model.User
	passwordHash []byte
}

// Store is the in-memory state of the fake backend. Every collection is
// guarded by one lock; handlers hold it for the whole read-modify-write.
type Store struct {
	mu            sync.RWMutex
	clock         clock.Clock
	users         map[string]*user
	transactions  map[model.Kind][]*model.Transaction
	orderNumbers  map[model.Kind]int64
	banks         []*model.Bank
	notifications []*model.Notification
	accounts      []*model.AccountEntry
}

func NewStore(c clock.Clock) *Store {
	if c == nil {
		c = clock.Real{}
	}
	return &Store{
		clock:        c,
		users:        make(map[string]*user),
		transactions: make(map[model.Kind][]*model.Transaction),
		orderNumbers: make(map[model.Kind]int64),
	}
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

func (s *Store) addUser(u model.User, hash []byte) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Email]; ok {
		return model.User{}, errDuplicate
	}
	u.ID = newID()
	s.users[u.Email] = &user{User: u, passwordHash: hash}
	return u, nil
}

func (s *Store) userByEmail(email string) (*user, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[email]
	return u, ok
}

// insertTransaction assigns id, order number and timestamps.
func (s *Store) insertTransaction(txn *model.Transaction) model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	s.orderNumbers[txn.Kind]++
	txn.ID = newID()
	txn.OrderNumber = s.orderNumbers[txn.Kind]
	txn.CreatedAt = now
	txn.UpdatedAt = now
	if txn.Payments == nil {
		txn.Payments = []model.Payment{}
	}
	s.transactions[txn.Kind] = append(s.transactions[txn.Kind], txn)
	return *txn
}

// listTransactions returns copies, newest first.
func (s *Store) listTransactions(kind model.Kind) []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.transactions[kind]
	out := make([]model.Transaction, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, *list[i])
	}
	return out
}

func (s *Store) findTransaction(kind model.Kind, id string) *model.Transaction {
	for _, txn := range s.transactions[kind] {
		if txn.ID == id {
			return txn
		}
	}
	return nil
}

func (s *Store) updateTransaction(kind model.Kind, id string, f func(*model.Transaction) error) (model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn := s.findTransaction(kind, id)
	if txn == nil {
		return model.Transaction{}, errNotFound
	}
	updated := *txn
	if err := f(&updated); err != nil {
		return model.Transaction{}, err
	}
	updated.UpdatedAt = s.clock.Now()
	*txn = updated
	return updated, nil
}

// allocation is one slice of a lump-sum payment.
type allocation struct {
	TransactionID string `json:"transactionId"`
	OrderNumber   int64  `json:"orderNumber"`
	Applied       string `json:"appliedAmount"`
	Remaining     string `json:"remainingDue"`
}

var (
	errNothingDue = errors.New("no outstanding transactions found")
	errOverpay    = errors.New("payment amount exceeds total due amount")
)

// applyPayment spreads amount over the open transactions of target, oldest
// first. target is either a transaction id or a counterparty name matched
// exactly. Nothing is written unless the whole amount can be placed.
func (s *Store) applyPayment(kind model.Kind, target string, payment model.Payment) ([]allocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var open []*model.Transaction
	if txn := s.findTransaction(kind, target); txn != nil {
		if txn.Due().IsPositive() {
			open = append(open, txn)
		}
	} else {
		for _, txn := range s.transactions[kind] {
			if txn.Counterparty() == target && txn.Due().IsPositive() {
				open = append(open, txn)
			}
		}
	}
	if len(open) == 0 {
		return nil, errNothingDue
	}
	sort.SliceStable(open, func(i, j int) bool {
		return open[i].CreatedAt.Before(open[j].CreatedAt)
	})

	total := open[0].Due()
	for _, txn := range open[1:] {
		total = total.Add(txn.Due())
	}
	if payment.Amount.GreaterThan(total) {
		return nil, errOverpay
	}

	now := s.clock.Now()
	remaining := payment.Amount
	var out []allocation
	for _, txn := range open {
		if !remaining.IsPositive() {
			break
		}
		applied := txn.Due()
		if remaining.LessThan(applied) {
			applied = remaining
		}
		txn.Payments = append(txn.Payments, model.Payment{Amount: applied, ModeofPayment: payment.ModeofPayment, DateOfPayment: now})
		txn.UpdatedAt = now
		remaining = remaining.Sub(applied)
		out = append(out, allocation{
			TransactionID: txn.ID,
			OrderNumber:   txn.OrderNumber,
			Applied:       applied.String(),
			Remaining:     txn.Due().String(),
		})
	}
	return out, nil
}

func (s *Store) insertBank(b model.Bank) (model.Bank, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.banks {
		if existing.AccountNumber == b.AccountNumber {
			return model.Bank{}, errDuplicate
		}
	}
	now := s.clock.Now()
	b.ID = newID()
	b.CreatedAt = now
	b.UpdatedAt = now
	s.banks = append(s.banks, &b)
	return b, nil
}

func (s *Store) listBanks() []model.Bank {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Bank, 0, len(s.banks))
	for _, b := range s.banks {
		out = append(out, *b)
	}
	return out
}

func (s *Store) bank(id string) (model.Bank, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.banks {
		if b.ID == id {
			return *b, true
		}
	}
	return model.Bank{}, false
}

func (s *Store) toggleBank(id string) (model.Bank, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.banks {
		if b.ID == id {
			b.IsActive = !b.IsActive
			b.UpdatedAt = s.clock.Now()
			return *b, nil
		}
	}
	return model.Bank{}, errNotFound
}

func (s *Store) listNotifications(unreadOnly bool) []model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Notification, 0, len(s.notifications))
	for i := len(s.notifications) - 1; i >= 0; i-- {
		n := s.notifications[i]
		if unreadOnly && n.IsReaded {
			continue
		}
		out = append(out, *n)
	}
	return out
}

func (s *Store) markRead(id string) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications {
		if n.ID == id {
			n.IsReaded = true
			return *n, nil
		}
	}
	return model.Notification{}, errNotFound
}

func (s *Store) addNotification(n model.Notification) model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = newID()
	n.CreatedAt = s.clock.Now()
	s.notifications = append(s.notifications, &n)
	return n
}

// checkOverdue raises one unread notification per overdue buy or sell
// transaction that does not already have one.
func (s *Store) checkOverdue() (total, created int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()

	open := make(map[string]bool)
	for _, n := range s.notifications {
		if !n.IsReaded && n.TransactionID != "" {
			open[n.TransactionID] = true
		}
	}

	for _, kind := range []model.Kind{model.KindBuy, model.KindSell} {
		for _, txn := range s.transactions[kind] {
			if !txn.IsOverdue(now) || !txn.Due().IsPositive() {
				continue
			}
			total++
			if open[txn.ID] {
				continue
			}
			days := txn.OverdueDays(now)
			deadline := *txn.PaymentDeadline
			s.notifications = append(s.notifications, &model.Notification{
				ID:               newID(),
				CustomerName:     txn.Counterparty(),
				TransactionType:  transactionType(kind),
				TransactionID:    txn.ID,
				Amount:           txn.Amount,
				PendingAmount:    txn.Due(),
				OverdueDays:      days,
				Message:          overdueMessage(kind, txn, days),
				NotificationDate: &deadline,
				CreatedAt:        now,
			})
			created++
		}
	}
	return total, created
}

// bankStatement lists every payment made through the bank, newest first.
// A confirmed transaction without payment events counts at its full amount.
func (s *Store) bankStatement(b model.Bank, limit int) model.BankStatement {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []model.BankTransaction
	for _, kind := range model.Kinds() {
		for _, txn := range s.transactions[kind] {
			row := model.BankTransaction{
				TransactionType: transactionType(kind),
				CustomerName:    txn.Counterparty(),
				OrderNumber:     txn.OrderNumber,
				Description:     txn.Description,
			}
			if len(txn.Payments) == 0 && txn.IsConfirmed() && txn.ModeofPayment == b.BankName {
				row.ID = txn.ID
				row.Amount = txn.Amount
				row.TransactionDate = txn.UpdatedAt
				rows = append(rows, row)
				continue
			}
			for i, p := range txn.Payments {
				if p.ModeofPayment != b.BankName {
					continue
				}
				row.ID = txn.ID + "-" + strconv.Itoa(i)
				row.Amount = p.Amount
				row.TransactionDate = p.DateOfPayment
				rows = append(rows, row)
			}
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TransactionDate.After(rows[j].TransactionDate)
	})

	summary := model.BankSummary{TransactionCount: len(rows)}
	for _, r := range rows {
		if r.IsCredit() {
			summary.TotalCredit = summary.TotalCredit.Add(r.Amount)
		} else {
			summary.TotalDebit = summary.TotalDebit.Add(r.Amount)
		}
	}
	summary.CurrentBalance = summary.TotalCredit.Sub(summary.TotalDebit)

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	if rows == nil {
		rows = []model.BankTransaction{}
	}
	return model.BankStatement{Transactions: rows, Summary: summary}
}

func (s *Store) insertAccount(e model.AccountEntry) model.AccountEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = newID()
	e.CreatedAt = s.clock.Now()
	s.accounts = append(s.accounts, &e)
	return e
}

func (s *Store) listAccounts(match func(*model.AccountEntry) bool) []model.AccountEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.AccountEntry, 0, len(s.accounts))
	for _, e := range s.accounts {
		if match(e) {
			out = append(out, *e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

func (s *Store) updateAccount(id string, f func(*model.AccountEntry) error) (model.AccountEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.accounts {
		if e.ID != id {
			continue
		}
		updated := *e
		if err := f(&updated); err != nil {
			return model.AccountEntry{}, err
		}
		*e = updated
		return updated, nil
	}
	return model.AccountEntry{}, errNotFound
}

func (s *Store) deleteAccount(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.accounts {
		if e.ID == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			return nil
		}
	}
	return errNotFound
}
