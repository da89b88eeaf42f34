package aggregate

import (
	"strings"
	"time"

	"github.com/nitesh7079/veneer/model"
)

type ReadState string

const (
	ReadAll    ReadState = "all"
	ReadUnread ReadState = "unread"
	ReadRead   ReadState = "read"
)

type NotificationCriteria struct {
	State ReadState
	// Name is a case-insensitive substring of the customer name.
	Name string
	// TransactionType must be contained in the notification's type, e.g. "Buy".
	TransactionType string
	// Date matches notifications created on the same calendar day in Date's location.
	Date *time.Time
}

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func FilterNotifications(ns []model.Notification, c NotificationCriteria) []model.Notification {
	out := make([]model.Notification, 0, len(ns))
	for _, n := range ns {
		switch c.State {
		case ReadUnread:
			if n.IsReaded {
				continue
			}
		case ReadRead:
			if !n.IsReaded {
				continue
			}
		}
		if c.Name != "" && !strings.Contains(strings.ToLower(n.CustomerName), strings.ToLower(c.Name)) {
			continue
		}
		if c.TransactionType != "" && !strings.Contains(n.TransactionType, c.TransactionType) {
			continue
		}
		if c.Date != nil && !sameDay(n.Date(), *c.Date) {
			continue
		}
		out = append(out, n)
	}
	return out
}

type NotificationStats struct {
	Total  int `json:"total"`
	Unread int `json:"unread"`
	Read   int `json:"read"`
}

func StatsOf(ns []model.Notification) NotificationStats {
	s := NotificationStats{Total: len(ns)}
	for _, n := range ns {
		if n.IsReaded {
			s.Read++
		} else {
			s.Unread++
		}
	}
	return s
}
