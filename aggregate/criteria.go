// Package aggregate holds the pure list computations behind the order,
// accounting and notification views: filtering, grouping by counterparty and
// summaries. Nothing here performs I/O.
package aggregate

import (
	"fmt"
	"strings"
	"time"

	"github.com/nitesh7079/veneer/model"
	"github.com/wacul/ptr"
)

// Criteria selects transactions. Every predicate is optional and the set
// predicates are AND-ed.
type Criteria struct {
	// Name is a case-insensitive substring of the counterparty.
	Name string
	// From and To bound CreatedAt inclusively.
	From *time.Time
	To   *time.Time
	// Category must equal Category (other kinds) or Under (buy and sell).
	Category string
}

func (c Criteria) IsZero() bool {
	return c.Name == "" && c.From == nil && c.To == nil && c.Category == ""
}

// Match reports whether txn satisfies every set predicate.
func (c Criteria) Match(txn *model.Transaction) bool {
	if c.Name != "" && !strings.Contains(strings.ToLower(txn.Counterparty()), strings.ToLower(c.Name)) {
		return false
	}
	if c.From != nil && txn.CreatedAt.Before(*c.From) {
		return false
	}
	if c.To != nil && txn.CreatedAt.After(*c.To) {
		return false
	}
	if c.Category != "" && categoryOf(txn) != c.Category {
		return false
	}
	return true
}

func categoryOf(txn *model.Transaction) string {
	if txn.Category != "" {
		return txn.Category
	}
	return txn.Under
}

var dateLayouts = []struct {
	layout  string
	dayOnly bool
}{
	{time.RFC3339Nano, false},
	{time.RFC3339, false},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02 15:04", false},
	{"2006-01-02", true},
	{"2006/01/02", true},
	{"02-01-2006", true},
	{"02/01/2006", true},
}

// ParseDate parses s in loc. dayOnly reports a layout without a time of day.
func ParseDate(s string, loc *time.Location) (t time.Time, dayOnly bool, err error) {
	s = strings.TrimSpace(s)
	for _, l := range dateLayouts {
		if t, err := time.ParseInLocation(l.layout, s, loc); err == nil {
			return t, l.dayOnly, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unable to parse date %q: use YYYY-MM-DD", s)
}

// EndOfDay is the last millisecond of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// ParseCriteria builds Criteria from command line strings. Empty strings leave
// the predicate unset. A date-only `to` covers its whole day.
func ParseCriteria(name, from, to, category string, loc *time.Location) (Criteria, error) {
	if loc == nil {
		loc = time.Local
	}
	c := Criteria{Name: strings.TrimSpace(name), Category: strings.TrimSpace(category)}

	if strings.TrimSpace(from) != "" {
		t, _, err := ParseDate(from, loc)
		if err != nil {
			return Criteria{}, fmt.Errorf("from: %w", err)
		}
		c.From = ptr.Time(t)
	}
	if strings.TrimSpace(to) != "" {
		t, dayOnly, err := ParseDate(to, loc)
		if err != nil {
			return Criteria{}, fmt.Errorf("to: %w", err)
		}
		if dayOnly {
			t = EndOfDay(t)
		}
		c.To = ptr.Time(t)
	}
	if c.From != nil && c.To != nil && c.To.Before(*c.From) {
		return Criteria{}, fmt.Errorf("date range is empty: %s is after %s", from, to)
	}
	return c, nil
}

// Filter returns the transactions matching c in their original order.
func Filter(txns []model.Transaction, c Criteria) []model.Transaction {
	out := make([]model.Transaction, 0, len(txns))
	for i := range txns {
		if c.Match(&txns[i]) {
			out = append(out, txns[i])
		}
	}
	return out
}
