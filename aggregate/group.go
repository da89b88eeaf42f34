package aggregate

import (
	"sort"
	"strings"

	"github.com/nitesh7079/veneer/model"
	"github.com/shopspring/decimal"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Group is every transaction of one counterparty with its running totals.
type Group struct {
	Name         string
	Transactions []model.Transaction
	Count        int
	TotalAmount  decimal.Decimal
	TotalPaid    decimal.Decimal
	Due          decimal.Decimal
	// AllConfirmed is true for an empty group.
	AllConfirmed bool
}

func newGroup(name string) *Group {
	return &Group{Name: name, TotalAmount: decimal.Zero, TotalPaid: decimal.Zero, Due: decimal.Zero, AllConfirmed: true}
}

func (g *Group) add(txn model.Transaction) {
	g.Transactions = append(g.Transactions, txn)
	g.Count++
	g.TotalAmount = g.TotalAmount.Add(txn.Amount)
	g.TotalPaid = g.TotalPaid.Add(txn.TotalPaid())
	g.Due = g.TotalAmount.Sub(g.TotalPaid)
	g.AllConfirmed = g.AllConfirmed && txn.IsConfirmed()
}

// GroupByCounterparty groups by the exact counterparty string. Groups appear
// in first-seen order and keep the original order of their members.
func GroupByCounterparty(txns []model.Transaction) []Group {
	index := make(map[string]int)
	groups := make([]*Group, 0)
	for _, txn := range txns {
		name := txn.Counterparty()
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, newGroup(name))
		}
		groups[i].add(txn)
	}

	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = *g
	}
	return out
}

// Summarize filters then groups.
func Summarize(txns []model.Transaction, c Criteria) []Group {
	return GroupByCounterparty(Filter(txns, c))
}

// Totals folds a set of groups into one.
func Totals(groups []Group) Group {
	total := newGroup("")
	for _, g := range groups {
		total.Count += g.Count
		total.TotalAmount = total.TotalAmount.Add(g.TotalAmount)
		total.TotalPaid = total.TotalPaid.Add(g.TotalPaid)
		total.AllConfirmed = total.AllConfirmed && g.AllConfirmed
	}
	total.Due = total.TotalAmount.Sub(total.TotalPaid)
	return *total
}

// Suggest lists one transaction per counterparty whose name contains input,
// ignoring case. The first occurrence of each name is kept so callers can
// prefill contact details from it.
func Suggest(txns []model.Transaction, input string) []model.Transaction {
	needle := strings.ToLower(strings.TrimSpace(input))
	if needle == "" {
		return nil
	}
	seen := make(map[string]bool)
	var out []model.Transaction
	for _, txn := range txns {
		name := txn.Counterparty()
		if seen[name] || !strings.Contains(strings.ToLower(name), needle) {
			continue
		}
		seen[name] = true
		out = append(out, txn)
	}
	return out
}

// SimilarPair is two group names that probably denote the same counterparty.
type SimilarPair struct {
	A, B     string
	Distance int
}

// DefaultSimilarity is the edit distance under which two names are flagged.
const DefaultSimilarity = 2

// SimilarCounterparties flags group names that differ only in case or
// surrounding space, or within maxDistance edits of each other once
// lowercased. Grouping itself is left untouched.
func SimilarCounterparties(groups []Group, maxDistance int) []SimilarPair {
	var pairs []SimilarPair
	for i := 0; i < len(groups); i++ {
		a := normalizeName(groups[i].Name)
		for j := i + 1; j < len(groups); j++ {
			b := normalizeName(groups[j].Name)
			d := levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptionsWithSub)
			if d <= maxDistance && shortEnough(a, b, d) {
				pairs = append(pairs, SimilarPair{A: groups[i].Name, B: groups[j].Name, Distance: d})
			}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Distance < pairs[j].Distance
	})
	return pairs
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// shortEnough rejects matches where the edits make up most of a short name,
// such as "Ram" and "Raj".
func shortEnough(a, b string, d int) bool {
	if d == 0 {
		return true
	}
	shortest := len([]rune(a))
	if n := len([]rune(b)); n < shortest {
		shortest = n
	}
	return shortest >= 3*d+1
}
