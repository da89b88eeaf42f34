// Package export writes the grouped transaction view as an xlsx workbook.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/nitesh7079/veneer/aggregate"
	"github.com/nitesh7079/veneer/model"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet = "Summary"
	DetailSheet  = "Transactions"
	dateLayout   = "2006-01-02"
)

var (
	summaryHeaders = []interface{}{"Counterparty", "Transactions", "Total Amount", "Total Paid", "Due", "Status"}
	detailHeaders  = []interface{}{"Order", "Counterparty", "Item / Category", "Amount", "Paid", "Due", "Status", "Mode", "Deadline", "Created"}
)

// Report is what goes into one workbook.
type Report struct {
	Kind        model.Kind
	Groups      []aggregate.Group
	Totals      aggregate.Group
	GeneratedAt time.Time
}

// Write renders r as a workbook with a per-counterparty summary sheet and a
// detail sheet listing every transaction group by group.
func Write(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(DetailSheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%ss generated %s", r.Kind.Label(), r.GeneratedAt.Format("2006-01-02 15:04"))
	if err := f.SetCellValue(SummarySheet, "A1", title); err != nil {
		return err
	}
	if err := writeRow(f, SummarySheet, 3, summaryHeaders); err != nil {
		return err
	}
	row := 4
	for _, g := range r.Groups {
		if err := writeRow(f, SummarySheet, row, groupRow(g.Name, g)); err != nil {
			return err
		}
		row++
	}
	if err := writeRow(f, SummarySheet, row, groupRow("Total", r.Totals)); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A3", "F3", bold); err != nil {
		return err
	}
	last := fmt.Sprintf("F%d", row)
	if err := f.SetCellStyle(SummarySheet, fmt.Sprintf("A%d", row), last, bold); err != nil {
		return err
	}

	if err := writeRow(f, DetailSheet, 1, detailHeaders); err != nil {
		return err
	}
	if err := f.SetCellStyle(DetailSheet, "A1", "J1", bold); err != nil {
		return err
	}
	row = 2
	for _, g := range r.Groups {
		for i := range g.Transactions {
			if err := writeRow(f, DetailSheet, row, detailRow(&g.Transactions[i])); err != nil {
				return err
			}
			row++
		}
	}

	_ = f.SetColWidth(SummarySheet, "A", "A", 28)
	_ = f.SetColWidth(SummarySheet, "B", "F", 14)
	_ = f.SetColWidth(DetailSheet, "A", "J", 16)
	f.SetActiveSheet(0)

	return f.Write(w)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func groupRow(name string, g aggregate.Group) []interface{} {
	status := string(model.StatusPending)
	if g.AllConfirmed {
		status = string(model.StatusConfirmed)
	}
	return []interface{}{name, g.Count, money(g.TotalAmount), money(g.TotalPaid), money(g.Due), status}
}

func detailRow(t *model.Transaction) []interface{} {
	item := t.ItemName
	if item == "" {
		item = t.Category
	}
	deadline := ""
	if t.PaymentDeadline != nil {
		deadline = t.PaymentDeadline.Format(dateLayout)
	}
	order := ""
	if t.OrderNumber > 0 {
		order = fmt.Sprintf("#%d", t.OrderNumber)
	}
	return []interface{}{
		order, t.Counterparty(), item,
		money(t.Amount), money(t.TotalPaid()), money(t.Due()),
		string(t.PaymentStatus), t.ModeofPayment, deadline, t.CreatedAt.Format(dateLayout),
	}
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
