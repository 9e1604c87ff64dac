package leave

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// RenderStatement draws the balance summary and its ledger, newest first, as
// an A4 PDF.
func RenderStatement(b *LeaveBalance, lt *LeaveType, transactions []LeaveTransaction) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Leave Balance Statement")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	leaveType := fmt.Sprintf("#%d", b.LeaveTypeID)
	if lt != nil {
		leaveType = fmt.Sprintf("%s (%s)", lt.Name, lt.Code)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %d", b.EmployeeID))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Leave type: %s", leaveType))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Year: %d    Status: %s", b.Year, b.Status))
	pdf.Ln(10)

	summary := []struct {
		label string
		value string
	}{
		{"Beginning balance", b.BeginningBalance.StringFixed(2)},
		{"Earned", b.Earned.StringFixed(2)},
		{"Carried over", b.CarriedOver.StringFixed(2)},
		{"Used", b.Used.StringFixed(2)},
		{"Encashed", b.Encashed.StringFixed(2)},
		{"Remaining", b.Remaining.StringFixed(2)},
	}
	for _, row := range summary {
		pdf.CellFormat(60, 7, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, row.value, "1", 1, "R", false, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 11)
	headers := []string{"Date", "Type", "Days", "Remarks", "By"}
	widths := []float64{30, 28, 20, 82, 30}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, tx := range transactions {
		pdf.CellFormat(widths[0], 6, tx.CreatedAt.Format("2006-01-02"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, string(tx.TransactionType), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, tx.Days.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, truncate(tx.Remarks, 48), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 6, truncate(tx.CreatedBy, 16), "1", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

// Statement loads a balance with its ledger and renders it.
func (s *Service) Statement(ctx context.Context, balanceID int64) ([]byte, error) {
	b, err := s.loadBalance(ctx, balanceID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repos.Transactions.FindByBalance(ctx, balanceID)
	if err != nil {
		return nil, internal("list leave transactions", err)
	}
	lt, err := s.repos.LeaveTypes.FindByID(ctx, b.LeaveTypeID)
	if err != nil {
		return nil, internal("load leave type", err)
	}
	doc, err := RenderStatement(b, lt, rows)
	if err != nil {
		return nil, internal("render leave statement", err)
	}
	return doc, nil
}
