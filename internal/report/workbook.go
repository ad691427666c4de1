// Package report renders the monthly ledger summary as an XLSX workbook.
package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/dtroode/m2m-server/internal/mail"
)

// ContentType is the MIME type of a generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SheetName is the single sheet written to each workbook.
const SheetName = "Payments"

var header = []any{"Date", "Due (€)", "Gift card (€)", "Note"}

// FileName returns the attachment name for a report month.
func FileName(month string) string {
	return fmt.Sprintf("m2m-report-%s.xlsx", month)
}

// BuildWorkbook writes one row per payment followed by a totals block.
func BuildWorkbook(req mail.MonthlyReportRequest) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "D1", bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	row := 2
	for _, p := range req.Payments {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []any{p.Date, p.DueAmount.InexactFloat64(), p.GiftCardAmount.InexactFloat64(), p.Note}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write payment row: %w", err)
		}
		row++
	}
	if row > 2 {
		last, _ := excelize.CoordinatesToCellName(3, row-1)
		if err := f.SetCellStyle(SheetName, "B2", last, money); err != nil {
			return nil, fmt.Errorf("failed to style amounts: %w", err)
		}
	}

	row++
	totals := [][]any{
		{"Total due", req.TotalDue.InexactFloat64()},
		{"Total gift cards", req.TotalGiftCard.InexactFloat64()},
		{"Total earnings", req.TotalEarnings.InexactFloat64()},
	}
	for _, values := range totals {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write totals: %w", err)
		}
		label, _ := excelize.CoordinatesToCellName(1, row)
		amount, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellStyle(SheetName, label, label, bold); err != nil {
			return nil, fmt.Errorf("failed to style totals: %w", err)
		}
		if err := f.SetCellStyle(SheetName, amount, amount, money); err != nil {
			return nil, fmt.Errorf("failed to style totals: %w", err)
		}
		row++
	}

	if err := f.SetColWidth(SheetName, "A", "C", 16); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetColWidth(SheetName, "D", "D", 40); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}
