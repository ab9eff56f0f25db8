package financial

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Application"

// WriteXLSX renders the pay application as a G-702-style workbook: header
// block, continuation sheet, and a totals row with retainage and balance
// to finish.
func WriteXLSX(pa *PayApplication, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	set := func(cell string, value interface{}) {
		// SetCellValue only fails on malformed coordinates, which are
		// fixed strings here.
		_ = f.SetCellValue(exportSheet, cell, value)
	}

	set("A1", "APPLICATION AND CERTIFICATE FOR PAYMENT")
	set("A2", fmt.Sprintf("Application No. %d", pa.Number))
	set("A3", fmt.Sprintf("Period To: %s", pa.PeriodTo.Format("January 2, 2006")))
	set("A4", fmt.Sprintf("Retainage: %.1f%%", pa.RetainagePercent))
	set("A5", fmt.Sprintf("Status: %s", pa.Status))

	headers := []string{
		"Item", "Description of Work", "Scheduled Value",
		"From Previous Application", "This Period", "Materials Presently Stored",
		"Total Completed and Stored", "%", "Balance to Finish",
	}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		set(col+"7", h)
	}

	row := 8
	for _, li := range pa.Lines {
		set(fmt.Sprintf("A%d", row), li.ItemNumber)
		set(fmt.Sprintf("B%d", row), li.Description)
		set(fmt.Sprintf("C%d", row), cents(li.ScheduledValueCents))
		set(fmt.Sprintf("D%d", row), cents(li.PreviousCompletedCents))
		set(fmt.Sprintf("E%d", row), cents(li.WorkCompletedCents))
		set(fmt.Sprintf("F%d", row), cents(li.StoredMaterialsCents))
		set(fmt.Sprintf("G%d", row), cents(li.TotalCompletedAndStoredCents()))
		set(fmt.Sprintf("H%d", row), fmt.Sprintf("%.1f%%", li.PercentComplete()))
		set(fmt.Sprintf("I%d", row), cents(li.BalanceToFinishCents()))
		row++
	}

	t := pa.Totals()
	set(fmt.Sprintf("B%d", row), "GRAND TOTAL")
	set(fmt.Sprintf("C%d", row), cents(t.ScheduledValueCents))
	set(fmt.Sprintf("G%d", row), cents(t.CompletedAndStoredCents))
	set(fmt.Sprintf("I%d", row), cents(t.BalanceToFinishCents))
	row += 2
	set(fmt.Sprintf("B%d", row), "Less Retainage")
	set(fmt.Sprintf("C%d", row), cents(t.RetainageCents))
	row++
	set(fmt.Sprintf("B%d", row), "Total Earned Less Retainage")
	set(fmt.Sprintf("C%d", row), cents(t.EarnedLessRetainageCents))

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func cents(v int64) float64 {
	return float64(v) / 100
}
