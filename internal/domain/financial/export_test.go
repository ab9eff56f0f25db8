package financial

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	pa := sampleApp()

	var buf bytes.Buffer
	if err := WriteXLSX(pa, &buf); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	cell := func(ref string) string {
		t.Helper()
		v, err := f.GetCellValue(exportSheet, ref)
		if err != nil {
			t.Fatalf("read %s: %v", ref, err)
		}
		return v
	}

	if got := cell("A2"); got != "Application No. 3" {
		t.Errorf("A2 = %q", got)
	}
	if got := cell("B8"); got != "Sitework" {
		t.Errorf("B8 = %q", got)
	}
	// Line 1: 5000 previous + 2500 this period of 10000 scheduled.
	if got := cell("G8"); got != "7500" {
		t.Errorf("G8 = %q", got)
	}
	if got := cell("H8"); got != "75.0%" {
		t.Errorf("H8 = %q", got)
	}
	// Grand total row follows the two lines.
	if got := cell("B10"); got != "GRAND TOTAL" {
		t.Errorf("B10 = %q", got)
	}
	if got := cell("C10"); got != "30000" {
		t.Errorf("C10 = %q", got)
	}
	if got := cell("B12"); got != "Less Retainage" {
		t.Errorf("B12 = %q", got)
	}
	if got := cell("C12"); got != "1250" {
		t.Errorf("C12 = %q", got)
	}
}
